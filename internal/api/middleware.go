package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/service"
	storageredis "github.com/hiphil2000/IB.React/internal/storage/redis"
)

// authState names every outcome of the per-request cookie classification.
// Each request passes through this machine exactly once; there is no retry.
type authState int

const (
	authNoCookie authState = iota
	authBothInvalid
	authAccessValid
	authRefreshOnly
)

// JwtAuthMiddleware authenticates a request from its token cookies and, on
// a refresh-only session, reissues the access token before the request
// proceeds. On success the role claim is stored in the echo context for
// RequireRoles.
func JwtAuthMiddleware(jwtService *service.JwtService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state, payload := classify(c, jwtService)

			switch state {
			case authNoCookie:
				return echo.NewHTTPError(http.StatusUnauthorized, "there is no token to authenticate")
			case authBothInvalid:
				return echo.NewHTTPError(http.StatusUnauthorized, "tokens are invalid")
			case authRefreshOnly:
				accessToken := jwtService.GetJwtToken(c, models.AccessToken)
				refreshToken := jwtService.GetJwtToken(c, models.RefreshToken)
				if err := jwtService.ReissueToken(c, accessToken, refreshToken); err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "token reissue failed")
				}
			case authAccessValid:
			}

			c.Set(models.MwRoleKey, payload.Role)

			return next(c)
		}
	}
}

// classify runs the cookie state machine: access-token validity is the
// primary trust anchor, the refresh token only matters once the access
// token has failed.
func classify(c echo.Context, jwtService *service.JwtService) (authState, *models.JwtPayload) {
	ctx := c.Request().Context()

	accessToken := jwtService.GetJwtToken(c, models.AccessToken)
	refreshToken := jwtService.GetJwtToken(c, models.RefreshToken)

	if accessToken == "" && refreshToken == "" {
		return authNoCookie, nil
	}

	if jwtService.IsValid(ctx, accessToken) {
		return authAccessValid, jwtService.DecodeToken(accessToken)
	}

	if jwtService.IsValid(ctx, refreshToken) {
		// Prefer the access payload when it still decodes; fall back to
		// the refresh payload.
		payload := jwtService.DecodeToken(accessToken)
		if payload == nil {
			payload = jwtService.DecodeToken(refreshToken)
		}
		return authRefreshOnly, payload
	}

	return authBothInvalid, nil
}

// RequireRoles authorizes the request when the role claim matches one of
// the given names. Comparison is case-sensitive.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(models.MwRoleKey).(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "there is no role claim")
			}

			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "role is not allowed")
		}
	}
}

// LoginRateLimitMiddleware throttles login attempts per client IP. A
// limiter outage fails open: availability wins over strictness here.
func LoginRateLimitMiddleware(limiter *storageredis.LoginLimiter, log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warnw("login limiter unavailable", "error", err)
				return next(c)
			}
			if !ok {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
			}
			return next(c)
		}
	}
}

func GetLoggerMiddlewareConfig(a *API) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				a.log.Errorw("Request", fields...)
			} else {
				a.log.Infow("Request", fields...)
			}
			return nil
		},
	}
}
