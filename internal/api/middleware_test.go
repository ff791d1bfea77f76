package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/service"
	"github.com/hiphil2000/IB.React/internal/storage/memory"
	"github.com/hiphil2000/IB.React/internal/util"
)

var mwTestUser = models.User{
	UserNo:   7,
	UserID:   "carol",
	Password: "secret",
	UserName: "Carol",
	Role:     models.RoleAdmin,
}

func newMwJwtService(t *testing.T) *service.JwtService {
	t.Helper()

	cfg := &util.JwtConfig{
		Issuer:    "IB.React",
		Audience:  "IB.React",
		SecretKey: []byte("middleware-test-key"),
		Algorithm: "sha256",
		Cookies: util.CookieConfig{
			AccessToken:  util.TokenCookieConfig{Name: "access_token", Expiry: 15 * time.Minute},
			RefreshToken: util.TokenCookieConfig{Name: "refresh_token", Expiry: 24 * time.Hour},
		},
	}

	svc, err := service.NewJwtService(cfg, memory.NewTokenRepository(), memory.NewUserRepository(mwTestUser), zap.NewNop().Sugar())
	require.NoError(t, err)
	return svc
}

func newMwContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestJwtAuthMiddleware(t *testing.T) {
	ctx := context.Background()

	t.Run("no cookies", func(t *testing.T) {
		svc := newMwJwtService(t)
		c, _ := newMwContext()

		err := JwtAuthMiddleware(svc)(okHandler)(c)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("both invalid", func(t *testing.T) {
		svc := newMwJwtService(t)
		c, _ := newMwContext(
			&http.Cookie{Name: "access_token", Value: "bad"},
			&http.Cookie{Name: "refresh_token", Value: "worse"},
		)

		err := JwtAuthMiddleware(svc)(okHandler)(c)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("valid access token", func(t *testing.T) {
		svc := newMwJwtService(t)
		access, err := svc.CreateToken(ctx, models.AccessToken, mwTestUser.UserNo)
		require.NoError(t, err)

		c, rec := newMwContext(&http.Cookie{Name: "access_token", Value: access})

		require.NoError(t, JwtAuthMiddleware(svc)(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.RoleAdmin, c.Get(models.MwRoleKey))
	})

	t.Run("refresh only reissues access", func(t *testing.T) {
		svc := newMwJwtService(t)
		refresh, err := svc.CreateToken(ctx, models.RefreshToken, mwTestUser.UserNo)
		require.NoError(t, err)

		c, rec := newMwContext(&http.Cookie{Name: "refresh_token", Value: refresh})

		require.NoError(t, JwtAuthMiddleware(svc)(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var reissued string
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == "access_token" {
				reissued = cookie.Value
			}
		}
		require.NotEmpty(t, reissued)
		assert.True(t, svc.IsValid(ctx, reissued))
		assert.Equal(t, models.RoleAdmin, c.Get(models.MwRoleKey))
	})
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		role     interface{}
		allowed  []string
		wantCode int
	}{
		{name: "allowed role", role: models.RoleAdmin, allowed: []string{models.RoleAdmin}, wantCode: http.StatusOK},
		{name: "one of several", role: models.RoleUser, allowed: []string{models.RoleUser, models.RoleAdmin}, wantCode: http.StatusOK},
		{name: "forbidden role", role: models.RoleUser, allowed: []string{models.RoleAdmin}, wantCode: http.StatusForbidden},
		{name: "case sensitive", role: "admin", allowed: []string{models.RoleAdmin}, wantCode: http.StatusForbidden},
		{name: "missing role claim", role: nil, allowed: []string{models.RoleAdmin}, wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newMwContext()
			if tt.role != nil {
				c.Set(models.MwRoleKey, tt.role)
			}

			err := RequireRoles(tt.allowed...)(okHandler)(c)

			if tt.wantCode == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}

			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.wantCode, he.Code)
		})
	}
}
