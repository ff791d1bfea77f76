package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/service"
	"github.com/hiphil2000/IB.React/internal/storage"
	"github.com/hiphil2000/IB.React/internal/util"
)

// loginMismatchMessage is the only message a failed login ever reports; it
// does not say which field was wrong, and infrastructure errors are logged
// instead of leaked.
const loginMismatchMessage = "mismatch ID or Password."

// Login handles POST /api/Auth/Login. A successful login responds with the
// token pair and sets both token cookies.
func (ct *Controller) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, loginFailure())
	}

	meta := models.LoginEvent{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}

	user, pair, err := ct.authService.Login(c.Request().Context(), req.UserID, req.Password, meta)
	if err != nil {
		if !errors.Is(err, service.ErrLoginMismatch) {
			ct.log.Errorw("login failed", "userId", req.UserID, "error", err)
		}
		return c.JSON(http.StatusOK, loginFailure())
	}

	ct.jwtService.AddCookies(c, pair.AccessToken, pair.RefreshToken)

	return c.JSON(http.StatusOK, models.CommonResponse{
		Success: true,
		Data: models.AuthenticationResult{
			Token: pair,
			User:  user,
		},
	})
}

func loginFailure() models.CommonResponse {
	return models.CommonResponse{
		Success: false,
		Data:    models.AuthenticationResult{},
		Message: loginMismatchMessage,
	}
}

// Logout handles POST /api/Auth/Logout: both tokens are revoked in the
// store and both cookies deleted. It answers 200 OK whether or not any
// cookie existed.
func (ct *Controller) Logout(c echo.Context) error {
	accessToken := ct.jwtService.GetJwtToken(c, models.AccessToken)
	refreshToken := ct.jwtService.GetJwtToken(c, models.RefreshToken)

	if accessToken == "" && refreshToken == "" {
		return c.NoContent(http.StatusOK)
	}

	ct.jwtService.RemoveCookies(c, models.AccessToken)
	ct.jwtService.RemoveCookies(c, models.RefreshToken)

	return c.NoContent(http.StatusOK)
}

// CurrentUser handles GET /api/Auth/CurrentUser, resolving the user from
// whichever valid token cookie is present.
func (ct *Controller) CurrentUser(c echo.Context) error {
	payload := ct.jwtService.GetJwtPayload(c)

	var user *models.User
	if payload != nil {
		found, err := ct.users.GetUser(c.Request().Context(), payload.UserNo)
		if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
			ct.log.Warnw("current user lookup failed", "userNo", payload.UserNo, "error", err)
		}
		user = found
	}

	return c.JSON(http.StatusOK, models.CommonResponse{
		Success: user != nil,
		Data:    user,
	})
}

// ValidateToken handles POST /api/Auth/ValidateToken, reflecting the
// current validity of whichever token cookie is present.
func (ct *Controller) ValidateToken(c echo.Context) error {
	payload := ct.jwtService.GetJwtPayload(c)
	valid := ct.jwtService.IsValidPayload(c.Request().Context(), payload)

	var data interface{}
	if valid {
		data = payload
	}

	return c.JSON(http.StatusOK, models.CommonResponse{
		Success: valid,
		Data:    data,
	})
}

// Users handles GET /api/Auth/Users (role Admin).
func (ct *Controller) Users(c echo.Context) error {
	users, err := ct.users.GetUsers(c.Request().Context())
	if err != nil {
		ct.log.Errorw("user listing failed", "error", err)
		return util.NewResponseError(http.StatusInternalServerError, "failed to list users")
	}

	if users == nil {
		users = []models.User{}
	}

	return c.JSON(http.StatusOK, models.CommonResponse{
		Success: true,
		Data:    users,
	})
}
