package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage"
)

// ErrLoginMismatch deliberately does not say which of the two fields was
// wrong.
var ErrLoginMismatch = errors.New("mismatch ID or Password.")

// AuthService orchestrates login: credential check, token pair issuance
// and the optional login notification.
type AuthService struct {
	jwt     *JwtService
	users   storage.UserRepository
	webhook *WebhookService
	log     *zap.SugaredLogger
}

func NewAuthService(jwtService *JwtService, users storage.UserRepository, webhook *WebhookService, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		jwt:     jwtService,
		users:   users,
		webhook: webhook,
		log:     log,
	}
}

// Login resolves the credentials and mints an access/refresh token pair
// for the matched user. An unmatched id/password pair returns
// ErrLoginMismatch; anything else is a wrapped infrastructure error.
func (s *AuthService) Login(ctx context.Context, userID, password string, meta models.LoginEvent) (*models.User, *models.TokenPair, error) {
	user, err := s.users.Login(ctx, userID, password)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, nil, ErrLoginMismatch
		}
		return nil, nil, fmt.Errorf("login lookup: %w", err)
	}

	accessToken, err := s.jwt.CreateToken(ctx, models.AccessToken, user.UserNo)
	if err != nil {
		return nil, nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.jwt.CreateToken(ctx, models.RefreshToken, user.UserNo)
	if err != nil {
		return nil, nil, fmt.Errorf("issue refresh token: %w", err)
	}

	meta.UserNo = user.UserNo
	meta.UserID = user.UserID
	s.webhook.NotifyLogin(ctx, meta)

	return user, &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
