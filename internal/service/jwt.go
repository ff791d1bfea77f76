package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage"
	"github.com/hiphil2000/IB.React/internal/util"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown signing algorithm")
	ErrTokenNotRecorded = errors.New("token could not be recorded")
)

// Custom claim names carried next to the registered ones.
const (
	claimUserNo = "userNo"
	claimRole   = "role"
)

// JwtService owns the token lifecycle: issuance, validation, reissue and
// cookie placement. Validation is two-step: the codec verifies signature
// and expiry, the token repository answers whether the id is still active.
type JwtService struct {
	issuer    string
	audience  string
	secretKey []byte
	method    jwt.SigningMethod
	cookies   util.CookieConfig
	tokens    storage.TokenRepository
	users     storage.UserRepository
	log       *zap.SugaredLogger

	now func() time.Time
}

// NewJwtService rejects unknown algorithm names instead of downgrading to
// an unsigned token.
func NewJwtService(cfg *util.JwtConfig, tokens storage.TokenRepository, users storage.UserRepository, log *zap.SugaredLogger) (*JwtService, error) {
	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	return &JwtService{
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		secretKey: cfg.SecretKey,
		method:    method,
		cookies:   cfg.Cookies,
		tokens:    tokens,
		users:     users,
		log:       log,
		now:       time.Now,
	}, nil
}

// signingMethod maps a configured algorithm name onto the closed set of
// HMAC-SHA variants.
func signingMethod(algorithm string) (jwt.SigningMethod, error) {
	switch strings.ToLower(algorithm) {
	case "sha256":
		return jwt.SigningMethodHS256, nil
	case "sha384":
		return jwt.SigningMethodHS384, nil
	case "sha512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// CreateToken issues a token of the given kind for userNo and durably
// records its metadata before returning the encoded string. A missing user
// is an error, not a silently unusable token.
func (s *JwtService) CreateToken(ctx context.Context, kind models.TokenType, userNo int64) (string, error) {
	user, err := s.users.GetUser(ctx, userNo)
	if err != nil {
		return "", fmt.Errorf("resolve token owner %d: %w", userNo, err)
	}

	tokenID := uuid.NewString()
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.expiry(kind))

	claims := jwt.MapClaims{
		"jti":       tokenID,
		"iss":       s.issuer,
		"aud":       s.audience,
		"sub":       string(kind),
		"iat":       jwt.NewNumericDate(issuedAt),
		"exp":       jwt.NewNumericDate(expiresAt),
		claimUserNo: strconv.FormatInt(userNo, 10),
		claimRole:   user.Role,
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	record := models.TokenRecord{
		TokenID:   tokenID,
		UserNo:    userNo,
		Subject:   kind,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		Signature: signed[strings.LastIndex(signed, ".")+1:],
	}
	if err := s.tokens.AddToken(ctx, record); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenNotRecorded, err)
	}

	return signed, nil
}

// EncodeToken re-signs an already decoded payload. A nil payload encodes
// to the empty string.
func (s *JwtService) EncodeToken(payload *models.JwtPayload) (string, error) {
	if payload == nil {
		return "", nil
	}

	claims := jwt.MapClaims{
		"jti":       payload.JwtID,
		"iss":       payload.Issuer,
		"aud":       payload.Audience,
		"sub":       string(payload.Subject),
		"iat":       jwt.NewNumericDate(payload.IssuedAt),
		"exp":       jwt.NewNumericDate(payload.ExpirationTime),
		claimUserNo: strconv.FormatInt(payload.UserNo, 10),
		claimRole:   payload.Role,
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return signed, nil
}

// DecodeToken verifies signature and expiry and returns the payload, or
// nil for empty input, a bad signature, an expired token or any malformed
// claim. No error crosses this boundary.
func (s *JwtService) DecodeToken(token string) *models.JwtPayload {
	if token == "" {
		return nil
	}

	parsed, err := jwt.Parse(
		token,
		func(*jwt.Token) (interface{}, error) { return s.secretKey, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return payloadFromClaims(claims)
}

// payloadFromClaims builds a payload only when every required claim parses
// to its expected type. Anything less yields nil, never a partial payload.
func payloadFromClaims(claims jwt.MapClaims) *models.JwtPayload {
	jwtID, ok := claims["jti"].(string)
	if !ok {
		return nil
	}
	if _, err := uuid.Parse(jwtID); err != nil {
		return nil
	}

	issuer, ok := claims["iss"].(string)
	if !ok || issuer == "" {
		return nil
	}
	audience, ok := claims["aud"].(string)
	if !ok || audience == "" {
		return nil
	}

	subject, ok := claims["sub"].(string)
	if !ok {
		return nil
	}
	kind, ok := models.ParseTokenType(subject)
	if !ok {
		return nil
	}

	userNoStr, ok := claims[claimUserNo].(string)
	if !ok {
		return nil
	}
	userNo, err := strconv.ParseInt(userNoStr, 10, 64)
	if err != nil {
		return nil
	}

	role, ok := claims[claimRole].(string)
	if !ok || role == "" {
		return nil
	}

	issuedAt, ok := claims["iat"].(float64)
	if !ok {
		return nil
	}
	expiresAt, ok := claims["exp"].(float64)
	if !ok {
		return nil
	}

	return &models.JwtPayload{
		JwtID:          jwtID,
		Issuer:         issuer,
		Audience:       audience,
		UserNo:         userNo,
		Role:           role,
		IssuedAt:       time.Unix(int64(issuedAt), 0),
		ExpirationTime: time.Unix(int64(expiresAt), 0),
		Subject:        kind,
	}
}

// IsValid is true only when the token decodes cleanly and its id is still
// recorded as active. A well-formed but revoked token is invalid.
func (s *JwtService) IsValid(ctx context.Context, token string) bool {
	return s.IsValidPayload(ctx, s.DecodeToken(token))
}

func (s *JwtService) IsValidPayload(ctx context.Context, payload *models.JwtPayload) bool {
	if payload == nil {
		return false
	}

	active, err := s.tokens.IsUsingToken(ctx, payload.JwtID)
	if err != nil {
		s.log.Warnw("token store check failed", "tokenID", payload.JwtID, "error", err)
		return false
	}
	return active
}

// ReissueToken is the four-way reissue decision. Access-token validity is
// checked first: a valid access token only ever triggers a refresh-token
// renewal, and a refresh-only session silently extends access.
func (s *JwtService) ReissueToken(c echo.Context, accessToken, refreshToken string) error {
	ctx := c.Request().Context()

	switch {
	case s.IsValid(ctx, accessToken):
		if s.IsValid(ctx, refreshToken) {
			return nil
		}
		payload := s.DecodeToken(accessToken)
		newRefresh, err := s.CreateToken(ctx, models.RefreshToken, payload.UserNo)
		if err != nil {
			return fmt.Errorf("reissue refresh token: %w", err)
		}
		s.AddCookie(c, models.RefreshToken, newRefresh)

	case s.IsValid(ctx, refreshToken):
		payload := s.DecodeToken(refreshToken)
		newAccess, err := s.CreateToken(ctx, models.AccessToken, payload.UserNo)
		if err != nil {
			return fmt.Errorf("reissue access token: %w", err)
		}
		s.AddCookie(c, models.AccessToken, newAccess)
	}

	// Both invalid: nothing to extend, the caller must re-authenticate.
	return nil
}

// AddCookie places the token in its cookie, with the cookie expiry synced
// to the token's own embedded expiry.
func (s *JwtService) AddCookie(c echo.Context, kind models.TokenType, token string) {
	var expires time.Time
	if payload := s.DecodeToken(token); payload != nil {
		expires = payload.ExpirationTime
	}

	c.SetCookie(&http.Cookie{
		Name:     s.cookieName(kind),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
	})
}

func (s *JwtService) AddCookies(c echo.Context, accessToken, refreshToken string) {
	s.AddCookie(c, models.AccessToken, accessToken)
	s.AddCookie(c, models.RefreshToken, refreshToken)
}

// RemoveCookies revokes the token carried by the kind's cookie and deletes
// the cookie. A request without that cookie is a no-op.
func (s *JwtService) RemoveCookies(c echo.Context, kind models.TokenType) {
	payload := s.GetJwtPayloadByType(c, kind)
	if payload == nil {
		return
	}

	if err := s.tokens.RemoveToken(c.Request().Context(), payload.JwtID); err != nil &&
		!errors.Is(err, storage.ErrTokenNotFound) {
		s.log.Warnw("token revocation failed", "tokenID", payload.JwtID, "error", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     s.cookieName(kind),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	})
}

// GetJwtToken returns the raw token carried by the kind's cookie, or the
// empty string.
func (s *JwtService) GetJwtToken(c echo.Context, kind models.TokenType) string {
	cookie, err := c.Cookie(s.cookieName(kind))
	if err != nil {
		return ""
	}
	return cookie.Value
}

// GetJwtPayload decodes whichever token cookie is present, trying the
// access token first.
func (s *JwtService) GetJwtPayload(c echo.Context) *models.JwtPayload {
	if payload := s.GetJwtPayloadByType(c, models.AccessToken); payload != nil {
		return payload
	}
	return s.GetJwtPayloadByType(c, models.RefreshToken)
}

func (s *JwtService) GetJwtPayloadByType(c echo.Context, kind models.TokenType) *models.JwtPayload {
	token := s.GetJwtToken(c, kind)
	if token == "" {
		return nil
	}
	return s.DecodeToken(token)
}

func (s *JwtService) cookieName(kind models.TokenType) string {
	if kind == models.RefreshToken {
		return s.cookies.RefreshToken.Name
	}
	return s.cookies.AccessToken.Name
}

func (s *JwtService) expiry(kind models.TokenType) time.Duration {
	if kind == models.RefreshToken {
		return s.cookies.RefreshToken.Expiry
	}
	return s.cookies.AccessToken.Expiry
}
