package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage/memory"
	"github.com/hiphil2000/IB.React/internal/util"
)

var testUser = models.User{
	UserNo:   1,
	UserID:   "alice",
	Password: "secret",
	UserName: "Alice",
	Role:     models.RoleUser,
}

func testJwtConfig() *util.JwtConfig {
	return &util.JwtConfig{
		Issuer:    "IB.React",
		Audience:  "IB.React",
		SecretKey: []byte("test-secret-key"),
		Algorithm: "sha256",
		Cookies: util.CookieConfig{
			AccessToken:  util.TokenCookieConfig{Name: "access_token", Expiry: 15 * time.Minute},
			RefreshToken: util.TokenCookieConfig{Name: "refresh_token", Expiry: 24 * time.Hour},
		},
	}
}

func newTestJwtService(t *testing.T, users ...models.User) (*JwtService, *memory.InMemoryTokenManager) {
	t.Helper()

	tokens := memory.NewTokenRepository()
	svc, err := NewJwtService(testJwtConfig(), tokens, memory.NewUserRepository(users...), zap.NewNop().Sugar())
	require.NoError(t, err)
	return svc, tokens
}

func newEchoContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestNewJwtService_Algorithms(t *testing.T) {
	tests := []struct {
		algorithm string
		wantErr   bool
	}{
		{algorithm: "sha256"},
		{algorithm: "sha384"},
		{algorithm: "SHA512"},
		{algorithm: "md5", wantErr: true},
		{algorithm: "none", wantErr: true},
		{algorithm: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			cfg := testJwtConfig()
			cfg.Algorithm = tt.algorithm

			_, err := NewJwtService(cfg, memory.NewTokenRepository(), memory.NewUserRepository(), zap.NewNop().Sugar())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownAlgorithm)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestJwtService(t, testUser)

	token, err := svc.CreateToken(ctx, models.AccessToken, testUser.UserNo)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload := svc.DecodeToken(token)
	require.NotNil(t, payload)
	assert.Equal(t, testUser.UserNo, payload.UserNo)
	assert.Equal(t, models.RoleUser, payload.Role)
	assert.Equal(t, models.AccessToken, payload.Subject)
	assert.Equal(t, "IB.React", payload.Issuer)
	assert.Equal(t, "IB.React", payload.Audience)
	assert.True(t, payload.ExpirationTime.After(payload.IssuedAt))

	assert.True(t, svc.IsValid(ctx, token))
}

func TestCreateToken_UnknownUser(t *testing.T) {
	svc, _ := newTestJwtService(t, testUser)

	_, err := svc.CreateToken(context.Background(), models.AccessToken, 999)
	assert.Error(t, err)
}

func TestDecodeToken_Invalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestJwtService(t, testUser)

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, svc.DecodeToken(""))
	})

	t.Run("garbage", func(t *testing.T) {
		assert.Nil(t, svc.DecodeToken("not.a.token"))
	})

	t.Run("wrong key", func(t *testing.T) {
		otherCfg := testJwtConfig()
		otherCfg.SecretKey = []byte("another-secret")
		other, err := NewJwtService(otherCfg, memory.NewTokenRepository(), memory.NewUserRepository(testUser), zap.NewNop().Sugar())
		require.NoError(t, err)

		token, err := other.CreateToken(ctx, models.AccessToken, testUser.UserNo)
		require.NoError(t, err)

		assert.Nil(t, svc.DecodeToken(token))
	})

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := svc.CreateToken(ctx, models.AccessToken, testUser.UserNo)
		require.NoError(t, err)
		svc.now = time.Now

		assert.Nil(t, svc.DecodeToken(token))
	})

	t.Run("unknown subject", func(t *testing.T) {
		token := signTestToken(t, svc, func(claims jwt.MapClaims) {
			claims["sub"] = "session_token"
		})
		assert.Nil(t, svc.DecodeToken(token))
	})

	t.Run("missing role", func(t *testing.T) {
		token := signTestToken(t, svc, func(claims jwt.MapClaims) {
			delete(claims, "role")
		})
		assert.Nil(t, svc.DecodeToken(token))
	})

	t.Run("non uuid id", func(t *testing.T) {
		token := signTestToken(t, svc, func(claims jwt.MapClaims) {
			claims["jti"] = "42"
		})
		assert.Nil(t, svc.DecodeToken(token))
	})
}

// signTestToken signs a well-formed claim set after applying mutate,
// bypassing CreateToken so malformed claims can be produced.
func signTestToken(t *testing.T, svc *JwtService, mutate func(jwt.MapClaims)) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"jti":    "b4b7a5a9-51cc-4b6e-b7b3-10a2f153e58f",
		"iss":    svc.issuer,
		"aud":    svc.audience,
		"sub":    string(models.AccessToken),
		"iat":    jwt.NewNumericDate(now),
		"exp":    jwt.NewNumericDate(now.Add(time.Minute)),
		"userNo": "1",
		"role":   models.RoleUser,
	}
	mutate(claims)

	signed, err := jwt.NewWithClaims(svc.method, claims).SignedString(svc.secretKey)
	require.NoError(t, err)
	return signed
}

func TestEncodeToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestJwtService(t, testUser)

	t.Run("nil payload", func(t *testing.T) {
		token, err := svc.EncodeToken(nil)
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.CreateToken(ctx, models.RefreshToken, testUser.UserNo)
		require.NoError(t, err)

		payload := svc.DecodeToken(token)
		require.NotNil(t, payload)

		encoded, err := svc.EncodeToken(payload)
		require.NoError(t, err)

		assert.Equal(t, payload, svc.DecodeToken(encoded))
	})
}

func TestIsValid_Revoked(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newTestJwtService(t, testUser)

	token, err := svc.CreateToken(ctx, models.AccessToken, testUser.UserNo)
	require.NoError(t, err)
	require.True(t, svc.IsValid(ctx, token))

	payload := svc.DecodeToken(token)
	require.NotNil(t, payload)
	require.NoError(t, tokens.RemoveToken(ctx, payload.JwtID))

	// The token still decodes but is no longer active.
	assert.NotNil(t, svc.DecodeToken(token))
	assert.False(t, svc.IsValid(ctx, token))
}

func TestReissueToken(t *testing.T) {
	ctx := context.Background()

	t.Run("both valid is a no-op", func(t *testing.T) {
		svc, _ := newTestJwtService(t, testUser)
		access, err := svc.CreateToken(ctx, models.AccessToken, testUser.UserNo)
		require.NoError(t, err)
		refresh, err := svc.CreateToken(ctx, models.RefreshToken, testUser.UserNo)
		require.NoError(t, err)

		c, rec := newEchoContext()
		require.NoError(t, svc.ReissueToken(c, access, refresh))
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("valid access renews refresh", func(t *testing.T) {
		svc, _ := newTestJwtService(t, testUser)
		access, err := svc.CreateToken(ctx, models.AccessToken, testUser.UserNo)
		require.NoError(t, err)

		c, rec := newEchoContext()
		require.NoError(t, svc.ReissueToken(c, access, "garbage"))

		cookie := findCookie(t, rec, "refresh_token")
		require.NotNil(t, cookie)
		assert.True(t, svc.IsValid(ctx, cookie.Value))
		assert.Nil(t, findCookie(t, rec, "access_token"))

		payload := svc.DecodeToken(cookie.Value)
		require.NotNil(t, payload)
		assert.Equal(t, models.RefreshToken, payload.Subject)
	})

	t.Run("valid refresh renews access", func(t *testing.T) {
		svc, _ := newTestJwtService(t, testUser)

		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		expiredAccess, err := svc.CreateToken(ctx, models.AccessToken, testUser.UserNo)
		require.NoError(t, err)
		refresh, err := svc.CreateToken(ctx, models.RefreshToken, testUser.UserNo)
		require.NoError(t, err)
		svc.now = time.Now

		c, rec := newEchoContext()
		require.NoError(t, svc.ReissueToken(c, expiredAccess, refresh))

		cookie := findCookie(t, rec, "access_token")
		require.NotNil(t, cookie)
		assert.True(t, svc.IsValid(ctx, cookie.Value))
		assert.Nil(t, findCookie(t, rec, "refresh_token"))
	})

	t.Run("both invalid is a no-op", func(t *testing.T) {
		svc, _ := newTestJwtService(t, testUser)

		c, rec := newEchoContext()
		require.NoError(t, svc.ReissueToken(c, "bad", "worse"))
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestAddCookie(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestJwtService(t, testUser)

	token, err := svc.CreateToken(ctx, models.AccessToken, testUser.UserNo)
	require.NoError(t, err)

	c, rec := newEchoContext()
	svc.AddCookie(c, models.AccessToken, token)

	cookie := findCookie(t, rec, "access_token")
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	payload := svc.DecodeToken(token)
	require.NotNil(t, payload)
	assert.WithinDuration(t, payload.ExpirationTime, cookie.Expires, time.Second)
}

func TestRemoveCookies(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestJwtService(t, testUser)

	token, err := svc.CreateToken(ctx, models.AccessToken, testUser.UserNo)
	require.NoError(t, err)

	c, rec := newEchoContext(&http.Cookie{Name: "access_token", Value: token})
	svc.RemoveCookies(c, models.AccessToken)

	cookie := findCookie(t, rec, "access_token")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)

	assert.False(t, svc.IsValid(ctx, token))
}

func TestGetJwtPayload_PrefersAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestJwtService(t, testUser)

	access, err := svc.CreateToken(ctx, models.AccessToken, testUser.UserNo)
	require.NoError(t, err)
	refresh, err := svc.CreateToken(ctx, models.RefreshToken, testUser.UserNo)
	require.NoError(t, err)

	c, _ := newEchoContext(
		&http.Cookie{Name: "access_token", Value: access},
		&http.Cookie{Name: "refresh_token", Value: refresh},
	)

	payload := svc.GetJwtPayload(c)
	require.NotNil(t, payload)
	assert.Equal(t, models.AccessToken, payload.Subject)

	c, _ = newEchoContext(&http.Cookie{Name: "refresh_token", Value: refresh})
	payload = svc.GetJwtPayload(c)
	require.NotNil(t, payload)
	assert.Equal(t, models.RefreshToken, payload.Subject)

	c, _ = newEchoContext()
	assert.Nil(t, svc.GetJwtPayload(c))
}
