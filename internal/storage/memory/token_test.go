package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage"
)

func testRecord(tokenID string) models.TokenRecord {
	now := time.Now()
	return models.TokenRecord{
		TokenID:   tokenID,
		UserNo:    1,
		Subject:   models.AccessToken,
		IssuedAt:  now,
		ExpiresAt: now.Add(15 * time.Minute),
		Signature: "sig",
	}
}

func TestTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepository()

	active, err := repo.IsUsingToken(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, repo.AddToken(ctx, testRecord("t1")))

	active, err = repo.IsUsingToken(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, repo.RemoveToken(ctx, "t1"))

	// Revocation is a soft delete and cannot be undone by a second call.
	active, err = repo.IsUsingToken(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, active)

	assert.ErrorIs(t, repo.RemoveToken(ctx, "t1"), storage.ErrTokenNotFound)
}

func TestRemoveToken_Unknown(t *testing.T) {
	repo := NewTokenRepository()
	assert.ErrorIs(t, repo.RemoveToken(context.Background(), "missing"), storage.ErrTokenNotFound)
}
