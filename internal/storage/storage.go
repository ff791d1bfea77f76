package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hiphil2000/IB.React/internal/models"
)

// Sentinel errors let callers tell "no data" apart from "operation failed".
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrTokenNotFound = errors.New("token not found")
	ErrGroupNotFound = errors.New("code group not found")
	ErrCodeNotFound  = errors.New("code not found")
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Storage interface {
	TokenRepository
	UserRepository
	CodeRepository
}

// TokenRepository persists issued-token metadata and answers "is this token
// id still active" queries. Revocation is a soft delete: RemoveToken flips
// the destroy flag, and IsUsingToken treats a destroyed row as absent.
type TokenRepository interface {
	AddToken(ctx context.Context, record models.TokenRecord) error
	RemoveToken(ctx context.Context, tokenID string) error
	IsUsingToken(ctx context.Context, tokenID string) (bool, error)
}

// UserRepository resolves user identity and credentials. Login delegates
// the credential comparison entirely to the backing query.
type UserRepository interface {
	GetUser(ctx context.Context, userNo int64) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	Login(ctx context.Context, userID, password string) (*models.User, error)
}

// CodeRepository is a read-only lookup over common codes and their groups.
// Only enabled rows are returned.
type CodeRepository interface {
	GetGroups(ctx context.Context) ([]models.CodeGroup, error)
	GetGroup(ctx context.Context, groupID string) (*models.CodeGroup, error)
	GetCodes(ctx context.Context, groupID string) ([]models.Code, error)
	GetCode(ctx context.Context, groupID, codeID string) (*models.Code, error)
}
