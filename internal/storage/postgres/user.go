package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage"
)

type UserRepository struct {
	db storage.DBTX
}

func NewUserRepository(db storage.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetUser(ctx context.Context, userNo int64) (*models.User, error) {
	var user models.User
	query := `SELECT user_no, user_id, user_name, role FROM users WHERE user_no = $1`
	err := r.db.QueryRowContext(ctx, query, userNo).Scan(&user.UserNo, &user.UserID, &user.UserName, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by no: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT user_no, user_id, user_name, role FROM users ORDER BY user_no`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.UserNo, &user.UserID, &user.UserName, &user.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Login performs the credential comparison inside the query itself; the
// service layer never sees the stored password.
func (r *UserRepository) Login(ctx context.Context, userID, password string) (*models.User, error) {
	var user models.User
	query := `SELECT user_no, user_id, user_name, role FROM users WHERE user_id = $1 AND password = $2`
	err := r.db.QueryRowContext(ctx, query, userID, password).Scan(&user.UserNo, &user.UserID, &user.UserName, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	return &user, nil
}
