package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage"
)

type CodeRepository struct {
	db storage.DBTX
}

func NewCodeRepository(db storage.DBTX) *CodeRepository {
	return &CodeRepository{db: db}
}

func (r *CodeRepository) GetGroups(ctx context.Context) ([]models.CodeGroup, error) {
	query := `SELECT group_id, group_name, description, use_yn FROM code_groups WHERE use_yn = TRUE ORDER BY group_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list code groups: %w", err)
	}
	defer rows.Close()

	var groups []models.CodeGroup
	for rows.Next() {
		var group models.CodeGroup
		if err := rows.Scan(&group.GroupID, &group.GroupName, &group.Description, &group.UseYn); err != nil {
			return nil, fmt.Errorf("scan code group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate code groups: %w", err)
	}
	return groups, nil
}

func (r *CodeRepository) GetGroup(ctx context.Context, groupID string) (*models.CodeGroup, error) {
	var group models.CodeGroup
	query := `SELECT group_id, group_name, description, use_yn FROM code_groups WHERE group_id = $1 AND use_yn = TRUE`
	err := r.db.QueryRowContext(ctx, query, groupID).Scan(&group.GroupID, &group.GroupName, &group.Description, &group.UseYn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrGroupNotFound
		}
		return nil, fmt.Errorf("get code group: %w", err)
	}
	return &group, nil
}

func (r *CodeRepository) GetCodes(ctx context.Context, groupID string) ([]models.Code, error) {
	query := `SELECT code_id, group_id, code_name, description, use_yn FROM codes WHERE group_id = $1 AND use_yn = TRUE ORDER BY code_id`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("list codes: %w", err)
	}
	defer rows.Close()

	var codes []models.Code
	for rows.Next() {
		var code models.Code
		if err := rows.Scan(&code.CodeID, &code.GroupID, &code.CodeName, &code.Description, &code.UseYn); err != nil {
			return nil, fmt.Errorf("scan code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate codes: %w", err)
	}
	return codes, nil
}

func (r *CodeRepository) GetCode(ctx context.Context, groupID, codeID string) (*models.Code, error) {
	var code models.Code
	query := `SELECT code_id, group_id, code_name, description, use_yn FROM codes WHERE group_id = $1 AND code_id = $2 AND use_yn = TRUE`
	err := r.db.QueryRowContext(ctx, query, groupID, codeID).Scan(&code.CodeID, &code.GroupID, &code.CodeName, &code.Description, &code.UseYn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCodeNotFound
		}
		return nil, fmt.Errorf("get code: %w", err)
	}
	return &code, nil
}
