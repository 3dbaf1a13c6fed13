package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"krenke/internal/model"
)

type ScriptRepository struct {
	DB *pgxpool.Pool
}

func (r *ScriptRepository) list(ctx context.Context, where string) ([]model.Script, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, content, placement, is_active, created_at
		FROM app_scripts `+where+`
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	defer rows.Close()

	list := []model.Script{}
	for rows.Next() {
		var s model.Script
		if err := rows.Scan(&s.ID, &s.Name, &s.Content, &s.Placement, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *ScriptRepository) List(ctx context.Context) ([]model.Script, error) {
	return r.list(ctx, "")
}

func (r *ScriptRepository) ListActive(ctx context.Context) ([]model.Script, error) {
	return r.list(ctx, "WHERE is_active")
}

func (r *ScriptRepository) Create(ctx context.Context, s model.Script) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO app_scripts (id, name, content, placement, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.ID, s.Name, s.Content, s.Placement, s.IsActive, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	return nil
}

func (r *ScriptRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.DB.Exec(ctx, `UPDATE app_scripts SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("update script %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ScriptRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM app_scripts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete script %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
