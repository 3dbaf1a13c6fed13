package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"krenke/internal/model"
)

type LeadRepository struct {
	DB *sql.DB
}

func (r *LeadRepository) Create(ctx context.Context, l model.Lead) error {
	products := l.Products
	if products == nil {
		products = []string{}
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO leads (id, name, email, phone, message, products, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, l.ID, l.Name, l.Email, l.Phone, l.Message, pq.Array(products), l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// List devolve os leads do mais recente para o mais antigo.
func (r *LeadRepository) List(ctx context.Context) ([]model.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, email, phone, message, products, created_at
		FROM leads
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	list := []model.Lead{}
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Message, pq.Array(&l.Products), &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LeadRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM leads`).Scan(&n)
	return n, err
}
