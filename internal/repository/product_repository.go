package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"krenke/internal/model"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

const productColumns = `id, name, category, description, specs, image, images`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Specs, &p.Image, &p.Images)
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, err
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepository) Get(ctx context.Context, id string) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p model.Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products (id, name, category, description, specs, image, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.Name, p.Category, p.Description, p.Specs, p.Image, images(p))
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create product %s: %w", p.ID, err)
	}
	return nil
}

// Update grava p no registro originalID. O ID pode mudar, desde que o novo não exista.
func (r *ProductRepository) Update(ctx context.Context, originalID string, p model.Product) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE products
		SET id = $1, name = $2, category = $3, description = $4, specs = $5,
		    image = $6, images = $7, updated_at = now()
		WHERE id = $8
	`, p.ID, p.Name, p.Category, p.Description, p.Specs, p.Image, images(p), originalID)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update product %s: %w", originalID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Upsert(ctx context.Context, p model.Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products (id, name, category, description, specs, image, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, category = EXCLUDED.category,
		    description = EXCLUDED.description, specs = EXCLUDED.specs,
		    image = EXCLUDED.image, images = EXCLUDED.images, updated_at = now()
	`, p.ID, p.Name, p.Category, p.Description, p.Specs, p.Image, images(p))
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n)
	return n, err
}

func images(p model.Product) []string {
	if p.Images == nil {
		return []string{}
	}
	return p.Images
}
