package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"krenke/internal/model"
)

type PostRepository struct {
	DB *pgxpool.Pool
}

const postColumns = `id, title, slug, content, excerpt, cover_image, author, published, created_at`

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.CoverImage, &p.Author, &p.Published, &p.CreatedAt)
	return p, err
}

func (r *PostRepository) query(ctx context.Context, sql string, args ...any) ([]model.Post, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	list := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListPublished devolve os posts publicados, do mais recente para o mais antigo.
func (r *PostRepository) ListPublished(ctx context.Context) ([]model.Post, error) {
	return r.query(ctx, `SELECT `+postColumns+` FROM posts WHERE published ORDER BY created_at DESC`)
}

func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	return r.query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
}

func (r *PostRepository) one(ctx context.Context, where string, arg string) (model.Post, error) {
	p, err := scanPost(r.DB.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE `+where+` = $1`, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) Get(ctx context.Context, id string) (model.Post, error) {
	return r.one(ctx, "id", id)
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (model.Post, error) {
	return r.one(ctx, "slug", slug)
}

func (r *PostRepository) Create(ctx context.Context, p model.Post) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO posts (id, title, slug, content, excerpt, cover_image, author, published, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImage, p.Author, p.Published, p.CreatedAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostRepository) Update(ctx context.Context, p model.Post) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE posts
		SET title = $1, slug = $2, content = $3, excerpt = $4, cover_image = $5, author = $6, published = $7
		WHERE id = $8
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImage, p.Author, p.Published, p.ID)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update post %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&n)
	return n, err
}
