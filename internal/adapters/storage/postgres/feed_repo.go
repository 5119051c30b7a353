package postgres

import (
	"context"
	"database/sql"
	"errors"

	"baby-health-tracker/internal/domain/feed"
)

type FeedRepo struct {
	db *sql.DB
}

func NewFeedRepo(db *sql.DB) *FeedRepo {
	return &FeedRepo{db: db}
}

func (r *FeedRepo) Create(ctx context.Context, p feed.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feed_posts (id, author_user_id, body, created_at)
		VALUES ($1,$2,$3,$4)
	`, p.ID, p.AuthorUserID, p.Body, p.CreatedAt)
	return err
}

func (r *FeedRepo) GetByID(ctx context.Context, id string) (feed.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, author_user_id, body, created_at
		FROM feed_posts
		WHERE id = $1
	`, id)

	var p feed.Post
	if err := row.Scan(&p.ID, &p.AuthorUserID, &p.Body, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return feed.Post{}, feed.ErrNotFound
		}
		return feed.Post{}, err
	}
	return p, nil
}

func (r *FeedRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feed_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return feed.ErrNotFound
	}
	return nil
}

func (r *FeedRepo) ListRecent(ctx context.Context, limit int) ([]feed.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, author_user_id, body, created_at
		FROM feed_posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feed.Post, 0)
	for rows.Next() {
		var p feed.Post
		if err := rows.Scan(&p.ID, &p.AuthorUserID, &p.Body, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
