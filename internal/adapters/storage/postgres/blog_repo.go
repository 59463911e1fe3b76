package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ong-shelter-api/internal/domain/blog"
)

type BlogRepo struct {
	db *sql.DB
}

func NewBlogRepo(db *sql.DB) *BlogRepo {
	return &BlogRepo{db: db}
}

const postColumns = `
	id, title, slug, content, excerpt, category, image,
	published, published_at, created_at, updated_at`

func (r *BlogRepo) Create(ctx context.Context, p blog.Post) (blog.Post, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (
			title, slug, content, excerpt, category, image,
			published, published_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id
	`,
		p.Title, p.Slug, p.Content, p.Excerpt, string(p.Category), p.Image,
		p.Published, p.PublishedAt, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return blog.Post{}, err
	}
	return p, nil
}

func (r *BlogRepo) GetByID(ctx context.Context, id int64) (blog.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM blog_posts
		WHERE id = $1
	`, id)
	return r.scanOne(row)
}

func (r *BlogRepo) GetPublishedBySlug(ctx context.Context, slug string) (blog.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM blog_posts
		WHERE slug = $1 AND published = true
	`, slug)
	return r.scanOne(row)
}

func (r *BlogRepo) List(ctx context.Context, filter blog.ListFilter, page blog.Page) ([]blog.Post, int, error) {
	conds := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if filter.PublishedOnly {
		conds = append(conds, "published = true")
	}
	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	order := "ORDER BY created_at DESC"
	if filter.PublishedOnly {
		order = "ORDER BY published_at DESC"
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, page.Limit, (page.Page-1)*page.Limit)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM blog_posts
		%s
		%s
		LIMIT $%d OFFSET $%d
	`, postColumns, where, order, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]blog.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *BlogRepo) Update(ctx context.Context, p blog.Post) (blog.Post, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE blog_posts
		SET title = $2, content = $3, excerpt = $4, category = $5, image = $6,
			published = $7, published_at = $8, updated_at = $9
		WHERE id = $1
	`,
		p.ID, p.Title, p.Content, p.Excerpt, string(p.Category), p.Image,
		p.Published, p.PublishedAt, p.UpdatedAt,
	)
	if err != nil {
		return blog.Post{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return blog.Post{}, blog.ErrNotFound
	}
	return p, nil
}

func (r *BlogRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return blog.ErrNotFound
	}
	return nil
}

func (r *BlogRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1)
	`, slug).Scan(&exists)
	return exists, err
}

func (r *BlogRepo) scanOne(row rowScanner) (blog.Post, error) {
	p, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return blog.Post{}, blog.ErrNotFound
		}
		return blog.Post{}, err
	}
	return p, nil
}

func scanPost(row rowScanner) (blog.Post, error) {
	var p blog.Post
	var category string
	var publishedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &category, &p.Image,
		&p.Published, &publishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return blog.Post{}, err
	}

	p.Category = blog.Category(category)
	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	}
	return p, nil
}
