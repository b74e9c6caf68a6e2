package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	apperrors "dentalave/pkg/errors"
	"dentalave/pkg/logger"
	"dentalave/pkg/model"
)

const tableName = "blogs"

var blogColumns = []string{
	"id", "title", "slug", "excerpt", "content",
	"image_url", "meta_title", "meta_description", "created_at",
}

// BlogRepository stores blog posts in PostgreSQL. Blog storage is optional;
// when no DSN is configured every call reports the store unavailable.
type BlogRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	log     *logger.Logger
}

// NewBlogRepository opens the pool when a DSN is configured. The open is
// lazy in the driver, so a bad DSN surfaces on first query, not at boot.
func NewBlogRepository(dsn string, log *logger.Logger) (*BlogRepository, error) {
	r := &BlogRepository{
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		log:     log,
	}

	if dsn == "" {
		log.Info("Blog database not configured, blog storage disabled")
		return r, nil
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	r.db = db
	return r, nil
}

func (r *BlogRepository) Enabled() bool {
	return r.db != nil
}

func (r *BlogRepository) ensure() error {
	if r.db == nil {
		return apperrors.Unavailable("blog storage", nil)
	}
	return nil
}

func (r *BlogRepository) Create(ctx context.Context, blog *model.Blog) (*model.Blog, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}

	query, args, err := r.builder.
		Insert(tableName).
		Columns("title", "slug", "excerpt", "content", "image_url", "meta_title", "meta_description", "created_at").
		Values(blog.Title, blog.Slug, blog.Excerpt, blog.Content, blog.ImageURL, blog.MetaTitle, blog.MetaDescription, blog.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, apperrors.Internal("Failed to build blog insert", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&blog.ID); err != nil {
		return nil, apperrors.Persistence("Failed to save blog post", err)
	}

	return blog, nil
}

func (r *BlogRepository) FindAll(ctx context.Context) ([]model.Blog, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}

	query, args, err := r.builder.
		Select(blogColumns...).
		From(tableName).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, apperrors.Internal("Failed to build blog query", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Persistence("Failed to list blog posts", err)
	}
	defer rows.Close()

	blogs := []model.Blog{}
	for rows.Next() {
		var blog model.Blog
		if err := scanBlog(rows, &blog); err != nil {
			return nil, apperrors.Persistence("Failed to decode blog post", err)
		}
		blogs = append(blogs, blog)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence("Failed to list blog posts", err)
	}

	return blogs, nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id int64) (*model.Blog, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	return r.findOne(ctx, sq.Eq{"slug": slug})
}

func (r *BlogRepository) findOne(ctx context.Context, where sq.Eq) (*model.Blog, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}

	query, args, err := r.builder.
		Select(blogColumns...).
		From(tableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, apperrors.Internal("Failed to build blog query", err)
	}

	var blog model.Blog
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := scanBlog(row, &blog); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Blog post")
		}
		return nil, apperrors.Persistence("Failed to load blog post", err)
	}

	return &blog, nil
}

func (r *BlogRepository) Update(ctx context.Context, blog *model.Blog) (*model.Blog, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}

	query, args, err := r.builder.
		Update(tableName).
		Set("title", blog.Title).
		Set("slug", blog.Slug).
		Set("excerpt", blog.Excerpt).
		Set("content", blog.Content).
		Set("image_url", blog.ImageURL).
		Set("meta_title", blog.MetaTitle).
		Set("meta_description", blog.MetaDescription).
		Where(sq.Eq{"id": blog.ID}).
		ToSql()
	if err != nil {
		return nil, apperrors.Internal("Failed to build blog update", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Persistence("Failed to update blog post", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, apperrors.NotFound("Blog post")
	}

	return blog, nil
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensure(); err != nil {
		return err
	}

	query, args, err := r.builder.
		Delete(tableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return apperrors.Internal("Failed to build blog delete", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Persistence("Failed to delete blog post", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("Blog post")
	}

	return nil
}

func (r *BlogRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner, blog *model.Blog) error {
	return row.Scan(
		&blog.ID, &blog.Title, &blog.Slug, &blog.Excerpt, &blog.Content,
		&blog.ImageURL, &blog.MetaTitle, &blog.MetaDescription, &blog.CreatedAt,
	)
}
