package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quillhq/quill/internal/apperror"
)

// BlogRepository defines the data access contract for posts.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type BlogRepository interface {
	List(ctx context.Context) ([]Blog, error)
	FindByID(ctx context.Context, id int64) (*Blog, error)
	Create(ctx context.Context, b *Blog) error
	Update(ctx context.Context, b *Blog) error
	Delete(ctx context.Context, id int64) error
}

// blogRepository implements BlogRepository with hand-written MariaDB queries.
type blogRepository struct {
	db *sql.DB
}

// NewBlogRepository creates a new blog repository backed by the given DB pool.
func NewBlogRepository(db *sql.DB) BlogRepository {
	return &blogRepository{db: db}
}

// List returns all posts, newest first.
func (r *blogRepository) List(ctx context.Context) ([]Blog, error) {
	query := `SELECT id, title, content, author, created_at, updated_at
	          FROM blogs ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing blogs: %w", err)
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var b Blog
		if err := rows.Scan(&b.ID, &b.Title, &b.Content, &b.Author, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning blog row: %w", err)
		}
		blogs = append(blogs, b)
	}

	return blogs, rows.Err()
}

// FindByID retrieves a post by ID.
// Returns apperror.NotFound if no post exists with this ID.
func (r *blogRepository) FindByID(ctx context.Context, id int64) (*Blog, error) {
	query := `SELECT id, title, content, author, created_at, updated_at
	          FROM blogs WHERE id = ?`

	b := &Blog{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Title, &b.Content, &b.Author, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound(fmt.Sprintf("blog not found with id: %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying blog by id: %w", err)
	}

	return b, nil
}

// Create inserts a new post row and assigns its ID.
func (r *blogRepository) Create(ctx context.Context, b *Blog) error {
	query := `INSERT INTO blogs (title, content, author, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		b.Title, b.Content, b.Author, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting blog: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted blog id: %w", err)
	}
	b.ID = id

	return nil
}

// Update rewrites an existing post row.
func (r *blogRepository) Update(ctx context.Context, b *Blog) error {
	query := `UPDATE blogs SET title = ?, content = ?, author = ?, updated_at = ?
	          WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		b.Title, b.Content, b.Author, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating blog: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound(fmt.Sprintf("blog not found with id: %d", b.ID))
	}

	return nil
}

// Delete removes a post row.
func (r *blogRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting blog: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound(fmt.Sprintf("blog not found with id: %d", id))
	}

	return nil
}
