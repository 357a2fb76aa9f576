package blog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quillhq/quill/internal/apperror"
	"github.com/quillhq/quill/internal/sanitize"
)

// BlogService defines the business logic contract for posts.
type BlogService interface {
	List(ctx context.Context) ([]Blog, error)
	Get(ctx context.Context, id int64) (*Blog, error)
	Create(ctx context.Context, req BlogRequest) (*Blog, error)
	Update(ctx context.Context, id int64, req BlogRequest) (*Blog, error)
	Delete(ctx context.Context, id int64) error
}

// blogService implements BlogService.
type blogService struct {
	repo BlogRepository
}

// NewBlogService creates a new blog service with the given repository.
func NewBlogService(repo BlogRepository) BlogService {
	return &blogService{repo: repo}
}

// List returns all posts.
func (s *blogService) List(ctx context.Context) ([]Blog, error) {
	blogs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing blogs: %w", err))
	}
	return blogs, nil
}

// Get returns a single post, or a 404 apperror when it doesn't exist.
func (s *blogService) Get(ctx context.Context, id int64) (*Blog, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding blog: %w", err))
	}
	return b, nil
}

// Create validates and persists a new post. Content is sanitized before
// storage: post bodies are rendered as HTML by clients, so anything unsafe
// must never reach the database. Timestamps are assigned here, explicitly.
func (s *blogService) Create(ctx context.Context, req BlogRequest) (*Blog, error) {
	if reason := req.Validate(); reason != "" {
		return nil, apperror.NewValidation(reason)
	}

	now := time.Now().UTC()
	b := &Blog{
		Title:     req.Title,
		Content:   sanitize.HTML(req.Content),
		Author:    req.Author,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating blog: %w", err))
	}

	slog.Info("blog created", slog.Int64("blog_id", b.ID))
	return b, nil
}

// Update rewrites an existing post. The fetch doubles as the existence
// check, matching Get's 404 behavior.
func (s *blogService) Update(ctx context.Context, id int64, req BlogRequest) (*Blog, error) {
	if reason := req.Validate(); reason != "" {
		return nil, apperror.NewValidation(reason)
	}

	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	b.Title = req.Title
	b.Content = sanitize.HTML(req.Content)
	b.Author = req.Author
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating blog: %w", err))
	}

	return b, nil
}

// Delete removes a post, or returns a 404 apperror when it doesn't exist.
func (s *blogService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting blog: %w", err))
	}

	slog.Info("blog deleted", slog.Int64("blog_id", id))
	return nil
}
