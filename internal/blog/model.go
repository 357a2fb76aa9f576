// Package blog implements the blog post resource: a flat list of posts with
// title, body, and optional author byline. Reads are public; writes require
// an authenticated principal (see routes.go).
package blog

import (
	"strings"
	"time"
)

// Blog is a single post. Content is stored sanitized; see service.go.
type Blog struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlogRequest holds the data submitted when creating or updating a post.
// Author is optional.
type BlogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Validate reports the first constraint violation, or "" when acceptable.
func (r BlogRequest) Validate() string {
	if strings.TrimSpace(r.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(r.Content) == "" {
		return "content is required"
	}
	return ""
}
