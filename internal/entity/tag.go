package entity

import (
	"context"
	"regexp"
	"strings"
)

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every non-alphanumeric run into a dash.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

type TagRepositoryInterface interface {
	Ensure(ctx context.Context, name string) (*Tag, error)
	Assign(ctx context.Context, contactID, tagID string) error
	Unassign(ctx context.Context, contactID, tagID string) error
	ListByContact(ctx context.Context, contactID string) ([]Tag, error)
	List(ctx context.Context) ([]Tag, error)
}
