// Package uiresource models the UI resources (scripts, stylesheets) that
// rule-node configuration forms depend on.
package uiresource

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("ui resource not found")

// Resource is a fetched UI resource.
type Resource struct {
	ID          string
	ContentType string
	Content     []byte
	ETag        string
	FetchedAt   time.Time
}

// Size is the content length in bytes.
func (r *Resource) Size() int {
	return len(r.Content)
}

// Repository persists fetched resources.
type Repository interface {
	Get(ctx context.Context, id string) (*Resource, error)
	Save(ctx context.Context, r *Resource) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Resource, error)
}
