package repository

import (
	"context"

	"plik-backend/internal/domains/blog/model"
)

// =====================================================
// BLOG REPOSITORY INTERFACE
// =====================================================

// Filter is the normalized form of model.ListPostsRequest.
type Filter struct {
	Language string
	Category string
	Tag      string
	Featured *bool
	Search   string
	Limit    int
	Offset   int
	SortBy   string // column name, already whitelisted
	Desc     bool
}

type PostRepository interface {
	// Create inserts the post and fills ID and timestamps.
	// Returns model.ErrSlugTaken when the slug is already used.
	Create(ctx context.Context, post *model.Post) error

	GetByID(ctx context.Context, id int64) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)

	// List returns one page of posts plus the total matching the filter.
	List(ctx context.Context, filter Filter) ([]*model.Post, int, error)

	GetAllTags(ctx context.Context) ([]string, error)
	GetRelated(ctx context.Context, id int64, limit int) ([]*model.Post, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)

	// Update locks the row, lets mutate change it and writes it back in one transaction.
	Update(ctx context.Context, id int64, mutate func(post *model.Post) error) (*model.Post, error)

	SetFeatured(ctx context.Context, id int64, featured bool) (*model.Post, error)
	ToggleFeatured(ctx context.Context, id int64) (*model.Post, error)

	// Delete removes the row and returns what was deleted.
	Delete(ctx context.Context, id int64) (*model.Post, error)

	// CountByImageURL counts posts whose media_upload resolves to url,
	// whether stored plain or hex encoded.
	CountByImageURL(ctx context.Context, url string) (int, error)
}
