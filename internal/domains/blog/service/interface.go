package service

import (
	"context"

	"plik-backend/internal/domains/blog/model"
)

// =====================================================
// BLOG SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// ========================================
	// PUBLIC READS
	// ========================================

	List(ctx context.Context, req model.ListPostsRequest) (*model.ListPostsResponse, error)
	GetAll(ctx context.Context) ([]model.PostResponse, error)
	GetFeatured(ctx context.Context) ([]model.PostResponse, error)
	GetByLanguage(ctx context.Context, language string) ([]model.PostResponse, error)
	GetFeaturedByLanguage(ctx context.Context, language string) ([]model.PostResponse, error)

	GetBySlug(ctx context.Context, slug string) (*model.PostResponse, error)
	GetByID(ctx context.Context, id int64) (*model.PostResponse, error)
	GetByCategory(ctx context.Context, category, language string) ([]model.PostResponse, error)
	GetRecent(ctx context.Context, limit int, language string) ([]model.PostResponse, error)
	GetAllTags(ctx context.Context) ([]string, error)
	GetRelated(ctx context.Context, id int64, limit int) ([]model.PostResponse, error)
	Categories() []string

	// ========================================
	// ADMIN WRITES
	// ========================================

	Create(ctx context.Context, req model.CreatePostRequest) (*model.PostResponse, error)
	Update(ctx context.Context, id int64, req model.UpdatePostRequest) (*model.PostResponse, error)
	ToggleFeatured(ctx context.Context, id int64) (*model.PostResponse, error)
	SetFeatured(ctx context.Context, id int64, featured bool) (*model.PostResponse, error)
	Delete(ctx context.Context, id int64) error

	// ========================================
	// EXPORTS AND FEEDS
	// ========================================

	// ExportXLSX renders the filtered posts as a spreadsheet.
	ExportXLSX(ctx context.Context, req model.ListPostsRequest) ([]byte, error)

	// Feed renders RSS 2.0 for the newest posts in a language ("" = all).
	Feed(ctx context.Context, language string) ([]byte, error)

	// Sitemap renders the sitemap.xml urlset.
	Sitemap(ctx context.Context) ([]byte, error)
}

// ImageCleaner removes a deleted post's image from blob storage.
type ImageCleaner interface {
	CleanupImage(ctx context.Context, postID int64, imageURL string) error
}
