package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"plik-backend/internal/domains/blog/model"
	"plik-backend/internal/domains/blog/repository"
	"plik-backend/internal/shared/utils"
	"plik-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

const (
	fallbackSlug     = "post"
	maxSlugConflicts = 3
)

type blogService struct {
	repo    repository.PostRepository
	images  ImageCleaner
	siteURL string
}

// NewBlogService wires the blog service; images may be nil.
func NewBlogService(
	repo repository.PostRepository,
	images ImageCleaner,
	siteURL string,
) ServiceInterface {
	return &blogService{
		repo:    repo,
		images:  images,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

// =====================================================
// LIST AND PRESETS
// =====================================================

func (s *blogService) List(ctx context.Context, req model.ListPostsRequest) (*model.ListPostsResponse, error) {
	// Step 1: Validate filter
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(err.Error())
	}
	req.Normalize()

	// Step 2: Query
	posts, total, err := s.repo.List(ctx, toFilter(req))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &model.ListPostsResponse{
		Posts: model.ToResponses(posts),
		Total: total,
	}, nil
}

func toFilter(req model.ListPostsRequest) repository.Filter {
	return repository.Filter{
		Language: req.Language,
		Category: req.Category,
		Tag:      strings.TrimSpace(req.Tag),
		Featured: req.Featured,
		Search:   strings.TrimSpace(req.Search),
		Limit:    req.Limit,
		Offset:   req.Offset,
		SortBy:   model.SortColumns[req.Sort],
		Desc:     req.Order == "desc",
	}
}

// preset lists every matching post, newest first.
func (s *blogService) preset(ctx context.Context, filter repository.Filter) ([]model.PostResponse, error) {
	filter.SortBy = "created_at"
	filter.Desc = true

	posts, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return model.ToResponses(posts), nil
}

func (s *blogService) GetAll(ctx context.Context) ([]model.PostResponse, error) {
	return s.preset(ctx, repository.Filter{})
}

func (s *blogService) GetFeatured(ctx context.Context) ([]model.PostResponse, error) {
	featured := true
	return s.preset(ctx, repository.Filter{Featured: &featured})
}

func (s *blogService) GetByLanguage(ctx context.Context, language string) ([]model.PostResponse, error) {
	return s.preset(ctx, repository.Filter{Language: normalizeLanguage(language)})
}

func (s *blogService) GetFeaturedByLanguage(ctx context.Context, language string) ([]model.PostResponse, error) {
	featured := true
	return s.preset(ctx, repository.Filter{Language: normalizeLanguage(language), Featured: &featured})
}

func (s *blogService) GetByCategory(ctx context.Context, category, language string) ([]model.PostResponse, error) {
	return s.preset(ctx, repository.Filter{Category: category, Language: normalizeLanguage(language)})
}

func (s *blogService) GetRecent(ctx context.Context, limit int, language string) ([]model.PostResponse, error) {
	if limit <= 0 {
		limit = model.DefaultRecent
	}
	if limit > model.MaxListLimit {
		limit = model.MaxListLimit
	}
	return s.preset(ctx, repository.Filter{Language: normalizeLanguage(language), Limit: limit})
}

// normalizeLanguage maps "all" and unknown values to no filter.
func normalizeLanguage(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case model.LanguageEnglish:
		return model.LanguageEnglish
	case model.LanguageFrench:
		return model.LanguageFrench
	default:
		return ""
	}
}

// =====================================================
// SINGLE POST READS
// =====================================================

func (s *blogService) GetBySlug(ctx context.Context, slug string) (*model.PostResponse, error) {
	post, err := s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := post.ToResponse()
	return &resp, nil
}

func (s *blogService) GetByID(ctx context.Context, id int64) (*model.PostResponse, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := post.ToResponse()
	return &resp, nil
}

func (s *blogService) GetAllTags(ctx context.Context) ([]string, error) {
	tags, err := s.repo.GetAllTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	return tags, nil
}

func (s *blogService) GetRelated(ctx context.Context, id int64, limit int) ([]model.PostResponse, error) {
	if limit <= 0 {
		limit = model.DefaultRelated
	}
	posts, err := s.repo.GetRelated(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get related posts: %w", err)
	}
	return model.ToResponses(posts), nil
}

func (s *blogService) Categories() []string {
	out := make([]string, len(model.Categories))
	copy(out, model.Categories)
	return out
}

// =====================================================
// CREATE
// =====================================================

func (s *blogService) Create(ctx context.Context, req model.CreatePostRequest) (*model.PostResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(err.Error())
	}

	// Step 2: Resolve the image input to a URL
	imageRef, err := imageRefFromInput(req.MediaUpload)
	if err != nil {
		return nil, err
	}

	readTime := req.ReadTime
	if readTime == 0 {
		readTime = model.DefaultReadTime
	}

	post := &model.Post{
		Title:      strings.TrimSpace(req.Title),
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		AuthorName: strings.TrimSpace(req.AuthorName),
		AuthorBio:  strings.TrimSpace(req.AuthorBio),
		Category:   req.Category,
		Tags:       []string(req.Tags),
		ReadTime:   readTime,
		Featured:   bool(req.Featured),
		ImageRef:   imageRef,
		Language:   req.Language,
	}

	// Step 3: Pick a free slug and insert; a concurrent insert can still
	// win the slug, so the unique constraint has the last word.
	base := baseSlug(post.Title)
	for conflict := 0; conflict < maxSlugConflicts; conflict++ {
		slug, err := s.uniqueSlug(ctx, base, 0)
		if err != nil {
			return nil, err
		}
		post.Slug = slug

		err = s.repo.Create(ctx, post)
		if errors.Is(err, model.ErrSlugTaken) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}

		logger.Info("blog post created", map[string]interface{}{
			"post_id":  post.ID,
			"slug":     post.Slug,
			"language": post.Language,
		})
		resp := post.ToResponse()
		return &resp, nil
	}

	return nil, model.NewSlugUnavailableError(base)
}

// =====================================================
// UPDATE
// =====================================================

func (s *blogService) Update(ctx context.Context, id int64, req model.UpdatePostRequest) (*model.PostResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(err.Error())
	}
	if req.IsEmpty() {
		return nil, model.NewInvalidInputError("No fields to update")
	}

	var imageRef []byte
	if req.MediaUpload != nil {
		ref, err := imageRefFromInput(*req.MediaUpload)
		if err != nil {
			return nil, err
		}
		imageRef = ref
	}

	// Step 2: Merge under the row lock
	for conflict := 0; conflict < maxSlugConflicts; conflict++ {
		post, err := s.repo.Update(ctx, id, func(post *model.Post) error {
			return s.applyUpdate(ctx, post, req, imageRef)
		})
		if errors.Is(err, model.ErrSlugTaken) {
			continue
		}
		if err != nil {
			return nil, mapRepoError(err)
		}

		logger.Info("blog post updated", map[string]interface{}{
			"post_id": post.ID,
			"slug":    post.Slug,
		})
		resp := post.ToResponse()
		return &resp, nil
	}

	return nil, model.NewSlugUnavailableError(baseSlug(derefString(req.Title)))
}

func (s *blogService) applyUpdate(ctx context.Context, post *model.Post, req model.UpdatePostRequest, imageRef []byte) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title != post.Title {
			slug, err := s.uniqueSlug(ctx, baseSlug(title), post.ID)
			if err != nil {
				return err
			}
			post.Slug = slug
		}
		post.Title = title
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.AuthorName != nil {
		post.AuthorName = strings.TrimSpace(*req.AuthorName)
	}
	if req.AuthorBio != nil {
		post.AuthorBio = strings.TrimSpace(*req.AuthorBio)
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Tags != nil {
		post.Tags = []string(*req.Tags)
	}
	if req.ReadTime != nil {
		post.ReadTime = *req.ReadTime
	}
	if req.Featured != nil {
		post.Featured = bool(*req.Featured)
	}
	if req.MediaUpload != nil {
		post.ImageRef = imageRef
	}
	if req.Language != nil {
		post.Language = *req.Language
	}
	return nil
}

// =====================================================
// FEATURED
// =====================================================

func (s *blogService) ToggleFeatured(ctx context.Context, id int64) (*model.PostResponse, error) {
	post, err := s.repo.ToggleFeatured(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := post.ToResponse()
	return &resp, nil
}

func (s *blogService) SetFeatured(ctx context.Context, id int64, featured bool) (*model.PostResponse, error) {
	post, err := s.repo.SetFeatured(ctx, id, featured)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := post.ToResponse()
	return &resp, nil
}

// =====================================================
// DELETE
// =====================================================

func (s *blogService) Delete(ctx context.Context, id int64) error {
	post, err := s.repo.Delete(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}

	logger.Info("blog post deleted", map[string]interface{}{
		"post_id": id,
		"slug":    post.Slug,
	})

	// Image cleanup is best effort; the row is already gone.
	if s.images != nil && len(post.ImageRef) > 0 {
		imageURL := utils.ResolveImageRef(string(post.ImageRef))
		if imageURL != utils.PlaceholderImage {
			s.cleanupUnusedImage(ctx, id, imageURL)
		}
	}

	return nil
}

// cleanupUnusedImage removes the blob only once no post points at it anymore.
// Translations of a post usually share one cover.
func (s *blogService) cleanupUnusedImage(ctx context.Context, postID int64, imageURL string) {
	refs, err := s.repo.CountByImageURL(ctx, imageURL)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to check image references of post %d", postID), err)
		return
	}
	if refs > 0 {
		logger.Info("blog image kept, still referenced", map[string]interface{}{
			"post_id":    postID,
			"image":      imageURL,
			"references": refs,
		})
		return
	}

	if err := s.images.CleanupImage(ctx, postID, imageURL); err != nil {
		logger.Error(fmt.Sprintf("failed to clean up image of post %d", postID), err)
	}
}

// =====================================================
// HELPERS
// =====================================================

// uniqueSlug returns base, base-2, base-3… whichever is free first.
func (s *blogService) uniqueSlug(ctx context.Context, base string, excludeID int64) (string, error) {
	for attempt := 1; attempt <= model.MaxSlugAttempts; attempt++ {
		candidate := utils.SlugCandidate(base, attempt)
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", model.NewSlugUnavailableError(base)
}

func baseSlug(title string) string {
	if slug := utils.GenerateSlug(title); slug != "" {
		return slug
	}
	return fallbackSlug
}

func imageRefFromInput(input string) ([]byte, error) {
	url, ok := utils.NormalizeImageInput(input)
	if !ok {
		return nil, model.NewInvalidImageError()
	}
	if url == "" {
		return nil, nil
	}
	return []byte(url), nil
}

func mapRepoError(err error) error {
	var blogErr *model.BlogError
	if errors.As(err, &blogErr) {
		return blogErr
	}
	if errors.Is(err, model.ErrPostNotFound) {
		return model.NewPostNotFoundError()
	}
	return err
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
