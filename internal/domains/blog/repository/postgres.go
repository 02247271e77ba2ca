package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"plik-backend/internal/domains/blog/model"
	"plik-backend/internal/shared/utils"
	"plik-backend/pkg/cache"
	"plik-backend/pkg/database"
	"plik-backend/pkg/logger"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

// Legacy rows carry NULLs in most columns, so reads coalesce to zero values
// and the response mapping applies the display defaults.
const postColumns = `
	id, slug, post_title,
	COALESCE(excerpt, ''), COALESCE(article, ''),
	COALESCE(author_info, ''), COALESCE(author_bio, ''),
	COALESCE(category, ''), COALESCE(tags, ''),
	COALESCE(read_time, 0), COALESCE(featured_post, false),
	media_upload, COALESCE(language, ''),
	created_at, COALESCE(updated_at, created_at)`

const uniqueViolation = "23505"

type postgresPostRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresPostRepository wires the repository; cache may be nil.
func NewPostgresPostRepository(pool *pgxpool.Pool, cache cache.Cache) PostRepository {
	return &postgresPostRepository{pool: pool, cache: cache}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	var (
		p    model.Post
		tags string
	)
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title,
		&p.Excerpt, &p.Content,
		&p.AuthorName, &p.AuthorBio,
		&p.Category, &tags,
		&p.ReadTime, &p.Featured,
		&p.ImageRef, &p.Language,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Tags = model.ParseTags(tags)
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]*model.Post, error) {
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blog posts: %w", err)
	}
	return posts, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresPostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO blog_post (
			slug, post_title, excerpt, article,
			author_info, author_bio, category, tags,
			read_time, featured_post, media_upload, language,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		post.Slug,
		post.Title,
		post.Excerpt,
		post.Content,
		post.AuthorName,
		post.AuthorBio,
		post.Category,
		model.JoinTags(post.Tags),
		post.ReadTime,
		post.Featured,
		post.ImageRef,
		post.Language,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to create blog post: %w", err)
	}

	r.invalidate(ctx)
	return nil
}

// =====================================================
// READS
// =====================================================

func (r *postgresPostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	key := fmt.Sprintf(model.CacheKeyPostByID, id)
	if p := r.cached(ctx, key); p != nil {
		return p, nil
	}

	query := `SELECT ` + postColumns + ` FROM blog_post WHERE id = $1`
	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}

	r.store(ctx, key, post)
	return post, nil
}

func (r *postgresPostRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	key := fmt.Sprintf(model.CacheKeyPostSlug, slug)
	if p := r.cached(ctx, key); p != nil {
		return p, nil
	}

	query := `SELECT ` + postColumns + ` FROM blog_post WHERE slug = $1`
	post, err := scanPost(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get blog post by slug: %w", err)
	}

	r.store(ctx, key, post)
	return post, nil
}

func (r *postgresPostRepository) List(ctx context.Context, filter Filter) ([]*model.Post, int, error) {
	q := buildListQuery(filter)

	var total int
	if err := r.pool.QueryRow(ctx, q.countSQL, q.countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count blog posts: %w", err)
	}
	if total == 0 {
		return []*model.Post{}, 0, nil
	}

	rows, err := r.pool.Query(ctx, q.listSQL, q.listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blog posts: %w", err)
	}
	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

type listQuery struct {
	countSQL  string
	countArgs []interface{}
	listSQL   string
	listArgs  []interface{}
}

func buildListQuery(filter Filter) listQuery {
	var w utils.WhereBuilder

	if filter.Language != "" {
		w.Add("COALESCE(language, 'en') = ?", filter.Language)
	}
	if filter.Category != "" {
		w.Add("category = ?", filter.Category)
	}
	if filter.Tag != "" {
		w.Add("EXISTS (SELECT 1 FROM unnest(string_to_array(COALESCE(tags, ''), ',')) AS t(tag) WHERE lower(trim(t.tag)) = lower(?))", filter.Tag)
	}
	if filter.Featured != nil {
		w.Add("COALESCE(featured_post, false) = ?", *filter.Featured)
	}
	if filter.Search != "" {
		pattern := "%" + utils.EscapeLike(filter.Search) + "%"
		w.Add("(post_title ILIKE ? OR COALESCE(excerpt, '') ILIKE ?)", pattern, pattern)
	}

	q := listQuery{
		countSQL:  `SELECT COUNT(*) FROM blog_post` + w.SQL(),
		countArgs: append([]interface{}(nil), w.Args()...),
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}

	// Limit <= 0 means every matching row.
	page := ""
	if filter.Limit > 0 {
		page = " LIMIT " + w.Next(filter.Limit)
	}
	page += " OFFSET " + w.Next(filter.Offset)

	q.listSQL = fmt.Sprintf(`SELECT %s FROM blog_post%s ORDER BY %s %s, id DESC%s`,
		postColumns, w.SQL(), sortBy, direction, page)
	q.listArgs = w.Args()

	return q
}

func (r *postgresPostRepository) GetAllTags(ctx context.Context) ([]string, error) {
	var tags []string
	if r.cache != nil {
		if found, err := r.cache.Get(ctx, model.CacheKeyTags, &tags); err == nil && found {
			return tags, nil
		}
	}

	query := `
		SELECT DISTINCT trim(t.tag) AS tag
		FROM blog_post, unnest(string_to_array(COALESCE(tags, ''), ',')) AS t(tag)
		WHERE trim(t.tag) <> ''
		ORDER BY tag
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	tags, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, model.CacheKeyTags, tags, model.CacheTTL); err != nil {
			logger.Error("failed to cache blog tags", err)
		}
	}
	return tags, nil
}

func (r *postgresPostRepository) GetRelated(ctx context.Context, id int64, limit int) ([]*model.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog_post
		WHERE category = (SELECT category FROM blog_post WHERE id = $1)
		  AND id <> $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get related posts: %w", err)
	}
	return collectPosts(rows)
}

func (r *postgresPostRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM blog_post WHERE slug = $1 AND id <> $2)`
	if err := r.pool.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// =====================================================
// UPDATE
// =====================================================

func (r *postgresPostRepository) Update(ctx context.Context, id int64, mutate func(post *model.Post) error) (*model.Post, error) {
	updated, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Post, error) {
		// Step 1: lock the row
		query := `SELECT ` + postColumns + ` FROM blog_post WHERE id = $1 FOR UPDATE`
		post, err := scanPost(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrPostNotFound
			}
			return nil, fmt.Errorf("failed to lock blog post: %w", err)
		}

		// Step 2: merge
		if err := mutate(post); err != nil {
			return nil, err
		}

		// Step 3: write back
		update := `
			UPDATE blog_post SET
				slug = $2, post_title = $3, excerpt = $4, article = $5,
				author_info = $6, author_bio = $7, category = $8, tags = $9,
				read_time = $10, featured_post = $11, media_upload = $12, language = $13,
				updated_at = NOW()
			WHERE id = $1
			RETURNING ` + postColumns
		saved, err := scanPost(tx.QueryRow(ctx, update,
			id,
			post.Slug,
			post.Title,
			post.Excerpt,
			post.Content,
			post.AuthorName,
			post.AuthorBio,
			post.Category,
			model.JoinTags(post.Tags),
			post.ReadTime,
			post.Featured,
			post.ImageRef,
			post.Language,
		))
		if err != nil {
			if isUniqueViolation(err) {
				return nil, model.ErrSlugTaken
			}
			return nil, fmt.Errorf("failed to update blog post: %w", err)
		}
		return saved, nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx)
	return updated, nil
}

func (r *postgresPostRepository) SetFeatured(ctx context.Context, id int64, featured bool) (*model.Post, error) {
	query := `
		UPDATE blog_post SET featured_post = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns
	return r.writeOne(ctx, "set featured", query, id, featured)
}

func (r *postgresPostRepository) ToggleFeatured(ctx context.Context, id int64) (*model.Post, error) {
	query := `
		UPDATE blog_post SET featured_post = NOT COALESCE(featured_post, false), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns
	return r.writeOne(ctx, "toggle featured", query, id)
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresPostRepository) Delete(ctx context.Context, id int64) (*model.Post, error) {
	query := `DELETE FROM blog_post WHERE id = $1 RETURNING ` + postColumns
	return r.writeOne(ctx, "delete", query, id)
}

func (r *postgresPostRepository) CountByImageURL(ctx context.Context, url string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM blog_post WHERE media_upload = ANY($1)`
	if err := r.pool.QueryRow(ctx, query, utils.ImageRefVariants(url)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count image references: %w", err)
	}
	return count, nil
}

// writeOne runs a single-row write that returns the row, then drops the cache.
func (r *postgresPostRepository) writeOne(ctx context.Context, op, query string, args ...interface{}) (*model.Post, error) {
	post, err := scanPost(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to %s blog post: %w", op, err)
	}

	r.invalidate(ctx)
	return post, nil
}

// =====================================================
// CACHE HELPERS
// =====================================================

func (r *postgresPostRepository) cached(ctx context.Context, key string) *model.Post {
	if r.cache == nil {
		return nil
	}
	var post model.Post
	found, err := r.cache.Get(ctx, key, &post)
	if err != nil {
		logger.Error("blog cache read failed", err)
		return nil
	}
	if !found {
		return nil
	}
	return &post
}

func (r *postgresPostRepository) store(ctx context.Context, key string, post *model.Post) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, post, model.CacheTTL); err != nil {
		logger.Error("blog cache write failed", err)
	}
}

func (r *postgresPostRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.DeletePattern(ctx, model.CacheKeyPattern); err != nil {
		logger.Error("blog cache invalidation failed", err)
	}
}
