package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =====================================================
// FLEXIBLE INPUT TYPES
// =====================================================

// FlexBool accepts true/false or "true"/"false" (the admin form posts strings).
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(raw) {
	case "true", "1":
		*b = true
	case "false", "0", "", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// TagList accepts a comma string ("a, b") or a JSON array.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = ParseTags(strings.Join(list, ","))
		return nil
	}

	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("tags must be a comma separated string or an array")
	}
	if raw == nil {
		*t = TagList{}
		return nil
	}
	*t = ParseTags(*raw)
	return nil
}

// =====================================================
// ADMIN REQUEST DTOs
// =====================================================

// CreatePostRequest uses the blog_post column names the admin editor posts.
type CreatePostRequest struct {
	Title       string   `json:"post_title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"article"`
	AuthorName  string   `json:"author_info"`
	AuthorBio   string   `json:"author_bio"`
	Category    string   `json:"category"`
	Tags        TagList  `json:"tags"`
	ReadTime    int      `json:"read_time"`
	Featured    FlexBool `json:"featured_post"`
	MediaUpload string   `json:"media_upload"`
	Language    string   `json:"language"`
}

func (r CreatePostRequest) Validate() error {
	// Blank text counts as missing
	r.Title = strings.TrimSpace(r.Title)
	r.Excerpt = strings.TrimSpace(r.Excerpt)
	r.Content = strings.TrimSpace(r.Content)
	r.AuthorName = strings.TrimSpace(r.AuthorName)

	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("post_title is required"),
			validation.Length(1, 200).Error("post_title must be at most 200 characters"),
		),
		validation.Field(&r.Excerpt, validation.Required.Error("excerpt is required")),
		validation.Field(&r.Content, validation.Required.Error("article is required")),
		validation.Field(&r.AuthorName, validation.Required.Error("author_info is required")),
		validation.Field(&r.Category,
			validation.Required.Error("category is required"),
			validation.In(categoryValues()...).Error("category must be one of: "+strings.Join(Categories, ", ")),
		),
		validation.Field(&r.Language,
			validation.Required.Error("language is required"),
			validation.In(LanguageEnglish, LanguageFrench).Error("language must be en or fr"),
		),
		validation.Field(&r.ReadTime,
			validation.Min(1).Error("read_time must be between 1 and 120"),
			validation.Max(120).Error("read_time must be between 1 and 120"),
		),
	)
}

// UpdatePostRequest is a partial update; nil fields are left untouched.
type UpdatePostRequest struct {
	Title       *string   `json:"post_title"`
	Excerpt     *string   `json:"excerpt"`
	Content     *string   `json:"article"`
	AuthorName  *string   `json:"author_info"`
	AuthorBio   *string   `json:"author_bio"`
	Category    *string   `json:"category"`
	Tags        *TagList  `json:"tags"`
	ReadTime    *int      `json:"read_time"`
	Featured    *FlexBool `json:"featured_post"`
	MediaUpload *string   `json:"media_upload"`
	Language    *string   `json:"language"`
}

func (r UpdatePostRequest) Validate() error {
	r.Title = trimmedPtr(r.Title)
	r.Excerpt = trimmedPtr(r.Excerpt)
	r.Content = trimmedPtr(r.Content)
	r.AuthorName = trimmedPtr(r.AuthorName)

	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("post_title cannot be empty"),
			validation.Length(1, 200).Error("post_title must be at most 200 characters"),
		),
		validation.Field(&r.Excerpt, validation.NilOrNotEmpty.Error("excerpt cannot be empty")),
		validation.Field(&r.Content, validation.NilOrNotEmpty.Error("article cannot be empty")),
		validation.Field(&r.AuthorName, validation.NilOrNotEmpty.Error("author_info cannot be empty")),
		validation.Field(&r.Category,
			validation.NilOrNotEmpty.Error("category cannot be empty"),
			validation.In(categoryValues()...).Error("category must be one of: "+strings.Join(Categories, ", ")),
		),
		validation.Field(&r.Language,
			validation.NilOrNotEmpty.Error("language cannot be empty"),
			validation.In(LanguageEnglish, LanguageFrench).Error("language must be en or fr"),
		),
		// Min/Max skip zero, and an explicit 0 is not "unset" here
		validation.Field(&r.ReadTime, validation.By(readTimeInRange)),
	)
}

func readTimeInRange(value interface{}) error {
	v, ok := value.(*int)
	if !ok || v == nil {
		return nil
	}
	if *v < MinReadTime || *v > MaxReadTime {
		return fmt.Errorf("read_time must be between %d and %d", MinReadTime, MaxReadTime)
	}
	return nil
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// IsEmpty reports an update that changes nothing.
func (r UpdatePostRequest) IsEmpty() bool {
	return r.Title == nil && r.Excerpt == nil && r.Content == nil && r.AuthorName == nil &&
		r.AuthorBio == nil && r.Category == nil && r.Tags == nil && r.ReadTime == nil &&
		r.Featured == nil && r.MediaUpload == nil && r.Language == nil
}

type SetFeaturedRequest struct {
	Featured *FlexBool `json:"featured"`
}

func (r SetFeaturedRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Featured, validation.NotNil.Error("featured is required")),
	)
}

// =====================================================
// LIST FILTER
// =====================================================

// ListPostsRequest is bound from the query string.
type ListPostsRequest struct {
	Language string `form:"lang"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Featured *bool  `form:"featured"`
	Search   string `form:"q"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
	Sort     string `form:"sort"`
	Order    string `form:"order"`
}

func (r ListPostsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Language, validation.In(LanguageEnglish, LanguageFrench, LanguageAll).Error("lang must be en, fr or all")),
		validation.Field(&r.Limit, validation.Min(0).Error("limit cannot be negative")),
		validation.Field(&r.Offset, validation.Min(0).Error("offset cannot be negative")),
		validation.Field(&r.Sort, validation.By(func(value interface{}) error {
			if s, _ := value.(string); s != "" {
				if _, ok := SortColumns[s]; !ok {
					return fmt.Errorf("unsupported sort column %q", s)
				}
			}
			return nil
		})),
		validation.Field(&r.Order, validation.In("asc", "desc", "ASC", "DESC").Error("order must be asc or desc")),
	)
}

// Normalize applies default limit and sort.
func (r *ListPostsRequest) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultListLimit
	}
	if r.Limit > MaxListLimit {
		r.Limit = MaxListLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	if r.Sort == "" {
		r.Sort = "created_at"
	}
	r.Order = strings.ToLower(r.Order)
	if r.Order != "asc" {
		r.Order = "desc"
	}
	if r.Language == LanguageAll {
		r.Language = ""
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type AuthorResponse struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

// PostResponse is the shape the blog pages render.
type PostResponse struct {
	ID          int64          `json:"id"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Excerpt     string         `json:"excerpt"`
	Content     string         `json:"content"`
	Author      AuthorResponse `json:"author"`
	PublishedAt time.Time      `json:"publishedAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	ReadTime    int            `json:"readTime"`
	Featured    bool           `json:"featured"`
	Image       string         `json:"image"`
	MediaUpload string         `json:"media_upload"`
	Language    string         `json:"language"`
}

type ListPostsResponse struct {
	Posts []PostResponse `json:"posts"`
	Total int            `json:"total"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type TagsResponse struct {
	Tags []string `json:"tags"`
}

func categoryValues() []interface{} {
	values := make([]interface{}, len(Categories))
	for i, c := range Categories {
		values[i] = c
	}
	return values
}
