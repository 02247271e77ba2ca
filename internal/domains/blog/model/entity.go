package model

import (
	"strings"
	"time"

	"plik-backend/internal/shared/utils"
)

// Post maps a row of blog_post.
type Post struct {
	ID         int64     `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	AuthorBio  string    `json:"author_bio"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	ReadTime   int       `json:"read_time"`
	Featured   bool      `json:"featured"`
	ImageRef   []byte    `json:"image_ref"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ParseTags splits the comma-joined tags column, trimming and dropping empties.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags is the inverse of ParseTags.
func JoinTags(tags []string) string {
	return strings.Join(ParseTags(strings.Join(tags, ",")), ", ")
}

// ToResponse resolves the image reference and fills the read defaults.
func (p *Post) ToResponse() PostResponse {
	author := AuthorResponse{
		Name:   p.AuthorName,
		Avatar: DefaultAuthorAvatar,
		Bio:    p.AuthorBio,
	}
	if strings.TrimSpace(author.Name) == "" {
		author.Name = DefaultAuthorName
	}
	if strings.TrimSpace(author.Bio) == "" {
		author.Bio = DefaultAuthorBio
	}

	readTime := p.ReadTime
	if readTime <= 0 {
		readTime = DefaultReadTime
	}

	language := p.Language
	if language == "" {
		language = DefaultLanguage
	}

	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = p.CreatedAt
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return PostResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		Author:      author,
		PublishedAt: p.CreatedAt,
		UpdatedAt:   updatedAt,
		Category:    p.Category,
		Tags:        tags,
		ReadTime:    readTime,
		Featured:    p.Featured,
		Image:       utils.ResolveImageRef(string(p.ImageRef)),
		MediaUpload: utils.EncodeHexRef(p.ImageRef),
		Language:    language,
	}
}

func ToResponses(posts []*Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ToResponse())
	}
	return out
}
