package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"plik-backend/internal/domains/blog/model"
	"plik-backend/internal/domains/blog/repository"
)

// =====================================================
// RSS AND SITEMAP
// =====================================================

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	Category    string  `xml:"category,omitempty"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

var feedDescriptions = map[string]string{
	model.LanguageEnglish: "Influencer marketing insights for Canadian brands",
	model.LanguageFrench:  "Marketing d'influence au Canada : analyses et conseils",
}

func (s *blogService) Feed(ctx context.Context, language string) ([]byte, error) {
	language = normalizeLanguage(language)

	posts, _, err := s.repo.List(ctx, repository.Filter{
		Language: language,
		Limit:    model.FeedSize,
		SortBy:   "created_at",
		Desc:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load feed posts: %w", err)
	}

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := s.postURL(p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Excerpt,
			Category:    p.Category,
			PubDate:     p.CreatedAt.UTC().Format(time.RFC1123Z),
			GUID:        rssGUID{Value: link, IsPermaLink: true},
		})
	}

	description := feedDescriptions[language]
	if description == "" {
		description = feedDescriptions[model.LanguageEnglish]
	}

	return encodeXML(rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       "plik.ca Blog",
			Link:        s.siteURL + "/blog",
			Description: description,
			Language:    language,
			Items:       items,
		},
	})
}

func (s *blogService) Sitemap(ctx context.Context) ([]byte, error) {
	posts, _, err := s.repo.List(ctx, repository.Filter{SortBy: "updated_at", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load sitemap posts: %w", err)
	}

	urls := []sitemapURL{
		{Loc: s.siteURL + "/"},
		{Loc: s.siteURL + "/blog"},
	}
	for _, p := range posts {
		lastMod := p.UpdatedAt
		if lastMod.IsZero() {
			lastMod = p.CreatedAt
		}
		urls = append(urls, sitemapURL{
			Loc:     s.postURL(p.Slug),
			LastMod: lastMod.UTC().Format("2006-01-02"),
		})
	}

	return encodeXML(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

func (s *blogService) postURL(slug string) string {
	return s.siteURL + "/blog/" + slug
}

func encodeXML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode xml: %w", err)
	}
	return buf.Bytes(), nil
}
