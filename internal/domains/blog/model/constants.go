package model

import "time"

// Categories shown in the admin editor and the blog filters.
const (
	CategoryInfluencerMarketing = "Influencer Marketing"
	CategoryIndustryTrends      = "Industry Trends"
	CategoryCaseStudies         = "Case Studies"
	CategoryBestPractices       = "Best Practices"
	CategoryPlatformUpdates     = "Platform Updates"
)

var Categories = []string{
	CategoryInfluencerMarketing,
	CategoryIndustryTrends,
	CategoryCaseStudies,
	CategoryBestPractices,
	CategoryPlatformUpdates,
}

const (
	LanguageEnglish = "en"
	LanguageFrench  = "fr"

	// LanguageAll disables the language filter on public listings.
	LanguageAll = "all"
)

// Read defaults for legacy rows
const (
	DefaultAuthorName   = "Anonymous"
	DefaultAuthorBio    = "Content creator"
	DefaultAuthorAvatar = "/placeholder.svg?height=40&width=40"
	DefaultReadTime     = 5
	DefaultLanguage     = LanguageEnglish
)

// Read time bounds in minutes
const (
	MinReadTime = 1
	MaxReadTime = 120
)

// Listing limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	DefaultRecent    = 3
	DefaultRelated   = 3
	FeedSize         = 20
	MaxSlugAttempts  = 50
)

// Sort columns accepted by List
var SortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"post_title": "post_title",
	"title":      "post_title",
	"read_time":  "read_time",
}

// Cache keys
const (
	CacheTTL         = 15 * time.Minute
	CacheKeyPattern  = "blog:*"
	CacheKeyPostByID = "blog:post:id:%d"
	CacheKeyPostSlug = "blog:post:slug:%s"
	CacheKeyTags     = "blog:tags"
)

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
