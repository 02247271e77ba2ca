package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	ContextKeyLanguage = "lang"
	LanguageCookie     = "plik_lang"
	DefaultLanguage    = "en"
)

var (
	supportedTags = []language.Tag{language.English, language.French}
	langMatcher   = language.NewMatcher(supportedTags)
)

// Language resolves the visitor language: ?lang= (persisted in a cookie), then the
// cookie, then Accept-Language, then English.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := ""

		if q := c.Query("lang"); q != "" {
			if l, ok := NormalizeLanguage(q); ok {
				lang = l
				http.SetCookie(c.Writer, &http.Cookie{
					Name:     LanguageCookie,
					Value:    l,
					Path:     "/",
					MaxAge:   365 * 24 * 60 * 60,
					SameSite: http.SameSiteLaxMode,
				})
			}
		}

		if lang == "" {
			if ck, err := c.Cookie(LanguageCookie); err == nil {
				if l, ok := NormalizeLanguage(ck); ok {
					lang = l
				}
			}
		}

		if lang == "" {
			lang = matchAcceptLanguage(c.GetHeader("Accept-Language"))
		}

		c.Set(ContextKeyLanguage, lang)
		c.Header("Content-Language", lang)
		c.Next()
	}
}

// NormalizeLanguage maps "fr", "fr-CA", "FR" and friends onto a supported base.
func NormalizeLanguage(raw string) (string, bool) {
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, t := range supportedTags {
		if b, _ := t.Base(); b == base {
			return base.String(), true
		}
	}
	return "", false
}

func matchAcceptLanguage(header string) string {
	if header == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	base, _ := supportedTags[idx].Base()
	return base.String()
}

// GetLanguage returns the resolved language, "en" when the middleware did not run.
func GetLanguage(c *gin.Context) string {
	if l := c.GetString(ContextKeyLanguage); l != "" {
		return l
	}
	return DefaultLanguage
}
