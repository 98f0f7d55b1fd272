// Package i18n resolves the admin UI locale. Only Arabic and English are
// supported; English is the fallback.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Arabic,
})

// Parse accepts a bare code ("ar") or any BCP 47 tag ("ar-EG").
func Parse(s string) Locale {
	s = strings.TrimSpace(s)
	if s == "" {
		return English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return English
	}
	return fromTag(tag)
}

// FromAcceptLanguage picks the best supported locale from an
// Accept-Language header value.
func FromAcceptLanguage(header string) Locale {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	if idx == 1 {
		return Arabic
	}
	return English
}

// FromRequest prefers an explicit ?locale= query parameter over the header.
func FromRequest(r *http.Request) Locale {
	if q := r.URL.Query().Get("locale"); q != "" {
		return Parse(q)
	}
	return FromAcceptLanguage(r.Header.Get("Accept-Language"))
}

func fromTag(tag language.Tag) Locale {
	base, _ := tag.Base()
	if base.String() == "ar" {
		return Arabic
	}
	return English
}

// Pick returns the text matching the locale.
func (l Locale) Pick(en, ar string) string {
	if l == Arabic {
		return ar
	}
	return en
}

// Dir returns the text direction the UI should render with.
func (l Locale) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}
