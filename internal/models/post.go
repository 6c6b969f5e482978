package models

import (
	"slices"
	"strings"
	"time"
	"unicode"
)

// ContentType is the editorial kind of a post
type ContentType string

const (
	ContentArticle    ContentType = "article"
	ContentWhitepaper ContentType = "whitepaper"
	ContentCaseStudy  ContentType = "caseStudy"
	ContentNewsPress  ContentType = "newsPress"
)

// Valid reports whether t is one of the known content types
func (t ContentType) Valid() bool {
	switch t {
	case ContentArticle, ContentWhitepaper, ContentCaseStudy, ContentNewsPress:
		return true
	}
	return false
}

// categoryTypes maps normalised category slugs/titles to a content type.
// Matching is exact on the normalised token, so "Case Study Archive" stays an article.
var categoryTypes = map[string]ContentType{
	"whitepaper":        ContentWhitepaper,
	"whitepapers":       ContentWhitepaper,
	"guide":             ContentWhitepaper,
	"guides":            ContentWhitepaper,
	"resource":          ContentWhitepaper,
	"resources":         ContentWhitepaper,
	"casestudy":         ContentCaseStudy,
	"casestudies":       ContentCaseStudy,
	"news":              ContentNewsPress,
	"newspress":         ContentNewsPress,
	"newspressreleases": ContentNewsPress,
	"pressrelease":      ContentNewsPress,
	"pressreleases":     ContentNewsPress,
}

// Asset is a resolved image asset reference
type Asset struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
}

// Image is an asset reference plus alt text
type Image struct {
	Asset *Asset `json:"asset,omitempty"`
	Alt   string `json:"alt,omitempty"`
}

// URL returns the asset URL or "" for an unresolved image
func (i *Image) URL() string {
	if i == nil || i.Asset == nil {
		return ""
	}
	return i.Asset.URL
}

// Author is the resolved author reference of a post
type Author struct {
	Name  string `json:"name"`
	Bio   string `json:"bio,omitempty"`
	Image *Image `json:"image,omitempty"`
}

// Category is a tagged label attached to a post
type Category struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Slug  string `json:"slug,omitempty"`
}

// Post is an article as returned to the page layer
type Post struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Slug                 string      `json:"slug"`
	Excerpt              string      `json:"excerpt,omitempty"`
	Body                 []Block     `json:"body,omitempty"`
	MainImage            *Image      `json:"mainImage,omitempty"`
	Author               *Author     `json:"author,omitempty"`
	Categories           []Category  `json:"categories,omitempty"`
	Tags                 []string    `json:"tags,omitempty"`
	PublishedAt          time.Time   `json:"publishedAt"`
	EstimatedReadingTime *int        `json:"estimatedReadingTime,omitempty"`
	ReadingTime          int         `json:"readingTime"`
	Site                 string      `json:"site"`
	ContentType          ContentType `json:"contentType,omitempty"`
}

// ClassifyCategories derives a content type from category slugs or titles.
// The first category that matches wins; no match means article.
func ClassifyCategories(categories []Category) ContentType {
	if types := CategoryTypes(categories); len(types) > 0 {
		return types[0]
	}
	return ContentArticle
}

// CategoryTypes lists every content type the categories map to, in category
// order and without duplicates.
func CategoryTypes(categories []Category) []ContentType {
	var types []ContentType
	for _, c := range categories {
		for _, label := range []string{c.Slug, c.Title} {
			t, ok := categoryTypes[normaliseToken(label)]
			if ok && !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
	}
	return types
}

// HasType reports whether the post belongs on the listing for t. An explicit
// content type decides alone; otherwise any matching category counts, and a
// post without one is an article.
func (p Post) HasType(t ContentType) bool {
	if p.ContentType.Valid() {
		return p.ContentType == t
	}
	types := CategoryTypes(p.Categories)
	if len(types) == 0 {
		return t == ContentArticle
	}
	return slices.Contains(types, t)
}

func normaliseToken(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
