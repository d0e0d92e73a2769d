// Package summary derives the listing-page artifacts of an article
// document without rendering it: the first paragraph (markup stripped and
// truncated) and the first media item with its thumbnail. It runs inside
// list-rendering loops over many independently sourced articles, so every
// failure mode here degrades to "nothing found" and never reaches the
// caller as an error.
package summary

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ndelchev/newsfront/internal/content"
	"github.com/ndelchev/newsfront/internal/models"
	"github.com/ndelchev/newsfront/internal/videoembed"
)

// maxParagraphLen is the character budget for listing-card teasers.
const maxParagraphLen = 150

// MediaKind tags the media variant found in a document.
type MediaKind string

const (
	MediaNone  MediaKind = "none"
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is the first image or video found in a document, normalized to a
// common shape. ThumbnailURL is set for videos only.
type Media struct {
	Kind         MediaKind
	URL          string
	ThumbnailURL string
	Caption      string
}

// FirstParagraph returns the text of the first paragraph block that still
// has content after tag stripping, truncated to maxParagraphLen characters
// with an ellipsis marker. The second return is false when no qualifying
// block exists.
func FirstParagraph(doc *content.Document) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, b := range doc.Blocks {
		p, ok := b.(content.Paragraph)
		if !ok || strings.TrimSpace(p.Text) == "" {
			continue
		}
		text := strings.TrimSpace(stripTags(p.Text))
		if text == "" {
			continue
		}
		return truncate(text, maxParagraphLen), true
	}
	return "", false
}

// FirstMedia returns the first image or video block with a resolvable URL.
// Media blocks without one are skipped and scanning continues, so an image
// block missing its upload does not hide a video further down.
func FirstMedia(doc *content.Document) Media {
	if doc == nil {
		return Media{Kind: MediaNone}
	}
	for _, b := range doc.Blocks {
		switch m := b.(type) {
		case content.Image:
			if m.URL == "" {
				continue
			}
			return Media{Kind: MediaImage, URL: m.URL, Caption: m.Caption}
		case content.Video:
			url := m.PlayerURL()
			if url == "" {
				continue
			}
			return Media{
				Kind:         MediaVideo,
				URL:          url,
				ThumbnailURL: videoembed.ThumbnailURL(url),
				Caption:      m.Caption,
			}
		}
	}
	return Media{Kind: MediaNone}
}

// ArticleMedia resolves the media to show on a listing card: the first
// media item from the article content, falling back to the standalone
// cover image. Undecodable content counts as no media.
func ArticleMedia(a models.Article) Media {
	if doc, err := content.DecodeAny(a.ContentJSON); err == nil {
		if m := FirstMedia(doc); m.Kind != MediaNone {
			return m
		}
	}
	if a.CoverImageURL != "" {
		return Media{Kind: MediaImage, URL: a.CoverImageURL, Caption: a.Title}
	}
	return Media{Kind: MediaNone}
}

// ArticleParagraph is the decode-tolerant form of FirstParagraph for raw
// article records; it returns an empty string when nothing qualifies.
func ArticleParagraph(a models.Article) string {
	doc, err := content.DecodeAny(a.ContentJSON)
	if err != nil {
		return ""
	}
	text, _ := FirstParagraph(doc)
	return text
}

// stripTags removes HTML-like markup, keeping the text content.
func stripTags(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
