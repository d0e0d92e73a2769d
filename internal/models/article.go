package models

import (
	"encoding/json"
	"time"
)

// Category is a top-level editorial section as the CMS exposes it.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Article is the record the CMS GraphQL API returns for one article. The
// rich content arrives in ContentJSON either as a JSON object or as a
// JSON-encoded string; internal/content handles both.
type Article struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Excerpt       string          `json:"excerpt"`
	Topic         string          `json:"topic"`
	Status        string          `json:"status"`
	AuthorName    string          `json:"authorName"`
	PublishedAt   string          `json:"publishedAt"`
	UpdatedAt     string          `json:"updatedAt"`
	CoverImageURL string          `json:"coverImageUrl"`
	IsBreaking    bool            `json:"isBreaking"`
	ContentJSON   json.RawMessage `json:"contentJson"`
	Category      Category        `json:"category"`
}

// SearchDocument is the canonical structure the indexer stores in
// Elasticsearch for the search overlay.
type SearchDocument struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Category     string    `json:"category"`
	Topic        string    `json:"topic"`
	Summary      string    `json:"summary"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	PublishedAt  time.Time `json:"publishedAt"`
}
