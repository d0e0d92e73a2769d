// Package cms is a GraphQL client for the headless CMS that owns all
// article content. Queries are fixed strings; variables travel in the
// standard {query, variables} POST envelope.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ndelchev/newsfront/internal/models"
)

const articleFields = `
	id
	title
	slug
	excerpt
	topic
	status
	authorName
	publishedAt
	updatedAt
	coverImageUrl
	isBreaking
	contentJson
	category {
		id
		name
		slug
	}`

const (
	queryCategories = `query Categories {
	categories {
		id
		name
		slug
	}
}`

	queryLatestByCategory = `query LatestByCategory($categorySlug: String!, $limit: Int) {
	latestByCategory(categorySlug: $categorySlug, limit: $limit) {` + articleFields + `
	}
}`

	queryArticlesByTopic = `query ArticlesByTopic($categorySlug: String!, $topicSlug: String!, $limit: Int) {
	articlesByTopic(categorySlug: $categorySlug, topicSlug: $topicSlug, limit: $limit) {` + articleFields + `
	}
}`

	queryArticleBySlug = `query ArticleBySlug($slug: String!) {
	articleBySlug(slug: $slug) {` + articleFields + `
	}
}`

	queryTopStories = `query TopStories($limit: Int) {
	topStories(limit: $limit) {` + articleFields + `
	}
}`

	queryBreakingNews = `query BreakingNews($limit: Int) {
	breakingNews(limit: $limit) {` + articleFields + `
	}
}`

	queryTrending = `query Trending($limit: Int) {
	trending(limit: $limit) {` + articleFields + `
	}
}`

	queryEditorsPicks = `query EditorsPicks($limit: Int) {
	editorsPicks(limit: $limit) {` + articleFields + `
	}
}`
)

// Client talks to one CMS GraphQL endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	log      *slog.Logger
}

// New creates a Client with the given request timeout.
func New(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      logger,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

// query executes one GraphQL request and unmarshals the data payload
// into out. GraphQL-level errors surface as a single Go error.
func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cms request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("cms returned %s: %s", res.Status, strings.TrimSpace(string(body)))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []gqlError      `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}

	if len(envelope.Data) == 0 {
		return fmt.Errorf("graphql: empty data payload")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// Categories lists every editorial category the CMS knows about.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var data struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.query(ctx, queryCategories, nil, &data); err != nil {
		return nil, err
	}
	return data.Categories, nil
}

// LatestByCategory returns the newest published articles in a category.
func (c *Client) LatestByCategory(ctx context.Context, categorySlug string, limit int) ([]models.Article, error) {
	var data struct {
		Articles []models.Article `json:"latestByCategory"`
	}
	vars := map[string]any{"categorySlug": categorySlug, "limit": limit}
	if err := c.query(ctx, queryLatestByCategory, vars, &data); err != nil {
		return nil, err
	}
	return data.Articles, nil
}

// ArticlesByTopic returns published articles filed under one topic of a
// category.
func (c *Client) ArticlesByTopic(ctx context.Context, categorySlug, topicSlug string, limit int) ([]models.Article, error) {
	var data struct {
		Articles []models.Article `json:"articlesByTopic"`
	}
	vars := map[string]any{"categorySlug": categorySlug, "topicSlug": topicSlug, "limit": limit}
	if err := c.query(ctx, queryArticlesByTopic, vars, &data); err != nil {
		return nil, err
	}
	return data.Articles, nil
}

// ArticleBySlug fetches a single article. A missing slug yields
// (nil, nil) so handlers can answer 404 without string-matching errors.
func (c *Client) ArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var data struct {
		Article *models.Article `json:"articleBySlug"`
	}
	vars := map[string]any{"slug": slug}
	if err := c.query(ctx, queryArticleBySlug, vars, &data); err != nil {
		return nil, err
	}
	return data.Article, nil
}

// TopStories returns the curated front-page selection.
func (c *Client) TopStories(ctx context.Context, limit int) ([]models.Article, error) {
	var data struct {
		Articles []models.Article `json:"topStories"`
	}
	if err := c.query(ctx, queryTopStories, map[string]any{"limit": limit}, &data); err != nil {
		return nil, err
	}
	return data.Articles, nil
}

// BreakingNews returns articles currently flagged as breaking.
func (c *Client) BreakingNews(ctx context.Context, limit int) ([]models.Article, error) {
	var data struct {
		Articles []models.Article `json:"breakingNews"`
	}
	if err := c.query(ctx, queryBreakingNews, map[string]any{"limit": limit}, &data); err != nil {
		return nil, err
	}
	return data.Articles, nil
}

// EditorsPicks returns the articles the newsroom has pinned.
func (c *Client) EditorsPicks(ctx context.Context, limit int) ([]models.Article, error) {
	var data struct {
		Articles []models.Article `json:"editorsPicks"`
	}
	if err := c.query(ctx, queryEditorsPicks, map[string]any{"limit": limit}, &data); err != nil {
		return nil, err
	}
	return data.Articles, nil
}

// Trending returns the most-read articles across all sections.
func (c *Client) Trending(ctx context.Context, limit int) ([]models.Article, error) {
	var data struct {
		Articles []models.Article `json:"trending"`
	}
	if err := c.query(ctx, queryTrending, map[string]any{"limit": limit}, &data); err != nil {
		return nil, err
	}
	return data.Articles, nil
}
