package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndelchev/newsfront/internal/cache"
	"github.com/ndelchev/newsfront/internal/config"
	"github.com/ndelchev/newsfront/internal/content"
	"github.com/ndelchev/newsfront/internal/editorial"
	"github.com/ndelchev/newsfront/internal/models"
	"github.com/ndelchev/newsfront/internal/render"
	"github.com/ndelchev/newsfront/internal/search"
	"github.com/ndelchev/newsfront/internal/summary"
)

// articleSource is the slice of the CMS client the handlers use.
type articleSource interface {
	LatestByCategory(ctx context.Context, categorySlug string, limit int) ([]models.Article, error)
	ArticlesByTopic(ctx context.Context, categorySlug, topicSlug string, limit int) ([]models.Article, error)
	ArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
	TopStories(ctx context.Context, limit int) ([]models.Article, error)
	EditorsPicks(ctx context.Context, limit int) ([]models.Article, error)
	BreakingNews(ctx context.Context, limit int) ([]models.Article, error)
	Trending(ctx context.Context, limit int) ([]models.Article, error)
}

// searchIndex is the slice of the Elasticsearch client the handlers use.
type searchIndex interface {
	SearchArticles(ctx context.Context, params search.Params) (*search.Result, error)
	Health(ctx context.Context) error
}

type server struct {
	log   *slog.Logger
	cfg   *config.Server
	cms   articleSource
	index searchIndex
	cache *cache.Client
	rnd   *render.Renderer
	tmpl  *template.Template
}

// card is one article teaser on a listing page.
type card struct {
	Title    string
	URL      string
	Teaser   string
	Topic    string
	TopicURL string
	Author   string
	When     string
	Media    summary.Media
}

type basePage struct {
	Title    string
	Sections []editorial.Section
	Query    string
}

type homePage struct {
	basePage
	Top      []card
	Picks    []card
	Trending []card
	Breaking []card
}

type listingPage struct {
	basePage
	Section     string
	SectionSlug string
	Topic       string
	Cards       []card
}

type articlePage struct {
	basePage
	Article     models.Article
	Section     string
	SectionSlug string
	Units       []render.Unit
	When        string
}

type searchPage struct {
	basePage
	Cards []card
	Total int64
}

type errorPage struct {
	basePage
	Status  int
	Message string
}

func (s *server) base(title string) basePage {
	return basePage{Title: title, Sections: editorial.Sections}
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page := homePage{basePage: s.base("Newsfront")}

	// The front page degrades section by section: a failed rail renders
	// empty instead of taking the whole page down.
	if top, err := s.cms.TopStories(ctx, 6); err != nil {
		s.log.Warn("load top stories", slog.Any("err", err))
	} else {
		page.Top = s.cards(top)
	}

	if picks, err := s.cms.EditorsPicks(ctx, 4); err != nil {
		s.log.Warn("load editors picks", slog.Any("err", err))
	} else {
		page.Picks = s.cards(picks)
	}

	if trending, err := s.cms.Trending(ctx, 5); err != nil {
		s.log.Warn("load trending", slog.Any("err", err))
	} else {
		page.Trending = s.cards(trending)
	}

	if breaking, err := s.cms.BreakingNews(ctx, s.cfg.BreakingLimit); err != nil {
		s.log.Warn("load breaking news", slog.Any("err", err))
	} else {
		page.Breaking = s.cards(breaking)
	}

	s.renderPage(w, http.StatusOK, "home.html", page)
}

func (s *server) handleCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "category")
	if !editorial.IsValid(slug) {
		s.notFound(w, "No such section.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	articles, err := s.listing(ctx, "category:"+slug, func() ([]models.Article, error) {
		return s.cms.LatestByCategory(ctx, slug, s.cfg.PageSize)
	})
	if err != nil {
		s.log.Error("load category", slog.String("category", slug), slog.Any("err", err))
		s.serverError(w)
		return
	}

	name := editorial.Name(slug)
	s.renderPage(w, http.StatusOK, "listing.html", listingPage{
		basePage:    s.base(name),
		Section:     name,
		SectionSlug: slug,
		Cards:       s.cards(articles),
	})
}

func (s *server) handleTopic(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "category")
	topicSlug := chi.URLParam(r, "topic")
	if !editorial.IsValid(categorySlug) {
		s.notFound(w, "No such section.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	articles, err := s.listing(ctx, "topic:"+categorySlug+":"+topicSlug, func() ([]models.Article, error) {
		return s.cms.ArticlesByTopic(ctx, categorySlug, topicSlug, s.cfg.PageSize)
	})
	if err != nil {
		s.log.Error("load topic",
			slog.String("category", categorySlug),
			slog.String("topic", topicSlug),
			slog.Any("err", err),
		)
		s.serverError(w)
		return
	}

	name := editorial.Name(categorySlug)
	s.renderPage(w, http.StatusOK, "listing.html", listingPage{
		basePage:    s.base(name + ": " + topicSlug),
		Section:     name,
		SectionSlug: categorySlug,
		Topic:       topicSlug,
		Cards:       s.cards(articles),
	})
}

func (s *server) handleArticle(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "category")
	slug := chi.URLParam(r, "slug")
	if !editorial.IsValid(categorySlug) {
		s.notFound(w, "No such section.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	article, err := s.cms.ArticleBySlug(ctx, slug)
	if err != nil {
		s.log.Error("load article", slog.String("slug", slug), slog.Any("err", err))
		s.serverError(w)
		return
	}
	if article == nil {
		s.notFound(w, "This story does not exist or has been unpublished.")
		return
	}

	var units []render.Unit
	doc, err := content.DecodeAny(article.ContentJSON)
	if err != nil {
		s.log.Warn("article content undecodable", slog.String("slug", slug), slog.Any("err", err))
		units = s.rnd.Document(nil)
	} else {
		units = s.rnd.Document(doc)
	}

	s.renderPage(w, http.StatusOK, "article.html", articlePage{
		basePage:    s.base(article.Title),
		Article:     *article,
		Section:     editorial.Name(article.Category.Slug),
		SectionSlug: article.Category.Slug,
		Units:       units,
		When:        timeAgo(article.PublishedAt),
	})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page := searchPage{basePage: s.base("Search")}
	page.Query = query

	if query != "" {
		result, err := s.index.SearchArticles(ctx, search.Params{
			Query:    query,
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Size:     s.cfg.PageSize,
		})
		if err != nil {
			s.log.Error("search", slog.String("q", query), slog.Any("err", err))
			s.serverError(w)
			return
		}
		page.Total = result.Total
		page.Cards = searchCards(result.Items)
	}

	s.renderPage(w, http.StatusOK, "search.html", page)
}

func (s *server) handleBreakingNews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	articles, err := s.cms.BreakingNews(ctx, s.cfg.BreakingLimit)
	if err != nil {
		s.log.Error("load breaking news", slog.Any("err", err))
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": "breaking news unavailable"})
		return
	}

	type item struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	items := make([]item, 0, len(articles))
	for _, a := range articles {
		items = append(items, item{Title: a.Title, URL: articleURL(a)})
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": items})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.index.Health(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listing answers from the cache when possible and fills it on a miss.
func (s *server) listing(ctx context.Context, key string, load func() ([]models.Article, error)) ([]models.Article, error) {
	var cached []models.Article
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	articles, err := load()
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, articles)
	return articles, nil
}

func (s *server) cards(articles []models.Article) []card {
	out := make([]card, 0, len(articles))
	for _, a := range articles {
		c := card{
			Title:  a.Title,
			URL:    articleURL(a),
			Teaser: summary.ArticleParagraph(a),
			Topic:  a.Topic,
			Author: a.AuthorName,
			When:   timeAgo(a.PublishedAt),
			Media:  summary.ArticleMedia(a),
		}
		if c.Teaser == "" {
			c.Teaser = a.Excerpt
		}
		if a.Topic != "" {
			c.TopicURL = "/" + sectionSlug(a) + "/" + a.Topic
		}
		out = append(out, c)
	}
	return out
}

func searchCards(docs []models.SearchDocument) []card {
	out := make([]card, 0, len(docs))
	for _, d := range docs {
		c := card{
			Title:  d.Title,
			Teaser: d.Summary,
			Topic:  d.Topic,
			When:   timeAgo(d.PublishedAt.Format(time.RFC3339)),
		}
		category := d.Category
		if category == "" {
			category = "news"
		}
		topic := d.Topic
		if topic == "" {
			topic = "latest"
		}
		c.URL = "/" + category + "/" + topic + "/" + d.Slug
		if d.Topic != "" {
			c.TopicURL = "/" + category + "/" + d.Topic
		}
		if d.ThumbnailURL != "" {
			c.Media = summary.Media{Kind: summary.MediaImage, URL: d.ThumbnailURL}
		}
		out = append(out, c)
	}
	return out
}

// articleURL builds the canonical /{category}/{topic}/{slug} path, with
// placeholder segments when the article lacks a category or topic.
func articleURL(a models.Article) string {
	topic := a.Topic
	if topic == "" {
		topic = "latest"
	}
	return "/" + sectionSlug(a) + "/" + topic + "/" + a.Slug
}

func sectionSlug(a models.Article) string {
	if a.Category.Slug != "" {
		return a.Category.Slug
	}
	return "news"
}

func timeAgo(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var ts time.Time
	for _, f := range []string{time.RFC3339Nano, time.RFC3339} {
		if parsed, err := time.Parse(f, raw); err == nil {
			ts = parsed
			break
		}
	}
	if ts.IsZero() {
		return ""
	}

	d := time.Since(ts)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return ts.Format("Jan 2, 2006")
	}
}

func (s *server) notFound(w http.ResponseWriter, message string) {
	s.renderPage(w, http.StatusNotFound, "error.html", errorPage{
		basePage: s.base("Not found"),
		Status:   http.StatusNotFound,
		Message:  message,
	})
}

func (s *server) serverError(w http.ResponseWriter) {
	s.renderPage(w, http.StatusInternalServerError, "error.html", errorPage{
		basePage: s.base("Something went wrong"),
		Status:   http.StatusInternalServerError,
		Message:  "Something went wrong on our side. Please try again shortly.",
	})
}

// renderPage buffers the template output so a rendering failure can still
// become a clean 500 instead of a half-written page.
func (s *server) renderPage(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("render template", slog.String("template", name), slog.Any("err", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
