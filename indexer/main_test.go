package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/ndelchev/newsfront/internal/dedupe"
	"github.com/ndelchev/newsfront/internal/models"
)

type stubIndexer struct {
	docs []models.SearchDocument
}

func (s *stubIndexer) IndexArticle(_ context.Context, doc models.SearchDocument) error {
	s.docs = append(s.docs, doc)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func eventMessage(t *testing.T, article models.Article) kafka.Message {
	t.Helper()
	data, err := json.Marshal(article)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestProcessMessageIndexesDocument(t *testing.T) {
	cache := dedupe.New(100, time.Hour)
	idx := &stubIndexer{}

	article := models.Article{
		ID:          "art-1",
		Title:       "Quake hits the coast",
		Slug:        "quake-hits-the-coast",
		Topic:       "disasters",
		Status:      "published",
		PublishedAt: "2026-08-01T10:00:00Z",
		UpdatedAt:   "2026-08-01T10:00:00Z",
		Category:    models.Category{Slug: "world", Name: "World"},
		ContentJSON: json.RawMessage(`{"blocks":[
			{"type":"paragraph","data":{"text":"A strong <b>earthquake</b> struck early Monday."}},
			{"type":"image","data":{"url":"https://cdn/quake.jpg"}}
		]}`),
	}
	msg := eventMessage(t, article)

	require.NoError(t, processMessage(context.Background(), discard(), idx, cache, msg))
	require.Len(t, idx.docs, 1)

	doc := idx.docs[0]
	require.Equal(t, "art-1", doc.ID)
	require.Equal(t, "world", doc.Category)
	require.Equal(t, "A strong earthquake struck early Monday.", doc.Summary)
	require.Equal(t, "https://cdn/quake.jpg", doc.ThumbnailURL)
	require.Equal(t, 2026, doc.PublishedAt.Year())

	// same revision again is a no-op
	require.NoError(t, processMessage(context.Background(), discard(), idx, cache, msg))
	require.Len(t, idx.docs, 1)

	// a new revision passes through
	article.UpdatedAt = "2026-08-01T11:00:00Z"
	require.NoError(t, processMessage(context.Background(), discard(), idx, cache, eventMessage(t, article)))
	require.Len(t, idx.docs, 2)
}

func TestProcessMessageFallsBackToExcerpt(t *testing.T) {
	cache := dedupe.New(100, time.Hour)
	idx := &stubIndexer{}

	article := models.Article{
		ID:          "art-2",
		Title:       "No body yet",
		Slug:        "no-body-yet",
		Excerpt:     "hand-written teaser",
		ContentJSON: json.RawMessage(`{"blocks":[]}`),
	}

	require.NoError(t, processMessage(context.Background(), discard(), idx, cache, eventMessage(t, article)))
	require.Len(t, idx.docs, 1)
	require.Equal(t, "hand-written teaser", idx.docs[0].Summary)
	require.Empty(t, idx.docs[0].ThumbnailURL)
}

func TestProcessMessageRejectsIncompleteEvent(t *testing.T) {
	cache := dedupe.New(100, time.Hour)
	idx := &stubIndexer{}

	require.Error(t, processMessage(context.Background(), discard(), idx, cache,
		eventMessage(t, models.Article{Title: "no slug"})))
	require.Error(t, processMessage(context.Background(), discard(), idx, cache,
		kafka.Message{Value: []byte("not json")}))
	require.Empty(t, idx.docs)
}

func TestProcessMessageSkipsUnpublished(t *testing.T) {
	cache := dedupe.New(100, time.Hour)
	idx := &stubIndexer{}

	article := models.Article{
		ID:     "art-3",
		Title:  "Draft",
		Slug:   "draft",
		Status: "draft",
	}

	require.NoError(t, processMessage(context.Background(), discard(), idx, cache, eventMessage(t, article)))
	require.Empty(t, idx.docs)
}

func TestProcessMessageGeneratesID(t *testing.T) {
	cache := dedupe.New(100, time.Hour)
	idx := &stubIndexer{}

	article := models.Article{
		Title: "Missing id",
		Slug:  "missing-id",
	}

	require.NoError(t, processMessage(context.Background(), discard(), idx, cache, eventMessage(t, article)))
	require.Len(t, idx.docs, 1)
	require.NotEmpty(t, idx.docs[0].ID)
}

func TestParseTimestamp(t *testing.T) {
	ts := parseTimestamp("2026-02-03T04:05:06Z")
	require.False(t, ts.IsZero())
	require.Equal(t, 2026, ts.Year())
	require.Equal(t, 2, int(ts.Month()))

	legacy := parseTimestamp("2026-02-03 04:05:06")
	require.False(t, legacy.IsZero())
	require.Equal(t, 3, legacy.Day())

	require.True(t, parseTimestamp("invalid").IsZero())
	require.True(t, parseTimestamp("").IsZero())
}
