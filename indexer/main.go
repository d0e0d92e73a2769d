package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/ndelchev/newsfront/internal/config"
	"github.com/ndelchev/newsfront/internal/dedupe"
	"github.com/ndelchev/newsfront/internal/logger"
	"github.com/ndelchev/newsfront/internal/models"
	"github.com/ndelchev/newsfront/internal/search"
	"github.com/ndelchev/newsfront/internal/summary"
)

type articleIndexer interface {
	IndexArticle(ctx context.Context, doc models.SearchDocument) error
}

func main() {
	log := logger.New("indexer")
	cfg, err := config.LoadIndexer()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := search.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	cache := dedupe.New(cfg.DedupeCapacity, cfg.DedupeTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // Disable auto-commit; manual commit only
	})
	defer reader.Close()

	dlqWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaTopic + "_dlq",
		MaxAttempts: 3,
	})
	defer dlqWriter.Close()

	log.Info("indexer started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", cfg.KafkaTopic+"_dlq"),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, esClient, cache, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)

			dlqMsg := kafka.Message{
				Value: msg.Value,
				Headers: append(msg.Headers,
					kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
					kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
					kafka.Header{Key: "error", Value: []byte(err.Error())},
					kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
				),
			}

			// Retry DLQ write with exponential backoff
			dlqSuccess := false
			for attempt := 0; attempt < 5; attempt++ {
				if dlqErr := dlqWriter.WriteMessages(ctx, dlqMsg); dlqErr == nil {
					dlqSuccess = true
					log.Info("message sent to DLQ",
						slog.Int("partition", msg.Partition),
						slog.Int64("offset", msg.Offset),
						slog.Int("attempt", attempt+1),
					)
					break
				} else {
					backoff := time.Duration(1<<uint(attempt)) * time.Second
					log.Warn("DLQ write failed, retrying",
						slog.Any("err", dlqErr),
						slog.Int("attempt", attempt+1),
						slog.Duration("backoff", backoff),
					)
					select {
					case <-time.After(backoff):
					case <-ctx.Done():
						log.Info("context canceled during DLQ retry")
						return
					}
				}
			}

			// Only commit if DLQ write succeeded; otherwise skip commit and reprocess on restart
			if dlqSuccess {
				if err := reader.CommitMessages(ctx, msg); err != nil {
					log.Error("commit failed message to dlq", slog.Any("err", err))
				}
			} else {
				log.Error("DLQ write exhausted retries, message may be lost if later messages commit",
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
				)
			}
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

// processMessage turns one publish event into a search document. The
// event payload is the CMS article record itself.
func processMessage(ctx context.Context, log *slog.Logger, esClient articleIndexer, cache *dedupe.Cache, msg kafka.Message) error {
	var article models.Article
	if err := json.Unmarshal(msg.Value, &article); err != nil {
		return err
	}

	title := strings.TrimSpace(article.Title)
	slug := strings.TrimSpace(article.Slug)
	if title == "" || slug == "" {
		return errors.New("article event missing title or slug")
	}
	article.Title = title
	article.Slug = slug

	if article.Status != "" && article.Status != "published" {
		log.Debug("skipping unpublished article", slog.String("slug", slug), slog.String("status", article.Status))
		return nil
	}

	publishedAt := parseTimestamp(article.PublishedAt)
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	doc := models.SearchDocument{
		ID:          article.ID,
		Title:       title,
		Slug:        slug,
		Category:    article.Category.Slug,
		Topic:       article.Topic,
		Summary:     buildSummary(article),
		PublishedAt: publishedAt,
	}

	if media := summary.ArticleMedia(article); media.Kind != summary.MediaNone {
		doc.ThumbnailURL = media.ThumbnailURL
		if doc.ThumbnailURL == "" {
			doc.ThumbnailURL = media.URL
		}
	}

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	revision := doc.ID + "|" + strings.TrimSpace(article.UpdatedAt)
	if cache.IsSeen(revision) {
		log.Debug("duplicate article revision", slog.String("id", doc.ID))
		return nil
	}

	if err := esClient.IndexArticle(ctx, doc); err != nil {
		return err
	}

	cache.MarkSeen(revision)
	log.Info("indexed article", slog.String("id", doc.ID), slog.String("slug", doc.Slug))
	return nil
}

// buildSummary prefers the first real paragraph of the content body and
// falls back to the hand-written excerpt.
func buildSummary(article models.Article) string {
	if text := summary.ArticleParagraph(article); text != "" {
		return text
	}
	return strings.TrimSpace(article.Excerpt)
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts
		}
	}

	return time.Time{}
}
