package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common contains Elasticsearch parameters shared by every service.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
}

// Server holds configuration for the public web server.
type Server struct {
	Common
	BindAddr      string
	CMSEndpoint   string
	CMSTimeout    time.Duration
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
	PageSize      int
	MaxPageSize   int
	BreakingLimit int
}

// Indexer holds configuration for the Kafka -> Elasticsearch indexer.
type Indexer struct {
	Common
	KafkaBrokers   []string
	KafkaTopic     string
	KafkaConsumer  string
	DedupeCapacity int
	DedupeTTL      time.Duration
	BatchSize      int
}

// Retention configures the search-index cleanup loop.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

// LoadServer builds a Server config from environment variables.
func LoadServer() (*Server, error) {
	c := &Server{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "articles"),
		},
		BindAddr:      getEnv("SERVER_BIND_ADDR", "0.0.0.0:8080"),
		CMSEndpoint:   getEnv("CMS_ENDPOINT", "http://cms:4000/graphql"),
		CMSTimeout:    getDuration("CMS_TIMEOUT", "10s"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getDuration("CACHE_TTL", "60s"),
		PageSize:      getInt("SERVER_PAGE_SIZE", 20),
		MaxPageSize:   getInt("SERVER_MAX_PAGE_SIZE", 100),
		BreakingLimit: getInt("SERVER_BREAKING_LIMIT", 5),
	}

	if c.CMSEndpoint == "" {
		return nil, fmt.Errorf("CMS_ENDPOINT must not be empty")
	}
	if c.CMSTimeout <= 0 {
		return nil, fmt.Errorf("CMS_TIMEOUT must be positive")
	}
	if c.PageSize <= 0 {
		return nil, fmt.Errorf("SERVER_PAGE_SIZE must be positive")
	}
	if c.MaxPageSize <= 0 {
		return nil, fmt.Errorf("SERVER_MAX_PAGE_SIZE must be positive")
	}
	if c.PageSize > c.MaxPageSize {
		return nil, fmt.Errorf("SERVER_PAGE_SIZE cannot exceed SERVER_MAX_PAGE_SIZE")
	}
	if c.BreakingLimit <= 0 {
		return nil, fmt.Errorf("SERVER_BREAKING_LIMIT must be positive")
	}

	return c, nil
}

// LoadIndexer builds an Indexer config from environment variables.
func LoadIndexer() (*Indexer, error) {
	c := &Indexer{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "articles"),
		},
		KafkaBrokers:   splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "articles_published"),
		KafkaConsumer:  getEnv("KAFKA_CONSUMER_GROUP", "newsfront-indexer"),
		DedupeCapacity: getInt("INDEXER_DEDUPE_CAPACITY", 20000),
		DedupeTTL:      getDuration("INDEXER_DEDUPE_TTL", "24h"),
		BatchSize:      getInt("INDEXER_BATCH_SIZE", 10),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}

	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("INDEXER_BATCH_SIZE must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("INDEXER_DEDUPE_CAPACITY must be positive")
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	c := &Retention{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "articles"),
		},
		Interval:  getDuration("RETENTION_INTERVAL", "24h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "2160h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}

	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_INTERVAL must be positive")
	}

	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
