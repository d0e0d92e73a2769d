package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndelchev/newsfront/internal/config"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("ELASTICSEARCH_ADDR", "")
	t.Setenv("ELASTICSEARCH_INDEX", "")
	t.Setenv("SERVER_BIND_ADDR", "")
	t.Setenv("CMS_ENDPOINT", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := config.LoadServer()
	require.NoError(t, err)

	require.Equal(t, "http://elasticsearch:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "articles", cfg.ElasticsearchIndex)
	require.Equal(t, "0.0.0.0:8080", cfg.BindAddr)
	require.Equal(t, "http://cms:4000/graphql", cfg.CMSEndpoint)
	require.Equal(t, 10*time.Second, cfg.CMSTimeout)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Equal(t, 20, cfg.PageSize)
	require.Equal(t, 5, cfg.BreakingLimit)
}

func TestLoadServerOverrides(t *testing.T) {
	t.Setenv("SERVER_BIND_ADDR", ":9090")
	t.Setenv("CMS_ENDPOINT", "http://localhost:4100/graphql")
	t.Setenv("CMS_TIMEOUT", "3s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("SERVER_PAGE_SIZE", "15")
	t.Setenv("SERVER_MAX_PAGE_SIZE", "200")
	t.Setenv("SERVER_BREAKING_LIMIT", "3")

	cfg, err := config.LoadServer()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, "http://localhost:4100/graphql", cfg.CMSEndpoint)
	require.Equal(t, 3*time.Second, cfg.CMSTimeout)
	require.Equal(t, "redis:6379", cfg.RedisAddr)
	require.Equal(t, "hunter2", cfg.RedisPassword)
	require.Equal(t, 90*time.Second, cfg.CacheTTL)
	require.Equal(t, 15, cfg.PageSize)
	require.Equal(t, 200, cfg.MaxPageSize)
	require.Equal(t, 3, cfg.BreakingLimit)
}

func TestLoadServerRejectsInvalidPaging(t *testing.T) {
	t.Setenv("SERVER_PAGE_SIZE", "500")
	t.Setenv("SERVER_MAX_PAGE_SIZE", "100")

	_, err := config.LoadServer()
	require.Error(t, err)
}

func TestLoadIndexerDefaults(t *testing.T) {
	t.Setenv("ELASTICSEARCH_ADDR", "")
	t.Setenv("ELASTICSEARCH_INDEX", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("KAFKA_CONSUMER_GROUP", "")

	cfg, err := config.LoadIndexer()
	require.NoError(t, err)

	require.Equal(t, "http://elasticsearch:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "articles", cfg.ElasticsearchIndex)
	require.Len(t, cfg.KafkaBrokers, 1)
	require.Equal(t, "kafka:9092", cfg.KafkaBrokers[0])
	require.Equal(t, "articles_published", cfg.KafkaTopic)
	require.Equal(t, "newsfront-indexer", cfg.KafkaConsumer)
}

func TestLoadIndexerOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-a:29092,broker-b:29093")
	t.Setenv("KAFKA_TOPIC", "custom_topic")
	t.Setenv("KAFKA_CONSUMER_GROUP", "custom-group")
	t.Setenv("INDEXER_DEDUPE_CAPACITY", "5")
	t.Setenv("INDEXER_DEDUPE_TTL", "48h")
	t.Setenv("INDEXER_BATCH_SIZE", "3")

	cfg, err := config.LoadIndexer()
	require.NoError(t, err)

	require.Len(t, cfg.KafkaBrokers, 2)
	require.Equal(t, "broker-a:29092", cfg.KafkaBrokers[0])
	require.Equal(t, "custom_topic", cfg.KafkaTopic)
	require.Equal(t, "custom-group", cfg.KafkaConsumer)
	require.Equal(t, 5, cfg.DedupeCapacity)
	require.Equal(t, 48*time.Hour, cfg.DedupeTTL)
	require.Equal(t, 3, cfg.BatchSize)
}

func TestLoadRetention(t *testing.T) {
	t.Setenv("ELASTICSEARCH_ADDR", "http://ret-es:9200")
	t.Setenv("ELASTICSEARCH_INDEX", "ret-index")
	t.Setenv("RETENTION_INTERVAL", "12h")
	t.Setenv("RETENTION_MAX_AGE", "36h")
	t.Setenv("RETENTION_BATCH_SIZE", "123")

	cfg, err := config.LoadRetention()
	require.NoError(t, err)

	require.Equal(t, 12*time.Hour, cfg.Interval)
	require.Equal(t, 36*time.Hour, cfg.MaxAge)
	require.Equal(t, 123, cfg.BatchSize)
	require.Equal(t, "http://ret-es:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "ret-index", cfg.ElasticsearchIndex)
}
