package di

import (
	"context"
	"fmt"
	"time"

	"github.com/maifast-lab/maifast/internal/domain/repository"
	"github.com/maifast-lab/maifast/internal/handler/api"
	internalrepo "github.com/maifast-lab/maifast/internal/repository"
	"github.com/maifast-lab/maifast/internal/services/assistant"
	"github.com/maifast-lab/maifast/internal/usecase"
	"github.com/maifast-lab/maifast/pkg/cache"
	pkgch "github.com/maifast-lab/maifast/pkg/clickhouse"
	"github.com/maifast-lab/maifast/pkg/config"
	xhttp "github.com/maifast-lab/maifast/pkg/http"
	pkgkafka "github.com/maifast-lab/maifast/pkg/kafka"
	applogger "github.com/maifast-lab/maifast/pkg/logger"
	"github.com/maifast-lab/maifast/pkg/metrics"
	"github.com/maifast-lab/maifast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and applies the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := append([]string{"CREATE DATABASE IF NOT EXISTS maifast"}, internalrepo.Schema...)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideCache creates the detail cache: Redis when enabled, in-process
// otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvidePublisher creates the Kafka audit publisher, nil when disabled.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideAssistantClient creates the chat/embedding client, nil when disabled.
func ProvideAssistantClient(cfg *config.Config, l *applogger.Logger) *assistant.Client {
	if !cfg.Assistant.Enabled {
		return nil
	}
	ac := assistant.DefaultConfig()
	ac.APIKey = cfg.Assistant.APIKey
	if cfg.Assistant.Model != "" {
		ac.Model = cfg.Assistant.Model
	}
	if cfg.Assistant.EmbeddingModel != "" {
		ac.EmbeddingModel = cfg.Assistant.EmbeddingModel
	}
	if cfg.Assistant.Temperature > 0 {
		ac.Temperature = cfg.Assistant.Temperature
	}
	if cfg.Assistant.MaxTokens > 0 {
		ac.MaxTokens = cfg.Assistant.MaxTokens
	}
	if cfg.Assistant.Timeout > 0 {
		ac.Timeout = cfg.Assistant.Timeout
	}
	if cfg.Assistant.RetrievalTopK > 0 {
		ac.RetrievalTopK = cfg.Assistant.RetrievalTopK
	}
	return assistant.NewClient(ac, l)
}

// stores bundles the ClickHouse-backed repositories built from one client.
type stores struct {
	series      repository.SeriesStore
	points      repository.PointStore
	predictions repository.PredictionStore
	evaluations repository.EvaluationStore
	messages    repository.MessageStore
	chunks      repository.ChunkStore
}

// ProvideStores creates all ClickHouse stores.
func ProvideStores(ch *pkgch.Client, l *applogger.Logger) stores {
	return stores{
		series:      internalrepo.NewCHSeriesStore(ch, l),
		points:      internalrepo.NewCHPointStore(ch, l),
		predictions: internalrepo.NewCHPredictionStore(ch, l),
		evaluations: internalrepo.NewCHEvaluationStore(ch, l),
		messages:    internalrepo.NewCHMessageStore(ch, l),
		chunks:      internalrepo.NewCHChunkStore(ch, l),
	}
}

// ProvideHandler assembles usecases and the Echo handler.
func ProvideHandler(
	cfg *config.Config,
	l *applogger.Logger,
	st stores,
	cacheService cache.Service,
	publisher repository.Publisher,
	rec repository.Metrics,
	client *assistant.Client,
) xhttp.Handler {
	locks := usecase.NewSeriesLocks()

	var (
		indexer   usecase.UploadIndexer
		retriever *assistant.Retriever
	)
	if client != nil {
		indexer = assistant.NewIndexer(st.chunks, client)
		retriever = assistant.NewRetriever(st.chunks, client)
	}

	detailTTL := cfg.Redis.DetailTTL
	if detailTTL <= 0 {
		detailTTL = time.Minute
	}

	seriesSvc := usecase.NewSeriesService(st.series, st.points, st.predictions, st.evaluations, cacheService, detailTTL, l)
	ingestion := usecase.NewIngestionEngine(st.series, st.points, st.predictions, st.evaluations, publisher, indexer, cacheService, rec, locks, l)
	prediction := usecase.NewPredictionEngine(st.series, st.points, st.predictions, publisher, cacheService, rec, locks, l)
	conversations := usecase.NewConversationService(st.series, st.messages, retriever, client, l)

	return api.NewSeriesEchoHandler(l, seriesSvc, ingestion, prediction, conversations)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	cacheService cache.Service,
	publisher repository.Publisher,
) *server.App {
	return server.New(cfg, l, handler, chClient, cacheService, publisher)
}
