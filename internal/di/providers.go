package di

import (
	"context"
	"fmt"
	"time"

	"SentiPull/internal/domain/repository"
	"SentiPull/internal/engine"
	"SentiPull/internal/handler/api"
	mid "SentiPull/internal/middleware"
	internalrepo "SentiPull/internal/repository"
	"SentiPull/internal/service/classifier"
	"SentiPull/internal/service/reddit"
	"SentiPull/internal/service/stream"
	"SentiPull/internal/usecase"
	"SentiPull/pkg/cache"
	pkgch "SentiPull/pkg/clickhouse"
	"SentiPull/pkg/config"
	xhttp "SentiPull/pkg/http"
	pkgkafka "SentiPull/pkg/kafka"
	applogger "SentiPull/pkg/logger"
	"SentiPull/pkg/metrics"
	"SentiPull/pkg/queue"
	"SentiPull/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lc.Level = "debug"
		lc.Format = "console"
	}
	return applogger.New(lc)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngine creates the sentiment engine with the configured window.
func ProvideEngine(cfg *config.Config, m repository.Metrics) (*engine.Engine, error) {
	return engine.New(cfg.Window.Capacity, m)
}

// ProvideClickHouseClient creates a ClickHouse client when a backend
// needs one. Returns nil for the "none" backend.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Backend.Type != "clickhouse" && cfg.Backend.Type != "kafka" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideStorage creates the observation archive repository.
func ProvideStorage(chClient *pkgch.Client, cfg *config.Config) (repository.Storage, error) {
	if chClient == nil {
		return nil, nil
	}
	s := internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database+".observations")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Init(ctx); err != nil {
		return nil, fmt.Errorf("observations schema: %w", err)
	}
	return s, nil
}

// ProvideKafkaProducer creates a Kafka producer for the kafka backend.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the Kafka observation publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates the archiver consumer for the kafka backend.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideObservationsHandler registers the archiver handler for the observations topic.
func ProvideObservationsHandler(store repository.Storage, m repository.Metrics, cfg *config.Config) *usecase.KafkaObservationsHandler {
	return usecase.NewKafkaObservationsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideTextSource creates the configured ingestion source, nil for "none".
func ProvideTextSource(cfg *config.Config) repository.TextSource {
	switch cfg.Source.Type {
	case "reddit":
		return reddit.New(
			cfg.Reddit.BaseURL,
			cfg.Reddit.UserAgent,
			cfg.Reddit.Subreddit,
			cfg.Reddit.BatchSize,
			cfg.Reddit.PollInterval,
		)
	case "websocket":
		return stream.New(
			cfg.Stream.URL,
			cfg.Stream.Topics,
			cfg.Stream.ReconnectDelay,
			cfg.Stream.PingInterval,
		)
	default:
		return nil
	}
}

// ProvideClassifier creates the HTTP classifier wrapped with a result cache.
// With redis enabled the cache is layered (memory over redis); otherwise
// it is in-process only.
func ProvideClassifier(cfg *config.Config) (repository.Classifier, error) {
	base := classifier.NewHTTP(
		cfg.Classifier.ServiceURL,
		cfg.Classifier.Timeout,
		cfg.Classifier.RetryAttempts,
	)

	var c cache.Service
	if cfg.Classifier.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Classifier.Redis.Host),
			cache.WithRedisPort(cfg.Classifier.Redis.Port),
			cache.WithRedisPassword(cfg.Classifier.Redis.Password),
			cache.WithRedisDB(cfg.Classifier.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("classifier cache: %w", err)
		}
		c = cache.NewLayeredCache(rc)
	} else {
		c = cache.NewMemoryCache()
	}

	return classifier.NewCached(base, c, cfg.Classifier.CacheTTL), nil
}

// ProvideRetryQueue creates the redis-backed classification retry queue,
// nil when disabled.
func ProvideRetryQueue(cfg *config.Config, l *applogger.Logger) *queue.RedisQueue {
	if !cfg.Classifier.RetryQueue.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Classifier.Redis.Host, cfg.Classifier.Redis.Port),
		Password: cfg.Classifier.Redis.Password,
		DB:       cfg.Classifier.Redis.DB,
	})
	return queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    1,
		RetryLimit: cfg.Classifier.RetryQueue.MaxAttempts,
		RetryDelay: cfg.Classifier.RetryQueue.RetryDelay,
	}, client, queue.ModeProducerConsumer, queue.WithKeyPrefix("sentipull:retry"))
}

// ProvideProcessor creates the observation processor use case.
func ProvideProcessor(
	pub repository.Publisher,
	store repository.Storage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.ObservationProcessor {
	return usecase.NewObservationProcessor(
		pub,
		store,
		m,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideCollector creates the observation collector use case.
func ProvideCollector(
	source repository.TextSource,
	cls repository.Classifier,
	eng *engine.Engine,
	m repository.Metrics,
	processor *usecase.ObservationProcessor,
	retryQueue *queue.RedisQueue,
	cfg *config.Config,
) *usecase.ObservationCollector {
	pipe := mid.NewIngestPipeline(processor, m,
		mid.WithMaxRPS(cfg.Ingest.MaxRPS),
		mid.WithBufferSize(cfg.Ingest.BufferSize),
	)
	var retry usecase.RetryEnqueuer
	if retryQueue != nil {
		retry = classifier.NewRetryEnqueuer(retryQueue)
	}
	return usecase.NewObservationCollector(source, cls, eng, m, pipe, retry, cfg.Ingest.MaxTextLength)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	eng *engine.Engine,
	cls repository.Classifier,
	collector *usecase.ObservationCollector,
	m repository.Metrics,
	store repository.Storage,
) xhttp.Handler {
	return api.NewSentimentEchoHandler(l, eng, cls, collector, m, store)
}

// kafkaLogPublisher adapts the Kafka producer to the log collector.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (p *kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.ObservationCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaObservationsHandler,
	chClient *pkgch.Client,
	retryQueue *queue.RedisQueue,
	handler xhttp.Handler,
	processor *usecase.ObservationProcessor,
	producer *pkgkafka.Producer,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	if producer != nil && cfg.Kafka.LogTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogTopic,
			Publisher:      &kafkaLogPublisher{producer: producer},
		})
	}

	var mh pkgkafka.MessageHandler
	if consumer != nil {
		mh = kh
	}

	app := server.New(cfg, l, collector, consumer, mh, chClient, retryQueue)
	app.SetHTTPHandler(handler)
	app.Proc = processor
	return app
}
