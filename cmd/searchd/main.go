package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/norajeanett/S-tek/internal/analytics"
	"github.com/norajeanett/S-tek/internal/corpus"
	"github.com/norajeanett/S-tek/internal/engine"
	"github.com/norajeanett/S-tek/internal/index"
	"github.com/norajeanett/S-tek/internal/ingest"
	"github.com/norajeanett/S-tek/internal/ranker"
	"github.com/norajeanett/S-tek/internal/searcher/cache"
	"github.com/norajeanett/S-tek/internal/searcher/handler"
	"github.com/norajeanett/S-tek/pkg/config"
	"github.com/norajeanett/S-tek/pkg/health"
	"github.com/norajeanett/S-tek/pkg/kafka"
	"github.com/norajeanett/S-tek/pkg/logger"
	"github.com/norajeanett/S-tek/pkg/metrics"
	"github.com/norajeanett/S-tek/pkg/middleware"
	"github.com/norajeanett/S-tek/pkg/postgres"
	"github.com/norajeanett/S-tek/pkg/ratelimit"
	pkgredis "github.com/norajeanett/S-tek/pkg/redis"
	"github.com/norajeanett/S-tek/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service",
		"port", cfg.Server.Port,
		"corpus_source", cfg.Corpus.Source,
		"default_threshold", cfg.Search.DefaultThreshold,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	store, pgClient, err := openCorpus(ctx, cfg)
	if err != nil {
		slog.Error("failed to open corpus", "error", err)
		os.Exit(1)
	}
	if pgClient != nil {
		defer pgClient.Close()
	}

	idx, err := buildIndex(ctx, cfg, store)
	if err != nil {
		slog.Error("failed to build index", "error", err)
		os.Exit(1)
	}
	docCount, _ := store.Size(ctx)
	slog.Info("index built", "documents", idx.DocCount(), "terms", idx.TermCount())
	if m != nil {
		m.CorpusDocuments.Set(float64(docCount))
		m.IndexTerms.Set(float64(idx.TermCount()))
	}

	// A remote corpus gets a circuit breaker so result materialization fails
	// fast when the database is down.
	engineStore := store
	if pgClient != nil {
		breaker := resilience.NewCircuitBreaker("corpus", resilience.CircuitBreakerConfig{})
		engineStore = corpus.NewResilientCorpus(store, breaker)
	}
	eng := engine.New(idx, engineStore)

	var ingestStore *ingest.Store
	if memCorpus, ok := store.(*corpus.MemoryCorpus); ok {
		ingestStore = ingest.NewStore(memCorpus, idx)
	}

	var queryCache *cache.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, result caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("result cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.AnalyticsEvents)
	defer producer.Close()
	collector := analytics.NewCollector(producer, 10000)
	collector.Start(ctx)
	defer collector.Close()

	quality := qualityLookup(store)
	rankers := map[string]handler.RankerFactory{
		"tfidf":   func() ranker.Ranker { return ranker.NewTFIDF(idx) },
		"bm25":    func() ranker.Ranker { return ranker.NewBM25(idx) },
		"quality": func() ranker.Ranker { return ranker.NewQuality(idx, quality) },
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if idx.DocCount() > 0 {
			return health.ComponentHealth{Status: health.StatusUp,
				Message: fmt.Sprintf("%d documents indexed", idx.DocCount())}
		}
		return health.ComponentHealth{Status: health.StatusDegraded, Message: "empty index"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	if pgClient != nil {
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			if err := pgClient.DB.PingContext(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	h := handler.New(eng, queryCache, collector, m, ingestStore, rankers, cfg.Search)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("POST /api/v1/documents", h.AddDocument)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	if cfg.Server.RateLimit > 0 {
		limiter := ratelimit.New(cfg.Server.RateLimit, cfg.Server.RateLimitWindow)
		chain = middleware.RateLimit(limiter)(chain)
	}
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}

// openCorpus opens the configured document store. For the postgres source
// the returned client must be closed by the caller.
func openCorpus(ctx context.Context, cfg *config.Config) (corpus.Corpus, *postgres.Client, error) {
	switch cfg.Corpus.Source {
	case "postgres":
		var client *postgres.Client
		err := resilience.Retry(ctx, "postgres-connect", resilience.RetryConfig{}, func() error {
			var err error
			client, err = postgres.New(cfg.Postgres)
			return err
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return corpus.NewSQLCorpus(client), client, nil
	default:
		if cfg.Corpus.SeedFile == "" {
			return nil, nil, fmt.Errorf("memory corpus requires corpus.seedFile")
		}
		store, err := corpus.LoadSeedFile(cfg.Corpus.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

// buildIndex indexes every corpus document into a fresh MemoryIndex.
func buildIndex(ctx context.Context, cfg *config.Config, store corpus.Corpus) (*index.MemoryIndex, error) {
	idx := index.NewMemoryIndex()
	switch c := store.(type) {
	case *corpus.MemoryCorpus:
		c.ForEach(func(doc *corpus.Document) {
			idx.AddDocument(doc.ID, doc.Title, doc.Body)
		})
	case *corpus.SQLCorpus:
		err := c.ForEach(ctx, func(doc *corpus.Document) {
			idx.AddDocument(doc.ID, doc.Title, doc.Body)
		})
		if err != nil {
			return nil, fmt.Errorf("indexing corpus: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported corpus type %T", store)
	}
	return idx, nil
}

// qualityLookup resolves static quality scores for the quality ranker.
// Lookups that fail fall back to the default score of zero.
func qualityLookup(store corpus.Corpus) func(docID int) float64 {
	return func(docID int) float64 {
		doc, err := store.Get(context.Background(), docID)
		if err != nil {
			return 0
		}
		return doc.QualityScore
	}
}
