// Package handler exposes query evaluation over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/norajeanett/S-tek/internal/analytics"
	"github.com/norajeanett/S-tek/internal/engine"
	"github.com/norajeanett/S-tek/internal/ingest"
	"github.com/norajeanett/S-tek/internal/ranker"
	"github.com/norajeanett/S-tek/internal/searcher/cache"
	"github.com/norajeanett/S-tek/pkg/config"
	pkgerrors "github.com/norajeanett/S-tek/pkg/errors"
	"github.com/norajeanett/S-tek/pkg/logger"
	"github.com/norajeanett/S-tek/pkg/metrics"
	"github.com/norajeanett/S-tek/pkg/middleware"
	"github.com/norajeanett/S-tek/pkg/tracing"
)

// Evaluator is the slice of the query engine the handler needs.
type Evaluator interface {
	Evaluate(ctx context.Context, query string, opts engine.Options, r ranker.Ranker) (*engine.Evaluation, error)
}

// RankerFactory builds a fresh ranker instance for one evaluation. Rankers
// carry per-candidate state, so they are never shared across requests.
type RankerFactory func() ranker.Ranker

// Handler serves the search API.
type Handler struct {
	evaluator Evaluator
	cache     *cache.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	store     *ingest.Store
	rankers   map[string]RankerFactory
	cfg       config.SearchConfig
	logger    *slog.Logger
}

// New creates a Handler. cache, collector, m, and store may be nil, disabling
// the corresponding feature. rankers maps ranker names accepted in the API to
// factories; it must contain the key "tfidf", the default policy.
func New(
	evaluator Evaluator,
	queryCache *cache.QueryCache,
	collector *analytics.Collector,
	m *metrics.Metrics,
	store *ingest.Store,
	rankers map[string]RankerFactory,
	cfg config.SearchConfig,
) *Handler {
	return &Handler{
		evaluator: evaluator,
		cache:     queryCache,
		collector: collector,
		metrics:   m,
		store:     store,
		rankers:   rankers,
		cfg:       cfg,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// SearchResponse is the JSON body returned by the search endpoint.
type SearchResponse struct {
	Query           string          `json:"query"`
	Threshold       float64         `json:"threshold"`
	TotalHits       int             `json:"total_hits"`
	UniqueTerms     int             `json:"unique_terms"`
	RequiredMatches int             `json:"required_matches"`
	Results         []engine.Result `json:"results"`
}

// Search handles GET /api/v1/search?q=...&threshold=...&limit=...&ranker=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	opts, err := h.parseOptions(r)
	if err != nil {
		h.countQuery("invalid")
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rankerName, factory, err := h.rankerFactory(r)
	if err != nil {
		h.countQuery("invalid")
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, span := tracing.StartSpan(ctx, "search", middleware.GetRequestID(ctx))
	defer func() {
		span.End()
		span.Log()
	}()

	var eval *engine.Evaluation
	cacheHit := false
	evalCtx, evalSpan := tracing.StartChildSpan(ctx, "evaluate")
	if h.cache != nil {
		eval, cacheHit, err = h.cache.GetOrCompute(evalCtx, query, rankerName, opts, func() (*engine.Evaluation, error) {
			return h.evaluator.Evaluate(evalCtx, query, opts, factory())
		})
	} else {
		eval, err = h.evaluator.Evaluate(evalCtx, query, opts, factory())
	}
	evalSpan.End()
	if err != nil {
		status := pkgerrors.HTTPStatusCode(err)
		if status >= http.StatusInternalServerError {
			log.Error("query evaluation failed", "query", query, "error", err)
			h.countQuery("error")
			h.writeError(w, status, "search failed")
			return
		}
		h.countQuery("invalid")
		h.writeError(w, status, err.Error())
		return
	}

	latency := time.Since(start)
	span.SetAttr("candidates", eval.Candidates)
	span.SetAttr("cache_hit", cacheHit)
	h.observe(eval, cacheHit, latency)

	log.Info("search completed",
		"query", query,
		"threshold", opts.MatchThreshold,
		"candidates", eval.Candidates,
		"returned", len(eval.Results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)

	if h.collector != nil {
		eventType := analytics.EventCacheMiss
		if cacheHit {
			eventType = analytics.EventCacheHit
		}
		if eval.Candidates == 0 {
			eventType = analytics.EventZeroResult
		}
		h.collector.Track(analytics.QueryEvent{
			Type:            eventType,
			Query:           query,
			Threshold:       opts.MatchThreshold,
			UniqueTerms:     eval.UniqueTerms,
			RequiredMatches: eval.RequiredMatches,
			Candidates:      eval.Candidates,
			Returned:        len(eval.Results),
			LatencyMs:       latency.Milliseconds(),
			CacheHit:        cacheHit,
			Timestamp:       time.Now().UTC(),
			RequestID:       middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, &SearchResponse{
		Query:           query,
		Threshold:       opts.MatchThreshold,
		TotalHits:       eval.Candidates,
		UniqueTerms:     eval.UniqueTerms,
		RequiredMatches: eval.RequiredMatches,
		Results:         eval.Results,
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) parseOptions(r *http.Request) (engine.Options, error) {
	opts := engine.Options{
		MatchThreshold: h.cfg.DefaultThreshold,
		HitCount:       h.cfg.DefaultHitCount,
	}
	if s := r.URL.Query().Get("threshold"); s != "" {
		t, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return opts, fmt.Errorf("threshold must be a number in (0, 1]")
		}
		opts.MatchThreshold = t
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			return opts, fmt.Errorf("limit must be a positive integer")
		}
		if limit > h.cfg.MaxHitCount {
			limit = h.cfg.MaxHitCount
		}
		opts.HitCount = limit
	}
	return opts, nil
}

func (h *Handler) rankerFactory(r *http.Request) (string, RankerFactory, error) {
	name := r.URL.Query().Get("ranker")
	if name == "" {
		name = "tfidf"
	}
	factory, ok := h.rankers[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown ranker %q", name)
	}
	return name, factory, nil
}

func (h *Handler) countQuery(outcome string) {
	if h.metrics != nil {
		h.metrics.QueriesTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) observe(eval *engine.Evaluation, cacheHit bool, latency time.Duration) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	if eval.Candidates == 0 {
		outcome = "zero_result"
	}
	h.metrics.QueriesTotal.WithLabelValues(outcome).Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.QueryLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
	h.metrics.QueryCandidates.Observe(float64(eval.Candidates))
	h.metrics.QueryResults.Observe(float64(len(eval.Results)))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
