// Package engine implements N-of-M threshold ranked retrieval over an
// inverted index.
//
// Given a query with M unique terms and a match ratio T, a document is a
// candidate when it contains at least N = max(1, min(M, floor(T*M))) of
// them. Candidates are found with a synchronized streaming merge across the
// per-term posting lists, scored through a caller-supplied ranker, and only
// the top K survive in a bounded sieve. 1-of-M behaves like OR, M-of-M like
// AND, and everything in between is a soft AND.
//
// A single evaluation is strictly sequential; the merge is order-dependent
// and holds no shared state, so independent queries may run concurrently as
// long as each brings its own ranker.
package engine

import (
	"context"
	"log/slog"
	"math"
	"net/http"

	"github.com/norajeanett/S-tek/internal/corpus"
	"github.com/norajeanett/S-tek/internal/index"
	"github.com/norajeanett/S-tek/internal/ranker"
	"github.com/norajeanett/S-tek/pkg/errors"
)

// MaxHitCount caps the number of results a single query may request.
const MaxHitCount = 100

// Options controls one query evaluation.
type Options struct {
	// MatchThreshold is the N-of-M ratio T in (0, 1]. Values outside that
	// range are rejected.
	MatchThreshold float64

	// HitCount is the maximum number of results to return. Non-positive
	// values are rejected; values above MaxHitCount are clamped down.
	HitCount int
}

// Result is one ranked search result.
type Result struct {
	Document *corpus.Document `json:"document"`
	Score    float64          `json:"score"`
}

// Evaluation is the outcome of one query evaluation.
type Evaluation struct {
	Results         []Result `json:"results"`
	Candidates      int      `json:"candidates"`
	UniqueTerms     int      `json:"unique_terms"`
	RequiredMatches int      `json:"required_matches"`
}

// Engine evaluates queries against an index and resolves results through a
// corpus. It holds no per-query state and is safe for concurrent use.
type Engine struct {
	idx    index.Index
	corpus corpus.Corpus
	logger *slog.Logger
}

// New creates an Engine over the given index and corpus. The two must have
// been built from the same documents.
func New(idx index.Index, c corpus.Corpus) *Engine {
	return &Engine{
		idx:    idx,
		corpus: c,
		logger: slog.Default().With("component", "query-engine"),
	}
}

// Evaluate runs N-of-M ranked retrieval for the query and returns the best
// matches in descending score order. An empty or all-stop-word query yields
// an empty evaluation without touching the ranker. Invalid options are
// rejected before any merge work. All other failures are fatal for this
// query only.
func (e *Engine) Evaluate(ctx context.Context, query string, opts Options, r ranker.Ranker) (*Evaluation, error) {
	hitCount, err := validateOptions(opts)
	if err != nil {
		return nil, err
	}

	terms := ResolveTerms(e.idx, query)
	if len(terms) == 0 {
		return &Evaluation{Results: []Result{}}, nil
	}

	m := newMatcher(e.idx, terms, opts.MatchThreshold)
	sieve := NewSieve(hitCount)
	adapter := scoreAdapter{ranker: r}

	candidates := 0
	err = m.run(ctx, func(docID int, contribs []Contribution) error {
		score, err := adapter.score(docID, contribs)
		if err != nil {
			return err
		}
		sieve.Offer(score, docID)
		candidates++
		return nil
	})
	if err != nil {
		return nil, err
	}

	winners := sieve.DrainDescending()
	results := make([]Result, 0, len(winners))
	for _, w := range winners {
		doc, err := e.corpus.Get(ctx, w.DocumentID)
		if err != nil {
			// The index produced an id the corpus cannot resolve: the two
			// have diverged, which is fatal for this query.
			return nil, err
		}
		results = append(results, Result{Document: doc, Score: w.Score})
	}

	e.logger.Debug("query evaluated",
		"query", query,
		"unique_terms", len(terms),
		"required_matches", m.threshold(),
		"candidates", candidates,
		"results", len(results),
	)

	return &Evaluation{
		Results:         results,
		Candidates:      candidates,
		UniqueTerms:     len(terms),
		RequiredMatches: m.threshold(),
	}, nil
}

// validateOptions rejects out-of-range options and returns the effective hit
// count. The threshold must lie in (0, 1]; the hit count must be positive
// and is clamped to MaxHitCount.
func validateOptions(opts Options) (int, error) {
	// NaN compares false against both bounds, so it needs its own check.
	if math.IsNaN(opts.MatchThreshold) || opts.MatchThreshold <= 0 || opts.MatchThreshold > 1 {
		return 0, errors.Newf(errors.ErrInvalidOptions, http.StatusBadRequest,
			"match threshold %v outside (0, 1]", opts.MatchThreshold)
	}
	if opts.HitCount < 1 {
		return 0, errors.Newf(errors.ErrInvalidOptions, http.StatusBadRequest,
			"hit count %d must be positive", opts.HitCount)
	}
	if opts.HitCount > MaxHitCount {
		return MaxHitCount, nil
	}
	return opts.HitCount, nil
}
