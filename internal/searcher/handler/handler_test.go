package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/norajeanett/S-tek/internal/corpus"
	"github.com/norajeanett/S-tek/internal/engine"
	"github.com/norajeanett/S-tek/internal/index"
	"github.com/norajeanett/S-tek/internal/ranker"
	"github.com/norajeanett/S-tek/pkg/config"
	pkgerrors "github.com/norajeanett/S-tek/pkg/errors"
)

type fakeEvaluator struct {
	lastQuery string
	lastOpts  engine.Options
	eval      *engine.Evaluation
	err       error
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, query string, opts engine.Options, r ranker.Ranker) (*engine.Evaluation, error) {
	f.lastQuery = query
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.eval, nil
}

type noopRanker struct{}

func (noopRanker) Reset(docID int) {}

func (noopRanker) Update(term string, multiplicity int, posting index.Posting) {}

func (noopRanker) Evaluate() float64 { return 0 }

func testConfig() config.SearchConfig {
	return config.SearchConfig{
		DefaultThreshold: 0.5,
		DefaultHitCount:  10,
		MaxHitCount:      100,
	}
}

func testRankers() map[string]RankerFactory {
	return map[string]RankerFactory{
		"tfidf": func() ranker.Ranker { return noopRanker{} },
	}
}

func newTestHandler(ev *fakeEvaluator) *Handler {
	return New(ev, nil, nil, nil, nil, testRankers(), testConfig())
}

func TestSearchSuccess(t *testing.T) {
	ev := &fakeEvaluator{
		eval: &engine.Evaluation{
			Results: []engine.Result{
				{Document: &corpus.Document{ID: 3, Title: "best"}, Score: 0.9},
				{Document: &corpus.Document{ID: 5, Title: "next"}, Score: 0.6},
			},
			Candidates:      4,
			UniqueTerms:     2,
			RequiredMatches: 1,
		},
	}
	h := newTestHandler(ev)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=apple+banana&threshold=0.34&limit=5", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ev.lastQuery != "apple banana" {
		t.Errorf("query passed to evaluator = %q", ev.lastQuery)
	}
	if ev.lastOpts.MatchThreshold != 0.34 || ev.lastOpts.HitCount != 5 {
		t.Errorf("options passed to evaluator = %+v", ev.lastOpts)
	}

	var resp SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.TotalHits != 4 || resp.RequiredMatches != 1 {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.Results) != 2 || resp.Results[0].Document.ID != 3 {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestSearchAppliesDefaults(t *testing.T) {
	ev := &fakeEvaluator{eval: &engine.Evaluation{Results: []engine.Result{}}}
	h := newTestHandler(ev)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=apple", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ev.lastOpts.MatchThreshold != 0.5 || ev.lastOpts.HitCount != 10 {
		t.Errorf("options = %+v, want config defaults", ev.lastOpts)
	}
}

func TestSearchClampsLimit(t *testing.T) {
	ev := &fakeEvaluator{eval: &engine.Evaluation{Results: []engine.Result{}}}
	h := newTestHandler(ev)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=apple&limit=5000", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ev.lastOpts.HitCount != 100 {
		t.Errorf("hit count = %d, want clamp to 100", ev.lastOpts.HitCount)
	}
}

func TestSearchBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing_query", "/api/v1/search"},
		{"bad_threshold", "/api/v1/search?q=apple&threshold=abc"},
		{"bad_limit", "/api/v1/search?q=apple&limit=zero"},
		{"negative_limit", "/api/v1/search?q=apple&limit=-1"},
		{"unknown_ranker", "/api/v1/search?q=apple&ranker=pagerank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeEvaluator{eval: &engine.Evaluation{}})
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			h.Search(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if body["error"] == "" {
				t.Error("error body missing message")
			}
		})
	}
}

func TestSearchRejectedOptionsReturnBadRequest(t *testing.T) {
	ev := &fakeEvaluator{
		err: pkgerrors.Newf(pkgerrors.ErrInvalidOptions, http.StatusBadRequest,
			"match threshold 2 outside (0, 1]"),
	}
	h := newTestHandler(ev)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=apple&threshold=2", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchInternalErrorHidesDetail(t *testing.T) {
	ev := &fakeEvaluator{
		err: pkgerrors.Newf(pkgerrors.ErrDocumentMissing, http.StatusInternalServerError,
			"document 42"),
	}
	h := newTestHandler(ev)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=apple", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "search failed" {
		t.Errorf("error message = %q, want generic message", body["error"])
	}
}

func TestCacheStatsDisabled(t *testing.T) {
	h := newTestHandler(&fakeEvaluator{eval: &engine.Evaluation{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil)
	rec := httptest.NewRecorder()
	h.CacheStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "disabled" {
		t.Errorf("status field = %q, want disabled", body["status"])
	}
}

func TestCacheInvalidateDisabled(t *testing.T) {
	h := newTestHandler(&fakeEvaluator{eval: &engine.Evaluation{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cache/invalidate", nil)
	rec := httptest.NewRecorder()
	h.CacheInvalidate(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
