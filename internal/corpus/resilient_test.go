package corpus

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/norajeanett/S-tek/pkg/errors"
	"github.com/norajeanett/S-tek/pkg/resilience"
)

type flakyCorpus struct {
	inner *MemoryCorpus
	fail  bool
}

var errBackend = errors.New("backend down")

func (f *flakyCorpus) Get(ctx context.Context, docID int) (*Document, error) {
	if f.fail {
		return nil, errBackend
	}
	return f.inner.Get(ctx, docID)
}

func (f *flakyCorpus) Size(ctx context.Context) (int, error) {
	if f.fail {
		return 0, errBackend
	}
	return f.inner.Size(ctx)
}

func TestResilientCorpusPassesThrough(t *testing.T) {
	inner := NewMemoryCorpus()
	inner.Add(&Document{ID: 1, Title: "doc"})
	c := NewResilientCorpus(&flakyCorpus{inner: inner},
		resilience.NewCircuitBreaker("corpus", resilience.CircuitBreakerConfig{}))

	doc, err := c.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc.Title != "doc" {
		t.Errorf("doc = %+v", doc)
	}
	n, err := c.Size(context.Background())
	if err != nil || n != 1 {
		t.Errorf("Size() = %d, %v", n, err)
	}
}

func TestResilientCorpusMissDoesNotTrip(t *testing.T) {
	c := NewResilientCorpus(NewMemoryCorpus(),
		resilience.NewCircuitBreaker("corpus", resilience.CircuitBreakerConfig{FailureThreshold: 2}))

	for i := 0; i < 10; i++ {
		if _, err := c.Get(context.Background(), 99); !errors.Is(err, pkgerrors.ErrDocumentMissing) {
			t.Fatalf("Get(99) err = %v, want ErrDocumentMissing", err)
		}
	}
}

func TestResilientCorpusOpensOnBackendFailure(t *testing.T) {
	flaky := &flakyCorpus{inner: NewMemoryCorpus(), fail: true}
	breaker := resilience.NewCircuitBreaker("corpus", resilience.CircuitBreakerConfig{
		FailureThreshold: 3,
		ResetTimeout:     time.Minute,
	})
	c := NewResilientCorpus(flaky, breaker)

	for i := 0; i < 3; i++ {
		if _, err := c.Get(context.Background(), 1); !errors.Is(err, errBackend) {
			t.Fatalf("attempt %d: err = %v, want backend error", i+1, err)
		}
	}
	if breaker.GetState() != resilience.StateOpen {
		t.Fatalf("breaker state = %v, want open", breaker.GetState())
	}
	if _, err := c.Get(context.Background(), 1); !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("err after trip = %v, want ErrCircuitOpen", err)
	}
}
