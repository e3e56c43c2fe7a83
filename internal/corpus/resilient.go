package corpus

import (
	"context"
	"errors"

	pkgerrors "github.com/norajeanett/S-tek/pkg/errors"
	"github.com/norajeanett/S-tek/pkg/resilience"
)

// ResilientCorpus wraps a Corpus with a circuit breaker so a failing backing
// store sheds load quickly instead of stalling every query. A missing
// document is a legitimate answer and does not count against the breaker.
type ResilientCorpus struct {
	inner   Corpus
	breaker *resilience.CircuitBreaker
}

// NewResilientCorpus wraps inner with the given breaker.
func NewResilientCorpus(inner Corpus, breaker *resilience.CircuitBreaker) *ResilientCorpus {
	return &ResilientCorpus{inner: inner, breaker: breaker}
}

func (c *ResilientCorpus) Get(ctx context.Context, docID int) (*Document, error) {
	var doc *Document
	var missErr error
	err := c.breaker.Execute(func() error {
		d, err := c.inner.Get(ctx, docID)
		if err != nil {
			if errors.Is(err, pkgerrors.ErrDocumentMissing) {
				missErr = err
				return nil
			}
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	if missErr != nil {
		return nil, missErr
	}
	return doc, nil
}

func (c *ResilientCorpus) Size(ctx context.Context) (int, error) {
	var n int
	err := c.breaker.Execute(func() error {
		var err error
		n, err = c.inner.Size(ctx)
		return err
	})
	return n, err
}
