// Package ingest accepts documents at runtime and keeps the in-memory
// corpus and inverted index in step, so newly added documents become
// searchable without a restart.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/norajeanett/S-tek/internal/corpus"
	"github.com/norajeanett/S-tek/internal/index"
)

const (
	maxTitleLength = 1024
	maxBodyLength  = 1 << 20
)

// AddRequest is the JSON body accepted by the document endpoint.
type AddRequest struct {
	Title        string  `json:"title"`
	Body         string  `json:"body"`
	QualityScore float64 `json:"quality_score"`
}

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// Validate checks the request's length and range constraints.
func (r *AddRequest) Validate() error {
	errs := make(map[string]string)

	title := strings.TrimSpace(r.Title)
	if title == "" {
		errs["title"] = "title is required"
	} else if len(title) > maxTitleLength {
		errs["title"] = fmt.Sprintf("title must be at most %d characters", maxTitleLength)
	}
	if strings.TrimSpace(r.Body) == "" {
		errs["body"] = "body is required"
	} else if len(r.Body) > maxBodyLength {
		errs["body"] = fmt.Sprintf("body must be at most %d bytes", maxBodyLength)
	}
	if r.QualityScore < 0 {
		errs["quality_score"] = "quality score must not be negative"
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Store assigns document ids and writes accepted documents to both the
// corpus and the index.
type Store struct {
	mu     sync.Mutex
	corpus *corpus.MemoryCorpus
	idx    *index.MemoryIndex
	nextID int
	logger *slog.Logger
}

// NewStore creates a Store over an already-loaded corpus and index. New
// documents get ids above the highest id seen at startup.
func NewStore(c *corpus.MemoryCorpus, idx *index.MemoryIndex) *Store {
	maxID := 0
	c.ForEach(func(doc *corpus.Document) {
		if doc.ID > maxID {
			maxID = doc.ID
		}
	})
	return &Store{
		corpus: c,
		idx:    idx,
		nextID: maxID + 1,
		logger: slog.Default().With("component", "ingest"),
	}
}

// Add validates the request, assigns a document id, and stores the document
// in the corpus and the index.
func (s *Store) Add(ctx context.Context, req *AddRequest) (*corpus.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.mu.Unlock()

	doc := &corpus.Document{
		ID:           id,
		Title:        strings.TrimSpace(req.Title),
		Body:         req.Body,
		QualityScore: req.QualityScore,
	}
	s.corpus.Add(doc)
	s.idx.AddDocument(doc.ID, doc.Title, doc.Body)

	s.logger.Info("document added", "doc_id", doc.ID, "title_len", len(doc.Title), "body_len", len(doc.Body))
	return doc, nil
}
