package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"

	"github.com/norajeanett/S-tek/pkg/errors"
)

// MemoryCorpus is an in-memory document store.
type MemoryCorpus struct {
	mu   sync.RWMutex
	docs map[int]*Document
}

// NewMemoryCorpus creates an empty MemoryCorpus.
func NewMemoryCorpus() *MemoryCorpus {
	return &MemoryCorpus{docs: make(map[int]*Document)}
}

// LoadSeedFile creates a MemoryCorpus from a JSON file containing an array
// of documents.
func LoadSeedFile(path string) (*MemoryCorpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	c := NewMemoryCorpus()
	for i := range docs {
		c.Add(&docs[i])
	}
	return c, nil
}

// Add stores a document, replacing any existing document with the same id.
func (c *MemoryCorpus) Add(doc *Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[doc.ID] = doc
}

// Get returns the document with the given id.
func (c *MemoryCorpus) Get(ctx context.Context, docID int) (*Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[docID]
	if !ok {
		return nil, errors.Newf(errors.ErrDocumentMissing, http.StatusInternalServerError,
			"document %d", docID)
	}
	return doc, nil
}

// Size returns the number of stored documents.
func (c *MemoryCorpus) Size(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs), nil
}

// ForEach visits every document in ascending id order. Used when building an
// index over the corpus.
func (c *MemoryCorpus) ForEach(fn func(doc *Document)) {
	c.mu.RLock()
	ids := make([]int, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	c.mu.RUnlock()
	sort.Ints(ids)
	for _, id := range ids {
		c.mu.RLock()
		doc := c.docs[id]
		c.mu.RUnlock()
		fn(doc)
	}
}
