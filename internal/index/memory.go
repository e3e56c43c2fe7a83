package index

import (
	"sort"
	"sync"

	"github.com/norajeanett/S-tek/internal/tokenizer"
)

// MemoryIndex is an in-memory inverted index. Documents are added up front;
// posting lists are kept sorted ascending by document id and are immutable
// once handed out through an Iterator.
type MemoryIndex struct {
	mu          sync.RWMutex
	postings    map[string]PostingList
	docLengths  map[int]int
	totalTokens int64
	dirty       bool
}

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		postings:   make(map[string]PostingList),
		docLengths: make(map[int]int),
	}
}

// AddDocument tokenises the document's title and body and merges its term
// frequencies into the index. Adding the same document id twice is the
// caller's error; the index does not deduplicate.
func (m *MemoryIndex) AddDocument(docID int, title string, body string) {
	terms := tokenizer.Terms(title + " " + body)

	freqs := make(map[string]int, len(terms))
	for _, term := range terms {
		freqs[term]++
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for term, freq := range freqs {
		m.postings[term] = append(m.postings[term], Posting{
			DocumentID:    docID,
			TermFrequency: freq,
		})
	}
	m.docLengths[docID] = len(terms)
	m.totalTokens += int64(len(terms))
	m.dirty = true
}

// Terms normalises a text buffer using the index's tokenizer.
func (m *MemoryIndex) Terms(text string) []string {
	return tokenizer.Terms(text)
}

// PostingsIterator returns a fresh iterator over the term's posting list.
func (m *MemoryIndex) PostingsIterator(term string) Iterator {
	m.ensureSorted()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return NewSliceIterator(m.postings[term])
}

// DocumentFrequency returns the number of documents containing the term.
func (m *MemoryIndex) DocumentFrequency(term string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.postings[term])
}

// DocCount returns the number of indexed documents.
func (m *MemoryIndex) DocCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docLengths)
}

// DocLength returns the token count of the given document.
func (m *MemoryIndex) DocLength(docID int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docLengths[docID]
}

// AvgDocLength returns the mean token count across indexed documents.
func (m *MemoryIndex) AvgDocLength() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.docLengths) == 0 {
		return 0
	}
	return float64(m.totalTokens) / float64(len(m.docLengths))
}

// TermCount returns the number of unique terms in the index.
func (m *MemoryIndex) TermCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.postings)
}

// ensureSorted re-sorts every posting list after out-of-order additions.
// Lists added in ascending document-id order are left untouched.
func (m *MemoryIndex) ensureSorted() {
	m.mu.RLock()
	dirty := m.dirty
	m.mu.RUnlock()
	if !dirty {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return
	}
	for term, list := range m.postings {
		if !sort.SliceIsSorted(list, func(i, j int) bool {
			return list[i].DocumentID < list[j].DocumentID
		}) {
			sort.Slice(list, func(i, j int) bool {
				return list[i].DocumentID < list[j].DocumentID
			})
			m.postings[term] = list
		}
	}
	m.dirty = false
}
