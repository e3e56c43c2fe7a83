package engine

import "container/heap"

// ScoredDocument is a (score, document id) pair retained by the sieve.
type ScoredDocument struct {
	DocumentID int     `json:"document_id"`
	Score      float64 `json:"score"`
}

// Sieve retains the K highest-scoring entries seen so far, in memory bounded
// by K regardless of how many entries are offered. Offers are O(log K) and
// draining is O(K log K).
//
// Equal scores tie-break by insertion order: the first entry offered wins,
// both for retention and for drain order.
type Sieve struct {
	entries sieveHeap
	cap     int
	next    int64
}

type sieveEntry struct {
	score float64
	docID int
	seq   int64
}

// NewSieve creates a Sieve with the given capacity. Capacity below 1 is
// raised to 1.
func NewSieve(capacity int) *Sieve {
	if capacity < 1 {
		capacity = 1
	}
	return &Sieve{
		entries: make(sieveHeap, 0, capacity),
		cap:     capacity,
	}
}

// Offer submits one scored document. It is retained only while it ranks
// among the K best seen so far.
func (s *Sieve) Offer(score float64, docID int) {
	e := sieveEntry{score: score, docID: docID, seq: s.next}
	s.next++
	if len(s.entries) < s.cap {
		heap.Push(&s.entries, e)
		return
	}
	// The root is the current worst survivor. An equal score does not
	// displace it: first seen wins.
	if score <= s.entries[0].score {
		return
	}
	s.entries[0] = e
	heap.Fix(&s.entries, 0)
}

// Len returns the number of currently retained entries.
func (s *Sieve) Len() int {
	return len(s.entries)
}

// DrainDescending empties the sieve and returns its entries ordered by
// descending score, ties in insertion order.
func (s *Sieve) DrainDescending() []ScoredDocument {
	out := make([]ScoredDocument, len(s.entries))
	for i := len(out) - 1; i >= 0; i-- {
		e := heap.Pop(&s.entries).(sieveEntry)
		out[i] = ScoredDocument{DocumentID: e.docID, Score: e.score}
	}
	return out
}

// sieveHeap is a min-heap on score; among equal scores the later insertion
// is considered worse, so it is the one evicted and the one drained last.
type sieveHeap []sieveEntry

func (h sieveHeap) Len() int { return len(h) }

func (h sieveHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].seq > h[j].seq
}

func (h sieveHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *sieveHeap) Push(x interface{}) {
	*h = append(*h, x.(sieveEntry))
}

func (h *sieveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
