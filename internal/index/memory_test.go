package index

import (
	"reflect"
	"testing"
)

func drain(it Iterator) []Posting {
	var out []Posting
	for it.Next() {
		out = append(out, it.Posting())
	}
	return out
}

func TestMemoryIndexAddDocument(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddDocument(1, "apple banana", "apple")
	idx.AddDocument(2, "banana", "cherry banana")

	if got := idx.DocCount(); got != 2 {
		t.Errorf("DocCount() = %d, want 2", got)
	}
	if got := idx.TermCount(); got != 3 {
		t.Errorf("TermCount() = %d, want 3", got)
	}
	if got := idx.DocumentFrequency("banana"); got != 2 {
		t.Errorf("DocumentFrequency(banana) = %d, want 2", got)
	}
	if got := idx.DocumentFrequency("cherry"); got != 1 {
		t.Errorf("DocumentFrequency(cherry) = %d, want 1", got)
	}
	if got := idx.DocumentFrequency("missing"); got != 0 {
		t.Errorf("DocumentFrequency(missing) = %d, want 0", got)
	}

	want := []Posting{
		{DocumentID: 1, TermFrequency: 2},
	}
	if got := drain(idx.PostingsIterator("apple")); !reflect.DeepEqual(got, want) {
		t.Errorf("postings for apple = %v, want %v", got, want)
	}

	want = []Posting{
		{DocumentID: 1, TermFrequency: 1},
		{DocumentID: 2, TermFrequency: 2},
	}
	if got := drain(idx.PostingsIterator("banana")); !reflect.DeepEqual(got, want) {
		t.Errorf("postings for banana = %v, want %v", got, want)
	}
}

func TestMemoryIndexSortsOutOfOrderAdditions(t *testing.T) {
	idx := NewMemoryIndex()
	for _, id := range []int{5, 1, 9, 3} {
		idx.AddDocument(id, "apple", "")
	}

	got := drain(idx.PostingsIterator("apple"))
	wantIDs := []int{1, 3, 5, 9}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d postings, want %d", len(got), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got[i].DocumentID != want {
			t.Errorf("posting %d: document %d, want %d", i, got[i].DocumentID, want)
		}
	}
}

func TestMemoryIndexDocLengths(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddDocument(1, "apple banana", "cherry")
	idx.AddDocument(2, "apple", "")

	if got := idx.DocLength(1); got != 3 {
		t.Errorf("DocLength(1) = %d, want 3", got)
	}
	if got := idx.DocLength(2); got != 1 {
		t.Errorf("DocLength(2) = %d, want 1", got)
	}
	if got := idx.DocLength(99); got != 0 {
		t.Errorf("DocLength(99) = %d, want 0", got)
	}
	if got := idx.AvgDocLength(); got != 2 {
		t.Errorf("AvgDocLength() = %v, want 2", got)
	}
}

func TestMemoryIndexEmpty(t *testing.T) {
	idx := NewMemoryIndex()
	if got := idx.AvgDocLength(); got != 0 {
		t.Errorf("AvgDocLength() on empty index = %v, want 0", got)
	}
	if got := drain(idx.PostingsIterator("anything")); got != nil {
		t.Errorf("postings for unknown term = %v, want none", got)
	}
}

func TestSliceIterator(t *testing.T) {
	list := PostingList{
		{DocumentID: 1, TermFrequency: 1},
		{DocumentID: 4, TermFrequency: 2},
	}

	it := NewSliceIterator(list)
	got := drain(it)
	if !reflect.DeepEqual(got, []Posting(list)) {
		t.Errorf("drained %v, want %v", got, list)
	}
	if it.Next() {
		t.Error("Next() after exhaustion = true, want false")
	}

	if NewSliceIterator(nil).Next() {
		t.Error("Next() on empty list = true, want false")
	}
}
