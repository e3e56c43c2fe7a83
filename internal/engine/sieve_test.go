package engine

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func TestSieveRetainsBest(t *testing.T) {
	s := NewSieve(3)
	s.Offer(0.2, 1)
	s.Offer(0.9, 2)
	s.Offer(0.1, 3)
	s.Offer(0.5, 4)
	s.Offer(0.7, 5)

	got := s.DrainDescending()
	want := []ScoredDocument{
		{DocumentID: 2, Score: 0.9},
		{DocumentID: 5, Score: 0.7},
		{DocumentID: 4, Score: 0.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("winners = %v, want %v", got, want)
	}
}

func TestSieveFewerEntriesThanCapacity(t *testing.T) {
	s := NewSieve(10)
	s.Offer(0.3, 1)
	s.Offer(0.6, 2)

	got := s.DrainDescending()
	want := []ScoredDocument{
		{DocumentID: 2, Score: 0.6},
		{DocumentID: 1, Score: 0.3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("winners = %v, want %v", got, want)
	}
}

func TestSieveCapacityOne(t *testing.T) {
	s := NewSieve(1)
	scores := []float64{0.9, 0.9, 0.5, 0.3, 0.1}
	for i, score := range scores {
		s.Offer(score, i+1)
		if s.Len() != 1 {
			t.Fatalf("sieve holds %d entries, capacity 1", s.Len())
		}
	}
	got := s.DrainDescending()
	// Two documents scored 0.9; the first seen wins.
	want := []ScoredDocument{{DocumentID: 1, Score: 0.9}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("winners = %v, want %v", got, want)
	}
}

func TestSieveTieBreakInsertionOrder(t *testing.T) {
	s := NewSieve(4)
	s.Offer(0.5, 10)
	s.Offer(0.5, 11)
	s.Offer(0.5, 12)
	s.Offer(0.9, 13)

	got := s.DrainDescending()
	want := []ScoredDocument{
		{DocumentID: 13, Score: 0.9},
		{DocumentID: 10, Score: 0.5},
		{DocumentID: 11, Score: 0.5},
		{DocumentID: 12, Score: 0.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("winners = %v, want %v", got, want)
	}
}

func TestSieveBoundAndOrderUnderRandomStream(t *testing.T) {
	const k = 16
	rng := rand.New(rand.NewSource(42))
	s := NewSieve(k)
	all := make([]float64, 0, 1000)
	for i := 0; i < 1000; i++ {
		score := rng.Float64()
		all = append(all, score)
		s.Offer(score, i)
		if s.Len() > k {
			t.Fatalf("sieve exceeded capacity: %d > %d", s.Len(), k)
		}
	}

	got := s.DrainDescending()
	if len(got) != k {
		t.Fatalf("drained %d entries, want %d", len(got), k)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("drain not descending at %d: %v after %v", i, got[i].Score, got[i-1].Score)
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(all)))
	for i := 0; i < k; i++ {
		if got[i].Score != all[i] {
			t.Fatalf("rank %d: score %v, want %v", i, got[i].Score, all[i])
		}
	}
}

func TestSieveInvalidCapacityRaisedToOne(t *testing.T) {
	s := NewSieve(0)
	s.Offer(1.0, 1)
	s.Offer(2.0, 2)
	got := s.DrainDescending()
	want := []ScoredDocument{{DocumentID: 2, Score: 2.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("winners = %v, want %v", got, want)
	}
}
