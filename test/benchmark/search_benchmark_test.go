package benchmark

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/norajeanett/S-tek/internal/corpus"
	"github.com/norajeanett/S-tek/internal/engine"
	"github.com/norajeanett/S-tek/internal/index"
	"github.com/norajeanett/S-tek/internal/ranker"
)

var vocabulary = []string{
	"mountain", "river", "forest", "valley", "glacier", "summit", "trail",
	"lake", "meadow", "ridge", "canyon", "waterfall", "boulder", "cliff",
	"plateau", "tundra", "fjord", "delta", "lagoon", "dune",
}

// buildFixture creates a corpus of synthetic documents and the index over
// them. Word choice is seeded so runs are comparable.
func buildFixture(numDocs int) (*index.MemoryIndex, *corpus.MemoryCorpus) {
	rng := rand.New(rand.NewSource(42))
	idx := index.NewMemoryIndex()
	store := corpus.NewMemoryCorpus()
	for i := 1; i <= numDocs; i++ {
		words := make([]string, 0, 40)
		for j := 0; j < 40; j++ {
			words = append(words, vocabulary[rng.Intn(len(vocabulary))])
		}
		title := vocabulary[rng.Intn(len(vocabulary))]
		body := ""
		for _, w := range words {
			body += w + " "
		}
		store.Add(&corpus.Document{ID: i, Title: title, Body: body})
		idx.AddDocument(i, title, body)
	}
	return idx, store
}

// BenchmarkEvaluate measures full query evaluation across corpus sizes.
func BenchmarkEvaluate(b *testing.B) {
	sizes := []int{100, 1000, 10000}
	for _, numDocs := range sizes {
		b.Run(fmt.Sprintf("docs_%d", numDocs), func(b *testing.B) {
			idx, store := buildFixture(numDocs)
			eng := engine.New(idx, store)
			opts := engine.Options{MatchThreshold: 0.5, HitCount: 10}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := eng.Evaluate(context.Background(),
					"mountain river forest", opts, ranker.NewTFIDF(idx))
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEvaluateThresholds measures how the match ratio affects merge
// cost: low ratios admit far more candidates than high ones.
func BenchmarkEvaluateThresholds(b *testing.B) {
	idx, store := buildFixture(5000)
	eng := engine.New(idx, store)

	for _, threshold := range []float64{0.25, 0.5, 0.75, 1.0} {
		b.Run(fmt.Sprintf("ratio_%.2f", threshold), func(b *testing.B) {
			opts := engine.Options{MatchThreshold: threshold, HitCount: 10}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := eng.Evaluate(context.Background(),
					"mountain river forest valley", opts, ranker.NewTFIDF(idx))
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEvaluateRankers compares scoring policies on the same query.
func BenchmarkEvaluateRankers(b *testing.B) {
	idx, store := buildFixture(5000)
	eng := engine.New(idx, store)
	opts := engine.Options{MatchThreshold: 0.5, HitCount: 10}

	rankers := map[string]func() ranker.Ranker{
		"tfidf":   func() ranker.Ranker { return ranker.NewTFIDF(idx) },
		"bm25":    func() ranker.Ranker { return ranker.NewBM25(idx) },
		"quality": func() ranker.Ranker { return ranker.NewQuality(idx, func(int) float64 { return 0 }) },
	}

	for name, factory := range rankers {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, err := eng.Evaluate(context.Background(),
					"mountain river forest", opts, factory())
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSieve measures bounded top-K maintenance under a long stream of
// scored candidates.
func BenchmarkSieve(b *testing.B) {
	for _, capacity := range []int{10, 100} {
		b.Run(fmt.Sprintf("cap_%d", capacity), func(b *testing.B) {
			rng := rand.New(rand.NewSource(7))
			scores := make([]float64, 100000)
			for i := range scores {
				scores[i] = rng.Float64()
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				sieve := engine.NewSieve(capacity)
				for docID, score := range scores {
					sieve.Offer(score, docID)
				}
				_ = sieve.DrainDescending()
			}
		})
	}
}
