package benchmark

import (
	"fmt"
	"testing"

	"github.com/norajeanett/S-tek/internal/index"
)

// BenchmarkIndexAddDocument measures indexing throughput for documents of
// increasing length.
func BenchmarkIndexAddDocument(b *testing.B) {
	bodies := map[string]string{}
	for _, words := range []int{20, 200, 2000} {
		body := ""
		for i := 0; i < words; i++ {
			body += vocabulary[i%len(vocabulary)] + " "
		}
		bodies[fmt.Sprintf("words_%d", words)] = body
	}

	for name, body := range bodies {
		b.Run(name, func(b *testing.B) {
			idx := index.NewMemoryIndex()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				idx.AddDocument(i, "title", body)
			}
		})
	}
}

// BenchmarkPostingsIteration measures a full scan of one term's posting list.
func BenchmarkPostingsIteration(b *testing.B) {
	for _, numDocs := range []int{1000, 100000} {
		b.Run(fmt.Sprintf("postings_%d", numDocs), func(b *testing.B) {
			list := make(index.PostingList, numDocs)
			for i := 0; i < numDocs; i++ {
				list[i] = index.Posting{DocumentID: i + 1, TermFrequency: (i % 7) + 1}
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				it := index.NewSliceIterator(list)
				total := 0
				for it.Next() {
					total += it.Posting().TermFrequency
				}
				_ = total
			}
		})
	}
}
