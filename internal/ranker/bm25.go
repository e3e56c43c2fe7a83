package ranker

import (
	"math"

	"github.com/norajeanett/S-tek/internal/index"
)

const (
	k1 = 1.2
	b  = 0.75
)

// BM25 is an Okapi BM25 scoring policy with document-length normalisation.
type BM25 struct {
	idx   index.Index
	score float64
	docID int
}

// NewBM25 creates a BM25 ranker reading collection statistics from idx.
func NewBM25(idx index.Index) *BM25 {
	return &BM25{idx: idx}
}

func (r *BM25) Reset(docID int) {
	r.score = 0
	r.docID = docID
}

func (r *BM25) Update(term string, multiplicity int, posting index.Posting) {
	df := r.idx.DocumentFrequency(term)
	if df == 0 {
		return
	}
	idf := computeIDF(int64(r.idx.DocCount()), int64(df))
	tfNorm := computeTFNorm(
		float64(posting.TermFrequency),
		float64(r.idx.DocLength(r.docID)),
		r.idx.AvgDocLength(),
	)
	r.score += float64(multiplicity) * idf * tfNorm
}

func (r *BM25) Evaluate() float64 {
	return r.score
}

func computeIDF(totalDocs int64, docFreq int64) float64 {
	numerator := float64(totalDocs) - float64(docFreq) + 0.5
	denominator := float64(docFreq) + 0.5
	return math.Log(numerator/denominator + 1)
}

func computeTFNorm(termFreq float64, docLength float64, avgDocLength float64) float64 {
	if avgDocLength == 0 {
		return 0
	}
	lengthRatio := docLength / avgDocLength
	denominator := termFreq + k1*(1-b+b*lengthRatio)
	return (termFreq * (k1 + 1)) / denominator
}
