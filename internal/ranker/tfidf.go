package ranker

import (
	"math"

	"github.com/norajeanett/S-tek/internal/index"
)

// TFIDF is a classic tf·idf scoring policy. Each matching term contributes
// multiplicity * tf * log(N/df), where N is the number of indexed documents
// and df the term's document frequency.
type TFIDF struct {
	idx   index.Index
	score float64
	docID int
}

// NewTFIDF creates a TFIDF ranker reading document frequencies from idx.
func NewTFIDF(idx index.Index) *TFIDF {
	return &TFIDF{idx: idx}
}

func (r *TFIDF) Reset(docID int) {
	r.score = 0
	r.docID = docID
}

func (r *TFIDF) Update(term string, multiplicity int, posting index.Posting) {
	df := r.idx.DocumentFrequency(term)
	if df == 0 {
		return
	}
	idf := math.Log(float64(r.idx.DocCount()) / float64(df))
	r.score += float64(multiplicity) * float64(posting.TermFrequency) * idf
}

func (r *TFIDF) Evaluate() float64 {
	return r.score
}
