package ranker

import (
	"math"

	"github.com/norajeanett/S-tek/internal/index"
)

// Quality blends tf·idf relevance with a static, query-independent document
// quality score. Documents without a quality score contribute the default of
// zero, which reduces the policy to plain tf·idf.
type Quality struct {
	idx     index.Index
	lookup  func(docID int) float64
	dynamic float64
	static  float64
	score   float64
	docID   int
}

// NewQuality creates a Quality ranker. lookup resolves a document id to its
// static quality score and must not fail; return 0 for unknown documents.
func NewQuality(idx index.Index, lookup func(docID int) float64) *Quality {
	return &Quality{
		idx:     idx,
		lookup:  lookup,
		dynamic: 1.0,
		static:  1.0,
	}
}

func (r *Quality) Reset(docID int) {
	r.score = 0
	r.docID = docID
}

func (r *Quality) Update(term string, multiplicity int, posting index.Posting) {
	df := r.idx.DocumentFrequency(term)
	if df == 0 {
		return
	}
	idf := math.Log(float64(r.idx.DocCount()) / float64(df))
	r.score += float64(multiplicity) * float64(posting.TermFrequency) * idf
}

func (r *Quality) Evaluate() float64 {
	return r.dynamic*r.score + r.static*r.lookup(r.docID)
}
