package index

// Posting is one term's occurrence statistics in one document. Posting lists
// are always ordered ascending by document id and never mutated after being
// handed out.
type Posting struct {
	DocumentID    int `json:"document_id"`
	TermFrequency int `json:"term_frequency"`
}

// PostingList is a slice of postings for a single term, sorted ascending by
// document id.
type PostingList []Posting

// Iterator is a forward-only cursor over a term's posting list. Call Next to
// advance; Posting is valid only while Next keeps returning true.
type Iterator interface {
	Next() bool
	Posting() Posting
}

type sliceIterator struct {
	postings PostingList
	pos      int
}

// NewSliceIterator returns an Iterator over an in-memory posting list. The
// list must already be sorted ascending by document id.
func NewSliceIterator(postings PostingList) Iterator {
	return &sliceIterator{postings: postings, pos: -1}
}

func (it *sliceIterator) Next() bool {
	it.pos++
	return it.pos < len(it.postings)
}

func (it *sliceIterator) Posting() Posting {
	return it.postings[it.pos]
}
