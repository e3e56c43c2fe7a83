// Package index defines the inverted-index surface the query evaluator is
// built against, and an in-memory implementation of it.
package index

// Index is the read-only view of an inverted index. Implementations must
// return posting streams sorted ascending by document id; the evaluator
// depends on that ordering for its merge.
type Index interface {
	// Terms normalises a text buffer into term occurrences, in text order
	// and with repetitions preserved.
	Terms(text string) []string

	// PostingsIterator returns a fresh forward-only iterator over the
	// term's posting list. Unknown terms yield an exhausted iterator.
	PostingsIterator(term string) Iterator

	// DocumentFrequency returns the number of documents the term occurs in.
	DocumentFrequency(term string) int

	// DocCount returns the number of indexed documents.
	DocCount() int

	// DocLength returns the token count of the given document, or 0 if
	// unknown. Used by length-normalising rankers.
	DocLength(docID int) int

	// AvgDocLength returns the mean token count across indexed documents.
	AvgDocLength() float64
}
