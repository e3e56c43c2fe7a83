// Package ranker defines the scoring protocol used during query evaluation
// and ships interchangeable scoring policies.
//
// A Ranker scores one candidate document at a time. The evaluator drives it
// through a strict cycle: Reset once for the candidate, Update once per
// matching query term, then a single Evaluate to read the final score.
package ranker

import "github.com/norajeanett/S-tek/internal/index"

// Ranker accumulates a relevance score for one candidate document at a time.
type Ranker interface {
	// Reset clears accumulated state and binds the ranker to a document.
	Reset(docID int)

	// Update folds one matching query term into the score. Multiplicity is
	// the term's occurrence count in the raw query; the posting belongs to
	// the document given in the preceding Reset.
	Update(term string, multiplicity int, posting index.Posting)

	// Evaluate returns the accumulated score for the current document.
	Evaluate() float64
}
