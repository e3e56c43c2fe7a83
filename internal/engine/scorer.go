package engine

import (
	"net/http"

	"github.com/norajeanett/S-tek/internal/ranker"
	"github.com/norajeanett/S-tek/pkg/errors"
)

// scoreAdapter drives a ranker through its per-candidate protocol: one
// Reset, one Update per matching term, one Evaluate. It is the single place
// the protocol is enforced; a contribution carrying a posting for a
// different document is an internal invariant failure, not a recoverable
// condition.
type scoreAdapter struct {
	ranker ranker.Ranker
}

func (a scoreAdapter) score(docID int, contribs []Contribution) (float64, error) {
	a.ranker.Reset(docID)
	for _, c := range contribs {
		if c.Posting.DocumentID != docID {
			return 0, errors.Newf(errors.ErrScoreProtocol, http.StatusInternalServerError,
				"update for document %d while scoring document %d (term %q)",
				c.Posting.DocumentID, docID, c.Term)
		}
		a.ranker.Update(c.Term, c.Multiplicity, c.Posting)
	}
	return a.ranker.Evaluate(), nil
}
