// Package corpus provides document storage behind a narrow read interface.
// The in-memory implementation is the default; a PostgreSQL-backed one is
// available for persistent corpora.
package corpus

import "context"

// Document is a stored document. QualityScore is a static, query-independent
// quality signal that quality-blending rankers may fold into the final score;
// it defaults to zero.
type Document struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Body         string  `json:"body"`
	QualityScore float64 `json:"quality_score,omitempty"`
}

// Corpus is the read-only document store the evaluator resolves result ids
// through. Get must be consistent with the inverted index built over the
// same documents: every indexed document id must resolve.
type Corpus interface {
	Get(ctx context.Context, docID int) (*Document, error)
	Size(ctx context.Context) (int, error)
}
