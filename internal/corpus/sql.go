package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/norajeanett/S-tek/pkg/errors"
	"github.com/norajeanett/S-tek/pkg/postgres"
)

// SQLCorpus is a PostgreSQL-backed document store. It expects a `documents`
// table with columns (id, title, body, quality_score).
type SQLCorpus struct {
	client *postgres.Client
}

// NewSQLCorpus wraps a postgres client as a Corpus.
func NewSQLCorpus(client *postgres.Client) *SQLCorpus {
	return &SQLCorpus{client: client}
}

// Get returns the document with the given id. A valid id that does not
// resolve is reported as an ErrDocumentMissing integrity failure.
func (c *SQLCorpus) Get(ctx context.Context, docID int) (*Document, error) {
	const q = `SELECT id, title, body, quality_score FROM documents WHERE id = $1`
	var doc Document
	err := c.client.DB.QueryRowContext(ctx, q, docID).Scan(
		&doc.ID, &doc.Title, &doc.Body, &doc.QualityScore,
	)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.ErrDocumentMissing, http.StatusInternalServerError,
			"document %d", docID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying document %d: %w", docID, err)
	}
	return &doc, nil
}

// Size returns the number of stored documents.
func (c *SQLCorpus) Size(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM documents`
	var n int
	if err := c.client.DB.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// ForEach streams every document in ascending id order. Used when building
// an index over the corpus at startup.
func (c *SQLCorpus) ForEach(ctx context.Context, fn func(doc *Document)) error {
	const q = `SELECT id, title, body, quality_score FROM documents ORDER BY id`
	rows, err := c.client.DB.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Body, &doc.QualityScore); err != nil {
			return fmt.Errorf("scanning document row: %w", err)
		}
		fn(&doc)
	}
	return rows.Err()
}
