package engine

import (
	"context"

	"github.com/norajeanett/S-tek/internal/index"
)

// Contribution names one query term that matched a candidate document,
// together with the posting that matched.
type Contribution struct {
	Term         string
	Multiplicity int
	Posting      index.Posting
}

// cursor is a forward-only pointer into one term's posting stream. It is
// owned by a single matcher run and only ever advanced, never rewound.
type cursor struct {
	term    QueryTerm
	stream  index.Iterator
	current index.Posting
	live    bool
}

func newCursor(term QueryTerm, stream index.Iterator) *cursor {
	c := &cursor{term: term, stream: stream}
	c.advance()
	return c
}

func (c *cursor) advance() {
	c.live = c.stream.Next()
	if c.live {
		c.current = c.stream.Posting()
	}
}

// matcher is the N-of-M threshold merge engine. It holds one cursor per
// unique query term and walks all posting streams in a synchronized merge,
// emitting every document id on which at least n cursors agree.
type matcher struct {
	cursors []*cursor
	n       int
}

// newMatcher primes one cursor per term and computes the match threshold
// n = max(1, min(m, floor(ratio*m))). A ratio low enough to give n = 1
// degenerates to a union (OR) scan and ratio = 1 to an intersection (AND);
// both run through the same loop.
func newMatcher(idx index.Index, terms []QueryTerm, ratio float64) *matcher {
	m := len(terms)
	n := int(ratio * float64(m))
	if n > m {
		n = m
	}
	if n < 1 {
		n = 1
	}
	cursors := make([]*cursor, 0, m)
	for _, term := range terms {
		cursors = append(cursors, newCursor(term, idx.PostingsIterator(term.Term)))
	}
	return &matcher{cursors: cursors, n: n}
}

// threshold returns the computed n.
func (m *matcher) threshold() int {
	return m.n
}

// run performs the merge, invoking emit for every candidate document with
// its matching contributions in term order. Contributions are only valid for
// the duration of the emit call. The context is checked between iterations,
// each of which is a bounded unit of work.
func (m *matcher) run(ctx context.Context, emit func(docID int, contribs []Contribution) error) error {
	matching := make([]*cursor, 0, len(m.cursors))
	contribs := make([]Contribution, 0, len(m.cursors))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Smallest pending document id across live cursors. Document ids
		// are unique per stream, so the numeric minimum is the only
		// tie-break needed.
		current := 0
		anyLive := false
		for _, c := range m.cursors {
			if !c.live {
				continue
			}
			if !anyLive || c.current.DocumentID < current {
				current = c.current.DocumentID
				anyLive = true
			}
		}
		if !anyLive {
			return nil
		}

		matching = matching[:0]
		for _, c := range m.cursors {
			if c.live && c.current.DocumentID == current {
				matching = append(matching, c)
			}
		}

		if len(matching) >= m.n {
			contribs = contribs[:0]
			for _, c := range matching {
				contribs = append(contribs, Contribution{
					Term:         c.term.Term,
					Multiplicity: c.term.Multiplicity,
					Posting:      c.current,
				})
			}
			if err := emit(current, contribs); err != nil {
				return err
			}
		}

		// Advance only the cursors positioned on the current id. Cursors
		// pointing further ahead stay put, which keeps the pass linear in
		// total posting volume.
		for _, c := range matching {
			c.advance()
		}
	}
}
