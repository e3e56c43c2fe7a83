package engine

import "github.com/norajeanett/S-tek/internal/index"

// QueryTerm is a unique query term together with its occurrence count in the
// raw query. Multiplicity feeds scoring weight only; a repeated term does not
// count more than once towards the match threshold.
type QueryTerm struct {
	Term         string
	Multiplicity int
}

// ResolveTerms normalises the query and deduplicates its term occurrences.
// The returned slice is in first-occurrence order; the matcher relies on
// that order being stable when it pairs terms with posting cursors.
func ResolveTerms(idx index.Index, query string) []QueryTerm {
	occurrences := idx.Terms(query)
	if len(occurrences) == 0 {
		return nil
	}
	seen := make(map[string]int, len(occurrences))
	terms := make([]QueryTerm, 0, len(occurrences))
	for _, term := range occurrences {
		if pos, ok := seen[term]; ok {
			terms[pos].Multiplicity++
			continue
		}
		seen[term] = len(terms)
		terms = append(terms, QueryTerm{Term: term, Multiplicity: 1})
	}
	return terms
}
