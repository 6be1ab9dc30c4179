package model

// MatchKind tags the outcome of a catalog search
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchUniquePartial
	MatchAmbiguous
)

// String returns a string representation of the match kind
func (m MatchKind) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchUniquePartial:
		return "unique_partial"
	case MatchAmbiguous:
		return "ambiguous"
	default:
		return "none"
	}
}

// SearchResult is the answer of the foreign-key resolver.
// Entry is set for MatchExact and MatchUniquePartial, Candidates holds the
// disambiguation set for MatchAmbiguous and the optional listing for MatchNone.
type SearchResult struct {
	Kind       CatalogKind
	Term       string
	Match      MatchKind
	Entry      *CatalogEntry
	Candidates []CatalogEntry
	Total      int // Number of partial matches found
}

// Resolved reports whether the search produced a single entry
func (r SearchResult) Resolved() bool {
	return (r.Match == MatchExact || r.Match == MatchUniquePartial) && r.Entry != nil
}
