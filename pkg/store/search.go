package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// Result size limits of SearchCatalog
const (
	MaxAmbiguousCandidates = 5
	MaxSuggestions         = 10
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchCatalog resolves free text to a catalog entry. A case-insensitive
// exact match wins; otherwise a case-insensitive substring search decides
// between a unique partial match, an ambiguous set of candidates and no match,
// in which case the first entries of the catalog are offered as suggestions.
func (s *Store) SearchCatalog(ctx context.Context, kind model.CatalogKind, term string) (model.SearchResult, error) {
	result := model.SearchResult{Kind: kind, Term: term, Match: model.MatchNone}

	t, err := kind.Table()
	if err != nil {
		return result, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return result, &model.ValidationError{Field: string(kind), Value: term, Reason: "search term cannot be empty"}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var exact model.CatalogEntry
	query := fmt.Sprintf("SELECT id, %s AS nombre FROM %s WHERE LOWER(%s) = LOWER(?) ORDER BY id LIMIT 1",
		t.KeyColumn, t.Table, t.KeyColumn)
	err = s.db.GetContext(ctx, &exact, s.db.Rebind(query), term)
	switch {
	case err == nil:
		result.Match = model.MatchExact
		result.Entry = &exact
		result.Total = 1
		return result, nil
	case !errors.Is(err, sql.ErrNoRows):
		return result, wrapErr("search "+t.Table, fmt.Errorf("failed exact search on %s: %w", t.Table, err))
	}

	pattern := "%" + likeEscaper.Replace(term) + "%"
	where := fmt.Sprintf("LOWER(%s) LIKE LOWER(?) ESCAPE '\\'", t.KeyColumn)

	if err := s.db.GetContext(ctx, &result.Total,
		s.db.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", t.Table, where)), pattern); err != nil {
		return result, wrapErr("search "+t.Table, fmt.Errorf("failed partial search on %s: %w", t.Table, err))
	}

	switch {
	case result.Total == 1:
		var entry model.CatalogEntry
		query := fmt.Sprintf("SELECT id, %s AS nombre FROM %s WHERE %s", t.KeyColumn, t.Table, where)
		if err := s.db.GetContext(ctx, &entry, s.db.Rebind(query), pattern); err != nil {
			return result, wrapErr("search "+t.Table, fmt.Errorf("failed partial search on %s: %w", t.Table, err))
		}
		result.Match = model.MatchUniquePartial
		result.Entry = &entry

	case result.Total > 1:
		query := fmt.Sprintf("SELECT id, %s AS nombre FROM %s WHERE %s ORDER BY id LIMIT %d",
			t.KeyColumn, t.Table, where, MaxAmbiguousCandidates)
		if err := s.db.SelectContext(ctx, &result.Candidates, s.db.Rebind(query), pattern); err != nil {
			return result, wrapErr("search "+t.Table, fmt.Errorf("failed partial search on %s: %w", t.Table, err))
		}
		result.Match = model.MatchAmbiguous

	default:
		query := fmt.Sprintf("SELECT id, %s AS nombre FROM %s ORDER BY id LIMIT %d",
			t.KeyColumn, t.Table, MaxSuggestions)
		if err := s.db.SelectContext(ctx, &result.Candidates, query); err != nil {
			return result, wrapErr("search "+t.Table, fmt.Errorf("failed to list %s: %w", t.Table, err))
		}
	}

	s.logger.Debug("Catalog search",
		zap.String("kind", string(kind)),
		zap.String("term", term),
		zap.Stringer("match", result.Match),
		zap.Int("total", result.Total))
	return result, nil
}
