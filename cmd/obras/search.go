package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/store"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	kinds := make([]string, 0, len(model.CatalogKinds))
	for _, k := range model.CatalogKinds {
		kinds = append(kinds, string(k))
	}

	return &cobra.Command{
		Use:   "search <catalog> <term>",
		Short: "Resolve free text against a catalog",
		Long: fmt.Sprintf(`Resolve free text against a catalog. An exact case-insensitive match
wins; otherwise the term is matched as a substring.

Catalogs: %s`, strings.Join(kinds, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseCatalogKind(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				if err := a.store.EnsureSchema(cmd.Context()); err != nil {
					return err
				}
				result, err := a.store.SearchCatalog(cmd.Context(), kind, args[1])
				if err != nil {
					return err
				}
				printSearchResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
}

func printSearchResult(out io.Writer, r model.SearchResult) {
	switch r.Match {
	case model.MatchExact, model.MatchUniquePartial:
		fmt.Fprintf(out, "%s (%s): %d %s\n", r.Kind, r.Match, r.Entry.ID, r.Entry.Name)
	case model.MatchAmbiguous:
		fmt.Fprintf(out, "%d %s entries match %q:\n", r.Total, r.Kind, r.Term)
		printEntries(out, r.Candidates)
	default:
		fmt.Fprintf(out, "No %s matches %q.\n", r.Kind, r.Term)
		if len(r.Candidates) > 0 {
			fmt.Fprintln(out, "Available entries:")
			printEntries(out, r.Candidates)
		}
	}
}

func printEntries(out io.Writer, entries []model.CatalogEntry) {
	for _, e := range entries {
		fmt.Fprintf(out, "  %d  %s\n", e.ID, e.Name)
	}
}

// resolveRef turns a search term into a catalog id. An empty term yields nil.
// Anything but a single match is an error carrying the candidates.
func resolveRef(ctx context.Context, st *store.Store, kind model.CatalogKind, term string) (*int64, error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	result, err := st.SearchCatalog(ctx, kind, term)
	if err != nil {
		return nil, err
	}
	if result.Resolved() {
		id := result.Entry.ID
		return &id, nil
	}

	names := make([]string, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		names = append(names, c.Name)
	}
	verr := &model.ValidationError{Field: string(kind), Value: term, Reason: "no matching entry"}
	if result.Match == model.MatchAmbiguous {
		verr.Reason = fmt.Sprintf("ambiguous, %d matches", result.Total)
	}
	if len(names) > 0 {
		verr.Reason += ": " + strings.Join(names, ", ")
	}
	return nil, verr
}

// mustResolveRef is resolveRef for required references
func mustResolveRef(ctx context.Context, st *store.Store, kind model.CatalogKind, term string) (int64, error) {
	id, err := resolveRef(ctx, st, kind, term)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, &model.ValidationError{Field: string(kind), Value: term, Reason: "a value is required"}
	}
	return *id, nil
}
