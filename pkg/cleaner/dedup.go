package cleaner

import (
	"strings"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// SyntheticKey derives the dedup key from a name and a normalized neighborhood
func SyntheticKey(name, neighborhood *string) string {
	n := model.DefaultNameLabel
	if name != nil {
		n = *name
	}
	b := model.DefaultHoodLabel
	if neighborhood != nil {
		b = *neighborhood
	}
	return strings.ToUpper(n) + "-" + strings.ToUpper(b)
}

// dedup keeps the first row per synthetic key, preserving source order
func dedup(rows []model.CleanRow) (kept []model.CleanRow, dropped []model.CleanRow) {
	seen := make(map[string]struct{}, len(rows))
	kept = make([]model.CleanRow, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.Code]; ok {
			dropped = append(dropped, r)
			continue
		}
		seen[r.Code] = struct{}{}
		kept = append(kept, r)
	}
	return kept, dropped
}
