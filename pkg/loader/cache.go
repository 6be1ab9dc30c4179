package loader

import (
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// dimension binds a catalog kind to the clean-row field holding its name
type dimension struct {
	kind  model.CatalogKind
	value func(*model.CleanRow) *string
}

// dimensions are the catalogs resolved after the district/neighborhood pairs
var dimensions = []dimension{
	{model.KindWorkType, func(r *model.CleanRow) *string { return r.WorkType }},
	{model.KindArea, func(r *model.CleanRow) *string { return r.Area }},
	{model.KindCompany, func(r *model.CleanRow) *string { return r.Company }},
	{model.KindStage, func(r *model.CleanRow) *string { return r.Stage }},
	{model.KindContractingType, func(r *model.CleanRow) *string { return r.ContractingType }},
	{model.KindFundingSource, func(r *model.CleanRow) *string { return r.FundingSource }},
}

// catalogCache memoizes catalog ids by kind and name for one load
type catalogCache struct {
	ids     map[model.CatalogKind]map[string]int64
	created map[model.CatalogKind]int
}

func newCatalogCache() *catalogCache {
	return &catalogCache{
		ids:     make(map[model.CatalogKind]map[string]int64),
		created: make(map[model.CatalogKind]int),
	}
}

// resolve returns the cached id of name or calls create once and caches it
func (c *catalogCache) resolve(kind model.CatalogKind, name string, create func() (int64, bool, error)) (int64, error) {
	if id, ok := c.ids[kind][name]; ok {
		return id, nil
	}

	id, created, err := create()
	if err != nil {
		return 0, err
	}

	if c.ids[kind] == nil {
		c.ids[kind] = make(map[string]int64)
	}
	c.ids[kind][name] = id
	if created {
		c.created[kind]++
	}
	return id, nil
}

// lookup returns the cached id of name, or nil when name is absent
func (c *catalogCache) lookup(kind model.CatalogKind, name *string) *int64 {
	if name == nil {
		return nil
	}
	id, ok := c.ids[kind][*name]
	if !ok {
		return nil
	}
	return &id
}

func (c *catalogCache) size() int {
	n := 0
	for _, m := range c.ids {
		n += len(m)
	}
	return n
}
