package engine

import "sort"

// SeriesSummary tells how widely one series code is covered by the table.
type SeriesSummary struct {
	Code         string
	Name         string
	Countries    int
	Observations int
	Valid        int
}

// Catalog aggregates, per series code, how many countries carry it and how many
// observations they hold. Only the first series per code of each country is
// counted, the same one Build would use. Results are sorted by country
// coverage, then code.
func (s *Store) Catalog() []SeriesSummary {
	// 1. Accumulate per code
	idx := make(map[string]int)
	var out []SeriesSummary

	s.table.Each(func(_ int, c *Country) bool {
		seen := make(map[string]struct{}, len(c.series))
		for _, ts := range c.series {
			if _, dup := seen[ts.Code]; dup {
				continue
			}
			seen[ts.Code] = struct{}{}

			i, ok := idx[ts.Code]
			if !ok {
				i = len(out)
				idx[ts.Code] = i
				out = append(out, SeriesSummary{Code: ts.Code, Name: ts.Name})
			}
			out[i].Countries++
			out[i].Observations += ts.Len()
			out[i].Valid += ts.Valid()
		}
		return true
	})

	// 2. Sort
	sort.Slice(out, func(i, j int) bool {
		if out[i].Countries != out[j].Countries {
			return out[i].Countries > out[j].Countries
		}
		return out[i].Code < out[j].Code
	})
	return out
}
