package filter

import (
	"sort"
	"strings"
)

// Brands returns the distinct brand names present in a filtered set, sorted
// lexicographically with duplicates removed. The result is recomputed from
// scratch on every call; facet lists are never cached across filter changes.
func Brands(stations []Station) []string {
	seen := make(map[string]struct{}, len(stations))
	var brands []string
	for _, s := range stations {
		name := strings.TrimSpace(s.Rotulo)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		brands = append(brands, name)
	}
	sort.Strings(brands)
	return brands
}
