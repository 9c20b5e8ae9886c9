package client

import (
	"sort"
	"strconv"

	"github.com/realtyflow/api/internal/domain/property"
)

// All is the "no constraint" filter value the browse page uses.
const All = "all"

// Filter keeps the listings matching both predicates. Empty or "all"
// disables a predicate.
func Filter(list []property.Property, status, propertyType string) []property.Property {
	out := make([]property.Property, 0, len(list))

	for _, p := range list {
		if status != "" && status != All && p.Status != status {
			continue
		}
		if propertyType != "" && propertyType != All && p.PropertyType != propertyType {
			continue
		}
		out = append(out, p)
	}

	return out
}

// SortByPrice returns a copy ordered by numeric price. Unparsable prices
// sort as zero rather than panicking mid-browse.
func SortByPrice(list []property.Property, ascending bool) []property.Property {
	out := make([]property.Property, len(list))
	copy(out, list)

	sort.SliceStable(out, func(i, j int) bool {
		pi := priceValue(out[i].Price)
		pj := priceValue(out[j].Price)

		if ascending {
			return pi < pj
		}
		return pi > pj
	})

	return out
}

func priceValue(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
