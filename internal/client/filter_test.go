package client_test

import (
	"testing"

	"github.com/realtyflow/api/internal/client"
	"github.com/realtyflow/api/internal/domain/property"
)

func catalog() []property.Property {
	return []property.Property{
		{ID: "1", Title: "A", Status: "available", PropertyType: "house", Price: "850000"},
		{ID: "2", Title: "B", Status: "sold", PropertyType: "house", Price: "540000"},
		{ID: "3", Title: "C", Status: "available", PropertyType: "condo", Price: "620000"},
		{ID: "4", Title: "D", Status: "pending", PropertyType: "townhouse", Price: "540000"},
	}
}

func ids(list []property.Property) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name         string
		status       string
		propertyType string
		wantIDs      []string
	}{
		{name: "no_constraints", status: client.All, propertyType: client.All, wantIDs: []string{"1", "2", "3", "4"}},
		{name: "empty_means_all", status: "", propertyType: "", wantIDs: []string{"1", "2", "3", "4"}},
		{name: "by_status", status: "available", propertyType: client.All, wantIDs: []string{"1", "3"}},
		{name: "by_type", status: client.All, propertyType: "house", wantIDs: []string{"1", "2"}},
		{name: "both", status: "available", propertyType: "condo", wantIDs: []string{"3"}},
		{name: "no_match", status: "sold", propertyType: "condo", wantIDs: []string{}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got := ids(client.Filter(catalog(), tt.status, tt.propertyType))

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %v, want %v", got, tt.wantIDs)
			}

			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Fatalf("got %v, want %v", got, tt.wantIDs)
				}
			}
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := catalog()

	client.Filter(in, "sold", client.All)

	if len(in) != 4 {
		t.Fatalf("input mutated: %v", ids(in))
	}
}

func TestSortByPrice(t *testing.T) {
	in := catalog()

	asc := client.SortByPrice(in, true)

	if got := ids(asc); got[0] != "2" && got[0] != "4" {
		t.Fatalf("ascending order wrong: %v", got)
	}

	if asc[len(asc)-1].ID != "1" {
		t.Fatalf("most expensive should sort last: %v", ids(asc))
	}

	// ties keep their input order
	i2, i4 := index(asc, "2"), index(asc, "4")

	if i2 > i4 {
		t.Fatalf("equal prices reordered: %v", ids(asc))
	}

	desc := client.SortByPrice(in, false)

	if desc[0].ID != "1" {
		t.Fatalf("descending order wrong: %v", ids(desc))
	}

	// the input slice stays untouched
	if in[0].ID != "1" {
		t.Fatalf("input mutated: %v", ids(in))
	}
}

func TestSortByPriceUnparsable(t *testing.T) {
	in := []property.Property{
		{ID: "a", Price: "100"},
		{ID: "b", Price: "not-a-number"},
		{ID: "c", Price: "50"},
	}

	got := client.SortByPrice(in, true)

	if got[0].ID != "b" {
		t.Fatalf("unparsable price should sort as zero: %v", ids(got))
	}
}

func index(list []property.Property, id string) int {
	for i, p := range list {
		if p.ID == id {
			return i
		}
	}
	return -1
}
