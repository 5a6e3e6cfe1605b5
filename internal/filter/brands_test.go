package filter

import (
	"reflect"
	"testing"

	"github.com/i40130/fuel-finder-portal/pkg/api"
)

func stationsWithBrands(brands ...string) []Station {
	stations := make([]Station, 0, len(brands))
	for i, b := range brands {
		stations = append(stations, Station{
			GasStation: &api.GasStation{IDEESS: string(rune('A' + i)), Rotulo: b},
		})
	}
	return stations
}

func TestBrandsDeduplicatesAndSorts(t *testing.T) {
	got := Brands(stationsWithBrands("Cepsa", "BP", "Cepsa"))
	want := []string{"BP", "Cepsa"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Brands() = %v, expected %v", got, want)
	}
}

func TestBrandsTrimsAndSkipsEmpty(t *testing.T) {
	got := Brands(stationsWithBrands(" REPSOL ", "", "REPSOL", "  "))
	want := []string{"REPSOL"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Brands() = %v, expected %v", got, want)
	}
}

func TestBrandsEmptyInput(t *testing.T) {
	if got := Brands(nil); len(got) != 0 {
		t.Errorf("Brands(nil) = %v, expected empty", got)
	}
}
