package fuel

import (
	"testing"

	"github.com/i40130/fuel-finder-portal/pkg/api"
)

func testStation() *api.GasStation {
	return &api.GasStation{
		PrecioGasolina95E5:   "1,479",
		PrecioGasolina98E5:   "1,639",
		PrecioGasoleoA:       "1,399",
		PrecioGasoleoPremium: "",
	}
}

func TestPrice(t *testing.T) {
	station := testStation()

	tests := []struct {
		fuelType Type
		expected string
	}{
		{Gasolina95, "1,479"},
		{Gasolina98, "1,639"},
		{Diesel, "1,399"},
		{DieselPlus, NotAvailable},
	}
	for _, test := range tests {
		if got := Price(station, test.fuelType); got != test.expected {
			t.Errorf("Price(%q) = %q, expected %q", test.fuelType, got, test.expected)
		}
	}
}

func TestPriceUnknownTypeFallsBackTo95(t *testing.T) {
	station := testStation()
	if got := Price(station, Type("hidrogeno")); got != "1,479" {
		t.Errorf("Price(unknown) = %q, expected the 95 E5 price", got)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input      string
		expected   Type
		recognized bool
	}{
		{"gasolina95", Gasolina95, true},
		{"gasolina98", Gasolina98, true},
		{"diesel", Diesel, true},
		{"dieselplus", DieselPlus, true},
		{"jetfuel", DefaultType, false},
		{"", DefaultType, false},
	}
	for _, test := range tests {
		got, ok := ParseType(test.input)
		if got != test.expected || ok != test.recognized {
			t.Errorf("ParseType(%q) = (%q, %v), expected (%q, %v)",
				test.input, got, ok, test.expected, test.recognized)
		}
	}
}

func TestPriceValue(t *testing.T) {
	station := testStation()

	v, ok := PriceValue(station, Diesel)
	if !ok || v != 1.399 {
		t.Errorf("PriceValue(diesel) = (%f, %v), expected (1.399, true)", v, ok)
	}

	if _, ok := PriceValue(station, DieselPlus); ok {
		t.Error("PriceValue for an unoffered fuel should report unavailable")
	}

	station.PrecioGasolina95E5 = "garbage"
	if _, ok := PriceValue(station, Gasolina95); ok {
		t.Error("PriceValue for a malformed price should report unavailable")
	}
}
