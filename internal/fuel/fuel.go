// Package fuel maps fuel type selectors to the price fields on a station
// record.
package fuel

import (
	"github.com/i40130/fuel-finder-portal/internal/geo"
	"github.com/i40130/fuel-finder-portal/pkg/api"
)

// NotAvailable is the sentinel returned when a station does not report a
// price for the requested fuel. It is distinct from zero and from a parse
// failure.
const NotAvailable = "No disponible"

// Type selects one of the supported fuel price fields.
type Type string

const (
	Gasolina95 Type = "gasolina95"
	Gasolina98 Type = "gasolina98"
	Diesel     Type = "diesel"
	DieselPlus Type = "dieselplus"
)

// DefaultType is used when a selector string is not recognized.
const DefaultType = Gasolina95

// ParseType normalizes a selector string. Unknown selectors fall back to
// DefaultType; the boolean reports whether the input was recognized.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case Gasolina95, Gasolina98, Diesel, DieselPlus:
		return Type(s), true
	}
	return DefaultType, false
}

// Price returns the raw, locale-formatted price string for the given fuel
// type, or NotAvailable when the station does not offer it. Unrecognized
// fuel types fall back to the 95 E5 field.
func Price(station *api.GasStation, t Type) string {
	var raw string
	switch t {
	case Gasolina98:
		raw = station.PrecioGasolina98E5
	case Diesel:
		raw = station.PrecioGasoleoA
	case DieselPlus:
		raw = station.PrecioGasoleoPremium
	default:
		raw = station.PrecioGasolina95E5
	}
	if raw == "" {
		return NotAvailable
	}
	return raw
}

// PriceValue parses the price for the given fuel type. It returns false for
// the NotAvailable sentinel and for malformed price strings; callers treat
// both as "value unavailable" and exclude the station from comparisons.
func PriceValue(station *api.GasStation, t Type) (float64, bool) {
	raw := Price(station, t)
	if raw == NotAvailable {
		return 0, false
	}
	v, err := geo.ParseDecimal(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
