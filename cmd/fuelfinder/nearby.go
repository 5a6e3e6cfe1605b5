package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/i40130/fuel-finder-portal/internal/filter"
	"github.com/i40130/fuel-finder-portal/internal/fuel"
	"github.com/i40130/fuel-finder-portal/internal/geo"
	"github.com/i40130/fuel-finder-portal/internal/geocode"
	"github.com/i40130/fuel-finder-portal/internal/selector"
	"github.com/i40130/fuel-finder-portal/internal/store"
)

func nearbyCommand() *cli.Command {
	return &cli.Command{
		Name:  "nearby",
		Usage: "List gas stations near a point or place name",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "location",
				Usage: "Location to search",
			},
			dbFlag(),
			nominatimFlag(),
			&cli.Float64Flag{
				Name:  "lat",
				Usage: "Latitude of the location",
			},
			&cli.Float64Flag{
				Name:  "long",
				Usage: "Longitude of the location",
			},
			&cli.Float64Flag{
				Name:    "radius",
				Aliases: []string{"r"},
				Usage:   "Search radius in kilometers",
				Value:   filter.DefaultRadiusKm,
			},
			&cli.StringFlag{
				Name:  "fuel",
				Usage: "Fuel type (gasolina95, gasolina98, diesel, dieselplus)",
				Value: string(fuel.DefaultType),
			},
			&cli.BoolFlag{
				Name:  "cheapest",
				Usage: "Only print the cheapest station for the selected fuel",
			},
			&cli.BoolFlag{
				Name:  "nearest",
				Usage: "Only print the nearest station",
			},
		},
		Action: nearbyAction,
	}
}

func nearbyAction(c *cli.Context) error {
	ctx := context.Background()

	center, err := resolveCenter(ctx, c)
	if err != nil {
		return err
	}

	collection, err := loadCollection(ctx, c.String("db"))
	if err != nil {
		return err
	}

	radius := c.Float64("radius")
	matched := collection.WithinRadius(center, radius)
	fuelType, _ := fuel.ParseType(c.String("fuel"))

	switch {
	case c.Bool("cheapest"):
		best, err := selector.Cheapest(matched, fuelType)
		if err != nil {
			return err
		}
		printStation(0, best, fuelType)
	case c.Bool("nearest"):
		best, err := selector.Nearest(matched, center)
		if err != nil {
			return err
		}
		printStation(0, best, fuelType)
	default:
		for i, station := range matched {
			printStation(i+1, station, fuelType)
		}
		fmt.Printf("Found %d stations within %g km radius\n\n", len(matched), radius)
	}

	return nil
}

func resolveCenter(ctx context.Context, c *cli.Context) (geo.Point, error) {
	if loc := c.String("location"); loc != "" {
		geocoder, err := geocode.New(c.String("nominatim"), slog.New(slog.NewTextHandler(io.Discard, nil)))
		if err != nil {
			return geo.Point{}, err
		}
		point, found, err := geocoder.Geocode(ctx, loc)
		if err != nil {
			return geo.Point{}, err
		}
		if !found {
			return geo.Point{}, fmt.Errorf("location %q not found", loc)
		}
		return point, nil
	}

	lat := c.Float64("lat")
	lng := c.Float64("long")
	if lat == 0 && lng == 0 {
		return geo.Point{}, errors.New("location or latitude and longitude are required")
	}
	return geo.Point{Lat: lat, Lon: lng}, nil
}

func loadCollection(ctx context.Context, dbPath string) (*filter.Collection, error) {
	storage, err := store.New(ctx, dbPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return nil, fmt.Errorf("error initializing storage: %w", err)
	}
	defer storage.Close()

	records, err := storage.Stations(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading stations: %w", err)
	}
	return filter.NewCollection(records), nil
}

func printStation(index int, station filter.Station, fuelType fuel.Type) {
	if index > 0 {
		fmt.Printf("%d. %s (%s)\n", index, station.Rotulo, station.Direccion)
	} else {
		fmt.Printf("%s (%s)\n", station.Rotulo, station.Direccion)
	}
	fmt.Printf("   Municipio: %s\n", station.Municipio)
	fmt.Printf("   Distance: %.2f km\n", station.DistanceKm)
	fmt.Printf("   %s: %s €\n", fuelLabel(fuelType), formatDecimal(fuel.Price(station.GasStation, fuelType)))
	fmt.Printf("   Coordinates: %.5f, %.5f\n\n", station.Lat, station.Lon)
}

func fuelLabel(t fuel.Type) string {
	switch t {
	case fuel.Gasolina98:
		return "Gasoline 98"
	case fuel.Diesel:
		return "Diesel"
	case fuel.DieselPlus:
		return "Premium Diesel"
	default:
		return "Gasoline 95"
	}
}

func formatDecimal(value string) string {
	return strings.Replace(value, ",", ".", 1)
}
