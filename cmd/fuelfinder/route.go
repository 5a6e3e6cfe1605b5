package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/i40130/fuel-finder-portal/internal/filter"
	"github.com/i40130/fuel-finder-portal/internal/fuel"
	"github.com/i40130/fuel-finder-portal/internal/geocode"
	"github.com/i40130/fuel-finder-portal/internal/routing"
	"github.com/i40130/fuel-finder-portal/internal/selector"
)

func routeCommand() *cli.Command {
	return &cli.Command{
		Name:  "route",
		Usage: "List gas stations along a driving route between two places",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "origin",
				Usage:    "Origin place name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "destination",
				Usage:    "Destination place name",
				Required: true,
			},
			dbFlag(),
			nominatimFlag(),
			osrmFlag(),
			&cli.Float64Flag{
				Name:  "corridor",
				Usage: "Corridor width in kilometers",
				Value: filter.DefaultCorridorKm,
			},
			&cli.StringFlag{
				Name:  "fuel",
				Usage: "Fuel type (gasolina95, gasolina98, diesel, dieselplus)",
				Value: string(fuel.DefaultType),
			},
			&cli.BoolFlag{
				Name:  "cheapest",
				Usage: "Only print the cheapest station along the route",
			},
			&cli.StringFlag{
				Name:  "gpx",
				Usage: "Write the computed route to a GPX file",
			},
		},
		Action: routeAction,
	}
}

func routeAction(c *cli.Context) error {
	ctx := context.Background()

	geocoder, err := geocode.New(c.String("nominatim"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return err
	}

	origin, found, err := geocoder.Geocode(ctx, c.String("origin"))
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("origin %q not found", c.String("origin"))
	}
	dest, found, err := geocoder.Geocode(ctx, c.String("destination"))
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("destination %q not found", c.String("destination"))
	}

	router := routing.NewClient(c.String("osrm"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	route, err := router.Route(ctx, origin, dest)
	if err != nil {
		return err
	}
	if len(route) == 0 {
		return fmt.Errorf("no route found between %q and %q", c.String("origin"), c.String("destination"))
	}

	if gpxPath := c.String("gpx"); gpxPath != "" {
		name := fmt.Sprintf("%s - %s", c.String("origin"), c.String("destination"))
		data, err := routing.GPX(route, name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(gpxPath, data, 0o644); err != nil {
			return fmt.Errorf("error writing GPX file: %w", err)
		}
		fmt.Printf("Route written to %s\n", gpxPath)
	}

	collection, err := loadCollection(ctx, c.String("db"))
	if err != nil {
		return err
	}

	corridor := c.Float64("corridor")
	matched := collection.AlongRoute(route, corridor)
	fuelType, _ := fuel.ParseType(c.String("fuel"))

	if c.Bool("cheapest") {
		best, err := selector.Cheapest(matched, fuelType)
		if err != nil {
			return err
		}
		printStation(0, best, fuelType)
		return nil
	}

	for i, station := range matched {
		printStation(i+1, station, fuelType)
	}
	fmt.Printf("Found %d stations within %g km of the route\n\n", len(matched), corridor)

	return nil
}
