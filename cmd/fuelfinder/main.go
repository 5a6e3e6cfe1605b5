package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Optional .env file; flags still win over the environment.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "fuelfinder",
		Usage: "Compare fuel prices near a location or along a driving route",
		Commands: []*cli.Command{
			serveCommand(),
			updateCommand(),
			nearbyCommand(),
			routeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dbFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db",
		Usage:   "Database file",
		Value:   "fuel_prices.db",
		EnvVars: []string{"FUELFINDER_DB"},
	}
}

func nominatimFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "nominatim",
		Usage:   "Nominatim server URL",
		Value:   "https://nominatim.openstreetmap.org/",
		EnvVars: []string{"FUELFINDER_NOMINATIM_URL"},
	}
}

func osrmFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "osrm",
		Usage:   "OSRM-compatible route server URL",
		Value:   "https://router.project-osrm.org",
		EnvVars: []string{"FUELFINDER_OSRM_URL"},
	}
}
