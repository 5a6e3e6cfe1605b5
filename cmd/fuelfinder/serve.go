package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/urfave/cli/v2"

	"github.com/i40130/fuel-finder-portal/internal/finder"
	"github.com/i40130/fuel-finder-portal/internal/geocode"
	"github.com/i40130/fuel-finder-portal/internal/routing"
	"github.com/i40130/fuel-finder-portal/internal/server"
	"github.com/i40130/fuel-finder-portal/internal/store"
)

const updateInterval = 6 * time.Hour

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the fuel finder JSON API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP server port",
				Value:   8080,
				EnvVars: []string{"FUELFINDER_PORT"},
			},
			dbFlag(),
			nominatimFlag(),
			osrmFlag(),
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	ctx := context.Background()

	logger := httplog.NewLogger("fuelfinder", httplog.Options{
		JSON:            false,
		LogLevel:        slog.LevelDebug,
		Concise:         true,
		QuietDownPeriod: 10 * time.Second,
	})

	storage, err := store.New(ctx, c.String("db"), logger.Logger)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer storage.Close()

	geocoder, err := geocode.New(c.String("nominatim"), logger.Logger)
	if err != nil {
		return err
	}
	router := routing.NewClient(c.String("osrm"), logger.Logger)

	f := finder.New(storage, geocoder, router, logger.Logger)
	if err := f.Load(ctx); err != nil {
		// The session starts without data; the refresh loop retries.
		logger.Warn("initial dataset load failed", "error", err)
	}

	// Refresh the snapshot 4 times per day and reload the session dataset.
	go func() {
		ticker := time.NewTicker(updateInterval)
		defer ticker.Stop()

		for {
			<-ticker.C
			if err := storage.Update(ctx); err != nil {
				logger.Error("error updating prices", "error", err)
				continue
			}
			if err := f.Load(ctx); err != nil {
				logger.Error("error reloading dataset", "error", err)
				continue
			}
			logger.Info("price update completed successfully")
		}
	}()

	srv := server.New(f, storage, logger)
	addr := fmt.Sprintf("127.0.0.1:%d", c.Int("port"))
	logger.Info("starting server", "addr", addr)
	return srv.ListenAndServe(addr)
}
