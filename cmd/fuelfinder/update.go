package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/i40130/fuel-finder-portal/internal/store"
)

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Update the fuel price snapshot database",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:  "date",
				Usage: "Fetch the snapshot for a specific date (YYYY-MM-DD) instead of the latest",
			},
		},
		Action: updateAction,
	}
}

func updateAction(c *cli.Context) error {
	ctx := context.Background()

	storage, err := store.New(ctx, c.String("db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer storage.Close()

	if dateStr := c.String("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
		return storage.UpdateForDate(ctx, date)
	}
	return storage.Update(ctx)
}
