package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"
)

// LocationLog represents a row in the location_logs table.
type LocationLog struct {
	ID          int64
	Latitude    float64
	Longitude   float64
	Distance    float64
	SearchCount int64
	SearchTime  time.Time
	LastSearch  time.Time
}

// LogSearchLocation records a point query. Coordinates are rounded to two
// decimal places (roughly 1 km) before matching so repeated searches around
// the same spot aggregate into one row.
func (s *Storage) LogSearchLocation(ctx context.Context, latitude, longitude, distance float64) error {
	var id int64
	var count int

	lat, lon := reduceLocationPrecision(latitude, longitude, locationPrecisionDecimals)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, search_count FROM location_logs
		WHERE latitude = ?
		AND longitude = ?
		LIMIT 1
	`, lat, lon).Scan(&id, &count)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("error checking for existing location: %w", err)
	}

	if err == sql.ErrNoRows {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO location_logs (latitude, longitude, distance)
			VALUES (?, ?, ?)
		`, lat, lon, distance)
		if err != nil {
			return fmt.Errorf("error logging search location: %w", err)
		}
	} else {
		_, err := s.db.ExecContext(ctx, `
			UPDATE location_logs
			SET search_count = search_count + 1, last_search = CURRENT_TIMESTAMP, distance = ?
			WHERE id = ?
		`, distance, id)
		if err != nil {
			return fmt.Errorf("error updating search location: %w", err)
		}
	}

	return nil
}

// GetLocationLogs retrieves location logs ordered by search count
// descending. limit 0 returns all rows.
func (s *Storage) GetLocationLogs(ctx context.Context, limit int) ([]LocationLog, error) {
	query := `SELECT id, latitude, longitude, distance, search_count, search_time, last_search
			  FROM location_logs
			  ORDER BY search_count DESC `
	if limit > 0 {
		query += fmt.Sprintf("LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving location logs: %w", err)
	}
	defer rows.Close()

	var logs []LocationLog
	for rows.Next() {
		var entry LocationLog
		if err := rows.Scan(
			&entry.ID,
			&entry.Latitude,
			&entry.Longitude,
			&entry.Distance,
			&entry.SearchCount,
			&entry.SearchTime,
			&entry.LastSearch,
		); err != nil {
			return nil, fmt.Errorf("error scanning location log: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}

	return logs, nil
}

func reduceLocationPrecision(lat, lng float64, decimalPlaces int) (roundedLat, roundedLng float64) {
	factor := math.Pow(decimalBase, float64(decimalPlaces))
	roundedLat = math.Round(lat*factor) / factor
	roundedLng = math.Round(lng*factor) / factor
	return
}
