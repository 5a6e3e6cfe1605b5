// Package store persists fuel price snapshots in a local SQLite database so
// the finder does not hit the government API on every session, and logs
// search locations for usage insight.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/patrickmn/go-cache"

	"github.com/i40130/fuel-finder-portal/pkg/api"
)

const (
	cacheExpiry  = 10 * time.Minute
	cacheCleanup = 30 * time.Minute

	defaultCacheSize = -1024 * 1024 // negative value for pages
	defaultPageSize  = 4096

	locationPrecisionDecimals = 2
	decimalBase               = 10
)

const lastPricesCacheKey = "last_prices"

// Storage wraps the snapshot database and an in-memory cache in front of
// the latest snapshot.
type Storage struct {
	db      *sql.DB
	cache   *cache.Cache
	fuelAPI *api.FuelPriceAPI
	log     *slog.Logger
}

// New opens (creating if needed) the snapshot database at dbPath.
func New(ctx context.Context, dbPath string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := configurePragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &Storage{
		db:      db,
		cache:   cache.New(cacheExpiry, cacheCleanup),
		fuelAPI: api.NewFuelPriceAPI(),
		log:     logger,
	}, nil
}

func configurePragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 10000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA auto_vacuum = INCREMENTAL;",
		"PRAGMA synchronous = NORMAL;",
		fmt.Sprintf("PRAGMA cache_size = %d;", defaultCacheSize),
		fmt.Sprintf("PRAGMA page_size = %d;", defaultPageSize),
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("error applying %q: %w", pragma, err)
		}
	}
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS fuel_prices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT UNIQUE NOT NULL,
		data BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_fuel_prices_date ON fuel_prices(date);

	CREATE TABLE IF NOT EXISTS location_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		distance REAL NOT NULL,
		search_count INTEGER NOT NULL DEFAULT 1,
		search_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_search TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_location_logs_coordinates ON location_logs (latitude, longitude);
	`

	_, err := db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}
	return nil
}

// Close flushes the cache and closes the database.
func (s *Storage) Close() error {
	if s.cache != nil {
		s.cache.Flush()
	}
	return s.db.Close()
}

// SavePrices stores a raw snapshot payload under the given date, replacing
// any existing snapshot for that date, and invalidates the cache.
func (s *Storage) SavePrices(ctx context.Context, date time.Time, data []byte) error {
	dateStr := date.Format("2006-01-02")

	_, err := s.db.ExecContext(ctx, "INSERT OR REPLACE INTO fuel_prices (date, data) VALUES (?, ?)", dateStr, data)
	if err != nil {
		return fmt.Errorf("error inserting data: %w", err)
	}

	s.cache.Delete(lastPricesCacheKey)
	return nil
}

// GetLastPrices returns the most recent stored snapshot, served from cache
// when possible.
func (s *Storage) GetLastPrices(ctx context.Context) (*api.GasStationList, error) {
	if cached, found := s.cache.Get(lastPricesCacheKey); found {
		s.log.Debug("using cached snapshot", "key", lastPricesCacheKey)
		return cached.(*api.GasStationList), nil
	}

	var jsonData []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM fuel_prices ORDER BY date DESC LIMIT 1").Scan(&jsonData)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no data available")
		}
		return nil, fmt.Errorf("error querying database: %w", err)
	}

	var pricesResponse api.GasStationList
	if err := json.Unmarshal(jsonData, &pricesResponse); err != nil {
		return nil, fmt.Errorf("error unmarshaling data: %w", err)
	}

	s.cache.Set(lastPricesCacheKey, &pricesResponse, cache.DefaultExpiration)
	return &pricesResponse, nil
}

// GetLastUpdateDate returns the date of the most recent snapshot, or nil if
// the database is empty.
func (s *Storage) GetLastUpdateDate(ctx context.Context) (*time.Time, error) {
	var dateStr string
	err := s.db.QueryRowContext(ctx, "SELECT date FROM fuel_prices ORDER BY date DESC LIMIT 1").Scan(&dateStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying last update date: %w", err)
	}

	lastUpdate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing date %s: %w", dateStr, err)
	}
	return &lastUpdate, nil
}

// HasDate reports whether a snapshot exists for the given date.
func (s *Storage) HasDate(ctx context.Context, date time.Time) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fuel_prices WHERE date = ?", date.Format("2006-01-02")).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error checking date existence: %w", err)
	}
	return count > 0, nil
}

// Update fetches the latest prices from the government API and stores them
// as today's snapshot.
func (s *Storage) Update(ctx context.Context) error {
	pricesResponse, err := s.fuelAPI.FetchPrices(ctx)
	if err != nil {
		return err
	}
	if pricesResponse.ResultadoConsulta != api.ApiResultOK {
		return fmt.Errorf("API returned non-OK result: %s", pricesResponse.ResultadoConsulta)
	}
	if len(pricesResponse.ListaEESSPrecio) == 0 {
		return fmt.Errorf("API returned an empty station list")
	}

	data, err := json.Marshal(pricesResponse)
	if err != nil {
		return fmt.Errorf("error marshaling data: %w", err)
	}
	return s.SavePrices(ctx, time.Now(), data)
}

// UpdateForDate fetches and stores the snapshot for a specific date.
func (s *Storage) UpdateForDate(ctx context.Context, date time.Time) error {
	pricesResponse, err := s.fuelAPI.FetchPricesForDate(ctx, date)
	if err != nil {
		return err
	}
	if pricesResponse.ResultadoConsulta != api.ApiResultOK {
		return fmt.Errorf("API returned non-OK result: %s", pricesResponse.ResultadoConsulta)
	}

	data, err := json.Marshal(pricesResponse)
	if err != nil {
		return fmt.Errorf("error marshaling data: %w", err)
	}
	return s.SavePrices(ctx, date, data)
}

// Stations implements the finder's station source. An empty database is
// refreshed from the API first, so a fresh install works without a manual
// update.
func (s *Storage) Stations(ctx context.Context) ([]api.GasStation, error) {
	last, err := s.GetLastUpdateDate(ctx)
	if err != nil {
		return nil, err
	}
	if last == nil {
		s.log.Info("snapshot database empty, fetching from API")
		if err := s.Update(ctx); err != nil {
			return nil, fmt.Errorf("error populating snapshot database: %w", err)
		}
	}

	prices, err := s.GetLastPrices(ctx)
	if err != nil {
		return nil, err
	}
	return prices.ListaEESSPrecio, nil
}
