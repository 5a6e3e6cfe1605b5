package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i40130/fuel-finder-portal/pkg/api"
)

func testStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func snapshotJSON(t *testing.T, ids ...string) []byte {
	t.Helper()
	list := api.GasStationList{ResultadoConsulta: api.ApiResultOK}
	for _, id := range ids {
		list.ListaEESSPrecio = append(list.ListaEESSPrecio, api.GasStation{
			IDEESS: id, Rotulo: "REPSOL",
			Latitud: "40,4200", Longitud: "-3,7000",
		})
	}
	data, err := json.Marshal(list)
	require.NoError(t, err)
	return data
}

func TestSaveAndGetLastPrices(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	older := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SavePrices(ctx, older, snapshotJSON(t, "001")))
	require.NoError(t, s.SavePrices(ctx, newer, snapshotJSON(t, "001", "002")))

	prices, err := s.GetLastPrices(ctx)
	require.NoError(t, err)
	assert.Len(t, prices.ListaEESSPrecio, 2, "the newest snapshot wins")

	// Second read comes from the cache and must match.
	cached, err := s.GetLastPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, prices, cached)
}

func TestGetLastPricesEmptyDatabase(t *testing.T) {
	s := testStorage(t)
	_, err := s.GetLastPrices(context.Background())
	assert.Error(t, err)
}

func TestSavePricesReplacesSameDate(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SavePrices(ctx, date, snapshotJSON(t, "001")))
	require.NoError(t, s.SavePrices(ctx, date, snapshotJSON(t, "001", "002", "003")))

	prices, err := s.GetLastPrices(ctx)
	require.NoError(t, err)
	assert.Len(t, prices.ListaEESSPrecio, 3)
}

func TestGetLastUpdateDate(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	date, err := s.GetLastUpdateDate(ctx)
	require.NoError(t, err)
	assert.Nil(t, date, "empty database has no update date")

	saved := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SavePrices(ctx, saved, snapshotJSON(t, "001")))

	date, err = s.GetLastUpdateDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, date)
	assert.Equal(t, "2026-08-28", date.Format("2006-01-02"))
}

func TestHasDate(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	ok, err := s.HasDate(ctx, date)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SavePrices(ctx, date, snapshotJSON(t, "001")))

	ok, err = s.HasDate(ctx, date)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogSearchLocationAggregates(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	// Two nearby points round to the same 0.01 degree cell.
	require.NoError(t, s.LogSearchLocation(ctx, 40.4167, -3.7033, 10))
	require.NoError(t, s.LogSearchLocation(ctx, 40.4172, -3.7041, 10))
	// A distant point gets its own row.
	require.NoError(t, s.LogSearchLocation(ctx, 41.3851, 2.1734, 10))

	logs, err := s.GetLocationLogs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Ordered by search count descending: the aggregated cell first.
	assert.EqualValues(t, 2, logs[0].SearchCount)
	assert.Equal(t, 40.42, logs[0].Latitude)
	assert.Equal(t, -3.70, logs[0].Longitude)
	assert.EqualValues(t, 1, logs[1].SearchCount)
}

func TestGetLocationLogsLimit(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	require.NoError(t, s.LogSearchLocation(ctx, 40.42, -3.70, 10))
	require.NoError(t, s.LogSearchLocation(ctx, 41.39, 2.17, 10))

	logs, err := s.GetLocationLogs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestReduceLocationPrecision(t *testing.T) {
	lat, lng := reduceLocationPrecision(40.41675, -3.70338, 2)
	assert.Equal(t, 40.42, lat)
	assert.Equal(t, -3.70, lng)
}
