// Package api provides types and functions to interact with the Spanish
// government fuel price API and fetch fuel station data.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	ApiResultOK    = "OK"
	DefaultBaseURL = "https://sedeaplicaciones.minetur.gob.es/ServiciosRESTCarburantes/PreciosCarburantes/EstacionesTerrestresHist"
	DefaultTimeout = 30 * time.Second
)

// FuelPriceAPI provides methods to fetch fuel price data from the official API.
type FuelPriceAPI struct {
	baseURL    string
	httpClient *http.Client
}

// NewFuelPriceAPI creates a new FuelPriceAPI client with default settings.
func NewFuelPriceAPI() *FuelPriceAPI {
	return NewFuelPriceAPIWithURL(DefaultBaseURL)
}

// NewFuelPriceAPIWithURL creates a client against a custom endpoint, used by
// tests and alternative mirrors.
func NewFuelPriceAPIWithURL(baseURL string) *FuelPriceAPI {
	return &FuelPriceAPI{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// FetchPricesForDate fetches fuel station prices for a specific date.
func (api *FuelPriceAPI) FetchPricesForDate(ctx context.Context, date time.Time) (*GasStationList, error) {
	url := fmt.Sprintf("%s/%s", api.baseURL, date.Format("02-01-2006"))
	return api.fetch(ctx, url)
}

// FetchPrices fetches the latest available fuel station prices.
func (api *FuelPriceAPI) FetchPrices(ctx context.Context) (*GasStationList, error) {
	url := strings.Replace(api.baseURL, "EstacionesTerrestresHist", "EstacionesTerrestres", 1)
	return api.fetch(ctx, url)
}

func (api *FuelPriceAPI) fetch(ctx context.Context, url string) (*GasStationList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := api.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	// A malformed or empty body yields an empty station list rather than
	// failing the caller; the API occasionally returns truncated payloads.
	var pricesResponse GasStationList
	if err := json.Unmarshal(body, &pricesResponse); err != nil {
		return &GasStationList{}, nil
	}

	return &pricesResponse, nil
}
