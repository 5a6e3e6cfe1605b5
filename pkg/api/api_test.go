package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleResponse = `{
  "Fecha": "29/08/2026 8:00:00",
  "ResultadoConsulta": "OK",
  "ListaEESSPrecio": [
    {
      "IDEESS": "1039",
      "Rótulo": "REPSOL",
      "Latitud": "40,420000",
      "Longitud (WGS84)": "-3,700000",
      "Municipio": "Madrid",
      "Precio Gasolina 95 E5": "1,479"
    }
  ]
}`

func TestFetchPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewFuelPriceAPIWithURL(srv.URL)
	list, err := client.FetchPrices(context.Background())
	if err != nil {
		t.Fatalf("FetchPrices() failed: %v", err)
	}

	if list.ResultadoConsulta != ApiResultOK {
		t.Errorf("ResultadoConsulta = %q, expected %q", list.ResultadoConsulta, ApiResultOK)
	}
	if len(list.ListaEESSPrecio) != 1 {
		t.Fatalf("expected 1 station, got %d", len(list.ListaEESSPrecio))
	}

	station := list.ListaEESSPrecio[0]
	if station.IDEESS != "1039" {
		t.Errorf("IDEESS = %q, expected 1039", station.IDEESS)
	}
	if station.Rotulo != "REPSOL" {
		t.Errorf("Rotulo = %q, expected REPSOL", station.Rotulo)
	}
	if station.Longitud != "-3,700000" {
		t.Errorf("Longitud = %q, expected the WGS84 field value", station.Longitud)
	}
	if station.PrecioGasolina95E5 != "1,479" {
		t.Errorf("PrecioGasolina95E5 = %q, expected 1,479", station.PrecioGasolina95E5)
	}
}

func TestFetchPricesForDateUsesHistoricEndpoint(t *testing.T) {
	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewFuelPriceAPIWithURL(srv.URL)
	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	if _, err := client.FetchPricesForDate(context.Background(), date); err != nil {
		t.Fatalf("FetchPricesForDate() failed: %v", err)
	}

	if requestedPath != "/15-08-2026" {
		t.Errorf("requested path = %q, expected /15-08-2026", requestedPath)
	}
}

func TestFetchPricesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ListaEESSPrecio": [truncated`))
	}))
	defer srv.Close()

	client := NewFuelPriceAPIWithURL(srv.URL)
	list, err := client.FetchPrices(context.Background())
	if err != nil {
		t.Fatalf("a malformed body should not fail the caller: %v", err)
	}
	if len(list.ListaEESSPrecio) != 0 {
		t.Errorf("expected an empty list, got %d stations", len(list.ListaEESSPrecio))
	}
}

func TestFetchPricesUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewFuelPriceAPIWithURL(srv.URL)
	if _, err := client.FetchPrices(context.Background()); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}
