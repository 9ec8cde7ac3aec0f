package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/casacomida/orders-app/utils"
)

// Geocoder resolves free-text addresses to coordinates. Failures are always
// recoverable: callers degrade to pickup-only, they never fail the request.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lon float64, err error)
}

// RestaurantInfo is the places-lookup result shown on the public site.
type RestaurantInfo struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	OpeningHours []string `json:"opening_hours"`
	MapURL       string   `json:"map_url"`
}

// MapsService talks to the Google Places and Geocoding APIs. Every call has
// a short timeout; network errors, bad JSON and non-OK statuses are all
// reported uniformly as an unavailable service.
type MapsService struct {
	APIKey         string
	RestaurantName string

	// Fallback branch coordinates when the places lookup is unavailable.
	DefaultLat float64
	DefaultLon float64

	httpClient *http.Client

	mu   sync.Mutex
	info *RestaurantInfo
}

func NewMapsService(apiKey, restaurantName string, defaultLat, defaultLon float64) *MapsService {
	return &MapsService{
		APIKey:         apiKey,
		RestaurantName: restaurantName,
		DefaultLat:     defaultLat,
		DefaultLon:     defaultLon,
		httpClient:     &http.Client{Timeout: 5 * time.Second},
	}
}

// RestaurantInfo returns the cached places-lookup result, fetching it on
// first use. The value lives for the process lifetime unless Invalidate is
// called. Lookup failure falls back to example data so the public site
// keeps working.
func (ms *MapsService) RestaurantInfo(ctx context.Context) *RestaurantInfo {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.info != nil {
		return ms.info
	}

	if ms.APIKey == "" {
		utils.InfoLogger.Println("Google Maps API key not configured, using example restaurant info")
		ms.info = ms.exampleInfo()
		return ms.info
	}

	info, err := ms.fetchRestaurantInfo(ctx)
	if err != nil {
		utils.ErrorLogger.Printf("Places lookup unavailable: %v", err)
		ms.info = ms.exampleInfo()
		return ms.info
	}

	ms.info = info
	return ms.info
}

// Invalidate drops the cached restaurant info so the next read refreshes it.
func (ms *MapsService) Invalidate() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.info = nil
}

// Origin returns the delivery origin coordinates: the places-lookup result
// when available, the configured defaults otherwise.
func (ms *MapsService) Origin(ctx context.Context) (float64, float64) {
	info := ms.RestaurantInfo(ctx)
	return info.Lat, info.Lon
}

func (ms *MapsService) exampleInfo() *RestaurantInfo {
	return &RestaurantInfo{
		Name:         ms.RestaurantName,
		Address:      "Direccion de ejemplo 1234, Ciudad Ficticia",
		Lat:          ms.DefaultLat,
		Lon:          ms.DefaultLon,
		OpeningHours: []string{"Lunes a Viernes: 09:00 - 23:00", "Sabado y Domingo: 10:00 - 00:00"},
		MapURL:       "https://maps.google.com/?q=" + url.QueryEscape(ms.RestaurantName),
	}
}

func (ms *MapsService) fetchRestaurantInfo(ctx context.Context) (*RestaurantInfo, error) {
	// Place search first, to resolve the place id
	searchURL := "https://maps.googleapis.com/maps/api/place/findplacefromtext/json?" + url.Values{
		"input":     {ms.RestaurantName},
		"inputtype": {"textquery"},
		"fields":    {"place_id"},
		"key":       {ms.APIKey},
		"language":  {"es"},
	}.Encode()

	var search struct {
		Status     string `json:"status"`
		Candidates []struct {
			PlaceID string `json:"place_id"`
		} `json:"candidates"`
	}
	if err := ms.getJSON(ctx, searchURL, &search); err != nil {
		return nil, err
	}
	if search.Status != "OK" || len(search.Candidates) == 0 {
		return nil, fmt.Errorf("place search returned status %s", search.Status)
	}

	detailsURL := "https://maps.googleapis.com/maps/api/place/details/json?" + url.Values{
		"place_id": {search.Candidates[0].PlaceID},
		"fields":   {"name,formatted_address,geometry,opening_hours,url"},
		"key":      {ms.APIKey},
		"language": {"es"},
	}.Encode()

	var details struct {
		Status string `json:"status"`
		Result struct {
			Name             string `json:"name"`
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
			OpeningHours struct {
				WeekdayText []string `json:"weekday_text"`
			} `json:"opening_hours"`
			URL string `json:"url"`
		} `json:"result"`
	}
	if err := ms.getJSON(ctx, detailsURL, &details); err != nil {
		return nil, err
	}
	if details.Status != "OK" {
		return nil, fmt.Errorf("place details returned status %s", details.Status)
	}

	info := &RestaurantInfo{
		Name:         details.Result.Name,
		Address:      details.Result.FormattedAddress,
		Lat:          details.Result.Geometry.Location.Lat,
		Lon:          details.Result.Geometry.Location.Lng,
		OpeningHours: details.Result.OpeningHours.WeekdayText,
		MapURL:       details.Result.URL,
	}
	if info.Name == "" {
		info.Name = ms.RestaurantName
	}
	if len(info.OpeningHours) == 0 {
		info.OpeningHours = []string{"Horario no disponible"}
	}
	if info.MapURL == "" {
		info.MapURL = "https://maps.google.com/?q=" + url.QueryEscape(ms.RestaurantName)
	}
	return info, nil
}

// Geocode resolves an address to coordinates. Without an API key it returns
// example coordinates near the branch, matching the behavior of a sandbox
// install.
func (ms *MapsService) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if ms.APIKey == "" {
		utils.InfoLogger.Println("Google Maps API key not configured, using example coordinates")
		switch {
		case strings.Contains(strings.ToLower(address), "calle falsa 123"):
			return -34.6000, -58.4000, nil
		case strings.Contains(strings.ToLower(address), "avenida siempreviva 742"):
			return -34.6050, -58.3850, nil
		default:
			return -34.6100, -58.3900, nil
		}
	}

	geocodeURL := "https://maps.googleapis.com/maps/api/geocode/json?" + url.Values{
		"address":  {address},
		"key":      {ms.APIKey},
		"language": {"es"},
	}.Encode()

	var result struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := ms.getJSON(ctx, geocodeURL, &result); err != nil {
		return 0, 0, err
	}
	if result.Status != "OK" || len(result.Results) == 0 {
		return 0, 0, fmt.Errorf("geocoding returned status %s", result.Status)
	}

	loc := result.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

func (ms *MapsService) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := ms.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("maps API unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("maps API returned malformed JSON: %w", err)
	}
	return nil
}
