package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrGeocodeNotConfigured = errors.New("geocode service is not configured")
	ErrGeocodeUpstream      = errors.New("geocode upstream request failed")
	ErrGeocodeNoMatch       = errors.New("address did not geocode")
)

type GeocodeResult struct {
	Lng       float64 `json:"lng"`
	Lat       float64 `json:"lat"`
	Location  string  `json:"location"`
	Formatted string  `json:"formatted"`
}

// GeocodeService proxies the AMap geocoding API so the admin UI never sees
// the web-service key.
type GeocodeService struct {
	key    string
	client *http.Client
}

func NewGeocodeService(key string) *GeocodeService {
	return &GeocodeService{
		key:    key,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type amapGeocodeResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Geocodes []struct {
		Location         string `json:"location"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"geocodes"`
}

func (s *GeocodeService) Geocode(ctx context.Context, address, city string) (*GeocodeResult, error) {
	if s.key == "" {
		return nil, ErrGeocodeNotConfigured
	}

	params := url.Values{}
	params.Set("key", s.key)
	params.Set("address", address)
	if city != "" {
		params.Set("city", city)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://restapi.amap.com/v3/geocode/geo?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodeUpstream, err)
	}
	defer resp.Body.Close()

	var body amapGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrGeocodeUpstream, err)
	}
	if body.Status != "1" {
		return nil, fmt.Errorf("%w: %s", ErrGeocodeUpstream, body.Info)
	}
	if len(body.Geocodes) == 0 {
		return nil, ErrGeocodeNoMatch
	}

	// location is "lng,lat"
	parts := strings.Split(body.Geocodes[0].Location, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: bad location %q", ErrGeocodeUpstream, body.Geocodes[0].Location)
	}
	var lng, lat float64
	if _, err := fmt.Sscanf(parts[0], "%f", &lng); err != nil {
		return nil, fmt.Errorf("%w: bad longitude %q", ErrGeocodeUpstream, parts[0])
	}
	if _, err := fmt.Sscanf(parts[1], "%f", &lat); err != nil {
		return nil, fmt.Errorf("%w: bad latitude %q", ErrGeocodeUpstream, parts[1])
	}

	return &GeocodeResult{
		Lng:       lng,
		Lat:       lat,
		Location:  body.Geocodes[0].Location,
		Formatted: body.Geocodes[0].FormattedAddress,
	}, nil
}
