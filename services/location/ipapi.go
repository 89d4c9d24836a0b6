package location

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/presencehq/presence/core/geo"
)

const defaultIPAPIEndpoint = "http://ip-api.com/json/"

// IPLocator geolocates by public IP. Coarse, but enough for events that only
// gate on being in the right city.
type IPLocator struct {
	endpoint string
	http     *http.Client
}

var _ geo.Locator = (*IPLocator)(nil)

func NewIPLocator(endpoint string) *IPLocator {
	if endpoint == "" {
		endpoint = defaultIPAPIEndpoint
	}
	return &IPLocator{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (l *IPLocator) Locate(ctx context.Context) (geo.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		return geo.Coordinate{}, errors.Wrap(err, "building ip lookup request")
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return geo.Coordinate{}, geo.ErrUnavailable
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, geo.ErrUnavailable
	}

	var body struct {
		Status string  `json:"status"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Coordinate{}, geo.ErrUnavailable
	}
	if body.Status != "success" {
		return geo.Coordinate{}, geo.ErrUnavailable
	}
	return geo.Coordinate{Latitude: body.Lat, Longitude: body.Lon}, nil
}
