package geo

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/presencehq/presence/core"
)

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
)

// Message maps an acquisition failure to a user-facing sentence.
func Message(err error) string {
	if errors.Is(err, ErrPermissionDenied) {
		return "Allow location access to continue."
	}
	return "Location unavailable. Allow location access and try again."
}

// Coordinate is a device position. Latitude and longitude always travel
// together.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator performs one position lookup.
type Locator interface {
	Locate(ctx context.Context) (Coordinate, error)
}

// Acquirer issues one-shot position requests. A coordinate, once acquired,
// is cached until Reset; concurrent requests coalesce into a single lookup.
type Acquirer struct {
	locator Locator
	log     core.Logger

	sf singleflight.Group

	mu      sync.Mutex
	coord   *Coordinate
	lastErr error
}

func NewAcquirer(locator Locator, log core.Logger) *Acquirer {
	return &Acquirer{locator: locator, log: log}
}

// Acquire returns the cached coordinate or performs a single lookup. It
// never retries on its own; a failed acquisition stays retryable by calling
// Acquire again.
func (a *Acquirer) Acquire(ctx context.Context) (Coordinate, error) {
	a.mu.Lock()
	if a.coord != nil {
		c := *a.coord
		a.mu.Unlock()
		return c, nil
	}
	a.mu.Unlock()

	v, err, _ := a.sf.Do("locate", func() (interface{}, error) {
		return a.locator.Locate(ctx)
	})

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.lastErr = err
		a.log.Warn("acquiring location", err)
		return Coordinate{}, err
	}
	c := v.(Coordinate)
	a.coord = &c
	a.lastErr = nil
	return c, nil
}

// Coordinate returns the cached position, if any.
func (a *Acquirer) Coordinate() (Coordinate, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.coord == nil {
		return Coordinate{}, false
	}
	return *a.coord, true
}

// Err returns the last acquisition failure.
func (a *Acquirer) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Reset clears the cached coordinate when the wizard fully resets.
func (a *Acquirer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.coord = nil
	a.lastErr = nil
}
