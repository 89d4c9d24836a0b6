// Package location provides geo.Locator implementations for kiosks.
package location

import (
	"context"

	"github.com/presencehq/presence/core/geo"
)

// StaticLocator returns a fixed position configured at install time. Kiosks
// do not move; this is the default locator.
type StaticLocator struct {
	coord geo.Coordinate
	set   bool
}

var _ geo.Locator = (*StaticLocator)(nil)

func NewStaticLocator(lat, lon float64) *StaticLocator {
	return &StaticLocator{
		coord: geo.Coordinate{Latitude: lat, Longitude: lon},
		set:   lat != 0 || lon != 0,
	}
}

func (l *StaticLocator) Locate(ctx context.Context) (geo.Coordinate, error) {
	if !l.set {
		return geo.Coordinate{}, geo.ErrUnavailable
	}
	return l.coord, nil
}
