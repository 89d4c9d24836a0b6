package event

import (
	"errors"
	"strings"
	"time"

	"github.com/presencehq/presence/core/course"
	"github.com/presencehq/presence/core/geo"
)

var (
	ErrNotFound = errors.New("event not found")
	// ErrLoadFailed covers every non-404 load failure; the only recovery
	// path is a fresh load.
	ErrLoadFailed = errors.New("could not load event")
)

// LocationFallback is shown when the structured location has no usable field.
const LocationFallback = "Location not provided"

// Location is the structured, geocoded event address.
type Location struct {
	Amenity       string `json:"amenity,omitempty"`
	Road          string `json:"road,omitempty"`
	Town          string `json:"town,omitempty"`
	State         string `json:"state,omitempty"`
	Region        string `json:"region,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
	Country       string `json:"country,omitempty"`
	CountryCode   string `json:"country_code,omitempty"`
	Municipality  string `json:"municipality,omitempty"`
	StateDistrict string `json:"state_district,omitempty"`
}

// Format joins the non-empty display fields with commas, amenity first.
func (l Location) Format() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.Amenity, l.Road, l.Town, l.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return LocationFallback
	}
	return strings.Join(parts, ", ")
}

// PublicEvent is the unauthenticated projection shown to participants.
type PublicEvent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Start       time.Time `json:"event_start"`
	End         time.Time `json:"event_end"`
	Location    Location  `json:"location"`

	// LocationValidation reports whether the backend will reject presence
	// confirmations outside the event's geofence. The wire flag marks the
	// location as optional, so validation is on when it is NOT optional.
	LocationValidation bool `json:"location_validation"`
}

// Event is the admin projection.
type Event struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Start            time.Time `json:"event_start"`
	End              time.Time `json:"event_end"`
	LocationOptional bool      `json:"location_optional"`
	FaceAuth         bool      `json:"face_auth"`
	Location         Location  `json:"location"`
	Latitude         string    `json:"latitude,omitempty"`
	Longitude        string    `json:"longitude,omitempty"`
	CreatorID        string    `json:"creator_id,omitempty"`

	CourseIDs    []string `json:"course_ids,omitempty"`
	ClassRoomIDs []string `json:"class_room_ids,omitempty"`

	// Courses and ClassRooms are populated when included.
	Courses    []course.Course    `json:"courses,omitempty"`
	ClassRooms []course.ClassRoom `json:"class_rooms,omitempty"`

	// PresenceURL is the public participant link issued by the backend.
	PresenceURL string `json:"presence_url,omitempty"`
}

// Participant is one row of an event's attendance list.
type Participant struct {
	ID          string `json:"id"`
	Present     bool   `json:"present"`
	Location    string `json:"location,omitempty"`
	EventID     string `json:"event_id"`
	StudentID   string `json:"student_id"`
	StudentRA   string `json:"student_ra"`
	StudentName string `json:"student_name"`
	Email       string `json:"email,omitempty"`
}

type NewEvent struct {
	Name        string    `json:"name" validate:"required,min=3"`
	Description string    `json:"description" validate:"required,min=10"`
	Start       time.Time `json:"event_start" validate:"required"`
	End         time.Time `json:"event_end" validate:"required,gtfield=Start"`
	// Location is free text; the backend geocodes it.
	Location         string   `json:"location" validate:"required,min=3"`
	LocationOptional bool     `json:"location_optional"`
	FaceAuth         bool     `json:"face_auth"`
	CourseIDs        []string `json:"course_ids"`
	ClassRoomIDs     []string `json:"class_room_ids"`
}

type UpdateEvent struct {
	Name             string    `json:"name" validate:"omitempty,min=3"`
	Description      string    `json:"description" validate:"omitempty,min=10"`
	Start            time.Time `json:"event_start"`
	End              time.Time `json:"event_end"`
	Location         string    `json:"location" validate:"omitempty,min=3"`
	LocationOptional *bool     `json:"location_optional,omitempty"`
	CourseIDs        []string  `json:"course_ids,omitempty"`
	ClassRoomIDs     []string  `json:"class_room_ids,omitempty"`
}

// PresenceConfirmation carries the three artifacts a participant submits.
type PresenceConfirmation struct {
	RA         string
	Coordinate geo.Coordinate
	Photo      []byte // JPEG
}
