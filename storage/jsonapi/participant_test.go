package jsonapi_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/presencehq/presence/core"
	"github.com/presencehq/presence/core/event"
	"github.com/presencehq/presence/core/geo"
	"github.com/presencehq/presence/storage/jsonapi"
	testutil "github.com/presencehq/presence/tests"
)

func TestParticipantRepository_GetPublicEvent(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/participants/evt-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"id": "evt-1",
				"type": "event",
				"attributes": {
					"name": "Welcome Lecture",
					"description": "Opening lecture of the semester",
					"event_start": "2026-09-01T09:00:00Z",
					"event_end": "2026-09-01T11:00:00Z",
					"location": {"amenity": "Campus Hall", "road": "University Ave", "town": "Springfield", "state": "SP", "postcode": "01000-000"},
					"location_optional": false
				}
			}
		}`))
	})

	repo := jsonapi.NewParticipantRepository(newClient(t, backend, ""))
	ev, err := repo.GetPublicEvent(context.Background(), "evt-1")
	if err != nil {
		t.Fatalf("GetPublicEvent() failed: %v", err)
	}
	if ev.ID != "evt-1" || ev.Name != "Welcome Lecture" {
		t.Errorf("event = %+v", ev)
	}
	if got := ev.Location.Format(); got != "Campus Hall, University Ave, Springfield, SP" {
		t.Errorf("Location.Format() = %q", got)
	}
	// the wire flag marks location as optional; validation is its inverse
	if !ev.LocationValidation {
		t.Error("LocationValidation = false for a non-optional location")
	}

	req, _ := backend.LastRequest(t)
	if req.Header.Get("Authorization") != "" {
		t.Error("public event request carried an Authorization header")
	}
}

func TestParticipantRepository_GetPublicEvent_failures(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.HandleJSON(http.MethodGet, "/participants/missing", http.StatusNotFound,
		map[string]string{"error": "Event not found"})
	backend.HandleJSON(http.MethodGet, "/participants/broken", http.StatusInternalServerError,
		map[string]string{"message": "boom"})

	repo := jsonapi.NewParticipantRepository(newClient(t, backend, ""))

	if _, err := repo.GetPublicEvent(context.Background(), "missing"); !errors.Is(err, event.ErrNotFound) {
		t.Errorf("GetPublicEvent(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetPublicEvent(context.Background(), "broken"); !errors.Is(err, event.ErrLoadFailed) {
		t.Errorf("GetPublicEvent(broken) error = %v, want ErrLoadFailed", err)
	}
}

func TestParticipantRepository_ConfirmPresence(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.HandleJSON(http.MethodPatch, "/participants/evt-1/confirm_presence", http.StatusOK,
		map[string]string{"message": "Presence confirmed"})

	photo := testutil.JPEGFrame(t, 32, 24)
	repo := jsonapi.NewParticipantRepository(newClient(t, backend, ""))
	err := repo.ConfirmPresence(context.Background(), "evt-1", event.PresenceConfirmation{
		RA:         "241403-1",
		Coordinate: geo.Coordinate{Latitude: -23.5505, Longitude: -46.6333},
		Photo:      photo,
	})
	if err != nil {
		t.Fatalf("ConfirmPresence() failed: %v", err)
	}

	req, body := backend.LastRequest(t)
	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("Content-Type = %q (%v), want multipart/form-data", req.Header.Get("Content-Type"), err)
	}

	form, err := readForm(body, params["boundary"])
	if err != nil {
		t.Fatalf("parsing multipart body: %v", err)
	}
	wantFields := map[string]string{
		"data[type]":                  "participant",
		"data[attributes][ra]":        "241403-1",
		"data[attributes][latitude]":  "-23.5505",
		"data[attributes][longitude]": "-46.6333",
	}
	for name, want := range wantFields {
		if got := form.Value[name]; len(got) != 1 || got[0] != want {
			t.Errorf("field %s = %v, want %q", name, got, want)
		}
	}

	files := form.File["photo"]
	if len(files) != 1 {
		t.Fatalf("photo parts = %d, want 1", len(files))
	}
	fh := files[0]
	if fh.Filename != "photo.jpg" {
		t.Errorf("photo filename = %q, want photo.jpg", fh.Filename)
	}
	if ct := fh.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("photo content type = %q, want image/jpeg", ct)
	}
	f, err := fh.Open()
	if err != nil {
		t.Fatalf("opening photo part: %v", err)
	}
	defer f.Close()
	sent, _ := io.ReadAll(f)
	if len(sent) != len(photo) {
		t.Errorf("photo part is %d bytes, want %d", len(sent), len(photo))
	}
}

func TestParticipantRepository_ConfirmPresence_remoteError(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.HandleJSON(http.MethodPatch, "/participants/evt-1/confirm_presence", http.StatusUnprocessableEntity,
		map[string]string{"error": "RA not recognized for this event"})

	repo := jsonapi.NewParticipantRepository(newClient(t, backend, ""))
	err := repo.ConfirmPresence(context.Background(), "evt-1", event.PresenceConfirmation{
		RA:         "999999",
		Coordinate: geo.Coordinate{Latitude: 1, Longitude: 2},
		Photo:      testutil.JPEGFrame(t, 8, 8),
	})

	var re *core.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("ConfirmPresence() error = %v, want *core.RemoteError", err)
	}
	if re.StatusCode != http.StatusUnprocessableEntity || re.Msg != "RA not recognized for this event" {
		t.Errorf("RemoteError = %+v", re)
	}
}

func readForm(body []byte, boundary string) (*multipart.Form, error) {
	r := multipart.NewReader(bytes.NewReader(body), boundary)
	return r.ReadForm(1 << 20)
}
