package jsonapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/presencehq/presence/core/event"
)

// ParticipantRepository serves the public, unauthenticated participant flow:
// loading an event by its share link id and submitting a presence
// confirmation.
type ParticipantRepository struct {
	c *Client
}

var _ event.PublicRepository = (*ParticipantRepository)(nil)

func NewParticipantRepository(c *Client) *ParticipantRepository {
	return &ParticipantRepository{c: c}
}

type publicEventAttrs struct {
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Start            time.Time      `json:"event_start"`
	End              time.Time      `json:"event_end"`
	Location         event.Location `json:"location"`
	LocationOptional bool           `json:"location_optional"`
}

func (repo *ParticipantRepository) GetPublicEvent(ctx context.Context, id string) (event.PublicEvent, error) {
	var doc Document
	if err := repo.c.do(ctx, http.MethodGet, "/participants/"+id, nil, nil, &doc, false); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return event.PublicEvent{}, event.ErrNotFound
		}
		return event.PublicEvent{}, errors.Wrap(event.ErrLoadFailed, err.Error())
	}
	res, err := doc.One()
	if err != nil {
		return event.PublicEvent{}, errors.Wrap(event.ErrLoadFailed, err.Error())
	}
	var attrs publicEventAttrs
	if err := res.Attr(&attrs); err != nil {
		return event.PublicEvent{}, errors.Wrap(event.ErrLoadFailed, err.Error())
	}
	return event.PublicEvent{
		ID:                 res.ID,
		Name:               attrs.Name,
		Description:        attrs.Description,
		Start:              attrs.Start,
		End:                attrs.End,
		Location:           attrs.Location,
		LocationValidation: !attrs.LocationOptional,
	}, nil
}

// ConfirmPresence submits the participant's registration number, coordinate
// and photo as one multipart PATCH. The request deliberately carries no
// client timeout since the backend runs face matching inline.
func (repo *ParticipantRepository) ConfirmPresence(ctx context.Context, eventID string, pc event.PresenceConfirmation) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"data[type]", "participant"},
		{"data[attributes][ra]", pc.RA},
		{"data[attributes][latitude]", strconv.FormatFloat(pc.Coordinate.Latitude, 'f', -1, 64)},
		{"data[attributes][longitude]", strconv.FormatFloat(pc.Coordinate.Longitude, 'f', -1, 64)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return errors.Wrapf(err, "writing %s field", f.name)
		}
	}
	if err := writeFilePart(w, "photo", "photo.jpg", "image/jpeg", pc.Photo); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "closing multipart body")
	}

	path := "/participants/" + eventID + "/confirm_presence"
	req, err := repo.c.newRequest(ctx, http.MethodPatch, path, nil, &buf, w.FormDataContentType(), false)
	if err != nil {
		return err
	}
	resp, err := repo.c.submit.Do(req)
	if err != nil {
		return errors.Wrap(err, "confirming presence")
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return err
	}
	// The success body is informational only; drain it so the connection can
	// be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
