package jsonapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/presencehq/presence/core"
	"github.com/presencehq/presence/core/course"
	"github.com/presencehq/presence/core/event"
)

type EventRepository struct {
	c *Client
}

var _ event.Repository = (*EventRepository)(nil)

func NewEventRepository(c *Client) *EventRepository {
	return &EventRepository{c: c}
}

type eventAttrs struct {
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Start            time.Time      `json:"event_start"`
	End              time.Time      `json:"event_end"`
	LocationOptional bool           `json:"location_optional"`
	FaceAuth         bool           `json:"face_auth"`
	Location         event.Location `json:"location"`
	Latitude         string         `json:"latitude"`
	Longitude        string         `json:"longitude"`
	CreatorID        string         `json:"creator_id"`
}

func decodeEvent(res Resource) (event.Event, error) {
	var attrs eventAttrs
	if err := res.Attr(&attrs); err != nil {
		return event.Event{}, err
	}
	ev := event.Event{
		ID:               res.ID,
		Name:             attrs.Name,
		Description:      attrs.Description,
		Start:            attrs.Start,
		End:              attrs.End,
		LocationOptional: attrs.LocationOptional,
		FaceAuth:         attrs.FaceAuth,
		Location:         attrs.Location,
		Latitude:         attrs.Latitude,
		Longitude:        attrs.Longitude,
		CreatorID:        attrs.CreatorID,
	}
	for _, id := range res.Relationships["courses"].Identifiers() {
		ev.CourseIDs = append(ev.CourseIDs, id.ID)
	}
	for _, id := range res.Relationships["class_rooms"].Identifiers() {
		ev.ClassRoomIDs = append(ev.ClassRoomIDs, id.ID)
	}
	return ev, nil
}

func (repo *EventRepository) QueryAllEvents(ctx context.Context) ([]event.Event, error) {
	var doc Document
	if err := repo.c.do(ctx, http.MethodGet, "/admin/events", nil, nil, &doc, true); err != nil {
		return nil, err
	}
	resources, err := doc.Many()
	if err != nil {
		return nil, err
	}
	events := make([]event.Event, 0, len(resources))
	for _, res := range resources {
		ev, err := decodeEvent(res)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (repo *EventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	q := url.Values{"include": []string{"courses,class_rooms"}}
	var doc Document
	if err := repo.c.do(ctx, http.MethodGet, "/admin/events/"+id, q, nil, &doc, true); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}
	res, err := doc.One()
	if err != nil {
		return event.Event{}, err
	}
	ev, err := decodeEvent(res)
	if err != nil {
		return event.Event{}, err
	}
	for _, inc := range doc.IncludedOfType("course") {
		c, err := decodeCourse(inc)
		if err != nil {
			return event.Event{}, err
		}
		ev.Courses = append(ev.Courses, c)
	}
	for _, inc := range doc.IncludedOfType("class_room") {
		room, err := decodeClassRoom(inc)
		if err != nil {
			return event.Event{}, err
		}
		ev.ClassRooms = append(ev.ClassRooms, room)
	}
	ev.PresenceURL = doc.MetaString("presence_url")
	return ev, nil
}

func (repo *EventRepository) CreateEvent(ctx context.Context, ne event.NewEvent) (event.Event, error) {
	var doc Document
	if err := repo.c.do(ctx, http.MethodPost, "/admin/events", nil, payload("event", ne), &doc, true); err != nil {
		return event.Event{}, err
	}
	res, err := doc.One()
	if err != nil {
		return event.Event{}, err
	}
	return decodeEvent(res)
}

func (repo *EventRepository) UpdateEvent(ctx context.Context, id string, ue event.UpdateEvent) (event.Event, error) {
	var doc Document
	if err := repo.c.do(ctx, http.MethodPatch, "/admin/events/"+id, nil, payload("event", ue), &doc, true); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}
	res, err := doc.One()
	if err != nil {
		return event.Event{}, err
	}
	return decodeEvent(res)
}

func (repo *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	err := repo.c.do(ctx, http.MethodDelete, "/admin/events/"+id, nil, nil, nil, true)
	if isStatus(err, http.StatusNotFound) {
		return event.ErrNotFound
	}
	return err
}

type participantAttrs struct {
	Present     bool   `json:"present"`
	Location    string `json:"location"`
	EventID     string `json:"event_id"`
	StudentID   string `json:"student_id"`
	StudentRA   string `json:"student_ra"`
	StudentName string `json:"student_name"`
	Email       string `json:"email"`
}

func (repo *EventRepository) FilterParticipants(ctx context.Context, eventID string, filter core.PageFilter) ([]event.Participant, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(filter.PerPage))
	q.Set("page", strconv.Itoa(filter.Page))
	q.Set("q[s]", "student_name asc")
	var doc Document
	if err := repo.c.do(ctx, http.MethodGet, "/admin/events/"+eventID+"/participants", q, nil, &doc, true); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, event.ErrNotFound
		}
		return nil, err
	}
	resources, err := doc.Many()
	if err != nil {
		return nil, err
	}
	participants := make([]event.Participant, 0, len(resources))
	for _, res := range resources {
		var attrs participantAttrs
		if err := res.Attr(&attrs); err != nil {
			return nil, err
		}
		participants = append(participants, event.Participant{
			ID:          res.ID,
			Present:     attrs.Present,
			Location:    attrs.Location,
			EventID:     attrs.EventID,
			StudentID:   attrs.StudentID,
			StudentRA:   attrs.StudentRA,
			StudentName: attrs.StudentName,
			Email:       attrs.Email,
		})
	}
	return participants, nil
}

func (repo *EventRepository) ClassRoomsByCourses(ctx context.Context, courseIDs []string) ([]course.ClassRoom, error) {
	q := url.Values{}
	for _, id := range courseIDs {
		q.Add("course_ids[]", id)
	}
	var doc Document
	if err := repo.c.do(ctx, http.MethodGet, "/admin/events/classrooms_by_courses", q, nil, &doc, true); err != nil {
		return nil, err
	}
	resources, err := doc.Many()
	if err != nil {
		return nil, err
	}
	rooms := make([]course.ClassRoom, 0, len(resources))
	for _, res := range resources {
		room, err := decodeClassRoom(res)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}
