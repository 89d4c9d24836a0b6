package event

import (
	"context"

	"github.com/presencehq/presence/core"
	"github.com/presencehq/presence/core/course"
)

type (
	Repository interface {
		QueryAllEvents(ctx context.Context) ([]Event, error)
		// GetEvent includes the courses and classrooms relationships and
		// the presence_url meta.
		GetEvent(ctx context.Context, id string) (Event, error)
		CreateEvent(ctx context.Context, ne NewEvent) (Event, error)
		UpdateEvent(ctx context.Context, id string, ue UpdateEvent) (Event, error)
		DeleteEvent(ctx context.Context, id string) error

		// FilterParticipants lists an event's attendance sorted by student
		// name.
		FilterParticipants(ctx context.Context, eventID string, filter core.PageFilter) ([]Participant, error)
		ClassRoomsByCourses(ctx context.Context, courseIDs []string) ([]course.ClassRoom, error)
	}

	// PublicRepository is the unauthenticated read used by the participant
	// page.
	PublicRepository interface {
		GetPublicEvent(ctx context.Context, id string) (PublicEvent, error)
	}

	Service struct {
		repo   Repository
		public PublicRepository
	}
)

func NewService(repo Repository, public PublicRepository) *Service {
	return &Service{repo: repo, public: public}
}

// LoadPublic fetches the public event projection: exactly one read, no
// retries.
func (svc *Service) LoadPublic(ctx context.Context, id string) (PublicEvent, error) {
	return svc.public.GetPublicEvent(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryAllEvents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEvent(ctx, id)
}

func (svc *Service) Create(ctx context.Context, ne NewEvent) (Event, error) {
	ne.Name = core.CleanString(ne.Name)
	ne.Description = core.CleanString(ne.Description)
	ne.Location = core.CleanString(ne.Location)
	if err := core.CheckStruct(ne); err != nil {
		return Event{}, err
	}
	return svc.repo.CreateEvent(ctx, ne)
}

func (svc *Service) Update(ctx context.Context, id string, ue UpdateEvent) (Event, error) {
	ue.Name = core.CleanString(ue.Name)
	ue.Description = core.CleanString(ue.Description)
	ue.Location = core.CleanString(ue.Location)
	if err := core.CheckStruct(ue); err != nil {
		return Event{}, err
	}
	return svc.repo.UpdateEvent(ctx, id, ue)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteEvent(ctx, id)
}

func (svc *Service) FilterParticipants(ctx context.Context, eventID string, filter core.PageFilter) ([]Participant, error) {
	return svc.repo.FilterParticipants(ctx, eventID, filter.OrDefaults())
}

func (svc *Service) ClassRoomsByCourses(ctx context.Context, courseIDs []string) ([]course.ClassRoom, error) {
	return svc.repo.ClassRoomsByCourses(ctx, courseIDs)
}
