package student

import (
	"context"

	"github.com/pkg/errors"

	"github.com/presencehq/presence/core"
)

type (
	Repository interface {
		FilterStudents(ctx context.Context, courseID, classRoomID string, filter core.PageFilter) ([]Student, error)
		// GetStudent includes the classroom and course relationships.
		GetStudent(ctx context.Context, courseID, classRoomID, id string) (Student, error)
		CreateStudent(ctx context.Context, courseID, classRoomID string, ns NewStudent) (Student, error)
		// CreateStudents is a batch create; photos become the students'
		// face-matching reference images.
		CreateStudents(ctx context.Context, courseID, classRoomID string, batch []NewStudent, photos []Photo) ([]Student, error)
		UpdateStudent(ctx context.Context, courseID, classRoomID, id string, us UpdateStudent) (Student, error)
		DeleteStudent(ctx context.Context, courseID, classRoomID, id string) error

		AddEmbedding(ctx context.Context, courseID, classRoomID, id string, photo Photo) (Student, error)
		DeleteEmbedding(ctx context.Context, courseID, classRoomID, id, imageID string) (Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Filter(ctx context.Context, courseID, classRoomID string, filter core.PageFilter) ([]Student, error) {
	return svc.repo.FilterStudents(ctx, courseID, classRoomID, filter.OrDefaults())
}

func (svc *Service) GetByID(ctx context.Context, courseID, classRoomID, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, courseID, classRoomID, id)
}

func (svc *Service) Create(ctx context.Context, courseID, classRoomID string, ns NewStudent) (Student, error) {
	ns = cleanNew(ns)
	if err := core.CheckStruct(ns); err != nil {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, courseID, classRoomID, ns)
}

func (svc *Service) CreateBatch(ctx context.Context, courseID, classRoomID string, batch []NewStudent, photos []Photo) ([]Student, error) {
	if len(batch) == 0 {
		return nil, core.NewValidationError(errors.New("add at least one student"))
	}
	for i, ns := range batch {
		batch[i] = cleanNew(ns)
		if err := core.CheckStruct(batch[i]); err != nil {
			return nil, err
		}
	}
	return svc.repo.CreateStudents(ctx, courseID, classRoomID, batch, photos)
}

func (svc *Service) Update(ctx context.Context, courseID, classRoomID, id string, us UpdateStudent) (Student, error) {
	us.Name = core.CleanString(us.Name)
	us.RA = core.CleanString(us.RA)
	us.Email = core.CleanString(us.Email, true /* lower */)
	if err := core.CheckStruct(us); err != nil {
		return Student{}, err
	}
	return svc.repo.UpdateStudent(ctx, courseID, classRoomID, id, us)
}

func (svc *Service) Delete(ctx context.Context, courseID, classRoomID, id string) error {
	return svc.repo.DeleteStudent(ctx, courseID, classRoomID, id)
}

func (svc *Service) AddEmbedding(ctx context.Context, courseID, classRoomID, id string, photo Photo) (Student, error) {
	if len(photo.Data) == 0 {
		return Student{}, core.NewValidationError(errors.New("a photo is required"))
	}
	return svc.repo.AddEmbedding(ctx, courseID, classRoomID, id, photo)
}

func (svc *Service) DeleteEmbedding(ctx context.Context, courseID, classRoomID, id, imageID string) (Student, error) {
	return svc.repo.DeleteEmbedding(ctx, courseID, classRoomID, id, imageID)
}

func cleanNew(ns NewStudent) NewStudent {
	ns.Name = core.CleanString(ns.Name)
	ns.RA = core.CleanString(ns.RA)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return ns
}
