package course

import (
	"context"

	"github.com/presencehq/presence/core"
)

type (
	Repository interface {
		QueryAllCourses(ctx context.Context) ([]Course, error)
		// GetCourse includes the course's classrooms.
		GetCourse(ctx context.Context, id string) (Course, error)
		CreateCourse(ctx context.Context, nc NewCourse) (Course, error)
		UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		DeleteCourse(ctx context.Context, id string) error

		// GetClassRoom includes the parent course and the student list.
		GetClassRoom(ctx context.Context, courseID, id string) (ClassRoom, error)
		CreateClassRoom(ctx context.Context, courseID string, nc NewClassRoom) (ClassRoom, error)
		DeleteClassRoom(ctx context.Context, courseID, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	nc.Name = core.CleanString(nc.Name)
	if err := core.CheckStruct(nc); err != nil {
		return Course{}, err
	}
	return svc.repo.CreateCourse(ctx, nc)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	uc.Name = core.CleanString(uc.Name)
	if err := core.CheckStruct(uc); err != nil {
		return Course{}, err
	}
	return svc.repo.UpdateCourse(ctx, id, uc)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}

func (svc *Service) GetClassRoom(ctx context.Context, courseID, id string) (ClassRoom, error) {
	return svc.repo.GetClassRoom(ctx, courseID, id)
}

func (svc *Service) CreateClassRoom(ctx context.Context, courseID string, nc NewClassRoom) (ClassRoom, error) {
	nc.Name = core.CleanString(nc.Name)
	if err := core.CheckStruct(nc); err != nil {
		return ClassRoom{}, err
	}
	return svc.repo.CreateClassRoom(ctx, courseID, nc)
}

func (svc *Service) DeleteClassRoom(ctx context.Context, courseID, id string) error {
	return svc.repo.DeleteClassRoom(ctx, courseID, id)
}
