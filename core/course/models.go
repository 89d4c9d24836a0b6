package course

import "errors"

var (
	ErrNotFound          = errors.New("course not found")
	ErrClassRoomNotFound = errors.New("classroom not found")
)

type Course struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Periods int    `json:"periods"`

	// ClassRooms is populated when the classrooms relationship is included.
	ClassRooms []ClassRoom `json:"class_rooms,omitempty"`
}

type ClassRoom struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Period   int    `json:"period"`
	CourseID string `json:"course_id,omitempty"`

	// Course is populated when the course relationship is included.
	Course *Course `json:"course,omitempty"`
}

type NewCourse struct {
	Name    string `json:"name" validate:"required,min=3"`
	Periods int    `json:"periods" validate:"required,min=1"`
}

type UpdateCourse struct {
	Name    string `json:"name" validate:"omitempty,min=3"`
	Periods int    `json:"periods" validate:"omitempty,min=1"`
}

type NewClassRoom struct {
	Name   string `json:"name" validate:"required"`
	Period int    `json:"period" validate:"required,min=1"`
}
