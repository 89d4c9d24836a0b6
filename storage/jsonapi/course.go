package jsonapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/presencehq/presence/core/course"
)

type CourseRepository struct {
	c *Client
}

var _ course.Repository = (*CourseRepository)(nil)

func NewCourseRepository(c *Client) *CourseRepository {
	return &CourseRepository{c: c}
}

type courseAttrs struct {
	Name    string `json:"name"`
	Periods int    `json:"periods"`
}

type classRoomAttrs struct {
	Name     string `json:"name"`
	Period   int    `json:"period"`
	CourseID string `json:"course_id"`
	Course   *struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Periods int    `json:"periods"`
	} `json:"course,omitempty"`
}

func decodeCourse(res Resource) (course.Course, error) {
	var attrs courseAttrs
	if err := res.Attr(&attrs); err != nil {
		return course.Course{}, err
	}
	return course.Course{ID: res.ID, Name: attrs.Name, Periods: attrs.Periods}, nil
}

func decodeClassRoom(res Resource) (course.ClassRoom, error) {
	var attrs classRoomAttrs
	if err := res.Attr(&attrs); err != nil {
		return course.ClassRoom{}, err
	}
	room := course.ClassRoom{ID: res.ID, Name: attrs.Name, Period: attrs.Period, CourseID: attrs.CourseID}
	if attrs.Course != nil {
		room.CourseID = attrs.Course.ID
		room.Course = &course.Course{ID: attrs.Course.ID, Name: attrs.Course.Name, Periods: attrs.Course.Periods}
	}
	return room, nil
}

func (repo *CourseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	var doc Document
	if err := repo.c.do(ctx, http.MethodGet, "/admin/courses", nil, nil, &doc, true); err != nil {
		return nil, err
	}
	resources, err := doc.Many()
	if err != nil {
		return nil, err
	}
	courses := make([]course.Course, 0, len(resources))
	for _, res := range resources {
		crs, err := decodeCourse(res)
		if err != nil {
			return nil, err
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

func (repo *CourseRepository) GetCourse(ctx context.Context, id string) (course.Course, error) {
	q := url.Values{"include": []string{"class_rooms"}}
	var doc Document
	if err := repo.c.do(ctx, http.MethodGet, "/admin/courses/"+id, q, nil, &doc, true); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, err
	}
	res, err := doc.One()
	if err != nil {
		return course.Course{}, err
	}
	crs, err := decodeCourse(res)
	if err != nil {
		return course.Course{}, err
	}
	for _, inc := range doc.IncludedOfType("class_room") {
		room, err := decodeClassRoom(inc)
		if err != nil {
			return course.Course{}, err
		}
		room.CourseID = crs.ID
		crs.ClassRooms = append(crs.ClassRooms, room)
	}
	return crs, nil
}

func (repo *CourseRepository) CreateCourse(ctx context.Context, nc course.NewCourse) (course.Course, error) {
	var doc Document
	if err := repo.c.do(ctx, http.MethodPost, "/admin/courses", nil, payload("course", nc), &doc, true); err != nil {
		return course.Course{}, err
	}
	res, err := doc.One()
	if err != nil {
		return course.Course{}, err
	}
	return decodeCourse(res)
}

func (repo *CourseRepository) UpdateCourse(ctx context.Context, id string, uc course.UpdateCourse) (course.Course, error) {
	var doc Document
	if err := repo.c.do(ctx, http.MethodPatch, "/admin/courses/"+id, nil, payload("course", uc), &doc, true); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, err
	}
	res, err := doc.One()
	if err != nil {
		return course.Course{}, err
	}
	return decodeCourse(res)
}

func (repo *CourseRepository) DeleteCourse(ctx context.Context, id string) error {
	err := repo.c.do(ctx, http.MethodDelete, "/admin/courses/"+id, nil, nil, nil, true)
	if isStatus(err, http.StatusNotFound) {
		return course.ErrNotFound
	}
	return err
}

func (repo *CourseRepository) GetClassRoom(ctx context.Context, courseID, id string) (course.ClassRoom, error) {
	q := url.Values{"include": []string{"course,students"}}
	path := fmt.Sprintf("/admin/courses/%s/class_rooms/%s", courseID, id)
	var doc Document
	if err := repo.c.do(ctx, http.MethodGet, path, q, nil, &doc, true); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return course.ClassRoom{}, course.ErrClassRoomNotFound
		}
		return course.ClassRoom{}, err
	}
	res, err := doc.One()
	if err != nil {
		return course.ClassRoom{}, err
	}
	room, err := decodeClassRoom(res)
	if err != nil {
		return course.ClassRoom{}, err
	}
	if room.CourseID == "" {
		room.CourseID = courseID
	}
	return room, nil
}

func (repo *CourseRepository) CreateClassRoom(ctx context.Context, courseID string, nc course.NewClassRoom) (course.ClassRoom, error) {
	path := fmt.Sprintf("/admin/courses/%s/class_rooms", courseID)
	var doc Document
	if err := repo.c.do(ctx, http.MethodPost, path, nil, payload("class_room", nc), &doc, true); err != nil {
		return course.ClassRoom{}, err
	}
	res, err := doc.One()
	if err != nil {
		return course.ClassRoom{}, err
	}
	room, err := decodeClassRoom(res)
	if err != nil {
		return course.ClassRoom{}, err
	}
	room.CourseID = courseID
	return room, nil
}

func (repo *CourseRepository) DeleteClassRoom(ctx context.Context, courseID, id string) error {
	path := fmt.Sprintf("/admin/courses/%s/class_rooms/%s", courseID, id)
	err := repo.c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
	if isStatus(err, http.StatusNotFound) {
		return course.ErrClassRoomNotFound
	}
	return err
}
