package jsonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/presencehq/presence/core"
	"github.com/presencehq/presence/core/student"
)

type StudentRepository struct {
	c *Client
}

var _ student.Repository = (*StudentRepository)(nil)

func NewStudentRepository(c *Client) *StudentRepository {
	return &StudentRepository{c: c}
}

type studentAttrs struct {
	Name            string `json:"name"`
	RA              string `json:"ra"`
	Email           string `json:"email"`
	ClassRoomID     string `json:"class_room_id"`
	EmbeddingImages []struct {
		ID       string `json:"id"`
		ImageURL string `json:"image_url"`
	} `json:"embedding_images"`
}

func decodeStudent(res Resource) (student.Student, error) {
	var attrs studentAttrs
	if err := res.Attr(&attrs); err != nil {
		return student.Student{}, err
	}
	st := student.Student{
		ID:          res.ID,
		Name:        attrs.Name,
		RA:          attrs.RA,
		Email:       attrs.Email,
		ClassRoomID: attrs.ClassRoomID,
	}
	for _, img := range attrs.EmbeddingImages {
		st.EmbeddingImages = append(st.EmbeddingImages, student.EmbeddingImage{ID: img.ID, ImageURL: img.ImageURL})
	}
	return st, nil
}

func studentsPath(courseID, classRoomID string) string {
	return fmt.Sprintf("/admin/courses/%s/class_rooms/%s/students", courseID, classRoomID)
}

func (repo *StudentRepository) FilterStudents(ctx context.Context, courseID, classRoomID string, filter core.PageFilter) ([]student.Student, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(filter.PerPage))
	q.Set("page", strconv.Itoa(filter.Page))
	var doc Document
	if err := repo.c.do(ctx, http.MethodGet, studentsPath(courseID, classRoomID), q, nil, &doc, true); err != nil {
		return nil, err
	}
	resources, err := doc.Many()
	if err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(resources))
	for _, res := range resources {
		st, err := decodeStudent(res)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, nil
}

func (repo *StudentRepository) GetStudent(ctx context.Context, courseID, classRoomID, id string) (student.Student, error) {
	q := url.Values{"include": []string{"class_room,course"}}
	var doc Document
	if err := repo.c.do(ctx, http.MethodGet, studentsPath(courseID, classRoomID)+"/"+id, q, nil, &doc, true); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	res, err := doc.One()
	if err != nil {
		return student.Student{}, err
	}
	return decodeStudent(res)
}

func (repo *StudentRepository) CreateStudent(ctx context.Context, courseID, classRoomID string, ns student.NewStudent) (student.Student, error) {
	var doc Document
	if err := repo.c.do(ctx, http.MethodPost, studentsPath(courseID, classRoomID), nil, payload("students", ns), &doc, true); err != nil {
		return student.Student{}, err
	}
	res, err := doc.One()
	if err != nil {
		return student.Student{}, err
	}
	return decodeStudent(res)
}

// CreateStudents posts the whole batch as one multipart request: the
// student records as a JSON `data` field, the reference photos as
// `files[]` parts.
func (repo *StudentRepository) CreateStudents(ctx context.Context, courseID, classRoomID string, batch []student.NewStudent, photos []student.Photo) ([]student.Student, error) {
	records := make([]map[string]interface{}, 0, len(batch))
	for _, ns := range batch {
		records = append(records, map[string]interface{}{
			"type":       "students",
			"attributes": ns,
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(err, "encoding student batch")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("data", string(data)); err != nil {
		return nil, errors.Wrap(err, "writing data field")
	}
	for _, photo := range photos {
		if err := writeFilePart(w, "files[]", photo.Name, "image/jpeg", photo.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "closing multipart body")
	}

	req, err := repo.c.newRequest(ctx, http.MethodPost, studentsPath(courseID, classRoomID), nil, &buf, w.FormDataContentType(), true)
	if err != nil {
		return nil, err
	}
	resp, err := repo.c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "creating students")
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding create students response")
	}
	resources, err := doc.Many()
	if err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(resources))
	for _, res := range resources {
		st, err := decodeStudent(res)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, nil
}

func (repo *StudentRepository) UpdateStudent(ctx context.Context, courseID, classRoomID, id string, us student.UpdateStudent) (student.Student, error) {
	var doc Document
	if err := repo.c.do(ctx, http.MethodPatch, studentsPath(courseID, classRoomID)+"/"+id, nil, payload("students", us), &doc, true); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	res, err := doc.One()
	if err != nil {
		return student.Student{}, err
	}
	return decodeStudent(res)
}

func (repo *StudentRepository) DeleteStudent(ctx context.Context, courseID, classRoomID, id string) error {
	err := repo.c.do(ctx, http.MethodDelete, studentsPath(courseID, classRoomID)+"/"+id, nil, nil, nil, true)
	if isStatus(err, http.StatusNotFound) {
		return student.ErrNotFound
	}
	return err
}

func (repo *StudentRepository) AddEmbedding(ctx context.Context, courseID, classRoomID, id string, photo student.Photo) (student.Student, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	name := photo.Name
	if name == "" {
		name = "photo.jpg"
	}
	if err := writeFilePart(w, "file", name, "image/jpeg", photo.Data); err != nil {
		return student.Student{}, err
	}
	if err := w.Close(); err != nil {
		return student.Student{}, errors.Wrap(err, "closing multipart body")
	}

	path := studentsPath(courseID, classRoomID) + "/" + id + "/add_embedding"
	req, err := repo.c.newRequest(ctx, http.MethodPatch, path, nil, &buf, w.FormDataContentType(), true)
	if err != nil {
		return student.Student{}, err
	}
	resp, err := repo.c.http.Do(req)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "adding embedding")
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return student.Student{}, errors.Wrap(err, "decoding add embedding response")
	}
	res, err := doc.One()
	if err != nil {
		return student.Student{}, err
	}
	return decodeStudent(res)
}

func (repo *StudentRepository) DeleteEmbedding(ctx context.Context, courseID, classRoomID, id, imageID string) (student.Student, error) {
	path := studentsPath(courseID, classRoomID) + "/" + id + "/delete_embedding"
	body := map[string]interface{}{"image_id": imageID}
	var doc Document
	if err := repo.c.do(ctx, http.MethodPatch, path, nil, body, &doc, true); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	res, err := doc.One()
	if err != nil {
		return student.Student{}, err
	}
	return decodeStudent(res)
}
