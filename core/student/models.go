package student

import "errors"

var ErrNotFound = errors.New("student not found")

type EmbeddingImage struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
}

type Student struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RA          string `json:"ra"`
	Email       string `json:"email,omitempty"`
	ClassRoomID string `json:"class_room_id,omitempty"`

	// EmbeddingImages are the reference photos held by the backend's face
	// matcher; the matching itself is entirely backend-side.
	EmbeddingImages []EmbeddingImage `json:"embedding_images,omitempty"`
}

type NewStudent struct {
	Name  string `json:"name" validate:"required,min=3"`
	RA    string `json:"ra" validate:"required,ra"`
	Email string `json:"email" validate:"omitempty,email"`
}

type UpdateStudent struct {
	Name  string `json:"name" validate:"omitempty,min=3"`
	RA    string `json:"ra" validate:"omitempty,ra"`
	Email string `json:"email" validate:"omitempty,email"`
}

// Photo is a reference image uploaded alongside a batch of new students.
type Photo struct {
	Name string
	Data []byte
}
