package student

import (
	"context"
	"testing"

	"github.com/presencehq/presence/core"
)

type repoMock struct {
	Repository
	created []NewStudent
	photos  []Photo
}

func (m *repoMock) CreateStudents(ctx context.Context, courseID, classRoomID string, batch []NewStudent, photos []Photo) ([]Student, error) {
	m.created = batch
	m.photos = photos
	out := make([]Student, len(batch))
	for i, ns := range batch {
		out[i] = Student{ID: "s", Name: ns.Name, RA: ns.RA, Email: ns.Email}
	}
	return out, nil
}

func TestService_CreateBatch(t *testing.T) {
	tests := []struct {
		name    string
		batch   []NewStudent
		wantErr string
	}{
		{
			name:    "empty batch",
			wantErr: "add at least one student",
		},
		{
			name:    "bad ra",
			batch:   []NewStudent{{Name: "Ada", RA: "abc"}},
			wantErr: "invalid input",
		},
		{
			name:    "bad email",
			batch:   []NewStudent{{Name: "Ada", RA: "241403", Email: "nope"}},
			wantErr: "invalid input",
		},
		{
			name:  "valid",
			batch: []NewStudent{{Name: " Ada ", RA: "241403-1"}, {Name: "Grace", RA: "241404", Email: "GRACE@Test.edu "}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMock)
			svc := NewService(repo)

			students, err := svc.CreateBatch(context.Background(), "c-1", "r-1", tt.batch, nil)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Errorf("CreateBatch() error = %v, want %s", err, tt.wantErr)
				}
				if _, ok := err.(*core.ValidationError); !ok {
					t.Errorf("CreateBatch() error type = %T, want *core.ValidationError", err)
				}
				if repo.created != nil {
					t.Error("repository reached on a validation failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBatch() failed: %v", err)
			}
			if len(students) != len(tt.batch) {
				t.Errorf("got %d students, want %d", len(students), len(tt.batch))
			}
			// inputs are cleaned before hitting the repository
			if repo.created[0].Name != "Ada" {
				t.Errorf("created[0].Name = %q, want trimmed", repo.created[0].Name)
			}
			if repo.created[1].Email != "grace@test.edu" {
				t.Errorf("created[1].Email = %q, want lowercased", repo.created[1].Email)
			}
		})
	}
}
