package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/presencehq/presence/core/geo"
)

func TestIPLocator_Locate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    geo.Coordinate
		wantErr error
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"status": "success", "lat": -23.5505, "lon": -46.6333}`,
			want:   geo.Coordinate{Latitude: -23.5505, Longitude: -46.6333},
		},
		{
			name:    "service reports failure",
			status:  http.StatusOK,
			body:    `{"status": "fail", "message": "private range"}`,
			wantErr: geo.ErrUnavailable,
		},
		{
			name:    "http error",
			status:  http.StatusTooManyRequests,
			body:    `slow down`,
			wantErr: geo.ErrUnavailable,
		},
		{
			name:    "garbage body",
			status:  http.StatusOK,
			body:    `<html>`,
			wantErr: geo.ErrUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			coord, err := NewIPLocator(srv.URL).Locate(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Locate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Locate() failed: %v", err)
			}
			if coord != tt.want {
				t.Errorf("Locate() = %+v, want %+v", coord, tt.want)
			}
		})
	}
}

func TestStaticLocator_Locate(t *testing.T) {
	if _, err := NewStaticLocator(0, 0).Locate(context.Background()); !errors.Is(err, geo.ErrUnavailable) {
		t.Errorf("Locate() with no position error = %v, want ErrUnavailable", err)
	}

	coord, err := NewStaticLocator(-23.5505, -46.6333).Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate() failed: %v", err)
	}
	if coord != (geo.Coordinate{Latitude: -23.5505, Longitude: -46.6333}) {
		t.Errorf("Locate() = %+v", coord)
	}
}
