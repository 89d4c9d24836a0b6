package event

import (
	"testing"
	"time"

	"github.com/presencehq/presence/core"
)

func TestLocation_Format(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{
			name: "all display fields",
			loc:  Location{Amenity: "Campus Hall", Road: "University Ave", Town: "Springfield", State: "SP"},
			want: "Campus Hall, University Ave, Springfield, SP",
		},
		{
			name: "amenity only",
			loc:  Location{Amenity: "Campus Hall"},
			want: "Campus Hall",
		},
		{
			name: "road and state",
			loc:  Location{Road: "University Ave", State: "SP"},
			want: "University Ave, SP",
		},
		{
			name: "only non-display fields set",
			loc:  Location{Postcode: "01000-000", Country: "Brazil", CountryCode: "br", Municipality: "Springfield"},
			want: LocationFallback,
		},
		{
			name: "empty",
			loc:  Location{},
			want: LocationFallback,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewEvent_validation(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	valid := NewEvent{
		Name:        "Welcome Lecture",
		Description: "Opening lecture of the semester",
		Start:       start,
		End:         start.Add(2 * time.Hour),
		Location:    "Campus Hall, University Ave",
	}

	tests := []struct {
		name    string
		mutate  func(ne *NewEvent)
		wantErr bool
	}{
		{name: "valid", mutate: func(ne *NewEvent) {}},
		{name: "short name", mutate: func(ne *NewEvent) { ne.Name = "ab" }, wantErr: true},
		{name: "short description", mutate: func(ne *NewEvent) { ne.Description = "short" }, wantErr: true},
		{name: "end before start", mutate: func(ne *NewEvent) { ne.End = start.Add(-time.Hour) }, wantErr: true},
		{name: "end equals start", mutate: func(ne *NewEvent) { ne.End = start }, wantErr: true},
		{name: "missing location", mutate: func(ne *NewEvent) { ne.Location = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ne := valid
			tt.mutate(&ne)
			err := core.CheckStruct(ne)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
