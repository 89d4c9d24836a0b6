package core

import "testing"

func Test_raValidation(t *testing.T) {
	type obj struct {
		RA string `json:"ra" validate:"required,ra"`
	}

	tests := []struct {
		name    string
		ra      string
		wantErr string
	}{
		{name: "digits only", ra: "241403"},
		{name: "digits with suffix", ra: "241403-1"},
		{name: "single digit", ra: "1"},
		{name: "empty", ra: "", wantErr: "this field is required"},
		{name: "letters", ra: "abc123", wantErr: raText},
		{name: "dangling dash", ra: "241403-", wantErr: raText},
		{name: "double suffix", ra: "241403-1-2", wantErr: raText},
		{name: "leading dash", ra: "-241403", wantErr: raText},
		{name: "spaces", ra: "241 403", wantErr: raText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStruct(obj{RA: tt.ra})
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("CheckStruct() unexpected error = %v", err)
				}
				return
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("CheckStruct() error = %v, want *ValidationError", err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0].Error != tt.wantErr {
				t.Errorf("CheckStruct() fields = %+v, want one %q", vErr.Fields, tt.wantErr)
			}
		})
	}
}
