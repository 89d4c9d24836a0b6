package main

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/presencehq/presence/core/auth"
	"github.com/presencehq/presence/core/course"
	"github.com/presencehq/presence/core/event"
	"github.com/presencehq/presence/core/student"
	"github.com/presencehq/presence/storage/jsonapi"
	"github.com/presencehq/presence/storage/session"
	testutil "github.com/presencehq/presence/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.Backend, *bytes.Buffer) {
	t.Helper()
	backend := testutil.NewBackend(t)
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session"))

	client := jsonapi.NewClient(testutil.NewConfig(backend.URL()), func() string {
		sess, err := store.Load()
		if err != nil {
			return ""
		}
		return sess.Token
	}, testutil.NewLogger())

	out := new(bytes.Buffer)
	cli := &commandLine{
		authSvc:    auth.NewService(jsonapi.NewAuthRepository(client), store),
		courseSvc:  course.NewService(jsonapi.NewCourseRepository(client)),
		studentSvc: student.NewService(jsonapi.NewStudentRepository(client)),
		eventSvc:   event.NewService(jsonapi.NewEventRepository(client), jsonapi.NewParticipantRepository(client)),
		out:        out,
	}
	return cli, backend, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
	extra      interface{}
}

func Test_commandLine_login(t *testing.T) {
	cli, backend, out := setup(t)

	backend.Handle(http.MethodPost, "/users/sign_in", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer tok-123")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"7","type":"user","attributes":{"name":"Admin","email":"admin@test.edu"}}}`))
	})

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no email", args: []string{"login"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"login", "-email", "admin@test.edu"}, wantErr: errHelp},
		{name: "login", args: []string{"login", "-email", "admin@test.edu"}, extra: extra{pwd: "s3cret"},
			wantOut: "Signed in as Admin <admin@test.edu>"},
		{name: "whoami", args: []string{"whoami"}, wantOut: "Admin <admin@test.edu>"},
		{name: "logout", args: []string{"logout"}},
		{name: "whoami after logout", args: []string{"whoami"}, wantErr: auth.ErrNotAuthenticated},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("cli.run() output = %q, want it to contain %q", out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_courses(t *testing.T) {
	cli, backend, out := setup(t)

	backend.Handle(http.MethodGet, "/admin/courses", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"c-1","type":"course","attributes":{"name":"Computer Science","periods":8}}]}`))
	})
	backend.Handle(http.MethodPost, "/admin/courses", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"c-2","type":"course","attributes":{"name":"Engineering","periods":10}}}`))
	})

	tests := []cliTest{
		{name: "list", args: []string{"courses"}, wantOut: "c-1  Computer Science (8 periods)"},
		{name: "show without id", args: []string{"course"}, wantErr: errHelp},
		{name: "create", args: []string{"addcourse", "-name", "Engineering", "-periods", "10"}, wantOut: "Created course c-2"},
		{name: "create: short name", args: []string{"addcourse", "-name", "ab", "-periods", "10"}, wantErrStr: "invalid input"},
		{name: "create: no periods", args: []string{"addcourse", "-name", "Engineering"}, wantErrStr: "invalid input"},
		{name: "delete without id", args: []string{"deletecourse"}, wantErr: errHelp},
		{name: "classroom without course", args: []string{"addclassroom", "-name", "CS-2026A", "-period", "1"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			default:
				if err != nil {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("cli.run() output = %q, want it to contain %q", out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_events(t *testing.T) {
	cli, backend, out := setup(t)

	backend.Handle(http.MethodPost, "/admin/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"evt-1","type":"event","attributes":{"name":"Welcome Lecture"}}}`))
	})
	backend.Handle(http.MethodGet, "/admin/events/evt-1/participants", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"p-1","type":"participant","attributes":{"present":true,"student_name":"Ada","student_ra":"241403","location":"Springfield"}}]}`))
	})

	createArgs := []string{
		"addevent",
		"-name", "Welcome Lecture",
		"-description", "Opening lecture of the semester",
		"-start", "2026-09-01 09:00",
		"-end", "2026-09-01 11:00",
		"-location", "Campus Hall, University Ave",
		"-courses", "c-1",
		"-rooms", "r-1,r-2",
	}
	badTime := append([]string{}, createArgs...)
	badTime[8] = "eleven-ish"

	tests := []cliTest{
		{name: "create", args: createArgs, wantOut: "Created event evt-1"},
		{name: "create: bad time", args: badTime, wantErrStr: "parsing -end"},
		{name: "participants without event", args: []string{"participants"}, wantErr: errHelp},
		{name: "participants", args: []string{"participants", "-event", "evt-1"},
			wantOut: "[x] Ada  RA 241403  Springfield"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			default:
				if err != nil {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("cli.run() output = %q, want it to contain %q", out.String(), tt.wantOut)
			}
		})
	}
}
