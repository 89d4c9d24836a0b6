package testutil

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/presencehq/presence/core"
)

// NewConfig returns a test configuration pointed at the given backend URL.
func NewConfig(baseURL string) *core.Config {
	return &core.Config{
		Debug:    true,
		TestMode: true,
		AppName:  "Presence",
		Env:      "TEST",
		API: core.APIConfig{
			BaseURL: baseURL,
			Timeout: 5 * time.Second,
		},
	}
}

// NewLogger returns a no-op core.Logger.
func NewLogger() core.Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}

// JPEGFrame encodes a solid-color JPEG of the given size, usable wherever a
// camera frame or photo is expected.
func JPEGFrame(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("JPEGFrame() failed: %v", err)
	}
	return buf.Bytes()
}

// Backend is a scripted stand-in for the JSON:API backend. Handlers are
// keyed by "METHOD /path"; every request is recorded.
type Backend struct {
	mux      map[string]http.HandlerFunc
	Requests []*http.Request
	Bodies   [][]byte
	srv      *httptest.Server
}

func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{mux: make(map[string]http.HandlerFunc)}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := new(bytes.Buffer)
		_, _ = body.ReadFrom(r.Body)
		r.Body = http.NoBody
		b.Requests = append(b.Requests, r)
		b.Bodies = append(b.Bodies, body.Bytes())

		h, ok := b.mux[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		r.Body = http.NoBody
		restored := bytes.NewReader(body.Bytes())
		r.Body = readCloser{restored}
		h(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

type readCloser struct{ *bytes.Reader }

func (readCloser) Close() error { return nil }

func (b *Backend) URL() string { return b.srv.URL }

// Handle registers a handler for "METHOD /path".
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mux[method+" "+path] = h
}

// HandleJSON registers a handler answering with the given status and body.
func (b *Backend) HandleJSON(method, path string, status int, body interface{}) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// LastRequest returns the most recent recorded request and its body.
func (b *Backend) LastRequest(t *testing.T) (*http.Request, []byte) {
	t.Helper()
	if len(b.Requests) == 0 {
		t.Fatal("no requests recorded")
	}
	i := len(b.Requests) - 1
	return b.Requests[i], b.Bodies[i]
}
