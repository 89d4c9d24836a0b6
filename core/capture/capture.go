package capture

import (
	"context"
	"errors"
	"time"
)

// State is the camera stream lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateStreaming
	StateCaptured
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateStreaming:
		return "streaming"
	case StateCaptured:
		return "captured"
	case StateError:
		return "error"
	}
	return "unknown"
}

var (
	ErrPermissionDenied  = errors.New("camera permission denied")
	ErrDeviceNotFound    = errors.New("no camera device found")
	ErrDeviceBusy        = errors.New("camera device is busy")
	ErrOverconstrained   = errors.New("camera does not support the requested settings")
	ErrInsecureTransport = errors.New("camera capture requires a secure backend connection")
	ErrUnsupported       = errors.New("camera capture is not supported on this device")

	ErrNotStreaming = errors.New("camera is not streaming")
)

// Message maps a capture failure to an actionable user-facing sentence.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Camera permission denied. Grant this application access to the camera and try again."
	case errors.Is(err, ErrDeviceNotFound):
		return "No camera found. Check that a camera is connected."
	case errors.Is(err, ErrDeviceBusy):
		return "The camera is being used by another application. Close other applications using the camera."
	case errors.Is(err, ErrInsecureTransport):
		return "Camera capture requires a secure (HTTPS or localhost) backend connection."
	case errors.Is(err, ErrUnsupported):
		return "Camera capture is not supported on this device."
	default:
		return "Could not access the camera."
	}
}

// Constraints describe the preferred stream settings. The zero value asks
// for any available video input.
type Constraints struct {
	Width       int
	Height      int
	FacingFront bool
}

func (c Constraints) Relaxed() bool { return c == Constraints{} }

// Frame is a single JPEG-encoded video frame.
type Frame struct {
	Data   []byte
	Width  int
	Height int
}

// Device is an open camera stream. ReadFrame blocks until the next frame is
// available or ctx is done.
type Device interface {
	ReadFrame(ctx context.Context) (Frame, error)
	Close() error
}

// Opener acquires a camera stream. It reports failures using the package
// sentinel errors so the controller can run its fallback and messaging.
type Opener interface {
	Open(c Constraints) (Device, error)
}

// Photo is a captured still, held in memory only for the wizard session.
type Photo struct {
	Data    []byte
	Width   int
	Height  int
	TakenAt time.Time
}

// Preview receives mirrored frames for display while streaming.
type Preview interface {
	PushFrame(f Frame)
}
