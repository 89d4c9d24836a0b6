package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/presencehq/presence/core"
	"github.com/presencehq/presence/core/capture"
	"github.com/presencehq/presence/core/event"
	"github.com/presencehq/presence/core/geo"
)

// Step is the wizard page.
type Step int

const (
	StepPhoto Step = iota + 1
	StepData
)

// Status is the submission lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusError
)

var (
	ErrNotOpen            = errors.New("wizard is not open")
	ErrNoPhoto            = errors.New("take a photo before continuing")
	ErrSubmissionInFlight = errors.New("a submission is in flight")

	// pre-submission gate violations; none of these reach the network
	ErrMissingRegistration = errors.New("inform your RA before confirming")
	ErrMissingCoordinate   = errors.New("location unavailable; allow location access")
	ErrMissingPhoto        = errors.New("take a photo before confirming")
)

const genericSubmitError = "An error occurred while confirming your presence. Try again."

// Submitter performs the presence write. Implemented by the JSON:API
// client; the wizard is the only component that reaches it.
type Submitter interface {
	ConfirmPresence(ctx context.Context, eventID string, conf event.PresenceConfirmation) error
}

type Options struct {
	// SuccessDisplay is how long the success acknowledgment stays up
	// before the wizard auto-closes and resets.
	SuccessDisplay time.Duration
	// ErrorDisplay is how long a submission error stays up before control
	// returns to the data step with all artifacts intact.
	ErrorDisplay time.Duration
}

// State is a consistent snapshot for the view layer.
type State struct {
	Open         bool
	Step         Step
	RA           string
	HasPhoto     bool
	Coordinate   *geo.Coordinate
	Status       Status
	ErrorMessage string
	CameraState  capture.State
}

// Wizard coordinates the two-step presence confirmation flow for one event.
// All mutation happens through its methods; there are no concurrent writers
// of wizard state.
type Wizard struct {
	eventID   string
	camera    *capture.Controller
	location  *geo.Acquirer
	submitter Submitter
	opts      Options
	log       core.Logger

	mu     sync.Mutex
	open   bool
	step   Step
	ra     string
	status Status
	errMsg string
	timer  *time.Timer
}

func New(eventID string, camera *capture.Controller, location *geo.Acquirer, submitter Submitter, opts Options, log core.Logger) *Wizard {
	if opts.SuccessDisplay == 0 {
		opts.SuccessDisplay = 2 * time.Second
	}
	if opts.ErrorDisplay == 0 {
		opts.ErrorDisplay = 4 * time.Second
	}
	return &Wizard{
		eventID:   eventID,
		camera:    camera,
		location:  location,
		submitter: submitter,
		opts:      opts,
		log:       log,
	}
}

// Open resets all wizard state and auto-starts the camera on the photo
// step. A camera failure leaves the wizard open: the capture area surfaces
// the failure with a retry affordance.
func (w *Wizard) Open(ctx context.Context) error {
	w.mu.Lock()
	w.resetLocked()
	w.open = true
	w.step = StepPhoto
	w.mu.Unlock()
	return w.camera.Start(ctx)
}

// Close releases everything. It is refused while a submission is in
// flight.
func (w *Wizard) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status == StatusSubmitting {
		return ErrSubmissionInFlight
	}
	w.resetLocked()
	return nil
}

// resetLocked returns every field to its initial value and releases the
// camera. Callers hold w.mu.
func (w *Wizard) resetLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.camera.Reset()
	w.location.Reset()
	w.open = false
	w.step = StepPhoto
	w.ra = ""
	w.status = StatusIdle
	w.errMsg = ""
}

func (w *Wizard) CapturePhoto(ctx context.Context) (*capture.Photo, error) {
	return w.camera.Capture(ctx)
}

func (w *Wizard) RetakePhoto(ctx context.Context) error {
	return w.camera.Retake(ctx)
}

// RetryCamera re-requests the stream after a capture failure.
func (w *Wizard) RetryCamera(ctx context.Context) error {
	return w.camera.Start(ctx)
}

// Next advances to the data step. The stream is released and, if no
// coordinate is held yet, a location request starts in the background.
func (w *Wizard) Next() error {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return ErrNotOpen
	}
	if w.camera.Photo() == nil {
		w.mu.Unlock()
		return ErrNoPhoto
	}
	w.step = StepData
	w.mu.Unlock()

	w.camera.Stop()
	if _, ok := w.location.Coordinate(); !ok {
		// one-shot, coalesced with any manual retry; no cancellation
		// contract once started
		go func() {
			if _, err := w.location.Acquire(context.Background()); err != nil {
				w.log.Warn("auto location request failed", err)
			}
		}()
	}
	return nil
}

// Back returns to the photo step, restarting the camera only when no photo
// is held.
func (w *Wizard) Back(ctx context.Context) error {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return ErrNotOpen
	}
	w.step = StepPhoto
	hasPhoto := w.camera.Photo() != nil
	w.mu.Unlock()

	if !hasPhoto {
		return w.camera.Retake(ctx)
	}
	return nil
}

// RetryLocation is the manual retry affordance; it blocks for the result.
func (w *Wizard) RetryLocation(ctx context.Context) (geo.Coordinate, error) {
	return w.location.Acquire(ctx)
}

func (w *Wizard) SetRegistrationNumber(ra string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ra = ra
}

// CanSubmit reports whether all three artifacts are present.
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	ra := strings.TrimSpace(w.ra)
	w.mu.Unlock()
	if ra == "" {
		return false
	}
	if w.camera.Photo() == nil {
		return false
	}
	_, ok := w.location.Coordinate()
	return ok
}

// Submit validates the three required artifacts locally, then issues
// exactly one multipart write. Nothing reaches the network on a gate
// violation. Submission is not idempotent: a retry after an error is a
// brand-new request.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return ErrNotOpen
	}
	if w.status == StatusSubmitting {
		w.mu.Unlock()
		return ErrSubmissionInFlight
	}
	ra := strings.TrimSpace(w.ra)
	if ra == "" {
		w.mu.Unlock()
		return ErrMissingRegistration
	}
	coord, ok := w.location.Coordinate()
	if !ok {
		w.mu.Unlock()
		return ErrMissingCoordinate
	}
	photo := w.camera.Photo()
	if photo == nil {
		w.mu.Unlock()
		return ErrMissingPhoto
	}
	w.status = StatusSubmitting
	w.mu.Unlock()

	err := w.submitter.ConfirmPresence(ctx, w.eventID, event.PresenceConfirmation{
		RA:         ra,
		Coordinate: coord,
		Photo:      photo.Data,
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.status = StatusError
		w.errMsg = submitErrorMessage(err)
		w.timer = time.AfterFunc(w.opts.ErrorDisplay, w.clearError)
		return err
	}
	w.status = StatusSuccess
	w.timer = time.AfterFunc(w.opts.SuccessDisplay, w.finishSuccess)
	return nil
}

// clearError ends the bounded error display: back to the data step, photo,
// coordinate and RA untouched.
func (w *Wizard) clearError() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status != StatusError {
		return
	}
	w.status = StatusIdle
	w.errMsg = ""
}

// finishSuccess ends the bounded success display with a full reset.
func (w *Wizard) finishSuccess() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status != StatusSuccess {
		return
	}
	w.resetLocked()
}

func submitErrorMessage(err error) string {
	var re *core.RemoteError
	if errors.As(err, &re) && re.Msg != "" {
		return re.Msg
	}
	return genericSubmitError
}

// State returns a snapshot for rendering.
func (w *Wizard) State() State {
	w.mu.Lock()
	st := State{
		Open:         w.open,
		Step:         w.step,
		RA:           w.ra,
		Status:       w.status,
		ErrorMessage: w.errMsg,
	}
	w.mu.Unlock()

	st.HasPhoto = w.camera.Photo() != nil
	st.CameraState = w.camera.State()
	if coord, ok := w.location.Coordinate(); ok {
		st.Coordinate = &coord
	}
	return st
}
