package capture

import (
	"bytes"
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/presencehq/presence/core"
)

const jpegQuality = 80

// TransportSecure reports whether photos may be captured for the given
// backend URL: HTTPS anywhere, plain HTTP only towards localhost.
func TransportSecure(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	if u.Scheme == "https" {
		return true
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

type Options struct {
	Constraints Constraints
	// RetakeDelay lets the device free up between stream release and
	// re-acquisition on retake.
	RetakeDelay time.Duration
	// Secure gates capture on the backend transport; when false the
	// controller refuses to touch the device at all.
	Secure bool
}

// Controller owns the exclusive camera stream and produces a single still
// image. The device handle is never exposed; the view layer only sees
// mirrored preview frames through an attached Preview.
type Controller struct {
	opener Opener
	opts   Options
	log    core.Logger

	mu        sync.Mutex
	state     State
	lastErr   error
	dev       Device
	stop      chan struct{}
	frameOnce chan struct{} // closed when the first frame has arrived
	lastFrame *Frame
	photo     *Photo
	preview   Preview
}

func NewController(opener Opener, opts Options, log core.Logger) *Controller {
	return &Controller{
		opener: opener,
		opts:   opts,
		log:    log,
		state:  StateIdle,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the failure that put the controller in StateError.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Photo returns the captured still, if any.
func (c *Controller) Photo() *Photo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.photo
}

// AttachPreview registers the sink receiving mirrored preview frames.
func (c *Controller) AttachPreview(p Preview) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preview = p
}

func (c *Controller) DetachPreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preview = nil
}

// Start acquires the camera stream. On ErrOverconstrained a single fallback
// request with relaxed constraints is attempted before giving up.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateStreaming || c.state == StateRequesting {
		c.mu.Unlock()
		return nil
	}
	if !c.opts.Secure {
		// refused before any device access
		c.state = StateError
		c.lastErr = ErrInsecureTransport
		c.mu.Unlock()
		return ErrInsecureTransport
	}
	c.state = StateRequesting
	c.lastErr = nil
	c.mu.Unlock()

	dev, err := c.opener.Open(c.opts.Constraints)
	if errors.Is(err, ErrOverconstrained) && !c.opts.Constraints.Relaxed() {
		c.log.Warn("camera overconstrained, retrying with relaxed constraints")
		dev, err = c.opener.Open(Constraints{})
	}
	if err != nil {
		c.mu.Lock()
		c.state = StateError
		c.lastErr = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.dev = dev
	c.state = StateStreaming
	c.stop = make(chan struct{})
	c.frameOnce = make(chan struct{})
	c.lastFrame = nil
	go c.pump(dev, c.stop, c.frameOnce)
	c.mu.Unlock()
	return nil
}

// pump reads frames while streaming, keeping the latest one for capture and
// pushing mirrored copies to the attached preview.
func (c *Controller) pump(dev Device, stop chan struct{}, once chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	var first bool
	for {
		frame, err := dev.ReadFrame(ctx)
		if err != nil {
			select {
			case <-stop: // released, expected
			default:
				c.failStream(stop, once, err)
			}
			return
		}

		c.mu.Lock()
		f := frame
		c.lastFrame = &f
		sink := c.preview
		c.mu.Unlock()
		if !first {
			first = true
			close(once)
		}

		if sink != nil {
			if mirrored, err := mirrorFrame(frame); err == nil {
				sink.PushFrame(mirrored)
			}
		}
	}
}

// failStream handles a mid-stream read failure: the device is dropped, the
// controller moves to StateError so a retry can re-acquire the stream, and a
// capture waiting on the first frame is woken up to fail fast.
func (c *Controller) failStream(stop, once chan struct{}, err error) {
	c.log.Warn("camera stream interrupted", err)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != stop {
		// a newer stream owns the controller
		return
	}
	c.releaseLocked()
	c.state = StateError
	c.lastErr = err
	select {
	case <-once:
	default:
		close(once)
	}
}

// mirrorFrame flips a frame horizontally for the selfie preview. The
// captured photo itself is never mirrored.
func mirrorFrame(f Frame) (Frame, error) {
	img, err := imaging.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return Frame{}, errors.Wrap(err, "decoding preview frame")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.FlipH(img), imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return Frame{}, errors.Wrap(err, "encoding preview frame")
	}
	return Frame{Data: buf.Bytes(), Width: f.Width, Height: f.Height}, nil
}

// Capture encodes the current frame as the session photo and releases the
// stream as part of the transition.
func (c *Controller) Capture(ctx context.Context) (*Photo, error) {
	c.mu.Lock()
	if c.state != StateStreaming {
		c.mu.Unlock()
		return nil, ErrNotStreaming
	}
	once := c.frameOnce
	c.mu.Unlock()

	// wait for at least one frame
	select {
	case <-once:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	if c.state != StateStreaming || c.lastFrame == nil {
		// the stream failed or was released while waiting
		err := c.lastErr
		c.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return nil, ErrNotStreaming
	}
	frame := *c.lastFrame
	c.releaseLocked()
	c.mu.Unlock()

	photo, err := encodePhoto(frame)
	if err != nil {
		c.mu.Lock()
		c.state = StateError
		c.lastErr = err
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.photo = photo
	c.state = StateCaptured
	c.mu.Unlock()
	return photo, nil
}

// encodePhoto re-encodes a frame as JPEG at fixed quality, at the stream's
// native resolution and in the camera's natural orientation.
func encodePhoto(f Frame) (*Photo, error) {
	img, err := imaging.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, errors.Wrap(err, "decoding captured frame")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, errors.Wrap(err, "encoding photo")
	}
	bounds := img.Bounds()
	return &Photo{
		Data:    buf.Bytes(),
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		TakenAt: time.Now().UTC(),
	}, nil
}

// Retake discards the captured photo and restarts the stream. The old
// stream is drained first, with a short delay to let the device free up.
func (c *Controller) Retake(ctx context.Context) error {
	c.mu.Lock()
	c.releaseLocked()
	c.photo = nil
	c.lastErr = nil
	c.state = StateIdle
	delay := c.opts.RetakeDelay
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.Start(ctx)
}

// Stop releases the stream unconditionally and returns to StateIdle. The
// captured photo, if any, is kept.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked()
	if c.state != StateCaptured {
		c.state = StateIdle
	}
}

// Reset releases everything, including the captured photo.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked()
	c.photo = nil
	c.lastErr = nil
	c.state = StateIdle
}

// releaseLocked closes the device and stops the pump. Callers hold c.mu.
func (c *Controller) releaseLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	if c.dev != nil {
		if err := c.dev.Close(); err != nil {
			c.log.Warn("releasing camera device", err)
		}
		c.dev = nil
	}
	c.lastFrame = nil
	c.frameOnce = nil
}
