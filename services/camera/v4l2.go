// Package camera opens V4L2 video devices as capture streams.
package camera

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"

	"github.com/presencehq/presence/core/capture"
)

// fourcc for Motion-JPEG; the only pixel format we stream since frames go
// straight through the JPEG pipeline.
const pixFmtMJPEG = webcam.PixelFormat(0x47504A4D)

const frameWait = 5 * time.Second

// Opener opens a fixed device path. FacingFront is advisory on V4L2; a kiosk
// exposes a single camera and the constraint only matters for resolution.
type Opener struct {
	DevicePath string
}

var _ capture.Opener = (*Opener)(nil)

func NewOpener(devicePath string) *Opener {
	return &Opener{DevicePath: devicePath}
}

func (o *Opener) Open(c capture.Constraints) (capture.Device, error) {
	cam, err := webcam.Open(o.DevicePath)
	if err != nil {
		return nil, openError(err)
	}

	if _, ok := cam.GetSupportedFormats()[pixFmtMJPEG]; !ok {
		_ = cam.Close()
		return nil, capture.ErrUnsupported
	}

	w, h := uint32(c.Width), uint32(c.Height)
	if c.Relaxed() {
		// take whatever the device offers
		sizes := cam.GetSupportedFrameSizes(pixFmtMJPEG)
		if len(sizes) == 0 {
			_ = cam.Close()
			return nil, capture.ErrUnsupported
		}
		w, h = sizes[0].MaxWidth, sizes[0].MaxHeight
	}
	_, gotW, gotH, err := cam.SetImageFormat(pixFmtMJPEG, w, h)
	if err != nil {
		_ = cam.Close()
		return nil, capture.ErrOverconstrained
	}
	if !c.Relaxed() && (gotW != w || gotH != h) {
		_ = cam.Close()
		return nil, capture.ErrOverconstrained
	}

	if err := cam.StartStreaming(); err != nil {
		_ = cam.Close()
		return nil, openError(err)
	}
	return &device{cam: cam, width: int(gotW), height: int(gotH)}, nil
}

type device struct {
	cam    *webcam.Webcam
	width  int
	height int
}

func (d *device) ReadFrame(ctx context.Context) (capture.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return capture.Frame{}, err
		}
		if err := d.cam.WaitForFrame(uint32(frameWait / time.Second)); err != nil {
			if _, timedOut := err.(*webcam.Timeout); timedOut {
				continue
			}
			return capture.Frame{}, errors.Wrap(err, "waiting for frame")
		}
		data, err := d.cam.ReadFrame()
		if err != nil {
			return capture.Frame{}, errors.Wrap(err, "reading frame")
		}
		if len(data) == 0 {
			continue
		}
		// ReadFrame reuses the buffer on the next call; hand out a copy.
		frame := make([]byte, len(data))
		copy(frame, data)
		return capture.Frame{Data: frame, Width: d.width, Height: d.height}, nil
	}
}

func (d *device) Close() error {
	_ = d.cam.StopStreaming()
	return d.cam.Close()
}

// openError maps device open failures onto the capture sentinels.
func openError(err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			return capture.ErrPermissionDenied
		case syscall.ENOENT, syscall.ENODEV, syscall.ENXIO:
			return capture.ErrDeviceNotFound
		case syscall.EBUSY:
			return capture.ErrDeviceBusy
		}
	}
	if os.IsNotExist(err) {
		return capture.ErrDeviceNotFound
	}
	if os.IsPermission(err) {
		return capture.ErrPermissionDenied
	}
	return errors.Wrap(err, "opening camera")
}
