package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/presencehq/presence/core/capture"
	"github.com/presencehq/presence/core/event"
	"github.com/presencehq/presence/core/geo"
	"github.com/presencehq/presence/core/wizard"
)

// kioskFlow drives the two-step confirmation wizard from a terminal, one
// prompt per step affordance.
type kioskFlow struct {
	evt    event.PublicEvent
	wizard *wizard.Wizard
	in     io.Reader
	out    io.Writer
}

func (f *kioskFlow) run(ctx context.Context) error {
	f.printEvent()

	if err := f.wizard.Open(ctx); err != nil {
		// the wizard stays open; surface the failure with the retry hint
		f.printf("%s\n", capture.Message(err))
	}

	scanner := bufio.NewScanner(f.in)
	for {
		st := f.wizard.State()
		if !st.Open {
			// a success display ran out and the wizard reset itself
			f.printf("Presence confirmed. Thank you!\n")
			return nil
		}
		f.printPrompt(st)

		if !scanner.Scan() {
			return f.wizard.Close()
		}
		line := strings.TrimSpace(scanner.Text())

		switch st.Step {
		case wizard.StepPhoto:
			if err := f.photoStep(ctx, line); err != nil {
				if err == errQuit {
					return f.wizard.Close()
				}
				f.printf("%s\n", err)
			}
		case wizard.StepData:
			done, err := f.dataStep(ctx, line)
			if err != nil {
				if err == errQuit {
					return f.wizard.Close()
				}
				f.printf("%s\n", err)
			}
			if done {
				return nil
			}
		}
	}
}

var errQuit = fmt.Errorf("quit")

func (f *kioskFlow) photoStep(ctx context.Context, cmd string) error {
	switch cmd {
	case "c", "capture":
		if _, err := f.wizard.CapturePhoto(ctx); err != nil {
			return fmt.Errorf("%s", capture.Message(err))
		}
		f.printf("Photo captured.\n")
		return nil
	case "r", "retake":
		return f.wizard.RetakePhoto(ctx)
	case "t", "retry":
		if err := f.wizard.RetryCamera(ctx); err != nil {
			return fmt.Errorf("%s", capture.Message(err))
		}
		return nil
	case "n", "next":
		return f.wizard.Next()
	case "q", "quit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (f *kioskFlow) dataStep(ctx context.Context, cmd string) (bool, error) {
	switch cmd {
	case "l", "location":
		if _, err := f.wizard.RetryLocation(ctx); err != nil {
			return false, fmt.Errorf("%s", geo.Message(err))
		}
		f.printf("Location acquired.\n")
		return false, nil
	case "b", "back":
		return false, f.wizard.Back(ctx)
	case "s", "submit":
		if err := f.wizard.Submit(ctx); err != nil {
			// the wizard holds the bounded error display; show its message
			if st := f.wizard.State(); st.ErrorMessage != "" {
				return false, fmt.Errorf("%s", st.ErrorMessage)
			}
			return false, err
		}
		f.printf("Presence confirmed. Thank you!\n")
		f.waitForReset()
		return true, nil
	case "q", "quit":
		return false, errQuit
	default:
		if cmd == "" {
			return false, nil
		}
		f.wizard.SetRegistrationNumber(cmd)
		return false, nil
	}
}

// waitForReset lets the success display run its course so the wizard ends in
// its initial state.
func (f *kioskFlow) waitForReset() {
	for f.wizard.State().Open {
		time.Sleep(50 * time.Millisecond)
	}
}

func (f *kioskFlow) printEvent() {
	f.printf("%s\n", f.evt.Name)
	f.printf("%s\n", f.evt.Description)
	f.printf("Starts: %s\n", f.evt.Start.Local().Format("02/01/2006 15:04"))
	f.printf("Ends:   %s\n", f.evt.End.Local().Format("02/01/2006 15:04"))
	f.printf("Where:  %s\n", f.evt.Location.Format())
	if f.evt.LocationValidation {
		f.printf("Location validation: enabled\n")
	} else {
		f.printf("Location validation: disabled\n")
	}
	f.printf("\n")
}

func (f *kioskFlow) printPrompt(st wizard.State) {
	switch st.Step {
	case wizard.StepPhoto:
		f.printf("[photo] camera=%s photo=%v  (c)apture (r)etake re(t)ry (n)ext (q)uit > ", st.CameraState, st.HasPhoto)
	case wizard.StepData:
		coord := "pending"
		if st.Coordinate != nil {
			coord = fmt.Sprintf("%.5f,%.5f", st.Coordinate.Latitude, st.Coordinate.Longitude)
		}
		f.printf("[data] ra=%q location=%s  type RA, (l)ocation (b)ack (s)ubmit (q)uit > ", st.RA, coord)
	}
}

func (f *kioskFlow) printf(format string, args ...interface{}) {
	fmt.Fprintf(f.out, format, args...)
}
