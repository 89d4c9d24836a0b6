package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/presencehq/presence/core"
	"github.com/presencehq/presence/core/capture"
	"github.com/presencehq/presence/core/event"
	"github.com/presencehq/presence/core/geo"
	"github.com/presencehq/presence/core/wizard"
	"github.com/presencehq/presence/services/camera"
	"github.com/presencehq/presence/services/location"
	logsvc "github.com/presencehq/presence/services/logger"
	"github.com/presencehq/presence/storage/jsonapi"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "KIOSK : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	if len(os.Args) < 2 {
		fmt.Println("Usage: kiosk EVENT_ID")
		os.Exit(1)
	}
	eventID := os.Args[1]

	conf, err := core.LoadConfig()
	errAndDie(err)

	var appLogger core.Logger
	if conf.Rollbar.Token != "" && !conf.Debug {
		appLogger = logsvc.NewRollbarLogger(logger, conf)
	} else {
		appLogger = logsvc.NewConsoleLogger(logger)
	}

	// public client; the kiosk never authenticates
	client := jsonapi.NewClient(conf, nil, appLogger)
	participants := jsonapi.NewParticipantRepository(client)
	evtSvc := event.NewService(nil, participants)

	ctx := context.Background()
	evt, err := evtSvc.LoadPublic(ctx, eventID)
	errAndDie(err)

	controller := capture.NewController(
		camera.NewOpener(conf.Kiosk.DevicePath),
		capture.Options{
			Constraints: capture.Constraints{
				Width:       conf.Kiosk.FrameWidth,
				Height:      conf.Kiosk.FrameHeight,
				FacingFront: true,
			},
			RetakeDelay: conf.Kiosk.RetakeDelay,
			Secure:      capture.TransportSecure(conf.API.BaseURL),
		},
		appLogger,
	)

	var locator geo.Locator
	switch conf.Kiosk.Locator {
	case "ip":
		locator = location.NewIPLocator("")
	default:
		locator = location.NewStaticLocator(conf.Kiosk.Latitude, conf.Kiosk.Longitude)
	}
	acquirer := geo.NewAcquirer(locator, appLogger)

	wiz := wizard.New(eventID, controller, acquirer, participants, wizard.Options{
		SuccessDisplay: conf.Kiosk.SuccessDisplay,
		ErrorDisplay:   conf.Kiosk.ErrorDisplay,
	}, appLogger)

	flow := &kioskFlow{
		evt:    evt,
		wizard: wiz,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	if err := flow.run(ctx); err != nil {
		logger.Printf("\nerror: %s\n", err)
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
