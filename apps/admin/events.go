package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/presencehq/presence/core"
	"github.com/presencehq/presence/core/event"
)

const eventTimeLayout = "2006-01-02 15:04"

func (cli *commandLine) runListEvents() error {
	events, err := cli.eventSvc.QueryAll(context.Background())
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Fprintf(cli.out, "%s  %s  %s - %s\n",
			ev.ID, ev.Name,
			ev.Start.Local().Format(eventTimeLayout),
			ev.End.Local().Format(eventTimeLayout))
	}
	return nil
}

func (cli *commandLine) runShowEvent(args []string) error {
	cmd := newFlagSet("event")
	id := cmd.String("id", "", "The event id.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		cmd.Usage()
		return errHelp
	}

	ev, err := cli.eventSvc.GetByID(context.Background(), *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s  %s\n", ev.ID, ev.Name)
	fmt.Fprintf(cli.out, "%s\n", ev.Description)
	fmt.Fprintf(cli.out, "Starts: %s\n", ev.Start.Local().Format(eventTimeLayout))
	fmt.Fprintf(cli.out, "Ends:   %s\n", ev.End.Local().Format(eventTimeLayout))
	fmt.Fprintf(cli.out, "Where:  %s\n", ev.Location.Format())
	fmt.Fprintf(cli.out, "Location optional: %v, face auth: %v\n", ev.LocationOptional, ev.FaceAuth)
	for _, c := range ev.Courses {
		fmt.Fprintf(cli.out, "Course: %s  %s\n", c.ID, c.Name)
	}
	for _, room := range ev.ClassRooms {
		fmt.Fprintf(cli.out, "Classroom: %s  %s\n", room.ID, room.Name)
	}
	if ev.PresenceURL != "" {
		fmt.Fprintf(cli.out, "Participant link: %s\n", ev.PresenceURL)
	}
	return nil
}

func (cli *commandLine) runAddEvent(args []string) error {
	cmd := newFlagSet("addevent")
	name := cmd.String("name", "", "The event name.")
	description := cmd.String("description", "", "The event description.")
	start := cmd.String("start", "", "Start time, format \"2006-01-02 15:04\" (local).")
	end := cmd.String("end", "", "End time, format \"2006-01-02 15:04\" (local).")
	loc := cmd.String("location", "", "The event address; the backend geocodes it.")
	locationOptional := cmd.Bool("location-optional", false, "Skip geofence validation on confirmation.")
	faceAuth := cmd.Bool("face-auth", false, "Require face matching on confirmation.")
	courses := cmd.String("courses", "", "Comma-separated course ids.")
	rooms := cmd.String("rooms", "", "Comma-separated classroom ids.")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	startAt, err := time.ParseInLocation(eventTimeLayout, *start, time.Local)
	if err != nil {
		return errors.Wrap(err, "parsing -start")
	}
	endAt, err := time.ParseInLocation(eventTimeLayout, *end, time.Local)
	if err != nil {
		return errors.Wrap(err, "parsing -end")
	}

	ev, err := cli.eventSvc.Create(context.Background(), event.NewEvent{
		Name:             *name,
		Description:      *description,
		Start:            startAt,
		End:              endAt,
		Location:         *loc,
		LocationOptional: *locationOptional,
		FaceAuth:         *faceAuth,
		CourseIDs:        splitIDs(*courses),
		ClassRoomIDs:     splitIDs(*rooms),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created event %s\n", ev.ID)
	return nil
}

func (cli *commandLine) runDeleteEvent(args []string) error {
	cmd := newFlagSet("deleteevent")
	id := cmd.String("id", "", "The event id.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		cmd.Usage()
		return errHelp
	}
	return cli.eventSvc.Delete(context.Background(), *id)
}

func (cli *commandLine) runListParticipants(args []string) error {
	cmd := newFlagSet("participants")
	eventID := cmd.String("event", "", "The event id.")
	page := cmd.Int("page", 0, "The page to list.")
	perPage := cmd.Int("perpage", 0, "How many participants per page.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *eventID == "" {
		cmd.Usage()
		return errHelp
	}

	participants, err := cli.eventSvc.FilterParticipants(context.Background(), *eventID, core.PageFilter{Page: *page, PerPage: *perPage})
	if err != nil {
		return err
	}
	for _, p := range participants {
		mark := " "
		if p.Present {
			mark = "x"
		}
		fmt.Fprintf(cli.out, "[%s] %s  RA %s  %s\n", mark, p.StudentName, p.StudentRA, p.Location)
	}
	return nil
}

func (cli *commandLine) runClassRoomsByCourses(args []string) error {
	cmd := newFlagSet("classrooms")
	courses := cmd.String("courses", "", "Comma-separated course ids.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	courseIDs := splitIDs(*courses)
	if len(courseIDs) == 0 {
		cmd.Usage()
		return errHelp
	}

	rooms, err := cli.eventSvc.ClassRoomsByCourses(context.Background(), courseIDs)
	if err != nil {
		return err
	}
	for _, room := range rooms {
		fmt.Fprintf(cli.out, "%s  %s (period %d, course %s)\n", room.ID, room.Name, room.Period, room.CourseID)
	}
	return nil
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
