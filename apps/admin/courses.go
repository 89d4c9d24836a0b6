package main

import (
	"context"
	"fmt"

	"github.com/presencehq/presence/core/course"
)

func (cli *commandLine) runListCourses() error {
	courses, err := cli.courseSvc.QueryAll(context.Background())
	if err != nil {
		return err
	}
	for _, c := range courses {
		fmt.Fprintf(cli.out, "%s  %s (%d periods)\n", c.ID, c.Name, c.Periods)
	}
	return nil
}

func (cli *commandLine) runShowCourse(args []string) error {
	cmd := newFlagSet("course")
	id := cmd.String("id", "", "The course id.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		cmd.Usage()
		return errHelp
	}

	c, err := cli.courseSvc.GetByID(context.Background(), *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s  %s (%d periods)\n", c.ID, c.Name, c.Periods)
	for _, room := range c.ClassRooms {
		fmt.Fprintf(cli.out, "  %s  %s (period %d)\n", room.ID, room.Name, room.Period)
	}
	return nil
}

func (cli *commandLine) runAddCourse(args []string) error {
	cmd := newFlagSet("addcourse")
	name := cmd.String("name", "", "The course name.")
	periods := cmd.Int("periods", 0, "How many periods the course spans.")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	c, err := cli.courseSvc.Create(context.Background(), course.NewCourse{Name: *name, Periods: *periods})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created course %s\n", c.ID)
	return nil
}

func (cli *commandLine) runUpdateCourse(args []string) error {
	cmd := newFlagSet("updatecourse")
	id := cmd.String("id", "", "The course id.")
	name := cmd.String("name", "", "The new course name.")
	periods := cmd.Int("periods", 0, "The new period count.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		cmd.Usage()
		return errHelp
	}

	c, err := cli.courseSvc.Update(context.Background(), *id, course.UpdateCourse{Name: *name, Periods: *periods})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Updated course %s\n", c.ID)
	return nil
}

func (cli *commandLine) runDeleteCourse(args []string) error {
	cmd := newFlagSet("deletecourse")
	id := cmd.String("id", "", "The course id.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		cmd.Usage()
		return errHelp
	}
	return cli.courseSvc.Delete(context.Background(), *id)
}

func (cli *commandLine) runAddClassRoom(args []string) error {
	cmd := newFlagSet("addclassroom")
	courseID := cmd.String("course", "", "The course id.")
	name := cmd.String("name", "", "The classroom name.")
	period := cmd.Int("period", 0, "The classroom's period.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *courseID == "" {
		cmd.Usage()
		return errHelp
	}

	room, err := cli.courseSvc.CreateClassRoom(context.Background(), *courseID, course.NewClassRoom{Name: *name, Period: *period})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created classroom %s\n", room.ID)
	return nil
}

func (cli *commandLine) runDeleteClassRoom(args []string) error {
	cmd := newFlagSet("deleteclassroom")
	courseID := cmd.String("course", "", "The course id.")
	id := cmd.String("id", "", "The classroom id.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *courseID == "" || *id == "" {
		cmd.Usage()
		return errHelp
	}
	return cli.courseSvc.DeleteClassRoom(context.Background(), *courseID, *id)
}
