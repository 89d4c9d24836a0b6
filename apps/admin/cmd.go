package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/presencehq/presence/core/auth"
	"github.com/presencehq/presence/core/course"
	"github.com/presencehq/presence/core/event"
	"github.com/presencehq/presence/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	authSvc    *auth.Service
	courseSvc  *course.Service
	studentSvc *student.Service
	eventSvc   *event.Service
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL - sign in; the password is prompted next")
	fmt.Fprintln(cli.out, "  logout - discard the stored session")
	fmt.Fprintln(cli.out, "  whoami - show the signed-in admin")
	fmt.Fprintln(cli.out, "  courses - list courses")
	fmt.Fprintln(cli.out, "  course -id ID - show a course with its classrooms")
	fmt.Fprintln(cli.out, "  addcourse -name NAME -periods N - create a course")
	fmt.Fprintln(cli.out, "  updatecourse -id ID [-name NAME] [-periods N] - update a course")
	fmt.Fprintln(cli.out, "  deletecourse -id ID - delete a course")
	fmt.Fprintln(cli.out, "  addclassroom -course ID -name NAME -period N - create a classroom")
	fmt.Fprintln(cli.out, "  deleteclassroom -course ID -id ID - delete a classroom")
	fmt.Fprintln(cli.out, "  students -course ID -room ID [-page N] [-perpage N] - list a classroom's students")
	fmt.Fprintln(cli.out, "  addstudent -course ID -room ID -name NAME -ra RA [-email EMAIL] - create a student")
	fmt.Fprintln(cli.out, "  importstudents -course ID -room ID -file FILE [-photos DIR] - batch create from a JSON file")
	fmt.Fprintln(cli.out, "  deletestudent -course ID -room ID -id ID - delete a student")
	fmt.Fprintln(cli.out, "  addembedding -course ID -room ID -id ID -photo FILE - add a face reference image")
	fmt.Fprintln(cli.out, "  delembedding -course ID -room ID -id ID -image ID - remove a face reference image")
	fmt.Fprintln(cli.out, "  events - list events")
	fmt.Fprintln(cli.out, "  event -id ID - show an event with its participant link")
	fmt.Fprintln(cli.out, "  addevent -name NAME -description TEXT -start TIME -end TIME -location TEXT [...] - create an event")
	fmt.Fprintln(cli.out, "  deleteevent -id ID - delete an event")
	fmt.Fprintln(cli.out, "  participants -event ID [-page N] [-perpage N] - list an event's attendance")
	fmt.Fprintln(cli.out, "  classrooms -courses ID,ID - list classrooms for the given courses")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "login":
		return cli.runLogin(args[2:])
	case "logout":
		return cli.authSvc.Logout()
	case "whoami":
		return cli.runWhoami()

	case "courses":
		return cli.runListCourses()
	case "course":
		return cli.runShowCourse(args[2:])
	case "addcourse":
		return cli.runAddCourse(args[2:])
	case "updatecourse":
		return cli.runUpdateCourse(args[2:])
	case "deletecourse":
		return cli.runDeleteCourse(args[2:])
	case "addclassroom":
		return cli.runAddClassRoom(args[2:])
	case "deleteclassroom":
		return cli.runDeleteClassRoom(args[2:])

	case "students":
		return cli.runListStudents(args[2:])
	case "addstudent":
		return cli.runAddStudent(args[2:])
	case "importstudents":
		return cli.runImportStudents(args[2:])
	case "deletestudent":
		return cli.runDeleteStudent(args[2:])
	case "addembedding":
		return cli.runAddEmbedding(args[2:])
	case "delembedding":
		return cli.runDeleteEmbedding(args[2:])

	case "events":
		return cli.runListEvents()
	case "event":
		return cli.runShowEvent(args[2:])
	case "addevent":
		return cli.runAddEvent(args[2:])
	case "deleteevent":
		return cli.runDeleteEvent(args[2:])
	case "participants":
		return cli.runListParticipants(args[2:])
	case "classrooms":
		return cli.runClassRoomsByCourses(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
