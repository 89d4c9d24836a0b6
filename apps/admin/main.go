package main

import (
	"log"
	"os"

	"github.com/presencehq/presence/core"
	"github.com/presencehq/presence/core/auth"
	"github.com/presencehq/presence/core/course"
	"github.com/presencehq/presence/core/event"
	"github.com/presencehq/presence/core/student"
	logsvc "github.com/presencehq/presence/services/logger"
	"github.com/presencehq/presence/storage/jsonapi"
	"github.com/presencehq/presence/storage/session"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.LoadConfig()
	errAndDie(err)

	var appLogger core.Logger
	if conf.Rollbar.Token != "" && !conf.Debug {
		appLogger = logsvc.NewRollbarLogger(logger, conf)
	} else {
		appLogger = logsvc.NewConsoleLogger(logger)
	}

	store := session.NewFileStore(conf.SessionFile)

	// the client reads the persisted token per request so a login in the
	// same process takes effect immediately
	client := jsonapi.NewClient(conf, func() string {
		sess, err := store.Load()
		if err != nil {
			return ""
		}
		return sess.Token
	}, appLogger)

	// start CLI
	cli := commandLine{
		authSvc:    auth.NewService(jsonapi.NewAuthRepository(client), store),
		courseSvc:  course.NewService(jsonapi.NewCourseRepository(client)),
		studentSvc: student.NewService(jsonapi.NewStudentRepository(client)),
		eventSvc:   event.NewService(jsonapi.NewEventRepository(client), jsonapi.NewParticipantRepository(client)),
		out:        os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
