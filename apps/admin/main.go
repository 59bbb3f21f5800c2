package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/student"
	"github.com/trezcool/classroom/services/calendarapi"
	logsvc "github.com/trezcool/classroom/services/logger"
	"github.com/trezcool/classroom/storage/database"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()
	ctx := context.Background()

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)

	// set up DB
	errAndDie(database.CreateIfNotExist(ctx, conf))
	db, err := database.Open(ctx, conf)
	errAndDie(err)
	repos := db.Repositories()

	// set up stores; events go through the running server, groups come from the database it shares
	validate, _ := core.NewValidator()
	groups := group.NewStore(repos.Groups, validate)
	events := calendar.NewStore(calendarapi.NewClient(conf.Calendar), groups, validate, appLogger)

	// start CLI
	cli := commandLine{
		db:        db.SQL(),
		ephemeral: conf.Database.Engine == core.EngineMemory,
		groups:    groups,
		students:  student.NewService(repos.Students, groups, validate),
		events:    events,
		out:       os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close(ctx)
	appLogger.Close()
	if err != nil {
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
