package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/trezcool/classroom/apps/api/echo"
	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/attendance"
	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/homework"
	"github.com/trezcool/classroom/core/roster"
	"github.com/trezcool/classroom/core/student"
	logsvc "github.com/trezcool/classroom/services/logger"
	"github.com/trezcool/classroom/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	ctx := context.Background()
	db, err := setUpDB(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(context.Background()); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()
	repos := db.Repositories()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q, database %q", conf.Build, db.Engine))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()

	// set up stores & services
	groups := group.NewStore(repos.Groups, validate)
	events := calendar.NewStore(repos.Events, groups, validate, logger)
	students := student.NewService(repos.Students, groups, validate)
	hws := homework.NewService(repos.Homework, groups, validate)
	att := attendance.NewService(repos.Attendance, groups, students, validate)

	// set up the roster: every store change resyncs the view
	binder := roster.NewBinder(roster.StoreSource{Groups: groups, Events: events}, logger)
	groups.Subscribe(binder.Request)
	events.Subscribe(binder.Request)

	modals := roster.NewModalSet()
	messages := new(roster.Messages)
	forms := roster.NewFormController(
		roster.Services{Groups: groups, Events: events, Students: students, Homework: hws, Attendance: att},
		binder, modals, messages, translator,
	)
	widgets := []*roster.Widget{
		binder.Widget(roster.MainCalendar, events),
		binder.Widget(roster.MiniCalendar, events),
	}

	// initial load: events first, then a full resync
	if _, err = events.LoadRemote(ctx); err != nil {
		logger.Warn("initial events load failed; starting with no events", err)
	}
	if err = binder.Refresh(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("initial resync: %v", err), err)
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Translator: translator,
			Groups:     groups,
			Events:     events,
			Students:   students,
			Homework:   hws,
			Attendance: att,
			Binder:     binder,
			Forms:      forms,
			Modals:     modals,
			Messages:   messages,
			Widgets:    widgets,
		},
	)

	go func() {
		logger.Info(fmt.Sprintf("Server started on %s", conf.Server.Address()))
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(ctx context.Context, conf *core.Config) (*database.DB, error) {
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, conf)
	if err != nil {
		return nil, err
	}

	if sqlDB := db.SQL(); sqlDB != nil {
		if err = database.Migrate(ctx, sqlDB); err != nil {
			_ = db.Close(ctx)
			return nil, err
		}
	}
	return db, nil
}
