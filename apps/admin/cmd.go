package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/student"
)

var (
	errHelp      = errors.New("help provided")
	errNoSQLDB   = errors.New("migrations need the postgres engine")
	errEphemeral = errors.New("groups written to the memory engine are not seen by the server, use mongodb or postgres")
)

type commandLine struct {
	db        *sql.DB // nil unless the engine is postgres
	ephemeral bool    // memory engine: the groups live in this process only
	groups   *group.Store
	students *student.Service
	events   *calendar.Store // backed by the remote calendar-events API
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                             - run database migrations (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  seed                                               - add demo groups, students and events")
	fmt.Fprintln(cli.out, "  addgroup -name NAME [-description D] [-color HEX]  - add a group")
	fmt.Fprintln(cli.out, "  events list                                        - list the remote calendar events")
	fmt.Fprintln(cli.out, "  events add -title T -start S -end E [-groups 1,2]  - add calendar events (one per group)")
	fmt.Fprintln(cli.out, "seed, addgroup and events add -groups need the server's database (mongodb or postgres engine).")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	addGroupCmd := flag.NewFlagSet("addgroup", flag.ContinueOnError)
	addGroupCmd.SetOutput(cli.out)
	addGroupName := addGroupCmd.String("name", "", "The group's name.")
	addGroupDesc := addGroupCmd.String("description", "", "The group's description.")
	addGroupColor := addGroupCmd.String("color", "", "The group's color (eg. #4361ee).")

	addEventCmd := flag.NewFlagSet("events add", flag.ContinueOnError)
	addEventCmd.SetOutput(cli.out)
	addEventTitle := addEventCmd.String("title", "", "The event's title.")
	addEventDesc := addEventCmd.String("description", "", "The event's description.")
	addEventStart := addEventCmd.String("start", "", "Start date (2006-01-02 or 2006-01-02T15:04).")
	addEventEnd := addEventCmd.String("end", "", "End date (2006-01-02 or 2006-01-02T15:04).")
	addEventGroups := addEventCmd.String("groups", "", "Comma separated group ids.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])

	case "seed":
		if cli.ephemeral {
			return errEphemeral
		}
		return cli.seed(ctx)

	case "addgroup":
		if cli.ephemeral {
			return errEphemeral
		}
		if err := addGroupCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addGroupName == "" {
			addGroupCmd.Usage()
			return errHelp
		}
		return cli.addGroup(ctx, group.NewGroup{Name: *addGroupName, Description: *addGroupDesc, Color: *addGroupColor})

	case "events":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		switch args[2] {
		case "list":
			return cli.listEvents(ctx)
		case "add":
			if err := addEventCmd.Parse(args[3:]); err != nil {
				return err
			}
			if *addEventTitle == "" || *addEventStart == "" || *addEventEnd == "" {
				addEventCmd.Usage()
				return errHelp
			}
			var groupIDs []string
			if *addEventGroups != "" {
				if cli.ephemeral {
					return errEphemeral
				}
				groupIDs = strings.Split(*addEventGroups, ",")
			}
			return cli.addEvents(ctx, calendar.NewEvent{
				Title:       *addEventTitle,
				Description: *addEventDesc,
				Start:       *addEventStart,
				End:         *addEventEnd,
				GroupIDs:    groupIDs,
				CreatedBy:   "admin",
			})
		default:
			cli.printUsage()
			return errHelp
		}

	default:
		cli.printUsage()
		return errHelp
	}
}
