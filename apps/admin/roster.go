package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/student"
)

func (cli *commandLine) addGroup(ctx context.Context, ng group.NewGroup) error {
	grp, err := cli.groups.Create(ctx, ng)
	if err != nil {
		return errors.Wrap(err, "creating group")
	}
	fmt.Fprintf(cli.out, "group %s %q (%s) created\n", grp.ID, grp.Name, grp.Color)
	return nil
}

func (cli *commandLine) listEvents(ctx context.Context) error {
	events, err := cli.events.LoadRemote(ctx)
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Fprintf(cli.out, "%s\t%s\t%s\t%s\n", ev.ID, ev.Start.Format("2006-01-02 15:04"), ev.BackgroundColor, ev.Title)
	}
	return nil
}

func (cli *commandLine) addEvents(ctx context.Context, ne calendar.NewEvent) error {
	events, err := cli.events.Create(ctx, ne)
	if err != nil {
		return errors.Wrap(err, "creating events")
	}
	for _, ev := range events {
		fmt.Fprintf(cli.out, "event %s %q created\n", ev.ID, ev.Title)
	}
	return nil
}

// seed adds two groups with a few students, and a quiz for both groups next week.
func (cli *commandLine) seed(ctx context.Context) error {
	english, err := cli.groups.Create(ctx, group.NewGroup{Name: "English 101", Description: "Beginners", Color: "#4361ee"})
	if err != nil {
		return errors.Wrap(err, "creating group")
	}
	math, err := cli.groups.Create(ctx, group.NewGroup{Name: "Math", Description: "Algebra", Color: "#f72585"})
	if err != nil {
		return errors.Wrap(err, "creating group")
	}

	for _, ns := range []student.NewStudent{
		{Name: "Amani", Email: "amani@example.com", GroupIDs: []string{english.ID}},
		{Name: "Baraka", GroupIDs: []string{english.ID, math.ID}},
		{Name: "Zawadi", Phone: "+243 000 000", GroupIDs: []string{math.ID}},
	} {
		if _, err = cli.students.Create(ctx, ns); err != nil {
			return errors.Wrap(err, "creating student")
		}
	}

	start := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour).Add(9 * time.Hour)
	err = cli.addEvents(ctx, calendar.NewEvent{
		Title:     "Quiz",
		Start:     start.Format(time.RFC3339),
		End:       start.Add(time.Hour).Format(time.RFC3339),
		GroupIDs:  []string{english.ID, math.ID},
		CreatedBy: "admin",
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "seeded groups %q and %q\n", english.Name, math.Name)
	return nil
}
