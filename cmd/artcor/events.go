package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"artcor/internal/application/projections"
	"artcor/internal/domain/event"
	"artcor/internal/domain/failure"
)

func eventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage events and their attendees",
	}
	cmd.AddCommand(eventsListCommand())
	cmd.AddCommand(eventsAddCommand())
	cmd.AddCommand(eventsEditCommand())
	cmd.AddCommand(eventsDeleteCommand())
	cmd.AddCommand(eventsYearsCommand())
	return cmd
}

func eventsListCommand() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month != 0 && (year == 0 || month < 1 || month > 12) {
				return failure.Invalid("month", "must be 1-12 and requires --year")
			}
			return withSession(cmd.Context(), func(s *session) error {
				views, err := s.tracker.EventList(cmd.Context(), year, time.Month(month))
				if err != nil {
					return err
				}
				return printEventViews(cmd.OutOrStdout(), views)
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "only events in this year")
	cmd.Flags().IntVar(&month, "month", 0, "only events in this month (needs --year)")
	return cmd
}

func eventsAddCommand() *cobra.Command {
	var attendees []int
	cmd := &cobra.Command{
		Use:   "add NAME DATE",
		Short: "Add an event dated YYYY-MM-DD",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				e, err := s.tracker.AddEvent(cmd.Context(), args[0], args[1], attendees)
				if err != nil {
					return err
				}
				return printEvents(cmd.OutOrStdout(), e)
			})
		},
	}
	cmd.Flags().IntSliceVarP(&attendees, "attendees", "a", nil, "attending member ids")
	return cmd
}

func eventsEditCommand() *cobra.Command {
	var attendees []int
	cmd := &cobra.Command{
		Use:   "edit ID NAME DATE",
		Short: "Replace an event's name, date and attendees",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), func(s *session) error {
				e, err := s.tracker.UpdateEvent(cmd.Context(), id, args[1], args[2], attendees)
				if err != nil {
					return err
				}
				return printEvents(cmd.OutOrStdout(), e)
			})
		},
	}
	cmd.Flags().IntSliceVarP(&attendees, "attendees", "a", nil, "attending member ids; omitted clears the list")
	return cmd
}

func eventsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), func(s *session) error {
				if err := s.tracker.DeleteEvent(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted event %d\n", id)
				return nil
			})
		},
	}
}

func eventsYearsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the years that have events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				years, err := s.tracker.UniqueYears(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if globalFlags.json {
					return printJSON(w, years)
				}
				for _, y := range years {
					fmt.Fprintln(w, y)
				}
				return nil
			})
		},
	}
}

func printEvents(w io.Writer, events ...event.Event) error {
	if globalFlags.json {
		return printJSON(w, events)
	}
	t := newTable(w, "ID", "DATE", "NAME", "ATTENDEES")
	for _, e := range events {
		t.row(e.ID, e.Date, e.Name, joinInts(e.Attendees))
	}
	return t.flush()
}

func printEventViews(w io.Writer, views []projections.EventView) error {
	if globalFlags.json {
		return printJSON(w, views)
	}
	t := newTable(w, "ID", "DATE", "NAME", "ATTENDEES")
	for _, v := range views {
		names := make([]string, len(v.Attendees))
		for i, a := range v.Attendees {
			names[i] = a.Name
		}
		t.row(v.ID, v.DateLabel, v.Name, fmt.Sprintf("%d %v", len(names), names))
	}
	return t.flush()
}
