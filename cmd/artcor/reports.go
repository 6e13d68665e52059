package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"artcor/internal/domain/attendance"
	"artcor/internal/domain/event"
)

func treeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show events grouped by year, month and day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				tree, err := s.tracker.Tree(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if globalFlags.json {
					return printJSON(w, tree)
				}
				for _, y := range tree.Years {
					fmt.Fprintln(w, y.Year)
					for _, m := range y.Months {
						fmt.Fprintf(w, "  %s\n", m.Label)
						for _, d := range m.Days {
							fmt.Fprintf(w, "    %s\n", d.Label)
							for _, e := range d.Events {
								fmt.Fprintf(w, "      [%d] %s (%d)\n", e.ID, e.Name, e.AttendeeCount)
							}
						}
					}
				}
				return nil
			})
		},
	}
}

func statsCommand() *cobra.Command {
	var kind string
	var year, month int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show attendance percentages per member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := attendance.ParseFilter(kind, year, month)
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), func(s *session) error {
				res, err := s.tracker.Stats(cmd.Context(), filter)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if globalFlags.json {
					return printJSON(w, res)
				}
				t := newTable(w, "ID", "NAME", "ROLE", "ATTENDED", "PERCENT", "DETAILS")
				for _, r := range res.Rows {
					t.row(r.MemberID, r.Name, r.Role, fmt.Sprintf("%d/%d", r.Attended, r.Total), fmt.Sprintf("%d%%", r.Percentage), r.Details)
				}
				return t.flush()
			})
		},
	}
	cmd.Flags().StringVar(&kind, "filter", string(attendance.KindAll), "all, year, month, in-year or in-month")
	cmd.Flags().IntVar(&year, "year", 0, "year for in-year and in-month")
	cmd.Flags().IntVar(&month, "month", 0, "month for in-month")
	return cmd
}

func importICSCommand() *cobra.Command {
	var fromArg, toArg string
	cmd := &cobra.Command{
		Use:   "import-ics FILE",
		Short: "Create events from an iCalendar file",
		Long: "Creates one attendee-less event per occurrence between --from and --to.\n" +
			"Occurrences matching an existing event's name and date are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := importWindow(fromArg, toArg, time.Now())
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withSession(cmd.Context(), func(s *session) error {
				res, err := s.tracker.ImportCalendar(cmd.Context(), f, from, to)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if globalFlags.json {
					return printJSON(w, res)
				}
				if err := printEvents(w, res.Created...); err != nil {
					return err
				}
				fmt.Fprintf(w, "created %d, skipped %d, rejected %d\n", len(res.Created), res.Skipped, res.Rejected)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fromArg, "from", "", "first day, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&toArg, "to", "", "last day, YYYY-MM-DD (default one year after --from)")
	return cmd
}

// importWindow resolves the inclusive day range for an import.
// The returned end is the last instant of the to day.
func importWindow(fromArg, toArg string, now time.Time) (time.Time, time.Time, error) {
	from := event.DateOf(now)
	if fromArg != "" {
		d, err := event.ParseDate(fromArg)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = d
	}
	to := event.DateOf(from.Time().AddDate(1, 0, 0))
	if toArg != "" {
		d, err := event.ParseDate(toArg)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = d
	}
	end := to.Time().AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from.Time(), end, nil
}
