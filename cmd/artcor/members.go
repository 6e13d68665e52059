package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	memberstore "artcor/internal/adapters/storage/member"
	"artcor/internal/domain/member"
)

func membersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage the roster",
	}
	cmd.AddCommand(membersListCommand())
	cmd.AddCommand(membersAddCommand())
	cmd.AddCommand(membersEditCommand())
	cmd.AddCommand(membersDeleteCommand())
	return cmd
}

func membersListCommand() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				members, err := s.tracker.Members(cmd.Context(), memberstore.ListFilter{Role: role})
				if err != nil {
					return err
				}
				return printMembers(cmd.OutOrStdout(), members...)
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "only members with this role")
	return cmd
}

func membersAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME ROLE",
		Short: "Add a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				m, err := s.tracker.AddMember(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return printMembers(cmd.OutOrStdout(), m)
			})
		},
	}
}

func membersEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID NAME ROLE",
		Short: "Change a member's name and role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), func(s *session) error {
				m, err := s.tracker.UpdateMember(cmd.Context(), id, args[1], args[2])
				if err != nil {
					return err
				}
				return printMembers(cmd.OutOrStdout(), m)
			})
		},
	}
}

func membersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a member who attends no event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), func(s *session) error {
				if err := s.tracker.DeleteMember(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted member %d\n", id)
				return nil
			})
		},
	}
}

func printMembers(w io.Writer, members ...member.Member) error {
	if globalFlags.json {
		return printJSON(w, members)
	}
	t := newTable(w, "ID", "NAME", "ROLE")
	for _, m := range members {
		t.row(m.ID, m.Name, m.Role)
	}
	return t.flush()
}
