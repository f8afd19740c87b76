package main

import (
	"encoding/json"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func newSchoolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schools <query>",
		Short: "Lists the schools matching a search query.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schools, err := a.service.SearchSchool(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Name", "City", "State"})
			for _, s := range schools {
				t.AppendRow(table.Row{s.ID, s.Name, s.City, s.State})
			}
			t.AppendFooter(table.Row{"", "", "Total", len(schools)})
			t.Render()
			return nil
		},
	}
}

func newTeachersCmd(a *app) *cobra.Command {
	var schoolID string

	cmd := &cobra.Command{
		Use:   "teachers <name>",
		Short: "Lists the teachers of a school matching a name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teachers, err := a.service.SearchTeacher(cmd.Context(), args[0], schoolID)
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "First name", "Last name", "School"})
			for _, tr := range teachers {
				t.AppendRow(table.Row{tr.ID, tr.FirstName, tr.LastName, tr.School.Name})
			}
			t.AppendFooter(table.Row{"", "", "Total", len(teachers)})
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&schoolID, "school", "", "school id (required)")
	cmd.MarkFlagRequired("school")
	return cmd
}

func newTeacherCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "teacher <id>",
		Short: "Prints one teacher's rating summary as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teacher, err := a.service.GetTeacher(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(teacher)
		},
	}
}
