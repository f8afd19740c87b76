package main

import (
	"fmt"

	"github.com/Sternrassler/rmp-collector/pkg/export"
	"github.com/Sternrassler/rmp-collector/pkg/ratings"
	"github.com/spf13/cobra"
)

func newDepartmentCmd(a *app) *cobra.Command {
	var schoolID, departmentID, out string

	cmd := &cobra.Command{
		Use:   "department",
		Short: "Fetches every teacher of a school department and writes the listing as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ratings.NewDepartmentQuery(schoolID, departmentID)
			result, err := a.service.GetAllProfessorsInDepartment(cmd.Context(), query)
			if err != nil {
				return err
			}

			sink := export.NewJSONFile(out)
			if err := sink.Write(cmd.Context(), result); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d professors to %s\n",
				len(result.Search.Teachers.Edges), sink.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&schoolID, "school", "", "school id (required)")
	cmd.Flags().StringVar(&departmentID, "department", "", "department id, empty for the whole school")
	cmd.Flags().StringVarP(&out, "out", "o", export.DefaultPath, "output file")
	cmd.MarkFlagRequired("school")
	return cmd
}
