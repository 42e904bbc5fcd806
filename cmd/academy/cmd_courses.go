package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/pkg/report"
)

func newCoursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List enrolled courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			courses, err := a.Player.Courses(cmd.Context())
			if err != nil {
				return err
			}
			return printCourses(cmd.OutOrStdout(), outputFormat(cmd), courses)
		},
	}
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <courseId>",
		Short: "Show a course outline with completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			view, err := a.Player.CourseView(cmd.Context(), models.ID(args[0]))
			if err != nil {
				return err
			}
			return printView(cmd.OutOrStdout(), outputFormat(cmd), view)
		},
	}
}

func newReportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "report <courseId>",
		Short: "Export course progress as an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = fmt.Sprintf("course-%s.xlsx", args[0])
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			view, err := a.Player.CourseView(cmd.Context(), models.ID(args[0]))
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := report.WriteWorkbook(view, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
			return nil
		},
	}
	c.Flags().String("out", "", "output file (default: course-<id>.xlsx)")
	return c
}
