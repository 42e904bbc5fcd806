package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/internal/progress"
	"github.com/NeroQue/academy-player/pkg/logger"
	"github.com/NeroQue/academy-player/pkg/parser"
)

func newOutlineCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "outline",
		Short: "Build a progress outline from local files, without the API",
		Long: "Reads a course tree from a json/yaml file or a folder of lesson files, " +
			"optionally merges a progress file, and prints the outline.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			courseFile, _ := cmd.Flags().GetString("course-file")
			courseDir, _ := cmd.Flags().GetString("course-dir")
			progressFile, _ := cmd.Flags().GetString("progress-file")
			lessonID, _ := cmd.Flags().GetString("lesson")

			if (courseFile == "") == (courseDir == "") {
				return errors.New("pass exactly one of --course-file or --course-dir")
			}

			p := parser.NewCourseParser("", logger.Discard())

			var course models.Course
			var err error
			if courseFile != "" {
				course, err = p.ParseCourseFile(courseFile)
			} else {
				course, err = p.ParseCourseFolder(filepath.Clean(courseDir))
			}
			if err != nil {
				return err
			}

			var records []models.ProgressRecord
			if progressFile != "" {
				records, err = p.ParseProgressFile(progressFile)
				if err != nil {
					return err
				}
			}

			view := progress.Build(course, records, models.ID(lessonID))
			return printView(cmd.OutOrStdout(), outputFormat(cmd), view)
		},
	}
	c.Flags().String("course-file", "", "course tree as json or yaml")
	c.Flags().String("course-dir", "", "folder with one subfolder per module")
	c.Flags().String("progress-file", "", "progress records as json or yaml")
	c.Flags().String("lesson", "", "lesson to resolve navigation for")
	return c
}
