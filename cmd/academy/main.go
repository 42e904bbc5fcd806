package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "academy",
		Short:         "Academy lesson player",
		Long:          "Open lessons, track completion and browse course outlines against the academy student API.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newCoursesCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newLessonCmd())
	rootCmd.AddCommand(newCompleteCmd())
	rootCmd.AddCommand(newUncompleteCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newOutlineCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}
