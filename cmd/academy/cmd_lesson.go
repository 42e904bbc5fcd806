package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NeroQue/academy-player/internal/app"
	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/internal/player"
)

func newLessonCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "lesson <lessonId>",
		Short: "Open a lesson with its outline and navigation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLesson(cmd, args[0], func(ctx context.Context, a *app.App, state player.State) (player.State, error) {
				return state, nil
			})
		},
	}
	addCourseFlag(c)
	return c
}

func newCompleteCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "complete <lessonId>",
		Short: "Mark a lesson as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLesson(cmd, args[0], func(ctx context.Context, a *app.App, state player.State) (player.State, error) {
				return a.Player.MarkComplete(ctx, state.Lesson.ID)
			})
		},
	}
	addCourseFlag(c)
	return c
}

func newUncompleteCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "uncomplete <lessonId>",
		Short: "Mark a lesson as not completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLesson(cmd, args[0], func(ctx context.Context, a *app.App, state player.State) (player.State, error) {
				return a.Player.Unmark(ctx, state.Lesson.ID)
			})
		},
	}
	addCourseFlag(c)
	return c
}

func newNextCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "next <lessonId>",
		Short: "Complete a lesson and open the one after it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLesson(cmd, args[0], func(ctx context.Context, a *app.App, state player.State) (player.State, error) {
				return a.Player.AdvanceToNext(ctx)
			})
		},
	}
	addCourseFlag(c)
	return c
}

func addCourseFlag(c *cobra.Command) {
	c.Flags().String("course", "", "course the lesson belongs to, when the API does not say")
}

// withLesson opens a lesson, runs fn on the opened state and prints the result
func withLesson(cmd *cobra.Command, lessonID string, fn func(context.Context, *app.App, player.State) (player.State, error)) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	courseHint, _ := cmd.Flags().GetString("course")

	state, err := a.Player.Open(ctx, models.ID(lessonID), models.ID(courseHint))
	if err != nil && !errors.Is(err, player.ErrOutlineUnavailable) {
		return err
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	next, err := fn(ctx, a, state)
	if err != nil {
		return err
	}
	return printState(cmd.OutOrStdout(), outputFormat(cmd), next)
}
