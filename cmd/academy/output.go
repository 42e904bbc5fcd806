package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/internal/player"
	"github.com/NeroQue/academy-player/internal/progress"
)

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printState renders a player state in the chosen format
func printState(w io.Writer, format string, state player.State) error {
	if format == "json" {
		return printJSON(w, state)
	}
	writeState(w, state)
	return nil
}

// printView renders a course view in the chosen format
func printView(w io.Writer, format string, view progress.View) error {
	if format == "json" {
		return printJSON(w, view)
	}
	writeView(w, view)
	return nil
}

func writeState(w io.Writer, state player.State) {
	l := state.Lesson
	fmt.Fprintf(w, "%s  [%s]\n", l.Title, l.Type)
	if l.Duration != "" {
		fmt.Fprintf(w, "Duration: %s\n", l.Duration)
	}
	if l.Description != "" {
		fmt.Fprintf(w, "\n%s\n", l.Description)
	}
	if l.Content != "" {
		fmt.Fprintf(w, "\n%s\n", l.Content)
	}
	for _, link := range l.Links {
		fmt.Fprintf(w, "  -> %s %s\n", link.Title, link.URL)
	}
	fmt.Fprintln(w)

	if state.View == nil {
		fmt.Fprintf(w, "Course outline unavailable: %s\n", state.OutlineError)
		return
	}
	writeView(w, *state.View)
	if state.Provisional {
		fmt.Fprintln(w, "(change not confirmed by the server yet)")
	}
}

func writeView(w io.Writer, view progress.View) {
	fmt.Fprintf(w, "%s - %d%% (%d/%d)\n", view.Course.Title,
		view.Summary.CoursePercent, view.Summary.TotalCompleted, view.Summary.TotalLessons)
	if view.Degraded {
		fmt.Fprintln(w, "(progress could not be loaded, showing course defaults)")
	}

	var current models.ID
	if view.CurrentLesson != nil {
		current = view.CurrentLesson.ID
	}

	for _, m := range view.Course.Modules {
		mp := view.Summary.ModulePercentMap[m.ID]
		fmt.Fprintf(w, "\n%s  %d%% (%d/%d)\n", m.Title, mp.Percent, mp.Completed, mp.Total)
		for _, l := range m.Lessons {
			mark := "[ ]"
			if l.Completed {
				mark = "[x]"
			}
			pointer := "  "
			if l.ID == current {
				pointer = "> "
			}
			fmt.Fprintf(w, "%s%s %s\n", pointer, mark, l.Title)
		}
	}

	nav := view.Navigation
	var parts []string
	if nav.PreviousLesson != nil {
		parts = append(parts, "previous: "+nav.PreviousLesson.Title)
	}
	if nav.NextLesson != nil {
		parts = append(parts, "next: "+nav.NextLesson.Title)
	}
	if nav.NextModuleEntry != nil {
		parts = append(parts, fmt.Sprintf("next module: %s (%s)", nav.NextModuleEntry.ModuleTitle, nav.NextModuleEntry.Lesson.Title))
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "\n%s\n", strings.Join(parts, " | "))
	}
}

func printCourses(w io.Writer, format string, courses []models.CourseSummary) error {
	if format == "json" {
		return printJSON(w, courses)
	}
	for _, c := range courses {
		line := fmt.Sprintf("%s\t%s", c.ID, c.Title)
		if c.Progress != nil {
			line += fmt.Sprintf("\t%.0f%%", *c.Progress)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
