// Package report exports a course's completion state as an Excel workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/NeroQue/academy-player/internal/progress"
)

const (
	OutlineSheet = "Outline"
	SummarySheet = "Summary"
)

// WriteWorkbook writes an .xlsx with one row per lesson on the Outline sheet
// and the module and course percentages on the Summary sheet
func WriteWorkbook(view progress.View, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OutlineSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeOutline(f, view, bold); err != nil {
		return err
	}
	if err := writeSummary(f, view, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeOutline(f *excelize.File, view progress.View, headerStyle int) error {
	rows := [][]interface{}{{"Module", "Lesson", "Type", "Completed", "Progress"}}
	for _, m := range view.Course.Modules {
		for _, l := range m.Lessons {
			rows = append(rows, []interface{}{m.Title, l.Title, string(l.Type), yesNo(l.Completed), l.Progress})
		}
	}

	if err := writeRows(f, OutlineSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(OutlineSheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to style outline header: %w", err)
	}
	return f.SetColWidth(OutlineSheet, "A", "B", 40)
}

func writeSummary(f *excelize.File, view progress.View, headerStyle int) error {
	rows := [][]interface{}{{"Module", "Completed", "Total", "Percent"}}
	for _, m := range view.Course.Modules {
		mp := view.Summary.ModulePercentMap[m.ID]
		rows = append(rows, []interface{}{m.Title, mp.Completed, mp.Total, mp.Percent})
	}
	rows = append(rows, []interface{}{"Course", view.Summary.TotalCompleted, view.Summary.TotalLessons, view.Summary.CoursePercent})

	if err := writeRows(f, SummarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	// course totals sit on the last row
	courseRow := fmt.Sprintf("A%d", len(rows))
	courseEnd := fmt.Sprintf("D%d", len(rows))
	if err := f.SetCellStyle(SummarySheet, courseRow, courseEnd, headerStyle); err != nil {
		return fmt.Errorf("failed to style course row: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 40)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
