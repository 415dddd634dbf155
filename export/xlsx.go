// Package export renders a list's cycle history as a spreadsheet.
package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"study_server_go/cycle"
	"study_server_go/models"

	"github.com/xuri/excelize/v2"
)

// SheetName is the sheet the cycle history is written to.
const SheetName = "Sheet1"

// ContentType is the MIME type of the workbook WriteCyclesXLSX produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Header is the first row of the cycle sheet.
var Header = []string{"Ciclo", "Concluído em", "Tempo total (min)", "Tempo total"}

// FileName is the download name for the cycle history of list.
func FileName(list models.StudyList) string {
	return fmt.Sprintf("ciclos-%s.xlsx", list.ID)
}

// WriteCyclesXLSX writes the cycles of list to w as an xlsx workbook, one row
// per cycle in ascending cycle number.
func WriteCyclesXLSX(w io.Writer, list models.StudyList, cycles []models.StudyCycle) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, title := range Header {
		if err := setCell(f, col+1, 1, title); err != nil {
			return err
		}
	}

	sorted := make([]models.StudyCycle, len(cycles))
	copy(sorted, cycles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CycleNumber < sorted[j].CycleNumber })

	for i, c := range sorted {
		row := i + 2
		values := []interface{}{
			c.CycleNumber,
			c.CompletedAt.UTC().Format(time.RFC3339),
			c.TotalTime,
			cycle.FormatTime(c.TotalTime),
		}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write cycle history of list %s: %w", list.ID, err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(SheetName, cell, value)
}
