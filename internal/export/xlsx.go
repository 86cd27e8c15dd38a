package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pershin-daniil/hrdesk/internal/calendar"
	"github.com/pershin-daniil/hrdesk/pkg/models"
)

const vacationSheet = "Vacations"

var vacationHeader = []string{"ID", "User", "Type", "Start", "End", "Amount"}

// WriteVacationsXLSX writes the vacation history as a spreadsheet with a total row.
func WriteVacationsXLSX(w io.Writer, history []models.VacationHistory) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", vacationSheet); err != nil {
		return err
	}
	for col, title := range vacationHeader {
		if err := setCell(f, col+1, 1, title); err != nil {
			return err
		}
	}
	total := 0.0
	for i, v := range history {
		row := i + 2
		values := []interface{}{
			v.ID,
			v.UserID,
			v.Type,
			v.EventStartDate.Format(calendar.StampLayout),
			v.EventEndDate.Format(calendar.StampLayout),
			v.Amount,
		}
		for col, value := range values {
			if err := setCell(f, col+1, row, value); err != nil {
				return err
			}
		}
		total += v.Amount
	}
	totalRow := len(history) + 2
	if err := setCell(f, len(vacationHeader)-1, totalRow, "Total"); err != nil {
		return err
	}
	if err := setCell(f, len(vacationHeader), totalRow, total); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("err writing workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(vacationSheet, cell, value)
}
