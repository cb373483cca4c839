package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// sheet names are capped at 31 characters by the XLSX format
const maxSheetName = 31

// WriteXLSX exports the report as a workbook with one sheet per table.
func (r *Report) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range r.Tables {
		name := sheetName(t.Title)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("xlsx sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx sheet %q: %w", name, err)
		}

		rowNum := 1
		if t.Note != "" {
			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := f.SetCellValue(name, cell, t.Note); err != nil {
				return fmt.Errorf("xlsx sheet %q: %w", name, err)
			}
			rowNum++
		}
		if err := writeRow(f, name, rowNum, t.Header); err != nil {
			return err
		}
		rowNum++
		for _, row := range t.Rows {
			if err := writeRow(f, name, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	for c, v := range cells {
		cell, err := excelize.CoordinatesToCellName(c+1, rowNum)
		if err != nil {
			return fmt.Errorf("xlsx sheet %q: %w", sheet, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("xlsx sheet %q: %w", sheet, err)
		}
	}
	return nil
}

var sheetNameSanitizer = strings.NewReplacer(
	":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "",
)

func sheetName(title string) string {
	s := sheetNameSanitizer.Replace(title)
	if len(s) > maxSheetName {
		s = s[:maxSheetName]
	}
	return s
}
