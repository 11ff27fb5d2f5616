package store

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contratos-service/internal/sheet"
)

// EnsureWorkbook creates the workbook and the named sheet with the canonical
// header row when either is missing. An existing sheet with headers is left
// untouched.
func EnsureWorkbook(path, sheetName string, codec *sheet.Codec) error {
	file, err := excelize.OpenFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("open workbook %s: %w", path, err)
		}
		file = excelize.NewFile()
		if err := file.SetSheetName(file.GetSheetName(0), sheetName); err != nil {
			return err
		}
		if err := writeHeaderRow(file, sheetName, codec); err != nil {
			return err
		}
		if err := file.SaveAs(path); err != nil {
			return fmt.Errorf("create workbook %s: %w", path, err)
		}
		return file.Close()
	}
	defer file.Close()

	idx, err := file.GetSheetIndex(sheetName)
	if err != nil {
		return err
	}
	if idx < 0 {
		if _, err := file.NewSheet(sheetName); err != nil {
			return err
		}
		if err := writeHeaderRow(file, sheetName, codec); err != nil {
			return err
		}
		return file.Save()
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		if err := writeHeaderRow(file, sheetName, codec); err != nil {
			return err
		}
		return file.Save()
	}
	return nil
}

func writeHeaderRow(file *excelize.File, sheetName string, codec *sheet.Codec) error {
	headers := codec.HeaderRow()
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return file.SetSheetRow(sheetName, "A1", &cells)
}
