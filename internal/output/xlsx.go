package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// XLSXWriter writes each result table as a single-sheet workbook, for
// handoff to spreadsheet-based BI tooling. Local files only.
type XLSXWriter struct {
	basePath string
	folder   string
}

func (x *XLSXWriter) WriteTable(name string, df dataframe.DataFrame) error {
	dir := filepath.Join(x.basePath, x.folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Sheet1"

	colNames := df.Names()
	for i, colName := range colNames {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, colName); err != nil {
			return err
		}
	}

	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, colName := range colNames {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, df.Col(colName).Val(rowIdx)); err != nil {
				return err
			}
		}
	}

	path := filepath.Join(dir, name+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func (x *XLSXWriter) Close() error { return nil }
