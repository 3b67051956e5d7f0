package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// LoadOptions controls how a raw dataset file is read into a frame.
type LoadOptions struct {
	HasHeader bool
	Delimiter rune
	// Schema optionally declares column types. When set, every declared
	// column must appear in the file header.
	Schema map[string]series.Type
	// SheetName selects the worksheet for .xlsx inputs.
	SheetName string
}

// DefaultLoadOptions reads a comma-delimited file with a header row and
// string-typed values; casts happen in the cleaning stage.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{HasHeader: true, Delimiter: ','}
}

// Load reads a delimited text file (or an .xlsx workbook) into a DataFrame.
// It fails with *IngestError if the file is missing, unreadable, or its
// header is inconsistent with a declared schema.
func Load(path string, opts LoadOptions) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, &IngestError{Path: path, Err: err}
	}
	defer f.Close()

	loadOpts := []dataframe.LoadOption{
		dataframe.HasHeader(opts.HasHeader),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"", "NA", "NaN", "null"}),
	}
	if opts.Delimiter != 0 {
		loadOpts = append(loadOpts, dataframe.WithDelimiter(opts.Delimiter))
	}
	if opts.Schema != nil {
		loadOpts = append(loadOpts, dataframe.WithTypes(opts.Schema))
	}

	df := dataframe.ReadCSV(f, loadOpts...)
	if df.Err != nil {
		return dataframe.DataFrame{}, &IngestError{Path: path, Err: df.Err}
	}
	if err := checkSchema(df, opts.Schema); err != nil {
		return dataframe.DataFrame{}, &IngestError{Path: path, Err: err}
	}
	return df, nil
}

func checkSchema(df dataframe.DataFrame, schema map[string]series.Type) error {
	if schema == nil {
		return nil
	}
	names := df.Names()
	for col := range schema {
		if !hasColumn(names, col) {
			return fmt.Errorf("header missing declared column %q", col)
		}
	}
	return nil
}

func loadXLSX(path string, opts LoadOptions) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, &IngestError{Path: path, Err: err}
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, &IngestError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}

	sheet := xlFile.Sheets[0]
	if opts.SheetName != "" {
		s, ok := xlFile.Sheet[opts.SheetName]
		if !ok {
			return dataframe.DataFrame{}, &IngestError{Path: path, Err: fmt.Errorf("sheet %q not found", opts.SheetName)}
		}
		sheet = s
	}

	df := sheetToDataFrame(sheet)
	if df.Err != nil {
		return dataframe.DataFrame{}, &IngestError{Path: path, Err: df.Err}
	}
	if err := checkSchema(df, opts.Schema); err != nil {
		return dataframe.DataFrame{}, &IngestError{Path: path, Err: err}
	}
	return df, nil
}

func sheetToDataFrame(sheet *xlsx.Sheet) dataframe.DataFrame {
	if len(sheet.Rows) == 0 {
		return dataframe.New()
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}
	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			v := ""
			if i < len(row.Cells) {
				v = row.Cells[i].Value
			}
			columns[i] = append(columns[i], v)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, name := range headers {
		seriesList[i] = series.New(columns[i], series.String, name)
	}
	return dataframe.New(seriesList...)
}
