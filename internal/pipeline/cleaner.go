package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// timeLayout is the canonical form timestamps are normalized to.
const timeLayout = "2006-01-02 15:04:05"

// acceptedTimeLayouts are tried in order when parsing raw timestamp values.
var acceptedTimeLayouts = []string{
	timeLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// CleanOptions controls the cleaning stage.
type CleanOptions struct {
	// DropColumns are removed from the frame. A listed column that is
	// absent aborts with *SchemaError.
	DropColumns []string
}

// DefaultCleanOptions drops the standard low-value column set.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{DropColumns: DefaultDropColumns}
}

// Clean produces a new frame with the drop-list removed, time_start/time_end
// normalized to timestamps, hour_start/hour_end derived as integers in
// [0,23], and every vehicle measure column cast to Int with missing values
// filled as zero. Unparseable timestamps or counts abort with *ParseError.
func Clean(df dataframe.DataFrame, opts CleanOptions) (dataframe.DataFrame, error) {
	names := df.Names()
	for _, col := range opts.DropColumns {
		if !hasColumn(names, col) {
			return dataframe.DataFrame{}, &SchemaError{Column: col}
		}
	}
	if len(opts.DropColumns) > 0 {
		df = df.Drop(opts.DropColumns)
		if df.Err != nil {
			return dataframe.DataFrame{}, df.Err
		}
	}

	for _, spec := range []struct{ timeCol, hourCol string }{
		{ColTimeStart, ColHourStart},
		{ColTimeEnd, ColHourEnd},
	} {
		var err error
		df, err = normalizeTimeColumn(df, spec.timeCol, spec.hourCol)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
	}

	for _, col := range SelectColumns(df.Names(), IsMeasureColumn) {
		var err error
		df, err = castCountColumn(df, col)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
	}

	return df, nil
}

// normalizeTimeColumn parses timeCol, rewrites it in the canonical layout and
// appends hourCol with the hour of day.
func normalizeTimeColumn(df dataframe.DataFrame, timeCol, hourCol string) (dataframe.DataFrame, error) {
	if !hasColumn(df.Names(), timeCol) {
		return dataframe.DataFrame{}, &SchemaError{Column: timeCol}
	}

	records := df.Col(timeCol).Records()
	normalized := make([]string, len(records))
	hours := make([]int, len(records))
	for i, raw := range records {
		t, err := parseTimestamp(raw)
		if err != nil {
			return dataframe.DataFrame{}, &ParseError{Column: timeCol, Row: i, Value: raw, Err: err}
		}
		normalized[i] = t.Format(timeLayout)
		hours[i] = t.Hour()
	}

	df = df.Mutate(series.New(normalized, series.String, timeCol))
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	df = df.Mutate(series.New(hours, series.Int, hourCol))
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range acceptedTimeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// castCountColumn converts a measure column to Int, treating missing values
// as zero so that downstream sums are always defined.
func castCountColumn(df dataframe.DataFrame, col string) (dataframe.DataFrame, error) {
	records := df.Col(col).Records()
	counts := make([]int, len(records))
	for i, raw := range records {
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == "NA" || raw == "NaN" || raw == "null" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil {
				return dataframe.DataFrame{}, &ParseError{Column: col, Row: i, Value: raw, Err: err}
			}
			n = int(f)
		}
		counts[i] = n
	}

	df = df.Mutate(series.New(counts, series.Int, col))
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}
