package pipeline

import (
	"errors"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func rawFrame(t *testing.T, records [][]string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		t.Fatalf("building raw frame: %v", df.Err)
	}
	return df
}

func sampleRaw(t *testing.T) dataframe.DataFrame {
	return rawFrame(t, [][]string{
		{"location_id", "count_date", "time_start", "time_end", "eb_cars_l", "wb_bus_t", "nx_peds", "lng"},
		{"A", "2024-05-01", "2024-05-01 08:00:00", "2024-05-01 08:15:00", "5", "2", "7", "-79.38"},
		{"A", "2024-05-01", "2024-05-01 08:15:00", "2024-05-01 08:30:00", "3", "", "4", "-79.38"},
		{"B", "2024-05-01", "2024-05-01 17:45:00", "2024-05-01 18:00:00", "2", "1", "9", "-79.40"},
	})
}

func TestCleanDropsListedColumns(t *testing.T) {
	clean, err := Clean(sampleRaw(t), CleanOptions{DropColumns: []string{"nx_peds", "lng"}})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	names := clean.Names()
	for _, dropped := range []string{"nx_peds", "lng"} {
		if hasColumn(names, dropped) {
			t.Errorf("column %q still present after cleaning", dropped)
		}
	}
	for _, kept := range []string{"location_id", "count_date", "eb_cars_l", "wb_bus_t"} {
		if !hasColumn(names, kept) {
			t.Errorf("column %q missing after cleaning", kept)
		}
	}
}

func TestCleanMissingDropColumnIsSchemaError(t *testing.T) {
	_, err := Clean(sampleRaw(t), CleanOptions{DropColumns: []string{"no_such_column"}})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if schemaErr.Column != "no_such_column" {
		t.Errorf("SchemaError.Column = %q, want %q", schemaErr.Column, "no_such_column")
	}
}

func TestCleanDerivesHourColumns(t *testing.T) {
	clean, err := Clean(sampleRaw(t), CleanOptions{})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	wantStart := []string{"8", "8", "17"}
	wantEnd := []string{"8", "8", "18"}
	gotStart := clean.Col(ColHourStart).Records()
	gotEnd := clean.Col(ColHourEnd).Records()
	for i := range wantStart {
		if gotStart[i] != wantStart[i] {
			t.Errorf("hour_start[%d] = %s, want %s", i, gotStart[i], wantStart[i])
		}
		if gotEnd[i] != wantEnd[i] {
			t.Errorf("hour_end[%d] = %s, want %s", i, gotEnd[i], wantEnd[i])
		}
	}
}

func TestCleanAcceptsMultipleTimeLayouts(t *testing.T) {
	raw := rawFrame(t, [][]string{
		{"location_id", "time_start", "time_end"},
		{"A", "2024-05-01T08:00:00", "2024-05-01T08:15:00"},
		{"A", "2024-05-01 09:30", "2024-05-01 09:45"},
	})

	clean, err := Clean(raw, CleanOptions{})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	got := clean.Col(ColHourStart).Records()
	if got[0] != "8" || got[1] != "9" {
		t.Errorf("hour_start = %v, want [8 9]", got)
	}
}

func TestCleanUnparseableTimestampIsParseError(t *testing.T) {
	raw := rawFrame(t, [][]string{
		{"location_id", "time_start", "time_end"},
		{"A", "2024-05-01 08:00:00", "2024-05-01 08:15:00"},
		{"A", "not a time", "2024-05-01 08:30:00"},
	})

	_, err := Clean(raw, CleanOptions{})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Column != ColTimeStart || parseErr.Row != 1 {
		t.Errorf("ParseError at (%s, %d), want (%s, 1)", parseErr.Column, parseErr.Row, ColTimeStart)
	}
}

func TestCleanFillsMissingCountsAsZero(t *testing.T) {
	clean, err := Clean(sampleRaw(t), CleanOptions{})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	got := clean.Col("wb_bus_t").Records()
	want := []string{"2", "0", "1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("wb_bus_t[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCleanMissingTimeColumnIsSchemaError(t *testing.T) {
	raw := rawFrame(t, [][]string{
		{"location_id", "time_start"},
		{"A", "2024-05-01 08:00:00"},
	})

	_, err := Clean(raw, CleanOptions{})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if schemaErr.Column != ColTimeEnd {
		t.Errorf("SchemaError.Column = %q, want %q", schemaErr.Column, ColTimeEnd)
	}
}
