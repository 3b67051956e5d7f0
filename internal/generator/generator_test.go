package generator

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"trafficpulse/internal/pipeline"
)

func TestHeaderShape(t *testing.T) {
	header := Header()

	// 12 identifier columns, 4 directions x 3 vehicles x 3 movements,
	// 4 crossings x 3 types.
	if len(header) != 60 {
		t.Fatalf("header has %d columns, want 60", len(header))
	}
	if header[0] != "_id" {
		t.Errorf("header[0] = %q, want _id", header[0])
	}

	seen := make(map[string]bool, len(header))
	for _, col := range header {
		if seen[col] {
			t.Errorf("duplicate column %q", col)
		}
		seen[col] = true
	}
	for _, col := range []string{"location_id", "time_start", "time_end", "eb_cars_l", "wb_bus_t", "nx_peds"} {
		if !seen[col] {
			t.Errorf("header missing %q", col)
		}
	}
	for _, col := range pipeline.DefaultDropColumns {
		if !seen[col] {
			t.Errorf("header missing drop-list column %q", col)
		}
	}
}

func TestWriteRowShape(t *testing.T) {
	g := New(Options{
		Locations: 1,
		Days:      1,
		StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Seed:      1,
		Quiet:     true,
	})

	var buf bytes.Buffer
	if err := g.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading generated CSV: %v", err)
	}

	// Header plus 14 hours of 15-minute intervals.
	if len(records) != 1+14*4 {
		t.Fatalf("got %d records, want %d", len(records), 1+14*4)
	}
	for i, rec := range records {
		if len(rec) != len(records[0]) {
			t.Errorf("record %d has %d fields, want %d", i, len(rec), len(records[0]))
		}
	}
}

func TestGeneratedDatasetFlowsThroughPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.csv")
	g := New(Options{
		Locations: 2,
		Days:      1,
		StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Seed:      42,
		Quiet:     true,
	})
	if err := g.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	raw, err := pipeline.Load(path, pipeline.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if raw.Nrow() != 2*14*4 {
		t.Fatalf("raw rows = %d, want %d", raw.Nrow(), 2*14*4)
	}

	clean, err := pipeline.Clean(raw, pipeline.DefaultCleanOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	hourly, err := pipeline.HourlyTotals(clean)
	if err != nil {
		t.Fatalf("HourlyTotals: %v", err)
	}
	// One group per location and hour of coverage.
	if hourly.Nrow() != 2*14 {
		t.Errorf("hourly groups = %d, want %d", hourly.Nrow(), 2*14)
	}
}
