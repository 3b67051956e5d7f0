package pipeline

import (
	"testing"

	"trafficpulse/internal/models"
)

func TestPipelineRun(t *testing.T) {
	path := writeTempCSV(t,
		"location_id,count_date,time_start,time_end,px,eb_cars_t,sb_bus_t\n"+
			"A,2024-05-01,2024-05-01 08:00:00,2024-05-01 08:15:00,12,50,2\n"+
			"A,2024-05-01,2024-05-01 08:15:00,2024-05-01 08:30:00,12,30,1\n"+
			"A,2024-05-01,2024-05-01 09:00:00,2024-05-01 09:15:00,12,10,0\n"+
			"B,2024-05-01,2024-05-01 08:00:00,2024-05-01 08:15:00,13,80,4\n")

	cfg := &models.Config{
		InputFile:             path,
		HasHeader:             true,
		Delimiter:             ",",
		DropColumns:           []string{"px"},
		TopN:                  2,
		CongestionPercentile:  0.9,
		QuantileRelativeError: 0.05,
	}

	results, err := New(cfg).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// (A,8), (A,9), (B,8)
	if results.Hourly.Nrow() != 3 {
		t.Errorf("hourly groups = %d, want 3", results.Hourly.Nrow())
	}
	if hasColumn(results.Hourly.Names(), "px") {
		t.Error("dropped column px survived cleaning")
	}

	row := findRow(t, results.Hourly, map[string]interface{}{ColLocationID: "A", ColHourStart: 8})
	if row[ColTotalCars] != 80 {
		t.Errorf("total_cars for (A,8) = %v, want 80", row[ColTotalCars])
	}

	if results.TopCars.Nrow() != 2 {
		t.Errorf("top cars rows = %d, want 2", results.TopCars.Nrow())
	}
	top := results.TopCars.Col(ColLocationID).Records()
	if top[0] != "A" || top[1] != "B" {
		t.Errorf("top car locations = %v, want [A B] (A leads with 80 at hour 8)", top)
	}

	tables := results.Tables()
	wantNames := []string{
		"hourly_location_totals",
		"top_locations_cars", "top_locations_buses", "top_locations_trucks",
		"congested_hours", "normal_hours",
	}
	if len(tables) != len(wantNames) {
		t.Fatalf("got %d tables, want %d", len(tables), len(wantNames))
	}
	for i, table := range tables {
		if table.Name != wantNames[i] {
			t.Errorf("table %d name = %q, want %q", i, table.Name, wantNames[i])
		}
	}

	if got := results.Congestion.Flagged.Nrow() + results.Congestion.Normal.Nrow(); got != results.Congestion.Groups {
		t.Errorf("congestion partition covers %d of %d groups", got, results.Congestion.Groups)
	}
}
