package pipeline

import (
	"log"

	"github.com/go-gota/gota/dataframe"

	"trafficpulse/internal/models"
)

// Pipeline runs the full Load -> Clean -> {Aggregate, Rank, Detect} sequence
// for one input file. Every stage consumes an immutable frame and produces a
// new one; nothing is mutated in place.
type Pipeline struct {
	cfg *models.Config
}

func New(cfg *models.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// NamedTable pairs a result frame with the name sinks write it out under.
type NamedTable struct {
	Name  string
	Frame dataframe.DataFrame
}

// Results bundles the output tables of one run.
type Results struct {
	Hourly     dataframe.DataFrame
	TopCars    dataframe.DataFrame
	TopBuses   dataframe.DataFrame
	TopTrucks  dataframe.DataFrame
	Congestion *CongestionResult
}

// Tables lists every result frame with its output name.
func (r *Results) Tables() []NamedTable {
	return []NamedTable{
		{Name: "hourly_location_totals", Frame: r.Hourly},
		{Name: "top_locations_cars", Frame: r.TopCars},
		{Name: "top_locations_buses", Frame: r.TopBuses},
		{Name: "top_locations_trucks", Frame: r.TopTrucks},
		{Name: "congested_hours", Frame: r.Congestion.Flagged},
		{Name: "normal_hours", Frame: r.Congestion.Normal},
	}
}

// Run executes the pipeline against the configured input file.
func (p *Pipeline) Run() (*Results, error) {
	loadOpts := DefaultLoadOptions()
	loadOpts.HasHeader = p.cfg.HasHeader
	loadOpts.SheetName = p.cfg.SheetName
	if p.cfg.Delimiter != "" {
		loadOpts.Delimiter = []rune(p.cfg.Delimiter)[0]
	}

	raw, err := Load(p.cfg.InputFile, loadOpts)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d rows, %d columns from %s", raw.Nrow(), raw.Ncol(), p.cfg.InputFile)

	cleanOpts := DefaultCleanOptions()
	if p.cfg.DropColumns != nil {
		cleanOpts.DropColumns = p.cfg.DropColumns
	}
	clean, err := Clean(raw, cleanOpts)
	if err != nil {
		return nil, err
	}
	log.Printf("cleaned frame has %d columns", clean.Ncol())

	hourly, err := HourlyTotals(clean)
	if err != nil {
		return nil, err
	}

	results := &Results{Hourly: hourly}
	for _, rank := range []struct {
		col  string
		dest *dataframe.DataFrame
	}{
		{ColTotalCars, &results.TopCars},
		{ColTotalBuses, &results.TopBuses},
		{ColTotalTrucks, &results.TopTrucks},
	} {
		top, err := TopN(hourly, rank.col, p.cfg.TopN)
		if err != nil {
			return nil, err
		}
		*rank.dest = top
	}

	congestion, err := DetectCongestion(clean, p.cfg.CongestionPercentile, p.cfg.QuantileRelativeError)
	if err != nil {
		return nil, err
	}
	results.Congestion = congestion
	log.Printf("congestion threshold %.0f over %d groups, %d flagged",
		congestion.Threshold, congestion.Groups, congestion.Flagged.Nrow())

	return results, nil
}
