package pipeline

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CongestionResult partitions the per-hour groups of a run into congestion
// candidates and the rest, along with the threshold that split them.
type CongestionResult struct {
	// Flagged holds groups with total_traffic_volume >= Threshold.
	Flagged dataframe.DataFrame
	// Normal holds the complement.
	Normal dataframe.DataFrame
	// Threshold is the approximate percentile value of the volume.
	Threshold float64
	// Groups is the number of (location, date, hour) groups observed.
	Groups int
}

// DetectCongestion groups a cleaned frame by (location_id, count_date,
// hour_start), sums the mode totals, derives total_traffic_volume as their
// sum and flags every group at or above the approximate percentile of the
// volume (rank error bounded by relativeError). An input with no groups
// fails with *EmptyInputError.
func DetectCongestion(clean dataframe.DataFrame, percentile, relativeError float64) (*CongestionResult, error) {
	withTotals, err := WithModeTotals(clean)
	if err != nil {
		return nil, err
	}

	agg, err := Aggregate(withTotals, AggregateSpec{
		GroupBy:  []string{ColLocationID, ColCountDate, ColHourStart},
		Measures: []string{ColTotalCars, ColTotalBuses, ColTotalTrucks},
	})
	if err != nil {
		return nil, err
	}
	if agg.Nrow() == 0 {
		return nil, &EmptyInputError{Op: "congestion detection"}
	}

	cars := agg.Col(ColTotalCars).Float()
	buses := agg.Col(ColTotalBuses).Float()
	trucks := agg.Col(ColTotalTrucks).Float()
	volumes := make([]int, agg.Nrow())
	for i := range volumes {
		volumes[i] = int(cars[i]) + int(buses[i]) + int(trucks[i])
	}
	agg = agg.Mutate(series.New(volumes, series.Int, ColTotalVolume))
	if agg.Err != nil {
		return nil, agg.Err
	}

	sketch := NewQuantileSketch(relativeError)
	for _, v := range volumes {
		sketch.Add(float64(v))
	}
	threshold, err := sketch.Query(percentile)
	if err != nil {
		return nil, err
	}

	// The sketch only returns observed values and every volume is an
	// integer, so the int cast is exact and the >= / < partition splits
	// precisely at the threshold.
	intThreshold := int(threshold)
	flagged := agg.Filter(dataframe.F{Colname: ColTotalVolume, Comparator: series.GreaterEq, Comparando: intThreshold})
	if flagged.Err != nil {
		return nil, flagged.Err
	}
	normal := agg.Filter(dataframe.F{Colname: ColTotalVolume, Comparator: series.Less, Comparando: intThreshold})
	if normal.Err != nil {
		return nil, normal.Err
	}

	return &CongestionResult{
		Flagged:   flagged,
		Normal:    normal,
		Threshold: threshold,
		Groups:    agg.Nrow(),
	}, nil
}
