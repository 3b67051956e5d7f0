package pipeline

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// AggregateSpec describes a group-by-sum: an ordered grouping key and the
// measure columns to sum over each group.
type AggregateSpec struct {
	GroupBy  []string
	Measures []string
}

// Aggregate produces one row per distinct key combination, with every measure
// column replaced by its sum over the group. Key order does not affect the
// result set; rows are sorted by the key columns for deterministic output.
// References to absent columns fail with *ColumnError.
//
// gota's GroupBy joins key values with "_" to form the group key, so key
// tuples whose joined forms coincide (e.g. ("a_b","c") and ("a","b_c")) fold
// into one group. Numeric location IDs and hour values never contain "_".
func Aggregate(df dataframe.DataFrame, spec AggregateSpec) (dataframe.DataFrame, error) {
	names := df.Names()
	for _, col := range append(append([]string{}, spec.GroupBy...), spec.Measures...) {
		if !hasColumn(names, col) {
			return dataframe.DataFrame{}, &ColumnError{Column: col}
		}
	}
	if df.Nrow() == 0 {
		return df.Select(append(append([]string{}, spec.GroupBy...), spec.Measures...)), nil
	}

	groups := df.GroupBy(spec.GroupBy...)
	if groups.Err != nil {
		return dataframe.DataFrame{}, groups.Err
	}

	types := make([]dataframe.AggregationType, len(spec.Measures))
	for i := range types {
		types[i] = dataframe.Aggregation_SUM
	}
	agg := groups.Aggregation(types, spec.Measures)
	if agg.Err != nil {
		return dataframe.DataFrame{}, agg.Err
	}

	// Aggregation suffixes column names with the aggregation type and
	// returns float sums; restore the measure names and integer counts.
	for _, col := range spec.Measures {
		agg = agg.Rename(col, col+"_SUM")
		if agg.Err != nil {
			return dataframe.DataFrame{}, agg.Err
		}
		var err error
		agg, err = castFloatToInt(agg, col)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
	}

	order := make([]dataframe.Order, len(spec.GroupBy))
	for i, col := range spec.GroupBy {
		order[i] = dataframe.Sort(col)
	}
	agg = agg.Arrange(order...)
	if agg.Err != nil {
		return dataframe.DataFrame{}, agg.Err
	}

	agg = agg.Select(append(append([]string{}, spec.GroupBy...), spec.Measures...))
	if agg.Err != nil {
		return dataframe.DataFrame{}, agg.Err
	}
	return agg, nil
}

// WithModeTotals appends per-row total_cars, total_buses and total_trucks
// columns, each summing the measure columns picked out by the corresponding
// mode selector.
func WithModeTotals(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for _, mode := range []struct {
		total string
		pred  func(string) bool
	}{
		{ColTotalCars, IsCarsColumn},
		{ColTotalBuses, IsBusColumn},
		{ColTotalTrucks, IsTruckColumn},
	} {
		totals := make([]int, df.Nrow())
		for _, col := range SelectColumns(df.Names(), mode.pred) {
			vals := df.Col(col).Float()
			for i, v := range vals {
				totals[i] += int(v)
			}
		}
		df = df.Mutate(series.New(totals, series.Int, mode.total))
		if df.Err != nil {
			return dataframe.DataFrame{}, df.Err
		}
	}
	return df, nil
}

// HourlyTotals aggregates a cleaned frame into per-mode totals keyed by
// (location_id, hour_start).
func HourlyTotals(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	withTotals, err := WithModeTotals(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return Aggregate(withTotals, AggregateSpec{
		GroupBy:  []string{ColLocationID, ColHourStart},
		Measures: []string{ColTotalCars, ColTotalBuses, ColTotalTrucks},
	})
}

func castFloatToInt(df dataframe.DataFrame, col string) (dataframe.DataFrame, error) {
	vals := df.Col(col).Float()
	ints := make([]int, len(vals))
	for i, v := range vals {
		ints[i] = int(v)
	}
	df = df.Mutate(series.New(ints, series.Int, col))
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}
