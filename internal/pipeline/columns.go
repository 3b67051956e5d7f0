package pipeline

import "strings"

// Canonical column names of the raw turning-movement-count dataset.
const (
	ColLocationID = "location_id"
	ColLocation   = "location"
	ColCountDate  = "count_date"
	ColTimeStart  = "time_start"
	ColTimeEnd    = "time_end"
	ColHourStart  = "hour_start"
	ColHourEnd    = "hour_end"

	ColTotalCars   = "total_cars"
	ColTotalBuses  = "total_buses"
	ColTotalTrucks = "total_trucks"
	ColTotalVolume = "total_traffic_volume"
)

// Mode selectors. Vehicle measure columns follow the
// <direction>_<vehicle>_<movement> convention (sb_cars_r, wb_bus_t, ...), so a
// mode is selected by its infix rather than an enumerated column list.
const (
	carsSelector  = "_cars_"
	busSelector   = "_bus_"
	truckSelector = "_truck_"
)

var directionPrefixes = []string{"sb_", "nb_", "eb_", "wb_"}

// DefaultDropColumns is the standard clean-up list: crossing counts the
// aggregations never consume, geospatial fields, centreline metadata and
// internal identifiers.
var DefaultDropColumns = []string{
	"nx_peds", "sx_peds", "ex_peds", "wx_peds",
	"nx_bike", "sx_bike", "ex_bike", "wx_bike",
	"nx_other", "sx_other", "ex_other", "wx_other",
	"lng", "lat",
	"centreline_type", "centreline_id", "px",
	"_id", "count_id",
}

// IsCarsColumn reports whether name is a car measure column.
func IsCarsColumn(name string) bool { return isModeColumn(name, carsSelector) }

// IsBusColumn reports whether name is a bus measure column.
func IsBusColumn(name string) bool { return isModeColumn(name, busSelector) }

// IsTruckColumn reports whether name is a truck measure column.
func IsTruckColumn(name string) bool { return isModeColumn(name, truckSelector) }

// IsMeasureColumn reports whether name is any vehicle measure column.
func IsMeasureColumn(name string) bool {
	return IsCarsColumn(name) || IsBusColumn(name) || IsTruckColumn(name)
}

func isModeColumn(name, selector string) bool {
	if !strings.Contains(name, selector) {
		return false
	}
	for _, p := range directionPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// SelectColumns returns the column names for which pred holds, in input order.
func SelectColumns(names []string, pred func(string) bool) []string {
	var out []string
	for _, n := range names {
		if pred(n) {
			out = append(out, n)
		}
	}
	return out
}

func hasColumn(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
