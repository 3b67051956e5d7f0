package generator

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"
)

// Options sizes the synthetic dataset.
type Options struct {
	Locations int
	Days      int
	StartDate time.Time
	Seed      int64
	// Quiet suppresses the progress bar.
	Quiet bool
}

// Generator produces a raw turning-movement-count CSV in the ingestion
// schema: identifier columns, 15-minute interval timestamps and one count
// column per direction/vehicle/movement combination.
type Generator struct {
	opts   Options
	fake   faker.Faker
	rng    *rand.Rand
	nextID int
}

var (
	directions = []string{"sb", "nb", "eb", "wb"}
	vehicles   = []string{"cars", "truck", "bus"}
	movements  = []string{"r", "t", "l"}
	crossings  = []string{"nx", "sx", "ex", "wx"}
	crossTypes = []string{"peds", "bike", "other"}
)

func New(opts Options) *Generator {
	if opts.Locations <= 0 {
		opts.Locations = 10
	}
	if opts.Days <= 0 {
		opts.Days = 1
	}
	if opts.StartDate.IsZero() {
		opts.StartDate = time.Now().AddDate(0, 0, -opts.Days)
	}
	return &Generator{
		opts:   opts,
		fake:   faker.NewWithSeed(rand.NewSource(opts.Seed)),
		rng:    rand.New(rand.NewSource(opts.Seed)),
		nextID: 1,
	}
}

// Header returns the raw column names in file order.
func Header() []string {
	header := []string{
		"_id", "count_id", "count_date", "location_id", "location",
		"lng", "lat", "centreline_type", "centreline_id", "px",
		"time_start", "time_end",
	}
	for _, dir := range directions {
		for _, veh := range vehicles {
			for _, mov := range movements {
				header = append(header, dir+"_"+veh+"_"+mov)
			}
		}
	}
	for _, x := range crossings {
		for _, t := range crossTypes {
			header = append(header, x+"_"+t)
		}
	}
	return header
}

// WriteFile generates the dataset into a CSV file at path.
func (g *Generator) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return g.Write(f)
}

// Write generates the dataset onto w.
func (g *Generator) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if !g.opts.Quiet {
		bar = progressbar.Default(int64(g.opts.Locations*g.opts.Days), "generating")
	}

	for loc := 0; loc < g.opts.Locations; loc++ {
		locationID := strconv.Itoa(1000 + loc)
		locationName := fmt.Sprintf("%s / %s",
			g.fake.Address().StreetName(), g.fake.Address().StreetName())
		lng := -79.6 + g.rng.Float64()*0.5
		lat := 43.6 + g.rng.Float64()*0.2
		centrelineID := strconv.Itoa(g.fake.IntBetween(100000, 999999))
		px := strconv.Itoa(g.fake.IntBetween(1, 2500))

		for day := 0; day < g.opts.Days; day++ {
			date := g.opts.StartDate.AddDate(0, 0, day)
			countID := cuid.New()
			if err := g.writeDay(cw, countID, date, locationID, locationName, lng, lat, centrelineID, px); err != nil {
				return err
			}
			if bar != nil {
				bar.Add(1)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func (g *Generator) nextRowID() string {
	id := g.nextID
	g.nextID++
	return strconv.Itoa(id)
}

func (g *Generator) writeDay(cw *csv.Writer, countID string, date time.Time, locationID, locationName string, lng, lat float64, centrelineID, px string) error {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	// Counts cover 06:00-20:00 in 15-minute intervals.
	for hour := 6; hour < 20; hour++ {
		for quarter := 0; quarter < 4; quarter++ {
			start := day.Add(time.Duration(hour)*time.Hour + time.Duration(quarter*15)*time.Minute)
			end := start.Add(15 * time.Minute)

			row := []string{
				g.nextRowID(),
				countID,
				day.Format("2006-01-02"),
				locationID,
				locationName,
				strconv.FormatFloat(lng, 'f', 6, 64),
				strconv.FormatFloat(lat, 'f', 6, 64),
				"intersection",
				centrelineID,
				px,
				start.Format("2006-01-02 15:04:05"),
				end.Format("2006-01-02 15:04:05"),
			}

			peak := peakFactor(hour)
			for range directions {
				for _, veh := range vehicles {
					base := baseVolume(veh)
					for range movements {
						count := int(float64(g.rng.Intn(base+1)) * peak)
						row = append(row, strconv.Itoa(count))
					}
				}
			}
			for range crossings {
				for range crossTypes {
					row = append(row, strconv.Itoa(g.rng.Intn(20)))
				}
			}

			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// peakFactor shapes the daily traffic curve around the AM and PM rush.
func peakFactor(hour int) float64 {
	switch {
	case hour >= 7 && hour <= 9:
		return 2.0
	case hour >= 16 && hour <= 18:
		return 2.2
	default:
		return 1.0
	}
}

func baseVolume(vehicle string) int {
	switch vehicle {
	case "cars":
		return 120
	case "truck":
		return 15
	default: // bus
		return 8
	}
}
