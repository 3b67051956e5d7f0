package output

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"trafficpulse/internal/cloudwriter"
	"trafficpulse/internal/models"
)

func sampleTable(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.New(
		series.New([]string{"A", "B"}, series.String, "location_id"),
		series.New([]int{10, 20}, series.Int, "total_cars"),
		series.New([]float64{1.5, 2.5}, series.Float, "score"),
	)
	if df.Err != nil {
		t.Fatalf("building frame: %v", df.Err)
	}
	return df
}

func TestForConfigFormats(t *testing.T) {
	cases := []struct {
		format string
		want   interface{}
	}{
		{"csv", &CSVWriter{}},
		{"json", &JSONWriter{}},
		{"parquet", &ParquetWriter{}},
		{"xlsx", &XLSXWriter{}},
		{"console", &ConsoleWriter{}},
		{"", &ConsoleWriter{}},
	}
	for _, tc := range cases {
		w, err := ForConfig(context.Background(), &models.Config{OutputFormat: tc.format})
		if err != nil {
			t.Errorf("ForConfig(%q): %v", tc.format, err)
			continue
		}
		if reflect.TypeOf(w) != reflect.TypeOf(tc.want) {
			t.Errorf("ForConfig(%q) = %T, want %T", tc.format, w, tc.want)
		}
	}
}

func TestForConfigUnsupportedFormat(t *testing.T) {
	_, err := ForConfig(context.Background(), &models.Config{OutputFormat: "avro"})
	if err == nil || !strings.Contains(err.Error(), "unsupported output format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

// memoryCloudFactory captures the context and object path each writer was
// opened with, and keeps the uploaded bytes.
type memoryCloudFactory struct {
	ctx     context.Context
	objects map[string]*bytes.Buffer
}

func (f *memoryCloudFactory) NewWriter(ctx context.Context, bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	f.ctx = ctx
	buf := &bytes.Buffer{}
	f.objects[bucket+"/"+objectPath] = buf
	return nopCloser{buf}, nil
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func TestCSVWriterCloudSink(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "run")
	factory := &memoryCloudFactory{objects: map[string]*bytes.Buffer{}}

	w := &CSVWriter{sinks: &sinkOpener{
		ctx:          ctx,
		folder:       "results",
		cloudFactory: factory,
		bucket:       "traffic",
	}}
	if err := w.WriteTable("hourly_location_totals", sampleTable(t)); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	if factory.ctx != ctx {
		t.Error("caller context did not reach the cloud writer factory")
	}
	buf, ok := factory.objects["traffic/results/hourly_location_totals.csv"]
	if !ok {
		t.Fatalf("object not uploaded, have %v", factory.objects)
	}
	if !strings.Contains(buf.String(), "location_id") {
		t.Errorf("uploaded object missing csv header: %q", buf.String())
	}
}

func TestCSVWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := &CSVWriter{sinks: &sinkOpener{basePath: dir, folder: "run"}}

	df := sampleTable(t)
	if err := w.WriteTable("hourly_location_totals", df); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "run", "hourly_location_totals.csv"))
	if err != nil {
		t.Fatalf("opening written file: %v", err)
	}
	defer f.Close()

	back := dataframe.ReadCSV(f)
	if back.Err != nil {
		t.Fatalf("reading back: %v", back.Err)
	}
	if !reflect.DeepEqual(back.Records(), df.Records()) {
		t.Errorf("round trip mismatch:\n%v\nvs\n%v", back.Records(), df.Records())
	}
}

func TestJSONWriterCreatesFile(t *testing.T) {
	dir := t.TempDir()
	w := &JSONWriter{sinks: &sinkOpener{basePath: dir, folder: "run"}}

	if err := w.WriteTable("top_locations_cars", sampleTable(t)); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "run", "top_locations_cars.json"))
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if !strings.Contains(string(data), `"location_id"`) {
		t.Errorf("json output missing column data: %s", data)
	}
}

func TestSchemaFor(t *testing.T) {
	got := schemaFor(sampleTable(t))
	want := []string{
		"name=location_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY",
		"name=total_cars, type=INT64",
		"name=score, type=DOUBLE",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("schemaFor = %v, want %v", got, want)
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	cases := map[string]string{
		"total_cars":       "total_cars",
		"Total Cars":       "total_cars",
		"hour-start":       "hour_start",
		"px2":              "px2",
		"drop; table foo":  "drop__table_foo",
		"location_id'; --": "location_id_____",
	}
	for in, want := range cases {
		if got := sanitizeIdentifier(in); got != want {
			t.Errorf("sanitizeIdentifier(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSQLType(t *testing.T) {
	cases := map[series.Type]string{
		series.Int:    "BIGINT",
		series.Float:  "DOUBLE PRECISION",
		series.Bool:   "BOOLEAN",
		series.String: "TEXT",
	}
	for in, want := range cases {
		if got := sqlType(in); got != want {
			t.Errorf("sqlType(%v) = %q, want %q", in, got, want)
		}
	}
}
