package output

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetWriter writes each result table as a parquet file, locally or
// through the cloud writer. The schema is derived from the frame's column
// types.
type ParquetWriter struct {
	sinks *sinkOpener
}

func NewParquetWriter(sinks *sinkOpener) *ParquetWriter {
	return &ParquetWriter{sinks: sinks}
}

func (p *ParquetWriter) WriteTable(name string, df dataframe.DataFrame) error {
	sink, err := p.sinks.open(name, "parquet")
	if err != nil {
		return err
	}
	pf := newSinkParquetFile(sink)

	pw, err := writer.NewCSVWriter(schemaFor(df), pf, 4)
	if err != nil {
		pf.Close()
		return fmt.Errorf("failed to create parquet writer for %s: %w", name, err)
	}

	records := df.Records()
	for _, rec := range records[1:] {
		row := make([]*string, len(rec))
		for i := range rec {
			v := rec[i]
			row[i] = &v
		}
		if err := pw.WriteString(row); err != nil {
			pf.Close()
			return fmt.Errorf("failed to write parquet row for %s: %w", name, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		pf.Close()
		return fmt.Errorf("failed to finalize parquet file for %s: %w", name, err)
	}
	return pf.Close()
}

func (p *ParquetWriter) Close() error { return nil }

// schemaFor maps gota column types onto parquet-go CSV metadata.
func schemaFor(df dataframe.DataFrame) []string {
	names := df.Names()
	types := df.Types()
	md := make([]string, len(names))
	for i, name := range names {
		switch types[i] {
		case series.Int:
			md[i] = fmt.Sprintf("name=%s, type=INT64", name)
		case series.Float:
			md[i] = fmt.Sprintf("name=%s, type=DOUBLE", name)
		case series.Bool:
			md[i] = fmt.Sprintf("name=%s, type=BOOLEAN", name)
		default:
			md[i] = fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY", name)
		}
	}
	return md
}

// sinkParquetFile adapts an io.WriteCloser to the source.ParquetFile
// interface. Parquet output is written front to back, so reads and seeks are
// unsupported.
type sinkParquetFile struct {
	w      io.WriteCloser
	offset int64
}

func newSinkParquetFile(w io.WriteCloser) *sinkParquetFile {
	return &sinkParquetFile{w: w}
}

func (f *sinkParquetFile) Open(name string) (source.ParquetFile, error)   { return f, nil }
func (f *sinkParquetFile) Create(name string) (source.ParquetFile, error) { return f, nil }

func (f *sinkParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		f.offset = offset
	case io.SeekCurrent:
		f.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported")
	}
	return f.offset, nil
}

func (f *sinkParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported")
}

func (f *sinkParquetFile) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	f.offset += int64(n)
	return n, err
}

func (f *sinkParquetFile) Close() error {
	return f.w.Close()
}
