package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"trafficpulse/internal/cloudwriter"
	"trafficpulse/internal/models"
)

// TableWriter persists one named result table per call. Implementations are
// file formats (csv, json, parquet, xlsx), a console printer, Postgres and
// Kafka.
type TableWriter interface {
	WriteTable(name string, df dataframe.DataFrame) error
	Close() error
}

// ForConfig picks the file/console writer for the configured output format.
// The context bounds any cloud uploads the writer performs.
func ForConfig(ctx context.Context, cfg *models.Config) (TableWriter, error) {
	sinks, err := newSinkOpener(ctx, cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.OutputFormat {
	case "csv":
		return &CSVWriter{sinks: sinks}, nil
	case "json":
		return &JSONWriter{sinks: sinks}, nil
	case "parquet":
		return NewParquetWriter(sinks), nil
	case "xlsx":
		return &XLSXWriter{basePath: cfg.OutputPath, folder: cfg.OutputFolder}, nil
	case "console", "":
		return &ConsoleWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	}
}

// sinkOpener opens one io.WriteCloser per table, either a local file under
// basePath/folder or an object in cloud storage.
type sinkOpener struct {
	ctx          context.Context
	basePath     string
	folder       string
	cloudFactory cloudwriter.CloudWriterFactory
	bucket       string
}

func newSinkOpener(ctx context.Context, cfg *models.Config) (*sinkOpener, error) {
	s := &sinkOpener{ctx: ctx, basePath: cfg.OutputPath, folder: cfg.OutputFolder}

	if cfg.OutputDestination != "" && cfg.OutputDestination != "local" {
		var factory cloudwriter.CloudWriterFactory
		var err error

		switch cfg.CloudStorage.Provider {
		case "s3":
			factory, err = cloudwriter.NewS3WriterFactory(ctx, cfg.CloudStorage.Region)
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}

		s.cloudFactory = factory
		s.bucket = cfg.CloudStorage.BucketName
	}
	return s, nil
}

func (s *sinkOpener) open(name, ext string) (io.WriteCloser, error) {
	fileName := name + "." + ext
	if s.cloudFactory != nil {
		objectPath := filepath.Join(s.folder, fileName)
		return s.cloudFactory.NewWriter(s.ctx, s.bucket, objectPath)
	}

	dir := filepath.Join(s.basePath, s.folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(dir, fileName))
}

type CSVWriter struct {
	sinks *sinkOpener
}

func (c *CSVWriter) WriteTable(name string, df dataframe.DataFrame) error {
	w, err := c.sinks.open(name, "csv")
	if err != nil {
		return err
	}
	if err := df.WriteCSV(w, dataframe.WriteHeader(true)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write %s as csv: %w", name, err)
	}
	return w.Close()
}

func (c *CSVWriter) Close() error { return nil }

type JSONWriter struct {
	sinks *sinkOpener
}

func (j *JSONWriter) WriteTable(name string, df dataframe.DataFrame) error {
	w, err := j.sinks.open(name, "json")
	if err != nil {
		return err
	}
	if err := df.WriteJSON(w); err != nil {
		w.Close()
		return fmt.Errorf("failed to write %s as json: %w", name, err)
	}
	return w.Close()
}

func (j *JSONWriter) Close() error { return nil }

type ConsoleWriter struct{}

func (c *ConsoleWriter) WriteTable(name string, df dataframe.DataFrame) error {
	output := fmt.Sprintf("== %s ==\n%v\n", name, df)
	if _, err := os.Stdout.Write([]byte(output)); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

func (c *ConsoleWriter) Close() error { return nil }
