package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"trafficpulse/internal/models"
	"trafficpulse/internal/output"
	"trafficpulse/internal/pipeline"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "trafficpulse",
	Short: "Aggregates traffic-count datasets and flags congestion-candidate hours",
	Long: `trafficpulse ingests a turning-movement-count CSV, cleans and reshapes it,
aggregates vehicle-mode counts by location and hour, ranks the busiest
locations per mode, and flags hours whose combined traffic volume sits at or
above an approximate 90th-percentile threshold.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cfg.InputFile == "" {
			fmt.Fprintln(os.Stderr, "Error: no input file (set --input or input_file in the config)")
			os.Exit(1)
		}

		results, err := pipeline.New(cfg).Run()
		if err != nil {
			log.Fatalf("pipeline failed: %v", err)
		}

		if err := writeResults(cfg, results); err != nil {
			log.Fatalf("writing results failed: %v", err)
		}
	},
}

func writeResults(cfg *models.Config, results *pipeline.Results) error {
	ctx := context.Background()

	writer, err := output.ForConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, table := range results.Tables() {
		if err := writer.WriteTable(table.Name, table.Frame); err != nil {
			return err
		}
	}

	if cfg.PostgresEnabled {
		pg, err := output.NewPostgresWriter(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pg.Close()
		for _, table := range results.Tables() {
			if err := pg.WriteTable(table.Name, table.Frame); err != nil {
				return err
			}
		}
	}

	if cfg.KafkaEnabled {
		kafka, err := output.NewKafkaWriter(cfg.KafkaBrokerList)
		if err != nil {
			return err
		}
		defer kafka.Close()
		if err := kafka.WriteTable(cfg.KafkaTopic, results.Congestion.Flagged); err != nil {
			return err
		}
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.json)")

	rootCmd.Flags().String("input", "", "Path to the raw traffic-count CSV (or .xlsx)")
	rootCmd.Flags().Int("top-n", 10, "Rows to keep in each per-mode ranking")
	rootCmd.Flags().Float64("percentile", 0.9, "Percentile used as the congestion threshold")
	rootCmd.Flags().Float64("relative-error", 0.05, "Relative rank error bound of the quantile sketch")
	rootCmd.Flags().String("output-format", "console", "Result format: csv, json, parquet, xlsx or console")
	rootCmd.Flags().String("output-path", "", "Base directory for result files")
	rootCmd.Flags().String("output-destination", "local", "Where result files go: local or s3")
	rootCmd.Flags().Bool("postgres-enabled", false, "Also persist results to Postgres")
	rootCmd.Flags().Bool("kafka-enabled", false, "Publish flagged hours to Kafka")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")

	viper.BindPFlag("input_file", rootCmd.Flags().Lookup("input"))
	viper.BindPFlag("top_n", rootCmd.Flags().Lookup("top-n"))
	viper.BindPFlag("congestion_percentile", rootCmd.Flags().Lookup("percentile"))
	viper.BindPFlag("quantile_relative_error", rootCmd.Flags().Lookup("relative-error"))
	viper.BindPFlag("output_format", rootCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output_path", rootCmd.Flags().Lookup("output-path"))
	viper.BindPFlag("output_destination", rootCmd.Flags().Lookup("output-destination"))
	viper.BindPFlag("postgres_enabled", rootCmd.Flags().Lookup("postgres-enabled"))
	viper.BindPFlag("kafka_enabled", rootCmd.Flags().Lookup("kafka-enabled"))
	viper.BindPFlag("kafka_broker_list", rootCmd.Flags().Lookup("kafka-broker-list"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
