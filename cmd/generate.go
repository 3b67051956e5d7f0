package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"trafficpulse/internal/generator"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic traffic-count CSV for demos and testing",
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := cmd.Flags().GetString("out")
		locations, _ := cmd.Flags().GetInt("locations")
		days, _ := cmd.Flags().GetInt("days")
		seed, _ := cmd.Flags().GetInt64("seed")
		startDate, _ := cmd.Flags().GetString("start-date")
		quiet, _ := cmd.Flags().GetBool("quiet")

		opts := generator.Options{
			Locations: locations,
			Days:      days,
			Seed:      seed,
			Quiet:     quiet,
		}
		if startDate != "" {
			t, err := time.Parse("2006-01-02", startDate)
			if err != nil {
				log.Fatalf("invalid --start-date: %v", err)
			}
			opts.StartDate = t
		}

		if err := generator.New(opts).WriteFile(out); err != nil {
			log.Fatalf("generation failed: %v", err)
		}
		log.Printf("wrote synthetic dataset to %s", out)
	},
}

func init() {
	generateCmd.Flags().String("out", "traffic_counts.csv", "Output CSV path")
	generateCmd.Flags().Int("locations", 25, "Number of count locations")
	generateCmd.Flags().Int("days", 3, "Number of count days per location")
	generateCmd.Flags().Int64("seed", 42, "Random seed")
	generateCmd.Flags().String("start-date", "", "First count date (YYYY-MM-DD)")
	generateCmd.Flags().Bool("quiet", false, "Suppress the progress bar")

	rootCmd.AddCommand(generateCmd)
}
