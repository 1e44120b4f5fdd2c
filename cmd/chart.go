/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scrobbletools/scrobble-race/internal/chart"
	"github.com/scrobbletools/scrobble-race/internal/store"
)

var (
	chartTopN      int
	chartGridLimit int
	chartMinPlays  int
	chartWorkers   int
	chartStrict    bool
	chartOutput    string
)

var chartCmd = &cobra.Command{
	Use:   "chart [from] [to (optional)]",
	Short: "Builds the bar-chart-race dataset",
	Long: `Turns stored scrobbles into a monthly ranked cumulative-play CSV for an
animation renderer. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd';
with no dates the full history is used.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := writeChart(viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().IntVar(&chartTopN, "top-n", chart.DefaultTopN, "Number of artists to keep per month")
	chartCmd.Flags().IntVar(&chartGridLimit, "grid-limit", chart.DefaultGridLimit, "Max allowed artist x month product")
	chartCmd.Flags().IntVar(&chartMinPlays, "min-plays", 0, "Drop artists with fewer lifetime plays before building the grid")
	chartCmd.Flags().IntVar(&chartWorkers, "workers", 0, "Parallelism of the fill stage (0 = number of CPUs)")
	chartCmd.Flags().BoolVar(&chartStrict, "strict", false, "Treat an empty listening history as an error")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "Output file (default stdout)")
}

func writeChart(dbPath string, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if chartOutput != "" {
		f, err := os.Create(chartOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	summary, err := buildChart(out, dbPath, viper.GetString("user"), start, end)
	if err != nil {
		return err
	}
	if summary.Count > 0 {
		fmt.Fprintln(os.Stderr, summary.String())
	}
	return nil
}

func buildChart(out io.Writer, dbPath string, user string, start, end time.Time) (*chart.SkipSummary, error) {
	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	plays, err := db.ListPlays(strings.ToLower(user), start, end)
	if err != nil {
		return nil, fmt.Errorf("reading plays: %w", err)
	}

	events := make([]chart.RawEvent, 0, len(plays))
	for _, p := range plays {
		events = append(events, chart.RawEvent{Artist: p.Artist, Timestamp: p.Date})
	}

	cfg := chart.Config{
		TopN:      chartTopN,
		GridLimit: chartGridLimit,
		MinPlays:  chartMinPlays,
		Workers:   chartWorkers,
		Strict:    chartStrict,
	}
	return chart.RunTo(out, events, cfg)
}
