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
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scrobbletools/scrobble-race/internal/chart"
	"github.com/scrobbletools/scrobble-race/internal/store"
)

var standingsNumber int

var standingsCmd = &cobra.Command{
	Use:   "standings <month>",
	Short: "Shows the ranked standings for one month",
	Long: `Prints the cumulative-play top artists for a single month of the race,
for sanity-checking the dataset before rendering. The month looks like 'yyyy-mm'.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printStandings(os.Stdout, viper.GetString("database"), args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(standingsCmd)

	standingsCmd.Flags().IntVarP(&standingsNumber, "number", "n", chart.DefaultTopN, "number of artists to show")
}

func printStandings(out io.Writer, dbPath string, monthArg string) error {
	month, err := parseSingleDatestring(monthArg)
	if err != nil {
		return err
	}
	if !month.Month {
		return fmt.Errorf("Expected a month like 'yyyy-mm', got %q", monthArg)
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Cumulative counts need the full history up to the end of the
	// requested month, not just that month's plays.
	end := month.Date.AddDate(0, 1, 0)
	plays, err := db.ListPlays(strings.ToLower(viper.GetString("user")), time.Time{}, end)
	if err != nil {
		return fmt.Errorf("reading plays: %w", err)
	}

	events := make([]chart.RawEvent, 0, len(plays))
	for _, p := range plays {
		events = append(events, chart.RawEvent{Artist: p.Artist, Timestamp: p.Date})
	}

	rows, summary, err := chart.Run(events, chart.Config{TopN: standingsNumber})
	if err != nil {
		return err
	}

	label := month.Date.Format("2006-01")
	var monthRows []chart.RankedRow
	for _, row := range rows {
		if row.Label == label {
			monthRows = append(monthRows, row)
		}
	}
	if len(monthRows) == 0 {
		fmt.Fprintf(out, "No listening data through %s\n", label)
		return nil
	}

	buf := new(bytes.Buffer)
	table := tablewriter.NewWriter(buf)
	table.Header([]string{"Rank", "Artist", "Plays"})
	for _, row := range monthRows {
		record := []string{strconv.Itoa(row.Rank), row.Artist, strconv.Itoa(row.Count)}
		if err := table.Append(record); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	fmt.Fprintf(out, "Standings for %s\n%s", label, buf.String())
	if summary.Count > 0 {
		fmt.Fprintln(os.Stderr, summary.String())
	}
	return nil
}
