package chart

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Export writes ranked rows as CSV, ordered by period ascending then rank
// ascending, the order the renderer consumes frames in. Values are written
// untransformed; ordering is written as a real number because the renderer
// interpolates fractional positions between consecutive frames.
func Export(w io.Writer, rows []RankedRow) error {
	sorted := make([]RankedRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Period != sorted[j].Period {
			return sorted[i].Period < sorted[j].Period
		}
		return sorted[i].Rank < sorted[j].Rank
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "month", "artist", "plays", "rank", "ordering"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range sorted {
		record := []string{
			strconv.Itoa(row.Period),
			row.Label,
			row.Artist,
			strconv.Itoa(row.Count),
			strconv.Itoa(row.Rank),
			strconv.FormatFloat(row.Ordering, 'f', 1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row for %q at period %d: %w", row.Artist, row.Period, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
