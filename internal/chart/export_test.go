package chart

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportOrdersByPeriodThenRank(t *testing.T) {
	rows := []RankedRow{
		{Artist: "B", Period: 2, Label: "2022-02", Count: 4, Rank: 2, Ordering: 19},
		{Artist: "A", Period: 1, Label: "2022-01", Count: 3, Rank: 1, Ordering: 20},
		{Artist: "A", Period: 2, Label: "2022-02", Count: 5, Rank: 1, Ordering: 20},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, Export(buf, rows))

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"period", "month", "artist", "plays", "rank", "ordering"}, records[0])
	assert.Equal(t, []string{"1", "2022-01", "A", "3", "1", "20.0"}, records[1])
	assert.Equal(t, []string{"2", "2022-02", "A", "5", "1", "20.0"}, records[2])
	assert.Equal(t, []string{"2", "2022-02", "B", "4", "2", "19.0"}, records[3])
}

func TestExportOrderingIsRealValued(t *testing.T) {
	rows := []RankedRow{
		{Artist: "A", Period: 1, Label: "2022-01", Count: 1, Rank: 1, Ordering: 20},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, Export(buf, rows))

	// The renderer interpolates between frames, so ordering must carry a
	// decimal point even for whole numbers.
	assert.True(t, strings.Contains(buf.String(), ",20.0"), "got %q", buf.String())
}

func TestExportEmpty(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Export(buf, nil))
	assert.Equal(t, "period,month,artist,plays,rank,ordering\n", buf.String())
}

func TestExportDoesNotMutateInput(t *testing.T) {
	rows := []RankedRow{
		{Artist: "B", Period: 2, Rank: 1},
		{Artist: "A", Period: 1, Rank: 1},
	}

	require.NoError(t, Export(new(bytes.Buffer), rows))
	assert.Equal(t, "B", rows[0].Artist)
}
