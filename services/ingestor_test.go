package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covid-visualizer/models"
	"covid-visualizer/utils"
)

const fixtureCSV = "date,state,fips,cases,deaths\n" +
	"2021-01-01,Washington,53,10,1\n" +
	"2021-01-01,Oregon,41,99,9\n" +
	"2021-01-02,WASHINGTON,53,50,5\n" +
	"2021-01-02,Idaho,16,7,0\n" +
	"2021-01-03,washington,53,30,2\n"

func day(d int) time.Time {
	return time.Date(2021, time.January, d, 0, 0, 0, 0, time.UTC)
}

func table(header []string, rows ...[]string) *models.RawTable {
	t := &models.RawTable{Header: header}
	for i, r := range rows {
		t.Rows = append(t.Rows, models.RawRow{Line: i + 2, Fields: r})
	}
	return t
}

func newTestIngestor(opts IngestOptions) *Ingestor {
	return NewIngestor(utils.Discard(), opts)
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "us-states-covid.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestFileEndToEnd(t *testing.T) {
	in := newTestIngestor(IngestOptions{Region: "washington"})

	store, err := in.IngestFile(context.Background(), writeFixture(t, fixtureCSV))
	require.NoError(t, err)

	require.Equal(t, 3, store.Len())
	assert.Equal(t, []time.Time{day(1), day(2), day(3)}, store.Dates())
	assert.Equal(t, []int{10, 50, 30}, store.Cases())
	assert.Equal(t, []int{1, 5, 2}, store.Deaths())
	assert.Empty(t, store.Rejected)
}

func TestIngestFileRejectsEmptyPath(t *testing.T) {
	in := newTestIngestor(IngestOptions{})

	_, err := in.IngestFile(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIngestFileMissingFile(t *testing.T) {
	in := newTestIngestor(IngestOptions{})

	_, err := in.IngestFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildRegionFilterIsCaseInsensitive(t *testing.T) {
	header := []string{"date", "state", "cases", "deaths"}
	tbl := table(header,
		[]string{"2021-01-01", "Washington", "1", "0"},
		[]string{"2021-01-02", "WASHINGTON", "2", "0"},
		[]string{"2021-01-03", "washington", "3", "0"},
		[]string{"2021-01-04", "Washington DC", "4", "0"},
		[]string{"2021-01-05", "Oregon", "5", "0"},
	)

	store, err := newTestIngestor(IngestOptions{Region: "WaShInGtOn"}).Build(tbl)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, store.Cases())
	assert.Equal(t, "WaShInGtOn", store.Region)
}

func TestBuildDefaultsRegion(t *testing.T) {
	tbl := table([]string{"date", "state", "cases", "deaths"},
		[]string{"2021-01-01", "Washington", "1", "0"},
		[]string{"2021-01-01", "Oregon", "2", "0"},
	)

	store, err := newTestIngestor(IngestOptions{}).Build(tbl)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, store.Region)
	assert.Equal(t, []int{1}, store.Cases())
}

func TestBuildConfigurableRegion(t *testing.T) {
	tbl := table([]string{"date", "state", "cases", "deaths"},
		[]string{"2021-01-01", "Washington", "1", "0"},
		[]string{"2021-01-01", "Oregon", "2", "0"},
	)

	store, err := newTestIngestor(IngestOptions{Region: "oregon"}).Build(tbl)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, store.Cases())
}

func TestBuildAnyColumnOrder(t *testing.T) {
	tbl := table([]string{"Deaths", "CASES", "State", "Date", "fips"},
		[]string{"4", "40", "Washington", "2021-01-09", "53"},
	)

	store, err := newTestIngestor(IngestOptions{}).Build(tbl)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	assert.Equal(t, models.Observation{Date: day(9), Cases: 40, Deaths: 4}, store.Observations[0])
}

func TestBuildTrimsWhitespaceAndSigns(t *testing.T) {
	tbl := table([]string{"date", "state", "cases", "deaths"},
		[]string{" 2021-01-01 ", " Washington ", " -12 ", "+3\r"},
	)

	store, err := newTestIngestor(IngestOptions{}).Build(tbl)
	require.NoError(t, err)
	assert.Equal(t, []int{-12}, store.Cases(), "negative corrections pass through")
	assert.Equal(t, []int{3}, store.Deaths())
}

func TestBuildBadDateDropsWholeRow(t *testing.T) {
	var logs bytes.Buffer
	in := NewIngestor(utils.New(&logs, &logs), IngestOptions{})

	tbl := table([]string{"date", "state", "cases", "deaths"},
		[]string{"2021-01-01", "Washington", "10", "1"},
		[]string{"01/02/2021", "Washington", "50", "5"},
		[]string{"2021-01-03", "Washington", "30", "2"},
	)

	store, err := in.Build(tbl)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.Len(t, store.Dates(), 2)
	assert.Len(t, store.Cases(), 2)
	assert.Len(t, store.Deaths(), 2)
	assert.Equal(t, []int{10, 30}, store.Cases())

	require.Len(t, store.Rejected, 1)
	assert.Equal(t, 3, store.Rejected[0].Line)
	assert.Contains(t, store.Rejected[0].Reason, "YYYY-MM-DD")
	assert.Contains(t, logs.String(), "row skipped")
}

func TestBuildBadDateLogsStack(t *testing.T) {
	var logs bytes.Buffer
	logger := utils.New(&logs, &logs)
	require.False(t, logger.DebugEnabled())

	tbl := table([]string{"date", "state", "cases", "deaths"},
		[]string{"2021-13-40", "Washington", "10", "1"},
	)

	_, err := NewIngestor(logger, IngestOptions{}).Build(tbl)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "stack for line 2")
	assert.Contains(t, logs.String(), "goroutine")
	assert.Contains(t, logs.String(), "WARN")
}

func TestBuildAcceptsUnpaddedDates(t *testing.T) {
	tbl := table([]string{"date", "state", "cases", "deaths"},
		[]string{"2021-1-5", "Washington", "10", "1"},
		[]string{"2021-01-06", "Washington", "20", "2"},
		[]string{"2021-1-07", "Washington", "30", "3"},
	)

	store, err := newTestIngestor(IngestOptions{}).Build(tbl)
	require.NoError(t, err)
	assert.Empty(t, store.Rejected)
	assert.Equal(t, []time.Time{day(5), day(6), day(7)}, store.Dates())
}

func TestBuildNonNumericCountIsFatal(t *testing.T) {
	tests := []struct {
		name   string
		row    []string
		column string
	}{
		{"cases", []string{"2021-01-01", "Washington", "ten", "1"}, "cases"},
		{"deaths", []string{"2021-01-01", "Washington", "10", "1.5"}, "deaths"},
		{"bad date too", []string{"not-a-date", "Washington", "x", "1"}, "cases"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table([]string{"date", "state", "cases", "deaths"}, tt.row)

			_, err := newTestIngestor(IngestOptions{}).Build(tbl)
			require.Error(t, err)

			var numErr *NumericFormatError
			require.True(t, errors.As(err, &numErr))
			assert.Equal(t, tt.column, numErr.Column)
			assert.Equal(t, 2, numErr.Line)
		})
	}
}

func TestBuildNonNumericOtherRegionIgnored(t *testing.T) {
	tbl := table([]string{"date", "state", "cases", "deaths"},
		[]string{"2021-01-01", "Oregon", "n/a", "n/a"},
	)

	store, err := newTestIngestor(IngestOptions{}).Build(tbl)
	require.NoError(t, err)
	assert.True(t, store.Empty())
}

func TestBuildMissingColumns(t *testing.T) {
	t.Run("no state column", func(t *testing.T) {
		tbl := table([]string{"date", "cases", "deaths"}, []string{"2021-01-01", "1", "0"})
		_, err := newTestIngestor(IngestOptions{}).Build(tbl)

		var colErr *MissingColumnError
		require.True(t, errors.As(err, &colErr))
		assert.Equal(t, "state", colErr.Column)
	})

	t.Run("short row", func(t *testing.T) {
		tbl := table([]string{"date", "state", "cases", "deaths"}, []string{"2021-01-01", "Washington", "1"})
		_, err := newTestIngestor(IngestOptions{}).Build(tbl)

		var colErr *MissingColumnError
		require.True(t, errors.As(err, &colErr))
		assert.Equal(t, "deaths", colErr.Column)
		assert.Equal(t, 2, colErr.Line)
	})

	t.Run("no rows means no lookup", func(t *testing.T) {
		store, err := newTestIngestor(IngestOptions{}).Build(table([]string{"foo"}))
		require.NoError(t, err)
		assert.True(t, store.Empty())
	})
}

func TestHeaderCheck(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		strict bool
		warns  bool
	}{
		{"complete header", []string{"date", "state", "cases", "deaths"}, false, false},
		{"one missing, lenient", []string{"date", "state", "cases"}, false, false},
		{"all missing, lenient", []string{"state", "fips"}, false, true},
		{"one missing, strict", []string{"date", "state", "cases"}, true, true},
		{"complete header, strict", []string{"DATE", "State", "Cases", "Deaths"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			in := NewIngestor(utils.New(&logs, &logs), IngestOptions{StrictHeader: tt.strict})

			_, err := in.Build(table(tt.header))
			require.NoError(t, err)

			if tt.warns {
				assert.Contains(t, logs.String(), "header is missing")
			} else {
				assert.NotContains(t, logs.String(), "header is missing")
			}
		})
	}
}

func TestBuildNilTable(t *testing.T) {
	_, err := newTestIngestor(IngestOptions{}).Build(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
