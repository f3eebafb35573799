package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covid-visualizer/models"
	"covid-visualizer/utils"
)

func TestStagingPositions(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []int
	}{
		{"nyt layout", []string{"date", "state", "fips", "cases", "deaths"}, []int{0, 1, 3, 4}},
		{"reordered and cased", []string{"Deaths", " CASES", "State", "Date"}, []int{3, 2, 1, 0}},
		{"missing deaths", []string{"date", "state", "cases"}, []int{0, 1, 2, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stagingPositions(tt.header))
		})
	}
}

func TestFieldAt(t *testing.T) {
	fields := []string{"a", "b"}
	assert.Equal(t, "a", fieldAt(fields, 0))
	assert.Equal(t, "", fieldAt(fields, 2))
	assert.Equal(t, "", fieldAt(fields, -1))
}

// Runs against a real server only when POSTGRES_TEST_DSN is set.
func TestPostgresSourceRoundTrip(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set; skipping PostgreSQL integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	retry := &utils.RetryConfig{MaxAttempts: 2, BaseDelay: time.Second, Logger: utils.Discard()}
	ps, err := NewPostgresSource(ctx, dsn, "covid_staging_test", retry)
	require.NoError(t, err)
	defer ps.Close()

	in := &models.RawTable{
		Header: []string{"date", "state", "fips", "cases", "deaths"},
		Rows: []models.RawRow{
			{Line: 2, Fields: []string{"2021-01-01", "Washington", "53", "10", "1"}},
			{Line: 3, Fields: []string{"2021-01-02", "Oregon", "41", "7", "0"}},
		},
	}

	n, err := ps.Import(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out, err := ps.ReadTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "state", "cases", "deaths"}, out.Header)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, []string{"2021-01-01", "Washington", "10", "1"}, out.Rows[0].Fields)
	assert.Equal(t, 3, out.Rows[1].Line)

	loaded, err := ps.LoadedAt(ctx)
	require.NoError(t, err)
	assert.False(t, loaded.IsZero())

	require.NoError(t, ps.Clear(ctx))
}
