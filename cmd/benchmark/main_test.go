package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/sectiontable/pkg/dataset"
)

func TestSweep(t *testing.T) {
	//** Arrange
	input, err := dataset.Default()
	require.NoError(t, err)

	//** Act
	concurrent, err := sweep(context.Background(), input, 10, 8, 4)
	require.NoError(t, err)
	sequential, err := sweep(context.Background(), input, 10, 8, 1)
	require.NoError(t, err)

	//** Assert
	require.Len(t, concurrent, 8)
	for i, result := range concurrent {
		assert.Equal(t, uint64(10+i), result.Seed)
		assert.True(t, result.Verified)
		assert.Equal(t, 19*48, result.TotalSlots)
		assert.Equal(t, result.TotalSlots-result.FilledSlots, result.UnplacedHours)

		// Concurrency does not change what a seed produces
		assert.Equal(t, sequential[i].FilledSlots, result.FilledSlots)
		assert.Equal(t, sequential[i].Shortfalls, result.Shortfalls)
	}

	_, err = sweep(context.Background(), input, 0, -1, 1)
	assert.Error(t, err)
}

func TestToCsv(t *testing.T) {
	//** Arrange
	var buffer bytes.Buffer
	results := []BenchmarkResult{
		{Seed: 1, Duration: 250, FilledSlots: 40, TotalSlots: 48, SectionsFilled: 0, Shortfalls: 2, UnplacedHours: 8, Verified: true},
	}

	//** Act
	require.NoError(t, toCsv(&buffer, results))

	//** Assert
	records, err := csv.NewReader(&buffer).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Seed", records[0][0])
	assert.Equal(t, []string{"1", "250", "40", "48", "0", "2", "8", "true"}, records[1])
}

func TestMeanFill(t *testing.T) {
	assert.Equal(t, 0.0, meanFill(nil))
	assert.InDelta(t, 0.75, meanFill([]BenchmarkResult{{FilledSlots: 48, TotalSlots: 48}, {FilledSlots: 24, TotalSlots: 48}}), 1e-9)
}
