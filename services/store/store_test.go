package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/propertydealworker/services/classifier"
)

func f64(v float64) *float64 { return &v }

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "properties.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	first := time.Date(2024, 6, 14, 8, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	n, err := s.SaveAnomalyResults(ctx, []classifier.AnomalyResult{
		{District: "العليا", Price: f64(1500000), Area: f64(500), PricePerMeter: f64(3000), Category: "High", IsAnomaly: true, AnomalyScore: 0.93},
	}, first)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.SaveAnomalyResults(ctx, []classifier.AnomalyResult{
		{District: "الملقا", Price: f64(450000), Area: f64(500)},
		{District: "النرجس", PricePerMeter: f64(1500), Category: "Medium"},
	}, second)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recent, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// newest batch first, later inserts first within a batch
	assert.Equal(t, "النرجس", recent[0].District)
	assert.Equal(t, "الملقا", recent[1].District)
	assert.Equal(t, "العليا", recent[2].District)

	assert.Nil(t, recent[1].PricePerMeter)
	assert.Nil(t, recent[1].Category)
	assert.False(t, recent[1].IsAnomaly)

	assert.True(t, recent[2].IsAnomaly)
	assert.Equal(t, 0.93, recent[2].AnomalyScore)
	assert.Equal(t, f64(3000), recent[2].PricePerMeter)
	require.NotNil(t, recent[2].Category)
	assert.Equal(t, "High", *recent[2].Category)
	assert.True(t, first.Equal(recent[2].DateAdded))
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	results := make([]classifier.AnomalyResult, 5)
	for i := range results {
		results[i] = classifier.AnomalyResult{District: "العليا", AnomalyScore: float64(i)}
	}
	_, err := s.SaveAnomalyResults(ctx, results, time.Now())
	require.NoError(t, err)

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 4.0, recent[0].AnomalyScore)
}

func TestRecentEmpty(t *testing.T) {
	recent, err := openTestStore(t).Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}

func TestSaveNothing(t *testing.T) {
	n, err := openTestStore(t).SaveAnomalyResults(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.SaveAnomalyResults(context.Background(), []classifier.AnomalyResult{{District: "العليا"}}, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	recent, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
