package transform

import (
	"testing"
	"time"

	"github.com/insightrow/sheetsync/internal/clock"
	"github.com/insightrow/sheetsync/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestTransformer() *Transformer {
	return NewTransformer(zap.NewNop(), clock.NewFakeClock(testNow))
}

func TestTransformRowDerivedMetrics(t *testing.T) {
	tr := newTestTransformer()

	metric, ok := tr.TransformRow(sheets.Row{
		"date":     "2024-01-15",
		"leads":    100.0,
		"consults": 40.0,
		"sales":    10.0,
		"spend":    500.0,
	})
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), metric.Date)
	assert.Equal(t, 100, metric.Leads)
	assert.Equal(t, 40, metric.Consults)
	assert.Equal(t, 10, metric.Sales)
	assert.Equal(t, 500.0, metric.Spend)
	assert.Equal(t, 0.02, metric.Roas)
	assert.Equal(t, 0.4, metric.LeadsToConsultRate)
	assert.Equal(t, 0.1, metric.LeadsToSaleRate)
}

func TestTransformRowExplicitRoasWins(t *testing.T) {
	tr := newTestTransformer()

	metric, ok := tr.TransformRow(sheets.Row{
		"date":  "2024-01-15",
		"sales": 10.0,
		"spend": 500.0,
		"roas":  "3.5",
	})
	require.True(t, ok)
	assert.Equal(t, 3.5, metric.Roas)
}

func TestTransformRowZeroDenominators(t *testing.T) {
	tr := newTestTransformer()

	metric, ok := tr.TransformRow(sheets.Row{
		"date":     "2024-01-15",
		"leads":    0.0,
		"consults": 5.0,
		"sales":    2.0,
		"spend":    0.0,
	})
	require.True(t, ok)

	assert.Equal(t, 0.0, metric.Roas)
	assert.Equal(t, 0.0, metric.LeadsToConsultRate)
	assert.Equal(t, 0.0, metric.LeadsToSaleRate)
}

func TestTransformRowSkipsWithoutDateColumn(t *testing.T) {
	tr := newTestTransformer()

	_, ok := tr.TransformRow(sheets.Row{"leads": 5.0, "spend": 10.0})
	assert.False(t, ok)
}

func TestTransformRowSegments(t *testing.T) {
	tr := newTestTransformer()

	metric, ok := tr.TransformRow(sheets.Row{
		"date":     "2024-01-15",
		"channel":  "paid",
		"source":   "google",
		"campaign": "spring",
	})
	require.True(t, ok)

	require.NotNil(t, metric.Medium)
	assert.Equal(t, "paid", *metric.Medium)
	require.NotNil(t, metric.Source)
	assert.Equal(t, "google", *metric.Source)
	require.NotNil(t, metric.Campaign)
	assert.Equal(t, "spring", *metric.Campaign)
	assert.Nil(t, metric.Location)
	assert.Nil(t, metric.User)
	assert.Nil(t, metric.ServicePerson)
}

func TestTransformRowsDropsBadRowsOnly(t *testing.T) {
	tr := newTestTransformer()

	metrics := tr.TransformRows([]sheets.Row{
		{"date": "2024-01-15", "leads": 1.0},
		{"leads": 2.0},
		{"date": "2024-01-16", "leads": 3.0},
	})
	require.Len(t, metrics, 2)
	assert.Equal(t, 1, metrics[0].Leads)
	assert.Equal(t, 3, metrics[1].Leads)
}

func TestParseDateSerialOffset(t *testing.T) {
	tr := newTestTransformer()

	metric, ok := tr.TransformRow(sheets.Row{"date": 10.0})
	require.True(t, ok)
	assert.Equal(t, time.Date(1900, time.January, 11, 0, 0, 0, 0, time.UTC), metric.Date)
}

func TestParseDateLayouts(t *testing.T) {
	tr := newTestTransformer()
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{"2024-01-15", "2024/01/15", "01/15/2024", "1/15/2024", "Jan 15, 2024", "15-Jan-2024"} {
		metric, ok := tr.TransformRow(sheets.Row{"date": value})
		require.True(t, ok, value)
		assert.Equal(t, want, metric.Date, value)
	}
}

func TestParseDateDefaultsToNow(t *testing.T) {
	tr := newTestTransformer()

	for _, value := range []any{nil, "", "  ", "not a date", true} {
		metric, ok := tr.TransformRow(sheets.Row{"date": value})
		require.True(t, ok)
		assert.Equal(t, testNow, metric.Date)
	}
}

func TestParseNumberDefensiveDefaults(t *testing.T) {
	tr := newTestTransformer()

	metric, ok := tr.TransformRow(sheets.Row{
		"date":     "2024-01-15",
		"leads":    "12",
		"consults": "n/a",
		"sales":    nil,
		"spend":    " 42.5 ",
	})
	require.True(t, ok)

	assert.Equal(t, 12, metric.Leads)
	assert.Equal(t, 0, metric.Consults)
	assert.Equal(t, 0, metric.Sales)
	assert.Equal(t, 42.5, metric.Spend)
}

func TestRound4(t *testing.T) {
	assert.Equal(t, 0.3333, Round4(1.0/3.0))
	assert.Equal(t, 0.6667, Round4(2.0/3.0))
	assert.Equal(t, 0.0001, Round4(0.00005))
	assert.Equal(t, -0.0001, Round4(-0.00005))
	assert.Equal(t, 2.0, Round4(2))
}
