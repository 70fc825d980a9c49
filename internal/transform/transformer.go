package transform

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/insightrow/sheetsync/internal/clock"
	"github.com/insightrow/sheetsync/internal/sheets"
	"go.uber.org/zap"
)

// sheetEpoch is day zero for spreadsheet serial dates: a numeric date cell
// holds the day count since 1900-01-01.
var sheetEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order for free-form date text.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

// Metric is one transformed row before storage. Segment dimensions stay
// nil (not empty string) when their column is absent; normalization to
// empty string happens only at the composite-key boundary in the metrics
// store.
type Metric struct {
	Date          time.Time
	Medium        *string
	Source        *string
	Campaign      *string
	Location      *string
	User          *string
	ServicePerson *string

	Leads    int
	Consults int
	Sales    int

	Spend              float64
	Roas               float64
	LeadsToConsultRate float64
	LeadsToSaleRate    float64

	// RawData retains the original (possibly redacted) row verbatim.
	RawData map[string]any
}

type Transformer struct {
	log   *zap.Logger
	clock clock.Clock
}

func NewTransformer(log *zap.Logger, clk clock.Clock) *Transformer {
	return &Transformer{
		log:   log.Named("transform"),
		clock: clk,
	}
}

// TransformRow converts one spreadsheet row into a canonical metric. The
// second return value is false when the row must be skipped: the only skip
// condition is a missing date column. Everything else parses defensively
// with zero-value defaults.
func (t *Transformer) TransformRow(row sheets.Row) (*Metric, bool) {
	dateCol, ok := ResolveColumn(row, FieldDate)
	if !ok {
		t.log.Warn("no date column found in row, skipping", zap.Strings("columns", rowKeys(row)))
		return nil, false
	}

	leads := int(t.parseNumberField(row, FieldLeads))
	consults := int(t.parseNumberField(row, FieldConsults))
	sales := int(t.parseNumberField(row, FieldSales))
	spend := t.parseNumberField(row, FieldSpend)

	var roas float64
	if _, ok := ResolveColumn(row, FieldROAS); ok {
		roas = t.parseNumberField(row, FieldROAS)
	} else if spend > 0 {
		roas = Round4(float64(sales) / spend)
	}

	metric := &Metric{
		Date:          t.parseDate(row[dateCol]),
		Medium:        segmentValue(row, FieldMedium),
		Source:        segmentValue(row, FieldSource),
		Campaign:      segmentValue(row, FieldCampaign),
		Location:      segmentValue(row, FieldLocation),
		User:          segmentValue(row, FieldUser),
		ServicePerson: segmentValue(row, FieldServicePerson),

		Leads:    leads,
		Consults: consults,
		Sales:    sales,

		Spend:              spend,
		Roas:               roas,
		LeadsToConsultRate: conversionRate(consults, leads),
		LeadsToSaleRate:    conversionRate(sales, leads),

		RawData: row,
	}
	return metric, true
}

// TransformRows converts a batch, dropping skipped rows. A malformed row
// never aborts the batch.
func (t *Transformer) TransformRows(rows []sheets.Row) []*Metric {
	metrics := make([]*Metric, 0, len(rows))
	for _, row := range rows {
		if metric, ok := t.TransformRow(row); ok {
			metrics = append(metrics, metric)
		}
	}
	return metrics
}

// parseDate interprets a date cell: structured times pass through, numeric
// values are day offsets from the 1900 epoch, and anything else parses as
// free-form text. Null, empty, and unparseable values default to now; this
// leniency is deliberate.
func (t *Transformer) parseDate(value any) time.Time {
	switch v := value.(type) {
	case nil:
		return t.clock.Now()
	case time.Time:
		return v
	case float64:
		return sheetEpoch.Add(time.Duration(v * float64(24*time.Hour)))
	case int:
		return sheetEpoch.AddDate(0, 0, v)
	case int64:
		return sheetEpoch.AddDate(0, 0, int(v))
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return t.clock.Now()
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, text); err == nil {
				return parsed.UTC()
			}
		}
		t.log.Debug("unparseable date value, defaulting to now", zap.String("value", text))
		return t.clock.Now()
	default:
		return t.clock.Now()
	}
}

func (t *Transformer) parseNumberField(row sheets.Row, field string) float64 {
	col, ok := ResolveColumn(row, field)
	if !ok {
		return 0
	}
	return parseNumber(row[col])
}

// parseNumber reads a numeric cell with a default of 0 on null, empty, or
// non-numeric input. Never errors.
func parseNumber(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func conversionRate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return Round4(float64(numerator) / float64(denominator))
}

// Round4 rounds to 4 decimal places, ties away from zero. Downstream
// coaching-alert thresholds compare against these values, so the tie rule
// is fixed here.
func Round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

func segmentValue(row sheets.Row, field string) *string {
	col, ok := ResolveColumn(row, field)
	if !ok {
		return nil
	}
	value, ok := row[col].(string)
	if !ok {
		return nil
	}
	return &value
}

func rowKeys(row sheets.Row) []string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
