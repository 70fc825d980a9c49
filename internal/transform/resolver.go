// Package transform normalizes heterogeneous spreadsheet rows into
// canonical metric values.
package transform

import (
	"strings"

	"github.com/insightrow/sheetsync/internal/sheets"
)

// Canonical field names recognized by the resolver.
const (
	FieldDate          = "date"
	FieldLeads         = "leads"
	FieldConsults      = "consults"
	FieldSales         = "sales"
	FieldSpend         = "spend"
	FieldROAS          = "roas"
	FieldMedium        = "medium"
	FieldSource        = "source"
	FieldCampaign      = "campaign"
	FieldLocation      = "location"
	FieldUser          = "user"
	FieldServicePerson = "service_person"
)

// columnAliases maps each canonical field to the known header spellings,
// in priority order. Matching is case-insensitive and exact; there is no
// fuzzy or partial matching.
var columnAliases = map[string][]string{
	FieldDate:          {"date", "date_range", "day", "report_date"},
	FieldLeads:         {"leads", "lead_count", "new_leads"},
	FieldConsults:      {"consults", "consultations", "consult_count", "scheduled_consults"},
	FieldSales:         {"sales", "sales_count", "revenue_count"},
	FieldSpend:         {"spend", "ad_spend", "adspend", "cost"},
	FieldROAS:          {"roas", "return_on_ad_spend"},
	FieldMedium:        {"medium", "channel", "media_type"},
	FieldSource:        {"source", "traffic_source"},
	FieldCampaign:      {"campaign", "campaign_name"},
	FieldLocation:      {"location", "location_name", "office"},
	FieldUser:          {"user", "handler", "account_manager"},
	FieldServicePerson: {"service_person", "person", "provider"},
}

// ResolveColumn finds the row key carrying the canonical field, checking
// each known alias in priority order. Absence is an expected outcome, not
// an error.
func ResolveColumn(row sheets.Row, field string) (string, bool) {
	for _, alias := range columnAliases[field] {
		for key := range row {
			if strings.EqualFold(key, alias) {
				return key, true
			}
		}
	}
	return "", false
}
