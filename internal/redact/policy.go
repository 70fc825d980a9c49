// Package redact strips identifying columns from raw spreadsheet rows
// before they are persisted or logged.
package redact

import (
	"sort"
	"strings"

	"github.com/insightrow/sheetsync/internal/sheets"
	tenantdomain "github.com/insightrow/sheetsync/internal/tenant/domain"
)

// Action is what a rule does to a matched column. Only removal is
// supported today; hashing or masking would slot in here.
type Action string

const ActionRemove Action = "remove"

// Rule targets one column by name, matched case-insensitively against row
// keys.
type Rule struct {
	ColumnName string `json:"column_name"`
	Action     Action `json:"action"`
}

// sensitiveRules is the fixed rule set applied to sensitivity-flagged
// tenants.
var sensitiveRules = []Rule{
	{ColumnName: "First Name", Action: ActionRemove},
	{ColumnName: "Last Name", Action: ActionRemove},
	{ColumnName: "Phone", Action: ActionRemove},
	{ColumnName: "Email", Action: ActionRemove},
}

// PolicyFor returns the ordered redaction rules for a tenant: the fixed
// identifying-column set when the tenant is sensitivity-flagged, nothing
// otherwise.
func PolicyFor(tenant tenantdomain.Tenant) []Rule {
	if !tenant.IsSensitive {
		return nil
	}
	rules := make([]Rule, len(sensitiveRules))
	copy(rules, sensitiveRules)
	return rules
}

// Apply strips the policy's columns from every row, returning redacted
// copies plus the sorted set of column names actually removed. A column is
// reported only if it was present and non-nil in at least one row; rules
// that match nothing are silent no-ops. The input rows are never mutated.
func Apply(rows []sheets.Row, policy []Rule) ([]sheets.Row, []string) {
	if len(policy) == 0 {
		return rows, nil
	}

	removed := map[string]struct{}{}
	redacted := make([]sheets.Row, 0, len(rows))
	for _, row := range rows {
		next := make(sheets.Row, len(row))
		for key, value := range row {
			next[key] = value
		}
		for _, rule := range policy {
			for key := range next {
				if !strings.EqualFold(key, rule.ColumnName) {
					continue
				}
				if next[key] != nil {
					removed[key] = struct{}{}
				}
				delete(next, key)
			}
		}
		redacted = append(redacted, next)
	}

	names := make([]string, 0, len(removed))
	for name := range removed {
		names = append(names, name)
	}
	sort.Strings(names)
	return redacted, names
}
