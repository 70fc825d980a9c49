// Package sheets reads tabular data out of externally hosted spreadsheets.
package sheets

import "context"

// Row is one spreadsheet row keyed by trimmed header name. Cell values are
// whatever the API returned: string, float64, bool, or nil for blanks.
type Row map[string]any

// TabData is the contents of one tab: the header row plus the data rows
// keyed by those headers.
type TabData struct {
	Headers []string
	Rows    []Row
}

// Client fetches the named tabs of one spreadsheet. Implementations fail
// with transport or authorization errors; the sync orchestrator retries
// this call.
type Client interface {
	FetchTabs(ctx context.Context, spreadsheetID string, tabNames []string) (map[string]TabData, error)
}

// Factory builds a Client bound to the caller's access credential.
type Factory func(accessToken string) Client
