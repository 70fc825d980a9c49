package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/insightrow/sheetsync/internal/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type googleClient struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewFactory returns a Factory producing Google Sheets clients that
// authenticate with the caller-supplied OAuth access token.
func NewFactory(cfg config.Config, log *zap.Logger) Factory {
	base := strings.TrimRight(cfg.SheetsBaseURL, "/")
	return func(accessToken string) Client {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
		return &googleClient{
			baseURL: base,
			http:    oauth2.NewClient(context.Background(), src),
			log:     log.Named("sheets.client"),
		}
	}
}

type valueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

type batchGetResponse struct {
	ValueRanges []valueRange `json:"valueRanges"`
}

func (c *googleClient) FetchTabs(ctx context.Context, spreadsheetID string, tabNames []string) (map[string]TabData, error) {
	if len(tabNames) == 0 {
		return map[string]TabData{}, nil
	}

	query := url.Values{}
	for _, tab := range tabNames {
		query.Add("ranges", fmt.Sprintf("'%s'!A:Z", tab))
	}
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values:batchGet?%s",
		c.baseURL,
		url.PathEscape(spreadsheetID),
		query.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build batch get request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", spreadsheetID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("sheets batch get failed",
			zap.String("spreadsheet_id", spreadsheetID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("read spreadsheet %s: status %d: %s", spreadsheetID, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload batchGetResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode spreadsheet %s response: %w", spreadsheetID, err)
	}

	result := make(map[string]TabData, len(tabNames))
	for i, tab := range tabNames {
		if i >= len(payload.ValueRanges) {
			result[tab] = TabData{}
			continue
		}
		result[tab] = buildTabData(payload.ValueRanges[i])
	}
	return result, nil
}

func buildTabData(vr valueRange) TabData {
	if len(vr.Values) == 0 {
		return TabData{}
	}

	headers := make([]string, 0, len(vr.Values[0]))
	for _, cell := range vr.Values[0] {
		headers = append(headers, strings.TrimSpace(fmt.Sprint(cell)))
	}

	rows := make([]Row, 0, len(vr.Values)-1)
	for _, raw := range vr.Values[1:] {
		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(raw) {
				row[header] = raw[i]
			} else {
				row[header] = nil
			}
		}
		rows = append(rows, row)
	}
	return TabData{Headers: headers, Rows: rows}
}
