package sheetsclient

import (
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// UpsertRows writes rows to tab keyed on their first column. Rows whose key is already on the
// sheet are overwritten in place, the rest are appended. An empty tab gets the header first.
func (c *Client) UpsertRows(spreadsheetID, tab string, header []string, rows [][]string) (int, int, error) {
	existing, err := c.GetValues(spreadsheetID, tab)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read %s: %w", tab, err)
	}

	updates, appends := planUpsert(tab, existing, header, rows)

	if err := c.UpdateRanges(spreadsheetID, updates); err != nil {
		return 0, 0, fmt.Errorf("failed to update rows in %s: %w", tab, err)
	}

	if len(appends) > 0 {
		if err := c.AppendRows(spreadsheetID, quoteTab(tab), appends); err != nil {
			return len(updates), 0, fmt.Errorf("failed to append rows to %s: %w", tab, err)
		}
	}

	appended := len(appends)
	if len(existing) == 0 && appended > 0 {
		appended-- // header
	}
	return len(updates), appended, nil
}

// planUpsert splits rows into in-place updates and appends against the current sheet values
func planUpsert(tab string, existing [][]interface{}, header []string, rows [][]string) ([]*sheets.ValueRange, [][]interface{}) {
	keyRows := make(map[string]int)
	for i, row := range existing {
		if i == 0 || len(row) == 0 {
			continue
		}
		key := cellString(row[0])
		if _, seen := keyRows[key]; !seen && key != "" {
			keyRows[key] = i + 1 // 1-based sheet row
		}
	}

	var updates []*sheets.ValueRange
	var appends [][]interface{}
	if len(existing) == 0 {
		appends = append(appends, toInterfaces(header))
	}

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if sheetRow, ok := keyRows[row[0]]; ok {
			updates = append(updates, &sheets.ValueRange{
				Range:  fmt.Sprintf("%s!A%d", quoteTab(tab), sheetRow),
				Values: [][]interface{}{toInterfaces(row)},
			})
			continue
		}
		appends = append(appends, toInterfaces(row))
	}

	return updates, appends
}

func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

func toInterfaces(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
