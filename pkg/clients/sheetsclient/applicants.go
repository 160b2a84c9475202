package sheetsclient

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jakechorley/device-loans/pkg/core/model"
)

// Applicant columns. Each accepts the current name and the legacy registration form name.
const (
	colID         = "id"
	colName       = "name"
	colAge        = "age"
	colOccupation = "occupation"
	colInternet   = "internet"
	colDevice     = "device"
	colHousehold  = "household"
	colContact    = "contact"
	colRegistered = "registered"
)

var headerAliases = map[string]string{
	"id":                 colID,
	"id_usuario":         colID,
	"name":               colName,
	"nombre":             colName,
	"age":                colAge,
	"edad":               colAge,
	"occupation":         colOccupation,
	"ocupacion":          colOccupation,
	"ocupación":          colOccupation,
	"internet":           colInternet,
	"acceso_internet":    colInternet,
	"device":             colDevice,
	"dispositivo_propio": colDevice,
	"household":          colHousehold,
	"personas_hogar":     colHousehold,
	"contact":            colContact,
	"contacto":           colContact,
	"registered":         colRegistered,
	"fecha_registro":     colRegistered,
}

var registeredLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// ListApplicants retrieves and parses applicants from a registration tab
func (c *Client) ListApplicants(spreadsheetID, tab string) ([]model.Applicant, error) {
	values, err := c.GetValues(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get applicant data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	applicants, err := parseApplicants(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse applicants: %w", err)
	}

	return applicants, nil
}

func normaliseHeader(cell interface{}) string {
	s := strings.ToLower(strings.TrimSpace(cellString(cell)))
	return strings.ReplaceAll(s, " ", "_")
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	return fmt.Sprint(cell)
}

// parseApplicants converts raw spreadsheet data into Applicants. Only the name column is required.
// Rows without a name are skipped. Unknown occupations, ages and flags are kept as unknown or false.
func parseApplicants(raw [][]interface{}) ([]model.Applicant, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	fieldIndexes := make(map[string]int)
	for i, cell := range raw[0] {
		if col, ok := headerAliases[normaliseHeader(cell)]; ok {
			if _, seen := fieldIndexes[col]; !seen {
				fieldIndexes[col] = i
			}
		}
	}
	if _, ok := fieldIndexes[colName]; !ok {
		return nil, fmt.Errorf("missing required field in header: %s (or nombre)", colName)
	}

	getField := func(col string, row []interface{}) string {
		index, ok := fieldIndexes[col]
		if !ok || index >= len(row) {
			return ""
		}
		return cellString(row[index])
	}

	applicants := make([]model.Applicant, 0, len(raw)-1)
	for _, row := range raw[1:] {
		name := getField(colName, row)
		if name == "" {
			continue
		}

		household, _ := strconv.Atoi(getField(colHousehold, row))

		applicants = append(applicants, model.Applicant{
			ID:            getField(colID, row),
			Name:          name,
			Contact:       getField(colContact, row),
			HouseholdSize: household,
			Occupation:    model.ParseOccupation(getField(colOccupation, row)),
			Age:           model.ParseAge(getField(colAge, row)),
			HasInternet:   model.ParseFlag(getField(colInternet, row)),
			HasDevice:     model.ParseFlag(getField(colDevice, row)),
			RegisteredAt:  parseRegistered(getField(colRegistered, row)),
		})
	}

	return applicants, nil
}

// parseRegistered returns the zero time when the value is empty or unrecognised
func parseRegistered(s string) time.Time {
	for _, layout := range registeredLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
