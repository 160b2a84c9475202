package commands

import (
	"fmt"
	"strings"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/scoring"
	"github.com/jakechorley/device-loans/pkg/core/weights"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

func stateColor(state model.AssignmentState) string {
	switch state {
	case model.AssignmentAssigned:
		return colorGreen
	case model.AssignmentAbsent1:
		return colorYellow
	case model.AssignmentRemoved:
		return colorRed
	default:
		return colorGray
	}
}

// truncate shortens s to width runes, marking the cut with an ellipsis
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func formatAge(age *int) string {
	if age == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *age)
}

// formatTerms renders the per-attribute contributions, e.g. "occ 12 + net 10 + dev 20 + age 3"
func formatTerms(t scoring.Terms) string {
	return fmt.Sprintf("occ %g + net %g + dev %g + age %g", t.Occupation, t.Internet, t.Device, t.Age)
}

// formatWeights renders each attribute weight, marking values that differ from base with *
func formatWeights(w, base weights.GlobalWeights) string {
	parts := make([]string, len(weights.Attributes))
	for i, attr := range weights.Attributes {
		mark := ""
		if w.Get(attr) != base.Get(attr) {
			mark = "*"
		}
		parts[i] = fmt.Sprintf("%s=%d%s", attr, w.Get(attr), mark)
	}
	return strings.Join(parts, "  ")
}

func printRankingTable(entries []scoring.Entry, states map[string]model.AssignmentState) {
	fmt.Printf("%-4s %-24s %-12s %-4s %-4s %-4s %7s  %s\n", "#", "NAME", "OCCUPATION", "AGE", "NET", "DEV", "SCORE", "BREAKDOWN")
	fmt.Println(strings.Repeat("-", 100))

	for _, e := range entries {
		line := fmt.Sprintf("%-4d %-24s %-12s %-4s %-4s %-4s %7g  %s",
			e.Position,
			truncate(e.Applicant.Name, 24),
			truncate(string(e.Applicant.Occupation), 12),
			formatAge(e.Applicant.Age),
			yesNo(e.Applicant.HasInternet),
			yesNo(e.Applicant.HasDevice),
			e.Score,
			formatTerms(e.Terms))

		if state, ok := states[e.Applicant.ID]; ok {
			fmt.Printf("%s%s  [%s]%s\n", stateColor(state), line, state, colorReset)
			continue
		}
		fmt.Println(line)
	}
}
