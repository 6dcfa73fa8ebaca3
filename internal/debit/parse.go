package debit

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads the debit log text. Lines are split on "|" into at least
// three trimmed fields: date, integer amount, purpose. Malformed lines are
// skipped and reported as warnings, never as a hard failure, so one bad row
// cannot take the whole log down.
func Parse(text string) (entries []Entry, total int64, warnings []string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			warnings = append(warnings, fmt.Sprintf("skipping malformed debit entry: %s", line))
			continue
		}
		amount, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping malformed debit entry: %s", line))
			continue
		}
		entries = append(entries, Entry{
			Date:    strings.TrimSpace(parts[0]),
			Amount:  amount,
			Purpose: strings.TrimSpace(parts[2]),
		})
		total += amount
	}
	return entries, total, warnings
}
