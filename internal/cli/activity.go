package cli

import "strconv"

// ActivityTypes is the fixed catalogue offered when starting a session.
var ActivityTypes = []string{
	"Research and Development",
	"Factory Support",
	"Documentation",
	"Jigs and Fixtures",
	"Data Entry",
	"Meetings",
	"Costs",
	"Financing",
	"Nonconformity Reports",
	"Other",
}

// resolveActivityType accepts either a 1-based index into the catalogue
// or an exact label. Returns "" when the input matches neither.
func resolveActivityType(input string) string {
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(ActivityTypes) {
			return ActivityTypes[n-1]
		}
		return ""
	}
	for _, t := range ActivityTypes {
		if t == input {
			return t
		}
	}
	return ""
}
