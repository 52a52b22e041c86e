package formatters

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const (
	notApplicable = "N/A"
	unassigned    = "Unassigned"

	msgNoData          = "No data available."
	msgNoDataForQuery  = "No data available to process the query."
	msgNoBatteryData   = "No battery details found. Try another prompt."
	msgNoAnswer        = "No answer found. Try another prompt."
	msgMissingWSID     = "Kindly provide a workstation id."
	msgNoLocationData  = "No asset location data available."
	msgBatteriesExpire = "All batteries listed have a `WarrantyStatus` of 'Expired' and their `WarrantyEndDate` is in the past. " +
		"There are no batteries with a `WarrantyEndDate` within the next 90 days."
)

// bold escapes s and wraps it in a bold tag.
func bold(s string) string {
	return "<b>" + html.EscapeString(s) + "</b>"
}

// text escapes a backend value written outside of bold.
func text(s string) string {
	return html.EscapeString(s)
}

// bulletList renders items as an unordered list. Items are already escaped markup.
func bulletList(items []string) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(item)
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// headedList renders the message as the first item of a list followed by items.
func headedList(message string, items ...string) string {
	return bulletList(append([]string{message}, items...))
}

// timestampLayouts are the column formats the data backend emits. Fractional
// seconds are accepted by every layout carrying seconds.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// parseTimestamp parses a timestamp column in loc. ok is false for blank or
// unrecognized text.
func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDay parses a date-only value with a strict layout, in loc.
func parseDay(layout, s string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
