package cleaner

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// nullMarkers are the source spellings of a missing value
var nullMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

func isNull(v string) bool {
	_, ok := nullMarkers[strings.TrimSpace(v)]
	return ok
}

var amountReplacer = strings.NewReplacer("$", "", ",", "")

// parseNumber parses a finite decimal number
func parseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseAmount strips currency symbols and thousands separators before parsing
func parseAmount(v string) (float64, bool) {
	return parseNumber(amountReplacer.Replace(v))
}

// parseInteger accepts any finite number and truncates it toward zero
func parseInteger(v string) (int64, bool) {
	f, ok := parseNumber(v)
	if !ok || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Day-first layouts, tried in order. Single-digit day and month layouts also
// accept two digits.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02",
	"2006/01/02",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2/1/06",
	"2-1-06",
}

// parseDayFirstDate returns the calendar date of v at midnight UTC
func parseDayFirstDate(v string) (time.Time, bool) {
	s := strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
