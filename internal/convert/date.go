package convert

import (
	"regexp"
	"strings"
)

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// longDatePattern matches the long form Slack renders timestamps in,
	// e.g. "December 26th, 2025 at 1:04 AM UTC". Trailing time-of-day text
	// is ignored.
	longDatePattern = regexp.MustCompile(`(?i)^(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2})(?:st|nd|rd|th),?\s+(\d{4})`)
)

var monthNumbers = map[string]string{
	"january": "01", "february": "02", "march": "03", "april": "04",
	"may": "05", "june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
}

func padDay(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// NormalizeDate coerces the supported input formats to YYYY-MM-DD. It
// accepts an already-normalized date, a slash-separated YYYY/M/D date, or
// the long month-name form. The second return value is false when the input
// cannot be normalized.
func NormalizeDate(raw string) (string, bool) {
	date := raw

	if isoDatePattern.MatchString(date) {
		return date, true
	}

	if strings.Contains(date, "/") {
		parts := strings.Split(date, "/")
		if len(parts) == 3 {
			date = parts[0] + "-" + padDay(parts[1]) + "-" + padDay(parts[2])
		}
	}

	if m := longDatePattern.FindStringSubmatch(date); m != nil {
		month := monthNumbers[strings.ToLower(m[1])]
		date = m[3] + "-" + month + "-" + padDay(m[2])
	}

	if !isoDatePattern.MatchString(date) {
		return "", false
	}
	return date, true
}
