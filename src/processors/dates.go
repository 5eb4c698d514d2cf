// backend/src/processors/dates.go
package processors

import (
	"errors"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate rejects request bounds that are not ISO calendar dates.
var ErrInvalidDate = errors.New("invalid date, use YYYY-MM-DD")

// ParseDate validates a request-supplied YYYY-MM-DD string. Empty means unbounded.
func ParseDate(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return "", ErrInvalidDate
	}
	return value, nil
}

// dayOf extracts the calendar day from a stored datetime. Stored values are
// either plain dates, "YYYY-MM-DD HH:MM:SS" or RFC 3339; the leading ten
// characters are the date in every case. Rows with unusable datetimes are
// skipped by callers, mirroring the tolerant ingestion path.
func dayOf(datetime string) (string, bool) {
	if len(datetime) < len(dateLayout) {
		return "", false
	}
	day := datetime[:len(dateLayout)]
	if _, err := time.Parse(dateLayout, day); err != nil {
		return "", false
	}
	return day, true
}

func sortedDays(set map[string]struct{}) []string {
	days := make([]string, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}
