package normalize

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/ginjaninja78/workbank-normalizer/internal/types"
)

// DateLayout is the canonical output date shape.
const DateLayout = "02/01/2006"

// ZeroDate is the all-zero placeholder some partners export for "no date".
const ZeroDate = "00/00/0000"

// maxSerial is 9999-12-31, the last day a spreadsheet serial can express.
const maxSerial = 2958465

// serialEpoch is day 0 of the spreadsheet serial calendar. The 1900 leap-year
// bug is absorbed by anchoring at 30 Dec instead of 31 Dec.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	dayFirstShape  = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{4}$`)
	yearFirstShape = regexp.MustCompile(`^\d{4}[/-]\d{1,2}[/-]\d{1,2}$`)
)

var (
	dayFirstLayouts  = []string{"2/1/2006", "2-1-2006"}
	yearFirstLayouts = []string{"2006-1-2", "2006/1/2"}

	// Tried against the whole text when it has neither numeric shape.
	fallbackLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		time.RFC1123,
		time.RFC1123Z,
		time.ANSIC,
		time.UnixDate,
		"Jan 2, 2006",
		"January 2, 2006",
		"Jan 2 2006",
		"2 Jan 2006",
		"2 January 2006",
		"Mon Jan 2 2006",
		"Jan 2, 2006 15:04:05",
	}
)

// FormatDate renders a date cell as dd/mm/yyyy.
//
// Numbers are spreadsheet serials; non-positive serials give "". Text has
// its time-of-day suffix dropped and is read day-first, then year-first,
// then against a list of common textual layouts. Text that cannot be read
// is returned unchanged.
func FormatDate(v types.Value) string {
	switch v.Kind {
	case types.Empty:
		return ""
	case types.Number:
		if v.Num <= 0 {
			return ""
		}
	}

	t, ok := ParseDate(v)
	if !ok {
		return v.String()
	}
	return t.Format(DateLayout)
}

// FormatDateText is FormatDate for plain strings.
func FormatDateText(s string) string {
	return FormatDate(types.TextValue(s))
}

// ParseDate interprets a cell as a calendar date. Structured dates keep
// their own location; serial and text dates are returned in UTC.
func ParseDate(v types.Value) (time.Time, bool) {
	switch v.Kind {
	case types.Time:
		return v.When, !v.When.IsZero()
	case types.Number:
		return SerialToTime(v.Num)
	case types.Text:
		return parseDateText(v.Raw)
	}
	return time.Time{}, false
}

// SerialToTime converts a spreadsheet serial day count to a UTC instant.
// The fractional part is the time of day.
func SerialToTime(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial <= 0 || serial > maxSerial {
		return time.Time{}, false
	}

	days := math.Floor(serial)
	seconds := math.Round((serial - days) * 86400)

	t := serialEpoch.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second)
	return t, true
}

func parseDateText(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	datePart, _, _ := strings.Cut(value, " ")

	switch {
	case dayFirstShape.MatchString(datePart):
		return parseFirst(datePart, dayFirstLayouts)
	case yearFirstShape.MatchString(datePart):
		return parseFirst(datePart, yearFirstLayouts)
	}

	return parseFirst(value, fallbackLayouts)
}

func parseFirst(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsAbsentDate reports whether a rendered date means "no real date": empty,
// the all-zero placeholder, or any date in 1899 (the serial epoch year).
func IsAbsentDate(s string) bool {
	return s == "" || s == ZeroDate || strings.HasSuffix(s, "1899")
}
