package render

import (
	"strconv"
	"strings"
)

const (
	// DateFormatYearMonth is the only date format the source data uses.
	DateFormatYearMonth = "YYYY-MM"

	present = "Present"
)

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// FormatDate turns "2023-01" into "Jan 2023". "Present" and a bare year are
// returned as-is. A month that is not 1..12 leaves the input untouched.
func FormatDate(s string) string {
	if s == present {
		return present
	}
	parts := strings.SplitN(s, "-", 3)
	year := parts[0]
	if len(parts) < 2 || parts[1] == "" {
		return year
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return s
	}
	return monthNames[m-1] + " " + year
}

// DateRange formats "start - end" the way the experience and education
// headers show it.
func DateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return FormatDate(start)
	case start == "":
		return FormatDate(end)
	}
	return FormatDate(start) + " - " + FormatDate(end)
}
