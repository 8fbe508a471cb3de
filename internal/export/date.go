package export

import (
	"errors"
	"fmt"
)

// ErrMalformedDate is returned for date components the feed cannot use.
var ErrMalformedDate = errors.New("malformed date")

// ParseDate validates the URL date components and joins them as
// YYYY-MM-DD. The year must be exactly four digits; month and day one or
// two digits, left-padded with a zero. No calendar check is made: the
// store compares dates as text.
func ParseDate(year, month, day string) (string, error) {
	for _, c := range []struct{ name, value string }{
		{"year", year}, {"month", month}, {"date", day},
	} {
		if !isDigits(c.value) {
			return "", fmt.Errorf("%w: %s %q is not a number", ErrMalformedDate, c.name, c.value)
		}
	}
	if len(year) != 4 {
		return "", fmt.Errorf("%w: year %q must have 4 digits", ErrMalformedDate, year)
	}
	if len(month) > 2 {
		return "", fmt.Errorf("%w: month %q has more than 2 digits", ErrMalformedDate, month)
	}
	if len(day) > 2 {
		return "", fmt.Errorf("%w: date %q has more than 2 digits", ErrMalformedDate, day)
	}
	return year + "-" + pad2(month) + "-" + pad2(day), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
