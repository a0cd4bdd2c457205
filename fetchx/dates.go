package fetchx

import (
	"strconv"
	"strings"
	"time"
)

// httpTimeLayout is the RFC 2616 preferred form, always GMT.
const httpTimeLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// FormatTime renders t in the RFC 2616 form
// "Wday, DD Mon YYYY HH:MM:SS GMT".
func FormatTime(t time.Time) string {
	return t.UTC().Format(httpTimeLayout)
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseTime parses the date forms seen in HTTP headers and Netscape
// cookies: RFC 1123, RFC 850, asctime, and their cookie variants with
// two- or four-digit years, "-" or space separators, an optional
// weekday, and case-insensitive month names. Two-digit years map to
// 1970-2069. The boolean is false when s is not a recognizable date.
func ParseTime(s string) (time.Time, bool) {
	var (
		day, year          = -1, -1
		month              time.Month
		hh, mm, ss         int
		haveMonth, haveHMS bool
	)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '-' || r == '\t'
	})
	for _, f := range fields {
		switch {
		case strings.Contains(f, ":"):
			if haveHMS {
				return time.Time{}, false
			}
			var ok bool
			hh, mm, ss, ok = parseClock(f)
			if !ok {
				return time.Time{}, false
			}
			haveHMS = true
		case isDigits(f):
			n, err := strconv.Atoi(f)
			if err != nil {
				return time.Time{}, false
			}
			switch {
			case len(f) <= 2 && day < 0:
				day = n
			case year < 0:
				year = n
			default:
				return time.Time{}, false
			}
		default:
			if m, ok := months[strings.ToLower(f)]; ok {
				if haveMonth {
					return time.Time{}, false
				}
				month = m
				haveMonth = true
			}
			// Anything else (weekday, "GMT", "UTC") is ignored.
		}
	}
	if day < 1 || day > 31 || !haveMonth || !haveHMS || year < 0 {
		return time.Time{}, false
	}
	if year < 100 {
		// Two-digit years cover 1970-2069.
		if year < 70 {
			year += 2000
		} else {
			year += 1900
		}
	}
	t := time.Date(year, month, day, hh, mm, ss, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

func parseClock(f string) (hh, mm, ss int, ok bool) {
	parts := strings.Split(f, ":")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	for i, p := range parts {
		if !isDigits(p) || len(p) > 2 {
			return 0, 0, 0, false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, false
		}
		switch i {
		case 0:
			hh = n
		case 1:
			mm = n
		case 2:
			ss = n
		}
	}
	if hh > 23 || mm > 59 || ss > 60 {
		return 0, 0, 0, false
	}
	return hh, mm, ss, true
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
