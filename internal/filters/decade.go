package filters

import (
	"strconv"
	"strings"
)

// DecadeOptions are the decades offered by the manual decade control.
var DecadeOptions = []string{"1970s", "1980s", "1990s", "2000s", "2010s", "2020s"}

// ParseDecade turns "1990s", "90s", "'90s" or "1990" into the inclusive
// range 1990-1999.
func ParseDecade(value string) (YearRange, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.TrimPrefix(v, "'")
	v = strings.TrimSuffix(v, "'s")
	v = strings.TrimSuffix(v, "s")
	if v == "" {
		return YearRange{}, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return YearRange{}, false
	}
	switch len(v) {
	case 2:
		if n < 30 {
			n += 2000
		} else {
			n += 1900
		}
	case 4:
	default:
		return YearRange{}, false
	}
	if n%10 != 0 {
		return YearRange{}, false
	}
	return YearRange{Start: n, End: n + 9}, true
}
