package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// groupedNumber matches a digit run with optional thousands separators
// ("15 178 979", "15.178.979", "15,178,979"). Separators are only accepted
// before groups of exactly three digits.
var groupedNumber = regexp.MustCompile(`\d{1,3}(?:[ \x{00A0}\x{202F}.,]\d{3})+(?:\D|$)|\d+`)

// yearRun matches a standalone run of one to four digits with an optional era suffix
var yearRun = regexp.MustCompile(`(?i)\b(\d{1,4})\b(?:\s*(av\.?\s*J\.?-?C\.?|avant\s+J\.?-?C\.?|avant\s+notre\s+[èe]re|BCE|AEC|BC))?`)

var separatorReplacer = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", ".", "", ",", "")

// FirstNumber returns the first contiguous number in s, ignoring thousands
// separators and any trailing qualifier. ok is false when s holds no digit.
func FirstNumber(s string) (int64, bool) {
	m := groupedNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	digits := strings.TrimRightFunc(separatorReplacer.Replace(m), func(r rune) bool {
		return r < '0' || r > '9'
	})
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Years returns every year mentioned in s, in order. Years followed by an
// era marker (av. J.-C., BCE) are negative.
func Years(s string) []int {
	var years []int
	for _, m := range yearRun.FindAllStringSubmatch(s, -1) {
		y, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if m[2] != "" {
			y = -y
		}
		years = append(years, y)
	}
	return years
}

// FirstYear returns the first year mentioned in s
func FirstYear(s string) (int, bool) {
	years := Years(s)
	if len(years) == 0 {
		return 0, false
	}
	return years[0], true
}
