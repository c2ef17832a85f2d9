package ds9

import (
	"fmt"
	"regexp"
	"strings"
)

// floatPattern is the number syntax accepted inside sexagesimal values.
const floatPattern = `[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`

// sexagesimalPrefix matches h:m:s, XhYmZs and XdYmZs values. The seconds
// marker and any text after the seconds are not checked.
var sexagesimalPrefix = regexp.MustCompile(
	`^\s*` + floatPattern + `:\s*` + floatPattern + `:\s*` + floatPattern +
		`|^\s*` + floatPattern + `h\s*` + floatPattern + `m\s*` + floatPattern +
		`|^\s*` + floatPattern + `d\s*` + floatPattern + `m\s*` + floatPattern)

// unitSuffixes maps single-character DS9 unit suffixes to unit names.
// Quote marks are kept because the quantity reader understands them.
var unitSuffixes = map[byte]string{
	'd':  "deg",
	'r':  "rad",
	'p':  "pixel",
	'i':  "pixel",
	'"':  `"`,
	'\'': "'",
}

// normalizeParameter validates a DS9 shape parameter and rewrites its unit
// suffix into a form the quantity reader accepts.
func normalizeParameter(token, shape string) (string, *ImportError) {
	n := numericPrefix(token)
	if n == 0 {
		return "", &ImportError{
			Shape:   shape,
			Kind:    KindFormat,
			Message: fmt.Sprintf("%s invalid parameter %s, not a numeric value.", shape, token),
		}
	}
	if n == len(token) {
		return token, nil
	}

	if n+1 == len(token) {
		if unit, ok := unitSuffixes[token[n]]; ok {
			return token[:n] + unit, nil
		}
	} else if sexagesimalPrefix.MatchString(token) {
		return token, nil
	}

	return "", &ImportError{
		Shape:   shape,
		Kind:    KindFormat,
		Message: fmt.Sprintf("%s invalid parameter unit: %s.", shape, token),
	}
}

// latitudeForm rewrites a colon sexagesimal value into the dotted form read
// as degrees. Colon values otherwise read as hours.
func latitudeForm(token string) string {
	return strings.ReplaceAll(token, ":", ".")
}

// numericPrefix returns the length of the longest prefix of s that is a
// decimal floating point number, or 0 if there is none.
func numericPrefix(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
