package checkout

import "strings"

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// validPhone is a syntactic check only: an optional leading + followed by 7
// to 15 digits, ignoring common separators.
func validPhone(s string) bool {
	s = phoneSeparators.Replace(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "+")
	if len(s) < 7 || len(s) > 15 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
