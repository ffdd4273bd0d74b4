package normalize

import "regexp"

var ratePattern = regexp.MustCompile(`\d{1,2},\d{1,2}`)

// ExtractInterestRate returns the first decimal-comma rate found in text,
// e.g. "1,85" from "INSS 1,85% 84x". It returns "" when there is none.
func ExtractInterestRate(text string) string {
	return ratePattern.FindString(text)
}
