package phone

import (
	"fmt"
	"strings"
	"unicode"
)

// minSignificantDigits is how many trailing digits identify a subscriber;
// normalization keeps exactly this many and prepends the country prefix.
const minSignificantDigits = 9

// Normalize converts a raw phone number into its canonical dispatch form:
// whitespace is stripped, the last nine digits are kept and the country
// prefix is prepended. Normalizing an already-normalized number returns it
// unchanged. Returns an error when the input cannot yield nine digits.
func Normalize(prefix, raw string) (string, error) {
	stripped := stripWhitespace(raw)
	stripped = strings.TrimPrefix(stripped, "+")

	if err := validateDigits(stripped); err != nil {
		return "", err
	}

	return prefix + stripped[len(stripped)-minSignificantDigits:], nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func validateDigits(s string) error {
	if len(s) < minSignificantDigits {
		return fmt.Errorf("phone number has fewer than %d digits", minSignificantDigits)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("phone number contains non-digit character %q", r)
		}
	}
	return nil
}
