package contacts

import (
	"regexp"
	"strings"
)

const (
	nationalDigits  = 10
	countryCode     = "91"
	minDigitVariety = 4
)

// Every pattern anchors the first significant digit on a word boundary or an
// optional +91/91 prefix, and the last digit on a word boundary, so digits
// buried inside longer numeric ids do not match.
var phonePatterns = []Pattern{
	{
		Name: "grouped_5_5",
		Expr: regexp.MustCompile(`(?:\+91[-\s]?|\b91[-\s]?|\b)[6-9]\d{4}[-\s]?\d{5}\b`),
	},
	{
		Name: "contiguous_prefixed",
		Expr: regexp.MustCompile(`\+91[-\s]?[6-9]\d{9}\b`),
	},
	{
		Name: "grouped_2_4_4",
		Expr: regexp.MustCompile(`(?:\+91[-\s]?|\b91[-\s]?|\b)[6-9]\d[-\s]?\d{4}[-\s]?\d{4}\b`),
	},
	{
		Name: "dotted_5_5",
		Expr: regexp.MustCompile(`(?:\+91[-.\s]?|\b91[-.\s]?|\b)[6-9]\d{4}\.\d{5}\b`),
	},
	{
		Name: "dotted_3_3_4",
		Expr: regexp.MustCompile(`(?:\+91[-.\s]?|\b91[-.\s]?|\b)[6-9]\d{2}\.\d{3}\.\d{4}\b`),
	},
}

// fakeNumbers are sequential or fully repeated runs that show up as
// placeholders on profile pages.
var fakeNumbers = func() []string {
	fakes := []string{"1234567890", "9876543210"}
	for d := '0'; d <= '9'; d++ {
		fakes = append(fakes, strings.Repeat(string(d), nationalDigits))
	}
	return fakes
}()

var phoneRules = []Rule{
	{Name: "digit_count", Reject: badDigitCount},
	{Name: "fake_pattern", Reject: fakeNumber},
	{Name: "low_variety", Reject: lowDigitVariety},
}

// ExtractPhones returns the valid Indian mobile numbers found in text, each in
// the formatting it was matched with. Numbers with the same national digits
// are reported once.
func ExtractPhones(text string) []string {
	phones := []string{}
	if text == "" {
		return phones
	}

	seen := make(map[string]bool)
	for _, p := range phonePatterns {
		for _, raw := range p.candidates(text) {
			candidate := strings.TrimSpace(raw)
			national, ok := NationalNumber(candidate)
			if !ok || seen[national] {
				continue
			}
			seen[national] = true

			if _, rejected := RejectPhone(candidate); rejected {
				continue
			}
			phones = append(phones, candidate)
		}
	}
	return phones
}

// RejectPhone reports the first filter rule that discards candidate.
func RejectPhone(candidate string) (rule string, rejected bool) {
	return firstRejecting(phoneRules, candidate)
}

// NationalNumber returns the ten significant digits of a matched number. It
// accepts ten digits starting with 6-9, or twelve digits made of the 91
// country code followed by such a number.
func NationalNumber(phone string) (string, bool) {
	digits := digitsOnly(phone)
	switch {
	case len(digits) == nationalDigits && isMobileLead(digits[0]):
		return digits, true
	case len(digits) == nationalDigits+len(countryCode) &&
		strings.HasPrefix(digits, countryCode) &&
		isMobileLead(digits[len(countryCode)]):
		return digits[len(countryCode):], true
	default:
		return "", false
	}
}

func isMobileLead(b byte) bool {
	return b >= '6' && b <= '9'
}

func digitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func badDigitCount(candidate string) bool {
	_, ok := NationalNumber(candidate)
	return !ok
}

func fakeNumber(candidate string) bool {
	digits := digitsOnly(candidate)
	for _, fake := range fakeNumbers {
		if strings.Contains(digits, fake) {
			return true
		}
	}
	return false
}

func lowDigitVariety(candidate string) bool {
	digits := digitsOnly(candidate)
	if len(digits) > nationalDigits {
		digits = digits[len(digits)-nationalDigits:]
	}
	distinct := make(map[byte]struct{}, nationalDigits)
	for i := 0; i < len(digits); i++ {
		distinct[digits[i]] = struct{}{}
	}
	return len(distinct) < minDigitVariety
}
