// Package iban validates and formats Dutch IBANs (ISO 13616, MOD-97-10 per ISO 7064).
package iban

import (
	"strings"
	"unicode"
)

// DutchLength is the length of a normalized Dutch IBAN.
const DutchLength = 18

// UnknownBank is returned by DetectBank for bank codes missing from the table.
const UnknownBank = "Unknown bank"

// Rejection reasons reported in Result.Reason.
const (
	ReasonEmpty             = "empty"
	ReasonWrongLength       = "wrong_length"
	ReasonNotDutch          = "not_dutch"
	ReasonInvalidCharacters = "invalid_characters"
	ReasonMalformedBBAN     = "malformed_bban"
	ReasonChecksumMismatch  = "checksum_mismatch"
)

var banks = map[string]string{
	"ABNA": "ABN AMRO",
	"INGB": "ING Bank",
	"RABO": "Rabobank",
	"SNSB": "SNS Bank",
	"TRIO": "Triodos Bank",
	"ASNB": "ASN Bank",
	"KNAB": "Knab",
	"BUNQ": "bunq",
}

// Result is the outcome of validating user input. Malformed input is a
// normal result, never an error.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Normalize strips all whitespace and uppercases.
func Normalize(raw string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw))
}

// IsValidDutch reports whether a normalized string is a valid Dutch IBAN.
func IsValidDutch(normalized string) bool {
	return check(normalized).Valid
}

// Validate normalizes raw input and explains why it is rejected, if it is.
func Validate(raw string) Result {
	return check(Normalize(raw))
}

func check(s string) Result {
	switch {
	case s == "":
		return Result{Reason: ReasonEmpty}
	case len(s) != DutchLength:
		return Result{Reason: ReasonWrongLength}
	case s[:2] != "NL":
		return Result{Reason: ReasonNotDutch}
	}

	for i := 0; i < len(s); i++ {
		if !isUpper(s[i]) && !isDigit(s[i]) {
			return Result{Reason: ReasonInvalidCharacters}
		}
	}

	// Check digits, then 4 bank-code letters, then 10 account digits.
	for i := 2; i < 4; i++ {
		if !isDigit(s[i]) {
			return Result{Reason: ReasonMalformedBBAN}
		}
	}
	for i := 4; i < 8; i++ {
		if !isUpper(s[i]) {
			return Result{Reason: ReasonMalformedBBAN}
		}
	}
	for i := 8; i < DutchLength; i++ {
		if !isDigit(s[i]) {
			return Result{Reason: ReasonMalformedBBAN}
		}
	}

	if mod97(s[4:]+s[:4]) != 1 {
		return Result{Reason: ReasonChecksumMismatch}
	}
	return Result{Valid: true}
}

// mod97 computes the remainder of the transliterated string modulo 97
// digit by digit, so it never overflows. Input must be [A-Z0-9] only.
func mod97(rearranged string) int {
	remainder := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		if isDigit(c) {
			remainder = (remainder*10 + int(c-'0')) % 97
			continue
		}
		v := letterValue(c)
		remainder = (remainder*100 + v) % 97
	}
	return remainder
}

// letterValue is the only transliteration rule in the codebase: A=10 … Z=35.
// Callers must pass uppercase ASCII.
func letterValue(c byte) int {
	return int(c-'A') + 10
}

// FormatForDisplay inserts a space after every group of four characters.
func FormatForDisplay(normalized string) string {
	var b strings.Builder
	n := 0
	for _, r := range normalized {
		if n > 0 && n%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// Mask hides the account number, keeping the country, check digits, bank
// code and last two characters: "NL91ABNA******00".
func Mask(normalized string) string {
	r := []rune(normalized)
	if len(r) <= 10 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:8]) + strings.Repeat("*", len(r)-10) + string(r[len(r)-2:])
}

// DetectBank maps the bank code at positions 5–8 to a bank name.
// It is a best-effort lookup and returns UnknownBank rather than failing.
func DetectBank(raw string) string {
	s := Normalize(raw)
	if len(s) < 8 {
		return UnknownBank
	}
	if name, ok := banks[s[4:8]]; ok {
		return name
	}
	return UnknownBank
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
