package iban_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zzptax/zzptax/internal/domain/iban"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "NL91ABNA0417164300", iban.Normalize(" nl91 abna 0417 1643 00 "))
	assert.Equal(t, "NL91ABNA0417164300", iban.Normalize("NL91\tABNA\n0417164300"))
	assert.Equal(t, "", iban.Normalize("   "))
}

func TestIsValidDutch_KnownGood(t *testing.T) {
	for _, s := range []string{
		"NL91ABNA0417164300",
		"NL20INGB0001234567",
		"NL69INGB0123456789",
		"NL44RABO0123456789",
		"NL68KNAB0123456789",
		"NL23BUNQ0123456789",
	} {
		assert.True(t, iban.IsValidDutch(s), s)
	}
}

func TestIsValidDutch_ChecksumMismatch(t *testing.T) {
	assert.False(t, iban.IsValidDutch("NL91ABNA0417164301"))
	assert.Equal(t, iban.Result{Reason: iban.ReasonChecksumMismatch}, iban.Validate("NL91ABNA0417164301"))
}

func TestValidate_Reasons(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"empty", "", iban.ReasonEmpty},
		{"whitespace only", "   ", iban.ReasonEmpty},
		{"too short", "NL91ABNA04171643", iban.ReasonWrongLength},
		{"too long", "NL91ABNA04171643000", iban.ReasonWrongLength},
		{"german", "DE89370400440532013000", iban.ReasonWrongLength},
		{"belgian length 18", "BE71096123456769XX", iban.ReasonNotDutch},
		{"punctuation", "NL91ABNA04171643-0", iban.ReasonInvalidCharacters},
		{"non ascii", "NL91ABNA041716430é", iban.ReasonWrongLength},
		{"digit in bank code", "NL91ABN10417164300", iban.ReasonMalformedBBAN},
		{"letter in account", "NL91ABNA041716430X", iban.ReasonMalformedBBAN},
		{"letter in check digits", "NLX1ABNA0417164300", iban.ReasonMalformedBBAN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := iban.Validate(tt.input)
			assert.False(t, r.Valid)
			assert.Equal(t, tt.reason, r.Reason)
		})
	}
}

func TestValidate_NormalizesLowercaseAndSpaces(t *testing.T) {
	r := iban.Validate("nl91 abna 0417 1643 00")
	assert.True(t, r.Valid)
	assert.Empty(t, r.Reason)
}

func TestIsValidDutch_SingleCharacterMutations(t *testing.T) {
	const valid = "NL91ABNA0417164300"

	for pos := 2; pos < len(valid); pos++ {
		var alphabet string
		if pos >= 4 && pos < 8 {
			alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		} else {
			alphabet = "0123456789"
		}
		for i := 0; i < len(alphabet); i++ {
			c := alphabet[i]
			if c == valid[pos] {
				continue
			}
			mutated := valid[:pos] + string(c) + valid[pos+1:]
			assert.False(t, iban.IsValidDutch(mutated), "mutation %s should be rejected", mutated)
		}
	}
}

func TestFormatForDisplay(t *testing.T) {
	assert.Equal(t, "NL91 ABNA 0417 1643 00", iban.FormatForDisplay("NL91ABNA0417164300"))
	assert.Equal(t, "NL91", iban.FormatForDisplay("NL91"))
	assert.Equal(t, "", iban.FormatForDisplay(""))
}

func TestFormatForDisplay_RoundTrip(t *testing.T) {
	for _, x := range []string{
		"NL91ABNA0417164300",
		" nl91 abna 0417 1643 00",
		"abc",
		"",
		"a b c d e f g h i j",
		"ünïcödé strïng with spaces",
		"NL91ABNA04171643001234567890",
	} {
		n := iban.Normalize(x)
		assert.Equal(t, n, iban.Normalize(iban.FormatForDisplay(n)), x)
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "NL91ABNA******00", iban.Mask("NL91ABNA0417164300"))
	assert.Equal(t, "*****", iban.Mask("NL91A"))
	assert.Equal(t, "", iban.Mask(""))
}

func TestDetectBank(t *testing.T) {
	tests := map[string]string{
		"NL91ABNA0417164300":     "ABN AMRO",
		"NL69INGB0123456789":     "ING Bank",
		"NL44RABO0123456789":     "Rabobank",
		"NL12SNSB0123456789":     "SNS Bank",
		"NL70TRIO0123456789":     "Triodos Bank",
		"NL57ASNB0123456789":     "ASN Bank",
		"nl68 knab 0123 4567 89": "Knab",
		"NL23BUNQ0123456789":     "bunq",
	}
	for input, bank := range tests {
		assert.Equal(t, bank, iban.DetectBank(input), input)
	}
}

func TestDetectBank_UnknownNeverPanics(t *testing.T) {
	assert.Equal(t, iban.UnknownBank, iban.DetectBank("NL51ZZZZ0123456789"))
	assert.Equal(t, iban.UnknownBank, iban.DetectBank(""))
	assert.Equal(t, iban.UnknownBank, iban.DetectBank("NL91"))
}
