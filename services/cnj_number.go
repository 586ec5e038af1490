package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"saas_juridico_gateway/services/i18n"
)

// CNJNumberLength is the digit count of a unified process number
const CNJNumberLength = 20

// CNJNumberInput contains the parts needed to build a process number.
// Check digits are computed, never supplied.
type CNJNumberInput struct {
	Sequence string // NNNNNNN, up to 7 digits
	Year     int    // AAAA
	Segment  string // J, 1 digit
	Court    string // TR, up to 2 digits
	Origin   string // OOOO, up to 4 digits
}

// CNJNumberComponents contains the parsed components of a process number
// Format (Res. CNJ 65/2008): NNNNNNN-DD.AAAA.J.TR.OOOO = 7+2+4+1+2+4 = 20 digits
type CNJNumberComponents struct {
	Sequence    string `json:"sequence"`     // positions 0-6
	CheckDigits string `json:"check_digits"` // positions 7-8
	Year        string `json:"year"`         // positions 9-12
	Segment     string `json:"segment"`      // position 13
	Court       string `json:"court"`        // positions 14-15
	Origin      string `json:"origin"`       // positions 16-19
}

// CNJValidation is the outcome of ValidateCNJNumber
type CNJValidation struct {
	Valid      bool                 `json:"valid"`
	Formatted  string               `json:"formatted,omitempty"`
	Components *CNJNumberComponents `json:"components,omitempty"`
	Errors     []string             `json:"errors"`
}

// ValidateCNJNumberInput checks the parts before BuildCNJNumber pads them.
// Messages are localized from ctx.
func ValidateCNJNumberInput(ctx context.Context, input CNJNumberInput) []string {
	var errs []string

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"sequence", input.Sequence, 7},
		{"segment", input.Segment, 1},
		{"court", input.Court, 2},
		{"origin", input.Origin, 4},
	}
	for _, f := range fields {
		value := strings.TrimSpace(f.value)
		switch {
		case value == "":
			errs = append(errs, i18n.T(ctx, "cnj.required", map[string]interface{}{"field": f.name}))
		case !isDigits(value):
			errs = append(errs, i18n.T(ctx, "cnj.not_digits", map[string]interface{}{"field": f.name}))
		case len(value) > f.max:
			errs = append(errs, i18n.T(ctx, "cnj.too_long", map[string]interface{}{"field": f.name, "max": f.max}))
		}
	}

	if strings.TrimSpace(input.Segment) == "0" {
		errs = append(errs, i18n.T(ctx, "cnj.invalid_segment", map[string]interface{}{"segment": "0"}))
	}
	if input.Year != 0 && (input.Year < 1000 || input.Year > 9999) {
		errs = append(errs, i18n.T(ctx, "cnj.invalid_year", map[string]interface{}{"year": input.Year}))
	}

	return errs
}

// BuildCNJNumber assembles the 20 digits and computes the check digits
func BuildCNJNumber(input CNJNumberInput) string {
	year := input.Year
	if year == 0 {
		year = time.Now().Year()
	}

	sequence := padDigits(input.Sequence, 7)
	segment := padDigits(input.Segment, 1)
	court := padDigits(input.Court, 2)
	origin := padDigits(input.Origin, 4)
	yearStr := fmt.Sprintf("%04d", year)

	check := cnjCheckDigits(sequence, yearStr, segment, court, origin)
	return sequence + check + yearStr + segment + court + origin
}

// ParseCNJNumber accepts the masked or the bare form and splits it
func ParseCNJNumber(number string) (*CNJNumberComponents, error) {
	digits, err := cnjDigits(number)
	if err != nil {
		return nil, err
	}

	if len(digits) != CNJNumberLength {
		return nil, fmt.Errorf("CNJ number must be exactly %d digits, got %d", CNJNumberLength, len(digits))
	}

	return &CNJNumberComponents{
		Sequence:    digits[0:7],
		CheckDigits: digits[7:9],
		Year:        digits[9:13],
		Segment:     digits[13:14],
		Court:       digits[14:16],
		Origin:      digits[16:20],
	}, nil
}

// FormatCNJNumber renders the canonical NNNNNNN-DD.AAAA.J.TR.OOOO mask
func FormatCNJNumber(c *CNJNumberComponents) string {
	return fmt.Sprintf("%s-%s.%s.%s.%s.%s", c.Sequence, c.CheckDigits, c.Year, c.Segment, c.Court, c.Origin)
}

// ValidateCNJNumber checks length, justice segment and the mod 97 check digits.
// Messages are localized from ctx.
func ValidateCNJNumber(ctx context.Context, number string) CNJValidation {
	result := CNJValidation{Errors: []string{}}

	digits, err := cnjDigits(number)
	if err != nil {
		result.Errors = append(result.Errors, i18n.T(ctx, "cnj.invalid_chars"))
		return result
	}
	if len(digits) != CNJNumberLength {
		result.Errors = append(result.Errors, i18n.T(ctx, "cnj.invalid_length", map[string]interface{}{"count": len(digits)}))
		return result
	}

	components, _ := ParseCNJNumber(digits)
	result.Components = components
	result.Formatted = FormatCNJNumber(components)

	if components.Segment == "0" {
		result.Errors = append(result.Errors, i18n.T(ctx, "cnj.invalid_segment", map[string]interface{}{"segment": components.Segment}))
	}

	expected := cnjCheckDigits(components.Sequence, components.Year, components.Segment, components.Court, components.Origin)
	if expected != components.CheckDigits {
		result.Errors = append(result.Errors, i18n.T(ctx, "cnj.invalid_check_digits", map[string]interface{}{"expected": expected}))
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// cnjCheckDigits implements ISO 7064 MOD 97-10: DD = 98 - (N AAAA J TR OOOO 00 mod 97)
func cnjCheckDigits(sequence, year, segment, court, origin string) string {
	remainder := mod97(sequence + year + segment + court + origin + "00")
	return fmt.Sprintf("%02d", 98-remainder)
}

// mod97 reduces a decimal string digit by digit; the value exceeds uint64
func mod97(digits string) int {
	r := 0
	for _, c := range digits {
		r = (r*10 + int(c-'0')) % 97
	}
	return r
}

// cnjDigits strips the mask characters and rejects anything else
func cnjDigits(number string) (string, error) {
	var b strings.Builder
	for _, c := range strings.TrimSpace(number) {
		switch {
		case c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '.' || c == '-' || c == ' ':
		default:
			return "", fmt.Errorf("invalid character %q in CNJ number", c)
		}
	}
	return b.String(), nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func padDigits(s string, width int) string {
	s = strings.TrimSpace(s)
	if len(s) > width {
		return s[len(s)-width:]
	}
	return strings.Repeat("0", width-len(s)) + s
}
