package validation

import "strings"

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

// CNPJ checks a normalized tax id: exactly 14 digits.
// Codes: cnpj_length, cnpj_digits
func CNPJ(field, value string, v Violations) {
	if len(value) != 14 {
		v[field] = "cnpj_length"
		return
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			v[field] = "cnpj_digits"
			return
		}
	}
}

// NormalizeCNPJ strips every non-digit character.
func NormalizeCNPJ(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OneOf validates value against a closed set.
func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "not_allowed"
}
