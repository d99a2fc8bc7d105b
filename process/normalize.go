package process

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// currencyRunes are symbols stripped before deciding whether a cell is
// numeric.
const currencyRunes = "$£€¥₹"

// NormalizeCell cleans a single cell value: encoding artifacts (NUL, BOM)
// are removed, carriage returns become spaces, the text is NFC-normalized,
// and leading/trailing/repeated whitespace is collapsed.
func NormalizeCell(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\uFEFF", "")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\v", " ")
	s = strings.ReplaceAll(s, "\f", " ")
	s = norm.NFC.String(s)

	// Collapse any whitespace run (including newlines and tabs) to one space.
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// NormalizeNumeric rewrites numeric-looking cells to a canonical decimal
// representation: currency symbols and thousands separators are stripped,
// trailing zeros trimmed. Percent values keep their sign. Non-numeric text
// is returned unchanged.
func NormalizeNumeric(s string) string {
	if s == "" {
		return s
	}

	stripped := stripCurrency(s)
	isPercent := strings.HasSuffix(stripped, "%")
	candidate := strings.TrimSpace(strings.TrimSuffix(stripped, "%"))
	if candidate == "" {
		return s
	}

	d, err := decimal.NewFromString(candidate)
	if err != nil {
		return s
	}

	out := d.String()
	if isPercent {
		return out + "%"
	}
	return out
}

// stripCurrency removes currency symbols and thousands separators. Text
// that is not a number survives in a form decimal.NewFromString rejects,
// so callers can use the parse as the numeric-looking test.
func stripCurrency(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(currencyRunes, r):
			// drop
		case r == ',':
			// thousands separator
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Normalize applies the full per-cell pipeline: whitespace/encoding cleanup
// followed by numeric canonicalization.
func Normalize(s string) string {
	return NormalizeNumeric(NormalizeCell(s))
}
