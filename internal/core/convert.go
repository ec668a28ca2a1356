package core

// convert.go handles the messy reality of user-provided CSV data: BOM
// prefixes, stray whitespace, Excel formula artifacts, and currency-formatted
// numbers. All TryParse/ToPg helpers return pgtype values with Valid=false
// for empty or invalid input so the database gets NULLs, not zero values.

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after
// cleanup. Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// utf8BOM is the UTF-8 byte-order mark commonly prepended by Windows tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TrimBOM removes a leading UTF-8 byte-order mark if present.
func TrimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// SanitizeUTF8 replaces invalid UTF-8 sequences with the replacement
// character. Returns the input unchanged when it is already valid.
func SanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// CleanCell removes common CSV artifacts from a cell value:
// trims whitespace, strips an Excel formula prefix (="..."), and strips
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// HeaderIndex maps lowercased column names to their position in a CSV row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		idx[key] = i
	}
	return idx
}

// Has reports whether the header contains the named column.
func (h HeaderIndex) Has(name string) bool {
	_, ok := h[name]
	return ok
}

// Cell returns the cleaned value of the named column in row, or "" when the
// column is absent or the row is short.
func (h HeaderIndex) Cell(row []string, name string) string {
	pos, ok := h[name]
	if !ok || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}

// TryParseNumeric converts a string to pgtype.Numeric.
// Handles currency symbols, thousands separators, and accounting format
// (parentheses for negative). A parse failure yields Valid=false; callers
// that want keep-previous-value semantics check Valid instead of erroring.
func TryParseNumeric(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Numeric{Valid: false}
	}

	// Accounting format "(123.45)" means negative
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}

	return n
}

// FormatPrice renders a price for CSV export.
// NULL prices render as the empty string. Valid prices render in float
// notation with at least one fractional digit ("100.0", "19.95"), matching
// what the legacy exports produced.
func FormatPrice(n pgtype.Numeric) string {
	if !n.Valid {
		return ""
	}

	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return ""
	}

	s := strconv.FormatFloat(f.Float64, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
