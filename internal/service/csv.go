package service

// CSV parsing helpers for the reconciliation importers. The files come from
// externally authored bilingual spreadsheets, so everything here is
// tolerant: unknown headers resolve to "absent", unreadable values fall
// back to defaults, and dates are disambiguated heuristically.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/durar-app/rental-api/internal/domain"
)

// parseCsv splits raw CSV text into trimmed fields. It understands quoted
// fields, doubled-quote escapes, embedded commas and newlines inside
// quotes, and both CRLF and LF line endings. Fully blank rows are dropped.
func parseCsv(input string) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	inQuotes := false

	i := 0
	for i < len(input) {
		ch := input[i]
		if ch == '"' {
			if inQuotes && i+1 < len(input) && input[i+1] == '"' {
				field.WriteByte('"')
				i += 2
				continue
			}
			inQuotes = !inQuotes
			i++
			continue
		}
		if !inQuotes && ch == ',' {
			row = append(row, strings.TrimSpace(field.String()))
			field.Reset()
			i++
			continue
		}
		if !inQuotes && (ch == '\n' || ch == '\r') {
			if field.Len() > 0 || len(row) > 0 {
				row = append(row, strings.TrimSpace(field.String()))
				rows = append(rows, row)
			}
			field.Reset()
			row = nil
			for i < len(input) && (input[i] == '\n' || input[i] == '\r') {
				i++
			}
			continue
		}
		field.WriteByte(ch)
		i++
	}
	if field.Len() > 0 || len(row) > 0 {
		row = append(row, strings.TrimSpace(field.String()))
		rows = append(rows, row)
	}

	kept := rows[:0]
	for _, r := range rows {
		for _, c := range r {
			if c != "" {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}

// cleanHeader strips the UTF-8 byte order mark Excel prepends to exports
func cleanHeader(header []string) []string {
	cleaned := make([]string, len(header))
	for i, h := range header {
		cleaned[i] = strings.TrimSpace(strings.ReplaceAll(h, "\uFEFF", ""))
	}
	return cleaned
}

// headerIndex resolves a logical column from a list of accepted header
// spellings (Arabic and English), case-insensitively. The first candidate
// that matches wins; -1 means the column is absent.
func headerIndex(header []string, candidates ...string) int {
	for _, name := range candidates {
		for i, h := range header {
			if strings.EqualFold(h, name) {
				return i
			}
		}
	}
	return -1
}

// cell returns the value at column idx of a row, tolerating short rows and
// unresolved (-1) columns.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

var nonNumeric = regexp.MustCompile(`[^0-9.]+`)

// parseLooseNumber extracts a number from free text like "1,500 ريال".
// Unreadable values yield 0.
func parseLooseNumber(s string) float64 {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseLooseInt is parseLooseNumber truncated to an int pointer; empty
// input yields nil so omitted spreadsheet cells never overwrite a field.
func parseLooseInt(s string) *int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n := int(parseLooseNumber(s))
	return &n
}

// parseLooseFloat returns nil for empty input, otherwise the parsed value
func parseLooseFloat(s string) *float64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n := parseLooseNumber(s)
	return &n
}

var trimNonDigits = regexp.MustCompile(`^\D+|\D+$`)

// parseLooseDate resolves a spreadsheet date. For a 3-part a/b/c value the
// branches are tried in order:
//
//  1. c is a 4-digit year and a ≤ 12  → M/D/Y
//  2. c is a 4-digit year and b ≤ 12  → D/M/Y
//  3. a is a 4-digit year and b ≤ 12  → Y/M/D
//
// Otherwise common layouts are attempted directly. An unparseable value
// returns the zero time so the caller can apply its own default; day or
// month values ≤ 12 are inherently ambiguous and may be misread.
func parseLooseDate(s string) time.Time {
	t := strings.Join(strings.Fields(s), "")
	t = trimNonDigits.ReplaceAllString(t, "")
	if t == "" {
		return time.Time{}
	}

	parts := strings.FieldsFunc(t, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) == 3 {
		a, aErr := strconv.Atoi(parts[0])
		b, bErr := strconv.Atoi(parts[1])
		c, cErr := strconv.Atoi(parts[2])
		if aErr == nil && bErr == nil && cErr == nil {
			switch {
			case c > 1900 && a <= 12:
				return time.Date(c, time.Month(a), b, 0, 0, 0, 0, time.UTC)
			case c > 1900 && b <= 12:
				return time.Date(c, time.Month(b), a, 0, 0, 0, 0, time.UTC)
			case a > 1900 && b <= 12:
				return time.Date(a, time.Month(b), c, 0, 0, 0, 0, time.UTC)
			}
		}
	}

	for _, layout := range []string{"2006-01-02", "2006/01/02", time.RFC3339} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var unitStatusTokens = map[string]domain.UnitStatus{
	"AVAILABLE":   domain.UnitStatusAvailable,
	"متاحة":       domain.UnitStatusAvailable,
	"OCCUPIED":    domain.UnitStatusOccupied,
	"مشغولة":      domain.UnitStatusOccupied,
	"MAINTENANCE": domain.UnitStatusMaintenance,
	"صيانة":       domain.UnitStatusMaintenance,
}

// normalizeUnitStatus maps a free-text status token to a UnitStatus.
// Unrecognized tokens return "" so the caller can skip the field.
func normalizeUnitStatus(s string) domain.UnitStatus {
	return unitStatusTokens[strings.ToUpper(strings.TrimSpace(s))]
}

var rentalTypeTokens = map[string]domain.RentalType{
	"DAILY":   domain.RentalTypeDaily,
	"يومي":    domain.RentalTypeDaily,
	"MONTHLY": domain.RentalTypeMonthly,
	"شهري":    domain.RentalTypeMonthly,
}

// normalizeRentalType maps a free-text rental type to a RentalType,
// defaulting to MONTHLY. "يومي" anywhere in the token means daily.
func normalizeRentalType(s string) domain.RentalType {
	v := strings.TrimSpace(s)
	if v == "" {
		return domain.RentalTypeMonthly
	}
	if t, ok := rentalTypeTokens[strings.ToUpper(v)]; ok {
		return t
	}
	if strings.Contains(v, "يومي") || strings.Contains(strings.ToUpper(v), "DAILY") {
		return domain.RentalTypeDaily
	}
	return domain.RentalTypeMonthly
}

// normalizeContractStatus maps a free-text contract status, defaulting to
// ACTIVE for anything unrecognized.
func normalizeContractStatus(s string) domain.ContractStatus {
	v := strings.TrimSpace(s)
	switch {
	case strings.Contains(v, "منتهي"):
		return domain.ContractStatusEnded
	case strings.Contains(v, "ملغ"):
		return domain.ContractStatusCancelled
	default:
		return domain.ContractStatusActive
	}
}

// isPaidToken reports whether a payment-status cell marks the row as
// settled ("سدد" covers سدد/مسدد/تم السداد spellings).
func isPaidToken(s string) bool {
	return strings.Contains(s, "سدد") || strings.Contains(strings.ToUpper(s), "PAID")
}

// vacancySentinel marks spreadsheet rows that describe an empty room
// rather than a tenancy.
const vacancySentinel = "غرفة فاضية"

func isVacancyRow(name string) bool {
	return strings.Contains(name, vacancySentinel)
}
