package ingest

import (
	"regexp"

	"github.com/cardsift/cardsift/internal/model"
)

// Ordered header patterns per role. Earlier entries win, so exact names beat
// loose substring matches.
var (
	dateHeaderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^date$`),
		regexp.MustCompile(`(?i)^post(ed|ing)[ _-]?date$`),
		regexp.MustCompile(`(?i)^trans(action)?[ _-]?date$`),
		regexp.MustCompile(`(?i)date`),
	}
	merchantHeaderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^merchant`),
		regexp.MustCompile(`(?i)^description$`),
		regexp.MustCompile(`(?i)^payee$`),
		regexp.MustCompile(`(?i)^vendor$`),
		regexp.MustCompile(`(?i)^name$`),
		regexp.MustCompile(`(?i)description|narrative|details|memo`),
	}
	amountHeaderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^amount$`),
		regexp.MustCompile(`(?i)^total$`),
		regexp.MustCompile(`(?i)^debit`),
		regexp.MustCompile(`(?i)^credit`),
		regexp.MustCompile(`(?i)amount`),
		regexp.MustCompile(`(?i)balance`),
	}

	// Shape of a currency-formatted value: optional sign or parens, digits
	// with optional thousands separators, optional decimal part.
	currencyShape = regexp.MustCompile(`^\(?[-+]?\$?[-+]?[\d,]+(\.\d+)?\)?$`)
)

const sampleSize = 20

// DetectColumns resolves which columns hold the date, merchant and amount.
// Header names are tried first; columns that stay unresolved fall back to
// content-shape heuristics over a sample of rows. Fails naming the roles
// that could not be resolved after both passes.
func DetectColumns(headers []string, rows []model.RawRow) (model.DetectedColumns, error) {
	var cols model.DetectedColumns
	claimed := map[string]bool{}

	cols.Date = matchHeader(headers, dateHeaderPatterns, claimed)
	cols.Merchant = matchHeader(headers, merchantHeaderPatterns, claimed)
	cols.Amount = matchHeader(headers, amountHeaderPatterns, claimed)

	sample := rows
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	if cols.Date == "" {
		cols.Date = findDateShapedColumn(headers, sample, claimed)
	}
	if cols.Amount == "" {
		cols.Amount = findAmountShapedColumn(headers, sample, claimed)
	}
	if cols.Merchant == "" {
		cols.Merchant = findLongestTextColumn(headers, sample, claimed)
	}

	var missing []string
	if cols.Date == "" {
		missing = append(missing, "date")
	}
	if cols.Merchant == "" {
		missing = append(missing, "merchant")
	}
	if cols.Amount == "" {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return model.DetectedColumns{}, &IngestError{
			Code:    ErrMissingColumns,
			Message: "could not identify required columns",
			Missing: missing,
		}
	}
	return cols, nil
}

func matchHeader(headers []string, patterns []*regexp.Regexp, claimed map[string]bool) string {
	for _, p := range patterns {
		for _, h := range headers {
			if h == "" || claimed[h] {
				continue
			}
			if p.MatchString(h) {
				claimed[h] = true
				return h
			}
		}
	}
	return ""
}

// findDateShapedColumn picks the first column whose sampled values mostly
// parse as dates.
func findDateShapedColumn(headers []string, sample []model.RawRow, claimed map[string]bool) string {
	for _, h := range headers {
		if h == "" || claimed[h] {
			continue
		}
		total, hits := 0, 0
		for _, row := range sample {
			cell, ok := row[h]
			if !ok || cell.IsNull() {
				continue
			}
			total++
			if _, err := parseDate(cell.String()); err == nil {
				hits++
			}
		}
		if total > 0 && hits*10 >= total*6 { // >= 60%
			claimed[h] = true
			return h
		}
	}
	return ""
}

// findAmountShapedColumn picks the first column of purely numeric-looking
// values, optionally currency-formatted.
func findAmountShapedColumn(headers []string, sample []model.RawRow, claimed map[string]bool) string {
	for _, h := range headers {
		if h == "" || claimed[h] {
			continue
		}
		total, hits := 0, 0
		for _, row := range sample {
			cell, ok := row[h]
			if !ok || cell.IsNull() {
				continue
			}
			total++
			if cell.Kind == model.CellNumber || currencyShape.MatchString(cell.String()) {
				hits++
			}
		}
		if total > 0 && hits == total {
			claimed[h] = true
			return h
		}
	}
	return ""
}

// findLongestTextColumn picks the string column with the longest average
// value length, the usual shape of a merchant/description column.
func findLongestTextColumn(headers []string, sample []model.RawRow, claimed map[string]bool) string {
	best := ""
	bestAvg := 0.0
	for _, h := range headers {
		if h == "" || claimed[h] {
			continue
		}
		total, length := 0, 0
		for _, row := range sample {
			cell, ok := row[h]
			if !ok || cell.Kind != model.CellString {
				continue
			}
			total++
			length += len(cell.Text)
		}
		if total == 0 {
			continue
		}
		avg := float64(length) / float64(total)
		if avg > bestAvg {
			best, bestAvg = h, avg
		}
	}
	if best != "" {
		claimed[best] = true
	}
	return best
}
