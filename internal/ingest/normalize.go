package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cardsift/cardsift/internal/model"
)

// Explicit date layouts tried in order before falling back to looser parses.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006/01/02",
	"01-02-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// Layouts for the native fallback pass.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

var (
	typeHeaderPattern = regexp.MustCompile(`(?i)^(trans(action)?[ _-]?)?type$`)

	// Statement-payment phrasings. Rows matching these are card payments,
	// not spending, regardless of amount sign.
	paymentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`credit card payment`),
		regexp.MustCompile(`statement payment`),
		regexp.MustCompile(`\bautopay\b`),
		regexp.MustCompile(`online payment`),
		regexp.MustCompile(`payment thank you`),
		regexp.MustCompile(`payment received`),
	}

	merchantStrip    = regexp.MustCompile(`[^a-z0-9\- ]+`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	displayPrefixes  = regexp.MustCompile(`(?i)^(pos |eftpos |visa |mastercard |amex |paypal \*)`)
	displayLongDigit = regexp.MustCompile(`\d{6,}`)
	displaySpecial   = regexp.MustCompile(`[*#]+`)

	amountStrip = strings.NewReplacer("$", "", ",", "", " ", "")

	titleCaser = cases.Title(language.English)
)

// NormalizeRow turns one raw row into either a canonical transaction or a
// classified error, never both. Each check is an early exit with its own
// reason, and the result is deterministic for identical input.
func NormalizeRow(row model.RawRow, cols model.DetectedColumns, conv model.SignConvention) (*model.Transaction, *model.NormalizationError) {
	// 1. Explicit payment type column.
	for header, cell := range row {
		if typeHeaderPattern.MatchString(header) && strings.EqualFold(strings.TrimSpace(cell.String()), "payment") {
			return nil, rejected(row, model.ReasonPayment, "row marked as payment in type column")
		}
	}

	// 2. Date.
	dateCell, ok := row[cols.Date]
	if !ok || dateCell.IsNull() {
		return nil, rejected(row, model.ReasonDateParse, fmt.Sprintf("no value in date column %q", cols.Date))
	}
	date, err := parseDate(dateCell.String())
	if err != nil {
		return nil, rejected(row, model.ReasonDateParse, fmt.Sprintf("unparseable date %q", dateCell.String()))
	}

	// 3-4. Merchant.
	rawMerchant := strings.TrimSpace(row[cols.Merchant].String())
	if rawMerchant == "" {
		return nil, rejected(row, model.ReasonEmptyMerchant, "merchant column is empty")
	}
	merchant := NormalizeMerchant(rawMerchant)
	if merchant == "" {
		return nil, rejected(row, model.ReasonEmptyMerchant, "merchant is empty after normalization")
	}

	// 5. Statement-payment text patterns, regardless of amount sign.
	for _, p := range paymentPatterns {
		if p.MatchString(merchant) {
			return nil, rejected(row, model.ReasonPayment, fmt.Sprintf("merchant %q matches payment pattern", merchant))
		}
	}

	// 6. Amount.
	amountCell, ok := row[cols.Amount]
	if !ok || amountCell.IsNull() {
		return nil, rejected(row, model.ReasonAmountParse, fmt.Sprintf("no value in amount column %q", cols.Amount))
	}
	amount, err := parseAmount(amountCell)
	if err != nil {
		return nil, rejected(row, model.ReasonAmountParse, fmt.Sprintf("unparseable amount %q", amountCell.String()))
	}
	if amount.IsZero() {
		return nil, rejected(row, model.ReasonZeroAmount, "amount is zero")
	}

	// 7. Spending per the file's convention. A nonzero amount on the
	// non-spending side is a credit.
	spending := decimal.Zero
	isCredit := false
	if matchesSpendingSign(amount, conv) {
		spending = amount.Abs()
	} else {
		isCredit = true
	}

	return &model.Transaction{
		Date:            date,
		Merchant:        merchant,
		MerchantDisplay: DisplayMerchant(rawMerchant),
		AmountRaw:       amount,
		AmountSpending:  spending,
		Convention:      conv,
		IsCredit:        isCredit,
		IsPayment:       false,
	}, nil
}

func rejected(row model.RawRow, reason model.ErrorReason, msg string) *model.NormalizationError {
	return &model.NormalizationError{Row: row, Reason: reason, Message: msg}
}

func matchesSpendingSign(amount decimal.Decimal, conv model.SignConvention) bool {
	if conv == model.SignPositive {
		return amount.IsPositive()
	}
	return amount.IsNegative()
}

// parseDate tries the explicit layouts in order, then the fallback set.
func parseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches %q", trimmed)
}

// parseAmount parses a cell into a signed decimal, tolerating currency
// symbols, thousands separators and accounting-style parentheses.
func parseAmount(cell model.Cell) (decimal.Decimal, error) {
	if cell.Kind == model.CellNumber {
		return decimal.NewFromFloat(cell.Number), nil
	}
	raw := amountStrip.Replace(strings.TrimSpace(cell.Text))
	negate := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		raw = raw[1 : len(raw)-1]
		negate = true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if negate {
		d = d.Neg()
	}
	return d, nil
}

// NormalizeMerchant produces the canonical merchant form: lowercased,
// whitespace collapsed, punctuation stripped except hyphens. This is the
// only merchant representation retained for matching and learning.
func NormalizeMerchant(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	lower = merchantStrip.ReplaceAllString(lower, " ")
	lower = whitespaceRun.ReplaceAllString(lower, " ")
	return strings.TrimSpace(lower)
}

// DisplayMerchant formats a raw merchant name for UI surfaces: payment-rail
// prefixes and long reference numbers removed, words title-cased.
func DisplayMerchant(raw string) string {
	cleaned := displayPrefixes.ReplaceAllString(raw, "")
	cleaned = displayLongDigit.ReplaceAllString(cleaned, "")
	cleaned = displaySpecial.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	words := strings.Fields(cleaned)
	for i, word := range words {
		if len(word) > 2 {
			words[i] = titleCaser.String(strings.ToLower(word))
		} else {
			words[i] = strings.ToUpper(word)
		}
	}
	result := strings.Join(words, " ")
	if len(result) > 50 {
		result = result[:50]
	}
	return result
}
