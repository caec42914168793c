package ingest

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cardsift/cardsift/internal/model"
)

// issuerConventions maps known card-issuer filename substrings to the sign
// they use for spending. Matched before any content heuristic runs.
var issuerConventions = map[string]model.SignConvention{
	"amex":       model.SignPositive,
	"americanex": model.SignPositive,
	"discover":   model.SignPositive,
	"chase":      model.SignNegative,
	"capitalone": model.SignNegative,
	"capital_on": model.SignNegative,
	"citi":       model.SignNegative,
	"wellsfargo": model.SignNegative,
}

// Ratio thresholds for the two heuristic branches.
const (
	countDominanceRatio = 1.5
	sumDominanceRatio   = 1.2
)

// ConventionResolution is the resolved convention plus which branch fired,
// recorded for diagnosability only.
type ConventionResolution struct {
	Convention model.SignConvention
	ResolvedBy string // "issuer", "sign-count", "abs-sum" or "default"
}

// ResolveConvention decides, for a whole file, whether positive or negative
// raw amounts represent spending. Priority: known issuer in the filename,
// then sign-count majority, then abs-value sum majority, then a documented
// default of Negative (most card issuers represent spend as negative).
func ResolveConvention(filename string, rows []model.RawRow, cols model.DetectedColumns) ConventionResolution {
	name := strings.ToLower(strings.ReplaceAll(filename, " ", ""))
	for substr, conv := range issuerConventions {
		if strings.Contains(name, substr) {
			return ConventionResolution{Convention: conv, ResolvedBy: "issuer"}
		}
	}

	posCount, negCount := 0, 0
	posSum, negSum := decimal.Zero, decimal.Zero
	for _, row := range rows {
		cell, ok := row[cols.Amount]
		if !ok || cell.IsNull() {
			continue
		}
		amount, err := parseAmount(cell)
		if err != nil || amount.IsZero() {
			continue
		}
		if amount.IsPositive() {
			posCount++
			posSum = posSum.Add(amount)
		} else {
			negCount++
			negSum = negSum.Add(amount.Abs())
		}
	}

	if ratioExceeds(posCount, negCount, countDominanceRatio) {
		return ConventionResolution{Convention: model.SignPositive, ResolvedBy: "sign-count"}
	}
	if ratioExceeds(negCount, posCount, countDominanceRatio) {
		return ConventionResolution{Convention: model.SignNegative, ResolvedBy: "sign-count"}
	}

	ratio := decimal.NewFromFloat(sumDominanceRatio)
	if negSum.IsPositive() && posSum.GreaterThan(negSum.Mul(ratio)) {
		return ConventionResolution{Convention: model.SignPositive, ResolvedBy: "abs-sum"}
	}
	if posSum.IsPositive() && negSum.GreaterThan(posSum.Mul(ratio)) {
		return ConventionResolution{Convention: model.SignNegative, ResolvedBy: "abs-sum"}
	}
	if posSum.IsZero() && negSum.IsPositive() {
		return ConventionResolution{Convention: model.SignNegative, ResolvedBy: "abs-sum"}
	}
	if negSum.IsZero() && posSum.IsPositive() {
		return ConventionResolution{Convention: model.SignPositive, ResolvedBy: "abs-sum"}
	}

	return ConventionResolution{Convention: model.SignNegative, ResolvedBy: "default"}
}

func ratioExceeds(a, b int, ratio float64) bool {
	if a == 0 {
		return false
	}
	if b == 0 {
		return true
	}
	return float64(a) > float64(b)*ratio
}
