package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardsift/cardsift/internal/model"
	"github.com/cardsift/cardsift/internal/store"
)

// duplicateScoreThreshold is the minimum similarity score for a stored
// transaction to be reported as a duplicate candidate.
const duplicateScoreThreshold = 0.6

// DuplicateCandidate is an advisory row-level match against an already
// stored transaction. Candidates never block inserts; the file fingerprint
// is the only hard duplicate rejection.
type DuplicateCandidate struct {
	TransactionID string
	Merchant      string
	Amount        decimal.Decimal
	Date          time.Time
	CategoryID    string
	MatchScore    float64
	MatchReason   string
}

// FindDuplicateCandidates scores a transaction against the user's stored
// transactions within two days of its date. Lookup failures degrade to no
// candidates.
func (s *StatementService) FindDuplicateCandidates(ctx context.Context, userID string, tx *model.Transaction) []DuplicateCandidate {
	startDate := tx.Date.AddDate(0, 0, -2)
	endDate := tx.Date.AddDate(0, 0, 2)
	existing, _, err := s.store.ListTransactions(ctx, userID, store.TransactionFilter{
		StartDate: &startDate,
		EndDate:   &endDate,
	}, 100, "")
	if err != nil {
		return nil
	}

	var candidates []DuplicateCandidate
	for _, ex := range existing {
		if ex.ID == tx.ID {
			continue
		}
		score, reason := scoreDuplicate(tx, ex)
		if score >= duplicateScoreThreshold {
			candidates = append(candidates, DuplicateCandidate{
				TransactionID: ex.ID,
				Merchant:      ex.MerchantDisplay,
				Amount:        ex.AmountSpending,
				Date:          ex.Date,
				CategoryID:    ex.CategoryID,
				MatchScore:    score,
				MatchReason:   reason,
			})
		}
	}
	return candidates
}

// scoreDuplicate scores how similar two transactions are.
func scoreDuplicate(a, b *model.Transaction) (float64, string) {
	score := 0.0
	var reasons []string

	// Amount match
	if a.AmountSpending.IsPositive() && b.AmountSpending.IsPositive() {
		diff := a.AmountSpending.Sub(b.AmountSpending).Abs()
		if diff.LessThan(decimal.NewFromFloat(0.01)) {
			score += 0.5
			reasons = append(reasons, "Exact amount match")
		} else if diff.Div(a.AmountSpending).LessThan(decimal.NewFromFloat(0.05)) {
			score += 0.3
			reasons = append(reasons, "Similar amount")
		}
	}

	// Date match
	dayDiff := math.Abs(a.Date.Sub(b.Date).Hours() / 24)
	if dayDiff < 1 {
		score += 0.3
		reasons = append(reasons, "Same date")
	} else if dayDiff <= 2 {
		score += 0.2
		reasons = append(reasons, "Adjacent date")
	}

	// Merchant similarity
	if a.Merchant != "" && b.Merchant != "" {
		if levenshteinRatio(a.Merchant, b.Merchant) > 0.7 {
			score += 0.2
			reasons = append(reasons, "Similar merchant")
		}
	}

	return score, strings.Join(reasons, " + ")
}

// levenshteinRatio returns a 0-1 similarity ratio between two strings.
func levenshteinRatio(a, b string) float64 {
	d := levenshteinDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(d)/float64(maxLen)
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
