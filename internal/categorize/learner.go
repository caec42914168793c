package categorize

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cardsift/cardsift/internal/model"
)

// Learner persists merchant rules from accepted or corrected
// categorizations.
//
// The update policy is monotonic-trust: a rule created from an explicit user
// correction is sticky, so automatic updates may only accumulate its boost
// and never change its category. Automatic rules are replaced freely, and a
// manual update overwrites anything.
//
// The read-then-write here can interleave with a concurrent update for the
// same merchant. Learning is a best-effort signal, not a consistency-critical
// counter, so no locking is added; callers treat failures as warnings.
type Learner struct {
	store RuleStore
}

// NewLearner creates a rule learner over the given store.
func NewLearner(store RuleStore) *Learner {
	return &Learner{store: store}
}

// Learn creates or updates the rule for (userID, merchant).
func (l *Learner) Learn(ctx context.Context, userID, merchant, categoryID string, boost float64, manual bool) error {
	if merchant == "" || categoryID == "" {
		return fmt.Errorf("learn: merchant and category are required")
	}
	boost = clampBoost(boost)
	now := time.Now()

	existing, err := l.store.GetMerchantRule(ctx, userID, merchant)
	if err != nil {
		return fmt.Errorf("learn: rule lookup: %w", err)
	}

	if existing == nil {
		return l.store.UpsertMerchantRule(ctx, &model.MerchantRule{
			ID:              uuid.New().String(),
			UserID:          userID,
			Merchant:        merchant,
			CategoryID:      categoryID,
			ConfidenceBoost: boost,
			ManualOverride:  manual,
			CorrectionCount: 1,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	if existing.ManualOverride && !manual {
		// Manual rules are sticky: an automatic update only reinforces.
		existing.ConfidenceBoost = clampBoost(existing.ConfidenceBoost + boost)
		existing.UpdatedAt = now
		return l.store.UpsertMerchantRule(ctx, existing)
	}

	existing.CategoryID = categoryID
	existing.ConfidenceBoost = boost
	if manual {
		existing.ManualOverride = true
		existing.CorrectionCount++
	}
	existing.UpdatedAt = now
	return l.store.UpsertMerchantRule(ctx, existing)
}

func clampBoost(boost float64) float64 {
	if boost < 0 {
		return 0
	}
	if boost > 1 {
		return 1
	}
	return boost
}
