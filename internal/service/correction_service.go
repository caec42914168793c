package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cardsift/cardsift/internal/ingest"
	"github.com/cardsift/cardsift/internal/model"
	"github.com/cardsift/cardsift/internal/store"
)

// correctionBoost is the confidence boost a rule earns per explicit user
// correction. Together with the exact-match base an often-corrected merchant
// quickly reaches full confidence.
const correctionBoost = 0.05

// CorrectTransaction reassigns one transaction's category, approves it, and
// feeds the correction to the rule learner as a manual override. Learning
// failures are logged and swallowed; the correction itself must not fail
// because the rule write raced.
func (s *StatementService) CorrectTransaction(ctx context.Context, userID, transactionID, categoryID string) (*model.Transaction, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("correction: category id is required")
	}
	tx, err := s.store.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("correction: %w", err)
	}

	tx.CategoryID = categoryID
	tx.Confidence = 1.0
	tx.Review = model.ReviewApproved
	tx.UsedRule = false
	tx.UpdatedAt = time.Now()
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("correction: %w", err)
	}

	if err := s.learner.Learn(ctx, userID, tx.Merchant, categoryID, correctionBoost, true); err != nil {
		log.Printf("correction: rule learning failed for merchant %q: %v", tx.Merchant, err)
	}
	return tx, nil
}

// CorrectMerchant applies a category to every transaction of a merchant and
// records a manual rule. Returns how many transactions were updated.
func (s *StatementService) CorrectMerchant(ctx context.Context, userID, merchant, categoryID string) (int, error) {
	if categoryID == "" {
		return 0, fmt.Errorf("correction: category id is required")
	}
	normalized := ingest.NormalizeMerchant(merchant)
	if normalized == "" {
		return 0, fmt.Errorf("correction: merchant is required")
	}

	now := time.Now()
	updated := 0
	token := ""
	for {
		txs, next, err := s.store.ListTransactions(ctx, userID, store.TransactionFilter{}, 200, token)
		if err != nil {
			return updated, fmt.Errorf("correction: listing transactions: %w", err)
		}
		for _, tx := range txs {
			if tx.Merchant != normalized {
				continue
			}
			tx.CategoryID = categoryID
			tx.Confidence = 1.0
			tx.Review = model.ReviewApproved
			tx.UsedRule = false
			tx.UpdatedAt = now
			if err := s.store.UpdateTransaction(ctx, tx); err != nil {
				return updated, fmt.Errorf("correction: updating transaction %s: %w", tx.ID, err)
			}
			updated++
		}
		if next == "" {
			break
		}
		token = next
	}

	if err := s.learner.Learn(ctx, userID, normalized, categoryID, correctionBoost, true); err != nil {
		log.Printf("correction: rule learning failed for merchant %q: %v", normalized, err)
	}
	return updated, nil
}
