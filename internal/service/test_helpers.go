package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardsift/cardsift/internal/categorize"
	"github.com/cardsift/cardsift/internal/model"
	"github.com/cardsift/cardsift/internal/store"
)

// stubClassifier returns a fixed distribution, or fails for one merchant.
type stubClassifier struct {
	calls   atomic.Int64
	probs   []model.CategoryProbability
	failFor string
}

func (c *stubClassifier) Probabilities(_ context.Context, merchant string, _ decimal.Decimal, _ time.Time, _ []*model.Category) ([]model.CategoryProbability, error) {
	c.calls.Add(1)
	if c.failFor != "" && merchant == c.failFor {
		return nil, &categorize.CategorizeError{Code: categorize.ErrGeminiUnavailable, Message: "stub failure"}
	}
	out := make([]model.CategoryProbability, len(c.probs))
	copy(out, c.probs)
	return out, nil
}

func confidentFood() *stubClassifier {
	return &stubClassifier{probs: []model.CategoryProbability{
		{CategoryID: "food", CategoryName: "Food", Probability: 0.9},
		{CategoryID: "other", CategoryName: "Other", Probability: 0.1},
	}}
}

func newMemoryService(classifier categorize.Classifier) (*StatementService, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return NewStatementService(st, classifier), st
}
