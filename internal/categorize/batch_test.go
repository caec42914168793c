package categorize

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardsift/cardsift/internal/model"
)

func makeTx(merchant string, amount int64) *model.Transaction {
	return &model.Transaction{
		Merchant:       merchant,
		AmountRaw:      decimal.NewFromInt(-amount),
		AmountSpending: decimal.NewFromInt(amount),
		Date:           time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestOrchestrator_BatchResilience(t *testing.T) {
	clf := &fakeClassifier{
		probs: []model.CategoryProbability{
			{CategoryID: "food", CategoryName: "Food", Probability: 0.9},
			{CategoryID: "other", CategoryName: "Other", Probability: 0.1},
		},
		failFor: "merchant-13",
	}
	orch := NewOrchestrator(
		NewMatcher(newFakeRuleStore()),
		NewCategorizer(clf, NewLRUCache(256), testCategories),
		DefaultWorkers,
	)

	txs := make([]*model.Transaction, 100)
	for i := range txs {
		txs[i] = makeTx(fmt.Sprintf("merchant-%d", i), int64(i+1))
	}

	results := orch.Categorize(context.Background(), "u1", txs)
	if len(results) != 100 {
		t.Fatalf("expected exactly 100 results, got %d", len(results))
	}

	for i, res := range results {
		if i == 13 {
			if res.CategoryID != "" || res.Confidence != 0 || res.Routing != model.ReviewPending {
				t.Errorf("failed transaction must get the zero-confidence review result, got %+v", res)
			}
			continue
		}
		if res.CategoryID != "food" {
			t.Errorf("result %d: category = %s", i, res.CategoryID)
		}
		if res.Routing != model.ReviewApproved {
			t.Errorf("result %d: routing = %s", i, res.Routing)
		}
	}
}

func TestOrchestrator_RulesShortCircuitModel(t *testing.T) {
	store := newFakeRuleStore()
	store.rules["u1|starbucks"] = &model.MerchantRule{
		UserID: "u1", Merchant: "starbucks", CategoryID: "food",
	}
	clf := &fakeClassifier{probs: []model.CategoryProbability{{CategoryID: "other", Probability: 1}}}
	orch := NewOrchestrator(
		NewMatcher(store),
		NewCategorizer(clf, NewLRUCache(16), testCategories),
		2,
	)

	results := orch.Categorize(context.Background(), "u1", []*model.Transaction{makeTx("starbucks", 4)})
	if !results[0].UsedRule || results[0].CategoryID != "food" {
		t.Errorf("got %+v", results[0])
	}
	if clf.calls.Load() != 0 {
		t.Errorf("model should not be called when a rule matches, calls=%d", clf.calls.Load())
	}
}

func TestOrchestrator_OutputOrderMatchesInput(t *testing.T) {
	store := newFakeRuleStore()
	for i := 0; i < 50; i++ {
		m := fmt.Sprintf("m-%02d", i)
		store.rules["u1|"+m] = &model.MerchantRule{
			UserID: "u1", Merchant: m, CategoryID: fmt.Sprintf("cat-%02d", i),
		}
	}
	orch := NewOrchestrator(
		NewMatcher(store),
		NewCategorizer(&fakeClassifier{}, NewLRUCache(16), testCategories),
		DefaultWorkers,
	)

	txs := make([]*model.Transaction, 50)
	for i := range txs {
		txs[i] = makeTx(fmt.Sprintf("m-%02d", i), 1)
	}
	results := orch.Categorize(context.Background(), "u1", txs)
	for i, res := range results {
		want := fmt.Sprintf("cat-%02d", i)
		if res.CategoryID != want {
			t.Errorf("result %d = %s, want %s (order must be stable)", i, res.CategoryID, want)
		}
	}
}

func TestOrchestrator_EmptyBatch(t *testing.T) {
	orch := NewOrchestrator(
		NewMatcher(newFakeRuleStore()),
		NewCategorizer(&fakeClassifier{}, NewLRUCache(16), testCategories),
		0,
	)
	results := orch.Categorize(context.Background(), "u1", nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
