package categorize

import (
	"context"
	"sync"
	"testing"

	"github.com/cardsift/cardsift/internal/model"
)

// fakeRuleStore is a minimal in-memory RuleStore for pipeline tests.
type fakeRuleStore struct {
	mu    sync.Mutex
	rules map[string]*model.MerchantRule // userID|merchant
	err   error
}

func newFakeRuleStore() *fakeRuleStore {
	return &fakeRuleStore{rules: make(map[string]*model.MerchantRule)}
}

func (f *fakeRuleStore) GetMerchantRule(_ context.Context, userID, merchant string) (*model.MerchantRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rule, ok := f.rules[userID+"|"+merchant]
	if !ok {
		return nil, nil
	}
	cp := *rule
	return &cp, nil
}

func (f *fakeRuleStore) ListMerchantRules(_ context.Context, userID string) ([]*model.MerchantRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.MerchantRule
	for _, r := range f.rules {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRuleStore) UpsertMerchantRule(_ context.Context, rule *model.MerchantRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *rule
	f.rules[rule.UserID+"|"+rule.Merchant] = &cp
	return nil
}

func TestMatcher_ExactMatch(t *testing.T) {
	store := newFakeRuleStore()
	store.rules["u1|coffee shop"] = &model.MerchantRule{
		UserID: "u1", Merchant: "coffee shop", CategoryID: "food", ConfidenceBoost: 0.02,
	}

	match, err := NewMatcher(store).Match(context.Background(), "u1", "coffee shop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match == nil || !match.Exact {
		t.Fatalf("expected exact match, got %+v", match)
	}
	if match.Confidence != 0.97 {
		t.Errorf("confidence = %v, want 0.97", match.Confidence)
	}
}

func TestMatcher_PartialMatch(t *testing.T) {
	store := newFakeRuleStore()
	store.rules["u1|starbucks"] = &model.MerchantRule{
		UserID: "u1", Merchant: "starbucks", CategoryID: "food",
	}

	match, err := NewMatcher(store).Match(context.Background(), "u1", "starbucks 1234 sydney")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match == nil || match.Exact {
		t.Fatalf("expected partial match, got %+v", match)
	}
	if match.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", match.Confidence)
	}
}

func TestMatcher_ConfidenceCappedAtOne(t *testing.T) {
	store := newFakeRuleStore()
	store.rules["u1|acme"] = &model.MerchantRule{
		UserID: "u1", Merchant: "acme", CategoryID: "other", ConfidenceBoost: 0.9,
	}
	match, err := NewMatcher(store).Match(context.Background(), "u1", "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", match.Confidence)
	}
}

func TestMatcher_NoMatch(t *testing.T) {
	match, err := NewMatcher(newFakeRuleStore()).Match(context.Background(), "u1", "unknown merchant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match != nil {
		t.Errorf("expected nil, got %+v", match)
	}
}

func TestMatcher_PartialScanIsDeterministic(t *testing.T) {
	store := newFakeRuleStore()
	store.rules["u1|star"] = &model.MerchantRule{UserID: "u1", Merchant: "star", CategoryID: "a"}
	store.rules["u1|starbucks"] = &model.MerchantRule{UserID: "u1", Merchant: "starbucks", CategoryID: "b"}

	m := NewMatcher(store)
	first, err := m.Match(context.Background(), "u1", "starbucks reserve")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := m.Match(context.Background(), "u1", "starbucks reserve")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Rule.CategoryID != first.Rule.CategoryID {
			t.Fatalf("partial match not deterministic: %s vs %s", again.Rule.CategoryID, first.Rule.CategoryID)
		}
	}
	// Sorted scan means "star" (lexicographically first) wins.
	if first.Rule.CategoryID != "a" {
		t.Errorf("expected rule for 'star' to win, got %s", first.Rule.CategoryID)
	}
}
