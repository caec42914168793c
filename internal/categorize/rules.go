package categorize

import (
	"context"
	"sort"
	"strings"

	"github.com/cardsift/cardsift/internal/model"
)

// Base confidences per match phase; the rule's boost is added on top,
// capped at 1.0.
const (
	exactMatchConfidence   = 0.95
	partialMatchConfidence = 0.85
)

// RuleStore is the slice of storage the rule matcher and learner need.
// Satisfied by store.Store.
type RuleStore interface {
	GetMerchantRule(ctx context.Context, userID, merchant string) (*model.MerchantRule, error)
	ListMerchantRules(ctx context.Context, userID string) ([]*model.MerchantRule, error)
	UpsertMerchantRule(ctx context.Context, rule *model.MerchantRule) error
}

// RuleMatch is a matched rule plus its derived confidence.
type RuleMatch struct {
	Rule       *model.MerchantRule
	Confidence float64
	Exact      bool
}

// Matcher looks up learned merchant rules before any model call is paid for.
type Matcher struct {
	store RuleStore
}

// NewMatcher creates a rule matcher over the given store.
func NewMatcher(store RuleStore) *Matcher {
	return &Matcher{store: store}
}

// Match resolves a rule for a normalized merchant in two phases: exact
// lookup on (user, merchant), then a scan accepting the first rule where
// either merchant string contains the other. The scan iterates rules sorted
// by merchant so first-match is deterministic for a given rule set.
func (m *Matcher) Match(ctx context.Context, userID, merchant string) (*RuleMatch, error) {
	rule, err := m.store.GetMerchantRule(ctx, userID, merchant)
	if err != nil {
		return nil, err
	}
	if rule != nil {
		return &RuleMatch{Rule: rule, Confidence: ruleConfidence(exactMatchConfidence, rule), Exact: true}, nil
	}

	rules, err := m.store.ListMerchantRules(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Merchant < rules[j].Merchant })

	for _, r := range rules {
		if r.Merchant == "" {
			continue
		}
		if strings.Contains(merchant, r.Merchant) || strings.Contains(r.Merchant, merchant) {
			return &RuleMatch{Rule: r, Confidence: ruleConfidence(partialMatchConfidence, r)}, nil
		}
	}
	return nil, nil
}

func ruleConfidence(base float64, rule *model.MerchantRule) float64 {
	conf := base + rule.ConfidenceBoost
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
