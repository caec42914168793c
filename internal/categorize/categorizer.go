package categorize

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardsift/cardsift/internal/model"
)

// Categorizer wraps a Classifier with a per-pipeline merchant cache, output
// validation and a uniform-distribution fallback. A model failure is local
// and recoverable: callers always receive a full distribution.
type Categorizer struct {
	classifier Classifier
	cache      ProbabilityCache
	categories []*model.Category
}

// NewCategorizer creates a Categorizer over the given classifier and the
// full category reference list. The cache is owned by this instance, not
// process-global, so tests run with isolated deterministic caches.
func NewCategorizer(classifier Classifier, cache ProbabilityCache, categories []*model.Category) *Categorizer {
	return &Categorizer{
		classifier: classifier,
		cache:      cache,
		categories: categories,
	}
}

// Probabilities returns a normalized distribution over all known categories
// for one merchant. fromFallback reports that the model call or parse failed
// and the uniform fallback was used; such results must not be auto-approved.
//
// One model call is issued per uncached merchant, not per transaction. Two
// workers racing on the same cold merchant may both call the model; the
// duplicate call is harmless.
func (c *Categorizer) Probabilities(ctx context.Context, merchant string, amount decimal.Decimal, date time.Time) (probs []model.CategoryProbability, fromFallback bool) {
	key := strings.ToLower(strings.TrimSpace(merchant))
	if cached, ok := c.cache.Get(key); ok {
		return cached, false
	}

	raw, err := c.classifier.Probabilities(ctx, merchant, amount, date, c.categories)
	if err != nil {
		log.Printf("categorize: model call failed for merchant %q, using uniform fallback: %v", merchant, err)
		return c.uniform(), true
	}

	normalized := c.normalize(raw)
	c.cache.Put(key, normalized)
	return normalized, false
}

// normalize clamps each probability to [0,1], fills in categories the model
// omitted with probability 0, and rescales so the set sums to 1.0.
func (c *Categorizer) normalize(raw []model.CategoryProbability) []model.CategoryProbability {
	byID := make(map[string]float64, len(raw))
	for _, p := range raw {
		v := p.Probability
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		byID[p.CategoryID] = v
	}

	total := 0.0
	out := make([]model.CategoryProbability, len(c.categories))
	for i, cat := range c.categories {
		v := byID[cat.ID]
		out[i] = model.CategoryProbability{CategoryID: cat.ID, CategoryName: cat.Name, Probability: v}
		total += v
	}
	if total <= 0 {
		return c.uniform()
	}
	for i := range out {
		out[i].Probability /= total
	}
	return out
}

// uniform returns the equal-probability fallback distribution.
func (c *Categorizer) uniform() []model.CategoryProbability {
	n := len(c.categories)
	if n == 0 {
		return nil
	}
	p := 1.0 / float64(n)
	out := make([]model.CategoryProbability, n)
	for i, cat := range c.categories {
		out[i] = model.CategoryProbability{CategoryID: cat.ID, CategoryName: cat.Name, Probability: p}
	}
	return out
}
