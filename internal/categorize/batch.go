package categorize

import (
	"context"
	"log"
	"sync"

	"github.com/cardsift/cardsift/internal/model"
)

// DefaultWorkers is the fixed size of the categorization worker pool,
// independent of batch size.
const DefaultWorkers = 5

// Orchestrator fans a batch of transactions through rule matching, model
// categorization and confidence routing under a bounded worker pool.
type Orchestrator struct {
	matcher     *Matcher
	categorizer *Categorizer
	workers     int
}

// NewOrchestrator creates a batch orchestrator. workers <= 0 falls back to
// DefaultWorkers.
func NewOrchestrator(matcher *Matcher, categorizer *Categorizer, workers int) *Orchestrator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Orchestrator{matcher: matcher, categorizer: categorizer, workers: workers}
}

// Categorize produces exactly one result per input transaction, in input
// order. Workers claim indices from a channel and write into a pre-sized
// slice, so ordering is stable regardless of completion order. A failure on
// one transaction yields a zero-confidence review result for that
// transaction only; it never aborts the batch.
func (o *Orchestrator) Categorize(ctx context.Context, userID string, txs []*model.Transaction) []model.CategorizationResult {
	results := make([]model.CategorizationResult, len(txs))
	if len(txs) == 0 {
		return results
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = o.categorizeOne(ctx, userID, txs[i])
			}
		}()
	}

	for i := range txs {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return results
}

func (o *Orchestrator) categorizeOne(ctx context.Context, userID string, tx *model.Transaction) model.CategorizationResult {
	match, err := o.matcher.Match(ctx, userID, tx.Merchant)
	if err != nil {
		// Rule lookup is an optimization; a store error falls through to
		// the model rather than failing the transaction.
		log.Printf("categorize: rule lookup failed for merchant %q: %v", tx.Merchant, err)
	}
	if match != nil {
		return routeRule(match)
	}

	amount := tx.AmountSpending
	if amount.IsZero() {
		amount = tx.AmountRaw.Abs()
	}
	probs, fromFallback := o.categorizer.Probabilities(ctx, tx.Merchant, amount, tx.Date)
	return routeProbabilities(probs, fromFallback)
}
