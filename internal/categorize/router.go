package categorize

import (
	"github.com/cardsift/cardsift/internal/model"
)

// ConfidenceThreshold is the score below which a categorization is routed to
// human review instead of auto-approval. Shared by rule- and model-derived
// confidences.
const ConfidenceThreshold = 0.75

// routeRule builds the final result for a rule-derived categorization.
func routeRule(match *RuleMatch) model.CategorizationResult {
	return model.CategorizationResult{
		CategoryID: match.Rule.CategoryID,
		Confidence: match.Confidence,
		Routing:    routeByConfidence(match.Confidence),
		UsedRule:   true,
	}
}

// routeProbabilities builds the final result from a model distribution: the
// category is the argmax, the confidence its probability. A fallback
// (uniform) distribution yields no category and mandatory review.
func routeProbabilities(probs []model.CategoryProbability, fromFallback bool) model.CategorizationResult {
	if fromFallback || len(probs) == 0 {
		return model.CategorizationResult{
			Confidence:    0,
			Routing:       model.ReviewPending,
			Probabilities: probs,
		}
	}

	best := probs[0]
	for _, p := range probs[1:] {
		if p.Probability > best.Probability {
			best = p
		}
	}
	return model.CategorizationResult{
		CategoryID:    best.CategoryID,
		Confidence:    best.Probability,
		Routing:       routeByConfidence(best.Probability),
		Probabilities: probs,
	}
}

func routeByConfidence(confidence float64) model.ReviewStatus {
	if confidence >= ConfidenceThreshold {
		return model.ReviewApproved
	}
	return model.ReviewPending
}
