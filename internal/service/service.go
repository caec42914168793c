package service

import (
	"context"
	"log"

	"github.com/cardsift/cardsift/internal/categorize"
	"github.com/cardsift/cardsift/internal/model"
	"github.com/cardsift/cardsift/internal/store"
)

// StatementService owns the upload and correction flows. Categorization
// machinery is built per upload so each batch gets its own merchant cache.
type StatementService struct {
	store      store.Store
	classifier categorize.Classifier
	learner    *categorize.Learner
	workers    int
}

func NewStatementService(st store.Store, classifier categorize.Classifier) *StatementService {
	return &StatementService{
		store:      st,
		classifier: classifier,
		learner:    categorize.NewLearner(st),
		workers:    categorize.DefaultWorkers,
	}
}

// categories returns the stored catalog, seeding the defaults on first use.
func (s *StatementService) categories(ctx context.Context) ([]*model.Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		if err := s.store.SeedCategories(ctx, model.DefaultCategories()); err != nil {
			log.Printf("service: category seeding failed: %v", err)
		}
		return model.DefaultCategories(), nil
	}
	return cats, nil
}
