package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cardsift/cardsift/internal/model"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	// Storage maps
	transactions map[string]*model.Transaction
	fingerprints map[string]*model.FileFingerprint
	rules        map[string]*model.MerchantRule
	categories   []*model.Category
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*model.Transaction),
		fingerprints: make(map[string]*model.FileFingerprint),
		rules:        make(map[string]*model.MerchantRule),
	}
}

// paginateIDs applies cursor-based pagination to a sorted slice of IDs.
// Returns the paginated IDs and the next page token (empty if no more pages).
func paginateIDs(ids []string, pageSize int32, pageToken string) ([]string, string) {
	if pageSize <= 0 {
		pageSize = 100
	}

	sort.Strings(ids)

	// Find cursor position
	startIdx := 0
	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err == nil {
			for i, id := range ids {
				if id > cursorID {
					startIdx = i
					break
				}
				// If we've reached the end without finding a greater ID
				if i == len(ids)-1 {
					return nil, ""
				}
			}
		}
	}

	ids = ids[startIdx:]

	var nextToken string
	if int32(len(ids)) > pageSize {
		nextToken = EncodePageToken(ids[pageSize-1])
		ids = ids[:pageSize]
	}

	return ids, nextToken
}

func ruleKey(userID, merchant string) string {
	return userID + "|" + merchant
}

// Transaction operations

func (m *MemoryStore) CreateTransactions(ctx context.Context, txs []*model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Assign IDs and validate before touching the maps so the batch stays
	// all-or-nothing.
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.New().String()
		}
		if tx.UserID == "" {
			return fmt.Errorf("transaction %s missing user", tx.ID)
		}
	}
	for _, tx := range txs {
		m.transactions[tx.ID] = tx
	}
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, userID, transactionID string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.transactions[transactionID]
	if !ok || tx.UserID != userID {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
	}
	return tx, nil
}

func (m *MemoryStore) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return fmt.Errorf("transaction %s: %w", tx.ID, ErrNotFound)
	}
	m.transactions[tx.ID] = tx
	return nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, userID string, filter TransactionFilter, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matchingIDs []string
	for id, tx := range m.transactions {
		if tx.UserID != userID {
			continue
		}
		if filter.StartDate != nil && tx.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && tx.Date.After(*filter.EndDate) {
			continue
		}
		if filter.Review != "" && tx.Review != filter.Review {
			continue
		}
		if filter.Category != "" && tx.CategoryID != filter.Category {
			continue
		}
		matchingIDs = append(matchingIDs, id)
	}

	paginatedIDs, nextToken := paginateIDs(matchingIDs, pageSize, pageToken)
	result := make([]*model.Transaction, 0, len(paginatedIDs))
	for _, id := range paginatedIDs {
		result = append(result, m.transactions[id])
	}
	return result, nextToken, nil
}

// File fingerprint operations

func (m *MemoryStore) CreateFileFingerprint(ctx context.Context, fp *model.FileFingerprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.fingerprints[fp.Hash]; ok {
		return ErrDuplicateFile
	}
	m.fingerprints[fp.Hash] = fp
	return nil
}

func (m *MemoryStore) HasFileFingerprint(ctx context.Context, hash string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.fingerprints[hash]
	return ok, nil
}

// Merchant rule operations

func (m *MemoryStore) GetMerchantRule(ctx context.Context, userID, merchant string) (*model.MerchantRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rule, ok := m.rules[ruleKey(userID, merchant)]
	if !ok {
		return nil, nil
	}
	return rule, nil
}

func (m *MemoryStore) ListMerchantRules(ctx context.Context, userID string) ([]*model.MerchantRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rules []*model.MerchantRule
	for _, rule := range m.rules {
		if rule.UserID == userID {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Merchant < rules[j].Merchant })
	return rules, nil
}

func (m *MemoryStore) UpsertMerchantRule(ctx context.Context, rule *model.MerchantRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	m.rules[ruleKey(rule.UserID, rule.Merchant)] = rule
	return nil
}

// Category operations

func (m *MemoryStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.Category, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

func (m *MemoryStore) SeedCategories(ctx context.Context, categories []*model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.categories) > 0 {
		return nil
	}
	m.categories = make([]*model.Category, len(categories))
	copy(m.categories, categories)
	return nil
}
