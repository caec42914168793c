package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardsift/cardsift/internal/model"
)

func newTx(id, userID string, date time.Time) *model.Transaction {
	return &model.Transaction{
		ID:             id,
		UserID:         userID,
		Date:           date,
		Merchant:       "merchant",
		AmountRaw:      decimal.NewFromInt(-10),
		AmountSpending: decimal.NewFromInt(10),
		Review:         model.ReviewApproved,
	}
}

func TestMemoryStore_CreateAndGetTransactions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	txs := []*model.Transaction{newTx("", "u1", date), newTx("", "u1", date)}
	if err := s.CreateTransactions(ctx, txs); err != nil {
		t.Fatalf("CreateTransactions: %v", err)
	}
	if txs[0].ID == "" || txs[1].ID == "" {
		t.Fatal("expected IDs to be assigned")
	}

	got, err := s.GetTransaction(ctx, "u1", txs[0].ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Merchant != "merchant" {
		t.Errorf("got merchant %q", got.Merchant)
	}

	// Another user must not see it.
	if _, err := s.GetTransaction(ctx, "u2", txs[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user get: want ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ListTransactionsFiltersAndPaginates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var txs []*model.Transaction
	for i := 0; i < 5; i++ {
		tx := newTx("", "u1", base.AddDate(0, 0, i))
		if i == 4 {
			tx.Review = model.ReviewPending
		}
		txs = append(txs, tx)
	}
	txs = append(txs, newTx("", "u2", base))
	if err := s.CreateTransactions(ctx, txs); err != nil {
		t.Fatalf("CreateTransactions: %v", err)
	}

	all, _, err := s.ListTransactions(ctx, "u1", TransactionFilter{}, 0, "")
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 transactions for u1, got %d", len(all))
	}

	pending, _, err := s.ListTransactions(ctx, "u1", TransactionFilter{Review: model.ReviewPending}, 0, "")
	if err != nil {
		t.Fatalf("ListTransactions pending: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected 1 pending transaction, got %d", len(pending))
	}

	start := base.AddDate(0, 0, 2)
	ranged, _, err := s.ListTransactions(ctx, "u1", TransactionFilter{StartDate: &start}, 0, "")
	if err != nil {
		t.Fatalf("ListTransactions ranged: %v", err)
	}
	if len(ranged) != 3 {
		t.Errorf("expected 3 transactions from day 2, got %d", len(ranged))
	}

	// Walk pages of 2 and make sure every transaction shows up exactly once.
	seen := map[string]bool{}
	token := ""
	for {
		page, next, err := s.ListTransactions(ctx, "u1", TransactionFilter{}, 2, token)
		if err != nil {
			t.Fatalf("ListTransactions page: %v", err)
		}
		for _, tx := range page {
			if seen[tx.ID] {
				t.Errorf("transaction %s returned twice", tx.ID)
			}
			seen[tx.ID] = true
		}
		if next == "" {
			break
		}
		token = next
	}
	if len(seen) != 5 {
		t.Errorf("pagination returned %d distinct transactions, want 5", len(seen))
	}
}

func TestMemoryStore_UpdateTransaction(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	tx := newTx("t1", "u1", time.Now())
	if err := s.CreateTransactions(ctx, []*model.Transaction{tx}); err != nil {
		t.Fatalf("CreateTransactions: %v", err)
	}

	updated := *tx
	updated.CategoryID = "food"
	updated.Review = model.ReviewApproved
	if err := s.UpdateTransaction(ctx, &updated); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	got, _ := s.GetTransaction(ctx, "u1", "t1")
	if got.CategoryID != "food" {
		t.Errorf("category = %q after update", got.CategoryID)
	}

	missing := newTx("nope", "u1", time.Now())
	if err := s.UpdateTransaction(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of missing transaction: want ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_FileFingerprintDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	fp := &model.FileFingerprint{Hash: "abc123", UserID: "u1", Filename: "jan.csv"}

	if err := s.CreateFileFingerprint(ctx, fp); err != nil {
		t.Fatalf("first CreateFileFingerprint: %v", err)
	}
	if err := s.CreateFileFingerprint(ctx, fp); !errors.Is(err, ErrDuplicateFile) {
		t.Errorf("second create: want ErrDuplicateFile, got %v", err)
	}

	ok, err := s.HasFileFingerprint(ctx, "abc123")
	if err != nil || !ok {
		t.Errorf("HasFileFingerprint(abc123) = %v, %v", ok, err)
	}
	ok, err = s.HasFileFingerprint(ctx, "other")
	if err != nil || ok {
		t.Errorf("HasFileFingerprint(other) = %v, %v", ok, err)
	}
}

func TestMemoryStore_MerchantRuleAbsentIsNilNil(t *testing.T) {
	s := NewMemoryStore()
	rule, err := s.GetMerchantRule(context.Background(), "u1", "unknown")
	if err != nil {
		t.Fatalf("GetMerchantRule: %v", err)
	}
	if rule != nil {
		t.Errorf("expected nil rule for absent merchant, got %+v", rule)
	}
}

func TestMemoryStore_UpsertAndListMerchantRules(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, merchant := range []string{"zeta", "alpha"} {
		err := s.UpsertMerchantRule(ctx, &model.MerchantRule{UserID: "u1", Merchant: merchant, CategoryID: "food"})
		if err != nil {
			t.Fatalf("UpsertMerchantRule: %v", err)
		}
	}

	rules, err := s.ListMerchantRules(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMerchantRules: %v", err)
	}
	if len(rules) != 2 || rules[0].Merchant != "alpha" || rules[1].Merchant != "zeta" {
		t.Errorf("expected sorted rules [alpha zeta], got %+v", rules)
	}

	// Upsert for the same merchant replaces, not appends.
	if err := s.UpsertMerchantRule(ctx, &model.MerchantRule{UserID: "u1", Merchant: "alpha", CategoryID: "travel"}); err != nil {
		t.Fatalf("UpsertMerchantRule: %v", err)
	}
	rules, _ = s.ListMerchantRules(ctx, "u1")
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules after re-upsert, got %d", len(rules))
	}
	got, _ := s.GetMerchantRule(ctx, "u1", "alpha")
	if got.CategoryID != "travel" {
		t.Errorf("re-upsert did not replace category, got %s", got.CategoryID)
	}
}

func TestMemoryStore_SeedCategoriesOnce(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.SeedCategories(ctx, model.DefaultCategories()); err != nil {
		t.Fatalf("SeedCategories: %v", err)
	}
	// A second seed must not overwrite.
	if err := s.SeedCategories(ctx, []*model.Category{{ID: "only", Name: "Only"}}); err != nil {
		t.Fatalf("second SeedCategories: %v", err)
	}

	cats, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != len(model.DefaultCategories()) {
		t.Errorf("expected %d categories, got %d", len(model.DefaultCategories()), len(cats))
	}
}
