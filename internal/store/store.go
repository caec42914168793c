package store

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/cardsift/cardsift/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// ErrDuplicateFile is returned by CreateFileFingerprint when a fingerprint
// with the same hash has already been recorded.
var ErrDuplicateFile = errors.New("store: duplicate file fingerprint")

// ErrNotFound is returned by point lookups for records that do not exist.
// GetMerchantRule is the exception: an absent rule is (nil, nil), because
// rule misses are an expected part of every categorization pass.
var ErrNotFound = errors.New("store: not found")

// TransactionFilter narrows ListTransactions. Zero values mean "no filter"
// for that field.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Review    model.ReviewStatus
	Category  string
}

// Store defines the interface for all database operations used by the service
type Store interface {
	// Transaction operations. CreateTransactions persists the whole batch
	// atomically: either every transaction is written or none are.
	CreateTransactions(ctx context.Context, txs []*model.Transaction) error
	GetTransaction(ctx context.Context, userID, transactionID string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *model.Transaction) error
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter, pageSize int32, pageToken string) ([]*model.Transaction, string, error)

	// File fingerprint operations
	CreateFileFingerprint(ctx context.Context, fp *model.FileFingerprint) error
	HasFileFingerprint(ctx context.Context, hash string) (bool, error)

	// Merchant rule operations
	GetMerchantRule(ctx context.Context, userID, merchant string) (*model.MerchantRule, error)
	ListMerchantRules(ctx context.Context, userID string) ([]*model.MerchantRule, error)
	UpsertMerchantRule(ctx context.Context, rule *model.MerchantRule) error

	// Category operations
	ListCategories(ctx context.Context) ([]*model.Category, error)
	SeedCategories(ctx context.Context, categories []*model.Category) error
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
