package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cardsift/cardsift/internal/model"
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{
		client: client,
	}
}

// transactionDoc is the Firestore shape of a transaction. Amounts are stored
// as decimal strings so no precision is lost to float64 round-tripping.
type transactionDoc struct {
	ID              string
	UserID          string
	FileFingerprint string
	Date            time.Time
	Merchant        string
	MerchantDisplay string
	AmountRaw       string
	AmountSpending  string
	Convention      string
	IsCredit        bool
	IsPayment       bool
	CategoryID      string
	Confidence      float64
	Review          string
	UsedRule        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func docFromTransaction(tx *model.Transaction) *transactionDoc {
	return &transactionDoc{
		ID:              tx.ID,
		UserID:          tx.UserID,
		FileFingerprint: tx.FileFingerprint,
		Date:            tx.Date,
		Merchant:        tx.Merchant,
		MerchantDisplay: tx.MerchantDisplay,
		AmountRaw:       tx.AmountRaw.String(),
		AmountSpending:  tx.AmountSpending.String(),
		Convention:      string(tx.Convention),
		IsCredit:        tx.IsCredit,
		IsPayment:       tx.IsPayment,
		CategoryID:      tx.CategoryID,
		Confidence:      tx.Confidence,
		Review:          string(tx.Review),
		UsedRule:        tx.UsedRule,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

func (d *transactionDoc) toTransaction() (*model.Transaction, error) {
	raw, err := decimal.NewFromString(d.AmountRaw)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: bad raw amount %q: %w", d.ID, d.AmountRaw, err)
	}
	spending, err := decimal.NewFromString(d.AmountSpending)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: bad spending amount %q: %w", d.ID, d.AmountSpending, err)
	}
	return &model.Transaction{
		ID:              d.ID,
		UserID:          d.UserID,
		FileFingerprint: d.FileFingerprint,
		Date:            d.Date,
		Merchant:        d.Merchant,
		MerchantDisplay: d.MerchantDisplay,
		AmountRaw:       raw,
		AmountSpending:  spending,
		Convention:      model.SignConvention(d.Convention),
		IsCredit:        d.IsCredit,
		IsPayment:       d.IsPayment,
		CategoryID:      d.CategoryID,
		Confidence:      d.Confidence,
		Review:          model.ReviewStatus(d.Review),
		UsedRule:        d.UsedRule,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

type fingerprintDoc struct {
	Hash       string
	UserID     string
	Filename   string
	HourBucket time.Time
	CreatedAt  time.Time
}

type merchantRuleDoc struct {
	ID              string
	UserID          string
	Merchant        string
	CategoryID      string
	ConfidenceBoost float64
	ManualOverride  bool
	CorrectionCount int32
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// applyDateAwarePagination handles pagination for queries with date range filters.
// Firestore requires OrderBy on inequality fields first, so we use OrderBy("Date") + OrderBy(__name__).
// The cursor must include both the Date value and the document ID.
func (s *FirestoreStore) applyDateAwarePagination(ctx context.Context, query firestore.Query, collection string, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy("Date", firestore.Asc).OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		// Fetch the cursor document to get its Date value for composite StartAfter
		cursorDoc, err := s.client.Collection(collection).Doc(docID).Get(ctx)
		if err != nil {
			return query, fmt.Errorf("failed to fetch cursor document: %w", err)
		}
		dateVal := cursorDoc.Data()["Date"]
		query = query.StartAfter(dateVal, docID)
	}

	if pageSize <= 0 {
		pageSize = 100
	}
	query = query.Limit(int(pageSize) + 1)
	return query, nil
}

// applyCursorPagination adds OrderBy + StartAfter + Limit to a query for cursor-based pagination.
// It fetches pageSize+1 docs so the caller can detect whether a next page exists.
func (s *FirestoreStore) applyCursorPagination(query firestore.Query, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		query = query.StartAfter(docID)
	}

	if pageSize <= 0 {
		pageSize = 100
	}
	query = query.Limit(int(pageSize) + 1) // +1 to detect next page
	return query, nil
}

// CreateTransactions writes the batch in a single atomic commit.
func (s *FirestoreStore) CreateTransactions(ctx context.Context, txs []*model.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	batch := s.client.Batch()
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.New().String()
		}
		ref := s.client.Collection("transactions").Doc(tx.ID)
		batch.Set(ref, docFromTransaction(tx))
	}

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to create transactions: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction from Firestore
func (s *FirestoreStore) GetTransaction(ctx context.Context, userID, transactionID string) (*model.Transaction, error) {
	doc, err := s.client.Collection("transactions").Doc(transactionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	var d transactionDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to parse transaction: %w", err)
	}
	if d.UserID != userID {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
	}
	return d.toTransaction()
}

// UpdateTransaction updates an existing transaction in Firestore
func (s *FirestoreStore) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	if _, err := s.GetTransaction(ctx, tx.UserID, tx.ID); err != nil {
		return err
	}
	_, err := s.client.Collection("transactions").Doc(tx.ID).Set(ctx, docFromTransaction(tx))
	return err
}

// ListTransactions lists transactions from Firestore
func (s *FirestoreStore) ListTransactions(ctx context.Context, userID string, filter TransactionFilter, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	query := s.client.Collection("transactions").Query.Where("UserID", "==", userID)

	// NOTE: Field names must match Go struct field names (PascalCase) as
	// that's how Firestore serializes the doc structs
	if filter.Review != "" {
		query = query.Where("Review", "==", string(filter.Review))
	}
	if filter.Category != "" {
		query = query.Where("CategoryID", "==", filter.Category)
	}

	hasDateFilter := filter.StartDate != nil || filter.EndDate != nil
	if filter.StartDate != nil {
		query = query.Where("Date", ">=", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("Date", "<=", *filter.EndDate)
	}

	// When date range filters are present, Firestore requires OrderBy on the
	// range field first. Use date-aware pagination to avoid "cannot contain
	// more fields after the key" errors.
	var err error
	if hasDateFilter {
		query, err = s.applyDateAwarePagination(ctx, query, "transactions", pageSize, pageToken)
	} else {
		query, err = s.applyCursorPagination(query, pageSize, pageToken)
	}
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list transactions: %w", err)
	}

	if pageSize <= 0 {
		pageSize = 100
	}

	var nextPageToken string
	if len(docs) > int(pageSize) {
		docs = docs[:pageSize]
		nextPageToken = EncodePageToken(docs[pageSize-1].Ref.ID)
	}

	txs := make([]*model.Transaction, 0, len(docs))
	for _, doc := range docs {
		var d transactionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, "", fmt.Errorf("failed to parse transaction: %w", err)
		}
		tx, err := d.toTransaction()
		if err != nil {
			return nil, "", err
		}
		txs = append(txs, tx)
	}

	return txs, nextPageToken, nil
}

// CreateFileFingerprint records a fingerprint, keyed by its hash. Create
// fails on an existing document, which is what makes the duplicate check
// race-free across concurrent uploads.
func (s *FirestoreStore) CreateFileFingerprint(ctx context.Context, fp *model.FileFingerprint) error {
	doc := &fingerprintDoc{
		Hash:       fp.Hash,
		UserID:     fp.UserID,
		Filename:   fp.Filename,
		HourBucket: fp.HourBucket,
		CreatedAt:  fp.CreatedAt,
	}
	_, err := s.client.Collection("fileFingerprints").Doc(fp.Hash).Create(ctx, doc)
	if status.Code(err) == codes.AlreadyExists {
		return ErrDuplicateFile
	}
	return err
}

// HasFileFingerprint reports whether a fingerprint hash has been recorded.
func (s *FirestoreStore) HasFileFingerprint(ctx context.Context, hash string) (bool, error) {
	_, err := s.client.Collection("fileFingerprints").Doc(hash).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check fingerprint: %w", err)
	}
	return true, nil
}

// GetMerchantRule retrieves the rule for a normalized merchant name.
// A missing rule is (nil, nil), not an error.
func (s *FirestoreStore) GetMerchantRule(ctx context.Context, userID, merchant string) (*model.MerchantRule, error) {
	doc, err := s.client.Collection("merchantRules").Doc(ruleKey(userID, merchant)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get merchant rule: %w", err)
	}

	var d merchantRuleDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to parse merchant rule: %w", err)
	}
	return ruleFromDoc(&d), nil
}

// ListMerchantRules lists all rules for a user.
func (s *FirestoreStore) ListMerchantRules(ctx context.Context, userID string) ([]*model.MerchantRule, error) {
	docs, err := s.client.Collection("merchantRules").
		Where("UserID", "==", userID).
		OrderBy("Merchant", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list merchant rules: %w", err)
	}

	rules := make([]*model.MerchantRule, 0, len(docs))
	for _, doc := range docs {
		var d merchantRuleDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("failed to parse merchant rule: %w", err)
		}
		rules = append(rules, ruleFromDoc(&d))
	}
	return rules, nil
}

// UpsertMerchantRule creates or replaces a rule. The document ID is derived
// from (user, merchant) so upserts for the same merchant always land on the
// same document.
func (s *FirestoreStore) UpsertMerchantRule(ctx context.Context, rule *model.MerchantRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	doc := &merchantRuleDoc{
		ID:              rule.ID,
		UserID:          rule.UserID,
		Merchant:        rule.Merchant,
		CategoryID:      rule.CategoryID,
		ConfidenceBoost: rule.ConfidenceBoost,
		ManualOverride:  rule.ManualOverride,
		CorrectionCount: rule.CorrectionCount,
		CreatedAt:       rule.CreatedAt,
		UpdatedAt:       rule.UpdatedAt,
	}
	_, err := s.client.Collection("merchantRules").Doc(ruleKey(rule.UserID, rule.Merchant)).Set(ctx, doc)
	return err
}

func ruleFromDoc(d *merchantRuleDoc) *model.MerchantRule {
	return &model.MerchantRule{
		ID:              d.ID,
		UserID:          d.UserID,
		Merchant:        d.Merchant,
		CategoryID:      d.CategoryID,
		ConfidenceBoost: d.ConfidenceBoost,
		ManualOverride:  d.ManualOverride,
		CorrectionCount: d.CorrectionCount,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ListCategories lists the category catalog, ordered by ID.
func (s *FirestoreStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	iter := s.client.Collection("categories").
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var categories []*model.Category
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		var c model.Category
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to parse category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, nil
}

// SeedCategories writes the category catalog if it is empty.
func (s *FirestoreStore) SeedCategories(ctx context.Context, categories []*model.Category) error {
	existing, err := s.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	batch := s.client.Batch()
	for _, c := range categories {
		batch.Set(s.client.Collection("categories").Doc(c.ID), c)
	}
	_, err = batch.Commit(ctx)
	return err
}
