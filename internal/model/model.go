// Package model defines the core data structures shared by the ingestion and
// categorization pipeline.
package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CellKind identifies the scalar type held by a Cell.
type CellKind int

const (
	CellNull CellKind = iota
	CellString
	CellNumber
)

// Cell is a single raw value from a parsed statement row. Values are typed
// once at parse time so downstream stages never re-inspect interface{} data.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// StringCell wraps a string value.
func StringCell(s string) Cell { return Cell{Kind: CellString, Text: s} }

// NumberCell wraps a numeric value (Excel cells arrive typed).
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

// NullCell represents a missing or empty value.
func NullCell() Cell { return Cell{Kind: CellNull} }

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return c.Kind == CellNull }

// String renders the cell as text for parsing and error messages.
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// RawRow maps a header name to the cell parsed for that column.
type RawRow map[string]Cell

// DetectedColumns names the three columns the pipeline needs from a file.
// Computed once per file and immutable thereafter.
type DetectedColumns struct {
	Date     string
	Merchant string
	Amount   string
}

// SignConvention states which raw amount sign represents money leaving the
// account. A file has exactly one convention for its lifetime.
type SignConvention string

const (
	SignPositive SignConvention = "POSITIVE"
	SignNegative SignConvention = "NEGATIVE"
)

// ErrorReason classifies why a row was rejected during normalization.
type ErrorReason string

const (
	ReasonDateParse      ErrorReason = "DATE_PARSE"
	ReasonAmountParse    ErrorReason = "AMOUNT_PARSE"
	ReasonEmptyMerchant  ErrorReason = "EMPTY_MERCHANT"
	ReasonZeroAmount     ErrorReason = "ZERO_AMOUNT"
	ReasonPayment        ErrorReason = "PAYMENT"
	ReasonMissingColumns ErrorReason = "MISSING_COLUMNS"
	ReasonOther          ErrorReason = "OTHER"
)

// NormalizationError records one rejected row with the offending raw data
// attached. Rejected rows are reported, never silently dropped.
type NormalizationError struct {
	Row     RawRow
	Reason  ErrorReason
	Message string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Reason, e.Message)
}

// ReviewStatus is the routing decision for a categorized transaction.
type ReviewStatus string

const (
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewPending  ReviewStatus = "PENDING_REVIEW"
)

// Transaction is one canonical statement row. The monetary fields are
// immutable once created; CategoryID, Confidence and Review are assigned by
// the categorization pipeline and may later change via user correction.
type Transaction struct {
	ID              string
	UserID          string
	FileFingerprint string

	Date            time.Time
	Merchant        string // normalized form, the only merchant text retained
	MerchantDisplay string // title-cased form for UI surfaces

	AmountRaw      decimal.Decimal // signed, as parsed
	AmountSpending decimal.Decimal // >= 0; 0 iff credit or payment
	Convention     SignConvention
	IsCredit       bool
	IsPayment      bool

	CategoryID string
	Confidence float64
	Review     ReviewStatus
	UsedRule   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FileFingerprint is the deduplication key for one uploaded file.
type FileFingerprint struct {
	Hash       string
	UserID     string
	Filename   string
	HourBucket time.Time
	CreatedAt  time.Time
}

// MerchantRule is a learned merchant-to-category mapping, at most one per
// (user, normalized merchant). Rules created from explicit user corrections
// are higher-trust than automatically learned ones.
type MerchantRule struct {
	ID              string
	UserID          string
	Merchant        string // normalized
	CategoryID      string
	ConfidenceBoost float64 // [0,1]
	ManualOverride  bool
	CorrectionCount int32
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Category is a reference spending category.
type Category struct {
	ID   string
	Name string
}

// CategoryProbability is one entry of a model-produced distribution. The
// full set for a transaction sums to 1.0 after normalization.
type CategoryProbability struct {
	CategoryID   string
	CategoryName string
	Probability  float64
}

// CategorizationResult is the transient output of the decision pipeline for
// one transaction. Persisted fields are CategoryID and Routing.
type CategorizationResult struct {
	CategoryID    string
	Confidence    float64
	Routing       ReviewStatus
	Probabilities []CategoryProbability
	UsedRule      bool
}

// FileUploadResult summarizes the outcome for one uploaded file.
type FileUploadResult struct {
	Filename         string
	Success          bool
	TransactionCount int
	SkippedCount     int
	TotalSpending    decimal.Decimal
	Convention       SignConvention
	Errors           []string // capped sample of human-readable skip reasons
}

// BatchUploadResult is the aggregate response for one upload call.
type BatchUploadResult struct {
	Files             []FileUploadResult
	TotalTransactions int
	TotalSpending     decimal.Decimal
}
