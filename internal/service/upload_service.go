package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardsift/cardsift/internal/categorize"
	"github.com/cardsift/cardsift/internal/ingest"
	"github.com/cardsift/cardsift/internal/model"
	"github.com/cardsift/cardsift/internal/store"
)

// maxErrorSamples caps the skip reasons returned per file; the full skip
// count is always reported.
const maxErrorSamples = 10

// UploadFile is one statement export handed to UploadStatements.
type UploadFile struct {
	Filename string
	Data     []byte
}

// UploadStatements ingests one or more statement files for a user. File-level
// failures (unreadable file, duplicate fingerprint, undetectable columns) mark
// that file unsuccessful without failing the batch; row-level and
// categorization failures are reported as data inside the file result.
func (s *StatementService) UploadStatements(ctx context.Context, userID string, files []UploadFile) (*model.BatchUploadResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("upload: user id is required")
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("upload: no files provided")
	}

	categories, err := s.categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("upload: loading categories: %w", err)
	}

	// One cache per upload call: merchants repeat heavily within a
	// statement, rarely across users.
	categorizer := categorize.NewCategorizer(s.classifier, categorize.NewLRUCache(categorize.DefaultCacheSize), categories)
	orch := categorize.NewOrchestrator(categorize.NewMatcher(s.store), categorizer, s.workers)

	result := &model.BatchUploadResult{TotalSpending: decimal.Zero}
	for _, f := range files {
		fileRes := s.processFile(ctx, userID, f, orch)
		result.Files = append(result.Files, *fileRes)
		if fileRes.Success {
			result.TotalTransactions += fileRes.TransactionCount
			result.TotalSpending = result.TotalSpending.Add(fileRes.TotalSpending)
		}
	}
	return result, nil
}

func (s *StatementService) processFile(ctx context.Context, userID string, f UploadFile, orch *categorize.Orchestrator) *model.FileUploadResult {
	started := time.Now()
	res := &model.FileUploadResult{Filename: f.Filename, TotalSpending: decimal.Zero}

	fp := ingest.Fingerprint(f.Filename, userID, started)
	if dup, err := s.store.HasFileFingerprint(ctx, fp.Hash); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("fingerprint check failed: %v", err))
		return res
	} else if dup {
		res.Errors = append(res.Errors, "duplicate upload: this file was already processed in the current hour")
		return res
	}

	parsed, err := ingest.ParseFile(f.Filename, f.Data)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}
	cols, err := ingest.DetectColumns(parsed.Headers, parsed.Rows)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}
	conv := ingest.ResolveConvention(f.Filename, parsed.Rows, cols)

	now := time.Now()
	var txs []*model.Transaction
	var skipped int
	var samples []string
	for _, row := range parsed.Rows {
		tx, nerr := ingest.NormalizeRow(row, cols, conv.Convention)
		if nerr != nil {
			skipped++
			if len(samples) < maxErrorSamples {
				samples = append(samples, nerr.Error())
			}
			continue
		}
		tx.ID = uuid.New().String()
		tx.UserID = userID
		tx.FileFingerprint = fp.Hash
		tx.CreatedAt = now
		tx.UpdatedAt = now
		txs = append(txs, tx)
	}

	total := decimal.Zero
	for i, r := range orch.Categorize(ctx, userID, txs) {
		txs[i].CategoryID = r.CategoryID
		txs[i].Confidence = r.Confidence
		txs[i].Review = r.Routing
		txs[i].UsedRule = r.UsedRule
		total = total.Add(txs[i].AmountSpending)
	}

	// Claiming the fingerprint before the insert keeps duplicate rejection
	// atomic even when two identical uploads race.
	if err := s.store.CreateFileFingerprint(ctx, &fp); err != nil {
		if errors.Is(err, store.ErrDuplicateFile) {
			res.Errors = append(res.Errors, "duplicate upload: this file was already processed in the current hour")
		} else {
			res.Errors = append(res.Errors, fmt.Sprintf("recording fingerprint failed: %v", err))
		}
		return res
	}
	if err := s.store.CreateTransactions(ctx, txs); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("storing transactions failed: %v", err))
		return res
	}

	res.Success = true
	res.TransactionCount = len(txs)
	res.SkippedCount = skipped
	res.TotalSpending = total
	res.Convention = conv.Convention
	res.Errors = samples

	log.Printf("upload: file=%s user=%s inserted=%d skipped=%d convention=%s/%s took=%s",
		f.Filename, userID, len(txs), skipped, conv.Convention, conv.ResolvedBy, time.Since(started).Round(time.Millisecond))
	return res
}
