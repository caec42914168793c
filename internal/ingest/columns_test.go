package ingest

import (
	"errors"
	"testing"

	"github.com/cardsift/cardsift/internal/model"
)

func TestDetectColumns_ByHeader(t *testing.T) {
	headers := []string{"Posted Date", "Description", "Amount", "Balance"}
	cols, err := DetectColumns(headers, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.Date != "Posted Date" || cols.Merchant != "Description" || cols.Amount != "Amount" {
		t.Errorf("detected %+v", cols)
	}
}

func TestDetectColumns_PrefersExactAmountOverBalance(t *testing.T) {
	cols, err := DetectColumns([]string{"Date", "Payee", "Balance", "Amount"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.Amount != "Amount" {
		t.Errorf("amount column = %q, want Amount", cols.Amount)
	}
}

func TestDetectColumns_ContentShapeFallback(t *testing.T) {
	headers := []string{"A", "B", "C"}
	var rows []model.RawRow
	for i := 0; i < 5; i++ {
		rows = append(rows, model.RawRow{
			"A": model.StringCell("2024-02-01"),
			"B": model.StringCell("SOME LONGISH MERCHANT NAME"),
			"C": model.StringCell("$-12.50"),
		})
	}
	cols, err := DetectColumns(headers, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.Date != "A" {
		t.Errorf("date column = %q", cols.Date)
	}
	if cols.Amount != "C" {
		t.Errorf("amount column = %q", cols.Amount)
	}
	if cols.Merchant != "B" {
		t.Errorf("merchant column = %q", cols.Merchant)
	}
}

func TestDetectColumns_MissingNamesRole(t *testing.T) {
	_, err := DetectColumns([]string{"Date", "Description"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var ierr *IngestError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected *IngestError, got %T", err)
	}
	if ierr.Code != ErrMissingColumns {
		t.Errorf("code = %s", ierr.Code)
	}
	if len(ierr.Missing) != 1 || ierr.Missing[0] != "amount" {
		t.Errorf("missing = %v, want [amount]", ierr.Missing)
	}
}
