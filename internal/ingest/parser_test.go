package ingest

import (
	"strings"
	"testing"

	"github.com/cardsift/cardsift/internal/model"
)

func TestParseCSV(t *testing.T) {
	input := "\uFEFFDate,Description,Amount\n" +
		"2024-01-05,STARBUCKS 123,-4.50\n" +
		"2024-01-06,,\n"

	parsed, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed.Headers) != 3 || parsed.Headers[0] != "Date" {
		t.Fatalf("headers = %v (BOM not stripped?)", parsed.Headers)
	}
	if len(parsed.Rows) != 2 {
		t.Fatalf("rows = %d", len(parsed.Rows))
	}

	first := parsed.Rows[0]
	if first["Description"].Kind != model.CellString {
		t.Errorf("description cell kind = %v", first["Description"].Kind)
	}
	if first["Amount"].Kind != model.CellNumber || first["Amount"].Number != -4.5 {
		t.Errorf("amount cell = %+v, want typed number -4.5", first["Amount"])
	}

	second := parsed.Rows[1]
	if !second["Description"].IsNull() || !second["Amount"].IsNull() {
		t.Errorf("empty values must be null cells: %+v", second)
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Date,Description,Amount\n"))
	if err == nil {
		t.Fatal("expected empty-file error")
	}
	ierr, ok := err.(*IngestError)
	if !ok || ierr.Code != ErrEmptyFile {
		t.Errorf("got %v", err)
	}
}

func TestParseCSV_RaggedRows(t *testing.T) {
	parsed, err := ParseCSV(strings.NewReader("Date,Description,Amount\n2024-01-05,ACME\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Rows[0]["Amount"].IsNull() {
		t.Error("short record must null-fill trailing columns")
	}
}

func TestParseFile_DispatchesOnExtension(t *testing.T) {
	data := []byte("Date,Description,Amount\n2024-01-05,ACME,-5\n")
	parsed, err := ParseFile("statement.CSV", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed.Rows) != 1 {
		t.Fatalf("rows = %d", len(parsed.Rows))
	}

	if _, err := ParseFile("statement.xlsx", data); err == nil {
		t.Error("CSV bytes with .xlsx extension must fail to open as a workbook")
	}
}
