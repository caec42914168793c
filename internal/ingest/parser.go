package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cardsift/cardsift/internal/model"
)

// ParsedFile holds the header row and typed rows of one statement export.
type ParsedFile struct {
	Headers []string
	Rows    []model.RawRow
}

// ParseFile parses a statement export into typed rows, dispatching on the
// filename extension. CSV is the default; .xlsx/.xls go through excelize.
func ParseFile(filename string, data []byte) (*ParsedFile, error) {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
		return ParseExcel(bytes.NewReader(data))
	}
	return ParseCSV(bytes.NewReader(data))
}

// ParseCSV reads a headered CSV export into typed rows.
func ParseCSV(r io.Reader) (*ParsedFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &IngestError{Code: ErrUnreadableFile, Message: "failed to parse CSV", Cause: err}
	}
	if len(records) < 2 {
		return nil, &IngestError{Code: ErrEmptyFile, Message: "file has no data rows"}
	}

	headers := cleanHeaders(records[0])
	rows := make([]model.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, recordToRow(headers, record))
	}
	return &ParsedFile{Headers: headers, Rows: rows}, nil
}

// ParseExcel reads the first sheet of an Excel workbook into typed rows.
func ParseExcel(r io.Reader) (*ParsedFile, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &IngestError{Code: ErrUnreadableFile, Message: "failed to open workbook", Cause: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &IngestError{Code: ErrEmptyFile, Message: "workbook has no sheets"}
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &IngestError{Code: ErrUnreadableFile, Message: "failed to read sheet", Cause: err}
	}
	if len(records) < 2 {
		return nil, &IngestError{Code: ErrEmptyFile, Message: "sheet has no data rows"}
	}

	headers := cleanHeaders(records[0])
	rows := make([]model.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, recordToRow(headers, record))
	}
	return &ParsedFile{Headers: headers, Rows: rows}, nil
}

// cleanHeaders trims whitespace and a UTF-8 BOM from header names.
func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimPrefix(h, "\uFEFF")
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}

// recordToRow types each cell once: empty values become null, values that
// parse as a bare float become numbers, everything else stays text.
func recordToRow(headers []string, record []string) model.RawRow {
	row := make(model.RawRow, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i >= len(record) {
			row[header] = model.NullCell()
			continue
		}
		row[header] = typeCell(record[i])
	}
	return row
}

func typeCell(raw string) model.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.NullCell()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return model.NumberCell(f)
	}
	return model.StringCell(trimmed)
}
