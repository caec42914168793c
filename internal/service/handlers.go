package service

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/cardsift/cardsift/internal/model"
	"github.com/cardsift/cardsift/internal/store"
)

const maxUploadBytes = 32 << 20

// RegisterRoutes mounts the HTTP surface on the given mux.
func (s *StatementService) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/statements:upload", s.handleUpload)
	mux.HandleFunc("POST /v1/corrections", s.handleCorrection)
	mux.HandleFunc("GET /v1/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /v1/transactions/{id}/duplicates", s.handleDuplicates)
}

type fileResultJSON struct {
	Filename         string   `json:"filename"`
	Success          bool     `json:"success"`
	TransactionCount int      `json:"transactionCount"`
	SkippedCount     int      `json:"skippedCount"`
	TotalSpending    string   `json:"totalSpending"`
	Convention       string   `json:"convention,omitempty"`
	Errors           []string `json:"errors,omitempty"`
}

type uploadResponseJSON struct {
	Files             []fileResultJSON `json:"files"`
	TotalTransactions int              `json:"totalTransactions"`
	TotalSpending     string           `json:"totalSpending"`
}

func (s *StatementService) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if userID == "" {
		httpError(w, http.StatusUnauthorized, "missing user id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		httpError(w, http.StatusBadRequest, "no files in request")
		return
	}

	var files []UploadFile
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			httpError(w, http.StatusBadRequest, "unreadable file "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			httpError(w, http.StatusBadRequest, "unreadable file "+fh.Filename)
			return
		}
		files = append(files, UploadFile{Filename: fh.Filename, Data: data})
	}

	result, err := s.UploadStatements(r.Context(), userID, files)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := uploadResponseJSON{
		TotalTransactions: result.TotalTransactions,
		TotalSpending:     result.TotalSpending.String(),
	}
	for _, f := range result.Files {
		resp.Files = append(resp.Files, fileResultJSON{
			Filename:         f.Filename,
			Success:          f.Success,
			TransactionCount: f.TransactionCount,
			SkippedCount:     f.SkippedCount,
			TotalSpending:    f.TotalSpending.String(),
			Convention:       string(f.Convention),
			Errors:           f.Errors,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type correctionRequestJSON struct {
	TransactionID string `json:"transactionId"`
	Merchant      string `json:"merchant"`
	CategoryID    string `json:"categoryId"`
}

type correctionResponseJSON struct {
	Updated int `json:"updated"`
}

func (s *StatementService) handleCorrection(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if userID == "" {
		httpError(w, http.StatusUnauthorized, "missing user id")
		return
	}

	var req correctionRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch {
	case req.TransactionID != "":
		if _, err := s.CorrectTransaction(r.Context(), userID, req.TransactionID, req.CategoryID); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrNotFound) {
				status = http.StatusNotFound
			}
			httpError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, correctionResponseJSON{Updated: 1})
	case req.Merchant != "":
		updated, err := s.CorrectMerchant(r.Context(), userID, req.Merchant, req.CategoryID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, correctionResponseJSON{Updated: updated})
	default:
		httpError(w, http.StatusBadRequest, "either transactionId or merchant is required")
	}
}

type transactionJSON struct {
	ID             string  `json:"id"`
	Date           string  `json:"date"`
	Merchant       string  `json:"merchant"`
	AmountSpending string  `json:"amountSpending"`
	IsCredit       bool    `json:"isCredit"`
	CategoryID     string  `json:"categoryId,omitempty"`
	Confidence     float64 `json:"confidence"`
	Review         string  `json:"review"`
	UsedRule       bool    `json:"usedRule"`
}

type listTransactionsResponseJSON struct {
	Transactions  []transactionJSON `json:"transactions"`
	NextPageToken string            `json:"nextPageToken,omitempty"`
}

func (s *StatementService) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if userID == "" {
		httpError(w, http.StatusUnauthorized, "missing user id")
		return
	}

	filter := store.TransactionFilter{Category: r.URL.Query().Get("category")}
	if rv := r.URL.Query().Get("review"); rv != "" {
		filter.Review = model.ReviewStatus(rv)
	}

	txs, next, err := s.store.ListTransactions(r.Context(), userID, filter, 100, r.URL.Query().Get("pageToken"))
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := listTransactionsResponseJSON{NextPageToken: next}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, transactionJSON{
			ID:             tx.ID,
			Date:           tx.Date.Format("2006-01-02"),
			Merchant:       tx.MerchantDisplay,
			AmountSpending: tx.AmountSpending.String(),
			IsCredit:       tx.IsCredit,
			CategoryID:     tx.CategoryID,
			Confidence:     tx.Confidence,
			Review:         string(tx.Review),
			UsedRule:       tx.UsedRule,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type duplicateCandidateJSON struct {
	TransactionID string  `json:"transactionId"`
	Merchant      string  `json:"merchant"`
	Amount        string  `json:"amount"`
	Date          string  `json:"date"`
	CategoryID    string  `json:"categoryId,omitempty"`
	MatchScore    float64 `json:"matchScore"`
	MatchReason   string  `json:"matchReason"`
}

type duplicatesResponseJSON struct {
	Candidates []duplicateCandidateJSON `json:"candidates"`
}

func (s *StatementService) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if userID == "" {
		httpError(w, http.StatusUnauthorized, "missing user id")
		return
	}

	tx, err := s.store.GetTransaction(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		httpError(w, status, err.Error())
		return
	}

	var resp duplicatesResponseJSON
	for _, c := range s.FindDuplicateCandidates(r.Context(), userID, tx) {
		resp.Candidates = append(resp.Candidates, duplicateCandidateJSON{
			TransactionID: c.TransactionID,
			Merchant:      c.Merchant,
			Amount:        c.Amount.String(),
			Date:          c.Date.Format("2006-01-02"),
			CategoryID:    c.CategoryID,
			MatchScore:    c.MatchScore,
			MatchReason:   c.MatchReason,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestUserID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: encoding response: %v", err)
	}
}
