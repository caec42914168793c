package categorize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardsift/cardsift/internal/model"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiCallTimeout bounds one model call; a timeout degrades to the uniform
// fallback in the Categorizer instead of failing the batch.
const geminiCallTimeout = 60 * time.Second

// Classifier produces a raw category probability distribution for one
// merchant. Implementations may return partial or unnormalized output; the
// Categorizer validates it.
type Classifier interface {
	Probabilities(ctx context.Context, merchant string, amount decimal.Decimal, date time.Time, categories []*model.Category) ([]model.CategoryProbability, error)
}

// GeminiClassifier classifies merchants using the Gemini API.
type GeminiClassifier struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	retry      RetryConfig
}

// NewGeminiClassifier creates a new Gemini-based merchant classifier.
func NewGeminiClassifier(apiKey string) *GeminiClassifier {
	return &GeminiClassifier{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: geminiCallTimeout,
		},
		baseURL: defaultGeminiBaseURL,
		retry:   DefaultGeminiRetryConfig,
	}
}

// geminiProbability is one entry of the JSON array the model is asked for.
type geminiProbability struct {
	CategoryName string  `json:"category_name"`
	Probability  float64 `json:"probability"`
}

// Probabilities asks the model for a probability per known category.
func (c *GeminiClassifier) Probabilities(ctx context.Context, merchant string, amount decimal.Decimal, date time.Time, categories []*model.Category) ([]model.CategoryProbability, error) {
	if c.apiKey == "" {
		return nil, &CategorizeError{Code: ErrGeminiUnavailable, Message: "Gemini API key not configured"}
	}
	if len(categories) == 0 {
		return nil, &CategorizeError{Code: ErrNoCategories, Message: "no categories to classify into"}
	}

	names := make([]string, len(categories))
	byName := make(map[string]*model.Category, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
		byName[strings.ToLower(cat.Name)] = cat
	}

	prompt := fmt.Sprintf(`You are a personal-finance transaction classifier. Given one card transaction, estimate the probability that it belongs to each spending category.

Transaction:
- merchant: %q
- amount: %s
- date: %s

Categories: %s

Return JSON only: an array with one entry per category,
[{"category_name": "...", "probability": 0.0}]
Probabilities must be between 0 and 1 and should sum to 1.`,
		merchant, amount.StringFixed(2), date.Format("2006-01-02"), strings.Join(names, ", "))

	raw, err := WithRetry(ctx, c.retry, func(ctx context.Context) ([]geminiProbability, error) {
		return c.callGemini(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}

	// Entries for category names the model invented are dropped here.
	var probs []model.CategoryProbability
	for _, entry := range raw {
		cat, ok := byName[strings.ToLower(strings.TrimSpace(entry.CategoryName))]
		if !ok {
			continue
		}
		probs = append(probs, model.CategoryProbability{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			Probability:  entry.Probability,
		})
	}
	if len(probs) == 0 {
		return nil, &CategorizeError{Code: ErrMalformedResponse, Message: "model returned no recognized categories"}
	}
	return probs, nil
}

// callGemini calls the Gemini API with a text prompt and parses the JSON
// array out of the first candidate, tolerating markdown code fences.
func (c *GeminiClassifier) callGemini(ctx context.Context, prompt string) ([]geminiProbability, error) {
	url := fmt.Sprintf("%s/models/gemini-2.0-flash:generateContent?key=%s", c.baseURL, c.apiKey)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.1,
			"maxOutputTokens":  1024,
			"responseMimeType": "application/json",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CategorizeError{Code: ErrGeminiUnavailable, Message: "Gemini API call failed", Retryable: true, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &CategorizeError{Code: ErrGeminiRateLimited, Message: "Gemini API rate limited", Retryable: true}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &CategorizeError{
			Code:      ErrGeminiUnavailable,
			Message:   fmt.Sprintf("Gemini API error %d: %s", resp.StatusCode, string(respBody)),
			Retryable: resp.StatusCode >= 500,
		}
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return nil, &CategorizeError{Code: ErrMalformedResponse, Message: "parse Gemini response", Cause: err}
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, &CategorizeError{Code: ErrMalformedResponse, Message: "empty Gemini response"}
	}

	text := geminiResp.Candidates[0].Content.Parts[0].Text
	// Strip markdown code fences if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var entries []geminiProbability
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, &CategorizeError{
			Code:    ErrMalformedResponse,
			Message: fmt.Sprintf("parse classification array (text: %s)", text[:min(len(text), 200)]),
			Cause:   err,
		}
	}
	return entries, nil
}
