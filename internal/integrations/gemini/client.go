/**
 * @description
 * Lightweight Gemini generateContent client.
 * Used for voice transcription and for extracting structured transaction data
 * from a transcript.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - backend/internal/config
 *
 * @notes
 * - Upstream failures are classified into a small taxonomy (quota, rate limit,
 *   bad key, unsupported media) so handlers can pick the right localized
 *   message; see messages.go.
 */

package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/halodompet/backend/internal/config"
	"github.com/halodompet/backend/internal/logger"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"

	requestTimeout = 60 * time.Second
	maxTries       = 3
	retryBaseDelay = 400 * time.Millisecond

	// MaxAudioBytes caps uploads; the handler rejects larger files before
	// reading them into memory.
	MaxAudioBytes = 10 << 20
)

var (
	errResponseRead   = errors.New("gemini response read failed")
	errResponseDecode = errors.New("gemini response decode failed")
	errRetryable      = errors.New("gemini api retryable error")
)

type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"response_mime_type,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Extraction is the structured result of parsing a transcript.
type Extraction struct {
	Item     string          `json:"item"`
	Amount   decimal.Decimal `json:"amount"`
	Type     string          `json:"type"` // "income" or "expense"
	Category string          `json:"category"`
}

func NewClient(cfg *config.Config) *Client {
	baseURL := strings.TrimSpace(cfg.Services.GeminiBaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Services.GeminiModel)
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		apiKey:  cfg.Services.GeminiAPIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Model returns the model name being used by this client
func (c *Client) Model() string {
	return c.model
}

// Transcribe sends inline audio and returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}
	if len(audio) > MaxAudioBytes {
		return "", fmt.Errorf("audio payload exceeds %d bytes", MaxAudioBytes)
	}

	payload := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: "Transcribe this audio recording. It is in Indonesian. Return only the transcript text, nothing else."},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(audio),
				}},
			},
		}},
		GenerationConfig: &generationConfig{Temperature: 0},
	}

	return c.generate(ctx, payload)
}

// ExtractTransaction asks the model to turn a transcript into a structured
// transaction draft.
func (c *Client) ExtractTransaction(ctx context.Context, transcript string) (*Extraction, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, fmt.Errorf("transcript is required")
	}

	prompt := `Extract a personal finance transaction from this Indonesian text.
Respond with a JSON object: {"item": string, "amount": number, "type": "income"|"expense", "category": string}.
Amount is in Indonesian Rupiah. Text: ` + transcript

	payload := generateRequest{
		Contents: []content{{
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{
			Temperature:      0.1,
			ResponseMimeType: "application/json",
		},
	}

	raw, err := c.generate(ctx, payload)
	if err != nil {
		return nil, err
	}

	var extraction Extraction
	if err := json.Unmarshal([]byte(raw), &extraction); err != nil {
		logger.Error("Gemini extraction decode failed: %v | raw: %s", err, truncateForLog(raw, 500))
		return nil, fmt.Errorf("%w: %v", errResponseDecode, err)
	}
	return &extraction, nil
}

func (c *Client) generate(ctx context.Context, payload generateRequest) (string, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= maxTries; attempt++ {
		text, err := c.generateOnce(ctx, bodyBytes)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if attempt >= maxTries || !isRetryableError(err) {
			return "", err
		}
		logger.Info("Retrying Gemini request after error (attempt %d/%d): %v", attempt, maxTries, err)
		time.Sleep(retryBaseDelay * time.Duration(attempt))
	}

	return "", lastErr
}

func (c *Client) generateOnce(ctx context.Context, bodyBytes []byte) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		logger.Error("Failed to read Gemini response body: %v", readErr)
		return "", fmt.Errorf("%w: %v", errResponseRead, readErr)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("Gemini API error: %d - %s", resp.StatusCode, truncateForLog(string(respBody), 1000))
		return "", classifyUpstreamError(resp.StatusCode, string(respBody))
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		logger.Error("Failed to decode Gemini response: %v | raw: %s", err, truncateForLog(string(respBody), 1000))
		return "", fmt.Errorf("%w: %v", errResponseDecode, err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		logger.Error("Gemini response had no candidates | raw: %s", truncateForLog(string(respBody), 1000))
		return "", fmt.Errorf("no candidates returned from gemini")
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		finishReason := result.Candidates[0].FinishReason
		return "", fmt.Errorf("gemini response missing text (finish_reason: %s)", finishReason)
	}

	return text, nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errResponseRead) || errors.Is(err, errRetryable) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func truncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "...(truncated)"
}
