package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halodompet/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Services.GeminiAPIKey = "test-key"
	cfg.Services.GeminiBaseURL = srv.URL
	return NewClient(cfg)
}

func generateReply(text string) string {
	payload := map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			},
			"finishReason": "STOP",
		}},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestTranscribe(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.RawQuery, "key=test-key")

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.NotNil(t, req.Contents[0].Parts[1].InlineData)
		assert.Equal(t, "audio/webm", req.Contents[0].Parts[1].InlineData.MimeType)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(generateReply("beli kopi dua puluh lima ribu")))
	})

	text, err := client.Transcribe(context.Background(), []byte{0x1a, 0x45}, "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, "beli kopi dua puluh lima ribu", text)
}

func TestTranscribeRejectsEmptyAudio(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Transcribe(context.Background(), nil, "audio/webm")
	assert.Error(t, err)
}

func TestTranscribeNotConfigured(t *testing.T) {
	client := NewClient(&config.Config{})
	assert.False(t, client.Configured())

	_, err := client.Transcribe(context.Background(), []byte{0x01}, "audio/webm")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestExtractTransaction(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(generateReply(`{"item":"Kopi","amount":25000,"type":"expense","category":"Makanan & Minuman"}`)))
	})

	extraction, err := client.ExtractTransaction(context.Background(), "beli kopi 25 ribu")
	require.NoError(t, err)
	assert.Equal(t, "Kopi", extraction.Item)
	assert.Equal(t, "expense", extraction.Type)
	assert.Equal(t, "Makanan & Minuman", extraction.Category)
	assert.True(t, extraction.Amount.IntPart() == 25000)
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":500,"status":"INTERNAL"}}`))
			return
		}
		_, _ = w.Write([]byte(generateReply("ok")))
	})

	text, err := client.Transcribe(context.Background(), []byte{0x01}, "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, calls)
}

func TestClassifyUpstreamError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"quota exceeded", http.StatusForbidden, `{"error":{"status":"RESOURCE_EXHAUSTED"}}`, ErrQuotaExceeded},
		{"rate limited", http.StatusTooManyRequests, `{}`, ErrRateLimited},
		{"bad api key", http.StatusBadRequest, `{"error":{"status":"API_KEY_INVALID"}}`, ErrAPIKeyInvalid},
		{"unauthorized", http.StatusUnauthorized, `{}`, ErrAPIKeyInvalid},
		{"unsupported media", http.StatusUnsupportedMediaType, `{}`, ErrUnsupportedMedia},
		{"server error is retryable", http.StatusBadGateway, `{}`, errRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyUpstreamError(tt.status, tt.body)
			assert.True(t, errors.Is(got, tt.want), "got %v", got)
		})
	}
}

func TestUserMessageIsLocalized(t *testing.T) {
	assert.Equal(t, "Kuota layanan transkripsi telah habis. Coba lagi besok.", UserMessage(ErrQuotaExceeded))
	assert.Equal(t, "Gagal memproses audio. Silakan coba lagi.", UserMessage(errors.New("anything else")))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(ErrNotConfigured))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(ErrQuotaExceeded))
}
