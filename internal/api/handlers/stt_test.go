package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/halodompet/backend/internal/config"
	"github.com/halodompet/backend/internal/integrations/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSTTApp(configured bool) *fiber.App {
	cfg := &config.Config{}
	if configured {
		cfg.Services.GeminiAPIKey = "test-key"
		cfg.Services.GeminiBaseURL = "http://127.0.0.1:0" // never reached in these tests
	}

	app := fiber.New()
	app.Post("/api/stt", NewSTTHandler(gemini.NewClient(cfg)).Transcribe)
	return app
}

func multipartAudio(t *testing.T, fieldName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, "recording.webm")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestTranscribeUnavailableWhenNotConfigured(t *testing.T) {
	app := newSTTApp(false)

	body, contentType := multipartAudio(t, "audio", []byte{0x1a})
	req := httptest.NewRequest(http.MethodPost, "/api/stt", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestTranscribeRequiresAudioFile(t *testing.T) {
	app := newSTTApp(true)

	t.Run("no multipart body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/stt", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong field name", func(t *testing.T) {
		body, contentType := multipartAudio(t, "file", []byte{0x1a})
		req := httptest.NewRequest(http.MethodPost, "/api/stt", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty file", func(t *testing.T) {
		body, contentType := multipartAudio(t, "audio", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/stt", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
