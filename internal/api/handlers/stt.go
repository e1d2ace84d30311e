/**
 * @description
 * HTTP handlers for speech-to-text. Accepts a multipart audio upload,
 * forwards it to the transcription backend, and returns the transcript.
 * The demo variant serves the public landing page and skips auth.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/integrations/gemini
 */

package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/halodompet/backend/internal/integrations/gemini"
	"github.com/halodompet/backend/internal/logger"
)

type STTHandler struct {
	Gemini *gemini.Client
}

func NewSTTHandler(client *gemini.Client) *STTHandler {
	return &STTHandler{Gemini: client}
}

// Transcribe handles POST /api/stt and POST /api/demo/stt.
func (h *STTHandler) Transcribe(c *fiber.Ctx) error {
	if !h.Gemini.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Layanan transkripsi sedang tidak tersedia.",
		})
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return badRequest(c, "File audio wajib diunggah.")
	}
	if fileHeader.Size == 0 {
		return badRequest(c, "File audio kosong.")
	}
	if fileHeader.Size > gemini.MaxAudioBytes {
		return badRequest(c, "File audio terlalu besar. Maksimal 10 MB.")
	}

	audio, mimeType, err := readAudio(fileHeader)
	if err != nil {
		logger.Error("Transcribe: failed to read upload: %v", err)
		return badRequest(c, "File audio tidak dapat dibaca.")
	}

	transcript, err := h.Gemini.Transcribe(c.Context(), audio, mimeType)
	if err != nil {
		logger.Error("Transcribe: upstream error: %v", err)
		return c.Status(gemini.StatusCode(err)).JSON(fiber.Map{
			"success": false,
			"error":   gemini.UserMessage(err),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"text":    transcript,
	})
}

func readAudio(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	audio, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	return audio, mimeType, nil
}
