/**
 * @description
 * Upstream error taxonomy and its localized, user-facing messages.
 * Internal logs stay English; everything returned to the consumer is
 * Indonesian.
 */

package gemini

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrNotConfigured means no API key is present; handlers answer 503.
	ErrNotConfigured = errors.New("gemini api key is not configured")
	// ErrQuotaExceeded maps upstream QUOTA_EXCEEDED / RESOURCE_EXHAUSTED.
	ErrQuotaExceeded = errors.New("gemini quota exceeded")
	// ErrRateLimited maps upstream 429 responses.
	ErrRateLimited = errors.New("gemini rate limited")
	// ErrAPIKeyInvalid maps upstream auth failures.
	ErrAPIKeyInvalid = errors.New("gemini api key invalid")
	// ErrUnsupportedMedia maps rejected audio formats.
	ErrUnsupportedMedia = errors.New("gemini unsupported media")
)

// classifyUpstreamError pattern-matches the upstream status and body into the
// taxonomy. Retryable statuses wrap errRetryable so the caller's retry loop
// picks them up.
func classifyUpstreamError(status int, body string) error {
	upper := strings.ToUpper(body)

	switch {
	case strings.Contains(upper, "QUOTA_EXCEEDED"), strings.Contains(upper, "RESOURCE_EXHAUSTED"):
		return ErrQuotaExceeded
	case status == http.StatusTooManyRequests, strings.Contains(upper, "RATE_LIMIT"):
		return ErrRateLimited
	case strings.Contains(upper, "API_KEY_INVALID"), strings.Contains(upper, "API KEY NOT VALID"),
		status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrAPIKeyInvalid
	case strings.Contains(upper, "UNSUPPORTED_MEDIA"), status == http.StatusUnsupportedMediaType,
		strings.Contains(upper, "UNSUPPORTED MIME"):
		return ErrUnsupportedMedia
	case status >= http.StatusInternalServerError:
		return errRetryable
	default:
		return errors.New("gemini api returned status " + http.StatusText(status))
	}
}

// UserMessage translates an error into the Indonesian string shown to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "Layanan transkripsi belum dikonfigurasi. Hubungi administrator."
	case errors.Is(err, ErrQuotaExceeded):
		return "Kuota layanan transkripsi telah habis. Coba lagi besok."
	case errors.Is(err, ErrRateLimited):
		return "Terlalu banyak permintaan. Tunggu sebentar lalu coba lagi."
	case errors.Is(err, ErrAPIKeyInvalid):
		return "Konfigurasi layanan transkripsi tidak valid. Hubungi administrator."
	case errors.Is(err, ErrUnsupportedMedia):
		return "Format audio tidak didukung. Gunakan format rekaman standar."
	default:
		return "Gagal memproses audio. Silakan coba lagi."
	}
}

// StatusCode maps an error to the HTTP status the handler should return.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
