package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/config"
	"github.com/halodompet/backend/internal/integrations/gemini"
	"github.com/halodompet/backend/internal/models"
	"github.com/halodompet/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// injectUser plants an authenticated profile into the request context so
// validation paths can be exercised without a database.
func injectUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("auth_id", user.AuthID)
		c.Locals("current_user", user)
		return c.Next()
	}
}

func newTransactionTestApp(t *testing.T, geminiClient *gemini.Client) *fiber.App {
	t.Helper()

	handler := NewTransactionHandler(
		services.NewLedgerService(nil),
		services.NewTransactionService(nil),
		services.NewWalletService(nil, nil),
		services.NewUserService(nil, 14),
		geminiClient,
	)

	user := &models.User{ID: uuid.New(), AuthID: "auth-test", AccountStatus: models.AccountStatusTrial}

	app := fiber.New()
	group := app.Group("/api/transaction", injectUser(user))
	group.Post("/income", handler.CreateIncome)
	group.Post("/expense", handler.CreateExpense)
	group.Post("/transfer", handler.Transfer)
	group.Post("/adjustment", handler.Adjustment)
	group.Post("/voice", handler.CreateFromVoice)
	group.Get("/:id", handler.GetTransaction)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	return body.Error
}

func TestCreateEntryValidation(t *testing.T) {
	app := newTransactionTestApp(t, gemini.NewClient(&config.Config{}))

	tests := []struct {
		name    string
		payload map[string]interface{}
		wantMsg string
	}{
		{"missing item", map[string]interface{}{"amount": 25000}, "Nama transaksi wajib diisi."},
		{"blank item", map[string]interface{}{"item": "   ", "amount": 25000}, "Nama transaksi wajib diisi."},
		{"zero amount", map[string]interface{}{"item": "Kopi", "amount": 0}, "Jumlah harus lebih besar dari nol."},
		{"negative amount", map[string]interface{}{"item": "Kopi", "amount": -5000}, "Jumlah harus lebih besar dari nol."},
		{"bad date", map[string]interface{}{"item": "Kopi", "amount": 25000, "date": "kemarin"}, "Format tanggal tidak valid."},
	}

	for _, path := range []string{"/api/transaction/income", "/api/transaction/expense"} {
		for _, tt := range tests {
			t.Run(path+" "+tt.name, func(t *testing.T) {
				resp := postJSON(t, app, path, tt.payload)
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Equal(t, tt.wantMsg, decodeError(t, resp))
			})
		}
	}
}

func TestTransferValidation(t *testing.T) {
	app := newTransactionTestApp(t, gemini.NewClient(&config.Config{}))
	walletA := uuid.New()
	walletB := uuid.New()

	tests := []struct {
		name    string
		payload map[string]interface{}
		wantMsg string
	}{
		{
			"missing wallets",
			map[string]interface{}{"amount": 10000},
			"Dompet sumber dan tujuan wajib diisi.",
		},
		{
			"same wallet",
			map[string]interface{}{"source_wallet_id": walletA, "target_wallet_id": walletA, "amount": 10000},
			"Dompet sumber dan tujuan tidak boleh sama.",
		},
		{
			"zero amount",
			map[string]interface{}{"source_wallet_id": walletA, "target_wallet_id": walletB, "amount": 0},
			"Jumlah harus lebih besar dari nol.",
		},
		{
			"negative amount",
			map[string]interface{}{"source_wallet_id": walletA, "target_wallet_id": walletB, "amount": -500},
			"Jumlah harus lebih besar dari nol.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/api/transaction/transfer", tt.payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, decodeError(t, resp))
		})
	}
}

func TestVoiceEntryValidation(t *testing.T) {
	app := newTransactionTestApp(t, gemini.NewClient(&config.Config{}))

	t.Run("empty text", func(t *testing.T) {
		resp := postJSON(t, app, "/api/transaction/voice", map[string]interface{}{"text": "  "})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("service not configured", func(t *testing.T) {
		resp := postJSON(t, app, "/api/transaction/voice", map[string]interface{}{"text": "beli kopi 25 ribu"})
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestGetTransactionRejectsBadID(t *testing.T) {
	app := newTransactionTestApp(t, gemini.NewClient(&config.Config{}))

	req := httptest.NewRequest(http.MethodGet, "/api/transaction/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ID transaksi tidak valid.", decodeError(t, resp))
}

func TestServiceErrorMapping(t *testing.T) {
	app := fiber.New()
	app.Get("/err", func(c *fiber.Ctx) error {
		return serviceError(c, services.ErrNotFound)
	})
	app.Get("/err-unknown", func(c *fiber.Ctx) error {
		return serviceError(c, assert.AnError)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Data tidak ditemukan.", decodeError(t, resp))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/err-unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.True(t, strings.Contains(decodeError(t, resp), "Terjadi kesalahan"))
}
