/**
 * @description
 * HTTP handlers for the transaction flows: income, expense, transfer,
 * adjustment, voice entry, and CRUD by id. Request validation happens here;
 * everything that touches a balance goes through the ledger service.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 * - backend/internal/integrations/gemini
 */

package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/integrations/gemini"
	"github.com/halodompet/backend/internal/logger"
	"github.com/halodompet/backend/internal/models"
	"github.com/halodompet/backend/internal/services"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	Ledger       *services.LedgerService
	Transactions *services.TransactionService
	Wallets      *services.WalletService
	Users        *services.UserService
	Gemini       *gemini.Client
}

func NewTransactionHandler(
	ledger *services.LedgerService,
	transactions *services.TransactionService,
	wallets *services.WalletService,
	users *services.UserService,
	geminiClient *gemini.Client,
) *TransactionHandler {
	return &TransactionHandler{
		Ledger:       ledger,
		Transactions: transactions,
		Wallets:      wallets,
		Users:        users,
		Gemini:       geminiClient,
	}
}

// entryRequest is the payload for income and expense creation.
type entryRequest struct {
	Item          string          `json:"item"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Date          string          `json:"date"`
	Notes         string          `json:"notes"`
	Location      string          `json:"location"`
	PaymentMethod string          `json:"payment_method"`
	WalletID      *uuid.UUID      `json:"wallet_id"`
}

// CreateIncome records an income entry.
// POST /api/transaction/income
func (h *TransactionHandler) CreateIncome(c *fiber.Ctx) error {
	return h.createEntry(c, models.TransactionTypeIncome)
}

// CreateExpense records an expense entry.
// POST /api/transaction/expense
func (h *TransactionHandler) CreateExpense(c *fiber.Ctx) error {
	return h.createEntry(c, models.TransactionTypeExpense)
}

func (h *TransactionHandler) createEntry(c *fiber.Ctx, typ models.TransactionType) error {
	var req entryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}

	req.Item = strings.TrimSpace(req.Item)
	if req.Item == "" {
		return badRequest(c, "Nama transaksi wajib diisi.")
	}
	if !req.Amount.IsPositive() {
		return badRequest(c, "Jumlah harus lebih besar dari nol.")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return badRequest(c, "Format tanggal tidak valid.")
	}

	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	input := services.EntryInput{
		WalletID:      req.WalletID,
		Item:          req.Item,
		Amount:        req.Amount,
		Category:      req.Category,
		Date:          date,
		Notes:         req.Notes,
		Location:      req.Location,
		PaymentMethod: req.PaymentMethod,
		Source:        models.TransactionSourceManual,
	}

	var (
		transaction *models.Transaction
		change      *services.BalanceChange
	)
	if typ == models.TransactionTypeIncome {
		transaction, change, err = h.Ledger.RecordIncome(c.Context(), user.ID, input)
	} else {
		transaction, change, err = h.Ledger.RecordExpense(c.Context(), user.ID, input)
	}
	if err != nil {
		return serviceError(c, err)
	}

	h.Wallets.InvalidateSummary(c.Context(), user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"transaction": transaction,
		"wallet":      change,
	})
}

type transferRequest struct {
	SourceWalletID uuid.UUID       `json:"source_wallet_id"`
	TargetWalletID uuid.UUID       `json:"target_wallet_id"`
	Amount         decimal.Decimal `json:"amount"`
	Date           string          `json:"date"`
	Notes          string          `json:"notes"`
}

// Transfer moves money between two of the user's wallets.
// POST /api/transaction/transfer
func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}

	if req.SourceWalletID == uuid.Nil || req.TargetWalletID == uuid.Nil {
		return badRequest(c, "Dompet sumber dan tujuan wajib diisi.")
	}
	if req.SourceWalletID == req.TargetWalletID {
		return badRequest(c, "Dompet sumber dan tujuan tidak boleh sama.")
	}
	if !req.Amount.IsPositive() {
		return badRequest(c, "Jumlah harus lebih besar dari nol.")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return badRequest(c, "Format tanggal tidak valid.")
	}

	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	result, err := h.Ledger.Transfer(c.Context(), user.ID, services.TransferInput{
		SourceWalletID: req.SourceWalletID,
		TargetWalletID: req.TargetWalletID,
		Amount:         req.Amount,
		Date:           date,
		Notes:          req.Notes,
	})
	if err != nil {
		return serviceError(c, err)
	}

	h.Wallets.InvalidateSummary(c.Context(), user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

type adjustmentRequest struct {
	TargetBalance decimal.Decimal `json:"target_balance"`
	Notes         string          `json:"notes"`
	WalletID      *uuid.UUID      `json:"wallet_id"`
}

// Adjustment reconciles a wallet balance to a declared target.
// POST /api/transaction/adjustment
func (h *TransactionHandler) Adjustment(c *fiber.Ctx) error {
	var req adjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}

	// A negative target is allowed: balances are signed and an overdrawn
	// wallet is a state the user may need to reconcile to.
	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	transaction, result, err := h.Ledger.Adjust(c.Context(), user.ID, services.AdjustInput{
		WalletID:      req.WalletID,
		TargetBalance: req.TargetBalance,
		Notes:         req.Notes,
	})
	if err != nil {
		return serviceError(c, err)
	}

	h.Wallets.InvalidateSummary(c.Context(), user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"transaction": transaction,
		"adjustment":  result,
	})
}

type voiceRequest struct {
	Text     string     `json:"text"`
	WalletID *uuid.UUID `json:"wallet_id"`
}

// CreateFromVoice turns a transcript into a transaction via AI extraction.
// POST /api/transaction/voice
func (h *TransactionHandler) CreateFromVoice(c *fiber.Ctx) error {
	var req voiceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return badRequest(c, "Teks transkripsi wajib diisi.")
	}
	if !h.Gemini.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   gemini.UserMessage(gemini.ErrNotConfigured),
		})
	}

	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	extraction, err := h.Gemini.ExtractTransaction(c.Context(), req.Text)
	if err != nil {
		logger.Error("CreateFromVoice: extraction failed for user %s: %v", user.ID, err)
		return c.Status(gemini.StatusCode(err)).JSON(fiber.Map{
			"success": false,
			"error":   gemini.UserMessage(err),
		})
	}
	if !extraction.Amount.IsPositive() {
		return badRequest(c, "Jumlah tidak dikenali dari teks. Coba sebutkan nominalnya.")
	}

	input := services.EntryInput{
		WalletID:  req.WalletID,
		Item:      extraction.Item,
		Amount:    extraction.Amount,
		Category:  extraction.Category,
		VoiceText: req.Text,
		Source:    models.TransactionSourceVoice,
	}

	var (
		transaction *models.Transaction
		change      *services.BalanceChange
	)
	if extraction.Type == "income" {
		transaction, change, err = h.Ledger.RecordIncome(c.Context(), user.ID, input)
	} else {
		transaction, change, err = h.Ledger.RecordExpense(c.Context(), user.ID, input)
	}
	if err != nil {
		return serviceError(c, err)
	}

	h.Wallets.InvalidateSummary(c.Context(), user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"transaction": transaction,
		"wallet":      change,
		"extraction":  extraction,
	})
}

// ListTransactions returns the user's transactions, newest first.
// GET /api/transaction
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	opts := services.ListOptions{
		Limit: c.QueryInt("limit", 50),
		Type:  models.TransactionType(c.Query("type")),
	}
	if raw := c.Query("wallet_id"); raw != "" {
		walletID, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "ID dompet tidak valid.")
		}
		opts.WalletID = &walletID
	}

	transactions, err := h.Transactions.List(c.Context(), user.ID, opts)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"transactions": transactions,
	})
}

// GetTransaction returns one owned transaction.
// GET /api/transaction/:id
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	user, transactionID, ok := h.resolve(c)
	if !ok {
		return nil
	}

	transaction, err := h.Transactions.Get(c.Context(), user.ID, transactionID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"transaction": transaction,
	})
}

// UpdateTransaction patches one owned transaction.
// PUT /api/transaction/:id
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	user, transactionID, ok := h.resolve(c)
	if !ok {
		return nil
	}

	var patch services.TransactionPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}

	transaction, err := h.Transactions.Update(c.Context(), user.ID, transactionID, patch)
	if err != nil {
		return serviceError(c, err)
	}

	h.Wallets.InvalidateSummary(c.Context(), user.ID)
	return c.JSON(fiber.Map{
		"success":     true,
		"transaction": transaction,
	})
}

// DeleteTransaction removes one owned transaction and reverses its effect.
// DELETE /api/transaction/:id
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	user, transactionID, ok := h.resolve(c)
	if !ok {
		return nil
	}

	if err := h.Transactions.Delete(c.Context(), user.ID, transactionID); err != nil {
		return serviceError(c, err)
	}

	h.Wallets.InvalidateSummary(c.Context(), user.ID)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Transaksi berhasil dihapus.",
	})
}

// resolve loads the requester and parses :id. When ok is false the response
// has already been written.
func (h *TransactionHandler) resolve(c *fiber.Ctx) (user *models.User, transactionID uuid.UUID, ok bool) {
	transactionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = badRequest(c, "ID transaksi tidak valid.")
		return nil, uuid.Nil, false
	}
	user, err = requireUser(c, h.Users)
	if err != nil {
		_ = serviceError(c, err)
		return nil, uuid.Nil, false
	}
	return user, transactionID, true
}
