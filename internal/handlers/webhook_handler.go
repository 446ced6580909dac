package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/trinetra-labs/credentials-backend/internal/config"
	"github.com/trinetra-labs/credentials-backend/internal/dto"
	"github.com/trinetra-labs/credentials-backend/internal/services"
)

type WebhookHandler struct {
	billingService *services.BillingService
	cfg            *config.Config
}

func NewWebhookHandler(billingService *services.BillingService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{billingService: billingService, cfg: cfg}
}

// HandlePaymentCapture completes a pending transaction once the payment
// provider confirms it. Authenticated by a shared secret header.
func (h *WebhookHandler) HandlePaymentCapture(c *fiber.Ctx) error {
	if h.cfg.PaymentWebhookSecret == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Payment webhooks not configured",
		})
	}

	authHeader := c.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.cfg.PaymentWebhookSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var event dto.PaymentCaptureEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook payload",
		})
	}

	if err := h.billingService.CapturePayment(&event); err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown transaction",
			})
		case errors.Is(err, services.ErrAlreadyCaptured):
			// Providers retry; a duplicate capture is not an error.
			return c.JSON(fiber.Map{"received": true, "duplicate": true})
		default:
			slog.Error("payment capture failed", "transaction_id", event.TransactionID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to process payment capture",
			})
		}
	}

	slog.Info("payment captured", "transaction_id", event.TransactionID, "provider", event.Provider)
	return c.JSON(fiber.Map{"received": true})
}
