package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/trinetra-labs/credentials-backend/internal/dto"
	"github.com/trinetra-labs/credentials-backend/internal/services"
)

// AdminPromoHandler manages promo codes. Pricing plans stay with the
// external admin tooling; codes are operational enough to live here.
type AdminPromoHandler struct {
	billingService *services.BillingService
}

func NewAdminPromoHandler(billingService *services.BillingService) *AdminPromoHandler {
	return &AdminPromoHandler{billingService: billingService}
}

func (h *AdminPromoHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePromoCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: validationMessage(err),
		})
	}

	pc, err := h.billingService.CreatePromoCode(&req)
	if err != nil {
		if errors.Is(err, services.ErrPromoCodeExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("promo code creation failed", "code", req.Code, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create promo code",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(pc)
}

func (h *AdminPromoHandler) List(c *fiber.Ctx) error {
	codes, err := h.billingService.ListPromoCodes()
	if err != nil {
		slog.Error("promo code listing failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list promo codes",
		})
	}

	return c.JSON(fiber.Map{"promo_codes": codes})
}

func (h *AdminPromoHandler) Deactivate(c *fiber.Ctx) error {
	code := c.Params("code")
	if err := h.billingService.DeactivatePromoCode(code); err != nil {
		if errors.Is(err, services.ErrPromoCodeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("promo code deactivation failed", "code", code, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to deactivate promo code",
		})
	}

	return c.JSON(fiber.Map{"deactivated": true})
}
