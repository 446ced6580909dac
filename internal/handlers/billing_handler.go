package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/trinetra-labs/credentials-backend/internal/auth"
	"github.com/trinetra-labs/credentials-backend/internal/dto"
	"github.com/trinetra-labs/credentials-backend/internal/models"
	"github.com/trinetra-labs/credentials-backend/internal/services"
)

type BillingHandler struct {
	billingService *services.BillingService
}

func NewBillingHandler(billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// ListPlans returns active plans for a plan type (?type=institution|employer).
func (h *BillingHandler) ListPlans(c *fiber.Ctx) error {
	planType := c.Query("type")
	if planType != models.UserTypeInstitution && planType != models.UserTypeEmployer {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "type must be institution or employer",
		})
	}

	plans, err := h.billingService.ActivePlans(planType)
	if err != nil {
		slog.Error("plan listing failed", "plan_type", planType, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load plans",
		})
	}

	return c.JSON(fiber.Map{"plans": plans})
}

// ValidatePromo checks a promo code against a plan for the caller's
// account type. Invalid codes come back with valid=false and a reason,
// not an error status.
func (h *BillingHandler) ValidatePromo(c *fiber.Ctx) error {
	userType, err := auth.UserType(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.ValidatePromoRequest
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

	plan, err := h.billingService.Plan(req.PlanID)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Plan not found",
			})
		}
		slog.Error("plan lookup failed", "plan_id", req.PlanID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to validate promo code",
		})
	}

	result, err := h.billingService.ValidatePromoCode(req.Code, plan, userType)
	if err != nil {
		slog.Error("promo validation failed", "code", req.Code, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Error validating promo code",
		})
	}

	return c.JSON(dto.ValidatePromoResponse{
		Valid:          result.Valid,
		DiscountAmount: result.DiscountAmount,
		FinalAmount:    services.FinalAmount(plan.Price, result.DiscountAmount),
		Reason:         result.Reason,
	})
}

// Checkout validates any promo code server-side, then records the
// transaction. Zero-cost checkouts come back completed with the
// subscription already granted; the rest stay pending for payment capture.
func (h *BillingHandler) Checkout(c *fiber.Ctx) error {
	wallet, userType, resp := callerIdentity(c)
	if resp != nil {
		return resp(c)
	}

	if userType == models.UserTypeStudent {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Students do not need a subscription",
		})
	}

	var req dto.CheckoutRequest
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

	plan, err := h.billingService.Plan(req.PlanID)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Plan not found",
			})
		}
		slog.Error("plan lookup failed", "plan_id", req.PlanID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process checkout",
		})
	}

	validation, err := h.billingService.ValidatePromoCode(req.PromoCode, plan, userType)
	if err != nil {
		slog.Error("promo validation failed", "code", req.PromoCode, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Error validating promo code",
		})
	}
	if !validation.Valid {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: validation.Reason,
		})
	}

	txRow, err := h.billingService.Checkout(wallet, userType, plan, req.PromoCode, validation.DiscountAmount)
	if err != nil {
		slog.Error("checkout failed", "wallet", wallet, "plan_id", plan.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process checkout",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(txRow)
}

// Transactions returns the caller's checkout history, newest first.
func (h *BillingHandler) Transactions(c *fiber.Ctx) error {
	wallet, _, resp := callerIdentity(c)
	if resp != nil {
		return resp(c)
	}

	rows, err := h.billingService.Transactions(wallet)
	if err != nil {
		slog.Error("transaction listing failed", "wallet", wallet, "error", err)
		// Degrade to an empty history rather than failing the page.
		return c.JSON(fiber.Map{"transactions": []models.PaymentTransaction{}})
	}

	return c.JSON(fiber.Map{"transactions": rows})
}

// callerIdentity pulls wallet and account type out of the JWT. The third
// return, when non-nil, is the 401 response to send.
func callerIdentity(c *fiber.Ctx) (string, string, func(*fiber.Ctx) error) {
	wallet, err := auth.Wallet(c)
	if err != nil {
		return "", "", unauthorized
	}
	userType, err := auth.UserType(c)
	if err != nil {
		return "", "", unauthorized
	}
	return wallet, userType, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}
