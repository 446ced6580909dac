package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/trinetra-labs/credentials-backend/internal/auth"
	"github.com/trinetra-labs/credentials-backend/internal/dto"
	"github.com/trinetra-labs/credentials-backend/internal/models"
	"github.com/trinetra-labs/credentials-backend/internal/services"
)

type EntitlementHandler struct {
	entitlementService *services.EntitlementService
}

func NewEntitlementHandler(entitlementService *services.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{entitlementService: entitlementService}
}

// CheckAccess answers whether the caller currently has paid access. A
// failed lookup is reported to operators but the response fails closed;
// clients only ever see a boolean.
func (h *EntitlementHandler) CheckAccess(c *fiber.Ctx) error {
	wallet, userType, resp := callerIdentity(c)
	if resp != nil {
		return resp(c)
	}

	decision, err := h.entitlementService.CheckAccess(wallet, userType)
	if err != nil {
		slog.Error("access check failed", "wallet", wallet, "user_type", userType, "error", err)
	}

	return c.JSON(dto.AccessResponse{
		HasAccess:    decision.HasAccess,
		Subscription: subscriptionResponse(decision.Subscription),
	})
}

// ActiveSubscription returns the caller's authoritative subscription, or
// null when there is none.
func (h *EntitlementHandler) ActiveSubscription(c *fiber.Ctx) error {
	wallet, err := auth.Wallet(c)
	if err != nil {
		return unauthorized(c)
	}

	sub, err := h.entitlementService.ActiveSubscription(wallet)
	if err != nil {
		slog.Error("subscription lookup failed", "wallet", wallet, "error", err)
		return c.JSON(fiber.Map{"subscription": nil})
	}

	return c.JSON(fiber.Map{"subscription": subscriptionResponse(sub)})
}

// CheckFeature answers a feature-level access question for the caller.
func (h *EntitlementHandler) CheckFeature(c *fiber.Ctx) error {
	wallet, userType, resp := callerIdentity(c)
	if resp != nil {
		return resp(c)
	}

	featureKey := c.Params("key")
	if featureKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Feature key is required",
		})
	}

	allowed := h.entitlementService.CheckFeatureAccess(wallet, userType, featureKey)
	return c.JSON(dto.FeatureAccessResponse{Feature: featureKey, Allowed: allowed})
}

func subscriptionResponse(sub *models.UserSubscription) *dto.SubscriptionResponse {
	if sub == nil {
		return nil
	}
	return &dto.SubscriptionResponse{
		ID:        sub.ID,
		PlanID:    sub.PlanID,
		PlanName:  sub.Plan.Name,
		Status:    sub.Status,
		StartsAt:  sub.StartsAt,
		ExpiresAt: sub.ExpiresAt,
	}
}
