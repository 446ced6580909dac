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

type ProfileHandler struct {
	profileService     *services.ProfileService
	entitlementService *services.EntitlementService
}

func NewProfileHandler(profileService *services.ProfileService, entitlementService *services.EntitlementService) *ProfileHandler {
	return &ProfileHandler{
		profileService:     profileService,
		entitlementService: entitlementService,
	}
}

// GetProfile returns the caller's student profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	wallet, err := auth.Wallet(c)
	if err != nil {
		return unauthorized(c)
	}

	profile, err := h.profileService.Profile(wallet)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Profile not found",
			})
		}
		slog.Error("profile lookup failed", "wallet", wallet, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load profile",
		})
	}

	return c.JSON(profile)
}

// SaveProfile creates or updates the caller's student profile.
func (h *ProfileHandler) SaveProfile(c *fiber.Ctx) error {
	wallet, err := auth.Wallet(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SaveProfileRequest
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

	profile, err := h.profileService.SaveProfile(wallet, &req)
	if err != nil {
		if errors.Is(err, services.ErrMissingProfileFields) ||
			errors.Is(err, services.ErrInstitutionNotAuthorized) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("profile save failed", "wallet", wallet, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save profile",
		})
	}

	return c.JSON(profile)
}

// ListInstitutions lists the authorized institutions (public, for the
// profile form's dropdown).
func (h *ProfileHandler) ListInstitutions(c *fiber.Ctx) error {
	institutions, err := h.profileService.Institutions()
	if err != nil {
		slog.Error("institution listing failed", "error", err)
		return c.JSON(fiber.Map{"institutions": []models.Institution{}})
	}

	return c.JSON(fiber.Map{"institutions": institutions})
}

// ListStudents lists the profiles enrolled under the calling institution.
// Gated on an active subscription; a failed check fails closed.
func (h *ProfileHandler) ListStudents(c *fiber.Ctx) error {
	wallet, userType, resp := callerIdentity(c)
	if resp != nil {
		return resp(c)
	}

	if userType != models.UserTypeInstitution {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Only institutions can list their students",
		})
	}

	decision, err := h.entitlementService.CheckAccess(wallet, userType)
	if err != nil {
		slog.Error("access check failed", "wallet", wallet, "error", err)
	}
	if !decision.HasAccess {
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
			Error: true, Message: "An active subscription is required",
		})
	}

	students, err := h.profileService.Students(wallet)
	if err != nil {
		slog.Error("student listing failed", "wallet", wallet, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load students",
		})
	}

	return c.JSON(fiber.Map{"students": students})
}
