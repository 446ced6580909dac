package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/trinetra-labs/credentials-backend/internal/models"
)

// EntitlementRepository answers subscription lookups for access checks.
// Absence is reported as gorm.ErrRecordNotFound so callers can tell
// "confirmed no subscription" apart from a failed query.
type EntitlementRepository interface {
	// LatestActiveSubscription returns the most recently created active,
	// unexpired subscription for a wallet, with the plan preloaded.
	// userType narrows the lookup; pass "" to match any account type.
	LatestActiveSubscription(wallet, userType string, now time.Time) (*models.UserSubscription, error)
}

// BillingRepository covers plans, promo codes and the checkout write path.
type BillingRepository interface {
	ActivePlans(planType string) ([]models.PricingPlan, error)
	PlanByID(id uuid.UUID) (*models.PricingPlan, error)

	// ActivePromoCode looks up an active promo code by its normalized form.
	ActivePromoCode(code string) (*models.PromoCode, error)
	CreatePromoCode(pc *models.PromoCode) error
	ListPromoCodes() ([]models.PromoCode, error)
	DeactivatePromoCode(code string) error

	CreateTransaction(txRow *models.PaymentTransaction) error
	TransactionByID(id uuid.UUID) (*models.PaymentTransaction, error)
	TransactionsByWallet(wallet string) ([]models.PaymentTransaction, error)

	// GrantAccess atomically records a completed checkout: it inserts the
	// transaction, bumps the promo code's usage counter (when a code was
	// used) and inserts the subscription, all in one database transaction.
	GrantAccess(txRow *models.PaymentTransaction, sub *models.UserSubscription, promoCode string) error

	// CapturePayment atomically marks a pending transaction completed and
	// inserts the subscription it paid for.
	CapturePayment(txID uuid.UUID, completedAt time.Time, sub *models.UserSubscription) error
}

// ProfileRepository covers student profiles and the authorized-institution
// directory.
type ProfileRepository interface {
	ProfileByWallet(wallet string) (*models.StudentProfile, error)
	CreateProfile(p *models.StudentProfile) error
	UpdateProfile(p *models.StudentProfile) error
	AuthorizedInstitutions() ([]models.Institution, error)
	InstitutionByAddress(address string) (*models.Institution, error)
	StudentsByInstitution(address string) ([]models.StudentProfile, error)
}
