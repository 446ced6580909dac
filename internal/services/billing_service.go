package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trinetra-labs/credentials-backend/internal/cache"
	"github.com/trinetra-labs/credentials-backend/internal/dto"
	"github.com/trinetra-labs/credentials-backend/internal/models"
	"github.com/trinetra-labs/credentials-backend/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound        = errors.New("plan not found")
	ErrPromoCodeExists     = errors.New("promo code already exists")
	ErrPromoCodeNotFound   = errors.New("promo code not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyCaptured     = errors.New("transaction already captured")
)

// Validation reasons shown to users verbatim.
const (
	ReasonInvalidCode   = "Invalid promo code"
	ReasonCodeExpired   = "Promo code expired"
	ReasonUsageLimit    = "Promo code usage limit reached"
	ReasonNotApplicable = "Promo code not applicable to your account type"
)

// PromoValidation is the outcome of checking a promo code against a plan
// and account type. Invalid codes carry a user-facing reason; they are not
// errors. The error return of ValidatePromoCode is reserved for failed
// store lookups.
type PromoValidation struct {
	Valid          bool
	DiscountAmount float64
	Reason         string
}

type BillingService struct {
	repo           repository.BillingRepository
	freeAccessCode string
}

// NewBillingService creates the billing service. freeAccessCode is the
// configured universal promo code that always grants access at checkout.
func NewBillingService(repo repository.BillingRepository, freeAccessCode string) *BillingService {
	return &BillingService{repo: repo, freeAccessCode: strings.ToUpper(freeAccessCode)}
}

// NormalizeCode uppercases and trims a promo code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FinalAmount applies a discount to a price, floored at zero.
func FinalAmount(price, discount float64) float64 {
	if final := price - discount; final > 0 {
		return final
	}
	return 0
}

// ActivePlans lists purchasable plans for an account type. The catalog is
// read-mostly, so results are cached briefly; cache misses and failures
// fall through to the database.
func (s *BillingService) ActivePlans(planType string) ([]models.PricingPlan, error) {
	key := "pricing_plans:" + planType
	if raw, err := cache.Get(key); err == nil {
		var plans []models.PricingPlan
		if json.Unmarshal([]byte(raw), &plans) == nil {
			return plans, nil
		}
	}

	plans, err := s.repo.ActivePlans(planType)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}

	if b, err := json.Marshal(plans); err == nil {
		_ = cache.Set(key, string(b), time.Minute)
	}
	return plans, nil
}

// Plan resolves a plan by ID.
func (s *BillingService) Plan(id uuid.UUID) (*models.PricingPlan, error) {
	plan, err := s.repo.PlanByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("plan lookup failed: %w", err)
	}
	return plan, nil
}

// ValidatePromoCode runs the validation chain, first failure wins:
// unknown code, validity window, usage cap, account-type applicability.
// A blank code is "no code": valid with zero discount. The computed
// discount is not capped to the plan price here; capping happens when the
// final amount is charged.
func (s *BillingService) ValidatePromoCode(code string, plan *models.PricingPlan, userType string) (PromoValidation, error) {
	code = NormalizeCode(code)
	if code == "" {
		return PromoValidation{Valid: true}, nil
	}

	pc, err := s.repo.ActivePromoCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PromoValidation{Reason: ReasonInvalidCode}, nil
		}
		return PromoValidation{}, fmt.Errorf("promo code lookup failed: %w", err)
	}

	now := time.Now()
	if pc.ValidFrom != nil && now.Before(*pc.ValidFrom) {
		return PromoValidation{Reason: ReasonCodeExpired}, nil
	}
	if pc.ValidUntil != nil && now.After(*pc.ValidUntil) {
		return PromoValidation{Reason: ReasonCodeExpired}, nil
	}

	if pc.MaxUses != nil && pc.CurrentUses >= *pc.MaxUses {
		return PromoValidation{Reason: ReasonUsageLimit}, nil
	}

	if !pc.AppliesTo(userType) {
		return PromoValidation{Reason: ReasonNotApplicable}, nil
	}

	var discount float64
	switch pc.DiscountType {
	case models.DiscountPercentage:
		discount = plan.Price * pc.DiscountValue / 100
	case models.DiscountFixed:
		discount = pc.DiscountValue
	}
	if discount < 0 {
		discount = 0
	}

	return PromoValidation{Valid: true, DiscountAmount: discount}, nil
}

// Checkout records one checkout attempt. A zero final amount (or the
// configured universal free-access code) completes immediately: the promo
// usage counter, the transaction and the new one-year subscription are
// written in a single database transaction. Anything else stays pending
// until the payment provider captures it.
func (s *BillingService) Checkout(wallet, userType string, plan *models.PricingPlan, code string, discount float64) (*models.PaymentTransaction, error) {
	code = NormalizeCode(code)
	final := FinalAmount(plan.Price, discount)
	now := time.Now()

	txRow := &models.PaymentTransaction{
		ID:              uuid.New(),
		WalletAddress:   wallet,
		UserType:        userType,
		PlanID:          plan.ID,
		Amount:          plan.Price,
		Currency:        plan.Currency,
		DiscountApplied: discount,
		FinalAmount:     final,
		Status:          models.TransactionPending,
	}
	if code != "" {
		txRow.PromoCode = &code
	}
	if final == 0 {
		txRow.Status = models.TransactionCompleted
		txRow.CompletedAt = &now
	}

	if final == 0 || code == s.freeAccessCode {
		sub := &models.UserSubscription{
			ID:            uuid.New(),
			WalletAddress: wallet,
			UserType:      userType,
			PlanID:        plan.ID,
			Status:        models.SubscriptionActive,
			StartsAt:      now,
			ExpiresAt:     now.AddDate(1, 0, 0),
		}
		if err := s.repo.GrantAccess(txRow, sub, code); err != nil {
			return nil, fmt.Errorf("failed to record checkout: %w", err)
		}
		return txRow, nil
	}

	if err := s.repo.CreateTransaction(txRow); err != nil {
		return nil, fmt.Errorf("failed to record checkout: %w", err)
	}
	return txRow, nil
}

// CapturePayment completes a pending transaction after the payment
// provider confirms it, granting the subscription it paid for.
func (s *BillingService) CapturePayment(event *dto.PaymentCaptureEvent) error {
	txRow, err := s.repo.TransactionByID(event.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("transaction lookup failed: %w", err)
	}
	if txRow.Status == models.TransactionCompleted {
		return ErrAlreadyCaptured
	}

	now := time.Now()
	sub := &models.UserSubscription{
		ID:            uuid.New(),
		WalletAddress: txRow.WalletAddress,
		UserType:      txRow.UserType,
		PlanID:        txRow.PlanID,
		Status:        models.SubscriptionActive,
		StartsAt:      now,
		ExpiresAt:     now.AddDate(1, 0, 0),
	}
	if err := s.repo.CapturePayment(txRow.ID, now, sub); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlreadyCaptured
		}
		return fmt.Errorf("payment capture failed: %w", err)
	}
	return nil
}

// Transactions returns a wallet's checkout history, newest first.
func (s *BillingService) Transactions(wallet string) ([]models.PaymentTransaction, error) {
	rows, err := s.repo.TransactionsByWallet(wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return rows, nil
}

// CreatePromoCode registers a new promo code (admin surface).
func (s *BillingService) CreatePromoCode(req *dto.CreatePromoCodeRequest) (*models.PromoCode, error) {
	code := NormalizeCode(req.Code)

	if _, err := s.repo.ActivePromoCode(code); err == nil {
		return nil, ErrPromoCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("promo code lookup failed: %w", err)
	}

	applicable, err := json.Marshal(req.ApplicableTo)
	if err != nil {
		return nil, fmt.Errorf("invalid applicable_to: %w", err)
	}

	pc := &models.PromoCode{
		ID:            uuid.New(),
		Code:          code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		MaxUses:       req.MaxUses,
		ApplicableTo:  datatypes.JSON(applicable),
		Active:        true,
	}
	if err := s.repo.CreatePromoCode(pc); err != nil {
		return nil, fmt.Errorf("failed to create promo code: %w", err)
	}
	return pc, nil
}

// ListPromoCodes returns all promo codes, newest first (admin surface).
func (s *BillingService) ListPromoCodes() ([]models.PromoCode, error) {
	return s.repo.ListPromoCodes()
}

// DeactivatePromoCode disables a code without deleting its usage history.
func (s *BillingService) DeactivatePromoCode(code string) error {
	err := s.repo.DeactivatePromoCode(NormalizeCode(code))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPromoCodeNotFound
	}
	return err
}
