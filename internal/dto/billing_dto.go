package dto

import (
	"time"

	"github.com/google/uuid"
)

type ValidatePromoRequest struct {
	PlanID uuid.UUID `json:"plan_id" validate:"required"`
	Code   string    `json:"code"`
}

type ValidatePromoResponse struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
	Reason         string  `json:"reason,omitempty"`
}

type CheckoutRequest struct {
	PlanID    uuid.UUID `json:"plan_id" validate:"required"`
	PromoCode string    `json:"promo_code"`
}

type AccessResponse struct {
	HasAccess    bool                  `json:"has_access"`
	Subscription *SubscriptionResponse `json:"subscription"`
}

type SubscriptionResponse struct {
	ID        uuid.UUID `json:"id"`
	PlanID    uuid.UUID `json:"plan_id"`
	PlanName  string    `json:"plan_name"`
	Status    string    `json:"status"`
	StartsAt  time.Time `json:"starts_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type FeatureAccessResponse struct {
	Feature string `json:"feature"`
	Allowed bool   `json:"allowed"`
}

// PaymentCaptureEvent is the payload posted by the payment provider once a
// pending transaction has been paid.
type PaymentCaptureEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Provider      string    `json:"provider"`
	Reference     string    `json:"reference"`
	PaidAmount    float64   `json:"paid_amount"`
	Currency      string    `json:"currency"`
}

type CreatePromoCodeRequest struct {
	Code          string     `json:"code" validate:"required,min=2,max=50"`
	DiscountType  string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue float64    `json:"discount_value" validate:"gte=0"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`
	MaxUses       *int       `json:"max_uses"`
	ApplicableTo  []string   `json:"applicable_to" validate:"required,min=1,dive,oneof=student institution employer"`
}
