package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment transaction states. Pending transactions wait on external payment
// capture; completed ones either cost nothing at checkout or were captured
// through the payment webhook.
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
)

// PaymentTransaction records one checkout attempt. Rows are written once at
// checkout and only touched again by payment capture.
type PaymentTransaction struct {
	ID              uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WalletAddress   string      `gorm:"size:64;not null;index" json:"wallet_address"`
	UserType        string      `gorm:"size:20;not null" json:"user_type"`
	PlanID          uuid.UUID   `gorm:"type:uuid;not null" json:"plan_id"`
	Amount          float64     `gorm:"not null" json:"amount"`
	Currency        string      `gorm:"size:10;not null;default:'USD'" json:"currency"`
	PromoCode       *string     `gorm:"size:50" json:"promo_code"`
	DiscountApplied float64     `gorm:"not null;default:0" json:"discount_applied"`
	FinalAmount     float64     `gorm:"not null" json:"final_amount"`
	Status          string      `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CompletedAt     *time.Time  `json:"completed_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Plan            PricingPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}
