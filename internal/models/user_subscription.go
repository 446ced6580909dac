package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionActive is the only status that grants access, and only while
// expires_at is in the future.
const SubscriptionActive = "active"

// UserSubscription grants paid access to a wallet for one account type.
// Multiple rows may exist per wallet; the most recently created active,
// unexpired one is authoritative.
type UserSubscription struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WalletAddress string      `gorm:"size:64;not null;index" json:"wallet_address"`
	UserType      string      `gorm:"size:20;not null;index" json:"user_type"`
	PlanID        uuid.UUID   `gorm:"type:uuid;not null" json:"plan_id"`
	Status        string      `gorm:"size:20;not null;default:'active';index" json:"status"`
	StartsAt      time.Time   `gorm:"autoCreateTime" json:"starts_at"`
	ExpiresAt     time.Time   `gorm:"not null;index" json:"expires_at"`
	TransactionID uuid.UUID   `gorm:"type:uuid" json:"transaction_id"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Plan          PricingPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}
