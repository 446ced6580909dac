package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Discount types for promo codes.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// PromoCode is a discount token with time, usage and account-type
// constraints. Codes are stored uppercase; lookups normalize first.
type PromoCode struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code          string         `gorm:"size:50;not null;uniqueIndex" json:"code"`
	DiscountType  string         `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue float64        `gorm:"not null" json:"discount_value"`
	ValidFrom     *time.Time     `json:"valid_from"`
	ValidUntil    *time.Time     `json:"valid_until"`
	MaxUses       *int           `json:"max_uses"`
	CurrentUses   int            `gorm:"not null;default:0" json:"current_uses"`
	ApplicableTo  datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"applicable_to"`
	Active        bool           `gorm:"default:true;index" json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// AppliesTo reports whether the code may be used by the given account type.
func (p *PromoCode) AppliesTo(userType string) bool {
	var types []string
	if err := json.Unmarshal(p.ApplicableTo, &types); err != nil {
		return false
	}
	for _, t := range types {
		if t == userType {
			return true
		}
	}
	return false
}
