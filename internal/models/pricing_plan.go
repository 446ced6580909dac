package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PricingPlan is a purchasable plan for institutions or employers.
// Features maps a feature key to a boolean flag, a numeric limit, or the
// unlimited sentinel (-1). Plans are created and updated by an external
// admin process; this service only reads them.
type PricingPlan struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PlanType  string            `gorm:"size:20;not null;index" json:"plan_type"`
	Name      string            `gorm:"size:100;not null" json:"name"`
	Price     float64           `gorm:"not null" json:"price"`
	Currency  string            `gorm:"size:10;not null;default:'USD'" json:"currency"`
	Features  datatypes.JSONMap `gorm:"type:jsonb;default:'{}'" json:"features"`
	Active    bool              `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
