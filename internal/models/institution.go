package models

import (
	"time"

	"github.com/google/uuid"
)

// Institution is an academic institution authorized to issue credentials
// on the platform. The authorization flow itself lives on-chain; this table
// mirrors the authorized set for profile selection and student listings.
type Institution struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WalletAddress string    `gorm:"size:64;not null;uniqueIndex" json:"wallet_address"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Authorized    bool      `gorm:"default:true;index" json:"authorized"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
