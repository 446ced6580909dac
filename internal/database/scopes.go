package database

import (
	"time"

	"github.com/trinetra-labs/credentials-backend/internal/models"
	"gorm.io/gorm"
)

// ForWallet returns a GORM scope that filters by wallet address.
func ForWallet(address string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("wallet_address = ?", address)
	}
}

// ActiveUnexpired filters subscription rows down to the ones that still
// grant access at the given instant.
func ActiveUnexpired(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND expires_at > ?", models.SubscriptionActive, now)
	}
}
