package repository

import (
	"time"

	"github.com/trinetra-labs/credentials-backend/internal/database"
	"github.com/trinetra-labs/credentials-backend/internal/models"
	"gorm.io/gorm"
)

type gormEntitlementRepository struct {
	db *gorm.DB
}

// NewEntitlementRepository creates an entitlement repository backed by GORM.
func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &gormEntitlementRepository{db: db}
}

func (r *gormEntitlementRepository) LatestActiveSubscription(wallet, userType string, now time.Time) (*models.UserSubscription, error) {
	q := r.db.Preload("Plan").
		Scopes(database.ForWallet(wallet), database.ActiveUnexpired(now)).
		Order("created_at DESC")
	if userType != "" {
		q = q.Where("user_type = ?", userType)
	}

	var sub models.UserSubscription
	if err := q.First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}
