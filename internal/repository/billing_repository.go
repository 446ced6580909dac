package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trinetra-labs/credentials-backend/internal/models"
	"gorm.io/gorm"
)

type gormBillingRepository struct {
	db *gorm.DB
}

// NewBillingRepository creates a billing repository backed by GORM.
func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &gormBillingRepository{db: db}
}

func (r *gormBillingRepository) ActivePlans(planType string) ([]models.PricingPlan, error) {
	var plans []models.PricingPlan
	err := r.db.Where("plan_type = ? AND active = ?", planType, true).
		Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *gormBillingRepository) PlanByID(id uuid.UUID) (*models.PricingPlan, error) {
	var plan models.PricingPlan
	if err := r.db.First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormBillingRepository) ActivePromoCode(code string) (*models.PromoCode, error) {
	var pc models.PromoCode
	err := r.db.Where("code = ? AND active = ?", strings.ToUpper(code), true).First(&pc).Error
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

func (r *gormBillingRepository) CreatePromoCode(pc *models.PromoCode) error {
	pc.Code = strings.ToUpper(pc.Code)
	return r.db.Create(pc).Error
}

func (r *gormBillingRepository) ListPromoCodes() ([]models.PromoCode, error) {
	var codes []models.PromoCode
	err := r.db.Order("created_at DESC").Find(&codes).Error
	return codes, err
}

func (r *gormBillingRepository) DeactivatePromoCode(code string) error {
	result := r.db.Model(&models.PromoCode{}).
		Where("code = ?", strings.ToUpper(code)).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormBillingRepository) CreateTransaction(txRow *models.PaymentTransaction) error {
	return r.db.Create(txRow).Error
}

func (r *gormBillingRepository) TransactionByID(id uuid.UUID) (*models.PaymentTransaction, error) {
	var txRow models.PaymentTransaction
	if err := r.db.First(&txRow, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txRow, nil
}

func (r *gormBillingRepository) TransactionsByWallet(wallet string) ([]models.PaymentTransaction, error) {
	var rows []models.PaymentTransaction
	err := r.db.Preload("Plan").
		Where("wallet_address = ?", wallet).
		Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *gormBillingRepository) GrantAccess(txRow *models.PaymentTransaction, sub *models.UserSubscription, promoCode string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txRow).Error; err != nil {
			return err
		}
		if promoCode != "" {
			err := tx.Model(&models.PromoCode{}).
				Where("code = ?", strings.ToUpper(promoCode)).
				UpdateColumn("current_uses", gorm.Expr("current_uses + 1")).Error
			if err != nil {
				return err
			}
		}
		sub.TransactionID = txRow.ID
		return tx.Create(sub).Error
	})
}

func (r *gormBillingRepository) CapturePayment(txID uuid.UUID, completedAt time.Time, sub *models.UserSubscription) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PaymentTransaction{}).
			Where("id = ? AND status = ?", txID, models.TransactionPending).
			Updates(map[string]interface{}{
				"status":       models.TransactionCompleted,
				"completed_at": completedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		sub.TransactionID = txID
		return tx.Create(sub).Error
	})
}
