package repository

import (
	"github.com/trinetra-labs/credentials-backend/internal/database"
	"github.com/trinetra-labs/credentials-backend/internal/models"
	"gorm.io/gorm"
)

type gormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a profile repository backed by GORM.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &gormProfileRepository{db: db}
}

func (r *gormProfileRepository) ProfileByWallet(wallet string) (*models.StudentProfile, error) {
	var p models.StudentProfile
	if err := r.db.Scopes(database.ForWallet(wallet)).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormProfileRepository) CreateProfile(p *models.StudentProfile) error {
	return r.db.Create(p).Error
}

func (r *gormProfileRepository) UpdateProfile(p *models.StudentProfile) error {
	return r.db.Model(&models.StudentProfile{}).
		Scopes(database.ForWallet(p.WalletAddress)).
		Updates(map[string]interface{}{
			"full_name":           p.FullName,
			"email":               p.Email,
			"institution_name":    p.InstitutionName,
			"institution_address": p.InstitutionAddress,
		}).Error
}

func (r *gormProfileRepository) AuthorizedInstitutions() ([]models.Institution, error) {
	var institutions []models.Institution
	err := r.db.Where("authorized = ?", true).Order("name ASC").Find(&institutions).Error
	return institutions, err
}

func (r *gormProfileRepository) InstitutionByAddress(address string) (*models.Institution, error) {
	var inst models.Institution
	err := r.db.Where("wallet_address = ? AND authorized = ?", address, true).First(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *gormProfileRepository) StudentsByInstitution(address string) ([]models.StudentProfile, error) {
	var students []models.StudentProfile
	err := r.db.Where("institution_address = ?", address).
		Order("enrollment_date DESC").Find(&students).Error
	return students, err
}
