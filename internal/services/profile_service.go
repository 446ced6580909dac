package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/trinetra-labs/credentials-backend/internal/dto"
	"github.com/trinetra-labs/credentials-backend/internal/models"
	"github.com/trinetra-labs/credentials-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound          = errors.New("student profile not found")
	ErrMissingProfileFields     = errors.New("full name, email and institution are required")
	ErrInstitutionNotAuthorized = errors.New("institution is not authorized on the platform")
)

type ProfileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Profile returns the student profile for a wallet.
func (s *ProfileService) Profile(wallet string) (*models.StudentProfile, error) {
	p, err := s.repo.ProfileByWallet(wallet)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	return p, nil
}

// SaveProfile creates or updates the profile for a wallet. The institution
// must be in the authorized set; its canonical name is taken from the
// directory, not from the request.
func (s *ProfileService) SaveProfile(wallet string, req *dto.SaveProfileRequest) (*models.StudentProfile, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	instAddr := strings.TrimSpace(req.InstitutionAddress)
	if fullName == "" || email == "" || instAddr == "" {
		return nil, ErrMissingProfileFields
	}

	inst, err := s.repo.InstitutionByAddress(instAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstitutionNotAuthorized
		}
		return nil, fmt.Errorf("institution lookup failed: %w", err)
	}

	existing, err := s.repo.ProfileByWallet(wallet)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}

	if existing != nil {
		existing.FullName = fullName
		existing.Email = email
		existing.InstitutionName = inst.Name
		existing.InstitutionAddress = inst.WalletAddress
		if err := s.repo.UpdateProfile(existing); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		return existing, nil
	}

	p := &models.StudentProfile{
		ID:                 uuid.New(),
		WalletAddress:      wallet,
		FullName:           fullName,
		Email:              email,
		InstitutionName:    inst.Name,
		InstitutionAddress: inst.WalletAddress,
	}
	if err := s.repo.CreateProfile(p); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

// Institutions lists the authorized institutions for profile selection.
func (s *ProfileService) Institutions() ([]models.Institution, error) {
	return s.repo.AuthorizedInstitutions()
}

// Students lists profiles enrolled under an institution, newest first.
func (s *ProfileService) Students(institutionWallet string) ([]models.StudentProfile, error) {
	return s.repo.StudentsByInstitution(institutionWallet)
}
