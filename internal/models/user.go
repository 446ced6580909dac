package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User types known to the platform. Students use the free tier and are
// never gated by a subscription.
const (
	UserTypeStudent     = "student"
	UserTypeInstitution = "institution"
	UserTypeEmployer    = "employer"
)

// ValidUserType reports whether t is one of the supported account types.
func ValidUserType(t string) bool {
	switch t {
	case UserTypeStudent, UserTypeInstitution, UserTypeEmployer:
		return true
	}
	return false
}

// User is a platform account bound to a wallet address.
type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WalletAddress string         `gorm:"size:64;not null;uniqueIndex" json:"wallet_address"`
	Email         string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	UserType      string         `gorm:"size:20;not null;index" json:"user_type"`
	Role          string         `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
