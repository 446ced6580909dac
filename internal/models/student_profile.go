package models

import (
	"time"

	"github.com/google/uuid"
)

// StudentProfile holds a student's public profile, keyed by wallet address.
// InstitutionAddress references an authorized institution; it is a lookup
// reference, not ownership.
type StudentProfile struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WalletAddress      string    `gorm:"size:64;not null;uniqueIndex" json:"wallet_address"`
	FullName           string    `gorm:"size:255;not null" json:"full_name"`
	Email              string    `gorm:"size:255;not null" json:"email"`
	InstitutionName    string    `gorm:"size:255" json:"institution_name"`
	InstitutionAddress string    `gorm:"size:64;index" json:"institution_address"`
	EnrollmentDate     time.Time `gorm:"autoCreateTime" json:"enrollment_date"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
