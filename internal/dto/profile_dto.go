package dto

type SaveProfileRequest struct {
	FullName           string `json:"full_name" validate:"required,max=255"`
	Email              string `json:"email" validate:"required,email"`
	InstitutionName    string `json:"institution_name"`
	InstitutionAddress string `json:"institution_address" validate:"required,max=64"`
}
