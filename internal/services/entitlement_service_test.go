package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trinetra-labs/credentials-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeEntitlementRepo struct {
	sub *models.UserSubscription
	err error

	lastWallet   string
	lastUserType string
}

func (f *fakeEntitlementRepo) LatestActiveSubscription(wallet, userType string, now time.Time) (*models.UserSubscription, error) {
	f.lastWallet = wallet
	f.lastUserType = userType
	if f.err != nil {
		return nil, f.err
	}
	return f.sub, nil
}

func activeSub(features datatypes.JSONMap) *models.UserSubscription {
	return &models.UserSubscription{
		ID:            uuid.New(),
		WalletAddress: "0xabc",
		UserType:      models.UserTypeInstitution,
		Status:        models.SubscriptionActive,
		ExpiresAt:     time.Now().AddDate(0, 6, 0),
		Plan: models.PricingPlan{
			ID:       uuid.New(),
			Name:     "Institution Pro",
			Features: features,
		},
	}
}

func TestCheckAccess_StudentAlwaysHasAccess(t *testing.T) {
	repo := &fakeEntitlementRepo{err: gorm.ErrRecordNotFound}
	svc := NewEntitlementService(repo)

	decision, err := svc.CheckAccess("0xabc", models.UserTypeStudent)
	require.NoError(t, err)
	assert.True(t, decision.HasAccess)
	assert.Nil(t, decision.Subscription)
	// Students never hit the store.
	assert.Empty(t, repo.lastWallet)
}

func TestCheckAccess_ActiveSubscription(t *testing.T) {
	sub := activeSub(nil)
	repo := &fakeEntitlementRepo{sub: sub}
	svc := NewEntitlementService(repo)

	decision, err := svc.CheckAccess("0xabc", models.UserTypeInstitution)
	require.NoError(t, err)
	assert.True(t, decision.HasAccess)
	assert.Equal(t, sub, decision.Subscription)
	assert.Equal(t, models.UserTypeInstitution, repo.lastUserType)
}

func TestCheckAccess_NoSubscription(t *testing.T) {
	repo := &fakeEntitlementRepo{err: gorm.ErrRecordNotFound}
	svc := NewEntitlementService(repo)

	decision, err := svc.CheckAccess("0xabc", models.UserTypeEmployer)
	require.NoError(t, err)
	assert.False(t, decision.HasAccess)
}

func TestCheckAccess_LookupFailure(t *testing.T) {
	repo := &fakeEntitlementRepo{err: errors.New("connection refused")}
	svc := NewEntitlementService(repo)

	decision, err := svc.CheckAccess("0xabc", models.UserTypeEmployer)
	require.Error(t, err)
	assert.False(t, decision.HasAccess)
}

func TestActiveSubscription_MatchesAnyAccountType(t *testing.T) {
	sub := activeSub(nil)
	repo := &fakeEntitlementRepo{sub: sub}
	svc := NewEntitlementService(repo)

	got, err := svc.ActiveSubscription("0xabc")
	require.NoError(t, err)
	assert.Equal(t, sub, got)
	assert.Empty(t, repo.lastUserType)
}

func TestActiveSubscription_AbsenceIsNotAnError(t *testing.T) {
	repo := &fakeEntitlementRepo{err: gorm.ErrRecordNotFound}
	svc := NewEntitlementService(repo)

	got, err := svc.ActiveSubscription("0xabc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCheckFeatureAccess(t *testing.T) {
	features := datatypes.JSONMap{
		"verify_credentials": true,
		"bulk_issue":         false,
		"api_calls":          float64(1000),
		"seats":              float64(-1),
	}

	tests := []struct {
		name    string
		repo    *fakeEntitlementRepo
		feature string
		want    bool
	}{
		{"enabled flag", &fakeEntitlementRepo{sub: activeSub(features)}, "verify_credentials", true},
		{"disabled flag", &fakeEntitlementRepo{sub: activeSub(features)}, "bulk_issue", false},
		{"numeric limit", &fakeEntitlementRepo{sub: activeSub(features)}, "api_calls", true},
		{"unlimited sentinel", &fakeEntitlementRepo{sub: activeSub(features)}, "seats", true},
		{"absent key", &fakeEntitlementRepo{sub: activeSub(features)}, "custom_branding", false},
		{"no subscription", &fakeEntitlementRepo{err: gorm.ErrRecordNotFound}, "verify_credentials", false},
		{"lookup failure fails closed", &fakeEntitlementRepo{err: errors.New("timeout")}, "verify_credentials", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEntitlementService(tt.repo)
			got := svc.CheckFeatureAccess("0xabc", models.UserTypeInstitution, tt.feature)
			assert.Equal(t, tt.want, got)
		})
	}
}
