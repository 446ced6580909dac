package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trinetra-labs/credentials-backend/internal/models"
	"github.com/trinetra-labs/credentials-backend/internal/repository"
	"gorm.io/gorm"
)

// AccessDecision is the outcome of an entitlement check. A zero decision
// means no access. The error returned alongside it distinguishes
// "confirmed no access" from "the check itself failed"; HTTP callers fail
// closed either way but only the latter is reported to operators.
type AccessDecision struct {
	HasAccess    bool
	Subscription *models.UserSubscription
}

type EntitlementService struct {
	repo repository.EntitlementRepository
}

func NewEntitlementService(repo repository.EntitlementRepository) *EntitlementService {
	return &EntitlementService{repo: repo}
}

// CheckAccess resolves whether a wallet currently has paid access for its
// account type. Students always have access; the free tier has no
// entitlement gate for them.
func (s *EntitlementService) CheckAccess(wallet, userType string) (AccessDecision, error) {
	if userType == models.UserTypeStudent {
		return AccessDecision{HasAccess: true}, nil
	}

	sub, err := s.repo.LatestActiveSubscription(wallet, userType, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccessDecision{}, nil
		}
		return AccessDecision{}, fmt.Errorf("subscription lookup failed: %w", err)
	}

	return AccessDecision{HasAccess: true, Subscription: sub}, nil
}

// ActiveSubscription returns the wallet's newest active, unexpired
// subscription regardless of account type, or nil when there is none.
func (s *EntitlementService) ActiveSubscription(wallet string) (*models.UserSubscription, error) {
	sub, err := s.repo.LatestActiveSubscription(wallet, "", time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("subscription lookup failed: %w", err)
	}
	return sub, nil
}

// CheckFeatureAccess reports whether the wallet's active plan grants the
// given feature. Absent keys and explicit false deny; numeric limits and
// the unlimited sentinel grant. Lookup failures fail closed and are logged.
func (s *EntitlementService) CheckFeatureAccess(wallet, userType, featureKey string) bool {
	sub, err := s.ActiveSubscription(wallet)
	if err != nil {
		slog.Error("feature access check failed", "wallet", wallet, "feature", featureKey, "error", err)
		return false
	}
	if sub == nil {
		return false
	}

	value, ok := sub.Plan.Feature(featureKey)
	if !ok {
		return false
	}
	return value.Granted()
}
