package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trinetra-labs/credentials-backend/internal/dto"
	"github.com/trinetra-labs/credentials-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fakeBillingRepo is an in-memory BillingRepository for service tests.
type fakeBillingRepo struct {
	plans        []models.PricingPlan
	promoCodes   map[string]*models.PromoCode
	transactions map[uuid.UUID]*models.PaymentTransaction

	createdTxs  []*models.PaymentTransaction
	grantedSubs []*models.UserSubscription
	bumpedCodes []string
	captured    []uuid.UUID
}

func newFakeBillingRepo() *fakeBillingRepo {
	return &fakeBillingRepo{
		promoCodes:   make(map[string]*models.PromoCode),
		transactions: make(map[uuid.UUID]*models.PaymentTransaction),
	}
}

func (f *fakeBillingRepo) ActivePlans(planType string) ([]models.PricingPlan, error) {
	var out []models.PricingPlan
	for _, p := range f.plans {
		if p.Active && p.PlanType == planType {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) PlanByID(id uuid.UUID) (*models.PricingPlan, error) {
	for i := range f.plans {
		if f.plans[i].ID == id {
			return &f.plans[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBillingRepo) ActivePromoCode(code string) (*models.PromoCode, error) {
	pc, ok := f.promoCodes[code]
	if !ok || !pc.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return pc, nil
}

func (f *fakeBillingRepo) CreatePromoCode(pc *models.PromoCode) error {
	f.promoCodes[pc.Code] = pc
	return nil
}

func (f *fakeBillingRepo) ListPromoCodes() ([]models.PromoCode, error) {
	var out []models.PromoCode
	for _, pc := range f.promoCodes {
		out = append(out, *pc)
	}
	return out, nil
}

func (f *fakeBillingRepo) DeactivatePromoCode(code string) error {
	pc, ok := f.promoCodes[code]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	pc.Active = false
	return nil
}

func (f *fakeBillingRepo) CreateTransaction(txRow *models.PaymentTransaction) error {
	f.createdTxs = append(f.createdTxs, txRow)
	f.transactions[txRow.ID] = txRow
	return nil
}

func (f *fakeBillingRepo) TransactionByID(id uuid.UUID) (*models.PaymentTransaction, error) {
	txRow, ok := f.transactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return txRow, nil
}

func (f *fakeBillingRepo) TransactionsByWallet(wallet string) ([]models.PaymentTransaction, error) {
	var out []models.PaymentTransaction
	for _, txRow := range f.transactions {
		if txRow.WalletAddress == wallet {
			out = append(out, *txRow)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) GrantAccess(txRow *models.PaymentTransaction, sub *models.UserSubscription, promoCode string) error {
	f.createdTxs = append(f.createdTxs, txRow)
	f.transactions[txRow.ID] = txRow
	if promoCode != "" {
		f.bumpedCodes = append(f.bumpedCodes, promoCode)
		if pc, ok := f.promoCodes[promoCode]; ok {
			pc.CurrentUses++
		}
	}
	sub.TransactionID = txRow.ID
	f.grantedSubs = append(f.grantedSubs, sub)
	return nil
}

func (f *fakeBillingRepo) CapturePayment(txID uuid.UUID, completedAt time.Time, sub *models.UserSubscription) error {
	txRow, ok := f.transactions[txID]
	if !ok || txRow.Status != models.TransactionPending {
		return gorm.ErrRecordNotFound
	}
	txRow.Status = models.TransactionCompleted
	txRow.CompletedAt = &completedAt
	f.captured = append(f.captured, txID)
	f.grantedSubs = append(f.grantedSubs, sub)
	return nil
}

func testPlan(price float64) *models.PricingPlan {
	return &models.PricingPlan{
		ID:       uuid.New(),
		PlanType: models.UserTypeInstitution,
		Name:     "Institution Pro",
		Price:    price,
		Currency: "USD",
		Active:   true,
	}
}

func promoFor(code string, userTypes ...string) *models.PromoCode {
	applicable := []byte(`["institution"]`)
	if len(userTypes) > 0 {
		applicable = []byte(`["` + userTypes[0] + `"]`)
	}
	return &models.PromoCode{
		ID:           uuid.New(),
		Code:         code,
		DiscountType: models.DiscountPercentage,
		ApplicableTo: datatypes.JSON(applicable),
		Active:       true,
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE20", NormalizeCode("  save20 "))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestFinalAmount(t *testing.T) {
	assert.Equal(t, 70.0, FinalAmount(100, 30))
	assert.Equal(t, 0.0, FinalAmount(100, 100))
	assert.Equal(t, 0.0, FinalAmount(100, 150))
}

func TestValidatePromoCode_BlankIsValid(t *testing.T) {
	svc := NewBillingService(newFakeBillingRepo(), "TRINETRA")

	result, err := svc.ValidatePromoCode("  ", testPlan(100), models.UserTypeInstitution)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 0.0, result.DiscountAmount)
	assert.Empty(t, result.Reason)
}

func TestValidatePromoCode_UnknownCode(t *testing.T) {
	svc := NewBillingService(newFakeBillingRepo(), "TRINETRA")

	result, err := svc.ValidatePromoCode("NOPE", testPlan(100), models.UserTypeInstitution)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidCode, result.Reason)
}

func TestValidatePromoCode_ExpiredBeatsUsageLimit(t *testing.T) {
	repo := newFakeBillingRepo()
	past := time.Now().Add(-time.Hour)
	maxUses := 1
	pc := promoFor("OLD")
	pc.ValidUntil = &past
	pc.MaxUses = &maxUses
	pc.CurrentUses = 5
	repo.promoCodes["OLD"] = pc

	svc := NewBillingService(repo, "TRINETRA")
	result, err := svc.ValidatePromoCode("old", testPlan(100), models.UserTypeInstitution)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonCodeExpired, result.Reason)
}

func TestValidatePromoCode_NotYetValid(t *testing.T) {
	repo := newFakeBillingRepo()
	future := time.Now().Add(time.Hour)
	pc := promoFor("SOON")
	pc.ValidFrom = &future
	repo.promoCodes["SOON"] = pc

	svc := NewBillingService(repo, "TRINETRA")
	result, err := svc.ValidatePromoCode("SOON", testPlan(100), models.UserTypeInstitution)
	require.NoError(t, err)
	assert.Equal(t, ReasonCodeExpired, result.Reason)
}

func TestValidatePromoCode_UsageLimitReached(t *testing.T) {
	repo := newFakeBillingRepo()
	maxUses := 10
	pc := promoFor("FULL")
	pc.MaxUses = &maxUses
	pc.CurrentUses = 10
	repo.promoCodes["FULL"] = pc

	svc := NewBillingService(repo, "TRINETRA")
	result, err := svc.ValidatePromoCode("FULL", testPlan(100), models.UserTypeInstitution)
	require.NoError(t, err)
	assert.Equal(t, ReasonUsageLimit, result.Reason)
}

func TestValidatePromoCode_WrongAccountType(t *testing.T) {
	repo := newFakeBillingRepo()
	repo.promoCodes["EMP10"] = promoFor("EMP10", models.UserTypeEmployer)

	svc := NewBillingService(repo, "TRINETRA")
	result, err := svc.ValidatePromoCode("EMP10", testPlan(100), models.UserTypeInstitution)
	require.NoError(t, err)
	assert.Equal(t, ReasonNotApplicable, result.Reason)
}

func TestValidatePromoCode_PercentageDiscount(t *testing.T) {
	repo := newFakeBillingRepo()
	pc := promoFor("SAVE25")
	pc.DiscountValue = 25
	repo.promoCodes["SAVE25"] = pc

	svc := NewBillingService(repo, "TRINETRA")
	result, err := svc.ValidatePromoCode("SAVE25", testPlan(200), models.UserTypeInstitution)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 50.0, result.DiscountAmount)
}

func TestValidatePromoCode_FixedDiscount(t *testing.T) {
	repo := newFakeBillingRepo()
	pc := promoFor("MINUS30")
	pc.DiscountType = models.DiscountFixed
	pc.DiscountValue = 30
	repo.promoCodes["MINUS30"] = pc

	svc := NewBillingService(repo, "TRINETRA")
	result, err := svc.ValidatePromoCode("MINUS30", testPlan(100), models.UserTypeInstitution)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 30.0, result.DiscountAmount)
}

func TestCheckout_ZeroFinalGrantsImmediately(t *testing.T) {
	repo := newFakeBillingRepo()
	pc := promoFor("FREE100")
	pc.DiscountValue = 100
	repo.promoCodes["FREE100"] = pc

	svc := NewBillingService(repo, "TRINETRA")
	plan := testPlan(100)
	before := time.Now()

	txRow, err := svc.Checkout("0xabc", models.UserTypeInstitution, plan, "FREE100", 100)
	require.NoError(t, err)

	assert.Equal(t, models.TransactionCompleted, txRow.Status)
	require.NotNil(t, txRow.CompletedAt)
	assert.Equal(t, 0.0, txRow.FinalAmount)
	require.NotNil(t, txRow.PromoCode)
	assert.Equal(t, "FREE100", *txRow.PromoCode)

	require.Len(t, repo.grantedSubs, 1)
	sub := repo.grantedSubs[0]
	assert.Equal(t, "0xabc", sub.WalletAddress)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, txRow.ID, sub.TransactionID)
	assert.WithinDuration(t, before.AddDate(1, 0, 0), sub.ExpiresAt, 2*time.Second)

	assert.Equal(t, []string{"FREE100"}, repo.bumpedCodes)
	assert.Equal(t, 1, repo.promoCodes["FREE100"].CurrentUses)
}

func TestCheckout_PaidStaysPending(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewBillingService(repo, "TRINETRA")

	txRow, err := svc.Checkout("0xabc", models.UserTypeEmployer, testPlan(100), "", 30)
	require.NoError(t, err)

	assert.Equal(t, models.TransactionPending, txRow.Status)
	assert.Nil(t, txRow.CompletedAt)
	assert.Nil(t, txRow.PromoCode)
	assert.Equal(t, 70.0, txRow.FinalAmount)
	assert.Empty(t, repo.grantedSubs)
	assert.Empty(t, repo.bumpedCodes)
}

func TestCheckout_FreeAccessCodeGrantsRegardlessOfAmount(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewBillingService(repo, "trinetra")

	txRow, err := svc.Checkout("0xabc", models.UserTypeInstitution, testPlan(100), "TRINETRA", 0)
	require.NoError(t, err)

	require.Len(t, repo.grantedSubs, 1)
	assert.Equal(t, []string{"TRINETRA"}, repo.bumpedCodes)
	assert.Equal(t, 100.0, txRow.FinalAmount)
}

func TestCapturePayment(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewBillingService(repo, "TRINETRA")
	plan := testPlan(100)

	txRow, err := svc.Checkout("0xdef", models.UserTypeEmployer, plan, "", 0)
	require.NoError(t, err)
	require.Equal(t, models.TransactionPending, txRow.Status)

	event := &dto.PaymentCaptureEvent{TransactionID: txRow.ID, Provider: "stripe"}
	require.NoError(t, svc.CapturePayment(event))

	assert.Equal(t, models.TransactionCompleted, txRow.Status)
	require.Len(t, repo.grantedSubs, 1)
	assert.Equal(t, "0xdef", repo.grantedSubs[0].WalletAddress)

	// Provider retries must not grant twice.
	err = svc.CapturePayment(event)
	assert.ErrorIs(t, err, ErrAlreadyCaptured)
	assert.Len(t, repo.grantedSubs, 1)
}

func TestCapturePayment_UnknownTransaction(t *testing.T) {
	svc := NewBillingService(newFakeBillingRepo(), "TRINETRA")

	err := svc.CapturePayment(&dto.PaymentCaptureEvent{TransactionID: uuid.New()})
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestCreatePromoCode_Duplicate(t *testing.T) {
	repo := newFakeBillingRepo()
	repo.promoCodes["SAVE20"] = promoFor("SAVE20")

	svc := NewBillingService(repo, "TRINETRA")
	_, err := svc.CreatePromoCode(&dto.CreatePromoCodeRequest{
		Code:          "save20",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 20,
		ApplicableTo:  []string{models.UserTypeInstitution},
	})
	assert.ErrorIs(t, err, ErrPromoCodeExists)
}

func TestCreatePromoCode_StoresNormalized(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewBillingService(repo, "TRINETRA")

	pc, err := svc.CreatePromoCode(&dto.CreatePromoCodeRequest{
		Code:          " welcome10 ",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		ApplicableTo:  []string{models.UserTypeInstitution, models.UserTypeEmployer},
	})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", pc.Code)
	assert.True(t, pc.Active)
	assert.True(t, pc.AppliesTo(models.UserTypeEmployer))
	assert.False(t, pc.AppliesTo(models.UserTypeStudent))
}

func TestDeactivatePromoCode(t *testing.T) {
	repo := newFakeBillingRepo()
	repo.promoCodes["SAVE20"] = promoFor("SAVE20")

	svc := NewBillingService(repo, "TRINETRA")
	require.NoError(t, svc.DeactivatePromoCode("save20"))
	assert.False(t, repo.promoCodes["SAVE20"].Active)

	assert.ErrorIs(t, svc.DeactivatePromoCode("GONE"), ErrPromoCodeNotFound)
}
