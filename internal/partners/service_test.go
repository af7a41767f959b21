package partners

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Partner{}, &models.PartnerRequest{}, &models.PromoCode{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func newPartnersService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn), config.PromoConfig{
		MaxPercent:             25,
		PartnerDiscountPercent: 5,
		PartnerCommissionPct:   5,
	})
	require.NoError(t, err)
	return svc, conn
}

func strPtr(s string) *string { return &s }

func TestApplyThenApproveIssuesSharedCode(t *testing.T) {
	svc, conn := newPartnersService(t)
	ctx := context.Background()

	outcome, err := svc.Apply(ctx, 10, strPtr("inko_fan"))
	require.NoError(t, err)
	assert.Equal(t, ApplySubmitted, outcome)

	outcome, err = svc.Apply(ctx, 10, strPtr("inko_fan"))
	require.NoError(t, err)
	assert.Equal(t, ApplyAlreadyPending, outcome)

	approval, err := svc.Approve(ctx, 10, strPtr("inko_fan"))
	require.NoError(t, err)
	assert.Equal(t, "INKOFAN", approval.Code)
	assert.Equal(t, 5, approval.DiscountPercent)
	assert.Equal(t, 5, approval.CommissionPercent)

	var promo models.PromoCode
	require.NoError(t, conn.First(&promo, "code = ?", "INKOFAN").Error)
	assert.Equal(t, 5, promo.DiscountPercent)
	assert.Zero(t, promo.MaxUses, "partner shadow code is unlimited")

	partner, err := svc.ByCode(ctx, "inkofan")
	require.NoError(t, err)
	assert.Equal(t, int64(10), partner.UserChatID)

	request := &models.PartnerRequest{}
	require.NoError(t, conn.First(request, "user_chat_id = ?", int64(10)).Error)
	assert.Equal(t, enums.PartnerRequestStatusApproved, request.Status)
	assert.NotNil(t, request.DecidedAt)
}

func TestApplyWhenAlreadyActivePartner(t *testing.T) {
	svc, conn := newPartnersService(t)
	ctx := context.Background()
	require.NoError(t, conn.Create(&models.Partner{
		UserChatID: 20, Code: "OLD", DiscountPercent: 5, CommissionPercent: 5, IsActive: true,
	}).Error)

	outcome, err := svc.Apply(ctx, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, ApplyAlreadyPartner, outcome)
}

func TestApproveUniquifiesAgainstTakenCodes(t *testing.T) {
	svc, conn := newPartnersService(t)
	ctx := context.Background()
	require.NoError(t, conn.Create(&models.PromoCode{Code: "INKOFAN", DiscountPercent: 10}).Error)

	approval, err := svc.Approve(ctx, 30, strPtr("Inko-Fan!"))
	require.NoError(t, err)
	assert.Equal(t, "INKOFAN1", approval.Code)
}

func TestApproveWithoutUsernameFallsBackToChatID(t *testing.T) {
	svc, _ := newPartnersService(t)

	approval, err := svc.Approve(context.Background(), 987, nil)
	require.NoError(t, err)
	assert.Equal(t, "USER987", approval.Code)
}

func TestCreditAccumulatesTotals(t *testing.T) {
	svc, conn := newPartnersService(t)
	ctx := context.Background()
	require.NoError(t, conn.Create(&models.Partner{
		UserChatID: 40, Code: "P40", DiscountPercent: 5, CommissionPercent: 5, IsActive: true,
	}).Error)

	require.NoError(t, svc.Credit(ctx, 40, 9000, 180000))
	require.NoError(t, svc.Credit(ctx, 40, 4500, 90000))

	partner, err := svc.Profile(ctx, 40)
	require.NoError(t, err)
	assert.Equal(t, 13500, partner.BalanceCents)
	assert.Equal(t, 13500, partner.TotalEarnedCents)
	assert.Equal(t, 270000, partner.TotalSalesCents)
	assert.Equal(t, 2, partner.ConfirmedUses)
}

func TestRejectLeavesNoPartnerBehind(t *testing.T) {
	svc, conn := newPartnersService(t)
	ctx := context.Background()

	_, err := svc.Apply(ctx, 50, strPtr("someone"))
	require.NoError(t, err)
	require.NoError(t, svc.Reject(ctx, 50))

	request := &models.PartnerRequest{}
	require.NoError(t, conn.First(request, "user_chat_id = ?", int64(50)).Error)
	assert.Equal(t, enums.PartnerRequestStatusRejected, request.Status)

	var count int64
	require.NoError(t, conn.Model(&models.Partner{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeactivateHidesCodeFromLookup(t *testing.T) {
	svc, conn := newPartnersService(t)
	ctx := context.Background()
	require.NoError(t, conn.Create(&models.Partner{
		UserChatID: 60, Code: "GONE", DiscountPercent: 5, CommissionPercent: 5, IsActive: true,
	}).Error)

	require.NoError(t, svc.Deactivate(ctx, 60))
	_, err := svc.ByCode(ctx, "GONE")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
