package reviews

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/partners"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
)

type capturingSender struct {
	sent []notifications.Message
}

func (c *capturingSender) Send(ctx context.Context, msg notifications.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func newReviewsService(t *testing.T) (*Service, *gorm.DB, *capturingSender) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Review{}, &models.ReviewInvite{},
		&models.PromoCode{}, &models.UserPromo{}, &models.Partner{},
	))

	log := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	sender := &capturingSender{}
	notifier, err := notifications.NewService(sender, log, nil,
		config.BotConfig{AdminChatID: 999},
		config.AppConfig{Currency: "₽"},
	)
	require.NoError(t, err)

	partnerSvc, err := partners.NewService(partners.NewRepository(conn), config.PromoConfig{})
	require.NoError(t, err)
	promoSvc, err := promos.NewService(promos.NewRepository(conn), partnerSvc, config.PromoConfig{
		MaxPercent: 25, ReviewBonusPercent: 5,
	})
	require.NoError(t, err)

	svc, err := NewService(NewRepository(conn), promoSvc, notifier)
	require.NoError(t, err)
	return svc, conn, sender
}

func TestSubmitRequiresInvite(t *testing.T) {
	svc, _, _ := newReviewsService(t)

	_, err := svc.Submit(context.Background(), 1, "отличное худи", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))
}

func TestSubmitClosesInvite(t *testing.T) {
	svc, _, _ := newReviewsService(t)
	ctx := context.Background()
	require.NoError(t, svc.Invite(ctx, 1))

	review, err := svc.Submit(ctx, 1, "сидит отлично", []string{"photo-1"})
	require.NoError(t, err)
	assert.False(t, review.IsApproved)

	// The invite is one-shot.
	_, err = svc.Submit(ctx, 1, "и ещё раз", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	// Re-inviting reopens it.
	require.NoError(t, svc.Invite(ctx, 1))
	ok, err := svc.CanSubmit(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestApprovePaysBonusPromo(t *testing.T) {
	svc, conn, sender := newReviewsService(t)
	ctx := context.Background()
	require.NoError(t, svc.Invite(ctx, 7))
	review, err := svc.Submit(ctx, 7, "топ качество", nil)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, review.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	var bonus models.PromoCode
	require.NoError(t, conn.First(&bonus).Error)
	assert.Equal(t, 5, bonus.DiscountPercent)
	assert.Equal(t, 1, bonus.MaxUses)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(7), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, bonus.Code)

	published, err := svc.Approved(ctx)
	require.NoError(t, err)
	assert.Len(t, published, 1)
}

func TestRejectDropsReviewWithoutBonus(t *testing.T) {
	svc, conn, sender := newReviewsService(t)
	ctx := context.Background()
	require.NoError(t, svc.Invite(ctx, 8))
	review, err := svc.Submit(ctx, 8, "не понравилось", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, review.ID))

	var reviewCount, promoCount int64
	require.NoError(t, conn.Model(&models.Review{}).Count(&reviewCount).Error)
	require.NoError(t, conn.Model(&models.PromoCode{}).Count(&promoCount).Error)
	assert.Zero(t, reviewCount)
	assert.Zero(t, promoCount)
	assert.Empty(t, sender.sent)
}
