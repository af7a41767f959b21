package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
)

func newSettingsService(t *testing.T) *Service {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Setting{}))

	svc, err := NewService(conn)
	require.NoError(t, err)
	return svc
}

func TestBannerRoundtripAndOverwrite(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	value, err := svc.Banner(ctx, "catalog")
	require.NoError(t, err)
	assert.Empty(t, value, "unset banner reads empty")

	require.NoError(t, svc.SetBanner(ctx, "catalog", "file-1"))
	require.NoError(t, svc.SetBanner(ctx, "catalog", "file-2"))

	value, err = svc.Banner(ctx, "catalog")
	require.NoError(t, err)
	assert.Equal(t, "file-2", value)
}

func TestLogoIsIndependentKey(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetLogo(ctx, "logo-file"))
	require.NoError(t, svc.SetBanner(ctx, "menu", "banner-file"))

	logo, err := svc.Logo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "logo-file", logo)
}
