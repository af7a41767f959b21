package favorites

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

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Category{}, &models.Product{}, &models.FavoriteItem{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, title string) *models.Product {
	t.Helper()
	category := &models.Category{Name: "Тест", Slug: "тест"}
	if err := conn.FirstOrCreate(category, models.Category{Slug: "тест"}).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	product := &models.Product{CategoryID: category.ID, Title: title, PriceCents: 100000}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestToggleFlipsState(t *testing.T) {
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	ctx := context.Background()
	product := seedProduct(t, conn, "Худи")

	starred, err := svc.Toggle(ctx, 1, product.ID)
	require.NoError(t, err)
	assert.True(t, starred)

	starred, err = svc.Toggle(ctx, 1, product.ID)
	require.NoError(t, err)
	assert.False(t, starred)

	items, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListPreloadsProducts(t *testing.T) {
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	ctx := context.Background()
	product := seedProduct(t, conn, "Футболка")

	_, err = svc.Toggle(ctx, 2, product.ID)
	require.NoError(t, err)

	items, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Футболка", items[0].Product.Title)
}
