package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/pagination"
)

func newCatalogService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(NewRepository(openTestDB(t)))
	require.NoError(t, err)
	return svc
}

func TestImportPostCreatesCategoryOnce(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	first, err := svc.ImportPost(ctx, "Худи Ink\n2500₽\n#худи", []string{"file-1"})
	require.NoError(t, err)
	second, err := svc.ImportPost(ctx, "Худи Drop\n2900₽\n#ХУДИ", nil)
	require.NoError(t, err)

	assert.Equal(t, first.CategoryID, second.CategoryID, "same slug must reuse the category")

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "худи", categories[0].Slug)
}

func TestProductsNewestFirst(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	older, err := svc.ImportPost(ctx, "Первый\n100₽\n#тест", nil)
	require.NoError(t, err)
	newer, err := svc.ImportPost(ctx, "Второй\n200₽\n#тест", nil)
	require.NoError(t, err)

	products, err := svc.Products(ctx, older.CategoryID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, newer.ID, products[0].ID)
}

func TestFindLoadsCategory(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.ImportPost(ctx, "Шапка\n700₽\n#шапки", []string{"photo"})
	require.NoError(t, err)

	found, err := svc.Find(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Category)
	assert.Equal(t, "шапки", found.Category.Name)
	assert.Equal(t, []string{"photo"}, found.PhotoFileIDs)
	assert.Equal(t, 70000, found.PriceCents)
}

func TestSearchMatchesSubstring(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.ImportPost(ctx, "Худи Inko Black\n3000₽\n#худи", nil)
	require.NoError(t, err)
	_, err = svc.ImportPost(ctx, "Футболка белая\n1200₽\n#футболки", nil)
	require.NoError(t, err)

	found, err := svc.Search(ctx, "inko")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Худи Inko Black", found[0].Title)

	_, err = svc.Search(ctx, "")
	assert.Error(t, err)
}

func TestValidSize(t *testing.T) {
	assert.True(t, ValidSize("M"))
	assert.False(t, ValidSize("XXL"))
	assert.False(t, ValidSize("m"))
}

func TestProductsPageCursorsThroughCategory(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	var categoryID uuid.UUID
	for i := 0; i < 5; i++ {
		product, err := svc.ImportPost(ctx, fmt.Sprintf("Товар %d\n100₽\n#дроп", i), nil)
		require.NoError(t, err)
		categoryID = product.CategoryID
	}

	first, err := svc.ProductsPage(ctx, categoryID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.ProductsPage(ctx, categoryID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Products, 2)
	require.NotEmpty(t, second.NextCursor)

	last, err := svc.ProductsPage(ctx, categoryID, pagination.Params{Limit: 2, Cursor: second.NextCursor})
	require.NoError(t, err)
	require.Len(t, last.Products, 1)
	assert.Empty(t, last.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, page := range [][]models.Product{first.Products, second.Products, last.Products} {
		for _, p := range page {
			assert.False(t, seen[p.ID], "pages must not overlap")
			seen[p.ID] = true
		}
	}

	_, err = svc.ProductsPage(ctx, categoryID, pagination.Params{Cursor: "not-a-cursor"})
	assert.Error(t, err)
}
