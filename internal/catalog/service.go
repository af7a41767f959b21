package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/pagination"
)

// Sizes is the fixed apparel size ladder offered for every product.
var Sizes = []string{"XS", "S", "M", "L", "XL"}

// ValidSize reports whether the size belongs to the fixed ladder.
func ValidSize(size string) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

type repository interface {
	EnsureCategory(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
	ListByCategoryPage(ctx context.Context, categoryID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Product, error)
	SearchByTitle(ctx context.Context, query string) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// Service manages the product catalog fed by forwarded channel posts.
type Service struct {
	repo     repository
	validate *validator.Validate
}

// NewService wires the catalog service.
func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Service{repo: repo, validate: validator.New()}, nil
}

// ImportPost parses a forwarded channel post into a product and stores it under
// the category named by its hashtag, creating the category on first use.
func (s *Service) ImportPost(ctx context.Context, caption string, photoFileIDs []string) (*models.Product, error) {
	draft := ParseCaption(caption)
	draft.PhotoFileIDs = photoFileIDs
	if err := s.validate.Struct(draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product caption")
	}

	category, err := s.repo.EnsureCategory(ctx, draft.Category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure category")
	}

	product := &models.Product{
		CategoryID:   category.ID,
		Title:        draft.Title,
		Description:  draft.Description,
		PriceCents:   draft.PriceCents,
		IsPreorder:   draft.IsPreorder,
		PhotoFileIDs: photoFileIDs,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	product.Category = category
	return product, nil
}

// Categories lists every category for the section menus.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

// Products returns the category feed, newest first.
func (s *Service) Products(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	products, err := s.repo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// ProductPage is one cursor page of the web storefront feed.
type ProductPage struct {
	Products   []models.Product
	NextCursor string
}

// ProductsPage returns a cursor page of the category feed for the HTTP
// storefront. The bot paginates one product at a time instead.
func (s *Service) ProductsPage(ctx context.Context, categoryID uuid.UUID, params pagination.Params) (*ProductPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByCategoryPage(ctx, categoryID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products page")
	}

	page := &ProductPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	page.Products = rows
	return page, nil
}

// Find loads one product with its category.
func (s *Service) Find(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// Search matches catalog titles against a free-text query.
func (s *Service) Search(ctx context.Context, query string) ([]models.Product, error) {
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query required")
	}
	products, err := s.repo.SearchByTitle(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return products, nil
}

// Remove deletes a product from the catalog.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}
