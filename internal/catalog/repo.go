package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/pagination"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// EnsureCategory finds the category by slug, creating it on first use.
func (r *Repository) EnsureCategory(ctx context.Context, name string) (*models.Category, error) {
	slug := strings.ToLower(strings.TrimSpace(name))
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	category = models.Category{Name: strings.TrimSpace(name), Slug: slug}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindCategoryBySlug loads one category by its slug.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", strings.ToLower(slug)).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateProduct persists a new catalog entry.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindProduct loads the product with its category.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByCategoryPage returns one cursor page of category products, newest
// first. Callers ask for one extra row to detect whether another page exists.
func (r *Repository) ListByCategoryPage(ctx context.Context, categoryID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListByCategory returns category products, newest first.
func (r *Repository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Find(&products).
		Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// SearchByTitle matches products whose title contains the query, newest first.
func (r *Repository) SearchByTitle(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(query))+"%").
		Order("created_at DESC").
		Find(&products).
		Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// DeleteProduct removes the product row.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
