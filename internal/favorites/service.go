package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
)

type repository interface {
	Find(ctx context.Context, userChatID int64, productID uuid.UUID) (*models.FavoriteItem, error)
	Create(ctx context.Context, item *models.FavoriteItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userChatID int64) ([]models.FavoriteItem, error)
}

// Service manages the per-user favorites list.
type Service struct {
	repo repository
}

// NewService wires the favorites service.
func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	return &Service{repo: repo}, nil
}

// Toggle stars the product if absent and unstars it otherwise. It reports
// whether the product ended up starred.
func (s *Service) Toggle(ctx context.Context, userChatID int64, productID uuid.UUID) (bool, error) {
	existing, err := s.repo.Find(ctx, userChatID, productID)
	if err == nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorite")
	}

	item := &models.FavoriteItem{UserChatID: userChatID, ProductID: productID}
	if err := s.repo.Create(ctx, item); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return true, nil
}

// List returns the user's favorites with products preloaded, newest first.
func (s *Service) List(ctx context.Context, userChatID int64) ([]models.FavoriteItem, error) {
	items, err := s.repo.ListByUser(ctx, userChatID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return items, nil
}
