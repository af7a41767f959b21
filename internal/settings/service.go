package settings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
)

// Service stores presentation settings the admin edits at runtime: section
// banner file ids and the shop logo.
type Service struct {
	db *gorm.DB
}

// NewService wires the settings service.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &Service{db: db}, nil
}

// Get returns the value for the key, empty when unset.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	err := s.db.WithContext(ctx).First(&setting, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	return setting.Value, nil
}

// Set upserts the value for the key.
func (s *Service) Set(ctx context.Context, key, value string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{"value": value}),
		}).
		Create(&models.Setting{Key: key, Value: value}).
		Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting")
	}
	return nil
}

// Banner returns the photo file id shown above the given bot section.
func (s *Service) Banner(ctx context.Context, section string) (string, error) {
	return s.Get(ctx, "banner_"+section)
}

// SetBanner stores the photo file id for the given bot section.
func (s *Service) SetBanner(ctx context.Context, section, fileID string) error {
	return s.Set(ctx, "banner_"+section, fileID)
}

// Logo returns the shop logo file id.
func (s *Service) Logo(ctx context.Context) (string, error) {
	return s.Get(ctx, "logo")
}

// SetLogo stores the shop logo file id.
func (s *Service) SetLogo(ctx context.Context, fileID string) error {
	return s.Set(ctx, "logo", fileID)
}
