package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
)

// RegisterInput captures the identity delivered by the chat transport on /start.
type RegisterInput struct {
	ChatID         int64
	Username       *string
	ReferrerChatID *int64
}

// ReferralStats pairs the attributed referral count with the configured cap.
type ReferralStats struct {
	Count int64
	Cap   int
}

type repository interface {
	FindByChatID(ctx context.Context, chatID int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateUsername(ctx context.Context, chatID int64, username *string) error
	CountReferrals(ctx context.Context, referrerChatID int64) (int64, error)
	ListChatIDs(ctx context.Context) ([]int64, error)
}

// Service manages shopper registration and the referral program.
type Service struct {
	repo repository
	cfg  config.ReferralConfig
}

// NewService wires the users service.
func NewService(repo repository, cfg config.ReferralConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &Service{repo: repo, cfg: cfg}, nil
}

// Register creates the user on first contact. Referral attribution only sticks
// when the referrer is someone else and still has capacity; a repeat /start just
// refreshes the username.
func (s *Service) Register(ctx context.Context, input RegisterInput) error {
	if input.ChatID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "chat id required")
	}

	_, err := s.repo.FindByChatID(ctx, input.ChatID)
	if err == nil {
		if err := s.repo.UpdateUsername(ctx, input.ChatID, input.Username); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh username")
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	var referrer *int64
	if input.ReferrerChatID != nil && *input.ReferrerChatID != input.ChatID {
		count, err := s.repo.CountReferrals(ctx, *input.ReferrerChatID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count referrals")
		}
		if count < int64(s.cfg.Cap) {
			referrer = input.ReferrerChatID
		}
	}

	user := &models.User{
		ChatID:         input.ChatID,
		Username:       input.Username,
		ReferrerChatID: referrer,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return nil
}

// Stats returns the referral count and cap for the profile view.
func (s *Service) Stats(ctx context.Context, chatID int64) (ReferralStats, error) {
	count, err := s.repo.CountReferrals(ctx, chatID)
	if err != nil {
		return ReferralStats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count referrals")
	}
	return ReferralStats{Count: count, Cap: s.cfg.Cap}, nil
}

// BroadcastTargets lists every known chat id for the admin broadcast.
func (s *Service) BroadcastTargets(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.ListChatIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list chat ids")
	}
	return ids, nil
}
