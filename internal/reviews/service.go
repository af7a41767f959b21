package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
)

// Service takes invited buyers' reviews through moderation and pays the bonus
// promo on approval.
type Service struct {
	repo     *Repository
	promos   *promos.Service
	notifier *notifications.Service
}

// NewService wires the reviews service.
func NewService(repo *Repository, promoSvc *promos.Service, notifier *notifications.Service) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if promoSvc == nil {
		return nil, fmt.Errorf("promo service required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &Service{repo: repo, promos: promoSvc, notifier: notifier}, nil
}

// Invite opens a review invite for the user; an earlier used invite is
// reopened.
func (s *Service) Invite(ctx context.Context, userChatID int64) error {
	if err := s.repo.UpsertInvite(ctx, userChatID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open review invite")
	}
	return nil
}

// CanSubmit reports whether the user holds an unused invite.
func (s *Service) CanSubmit(ctx context.Context, userChatID int64) (bool, error) {
	invite, err := s.repo.FindInvite(ctx, userChatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review invite")
	}
	return !invite.Used, nil
}

// Submit stores the review and closes the invite. Uninvited submissions are
// rejected so the bonus promo cannot be farmed.
func (s *Service) Submit(ctx context.Context, userChatID int64, text string, photoFileIDs []string) (*models.Review, error) {
	ok, err := s.CanSubmit(ctx, userChatID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no open review invite")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		if len(photoFileIDs) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty review")
		}
		text = "Без текста"
	}

	review := &models.Review{
		UserChatID:   userChatID,
		Text:         text,
		PhotoFileIDs: photoFileIDs,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	if err := s.repo.MarkInviteUsed(ctx, userChatID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close review invite")
	}
	return review, nil
}

// Pending lists reviews awaiting moderation, oldest first.
func (s *Service) Pending(ctx context.Context) ([]models.Review, error) {
	list, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending reviews")
	}
	return list, nil
}

// Approved lists published reviews, newest first.
func (s *Service) Approved(ctx context.Context) ([]models.Review, error) {
	list, err := s.repo.ListApproved(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approved reviews")
	}
	return list, nil
}

// Approve publishes the review and thanks the author with a single-use bonus
// promo.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if err := s.repo.Approve(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve review")
	}

	bonus, err := s.promos.CreateReviewBonus(ctx, review.UserChatID, review.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.ReviewBonus(ctx, review.UserChatID, bonus.Code, bonus.DiscountPercent)
	review.IsApproved = true
	return review, nil
}

// Reject drops the review without any bonus.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject review")
	}
	return nil
}
