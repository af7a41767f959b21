package partners

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
)

var nonAlnumRe = regexp.MustCompile(`[^A-Z0-9]`)

type repository interface {
	ByCode(ctx context.Context, code string) (*models.Partner, error)
	FindByChatID(ctx context.Context, chatID int64) (*models.Partner, error)
	UpsertPartner(ctx context.Context, partner *models.Partner) error
	CreateShadowCode(ctx context.Context, code string, discountPercent int) error
	Credit(ctx context.Context, chatID int64, commissionCents, saleCents int) error
	SetActive(ctx context.Context, chatID int64, active bool) error
	FindRequest(ctx context.Context, chatID int64) (*models.PartnerRequest, error)
	UpsertRequest(ctx context.Context, chatID int64, username *string, status enums.PartnerRequestStatus, decidedAt *time.Time) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Service runs the partner program: applications, approval with code issuance,
// and commission crediting.
type Service struct {
	repo repository
	cfg  config.PromoConfig
	now  func() time.Time
}

// NewService wires the partners service.
func NewService(repo repository, cfg config.PromoConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("partners repository required")
	}
	return &Service{repo: repo, cfg: cfg, now: time.Now}, nil
}

// ByCode resolves an active partner by code, normalized.
func (s *Service) ByCode(ctx context.Context, code string) (*models.Partner, error) {
	return s.repo.ByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// Profile loads the partner account for the profile view. Missing accounts
// resolve to a NotFound error.
func (s *Service) Profile(ctx context.Context, chatID int64) (*models.Partner, error) {
	partner, err := s.repo.FindByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}
	return partner, nil
}

// ApplyOutcome tells the caller what the application attempt did.
type ApplyOutcome int

const (
	// ApplySubmitted means a fresh pending application went to the admin.
	ApplySubmitted ApplyOutcome = iota
	// ApplyAlreadyPending means an application is still waiting.
	ApplyAlreadyPending
	// ApplyAlreadyPartner means the user already holds an active code.
	ApplyAlreadyPartner
)

// Apply files a partner application unless the user is already an active
// partner or has one pending.
func (s *Service) Apply(ctx context.Context, chatID int64, username *string) (ApplyOutcome, error) {
	partner, err := s.repo.FindByChatID(ctx, chatID)
	if err == nil && partner.IsActive {
		return ApplyAlreadyPartner, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}

	request, err := s.repo.FindRequest(ctx, chatID)
	if err == nil && request.Status == enums.PartnerRequestStatusPending {
		return ApplyAlreadyPending, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner request")
	}

	if err := s.repo.UpsertRequest(ctx, chatID, username, enums.PartnerRequestStatusPending, nil); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "file partner request")
	}
	return ApplySubmitted, nil
}

// Approval is what the admin decision hands back for the notifications.
type Approval struct {
	Code              string
	DiscountPercent   int
	CommissionPercent int
}

// Approve grants the partnership: issues a unique code derived from the
// username, creates the shadow promo row sharing that code, activates the
// partner, and marks the application approved.
func (s *Service) Approve(ctx context.Context, chatID int64, username *string) (Approval, error) {
	code, err := s.generateCode(ctx, chatID, username)
	if err != nil {
		return Approval{}, err
	}

	discount := s.cfg.PartnerDiscountPercent
	commission := s.cfg.PartnerCommissionPct

	if err := s.repo.CreateShadowCode(ctx, code, discount); err != nil {
		return Approval{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shadow promo")
	}

	partner := &models.Partner{
		UserChatID:        chatID,
		Username:          username,
		Code:              code,
		DiscountPercent:   discount,
		CommissionPercent: commission,
		IsActive:          true,
	}
	if err := s.repo.UpsertPartner(ctx, partner); err != nil {
		return Approval{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert partner")
	}

	decidedAt := s.now().UTC()
	if err := s.repo.UpsertRequest(ctx, chatID, username, enums.PartnerRequestStatusApproved, &decidedAt); err != nil {
		return Approval{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record approval")
	}
	return Approval{Code: code, DiscountPercent: discount, CommissionPercent: commission}, nil
}

// Reject marks the application rejected without touching any partner account.
func (s *Service) Reject(ctx context.Context, chatID int64) error {
	decidedAt := s.now().UTC()
	if err := s.repo.UpsertRequest(ctx, chatID, nil, enums.PartnerRequestStatusRejected, &decidedAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record rejection")
	}
	return nil
}

// Credit applies a confirmed commission to the partner's running totals.
func (s *Service) Credit(ctx context.Context, chatID int64, commissionCents, saleCents int) error {
	if err := s.repo.Credit(ctx, chatID, commissionCents, saleCents); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit partner")
	}
	return nil
}

// Deactivate turns the partner's code off without erasing history.
func (s *Service) Deactivate(ctx context.Context, chatID int64) error {
	if err := s.repo.SetActive(ctx, chatID, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate partner")
	}
	return nil
}

// generateCode builds the code from the username, falling back to the chat id,
// and uniquifies it against existing promo and partner codes.
func (s *Service) generateCode(ctx context.Context, chatID int64, username *string) (string, error) {
	base := ""
	if username != nil {
		base = nonAlnumRe.ReplaceAllString(strings.ToUpper(*username), "")
	}
	if len(base) > 8 {
		base = base[:8]
	}
	if base == "" {
		base = fmt.Sprintf("USER%d", chatID)
	}

	code := base
	for i := 1; ; i++ {
		taken, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check partner code")
		}
		if !taken {
			return code, nil
		}
		code = fmt.Sprintf("%s%d", base, i)
	}
}
