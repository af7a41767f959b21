package promos

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
)

var codeRe = regexp.MustCompile(`^[A-Z0-9]+$`)

// partnerLookup resolves a code that belongs to a partner rather than a plain
// promo row.
type partnerLookup interface {
	ByCode(ctx context.Context, code string) (*models.Partner, error)
}

// Resolution is the outcome of resolving a promo code string: the capped
// discount and the canonical code. A zero Percent with an empty Code means the
// code did not resolve.
type Resolution struct {
	Percent int
	Code    string
}

// Service resolves, reserves, and confirms promo codes, and keeps the single
// saved selection per user.
type Service struct {
	repo     *Repository
	partners partnerLookup
	cfg      config.PromoConfig
	validate *validator.Validate
}

// NewService wires the promo service.
func NewService(repo *Repository, partners partnerLookup, cfg config.PromoConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promo repository required")
	}
	if partners == nil {
		return nil, fmt.Errorf("partner lookup required")
	}
	return &Service{repo: repo, partners: partners, cfg: cfg, validate: validator.New()}, nil
}

// WithTx returns a service whose counter mutations run on the provided
// transaction. Checkout uses it so the reserve lands in the order transaction.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	clone := *s
	clone.repo = s.repo.WithTx(tx)
	return &clone
}

// Normalize trims and uppercases a raw code entry.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate resolves a raw code without mutating any counter. An unknown or
// exhausted code resolves empty rather than erroring so callers can degrade to
// no discount. Plain promo rows win; a code carried only by an active partner
// resolves to the partner's buyer discount.
func (s *Service) Validate(ctx context.Context, code string) (Resolution, error) {
	code = Normalize(code)
	if code == "" {
		return Resolution{}, nil
	}

	promo, err := s.repo.FindCode(ctx, code)
	switch {
	case err == nil:
		if promo.MaxUses > 0 && promo.Used >= promo.MaxUses {
			return Resolution{}, nil
		}
		return Resolution{Percent: s.cap(promo.DiscountPercent), Code: code}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to partner lookup
	default:
		return Resolution{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo code")
	}

	partner, err := s.partners.ByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Resolution{}, nil
		}
		return Resolution{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner code")
	}
	return Resolution{Percent: s.cap(partner.DiscountPercent), Code: code}, nil
}

// Reserve resolves the code and takes an optimistic use against its cap. A
// partner-only code grants the discount without a counter to move. Codes that
// fail to resolve return the zero Resolution.
func (s *Service) Reserve(ctx context.Context, code string) (Resolution, error) {
	res, err := s.Validate(ctx, code)
	if err != nil || res.Code == "" || res.Percent <= 0 {
		return Resolution{}, err
	}

	_, findErr := s.repo.FindCode(ctx, res.Code)
	switch {
	case findErr == nil:
		if err := s.repo.IncrementUsed(ctx, res.Code); err != nil {
			return Resolution{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve promo use")
		}
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		// partner-only code, nothing to count
	default:
		return Resolution{}, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load promo code")
	}
	return res, nil
}

// Confirm counts a confirmed purchase against the code. Unknown codes are a
// no-op.
func (s *Service) Confirm(ctx context.Context, code string) error {
	code = Normalize(code)
	if code == "" {
		return nil
	}
	if err := s.repo.IncrementConfirmed(ctx, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm promo use")
	}
	return nil
}

// SetUserPromo validates a raw entry and saves it as the user's selection,
// replacing any previous one.
func (s *Service) SetUserPromo(ctx context.Context, userChatID int64, raw string) (Resolution, error) {
	res, err := s.Validate(ctx, raw)
	if err != nil {
		return Resolution{}, err
	}
	if res.Code == "" {
		return Resolution{}, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found or exhausted")
	}
	if err := s.repo.UpsertUserPromo(ctx, userChatID, res.Code, res.Percent); err != nil {
		return Resolution{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user promo")
	}
	return res, nil
}

// UserPromo returns the user's saved selection, zero when none is saved.
func (s *Service) UserPromo(ctx context.Context, userChatID int64) (Resolution, error) {
	selection, err := s.repo.FindUserPromo(ctx, userChatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Resolution{}, nil
		}
		return Resolution{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user promo")
	}
	return Resolution{Percent: selection.DiscountPercent, Code: selection.Code}, nil
}

// ClearUserPromo drops the user's saved selection.
func (s *Service) ClearUserPromo(ctx context.Context, userChatID int64) error {
	if err := s.repo.DeleteUserPromo(ctx, userChatID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear user promo")
	}
	return nil
}

// CreateCodeInput is the admin payload for a new promo code. MaxUses zero
// means unlimited.
type CreateCodeInput struct {
	Code            string `validate:"required,min=2,max=32"`
	DiscountPercent int    `validate:"gt=0,lte=100"`
	MaxUses         int    `validate:"gte=0"`
}

// Create registers a new admin-issued promo code.
func (s *Service) Create(ctx context.Context, input CreateCodeInput) (*models.PromoCode, error) {
	input.Code = Normalize(input.Code)
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promo code input")
	}
	if !codeRe.MatchString(input.Code) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code must be letters and digits only")
	}

	taken, err := s.repo.CodeTaken(ctx, input.Code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check code")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "code already exists")
	}

	promo := &models.PromoCode{
		Code:            input.Code,
		DiscountPercent: input.DiscountPercent,
		MaxUses:         input.MaxUses,
	}
	if err := s.repo.CreateCode(ctx, promo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promo code")
	}
	return promo, nil
}

// CreateReviewBonus issues a single-use thank-you code for an approved review.
// The code is derived from the review and chat ids and uniquified against both
// promo and partner codes.
func (s *Service) CreateReviewBonus(ctx context.Context, userChatID int64, reviewID uuid.UUID) (*models.PromoCode, error) {
	chat := fmt.Sprintf("%d", userChatID)
	if len(chat) > 4 {
		chat = chat[len(chat)-4:]
	}
	base := strings.ToUpper(fmt.Sprintf("REV%s%s", strings.ReplaceAll(reviewID.String()[:4], "-", ""), chat))

	code := base
	for i := 1; ; i++ {
		taken, err := s.repo.CodeTaken(ctx, code)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check code")
		}
		if !taken {
			break
		}
		code = fmt.Sprintf("%s%d", base, i)
	}

	promo := &models.PromoCode{
		Code:            code,
		DiscountPercent: s.cfg.ReviewBonusPercent,
		MaxUses:         1,
	}
	if err := s.repo.CreateCode(ctx, promo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review bonus")
	}
	return promo, nil
}

// List returns every promo code for the admin panel.
func (s *Service) List(ctx context.Context) ([]models.PromoCode, error) {
	codes, err := s.repo.ListCodes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promo codes")
	}
	return codes, nil
}

// Delete removes a promo code.
func (s *Service) Delete(ctx context.Context, code string) error {
	if err := s.repo.DeleteCode(ctx, Normalize(code)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete promo code")
	}
	return nil
}

func (s *Service) cap(percent int) int {
	if percent > s.cfg.MaxPercent {
		return s.cfg.MaxPercent
	}
	if percent < 0 {
		return 0
	}
	return percent
}
