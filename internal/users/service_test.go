package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
)

type stubUsersRepo struct {
	users    map[int64]*models.User
	referred map[int64]int64
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{users: map[int64]*models.User{}, referred: map[int64]int64{}}
}

func (s *stubUsersRepo) FindByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	u, ok := s.users[chatID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUsersRepo) Create(ctx context.Context, user *models.User) error {
	s.users[user.ChatID] = user
	if user.ReferrerChatID != nil {
		s.referred[*user.ReferrerChatID]++
	}
	return nil
}

func (s *stubUsersRepo) UpdateUsername(ctx context.Context, chatID int64, username *string) error {
	if u, ok := s.users[chatID]; ok {
		u.Username = username
	}
	return nil
}

func (s *stubUsersRepo) CountReferrals(ctx context.Context, referrerChatID int64) (int64, error) {
	return s.referred[referrerChatID], nil
}

func (s *stubUsersRepo) ListChatIDs(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func newUsersService(t *testing.T, repo *stubUsersRepo, cap int) *Service {
	t.Helper()
	svc, err := NewService(repo, config.ReferralConfig{Cap: cap})
	require.NoError(t, err)
	return svc
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func TestRegisterAttributesReferrerUnderCap(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newUsersService(t, repo, 2)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterInput{ChatID: 10, Username: strPtr("a"), ReferrerChatID: int64Ptr(1)}))
	require.NoError(t, svc.Register(ctx, RegisterInput{ChatID: 11, ReferrerChatID: int64Ptr(1)}))
	require.NoError(t, svc.Register(ctx, RegisterInput{ChatID: 12, ReferrerChatID: int64Ptr(1)}))

	assert.NotNil(t, repo.users[10].ReferrerChatID)
	assert.NotNil(t, repo.users[11].ReferrerChatID)
	assert.Nil(t, repo.users[12].ReferrerChatID, "cap reached, attribution must be dropped")
}

func TestRegisterIgnoresSelfReferral(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newUsersService(t, repo, 40)

	require.NoError(t, svc.Register(context.Background(), RegisterInput{ChatID: 5, ReferrerChatID: int64Ptr(5)}))
	assert.Nil(t, repo.users[5].ReferrerChatID)
}

func TestRegisterTwiceOnlyRefreshesUsername(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newUsersService(t, repo, 40)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterInput{ChatID: 7, Username: strPtr("old")}))
	require.NoError(t, svc.Register(ctx, RegisterInput{ChatID: 7, Username: strPtr("new"), ReferrerChatID: int64Ptr(1)}))

	require.Len(t, repo.users, 1)
	assert.Equal(t, "new", *repo.users[7].Username)
	assert.Nil(t, repo.users[7].ReferrerChatID, "referral never applies retroactively")
}

func TestStatsReturnsCap(t *testing.T) {
	repo := newStubUsersRepo()
	repo.referred[9] = 3
	svc := newUsersService(t, repo, 40)

	stats, err := svc.Stats(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, 40, stats.Cap)
}
