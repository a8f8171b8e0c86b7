package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
)

func newMember(email, appID string) *models.Member {
	return &models.Member{
		ApplicationID: appID,
		FirstName:     "Test",
		Email:         email,
		Status:        domain.MemberStatusPending,
		AccessLevel:   domain.AccessLevelBasic,
		PaidStatus:    domain.PaidStatusUnpaid,
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		require.NoError(t, tx.Members().Create(ctx, newMember("a@example.com", "APP-1")))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.Counts().Members)

	err = s.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		return tx.Members().Create(ctx, newMember("a@example.com", "APP-1"))
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Counts().Members)
}

func TestFailOnInjectsOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("disk full")
	s.FailOn("members.Create", boom)

	assert.ErrorIs(t, s.Members().Create(ctx, newMember("a@example.com", "APP-1")), boom)
	assert.NoError(t, s.Members().Create(ctx, newMember("a@example.com", "APP-1")))
}

func TestMemberConstraints(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Members().Create(ctx, newMember("a@example.com", "APP-1")))

	err := s.Members().Create(ctx, newMember("a@example.com", "APP-2"))
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	exists, err := s.Members().EmailExists(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.Members().GetByApplicationID(ctx, "nope")
	assert.ErrorIs(t, err, apperrors.ErrMemberNotFound)
}

func TestMemberUpdateKeepsRewardPoints(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("a@example.com", "APP-1")
	require.NoError(t, s.Members().Create(ctx, m))

	stale := *m
	require.NoError(t, s.Members().IncrementRewardPoints(ctx, m.ID, domain.ReferralRewardPoints))

	stale.FirstName = "Renamed"
	stale.ApplicationID = "APP-OTHER"
	require.NoError(t, s.Members().Update(ctx, &stale))
	assert.Equal(t, domain.ReferralRewardPoints, stale.RewardPoints)

	got, err := s.Members().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.FirstName)
	assert.Equal(t, "APP-1", got.ApplicationID)
	assert.Equal(t, domain.ReferralRewardPoints, got.RewardPoints)
}

func TestMemberDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("a@example.com", "APP-1")
	require.NoError(t, s.Members().Create(ctx, m))
	require.NoError(t, s.BusinessProfiles().Create(ctx, &models.BusinessProfile{MemberID: m.ID, BusinessType: domain.BusinessTypeSalary}))
	require.NoError(t, s.Families().Create(ctx, &models.MemberFamily{MemberID: m.ID}))
	require.NoError(t, s.Notifications().Create(ctx, &models.Notification{MemberID: m.ID, Title: "hi"}))

	// notifications restrict the delete
	assert.ErrorIs(t, s.Members().Delete(ctx, m.ID), apperrors.ErrConflict)

	_, err := s.Notifications().DeleteByMemberID(ctx, m.ID)
	require.NoError(t, err)
	require.NoError(t, s.Members().Delete(ctx, m.ID))

	c := s.Counts()
	assert.Zero(t, c.Members)
	assert.Zero(t, c.BusinessProfiles)
	assert.Zero(t, c.Families)
}

func TestCategoryDeleteSetsNull(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("a@example.com", "APP-1")
	require.NoError(t, s.Members().Create(ctx, m))

	cat, err := s.Categories().Ensure(ctx, "Bakery")
	require.NoError(t, err)
	again, err := s.Categories().Ensure(ctx, "Bakery")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, again.ID)

	p := &models.BusinessProfile{MemberID: m.ID, BusinessType: domain.BusinessTypeBusiness, CategoryID: &cat.ID}
	require.NoError(t, s.BusinessProfiles().Create(ctx, p))
	require.NoError(t, s.Categories().Delete(ctx, cat.ID))

	stored, err := s.BusinessProfiles().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CategoryID)

	err = s.Categories().Create(ctx, &models.Category{Name: "Tailor"})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Categories().Create(ctx, &models.Category{Name: "Tailor"}), repositories.ErrCategoryNameTaken)
}

func TestProfileUpdateOnlyTouchesColumns(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("a@example.com", "APP-1")
	require.NoError(t, s.Members().Create(ctx, m))

	about, salary := "Bakes bread", "1000"
	p := &models.BusinessProfile{MemberID: m.ID, BusinessType: domain.BusinessTypeBusiness}
	p.About = &about
	require.NoError(t, s.BusinessProfiles().Create(ctx, p))

	change := &models.BusinessProfile{ID: p.ID, BusinessType: domain.BusinessTypeSalary}
	change.Salary = &salary
	require.NoError(t, s.BusinessProfiles().Update(ctx, change, []string{"business_type", "salary"}))

	stored, err := s.BusinessProfiles().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BusinessTypeSalary, stored.BusinessType)
	assert.Equal(t, &salary, stored.Salary)
	assert.Equal(t, &about, stored.About)

	assert.Error(t, s.BusinessProfiles().Update(ctx, change, []string{"bogus"}))
}

func TestExpireMemberships(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	expired := newMember("a@example.com", "APP-1")
	expired.PaidStatus, expired.MembershipValidUntil = domain.PaidStatusPaid, &past
	active := newMember("b@example.com", "APP-2")
	active.PaidStatus, active.MembershipValidUntil = domain.PaidStatusPaid, &future
	require.NoError(t, s.Members().Create(ctx, expired))
	require.NoError(t, s.Members().Create(ctx, active))

	n, err := s.Members().ExpireMemberships(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Members().GetByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaidStatusUnpaid, got.PaidStatus)
	assert.Nil(t, got.MembershipValidUntil)

	changed, err := s.Members().ExpireMembership(ctx, active.ID, now)
	require.NoError(t, err)
	assert.False(t, changed)
}
