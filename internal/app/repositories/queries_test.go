package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/db"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/helpers"
)

func TestIncrementRewardPointsQuery(t *testing.T) {
	r := NewMemberRepository(nil)

	sql, args, err := r.incrementRewardPointsQuery(5, domain.ReferralRewardPoints)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE members SET reward_points = reward_points + $1, updated_at = NOW() WHERE id = $2", sql)
	assert.Equal(t, []interface{}{10, int64(5)}, args)
}

func TestMemberUpdateQuerySkipsImmutableColumns(t *testing.T) {
	r := NewMemberRepository(nil)
	m := &models.Member{ID: 9, ApplicationID: "APP-9", FirstName: "Asha", RewardPoints: 0}

	sql, args, err := r.updateQuery(m)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, "UPDATE members SET "), sql)
	assert.NotContains(t, sql, "reward_points =")
	assert.NotContains(t, sql, "application_id =")
	assert.Contains(t, sql, "first_name = ")
	assert.True(t, strings.HasSuffix(sql, "WHERE id = $20 RETURNING reward_points, updated_at"), sql)
	require.Len(t, args, 20)
	assert.Equal(t, int64(9), args[19])
	assert.NotContains(t, args, "APP-9")
}

func TestMemberListQuery(t *testing.T) {
	r := NewMemberRepository(nil)

	sql, args, err := r.listQuery(helpers.NewPage(3, 20))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sql, "FROM members ORDER BY id ASC LIMIT 20 OFFSET 40"), sql)
	assert.Empty(t, args)
}

func TestExpireQuery(t *testing.T) {
	r := NewMemberRepository(nil)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := r.expireQuery(now, nil)
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE members SET paid_status = $1, membership_valid_until = $2, updated_at = NOW() "+
			"WHERE paid_status = $3 AND membership_valid_until < $4",
		sql)
	require.Len(t, args, 4)
	assert.Equal(t, domain.PaidStatusUnpaid, args[0])
	assert.Nil(t, args[1])
	assert.Equal(t, domain.PaidStatusPaid, args[2])
	assert.Equal(t, now, args[3])
}

func TestEnsureCategoryQuery(t *testing.T) {
	r := NewCategoryRepository(nil)

	sql, args, err := r.ensureQuery("Bakery")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id, name, created_at", sql)
	assert.Equal(t, []interface{}{"Bakery"}, args)
}

func TestBusinessProfileUpdateQuery(t *testing.T) {
	r := NewBusinessProfileRepository(nil)
	salary := "20000"
	p := &models.BusinessProfile{ID: 3}
	p.Salary = &salary

	sql, args, err := r.updateQuery(p, []string{"salary", "about"})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE business_profiles SET about = $1, salary = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at", sql)
	require.Len(t, args, 3)
	assert.Nil(t, args[0])
	assert.Equal(t, &salary, args[1])
	assert.Equal(t, int64(3), args[2])

	_, _, err = r.updateQuery(p, []string{"no_such_column"})
	assert.Error(t, err)
}

func TestProfileColumnsMatchScanTargets(t *testing.T) {
	// id + writable columns + created_at/updated_at
	assert.Len(t, profileScanTargets(&models.BusinessProfile{}), len(ProfileColumns)+3)
	assert.Len(t, memberScanTargets(&models.Member{}), len(memberColumns)+3)
	assert.Len(t, familyScanTargets(&models.MemberFamily{}), len(familyColumns)+4)
}

type fakeTxRunner struct {
	calls int
	err   error
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	if err := fn(ctx, nil); err != nil {
		return err
	}
	return f.err
}

func TestRepositoriesWithTransaction(t *testing.T) {
	runner := &fakeTxRunner{}
	repos := newRepositories(nil, runner, false)

	var outer Store
	err := repos.WithTransaction(context.Background(), func(ctx context.Context, tx Store) error {
		outer = tx
		return tx.WithTransaction(ctx, func(ctx context.Context, inner Store) error {
			assert.Same(t, outer, inner)
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, runner.calls)
	assert.NotSame(t, repos, outer)

	boom := errors.New("boom")
	err = repos.WithTransaction(context.Background(), func(ctx context.Context, tx Store) error { return boom })
	assert.ErrorIs(t, err, boom)
}
