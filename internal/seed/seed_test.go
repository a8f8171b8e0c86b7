package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/app/repositories/memory"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/auth"
)

func TestCreateDefaultData_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, CreateDefaultData(ctx, store, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, store, zerolog.Nop()))

	categories, err := store.Categories().List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(DefaultCategories))
}

func TestCreateDefaultData_CollectsErrors(t *testing.T) {
	store := memory.New()
	boom := errors.New("boom")
	store.FailOn("categories.Ensure", boom)

	err := CreateDefaultData(context.Background(), store, zerolog.Nop())
	assert.ErrorIs(t, err, boom)
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	admin := Admin{Email: " Ops@Example.com ", Password: "s3cret!"}

	created, err := CreateAdmin(ctx, store, admin, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, created)

	m, err := store.Members().GetByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.AccessLevelAdmin, m.AccessLevel)
	assert.Equal(t, domain.MemberStatusApproved, m.Status)
	assert.True(t, auth.CheckPassword(m.Password, "s3cret!"))
	assert.NotEmpty(t, m.ApplicationID)

	created, err = CreateAdmin(ctx, store, admin, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCreateAdmin_RequiresCredentials(t *testing.T) {
	_, err := CreateAdmin(context.Background(), memory.New(), Admin{Email: "a@b.c"}, zerolog.Nop())
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
