package services

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/app/repositories/memory"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/auth"
	"github.com/yigit/memberdir/internal/pkg/filestorage"
)

var fixtureNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store      *memory.Store
	storage    *filestorage.LocalStorage
	members    MemberService
	profiles   BusinessProfileService
	families   FamilyService
	categories CategoryService
	membership MembershipService
	auth       *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	clock := func() time.Time { return fixtureNow }
	store.SetClock(clock)

	storage, err := filestorage.NewLocalStorage(t.TempDir(), "uploads")
	require.NoError(t, err)

	log := zerolog.Nop()
	normalizer := NewNormalizer()
	membership := NewMembershipService(store, clock, log)
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "memberdir-test"})

	return &fixture{
		store:      store,
		storage:    storage,
		members:    NewMemberService(store, storage, normalizer, DefaultRules(), clock, log),
		profiles:   NewBusinessProfileService(store, storage, normalizer, DefaultRules(), clock, log),
		families:   NewFamilyService(store, normalizer, log),
		categories: NewCategoryService(store, log),
		membership: membership,
		auth:       NewAuthService(store, membership, jwt, log),
	}
}

// storedFiles counts files currently on disk under the storage root.
func (f *fixture) storedFiles(t *testing.T) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(f.storage.BasePath(), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

// seedMember inserts a member directly, created age before fixtureNow.
func (f *fixture) seedMember(t *testing.T, email string, age time.Duration) *models.Member {
	t.Helper()
	hashed, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	m := &models.Member{
		ApplicationID: "MBR-" + email,
		FirstName:     "Seed",
		Email:         email,
		Password:      hashed,
		Status:        domain.MemberStatusApproved,
		AccessLevel:   domain.AccessLevelBasic,
		PaidStatus:    domain.PaidStatusUnpaid,
		CreatedAt:     fixtureNow.Add(-age),
	}
	require.NoError(t, f.store.Members().Create(context.Background(), m))
	return m
}

func registerRequest(email, profiles string) *dto.RegisterMemberRequest {
	return &dto.RegisterMemberRequest{
		FirstName:            "Asha",
		LastName:             "Rao",
		Email:                email,
		Password:             "secret123",
		BusinessProfilesForm: profiles,
	}
}

const salaryProfile = `[{"business_type":"salary","company_name":"Acme","designation":"Clerk","salary":"20000","experience":"2"}]`
