package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/auth"
	"github.com/yigit/memberdir/internal/pkg/filestorage"
	"github.com/yigit/memberdir/internal/pkg/helpers"
	"github.com/yigit/memberdir/internal/pkg/metrics"
)

// MemberService defines member operations
type MemberService interface {
	// Register creates a member with its referral, business profiles and
	// family record in one transaction.
	Register(ctx context.Context, req *dto.RegisterMemberRequest, form *multipart.Form) (*dto.RegisterMemberResponse, error)
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	ListMembers(ctx context.Context, page helpers.Page) (*dto.MemberListResponse, error)
	UpdateMember(ctx context.Context, id int64, req *dto.UpdateMemberRequest, profileImage *multipart.FileHeader) (*models.Member, error)
	DeleteMember(ctx context.Context, id int64) error
	ListNotifications(ctx context.Context, memberID int64) ([]models.Notification, error)
}

type memberServiceImpl struct {
	store       repositories.Store
	storage     filestorage.FileStorage
	normalizer  *Normalizer
	materialize *profileMaterializer
	rules       Rules
	now         Clock
	logger      zerolog.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(
	store repositories.Store,
	storage filestorage.FileStorage,
	normalizer *Normalizer,
	rules Rules,
	now Clock,
	logger zerolog.Logger,
) MemberService {
	rules = rules.withDefaults()
	now = now.orNow()
	return &memberServiceImpl{
		store:       store,
		storage:     storage,
		normalizer:  normalizer,
		materialize: &profileMaterializer{rules: rules, now: now, logger: logger},
		rules:       rules,
		now:         now,
		logger:      logger,
	}
}

// NewApplicationID returns the member-facing identifier that also serves as
// referral code.
func NewApplicationID() string {
	return "MBR-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func (s *memberServiceImpl) Register(ctx context.Context, req *dto.RegisterMemberRequest, form *multipart.Form) (resp *dto.RegisterMemberResponse, err error) {
	defer func() {
		switch {
		case err == nil:
			metrics.Registrations.WithLabelValues(metrics.OutcomeSuccess).Inc()
		case isClientError(err):
			metrics.Registrations.WithLabelValues(metrics.OutcomeRejected).Inc()
		default:
			metrics.Registrations.WithLabelValues(metrics.OutcomeFailed).Inc()
		}
	}()

	in, err := s.normalizer.Registration(req)
	if err != nil {
		return nil, err
	}
	files := RegistrationFilesFromForm(form, len(in.Profiles))

	exists, err := s.store.Members().EmailExists(ctx, in.Member.Email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(in.Member.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	log := s.logger.With().Str("email", in.Member.Email).Logger()
	log.Debug().Int("profiles", len(in.Profiles)).Bool("family", in.Family != nil).Msg("Registering member")

	ledger := filestorage.NewLedger(s.storage)
	member := newMemberRow(in, hashed)

	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		image, err := ledger.Save(files.ProfileImage, filestorage.ProfileImageDir)
		if err != nil {
			return fmt.Errorf("saving profile image: %w", err)
		}
		if image != "" {
			image = domain.NormalizePath(image)
			member.ProfileImage = &image
		}

		if err := tx.Members().Create(ctx, member); err != nil {
			return err
		}

		if in.ReferralCode != "" {
			if err := s.linkReferral(ctx, tx, member, in.ReferralCode); err != nil {
				return err
			}
		}

		for i, p := range in.Profiles {
			if _, err := s.materialize.create(ctx, tx, ledger, member, p, files.ForProfile(i)); err != nil {
				return fmt.Errorf("business profile %d: %w", i, err)
			}
		}

		if in.Family != nil {
			if _, err := writeFamily(ctx, tx, member.ID, *in.Family, log); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Registration rolled back")
		releaseUploads(ledger, log)
		return nil, err
	}
	ledger.Clear()

	if in.ReferralCode != "" {
		metrics.ReferralRewards.Inc()
	}
	log.Info().Int64("memberID", member.ID).Str("applicationID", member.ApplicationID).Msg("Member registered")

	out := dto.NewRegisterMemberResponse(member)
	return &out, nil
}

func newMemberRow(in *RegistrationInput, hashedPassword string) *models.Member {
	m := in.Member
	return &models.Member{
		ApplicationID:        NewApplicationID(),
		FirstName:            m.FirstName,
		LastName:             m.LastName,
		Email:                m.Email,
		Password:             hashedPassword,
		MobileNo:             m.MobileNo,
		Gender:               m.Gender,
		DateOfBirth:          m.DateOfBirth,
		Address:              m.Address,
		City:                 m.City,
		State:                m.State,
		ZipCode:              m.ZipCode,
		ReferralName:         in.ReferralName,
		Status:               m.Status,
		AccessLevel:          m.AccessLevel,
		PaidStatus:           m.PaidStatus,
		MembershipValidUntil: m.MembershipValidUntil,
		OnlineForumMember:    m.OnlineForumMember,
		OfflineForumMember:   m.OfflineForumMember,
	}
}

// linkReferral credits the member whose application id equals code.
func (s *memberServiceImpl) linkReferral(ctx context.Context, tx repositories.Store, member *models.Member, code string) error {
	referrer, err := tx.Members().GetByApplicationID(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.ErrInvalidReferralCode
		}
		return fmt.Errorf("looking up referral code: %w", err)
	}

	points := s.rules.ReferralRewardPoints
	referral := &models.Referral{
		ReferrerID:   referrer.ID,
		ReferredID:   member.ID,
		ReferralCode: code,
		RewardPoints: points,
	}
	if err := tx.Referrals().Create(ctx, referral); err != nil {
		return err
	}
	if err := tx.Members().IncrementRewardPoints(ctx, referrer.ID, points); err != nil {
		return err
	}

	s.logger.Debug().Int64("referrerID", referrer.ID).Int64("memberID", member.ID).Msg("Referral linked")
	return nil
}

func (s *memberServiceImpl) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	member, err := s.store.Members().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profiles, err := s.store.BusinessProfiles().ListByMemberID(ctx, id)
	if err != nil {
		return nil, err
	}
	member.BusinessProfiles = profiles

	family, err := s.store.Families().GetByMemberID(ctx, id)
	switch {
	case err == nil:
		member.Family = family
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, err
	}
	return member, nil
}

func (s *memberServiceImpl) ListMembers(ctx context.Context, page helpers.Page) (*dto.MemberListResponse, error) {
	members, total, err := s.store.Members().List(ctx, page)
	if err != nil {
		return nil, err
	}

	return &dto.MemberListResponse{
		Members:    members,
		Pagination: page.Info(total),
	}, nil
}

func (s *memberServiceImpl) UpdateMember(ctx context.Context, id int64, req *dto.UpdateMemberRequest, profileImage *multipart.FileHeader) (*models.Member, error) {
	if err := s.normalizer.check(req); err != nil {
		return nil, err
	}

	ledger := filestorage.NewLedger(s.storage)
	var updated *models.Member
	var obsolete []string

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		member, err := tx.Members().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := applyMemberUpdate(member, req); err != nil {
			return err
		}
		if req.Password != nil {
			hashed, err := auth.HashPassword(*req.Password)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			member.Password = hashed
		}

		image, err := ledger.Save(profileImage, filestorage.ProfileImageDir)
		if err != nil {
			return fmt.Errorf("saving profile image: %w", err)
		}
		if image != "" {
			if member.ProfileImage != nil {
				obsolete = append(obsolete, *member.ProfileImage)
			}
			image = domain.NormalizePath(image)
			member.ProfileImage = &image
		}

		if err := tx.Members().Update(ctx, member); err != nil {
			return err
		}
		updated = member
		return nil
	})
	if err != nil {
		releaseUploads(ledger, s.logger)
		return nil, err
	}
	ledger.Clear()
	deleteObsolete(s.storage, obsolete, s.logger)

	s.logger.Info().Int64("memberID", id).Msg("Member updated")
	return updated, nil
}

// applyMemberUpdate copies the non-nil request fields onto m and re-applies
// the membership invariant.
func applyMemberUpdate(m *models.Member, req *dto.UpdateMemberRequest) error {
	if req.FirstName != nil {
		first := strings.TrimSpace(*req.FirstName)
		if first == "" {
			return apperrors.NewValidationError("first_name must not be blank")
		}
		m.FirstName = first
	}
	if req.Email != nil {
		m.Email = NormalizeEmail(*req.Email)
	}

	setOptional := func(dst **string, v *string) {
		if v != nil {
			*dst = helpers.TrimmedPtr(v)
		}
	}
	setOptional(&m.LastName, req.LastName)
	setOptional(&m.MobileNo, req.MobileNo)
	setOptional(&m.Gender, req.Gender)
	setOptional(&m.Address, req.Address)
	setOptional(&m.City, req.City)
	setOptional(&m.State, req.State)
	setOptional(&m.ZipCode, req.ZipCode)

	if req.DateOfBirth != nil {
		dob, err := helpers.ParseDate(*req.DateOfBirth)
		if err != nil {
			return apperrors.NewValidationError("date_of_birth: %v", err)
		}
		m.DateOfBirth = dob
	}
	if req.Status != nil {
		m.Status = domain.MemberStatus(*req.Status)
	}
	if req.AccessLevel != nil {
		m.AccessLevel = domain.AccessLevel(*req.AccessLevel)
	}
	if req.OnlineForumMember != nil {
		m.OnlineForumMember = *req.OnlineForumMember
	}
	if req.OfflineForumMember != nil {
		m.OfflineForumMember = *req.OfflineForumMember
	}

	paid, validUntil := m.PaidStatus, m.MembershipValidUntil
	if req.PaidStatus != nil {
		paid = domain.PaidStatus(*req.PaidStatus)
	}
	if req.MembershipValidUntil != nil {
		parsed, err := helpers.ParseDate(*req.MembershipValidUntil)
		if err != nil {
			return apperrors.NewValidationError("membership_valid_until: %v", err)
		}
		validUntil = parsed
	}
	m.PaidStatus, m.MembershipValidUntil = domain.NormalizeMembership(paid, validUntil)
	return nil
}

func (s *memberServiceImpl) DeleteMember(ctx context.Context, id int64) error {
	var files []string
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		member, err := tx.Members().GetByID(ctx, id)
		if err != nil {
			return err
		}
		profiles, err := tx.BusinessProfiles().ListByMemberID(ctx, id)
		if err != nil {
			return err
		}

		if member.ProfileImage != nil {
			files = append(files, *member.ProfileImage)
		}
		for i := range profiles {
			files = append(files, profiles[i].MediaPaths()...)
		}

		if _, err := tx.Notifications().DeleteByMemberID(ctx, id); err != nil {
			return err
		}
		return tx.Members().Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("memberID", id).Msg("Failed to delete member")
		return err
	}

	deleteObsolete(s.storage, files, s.logger)
	s.logger.Info().Int64("memberID", id).Msg("Member deleted")
	return nil
}

func (s *memberServiceImpl) ListNotifications(ctx context.Context, memberID int64) ([]models.Notification, error) {
	if _, err := s.store.Members().GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	return s.store.Notifications().ListByMemberID(ctx, memberID)
}
