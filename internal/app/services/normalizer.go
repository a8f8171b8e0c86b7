package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/helpers"
)

// Multipart file fields of a registration.
const (
	FieldProfileImage         = "profile_image"
	FieldBusinessProfileImage = "business_profile_image"
	FieldMediaGallery         = "media_gallery"
)

// RegistrationInput is a registration after normalization. Nothing past the
// Normalizer looks at raw client payloads.
type RegistrationInput struct {
	Member       domain.MemberInput
	ReferralCode string
	ReferralName *string
	Profiles     []domain.BusinessProfileInput
	Family       *domain.FamilyInput
}

// ProfileUpdateInput is a partial business profile. Nil fields are unchanged.
type ProfileUpdateInput struct {
	BusinessType     *domain.BusinessType
	Common           domain.CommonProfileFields
	Fields           domain.ProfileFields
	RegistrationType *domain.RegistrationType
	CategoryID       *int64
	NewCategoryName  string
	RemovedMedia     []string
}

// ProfileFiles are the uploads belonging to one business profile.
type ProfileFiles struct {
	Image   *multipart.FileHeader
	Gallery []*multipart.FileHeader
}

// RegistrationFiles are the uploads of a registration request.
type RegistrationFiles struct {
	ProfileImage *multipart.FileHeader
	Profiles     map[int]ProfileFiles
}

// ForProfile returns the uploads keyed with index i.
func (f RegistrationFiles) ForProfile(i int) ProfileFiles {
	return f.Profiles[i]
}

// RegistrationFilesFromForm collects profile_image, business_profile_image_{i}
// and media_gallery_{i} for the first n profiles.
func RegistrationFilesFromForm(form *multipart.Form, n int) RegistrationFiles {
	files := RegistrationFiles{Profiles: map[int]ProfileFiles{}}
	if form == nil {
		return files
	}
	files.ProfileImage = firstFile(form, FieldProfileImage)
	for i := 0; i < n; i++ {
		pf := ProfileFiles{
			Image:   firstFile(form, fmt.Sprintf("%s_%d", FieldBusinessProfileImage, i)),
			Gallery: form.File[fmt.Sprintf("%s_%d", FieldMediaGallery, i)],
		}
		if pf.Image != nil || len(pf.Gallery) > 0 {
			files.Profiles[i] = pf
		}
	}
	return files
}

// ProfileFilesFromForm collects the uploads of a single-profile request.
func ProfileFilesFromForm(form *multipart.Form) ProfileFiles {
	if form == nil {
		return ProfileFiles{}
	}
	return ProfileFiles{
		Image:   firstFile(form, FieldBusinessProfileImage),
		Gallery: form.File[FieldMediaGallery],
	}
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if fhs := form.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}

// Normalizer maps heterogeneous client input onto the domain input types.
type Normalizer struct {
	validate *validator.Validate
}

// NewNormalizer creates a Normalizer that understands the binding tags used
// on request DTOs, so JSON and multipart requests get the same checks.
func NewNormalizer() *Normalizer {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			name, _, _ = strings.Cut(fld.Tag.Get("json"), ",")
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return &Normalizer{validate: v}
}

func (n *Normalizer) check(req interface{}) error {
	err := n.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return apperrors.NewValidationError("%s", strings.Join(msgs, "; "))
}

// Registration validates a registration request.
func (n *Normalizer) Registration(req *dto.RegisterMemberRequest) (*RegistrationInput, error) {
	if err := n.check(req); err != nil {
		return nil, err
	}

	member, err := n.memberInput(req)
	if err != nil {
		return nil, err
	}

	rawProfiles, err := dto.ParseRawArray(req.BusinessProfilesPayload())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBusinessProfilesMissing, err)
	}
	if len(rawProfiles) == 0 {
		return nil, apperrors.ErrBusinessProfilesMissing
	}
	profiles := make([]domain.BusinessProfileInput, 0, len(rawProfiles))
	for i, raw := range rawProfiles {
		p, err := n.BusinessProfile(raw)
		if err != nil {
			return nil, fmt.Errorf("business_profiles[%d]: %w", i, err)
		}
		profiles = append(profiles, p)
	}

	rawFamily, err := dto.ParseRawObject(req.FamilyDetailsPayload())
	if err != nil {
		return nil, apperrors.NewValidationError("family_details: %v", err)
	}
	family, err := n.Family(rawFamily)
	if err != nil {
		return nil, err
	}

	return &RegistrationInput{
		Member:       member,
		ReferralCode: strings.TrimSpace(req.ReferralCode),
		ReferralName: helpers.TrimmedOrNil(req.ReferralName),
		Profiles:     profiles,
		Family:       family,
	}, nil
}

func (n *Normalizer) memberInput(req *dto.RegisterMemberRequest) (domain.MemberInput, error) {
	dob, err := helpers.ParseDate(req.DateOfBirth)
	if err != nil {
		return domain.MemberInput{}, apperrors.NewValidationError("date_of_birth: %v", err)
	}
	validUntil, err := helpers.ParseDate(req.MembershipValidUntil)
	if err != nil {
		return domain.MemberInput{}, apperrors.NewValidationError("membership_valid_until: %v", err)
	}

	in := domain.MemberInput{
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           helpers.TrimmedOrNil(req.LastName),
		Email:              NormalizeEmail(req.Email),
		Password:           req.Password,
		MobileNo:           helpers.TrimmedOrNil(req.MobileNo),
		Gender:             helpers.TrimmedOrNil(req.Gender),
		DateOfBirth:        dob,
		Address:            helpers.TrimmedOrNil(req.Address),
		City:               helpers.TrimmedOrNil(req.City),
		State:              helpers.TrimmedOrNil(req.State),
		ZipCode:            helpers.TrimmedOrNil(req.ZipCode),
		Status:             domain.MemberStatus(req.Status),
		AccessLevel:        domain.AccessLevel(req.AccessLevel),
		OnlineForumMember:  req.OnlineForumMember,
		OfflineForumMember: req.OfflineForumMember,
	}
	if in.FirstName == "" {
		return domain.MemberInput{}, apperrors.NewValidationError("first_name is required")
	}
	if in.Status == "" {
		in.Status = domain.MemberStatusPending
	}
	if in.AccessLevel == "" {
		in.AccessLevel = domain.AccessLevelBasic
	}
	in.PaidStatus, in.MembershipValidUntil = domain.NormalizeMembership(domain.PaidStatus(req.PaidStatus), validUntil)
	return in, nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// rawFields reads every type-dependent field, whatever the business type.
func rawFields(obj dto.RawObject) domain.ProfileFields {
	return domain.ProfileFields{
		About:                obj.String(dto.KeyAbout...),
		CompanyAddress:       obj.String(dto.KeyCompanyAddress...),
		City:                 obj.String(dto.KeyCity...),
		State:                obj.String(dto.KeyState...),
		ZipCode:              obj.String(dto.KeyZipCode...),
		BusinessStartingYear: obj.String(dto.KeyStartingYear...),
		WorkContract:         obj.String(dto.KeyWorkContract...),
		ContactNumber:        obj.String(dto.KeyContactNumber...),
		StaffSize:            obj.String(dto.KeyStaffSize...),
		Experience:           obj.String(dto.KeyExperience...),
		Designation:          obj.String(dto.KeyDesignation...),
		Salary:               obj.String(dto.KeySalary...),
		Location:             obj.String(dto.KeyLocation...),
	}
}

func rawCommon(obj dto.RawObject) domain.CommonProfileFields {
	return domain.CommonProfileFields{
		CompanyName:            obj.String(dto.KeyCompanyName...),
		Email:                  obj.String(dto.KeyEmail...),
		Source:                 obj.String(dto.KeySource...),
		Tags:                   obj.String(dto.KeyTags...),
		Website:                obj.String(dto.KeyWebsite...),
		FacebookLink:           obj.String(dto.KeyFacebookLink...),
		InstagramLink:          obj.String(dto.KeyInstagramLink...),
		LinkedinLink:           obj.String(dto.KeyLinkedinLink...),
		YoutubeLink:            obj.String(dto.KeyYoutubeLink...),
		ExclusiveMemberBenefit: obj.String(dto.KeyExclusiveBenefit...),
	}
}

func rawRegistrationType(obj dto.RawObject) domain.RegistrationType {
	return domain.RegistrationType{
		Value: helpers.Deref(obj.String(dto.KeyRegistrationType...)),
		Other: helpers.Deref(obj.String(dto.KeyRegistrationOther...)),
	}
}

// BusinessProfile validates one business profile object.
func (n *Normalizer) BusinessProfile(obj dto.RawObject) (domain.BusinessProfileInput, error) {
	bt, err := domain.ParseBusinessType(helpers.Deref(obj.String(dto.KeyBusinessType...)))
	if err != nil {
		return domain.BusinessProfileInput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidBusinessType, err)
	}
	categoryID, err := obj.Int64(dto.KeyCategoryID...)
	if err != nil {
		return domain.BusinessProfileInput{}, apperrors.NewValidationError("%v", err)
	}
	details, err := domain.DetailsFromFields(bt, rawFields(obj), rawRegistrationType(obj))
	if err != nil {
		return domain.BusinessProfileInput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidBusinessType, err)
	}

	return domain.BusinessProfileInput{
		Common:          rawCommon(obj),
		Details:         details,
		CategoryID:      categoryID,
		NewCategoryName: helpers.Deref(obj.String(dto.KeyNewCategoryName...)),
	}, nil
}

// unwrapProfile returns the nested business_profile object when present.
func unwrapProfile(body dto.RawObject) (dto.RawObject, error) {
	if !body.Has(dto.KeyBusinessProfileObj) {
		return body, nil
	}
	nested, err := body.Object(dto.KeyBusinessProfileObj)
	if err != nil {
		return nil, apperrors.NewValidationError("%v", err)
	}
	if nested == nil {
		return dto.RawObject{}, nil
	}
	return nested, nil
}

// NewProfile validates the body of a create-profile request, which may carry
// the profile flat or under business_profile.
func (n *Normalizer) NewProfile(body dto.RawObject) (domain.BusinessProfileInput, error) {
	obj, err := unwrapProfile(body)
	if err != nil {
		return domain.BusinessProfileInput{}, err
	}
	return n.BusinessProfile(obj)
}

// ProfileUpdate validates a partial business profile.
func (n *Normalizer) ProfileUpdate(body dto.RawObject) (*ProfileUpdateInput, error) {
	obj, err := unwrapProfile(body)
	if err != nil {
		return nil, err
	}

	in := &ProfileUpdateInput{
		Common:          rawCommon(obj),
		Fields:          rawFields(obj),
		NewCategoryName: helpers.Deref(obj.String(dto.KeyNewCategoryName...)),
	}
	if raw := obj.String(dto.KeyBusinessType...); raw != nil {
		bt, err := domain.ParseBusinessType(*raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidBusinessType, err)
		}
		in.BusinessType = &bt
	}
	if obj.String(dto.KeyRegistrationType...) != nil {
		reg := rawRegistrationType(obj)
		in.RegistrationType = &reg
	}
	if in.CategoryID, err = obj.Int64(dto.KeyCategoryID...); err != nil {
		return nil, apperrors.NewValidationError("%v", err)
	}

	// removed_media may sit next to the nested object or inside it
	for _, src := range []dto.RawObject{body, obj} {
		removed, err := src.StringSlice(dto.KeyRemovedMedia)
		if err != nil {
			return nil, apperrors.NewValidationError("%v", err)
		}
		if len(removed) > 0 {
			in.RemovedMedia = removed
			break
		}
	}
	return in, nil
}

// Family validates a family_details object. An empty object yields nil.
func (n *Normalizer) Family(obj dto.RawObject) (*domain.FamilyInput, error) {
	if obj.IsEmpty() {
		return nil, nil
	}

	children, err := obj.Int64(dto.KeyNumberOfChildren...)
	if err != nil {
		return nil, apperrors.NewValidationError("family_details: %v", err)
	}
	names, err := obj.StringSlice(dto.KeyChildrenNames)
	if err != nil {
		return nil, apperrors.NewValidationError("family_details: %v", err)
	}

	in := &domain.FamilyInput{
		FatherName:    obj.String(dto.KeyFatherName...),
		FatherContact: obj.String(dto.KeyFatherContact...),
		MotherName:    obj.String(dto.KeyMotherName...),
		MotherContact: obj.String(dto.KeyMotherContact...),
		Address:       obj.String(dto.KeyFamilyAddress...),
		MaritalStatus: obj.String(dto.KeyMaritalStatus...),
		SpouseName:    obj.String(dto.KeySpouseName...),
		SpouseContact: obj.String(dto.KeySpouseContact...),
		ChildrenNames: names,
	}
	if children != nil {
		if *children < 0 {
			return nil, apperrors.NewValidationError("family_details: number_of_children must not be negative")
		}
		c := int(*children)
		in.NumberOfChildren = &c
	}
	return in, nil
}
