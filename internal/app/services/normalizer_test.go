package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/helpers"
	"github.com/yigit/memberdir/internal/testutil"
)

func TestNormalizerAcceptsJSONAndFormPayloads(t *testing.T) {
	n := NewNormalizer()

	form := registerRequest("Asha@Example.com", salaryProfile)
	fromForm, err := n.Registration(form)
	require.NoError(t, err)

	jsonReq := registerRequest("asha@example.com", "")
	jsonReq.BusinessProfilesJSON = []byte(salaryProfile)
	fromJSON, err := n.Registration(jsonReq)
	require.NoError(t, err)

	assert.Equal(t, fromForm.Profiles, fromJSON.Profiles)
	assert.Equal(t, "asha@example.com", fromForm.Member.Email)
	assert.Equal(t, domain.MemberStatusPending, fromForm.Member.Status)
	assert.Equal(t, domain.AccessLevelBasic, fromForm.Member.AccessLevel)
	assert.Equal(t, domain.PaidStatusUnpaid, fromForm.Member.PaidStatus)
	assert.Nil(t, fromForm.Family)
}

func TestNormalizerBusinessProfileShapes(t *testing.T) {
	n := NewNormalizer()

	in, err := n.BusinessProfile(dto.RawObject{
		"businessType":  "Salary",
		"companyName":   "Acme",
		"designation":   "Clerk",
		"about":         "dropped for salary",
		"staff_size":    "9",
		"category_id":   "3",
		"category_name": "Retail",
	})
	require.NoError(t, err)

	salary, ok := in.Details.(domain.SalaryDetails)
	require.True(t, ok)
	assert.Equal(t, "Clerk", helpers.Deref(salary.Designation))
	assert.Equal(t, "Acme", helpers.Deref(in.Common.CompanyName))
	require.NotNil(t, in.CategoryID)
	assert.Equal(t, int64(3), *in.CategoryID)
	assert.Equal(t, "Retail", in.NewCategoryName)

	fields := domain.Flatten(in.Details)
	assert.Nil(t, fields.About)
	assert.Nil(t, fields.StaffSize)

	_, err = n.BusinessProfile(dto.RawObject{"business_type": "salary", "category_id": "abc"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestNormalizerProfileUpdate(t *testing.T) {
	n := NewNormalizer()

	in, err := n.ProfileUpdate(dto.RawObject{
		"business_profile": `{"business_type":"business","address":"1 Main St"}`,
		"removed_media":    `["uploads/media-gallery/a.jpg"]`,
	})
	require.NoError(t, err)
	require.NotNil(t, in.BusinessType)
	assert.Equal(t, domain.BusinessTypeBusiness, *in.BusinessType)
	assert.Equal(t, "1 Main St", helpers.Deref(in.Fields.CompanyAddress))
	assert.Equal(t, []string{"uploads/media-gallery/a.jpg"}, in.RemovedMedia)
	assert.Nil(t, in.RegistrationType)

	flat, err := n.ProfileUpdate(dto.RawObject{"removed_media": "uploads/media-gallery/b.jpg"})
	require.NoError(t, err)
	assert.Nil(t, flat.BusinessType)
	assert.Equal(t, []string{"uploads/media-gallery/b.jpg"}, flat.RemovedMedia)

	_, err = n.ProfileUpdate(dto.RawObject{"business_type": "hobby"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBusinessType)
}

func TestRegistrationFilesFromForm(t *testing.T) {
	form := testutil.Form(t,
		testutil.UploadFile{Field: "profile_image", Filename: "me.jpg", Content: "x"},
		testutil.UploadFile{Field: "business_profile_image_1", Filename: "logo.png", Content: "x"},
		testutil.UploadFile{Field: "media_gallery_1", Filename: "a.jpg", Content: "x"},
		testutil.UploadFile{Field: "media_gallery_1", Filename: "b.jpg", Content: "x"},
		testutil.UploadFile{Field: "media_gallery_5", Filename: "ignored.jpg", Content: "x"},
	)

	files := RegistrationFilesFromForm(form, 2)
	require.NotNil(t, files.ProfileImage)
	assert.Equal(t, "me.jpg", files.ProfileImage.Filename)
	assert.Nil(t, files.ForProfile(0).Image)
	assert.Equal(t, "logo.png", files.ForProfile(1).Image.Filename)
	assert.Len(t, files.ForProfile(1).Gallery, 2)
	assert.Len(t, files.Profiles, 1)

	empty := RegistrationFilesFromForm(nil, 3)
	assert.Nil(t, empty.ProfileImage)
}
