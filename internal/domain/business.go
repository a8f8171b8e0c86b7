package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// BusinessType discriminates the three shapes a business profile can take.
type BusinessType string

const (
	BusinessTypeSelfEmployed BusinessType = "self-employed"
	BusinessTypeBusiness     BusinessType = "business"
	BusinessTypeSalary       BusinessType = "salary"
)

// ParseBusinessType accepts the client spelling of a business type.
func ParseBusinessType(s string) (BusinessType, error) {
	switch t := BusinessType(strings.ToLower(strings.TrimSpace(s))); t {
	case BusinessTypeSelfEmployed, BusinessTypeBusiness, BusinessTypeSalary:
		return t, nil
	case "":
		return "", fmt.Errorf("business type is required")
	default:
		return "", fmt.Errorf("unknown business type %q", s)
	}
}

// ProfileStatus is the moderation state of a business profile.
type ProfileStatus string

const (
	ProfileStatusPending  ProfileStatus = "Pending"
	ProfileStatusApproved ProfileStatus = "Approved"
	ProfileStatusRejected ProfileStatus = "Rejected"
)

// ParseProfileStatus validates a moderation status.
func ParseProfileStatus(s string) (ProfileStatus, bool) {
	switch st := ProfileStatus(strings.TrimSpace(s)); st {
	case ProfileStatusPending, ProfileStatusApproved, ProfileStatusRejected:
		return st, true
	}
	return "", false
}

// OtherRegistrationType is the literal the client sends when the free-text
// registration type should be stored instead.
const OtherRegistrationType = "Others"

// RegistrationType keeps the selected option and the free text supplied with
// "Others". Stored() collapses both into the single persisted column.
type RegistrationType struct {
	Value string
	Other string
}

// Stored returns the column value, or nil when nothing was selected.
func (r RegistrationType) Stored() *string {
	v := strings.TrimSpace(r.Value)
	if v == OtherRegistrationType {
		if other := strings.TrimSpace(r.Other); other != "" {
			return &other
		}
	}
	if v == "" {
		return nil
	}
	return &v
}

// CommonProfileFields are written for every business type.
type CommonProfileFields struct {
	CompanyName            *string `json:"company_name"`
	Email                  *string `json:"email"`
	Source                 *string `json:"source"`
	Tags                   *string `json:"tags"`
	Website                *string `json:"website"`
	FacebookLink           *string `json:"facebook_link"`
	InstagramLink          *string `json:"instagram_link"`
	LinkedinLink           *string `json:"linkedin_link"`
	YoutubeLink            *string `json:"youtube_link"`
	ExclusiveMemberBenefit *string `json:"exclusive_member_benefit"`
}

// ProfileFields is the flat column set whose population depends on the
// business type. Values are only produced by Flatten, so a row never carries
// salary and enterprise columns at the same time.
type ProfileFields struct {
	BusinessRegistrationType *string `json:"business_registration_type"`
	About                    *string `json:"about"`
	CompanyAddress           *string `json:"company_address"`
	City                     *string `json:"city"`
	State                    *string `json:"state"`
	ZipCode                  *string `json:"zip_code"`
	BusinessStartingYear     *string `json:"business_starting_year"`
	WorkContract             *string `json:"work_contract"`
	ContactNumber            *string `json:"contact_number"`
	StaffSize                *string `json:"staff_size"`
	Experience               *string `json:"experience"`
	Designation              *string `json:"designation"`
	Salary                   *string `json:"salary"`
	Location                 *string `json:"location"`
}

// EnterpriseFields are shared by self-employed members and business owners.
type EnterpriseFields struct {
	RegistrationType RegistrationType
	About            *string
	CompanyAddress   *string
	City             *string
	State            *string
	ZipCode          *string
	StartingYear     *string
	WorkContract     *string
	ContactNumber    *string
}

// BusinessDetails is a closed set of per-type field groups.
type BusinessDetails interface {
	BusinessType() BusinessType
	flatten() ProfileFields
}

// SelfEmployedDetails describes a self-employed member.
type SelfEmployedDetails struct {
	EnterpriseFields
	Experience *string
}

// BusinessOwnerDetails describes a registered business.
type BusinessOwnerDetails struct {
	EnterpriseFields
	StaffSize *string
}

// SalaryDetails describes a salaried member.
type SalaryDetails struct {
	Designation *string
	Salary      *string
	Location    *string
	Experience  *string
}

func (SelfEmployedDetails) BusinessType() BusinessType  { return BusinessTypeSelfEmployed }
func (BusinessOwnerDetails) BusinessType() BusinessType { return BusinessTypeBusiness }
func (SalaryDetails) BusinessType() BusinessType        { return BusinessTypeSalary }

func (e EnterpriseFields) flatten() ProfileFields {
	return ProfileFields{
		BusinessRegistrationType: e.RegistrationType.Stored(),
		About:                    e.About,
		CompanyAddress:           e.CompanyAddress,
		City:                     e.City,
		State:                    e.State,
		ZipCode:                  e.ZipCode,
		BusinessStartingYear:     e.StartingYear,
		WorkContract:             e.WorkContract,
		ContactNumber:            e.ContactNumber,
	}
}

func (d SelfEmployedDetails) flatten() ProfileFields {
	f := d.EnterpriseFields.flatten()
	f.Experience = d.Experience
	return f
}

func (d BusinessOwnerDetails) flatten() ProfileFields {
	f := d.EnterpriseFields.flatten()
	f.StaffSize = d.StaffSize
	return f
}

func (d SalaryDetails) flatten() ProfileFields {
	return ProfileFields{
		Designation: d.Designation,
		Salary:      d.Salary,
		Location:    d.Location,
		Experience:  d.Experience,
	}
}

// Flatten produces the persisted column set for the given details. Columns
// that do not belong to the business type are always nil.
func Flatten(d BusinessDetails) ProfileFields {
	if d == nil {
		return ProfileFields{}
	}
	return d.flatten()
}

// DetailsFromFields picks the columns relevant to t out of a raw, unshaped
// field set. Everything else is dropped.
func DetailsFromFields(t BusinessType, raw ProfileFields, reg RegistrationType) (BusinessDetails, error) {
	enterprise := EnterpriseFields{
		RegistrationType: reg,
		About:            raw.About,
		CompanyAddress:   raw.CompanyAddress,
		City:             raw.City,
		State:            raw.State,
		ZipCode:          raw.ZipCode,
		StartingYear:     raw.BusinessStartingYear,
		WorkContract:     raw.WorkContract,
		ContactNumber:    raw.ContactNumber,
	}

	switch t {
	case BusinessTypeSelfEmployed:
		return SelfEmployedDetails{EnterpriseFields: enterprise, Experience: raw.Experience}, nil
	case BusinessTypeBusiness:
		return BusinessOwnerDetails{EnterpriseFields: enterprise, StaffSize: raw.StaffSize}, nil
	case BusinessTypeSalary:
		return SalaryDetails{
			Designation: raw.Designation,
			Salary:      raw.Salary,
			Location:    raw.Location,
			Experience:  raw.Experience,
		}, nil
	}
	return nil, fmt.Errorf("unknown business type %q", t)
}

// BusinessProfileInput is the validated form of one business profile entry.
type BusinessProfileInput struct {
	Common          CommonProfileFields
	Details         BusinessDetails
	CategoryID      *int64
	NewCategoryName string
}

// PendingAfterDays is the account age at which new profiles need moderation.
const PendingAfterDays = 5

// AccountAgeDays returns whole elapsed days between created and now.
func AccountAgeDays(created, now time.Time) int64 {
	elapsed := math.Abs(float64(now.Sub(created)))
	return int64(elapsed / float64(24*time.Hour))
}

// InitialProfileStatus derives the status of a newly created business
// profile from the owning member's account age.
func InitialProfileStatus(memberCreated, now time.Time, pendingAfterDays int) ProfileStatus {
	if AccountAgeDays(memberCreated, now) >= int64(pendingAfterDays) {
		return ProfileStatusPending
	}
	return ProfileStatusApproved
}

// Columns pairs each common column name with its value.
func (c CommonProfileFields) Columns() map[string]*string {
	return map[string]*string{
		"company_name":             c.CompanyName,
		"email":                    c.Email,
		"source":                   c.Source,
		"tags":                     c.Tags,
		"website":                  c.Website,
		"facebook_link":            c.FacebookLink,
		"instagram_link":           c.InstagramLink,
		"linkedin_link":            c.LinkedinLink,
		"youtube_link":             c.YoutubeLink,
		"exclusive_member_benefit": c.ExclusiveMemberBenefit,
	}
}

// Merge returns c with every nil field taken from fallback.
func (c CommonProfileFields) Merge(fallback CommonProfileFields) CommonProfileFields {
	return CommonProfileFields{
		CompanyName:            coalesce(c.CompanyName, fallback.CompanyName),
		Email:                  coalesce(c.Email, fallback.Email),
		Source:                 coalesce(c.Source, fallback.Source),
		Tags:                   coalesce(c.Tags, fallback.Tags),
		Website:                coalesce(c.Website, fallback.Website),
		FacebookLink:           coalesce(c.FacebookLink, fallback.FacebookLink),
		InstagramLink:          coalesce(c.InstagramLink, fallback.InstagramLink),
		LinkedinLink:           coalesce(c.LinkedinLink, fallback.LinkedinLink),
		YoutubeLink:            coalesce(c.YoutubeLink, fallback.YoutubeLink),
		ExclusiveMemberBenefit: coalesce(c.ExclusiveMemberBenefit, fallback.ExclusiveMemberBenefit),
	}
}

// Columns pairs each type-dependent column name with its value.
func (f ProfileFields) Columns() map[string]*string {
	return map[string]*string{
		"business_registration_type": f.BusinessRegistrationType,
		"about":                      f.About,
		"company_address":            f.CompanyAddress,
		"city":                       f.City,
		"state":                      f.State,
		"zip_code":                   f.ZipCode,
		"business_starting_year":     f.BusinessStartingYear,
		"work_contract":              f.WorkContract,
		"contact_number":             f.ContactNumber,
		"staff_size":                 f.StaffSize,
		"experience":                 f.Experience,
		"designation":                f.Designation,
		"salary":                     f.Salary,
		"location":                   f.Location,
	}
}

// Merge returns f with every nil field taken from fallback.
func (f ProfileFields) Merge(fallback ProfileFields) ProfileFields {
	return ProfileFields{
		BusinessRegistrationType: coalesce(f.BusinessRegistrationType, fallback.BusinessRegistrationType),
		About:                    coalesce(f.About, fallback.About),
		CompanyAddress:           coalesce(f.CompanyAddress, fallback.CompanyAddress),
		City:                     coalesce(f.City, fallback.City),
		State:                    coalesce(f.State, fallback.State),
		ZipCode:                  coalesce(f.ZipCode, fallback.ZipCode),
		BusinessStartingYear:     coalesce(f.BusinessStartingYear, fallback.BusinessStartingYear),
		WorkContract:             coalesce(f.WorkContract, fallback.WorkContract),
		ContactNumber:            coalesce(f.ContactNumber, fallback.ContactNumber),
		StaffSize:                coalesce(f.StaffSize, fallback.StaffSize),
		Experience:               coalesce(f.Experience, fallback.Experience),
		Designation:              coalesce(f.Designation, fallback.Designation),
		Salary:                   coalesce(f.Salary, fallback.Salary),
		Location:                 coalesce(f.Location, fallback.Location),
	}
}

func coalesce(v, fallback *string) *string {
	if v != nil {
		return v
	}
	return fallback
}
