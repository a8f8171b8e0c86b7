package dto

import (
	"encoding/json"
	"time"

	"github.com/yigit/memberdir/internal/app/models"
)

// RegisterMemberRequest is the scalar part of a registration. Multipart
// requests carry business_profiles and family_details as JSON text; JSON
// requests may send them as nested values.
type RegisterMemberRequest struct {
	FirstName            string `form:"first_name" json:"first_name" binding:"required"`
	LastName             string `form:"last_name" json:"last_name"`
	Email                string `form:"email" json:"email" binding:"required,email"`
	Password             string `form:"password" json:"password" binding:"required,min=6"`
	MobileNo             string `form:"mobile_no" json:"mobile_no"`
	Gender               string `form:"gender" json:"gender"`
	DateOfBirth          string `form:"date_of_birth" json:"date_of_birth"`
	Address              string `form:"address" json:"address"`
	City                 string `form:"city" json:"city"`
	State                string `form:"state" json:"state"`
	ZipCode              string `form:"zip_code" json:"zip_code"`
	Status               string `form:"status" json:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	AccessLevel          string `form:"access_level" json:"access_level" binding:"omitempty,oneof=Basic Admin"`
	PaidStatus           string `form:"paid_status" json:"paid_status" binding:"omitempty,oneof=Paid Unpaid"`
	MembershipValidUntil string `form:"membership_valid_until" json:"membership_valid_until"`
	OnlineForumMember    bool   `form:"online_forum_member" json:"online_forum_member"`
	OfflineForumMember   bool   `form:"offline_forum_member" json:"offline_forum_member"`
	ReferralCode         string `form:"referral_code" json:"referral_code"`
	ReferralName         string `form:"referral_name" json:"referral_name"`

	BusinessProfilesForm string          `form:"business_profiles" json:"-"`
	FamilyDetailsForm    string          `form:"family_details" json:"-"`
	BusinessProfilesJSON json.RawMessage `form:"-" json:"business_profiles" swaggertype:"array,object"`
	FamilyDetailsJSON    json.RawMessage `form:"-" json:"family_details" swaggertype:"object"`
}

// ClearStanding drops the account-standing fields so the member gets the
// defaults: Pending, Basic and Unpaid with no validity date.
func (r *RegisterMemberRequest) ClearStanding() {
	r.Status, r.AccessLevel, r.PaidStatus, r.MembershipValidUntil = "", "", "", ""
}

// BusinessProfilesPayload returns the business_profiles value whichever way it was sent.
func (r *RegisterMemberRequest) BusinessProfilesPayload() []byte {
	if len(r.BusinessProfilesJSON) > 0 {
		return r.BusinessProfilesJSON
	}
	return []byte(r.BusinessProfilesForm)
}

// FamilyDetailsPayload returns the family_details value whichever way it was sent.
func (r *RegisterMemberRequest) FamilyDetailsPayload() []byte {
	if len(r.FamilyDetailsJSON) > 0 {
		return r.FamilyDetailsJSON
	}
	return []byte(r.FamilyDetailsForm)
}

// RegisterMemberResponse is returned with 201 after a registration commits
type RegisterMemberResponse struct {
	ID                   int64      `json:"id" example:"12"`
	ApplicationID        string     `json:"application_id" example:"MBR-3F9A1C2D"`
	FirstName            string     `json:"first_name" example:"Asha"`
	LastName             *string    `json:"last_name,omitempty" example:"Rao"`
	Email                string     `json:"email" example:"asha@example.com"`
	PaidStatus           string     `json:"paid_status" example:"Unpaid"`
	MembershipValidUntil *time.Time `json:"membership_valid_until"`
	ProfileImage         *string    `json:"profile_image"`
	CreatedAt            time.Time  `json:"created_at"`
}

// NewRegisterMemberResponse builds the response from the in-memory member.
func NewRegisterMemberResponse(m *models.Member) RegisterMemberResponse {
	return RegisterMemberResponse{
		ID:                   m.ID,
		ApplicationID:        m.ApplicationID,
		FirstName:            m.FirstName,
		LastName:             m.LastName,
		Email:                m.Email,
		PaidStatus:           string(m.PaidStatus),
		MembershipValidUntil: m.MembershipValidUntil,
		ProfileImage:         m.ProfileImage,
		CreatedAt:            m.CreatedAt,
	}
}

// UpdateMemberRequest carries the member fields that may change. Nil
// pointers leave the stored value alone.
type UpdateMemberRequest struct {
	FirstName            *string `form:"first_name" json:"first_name" binding:"omitempty,min=1"`
	LastName             *string `form:"last_name" json:"last_name"`
	Email                *string `form:"email" json:"email" binding:"omitempty,email"`
	Password             *string `form:"password" json:"password" binding:"omitempty,min=6"`
	MobileNo             *string `form:"mobile_no" json:"mobile_no"`
	Gender               *string `form:"gender" json:"gender"`
	DateOfBirth          *string `form:"date_of_birth" json:"date_of_birth"`
	Address              *string `form:"address" json:"address"`
	City                 *string `form:"city" json:"city"`
	State                *string `form:"state" json:"state"`
	ZipCode              *string `form:"zip_code" json:"zip_code"`
	Status               *string `form:"status" json:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	AccessLevel          *string `form:"access_level" json:"access_level" binding:"omitempty,oneof=Basic Admin"`
	PaidStatus           *string `form:"paid_status" json:"paid_status" binding:"omitempty,oneof=Paid Unpaid"`
	MembershipValidUntil *string `form:"membership_valid_until" json:"membership_valid_until"`
	OnlineForumMember    *bool   `form:"online_forum_member" json:"online_forum_member"`
	OfflineForumMember   *bool   `form:"offline_forum_member" json:"offline_forum_member"`
}

// LoginRequest represents the login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"asha@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// LoginResponse holds the access token and the authenticated member
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type" example:"Bearer"`
	ExpiresIn   int            `json:"expires_in" example:"86400"`
	Member      *models.Member `json:"member"`
}

// MemberListResponse is one page of members
type MemberListResponse struct {
	Members    []models.Member `json:"members"`
	Pagination PaginationInfo  `json:"pagination"`
}

// MemberDetailResponse is a member with its business profiles and family
type MemberDetailResponse struct {
	*models.Member
	Family *FamilyResponse `json:"family,omitempty"`
}

// NewMemberDetailResponse decodes the family record of m.
func NewMemberDetailResponse(m *models.Member) MemberDetailResponse {
	return MemberDetailResponse{Member: m, Family: NewFamilyResponse(m.Family)}
}
