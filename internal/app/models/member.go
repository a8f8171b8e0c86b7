package models

import (
	"time"

	"github.com/yigit/memberdir/internal/domain"
)

// Member defines the member model based on the 'members' table
type Member struct {
	ID                   int64               `json:"id" db:"id" example:"1"`
	ApplicationID        string              `json:"application_id" db:"application_id" example:"MBR-3F9A1C2D"` // External identifier, doubles as referral code
	FirstName            string              `json:"first_name" db:"first_name" example:"Asha"`
	LastName             *string             `json:"last_name,omitempty" db:"last_name" example:"Rao"`
	Email                string              `json:"email" db:"email" example:"asha@example.com"`
	Password             string              `json:"-" db:"password"`
	MobileNo             *string             `json:"mobile_no,omitempty" db:"mobile_no"`
	Gender               *string             `json:"gender,omitempty" db:"gender"`
	DateOfBirth          *time.Time          `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Address              *string             `json:"address,omitempty" db:"address"`
	City                 *string             `json:"city,omitempty" db:"city"`
	State                *string             `json:"state,omitempty" db:"state"`
	ZipCode              *string             `json:"zip_code,omitempty" db:"zip_code"`
	ProfileImage         *string             `json:"profile_image,omitempty" db:"profile_image" example:"uploads/profile-images/9b2f.jpg"`
	ReferralName         *string             `json:"referral_name,omitempty" db:"referral_name"`
	Status               domain.MemberStatus `json:"status" db:"status" example:"Pending"`
	AccessLevel          domain.AccessLevel  `json:"access_level" db:"access_level" example:"Basic"`
	PaidStatus           domain.PaidStatus   `json:"paid_status" db:"paid_status" example:"Unpaid"`
	MembershipValidUntil *time.Time          `json:"membership_valid_until" db:"membership_valid_until"`        // Only set while PaidStatus is Paid
	OnlineForumMember    bool                `json:"online_forum_member" db:"online_forum_member"`
	OfflineForumMember   bool                `json:"offline_forum_member" db:"offline_forum_member"`
	RewardPoints         int                 `json:"reward_points" db:"reward_points"`
	CreatedAt            time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at" db:"updated_at"`

	BusinessProfiles []BusinessProfile `json:"business_profiles,omitempty"` // Relation, no db tag
	Family           *MemberFamily     `json:"family,omitempty"`            // Relation, no db tag
}

// IsAdmin reports whether the member may use admin endpoints.
func (m *Member) IsAdmin() bool {
	return m.AccessLevel == domain.AccessLevelAdmin
}
