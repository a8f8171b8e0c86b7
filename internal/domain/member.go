package domain

import (
	"time"
)

// MemberStatus is the approval state of a member account.
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "Pending"
	MemberStatusApproved MemberStatus = "Approved"
	MemberStatusRejected MemberStatus = "Rejected"
)

// PaidStatus tells whether a membership window is active.
type PaidStatus string

const (
	PaidStatusPaid   PaidStatus = "Paid"
	PaidStatusUnpaid PaidStatus = "Unpaid"
)

// AccessLevel gates the admin endpoints.
type AccessLevel string

const (
	AccessLevelBasic AccessLevel = "Basic"
	AccessLevelAdmin AccessLevel = "Admin"
)

// ReferralRewardPoints is credited to the referrer for every registration.
const ReferralRewardPoints = 10

// NormalizeMembership enforces that a validity date only exists for paid
// memberships. Anything other than "Paid" clears the date.
func NormalizeMembership(status PaidStatus, validUntil *time.Time) (PaidStatus, *time.Time) {
	if status != PaidStatusPaid {
		if status == "" {
			status = PaidStatusUnpaid
		}
		return status, nil
	}
	return status, validUntil
}

// MembershipExpired reports whether a paid membership has lapsed at now.
func MembershipExpired(status PaidStatus, validUntil *time.Time, now time.Time) bool {
	return status == PaidStatusPaid && validUntil != nil && validUntil.Before(now)
}

// MemberInput is the validated scalar part of a registration.
type MemberInput struct {
	FirstName            string
	LastName             *string
	Email                string
	Password             string
	MobileNo             *string
	Gender               *string
	DateOfBirth          *time.Time
	Address              *string
	City                 *string
	State                *string
	ZipCode              *string
	Status               MemberStatus
	AccessLevel          AccessLevel
	PaidStatus           PaidStatus
	MembershipValidUntil *time.Time
	OnlineForumMember    bool
	OfflineForumMember   bool
}
