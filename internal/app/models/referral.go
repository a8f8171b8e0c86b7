package models

import "time"

// Referral links a newly registered member to the member whose
// application id was given as referral code.
type Referral struct {
	ID           int64     `json:"id" db:"id"`
	ReferrerID   int64     `json:"referrer_id" db:"referrer_id"`
	ReferredID   int64     `json:"referred_id" db:"referred_id"`
	ReferralCode string    `json:"referral_code" db:"referral_code"`
	RewardPoints int       `json:"reward_points" db:"reward_points"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
