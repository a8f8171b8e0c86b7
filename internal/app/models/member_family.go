package models

import (
	"time"

	"github.com/yigit/memberdir/internal/domain"
)

// MemberFamily defines the model based on the 'member_families' table
type MemberFamily struct {
	ID       int64 `json:"id" db:"id"`
	MemberID int64 `json:"member_id" db:"member_id"`

	domain.FamilyColumns

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Children returns the decoded children names.
func (f *MemberFamily) Children() []string {
	return domain.DecodeChildrenNames(f.ChildrenNames)
}
