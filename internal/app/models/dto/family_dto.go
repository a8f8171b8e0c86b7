package dto

import (
	"time"

	"github.com/yigit/memberdir/internal/app/models"
)

// Keys accepted in a family_details object.
var (
	KeyFatherName       = []string{"father_name", "fatherName"}
	KeyFatherContact    = []string{"father_contact", "fatherContact"}
	KeyMotherName       = []string{"mother_name", "motherName"}
	KeyMotherContact    = []string{"mother_contact", "motherContact"}
	KeyFamilyAddress    = []string{"address"}
	KeyMaritalStatus    = []string{"marital_status", "maritalStatus"}
	KeySpouseName       = []string{"spouse_name", "spouseName"}
	KeySpouseContact    = []string{"spouse_contact", "spouseContact"}
	KeyNumberOfChildren = []string{"number_of_children", "numberOfChildren"}
	KeyChildrenNames    = "children_names"
)

// FamilyResponse exposes a family record with decoded children names
type FamilyResponse struct {
	ID               int64     `json:"id"`
	MemberID         int64     `json:"member_id"`
	FatherName       *string   `json:"father_name"`
	FatherContact    *string   `json:"father_contact"`
	MotherName       *string   `json:"mother_name"`
	MotherContact    *string   `json:"mother_contact"`
	Address          *string   `json:"address"`
	MaritalStatus    *string   `json:"marital_status"`
	SpouseName       *string   `json:"spouse_name"`
	SpouseContact    *string   `json:"spouse_contact"`
	NumberOfChildren *int      `json:"number_of_children"`
	ChildrenNames    []string  `json:"children_names"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewFamilyResponse converts a stored family record.
func NewFamilyResponse(f *models.MemberFamily) *FamilyResponse {
	if f == nil {
		return nil
	}
	return &FamilyResponse{
		ID:               f.ID,
		MemberID:         f.MemberID,
		FatherName:       f.FatherName,
		FatherContact:    f.FatherContact,
		MotherName:       f.MotherName,
		MotherContact:    f.MotherContact,
		Address:          f.Address,
		MaritalStatus:    f.MaritalStatus,
		SpouseName:       f.SpouseName,
		SpouseContact:    f.SpouseContact,
		NumberOfChildren: f.NumberOfChildren,
		ChildrenNames:    f.Children(),
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}
