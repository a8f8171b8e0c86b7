package domain

import (
	"encoding/json"
	"strings"
)

// FamilyInput is the validated family_details object.
type FamilyInput struct {
	FatherName       *string
	FatherContact    *string
	MotherName       *string
	MotherContact    *string
	Address          *string
	MaritalStatus    *string
	SpouseName       *string
	SpouseContact    *string
	NumberOfChildren *int
	ChildrenNames    []string
}

// Married reports whether spouse and children data may be stored.
func (f FamilyInput) Married() bool {
	return f.MaritalStatus != nil && strings.EqualFold(strings.TrimSpace(*f.MaritalStatus), "married")
}

// FamilyColumns is the persisted family record.
type FamilyColumns struct {
	FatherName       *string `json:"father_name"`
	FatherContact    *string `json:"father_contact"`
	MotherName       *string `json:"mother_name"`
	MotherContact    *string `json:"mother_contact"`
	Address          *string `json:"address"`
	MaritalStatus    *string `json:"marital_status"`
	SpouseName       *string `json:"spouse_name"`
	SpouseContact    *string `json:"spouse_contact"`
	NumberOfChildren *int    `json:"number_of_children"`
	ChildrenNames    *string `json:"children_names"`
}

// ChildrenNamesConsistent reports whether the names list may be stored.
func (f FamilyInput) ChildrenNamesConsistent() bool {
	return f.NumberOfChildren != nil && *f.NumberOfChildren > 0 && len(f.ChildrenNames) == *f.NumberOfChildren
}

// Shape applies the marital-status gate. Children names are serialized only
// when the declared count matches the supplied list exactly.
func (f FamilyInput) Shape() (FamilyColumns, error) {
	cols := FamilyColumns{
		FatherName:    f.FatherName,
		FatherContact: f.FatherContact,
		MotherName:    f.MotherName,
		MotherContact: f.MotherContact,
		Address:       f.Address,
		MaritalStatus: f.MaritalStatus,
	}
	if !f.Married() {
		return cols, nil
	}

	cols.SpouseName = f.SpouseName
	cols.SpouseContact = f.SpouseContact
	cols.NumberOfChildren = f.NumberOfChildren
	if f.ChildrenNamesConsistent() {
		encoded, err := json.Marshal(f.ChildrenNames)
		if err != nil {
			return FamilyColumns{}, err
		}
		names := string(encoded)
		cols.ChildrenNames = &names
	}
	return cols, nil
}

// DecodeChildrenNames parses the stored JSON list.
func DecodeChildrenNames(stored *string) []string {
	if stored == nil || *stored == "" {
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(*stored), &names); err != nil {
		return nil
	}
	return names
}
