package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/helpers"
)

func familyBody(t *testing.T, raw string) dto.RawObject {
	t.Helper()
	obj, err := dto.ParseRawObject(json.RawMessage(raw))
	require.NoError(t, err)
	return obj
}

func TestFamilyChildrenNames(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"matching count", `{"marital_status":"Married","number_of_children":2,"children_names":["A","B"]}`, []string{"A", "B"}},
		{"count mismatch", `{"marital_status":"Married","number_of_children":2,"children_names":["A"]}`, nil},
		{"names as json text", `{"marital_status":"married","number_of_children":"1","children_names":"[\"A\"]"}`, []string{"A"}},
		{"not married", `{"marital_status":"Single","number_of_children":1,"children_names":["A"]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			m := fx.seedMember(t, "asha@example.com", 0)

			f, err := fx.families.AddFamily(context.Background(), m.ID, familyBody(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Children())
			if tt.want == nil {
				assert.Nil(t, f.ChildrenNames)
			}
		})
	}
}

func TestFamilySpouseOnlyWhenMarried(t *testing.T) {
	fx := newFixture(t)
	m := fx.seedMember(t, "asha@example.com", 0)

	f, err := fx.families.AddFamily(context.Background(), m.ID, familyBody(t,
		`{"father_name":"Ravi","address":"1 Main St","marital_status":"Single","spouse_name":"Mira","number_of_children":1}`))
	require.NoError(t, err)
	assert.Equal(t, "Ravi", helpers.Deref(f.FatherName))
	assert.Equal(t, "1 Main St", helpers.Deref(f.Address))
	assert.Nil(t, f.SpouseName)
	assert.Nil(t, f.NumberOfChildren)
}

func TestAddFamilyConflictAndUpsert(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	m := fx.seedMember(t, "asha@example.com", 0)

	first, err := fx.families.AddFamily(ctx, m.ID, familyBody(t, `{"father_name":"Ravi"}`))
	require.NoError(t, err)

	_, err = fx.families.AddFamily(ctx, m.ID, familyBody(t, `{"father_name":"Someone"}`))
	assert.ErrorIs(t, err, apperrors.ErrFamilyAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	replaced, err := fx.families.UpsertFamily(ctx, m.ID, familyBody(t, `{"mother_name":"Lata"}`))
	require.NoError(t, err)
	assert.Equal(t, first.ID, replaced.ID)
	assert.Nil(t, replaced.FatherName)
	assert.Equal(t, "Lata", helpers.Deref(replaced.MotherName))
	assert.Equal(t, 1, fx.store.Counts().Families)

	got, err := fx.families.GetFamily(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lata", helpers.Deref(got.MotherName))

	require.NoError(t, fx.families.DeleteFamily(ctx, first.ID))
	_, err = fx.families.GetFamily(ctx, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	created, err := fx.families.UpsertFamily(ctx, m.ID, familyBody(t, `{"father_name":"Ravi"}`))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, created.ID)
}

func TestFamilyValidation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	m := fx.seedMember(t, "asha@example.com", 0)

	_, err := fx.families.AddFamily(ctx, m.ID, dto.RawObject{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = fx.families.AddFamily(ctx, m.ID, familyBody(t, `{"number_of_children":"two"}`))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = fx.families.AddFamily(ctx, 999, familyBody(t, `{"father_name":"Ravi"}`))
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
