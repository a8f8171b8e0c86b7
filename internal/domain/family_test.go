package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestFamilyShape(t *testing.T) {
	t.Run("married with matching children", func(t *testing.T) {
		in := FamilyInput{
			FatherName:       strPtr("Ram"),
			MaritalStatus:    strPtr(" Married "),
			SpouseName:       strPtr("Sita"),
			NumberOfChildren: intPtr(2),
			ChildrenNames:    []string{"A", "B"},
		}
		cols, err := in.Shape()
		require.NoError(t, err)
		assert.Equal(t, "Sita", *cols.SpouseName)
		assert.Equal(t, 2, *cols.NumberOfChildren)
		assert.Equal(t, []string{"A", "B"}, DecodeChildrenNames(cols.ChildrenNames))
	})

	t.Run("married with count mismatch drops names", func(t *testing.T) {
		in := FamilyInput{
			MaritalStatus:    strPtr("married"),
			NumberOfChildren: intPtr(2),
			ChildrenNames:    []string{"A"},
		}
		cols, err := in.Shape()
		require.NoError(t, err)
		assert.Equal(t, 2, *cols.NumberOfChildren)
		assert.Nil(t, cols.ChildrenNames)
	})

	t.Run("single drops spouse and children", func(t *testing.T) {
		in := FamilyInput{
			FatherName:       strPtr("Ram"),
			Address:          strPtr("Street 1"),
			MaritalStatus:    strPtr("Single"),
			SpouseName:       strPtr("Nobody"),
			NumberOfChildren: intPtr(1),
			ChildrenNames:    []string{"A"},
		}
		cols, err := in.Shape()
		require.NoError(t, err)
		assert.Equal(t, "Ram", *cols.FatherName)
		assert.Equal(t, "Street 1", *cols.Address)
		assert.Nil(t, cols.SpouseName)
		assert.Nil(t, cols.NumberOfChildren)
		assert.Nil(t, cols.ChildrenNames)
	})
}

func TestNormalizeMembership(t *testing.T) {
	until := time.Now().Add(24 * time.Hour)

	status, date := NormalizeMembership(PaidStatusPaid, &until)
	assert.Equal(t, PaidStatusPaid, status)
	assert.Equal(t, &until, date)

	status, date = NormalizeMembership(PaidStatusUnpaid, &until)
	assert.Equal(t, PaidStatusUnpaid, status)
	assert.Nil(t, date)

	status, date = NormalizeMembership("", &until)
	assert.Equal(t, PaidStatusUnpaid, status)
	assert.Nil(t, date)
}

func TestMembershipExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, MembershipExpired(PaidStatusPaid, &past, now))
	assert.False(t, MembershipExpired(PaidStatusPaid, &future, now))
	assert.False(t, MembershipExpired(PaidStatusPaid, nil, now))
	assert.False(t, MembershipExpired(PaidStatusUnpaid, &past, now))
}
