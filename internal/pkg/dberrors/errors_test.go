package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: MemberEmailConstraint}

	assert.True(t, IsDuplicateConstraintError(dup, MemberEmailConstraint))
	assert.True(t, IsDuplicateConstraintError(fmt.Errorf("insert member: %w", dup), MemberEmailConstraint))
	assert.False(t, IsDuplicateConstraintError(dup, CategoryNameConstraint))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), MemberEmailConstraint))
}

func TestIsForeignKeyError(t *testing.T) {
	assert.True(t, IsForeignKeyError(&pgconn.PgError{Code: "23503", ConstraintName: NotificationMemberFKey}))
	assert.False(t, IsForeignKeyError(&pgconn.PgError{Code: "23505"}))
}
