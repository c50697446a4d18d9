package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	sentinel := NotFound("division not found")

	assert.Equal(t, KindNotFound, KindOf(sentinel))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrap: %w", sentinel)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestSentinelIdentity(t *testing.T) {
	a := Conflict("user already assigned to this division")
	b := Conflict("user already assigned to this division")

	assert.True(t, errors.Is(fmt.Errorf("ctx: %w", a), a))
	assert.False(t, errors.Is(a, b), "不同实例不应相等")
}

func TestFormatting(t *testing.T) {
	err := Validation("invalid role %q", "root")
	assert.Equal(t, `invalid role "root"`, err.Error())
	assert.Equal(t, KindValidation, err.Kind)

	plain := Forbidden("100% denied")
	assert.Equal(t, "100% denied", plain.Error(), "无参数时不应格式化")
}

func TestValidationFields(t *testing.T) {
	err := ValidationFields("validation failed", []FieldError{{Field: "title", Message: "title is required"}})

	e, ok := As(fmt.Errorf("wrap: %w", err))
	require.True(t, ok)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "title", e.Fields[0].Field)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("duplicate")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "internal", Kind(99).String())
}
