package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/refcanon/refcanon/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Kind:      "municipality",
			CodeValue: "091",
		}
		assert.Equal(t, "municipality with code value 091 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("region", "01")
		assert.Equal(t, "region with code value 01 not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("postalcode", "00100")
		wrapped := errors.Join(errors.New("lookup failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "codeValue",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field codeValue: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "end date before start date",
		}
		assert.Equal(t, "validation failed: end date before start date", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("codeValue", "12345", "exceeds width 3")
		assert.Contains(t, err.Error(), "codeValue")
		assert.Contains(t, err.Error(), "exceeds width 3")
	})
}

func TestDuplicateKeyError(t *testing.T) {
	err := &pkgerrors.DuplicateKeyError{Dataset: "municipalities", CodeValue: "091"}
	assert.Equal(t, "duplicate code value 091 in municipalities batch", err.Error())
	assert.True(t, pkgerrors.IsDuplicateKey(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestAPIError(t *testing.T) {
	t.Run("server error maps to source unavailable", func(t *testing.T) {
		err := pkgerrors.NewAPIError("business-api", 503, "bad gateway")
		assert.Contains(t, err.Error(), "status 503")
		assert.True(t, pkgerrors.IsSourceUnavailable(err))
	})

	t.Run("not found on first page", func(t *testing.T) {
		err := pkgerrors.NewAPIError("business-api", 404, "no content")
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.False(t, pkgerrors.IsSourceUnavailable(err))
	})

	t.Run("unwrap", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := &pkgerrors.APIError{Source: "business-api", Message: "request failed", Err: inner}
		assert.Equal(t, inner, errors.Unwrap(err))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and line", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "fixed-width",
			File:    "PCF_20240101.dat",
			Line:    42,
			Message: "short record",
		}
		assert.Equal(t, "parse error in fixed-width at PCF_20240101.dat:42: short record", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapParse("csv", "municipalities.csv", nil))
		err := pkgerrors.WrapParse("csv", "municipalities.csv", errors.New("bad quoting"))
		assert.Contains(t, err.Error(), "municipalities.csv")
	})
}

func TestIngestError(t *testing.T) {
	inner := pkgerrors.ErrDuplicateKey
	err := pkgerrors.NewIngestError("municipalities", "municipalities.csv", inner)
	assert.Contains(t, err.Error(), "municipalities.csv")
	assert.True(t, errors.Is(err, pkgerrors.ErrDuplicateKey))
}

func TestWrapHelpersNil(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
	assert.Nil(t, pkgerrors.WrapResource("save", "region", "01", nil))
	assert.Nil(t, pkgerrors.WrapValidation("status", nil))
}
