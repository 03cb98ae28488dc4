package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPasswordHash("password123", hash))
	assert.False(t, CheckPasswordHash("password124", hash))

	again, err := HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes must be salted")
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	type payload struct {
		MovieID string `json:"movieId" validate:"required,uuid"`
		Quality *int   `json:"quality,omitempty" validate:"omitempty,min=1,max=5"`
	}
	zero := 0

	errs := ValidateStruct(payload{MovieID: "nope", Quality: &zero})

	assert.Equal(t, "Must be a valid UUID", errs["movieId"])
	assert.Equal(t, "Minimum value is 1", errs["quality"])
	assert.Equal(t, "movieId: Must be a valid UUID; quality: Minimum value is 1", FormatValidationErrors(errs))
}

func TestResponseNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	ResponseNoContent(rec)

	assert.Equal(t, 204, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestValidateReturnsValidationError(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}

	err := Validate(payload{Email: "not-an-email"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid email format", verr.Fields["email"])

	assert.NoError(t, Validate(payload{Email: "a@example.com"}))
}

func TestValidateMaxBytesCountsBytes(t *testing.T) {
	type payload struct {
		Password string `json:"password" validate:"max=72,maxbytes=72"`
	}

	errs := ValidateStruct(payload{Password: strings.Repeat("é", 40)})
	assert.Equal(t, "Maximum length is 72 bytes", errs["password"])

	assert.Empty(t, ValidateStruct(payload{Password: strings.Repeat("a", 72)}))
}
