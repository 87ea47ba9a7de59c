package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("ground_truth is required")

	assert.Equal(t, "ground_truth is required", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("decay_base must be in (0, 1)")
	err := apperr.NewValidationWrap("invalid CTA policy", inner)

	assert.Equal(t, "invalid CTA policy: decay_base must be in (0, 1)", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestValidationError_SurvivesWrapping(t *testing.T) {
	original := apperr.NewValidation("limit must be a positive number")
	wrapped := fmt.Errorf("leaderboard: %w", fmt.Errorf("parse query: %w", original))

	var ve *apperr.ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "limit must be a positive number", ve.Message)
}

func TestValidationError_AbsentFromPlainErrors(t *testing.T) {
	wrapped := fmt.Errorf("save evaluation: %w", errors.New("connection refused"))

	var ve *apperr.ValidationError
	assert.False(t, errors.As(wrapped, &ve))
}
