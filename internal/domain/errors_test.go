package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/turnos-api/internal/domain"
)

func TestTypedErrors_UnwrapASentinela(t *testing.T) {
	var err error = &domain.QuotaError{Current: 3, Limit: 4}
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, "You can only have up to 4 days off. You currently have 3.", err.Error())

	err = fmt.Errorf("request days off: %w", &domain.DateUnavailableError{Date: "2025-09-10"})
	assert.ErrorIs(t, err, domain.ErrDateUnavailable)
	var du *domain.DateUnavailableError
	assert.True(t, errors.As(err, &du))
	assert.Equal(t, "2025-09-10", du.Date)

	err = &domain.DuplicateDateError{Date: "2025-09-11"}
	assert.ErrorIs(t, err, domain.ErrDuplicateDate)
	assert.NotErrorIs(t, err, domain.ErrDateUnavailable)
}
