package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRejectionError_UnwrapsToReason(t *testing.T) {
	err := fmt.Errorf("submit: %w", &RejectionError{Reason: ErrSameDriverMirror, Driver: "Rahul"})

	assert.ErrorIs(t, err, ErrSameDriverMirror)
	assert.False(t, errors.Is(err, ErrSameDriverLocal))
	assert.True(t, IsRejection(err))
	assert.Contains(t, err.Error(), "Rahul")
}

func TestRejectionError_MessageGroupsThousands(t *testing.T) {
	err := &RejectionError{Reason: ErrOdometerRegressionLocal, Value: 12345.6}
	assert.Contains(t, err.Error(), "12,345.6")
}

func TestIsRejection_PlainError(t *testing.T) {
	assert.False(t, IsRejection(ErrPersistenceFailure))
}

func TestFormatMiles(t *testing.T) {
	assert.Equal(t, "1,000", FormatMiles(1000))
	assert.Equal(t, "0", FormatMiles(0))
}

func TestRejectionError_Code(t *testing.T) {
	tests := map[error]string{
		ErrInvalidInput:             "invalid_input",
		ErrSameDriverLocal:          "same_driver_local",
		ErrSameDriverMirror:         "same_driver_mirror",
		ErrOdometerRegressionLocal:  "odometer_regression_local",
		ErrOdometerRegressionMirror: "odometer_regression_mirror",
		errors.New("other"):         "rejected",
	}
	for reason, want := range tests {
		assert.Equal(t, want, (&RejectionError{Reason: reason}).Code(), reason.Error())
	}
}
