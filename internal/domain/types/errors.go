package types

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Validation outcomes. Every one of them is final for the submitted candidate.
var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrSameDriverLocal          = errors.New("same driver as the latest local entry")
	ErrSameDriverMirror         = errors.New("same driver as the latest mirror entry")
	ErrOdometerRegressionLocal  = errors.New("odometer below the latest local reading")
	ErrOdometerRegressionMirror = errors.New("odometer below the latest mirror reading")
)

var (
	ErrMirrorUnavailable  = errors.New("mirror unavailable")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrChainConflict      = errors.New("latest entry changed concurrently")

	ErrNotFound           = errors.New("requested item not found")
	ErrInvalidCredentials = errors.New("invalid driver name or pin")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

var printer = message.NewPrinter(language.English)

// RejectionError describes why a candidate reading was refused.
// It unwraps to one of the validation sentinels above.
type RejectionError struct {
	Reason error
	// Driver is the driver that blocks the submission (same-driver rules).
	Driver string
	// Value is the reading that blocks the submission (regression rules).
	Value float64
	// Input is the raw text for invalid input.
	Input string
}

func (e *RejectionError) Error() string {
	switch {
	case errors.Is(e.Reason, ErrInvalidInput):
		return fmt.Sprintf("Please enter a valid odometer reading (got %q).", e.Input)
	case errors.Is(e.Reason, ErrSameDriverLocal):
		return fmt.Sprintf("%s has already logged the last entry. It is the other driver's turn.", e.Driver)
	case errors.Is(e.Reason, ErrSameDriverMirror):
		return fmt.Sprintf("%s has the last entry in the shared sheet. It is the other driver's turn.", e.Driver)
	case errors.Is(e.Reason, ErrOdometerRegressionLocal):
		return fmt.Sprintf("Odometer must be at least %s miles, the latest logged reading.", FormatMiles(e.Value))
	case errors.Is(e.Reason, ErrOdometerRegressionMirror):
		return fmt.Sprintf("Odometer must be at least %s miles, the latest reading in the shared sheet.", FormatMiles(e.Value))
	default:
		return e.Reason.Error()
	}
}

// Code is the stable snake_case name of the rejection reason, used in API
// bodies and metric labels.
func (e *RejectionError) Code() string {
	switch {
	case errors.Is(e.Reason, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(e.Reason, ErrSameDriverLocal):
		return "same_driver_local"
	case errors.Is(e.Reason, ErrSameDriverMirror):
		return "same_driver_mirror"
	case errors.Is(e.Reason, ErrOdometerRegressionLocal):
		return "odometer_regression_local"
	case errors.Is(e.Reason, ErrOdometerRegressionMirror):
		return "odometer_regression_mirror"
	default:
		return "rejected"
	}
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

// IsRejection reports whether err is a validation outcome.
func IsRejection(err error) bool {
	var r *RejectionError
	return errors.As(err, &r)
}

// FormatMiles renders v with thousands separators, e.g. 12,345.6.
func FormatMiles(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
