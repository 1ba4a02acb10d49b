package trip

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
)

// Validate decides whether candidate c may follow latestLocal and the mirror snapshot.
// Rules run in a fixed order and the first failure wins:
//
//  1. the reading is a finite, non-negative number
//  2. the local latest entry belongs to another driver
//  3. the mirror latest row belongs to another driver
//  4. the reading is not below the local latest start reading
//  5. the reading is not below the mirror latest reading
//
// An absent local entry or an absent/unavailable mirror disables the rules that need it.
// On success the parsed reading is returned.
func Validate(c models.Candidate, latestLocal *models.TripEntry, mirror models.MirrorState) (float64, error) {
	odometer, ok := ParseOdometer(c.Odometer)
	if !ok || strings.TrimSpace(c.Driver) == "" {
		return 0, &types.RejectionError{Reason: types.ErrInvalidInput, Input: c.Odometer}
	}

	snap, hasMirror := mirror.Present()

	if latestLocal != nil && SameDriver(latestLocal.DriverName, c.Driver) {
		return 0, &types.RejectionError{Reason: types.ErrSameDriverLocal, Driver: latestLocal.DriverName}
	}

	if hasMirror && SameDriver(snap.DriverName, c.Driver) {
		return 0, &types.RejectionError{Reason: types.ErrSameDriverMirror, Driver: snap.DriverName}
	}

	if latestLocal != nil && odometer < latestLocal.StartOdometer {
		return 0, &types.RejectionError{Reason: types.ErrOdometerRegressionLocal, Value: latestLocal.StartOdometer}
	}

	if hasMirror && snap.OdometerKnown && odometer < snap.Odometer {
		return 0, &types.RejectionError{Reason: types.ErrOdometerRegressionMirror, Value: snap.Odometer}
	}

	return odometer, nil
}

// odometerPattern is plain digits or comma-grouped thousands, with an optional fraction.
// Signs, exponents and hex forms never match.
var odometerPattern = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?$`)

// ParseOdometer accepts a decimal reading such as 12345, 12,345 or 12,345.6.
func ParseOdometer(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if !odometerPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SameDriver compares names ignoring case and surrounding spaces.
func SameDriver(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// NextDriver guesses whose turn it is from the latest known driver. Empty when unknown.
func NextDriver(latest string, drivers []string) string {
	if latest == "" || len(drivers) != 2 {
		return ""
	}
	for i, d := range drivers {
		if SameDriver(d, latest) {
			return drivers[1-i]
		}
	}
	return ""
}
