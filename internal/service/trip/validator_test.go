package trip

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
)

func openEntry(driver string, odo float64) *models.TripEntry {
	return &models.TripEntry{
		ID:            "prev",
		DriverName:    driver,
		StartOdometer: odo,
		StartTime:     time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		Note:          models.DefaultNote,
	}
}

func mirrorOf(driver string, odo float64) models.MirrorState {
	return models.MirrorPresent(models.MirrorSnapshot{DriverName: driver, Odometer: odo, OdometerKnown: true})
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		c      models.Candidate
		local  *models.TripEntry
		mirror models.MirrorState
		want   error
		odo    float64
	}{
		{
			name:   "first entry ever",
			c:      models.Candidate{Driver: "Alice", Odometer: "100"},
			mirror: models.MirrorAbsent(),
			odo:    100,
		},
		{
			name:   "not a number",
			c:      models.Candidate{Driver: "Alice", Odometer: "abc"},
			mirror: models.MirrorAbsent(),
			want:   types.ErrInvalidInput,
		},
		{
			name:   "negative",
			c:      models.Candidate{Driver: "Alice", Odometer: "-1"},
			mirror: models.MirrorAbsent(),
			want:   types.ErrInvalidInput,
		},
		{
			name:   "infinite",
			c:      models.Candidate{Driver: "Alice", Odometer: "Inf"},
			mirror: models.MirrorAbsent(),
			want:   types.ErrInvalidInput,
		},
		{
			name:   "empty driver",
			c:      models.Candidate{Driver: "  ", Odometer: "5"},
			mirror: models.MirrorAbsent(),
			want:   types.ErrInvalidInput,
		},
		{
			name:   "invalid input wins over every other rule",
			c:      models.Candidate{Driver: "Alice", Odometer: ""},
			local:  openEntry("Alice", 100),
			mirror: mirrorOf("Alice", 200),
			want:   types.ErrInvalidInput,
		},
		{
			name:   "same driver local ignores case",
			c:      models.Candidate{Driver: "alice", Odometer: "150"},
			local:  openEntry("Alice", 100),
			mirror: models.MirrorAbsent(),
			want:   types.ErrSameDriverLocal,
		},
		{
			name:   "same driver local wins over mirror rules",
			c:      models.Candidate{Driver: "Alice", Odometer: "50"},
			local:  openEntry("Alice", 100),
			mirror: mirrorOf("Alice", 200),
			want:   types.ErrSameDriverLocal,
		},
		{
			name:   "same driver mirror wins over local regression",
			c:      models.Candidate{Driver: "Bob", Odometer: "50"},
			local:  openEntry("Alice", 100),
			mirror: mirrorOf("BOB", 200),
			want:   types.ErrSameDriverMirror,
		},
		{
			name:   "local regression",
			c:      models.Candidate{Driver: "Bob", Odometer: "90"},
			local:  openEntry("Alice", 100),
			mirror: models.MirrorAbsent(),
			want:   types.ErrOdometerRegressionLocal,
		},
		{
			name:   "equal reading is accepted",
			c:      models.Candidate{Driver: "Bob", Odometer: "100"},
			local:  openEntry("Alice", 100),
			mirror: mirrorOf("Alice", 100),
			odo:    100,
		},
		{
			name:   "mirror regression",
			c:      models.Candidate{Driver: "Bob", Odometer: "150"},
			local:  openEntry("Alice", 100),
			mirror: mirrorOf("Alice", 200),
			want:   types.ErrOdometerRegressionMirror,
		},
		{
			name:   "unavailable mirror disables mirror rules",
			c:      models.Candidate{Driver: "Bob", Odometer: "150"},
			local:  openEntry("Alice", 100),
			mirror: models.MirrorUnavailable("timeout"),
			odo:    150,
		},
		{
			name:   "mirror row with unknown reading only checks the driver",
			c:      models.Candidate{Driver: "Bob", Odometer: "1"},
			mirror: models.MirrorPresent(models.MirrorSnapshot{DriverName: "Alice"}),
			odo:    1,
		},
		{
			name:   "thousands separators and spaces",
			c:      models.Candidate{Driver: "Bob", Odometer: " 12,345.5 "},
			mirror: models.MirrorAbsent(),
			odo:    12345.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			odo, err := Validate(tt.c, tt.local, tt.mirror)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
				assert.True(t, types.IsRejection(err))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.odo, odo, 1e-9)
		})
	}
}

func TestValidate_RejectionCarriesBlockingValue(t *testing.T) {
	_, err := Validate(models.Candidate{Driver: "Bob", Odometer: "90"}, openEntry("Alice", 1500), models.MirrorAbsent())

	var r *types.RejectionError
	require.ErrorAs(t, err, &r)
	assert.InDelta(t, 1500, r.Value, 1e-9)
	assert.Contains(t, err.Error(), "1,500")

	_, err = Validate(models.Candidate{Driver: "Bob", Odometer: "300"}, nil, mirrorOf("Bob", 200))
	require.ErrorAs(t, err, &r)
	assert.Equal(t, "Bob", r.Driver)
}

func TestParseOdometer(t *testing.T) {
	valid := map[string]float64{
		"0":          0,
		"12000":      12000,
		"12,000":     12000,
		" 1,234,567": 1234567,
		"12,345.5":   12345.5,
		"999.25":     999.25,
		"007":        7,
	}
	for raw, want := range valid {
		v, ok := ParseOdometer(raw)
		require.True(t, ok, raw)
		assert.InDelta(t, want, v, 1e-9, raw)
		assert.False(t, math.Signbit(v), raw)
	}

	invalid := []string{
		"", " ", "12a", "NaN", "Inf", "1e400", "1e3",
		"12,34", "1,2,3", "1.234,5", ",123", "123,", "1,0000", "12,345,67",
		"0x1p4", "0x10", "-0", "-1", "+5", ".5", "5.", "1_000",
		strings.Repeat("9", 400),
	}
	for _, raw := range invalid {
		_, ok := ParseOdometer(raw)
		assert.False(t, ok, raw)
	}
}

func TestValidate_MalformedGroupingIsInvalidInput(t *testing.T) {
	for _, raw := range []string{"12,34", "1,2,3", "1.234,5", "0x1p4", "-0"} {
		_, err := Validate(models.Candidate{Driver: "Bob", Odometer: raw}, nil, models.MirrorAbsent())
		require.ErrorIs(t, err, types.ErrInvalidInput, raw)
	}
}

func TestNextDriver(t *testing.T) {
	drivers := []string{"Srikanth", "Rahul"}
	assert.Equal(t, "Rahul", NextDriver("srikanth", drivers))
	assert.Equal(t, "Srikanth", NextDriver("Rahul", drivers))
	assert.Equal(t, "", NextDriver("Unknown", drivers))
	assert.Equal(t, "", NextDriver("", drivers))
}
