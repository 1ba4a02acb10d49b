package trip

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
)

const dateLayout = "2006-01-02"

// Chain returns a copy of entries sorted by StartTime ascending (ties by ID) in which
// every entry but the last ends where its successor starts. The last entry keeps its stored end.
func Chain(entries []models.TripEntry) []models.TripEntry {
	out := make([]models.TripEntry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})

	for i := 0; i+1 < len(out); i++ {
		next := out[i+1]
		out[i].EndOdometer = models.Float(next.StartOdometer)
		out[i].EndTime = models.Time(next.StartTime)
	}
	return out
}

// Totals sums Distance per driver over the entries whose StartTime lies in w.
// Drivers are returned sorted by name.
func Totals(entries []models.TripEntry, w models.Window) models.Totals {
	sums := make(map[string]*models.DriverTotal)
	res := models.Totals{Window: w}

	for _, e := range entries {
		if !w.Contains(e.StartTime) {
			continue
		}
		d := e.Distance()
		dt, ok := sums[e.DriverName]
		if !ok {
			dt = &models.DriverTotal{DriverName: e.DriverName}
			sums[e.DriverName] = dt
		}
		dt.Miles += d
		dt.Trips++
		res.Miles += d
		res.Entries++
	}

	res.Drivers = make([]models.DriverTotal, 0, len(sums))
	for _, dt := range sums {
		res.Drivers = append(res.Drivers, *dt)
	}
	sort.Slice(res.Drivers, func(i, j int) bool {
		return strings.ToLower(res.Drivers[i].DriverName) < strings.ToLower(res.Drivers[j].DriverName)
	})
	return res
}

// DefaultWindow is the half month containing now: the 1st to the 15th while the day is
// at most 15, otherwise the 15th to the last day. Both days are whole.
func DefaultWindow(now time.Time, loc *time.Location) models.Window {
	now = now.In(loc)
	y, m, d := now.Date()

	if d <= 15 {
		return dayRange(time.Date(y, m, 1, 0, 0, 0, 0, loc), time.Date(y, m, 15, 0, 0, 0, 0, loc))
	}
	return dayRange(time.Date(y, m, 15, 0, 0, 0, 0, loc), time.Date(y, m+1, 0, 0, 0, 0, 0, loc))
}

// ParseWindow builds a whole-day window from YYYY-MM-DD dates. An empty bound takes the
// matching bound of the default window.
func ParseWindow(from, to string, now time.Time, loc *time.Location) (models.Window, error) {
	w := DefaultWindow(now, loc)

	if from != "" {
		f, err := time.ParseInLocation(dateLayout, from, loc)
		if err != nil {
			return models.Window{}, &types.RejectionError{Reason: types.ErrInvalidInput, Input: from}
		}
		w.From = f
	}
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, loc)
		if err != nil {
			return models.Window{}, &types.RejectionError{Reason: types.ErrInvalidInput, Input: to}
		}
		w.To = endOfDay(t)
	}
	if w.To.Before(w.From) {
		return models.Window{}, fmt.Errorf("%w: window ends before it starts", types.ErrInvalidInput)
	}
	return w, nil
}

func dayRange(from, to time.Time) models.Window {
	return models.Window{From: from, To: endOfDay(to)}
}

func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Millisecond)
}
