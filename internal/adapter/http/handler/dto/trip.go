package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/pkg/validator"
)

// Reading is an odometer value sent either as a JSON number or as text.
// Text is kept as typed so that "12,345" reaches validation unchanged.
type Reading string

func (r *Reading) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Reading(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("odometer must be a number or a string")
	}
	*r = Reading(n.String())
	return nil
}

type SubmitTripRequest struct {
	Odometer Reading `json:"odometer"`
	Note     string  `json:"note,omitempty"`
}

// ToModel binds the request to the authenticated driver.
func (r *SubmitTripRequest) ToModel(driver string) models.Candidate {
	return models.Candidate{
		Driver:   driver,
		Odometer: string(r.Odometer),
		Note:     r.Note,
	}
}

func ValidateSubmitTrip(v *validator.Validator, req *SubmitTripRequest) {
	v.Check(validator.NotBlank(string(req.Odometer)), "odometer", "must be provided")
	v.Check(validator.MaxChars(req.Note, 500), "note", "must not be more than 500 characters long")
}

type SuggestionRequest struct {
	Miles float64 `json:"miles"`
}

func ValidateSuggestion(v *validator.Validator, req *SuggestionRequest) {
	v.Check(req.Miles >= 0, "miles", "must not be negative")
}

// ValidateWindow checks optional YYYY-MM-DD query bounds.
func ValidateWindow(v *validator.Validator, from, to string) {
	v.Check(from == "" || validator.Matches(from, validator.DateRX), "from", "must be a date in YYYY-MM-DD format")
	v.Check(to == "" || validator.Matches(to, validator.DateRX), "to", "must be a date in YYYY-MM-DD format")
}

// TripResponse is one chained entry with its derived distance.
type TripResponse struct {
	models.TripEntry
	Distance *float64 `json:"distance,omitempty"`
}

func NewTripResponse(e models.TripEntry) TripResponse {
	resp := TripResponse{TripEntry: e}
	if !e.IsOpen() {
		resp.Distance = models.Float(e.Distance())
	}
	return resp
}

func NewTripResponses(entries []models.TripEntry) []TripResponse {
	out := make([]TripResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewTripResponse(e))
	}
	return out
}

// LatestResponse is the state a driver sees before submitting.
type LatestResponse struct {
	Latest   *TripResponse      `json:"latest"`
	Mirror   models.MirrorState `json:"mirror"`
	NextTurn string             `json:"next_turn,omitempty"`
	AsOf     time.Time          `json:"as_of"`
}
