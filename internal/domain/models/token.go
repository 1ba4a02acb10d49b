package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is returned by a successful login.
type AccessToken struct {
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
	Driver    string    `json:"driver"`
}

type DriverClaims struct {
	Driver string `json:"driver"`
	jwt.RegisteredClaims
}

// Suggestion is an advisory note produced for a trip.
type Suggestion struct {
	Miles float64 `json:"miles"`
	Text  string  `json:"text"`
}
