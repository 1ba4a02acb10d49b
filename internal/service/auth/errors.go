package auth

import "errors"

var (
	ErrTokenGenerateFail = errors.New("failed to generate token")
	ErrNoCredentials     = errors.New("no driver credentials configured")
)
