package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	"github.com/Temutjin2k/miletracker/pkg/passhash"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()

	hashed, err := passhash.HashPasswordWithCost("2113", bcrypt.MinCost)
	require.NoError(t, err)

	s, err := NewAuthService(
		[]Credential{{Name: "Srikanth", PIN: "2223"}, {Name: "Rahul", PIN: hashed}},
		NewTokenService("test-secret", time.Hour),
		bcrypt.MinCost,
		logger.Discard(),
	)
	require.NoError(t, err)
	return s
}

func TestLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tok, err := s.Login(ctx, "  srikanth ", "2223")
	require.NoError(t, err)
	assert.Equal(t, "Srikanth", tok.Driver)
	assert.NotEmpty(t, tok.Token)

	driver, err := s.Authenticate(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "Srikanth", driver)

	// pre-hashed PIN
	_, err = s.Login(ctx, "RAHUL", "2113")
	require.NoError(t, err)
}

func TestLogin_Rejected(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Login(ctx, "Srikanth", "0000")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)

	_, err = s.Login(ctx, "Nobody", "2223")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)

	_, err = s.Login(ctx, "Srikanth", "")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestNewAuthService_NoCredentials(t *testing.T) {
	_, err := NewAuthService(nil, NewTokenService("x", time.Hour), bcrypt.MinCost, logger.Discard())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestDrivers(t *testing.T) {
	assert.Equal(t, []string{"Srikanth", "Rahul"}, newTestService(t).Drivers())
}

func TestValidate_Expired(t *testing.T) {
	ts := NewTokenService("secret", time.Minute)
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return issued }

	tok, err := ts.GenerateToken(context.Background(), "Rahul")
	require.NoError(t, err)

	ts.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = ts.Validate(context.Background(), tok.Token)
	assert.ErrorIs(t, err, types.ErrInvalidToken)
}

func TestValidate_WrongSecretAndAlgorithm(t *testing.T) {
	ctx := context.Background()
	a := NewTokenService("a", time.Hour)
	b := NewTokenService("b", time.Hour)

	tok, err := a.GenerateToken(ctx, "Rahul")
	require.NoError(t, err)
	_, err = b.Validate(ctx, tok.Token)
	assert.ErrorIs(t, err, types.ErrInvalidToken)

	claims := models.DriverClaims{
		Driver: "Rahul",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = a.Validate(ctx, unsigned)
	assert.ErrorIs(t, err, types.ErrInvalidToken)
}

func TestAuthenticate_UnknownDriver(t *testing.T) {
	s := newTestService(t)
	tok, err := s.tokens.GenerateToken(context.Background(), "Ghost")
	require.NoError(t, err)

	_, err = s.Authenticate(context.Background(), tok.Token)
	assert.ErrorIs(t, err, types.ErrInvalidToken)
}
