package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

const issuer = "miletracker"

// TokenService signs and checks HS256 access tokens carrying the driver name.
type TokenService struct {
	secret    []byte
	AccessTTL time.Duration
	now       func() time.Time
}

func NewTokenService(secret string, accessTTL time.Duration) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		AccessTTL: accessTTL,
		now:       time.Now,
	}
}

func (s *TokenService) GenerateToken(ctx context.Context, driver string) (models.AccessToken, error) {
	ctx = wrap.WithAction(ctx, "generate_token")
	if driver == "" {
		return models.AccessToken{}, wrap.Error(ctx, errors.New("driver is empty"))
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.AccessTTL)

	claims := models.DriverClaims{
		Driver: driver,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   driver,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return models.AccessToken{}, wrap.Error(ctx, fmt.Errorf("%w: %w", ErrTokenGenerateFail, err))
	}

	return models.AccessToken{
		Token:     signed,
		ExpiresAt: expiresAt,
		Driver:    driver,
	}, nil
}

// Validate parses token and returns its claims. Any failure maps to types.ErrInvalidToken.
func (s *TokenService) Validate(ctx context.Context, token string) (*models.DriverClaims, error) {
	claims := &models.DriverClaims{}

	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidToken, err)
	}
	if claims.Driver == "" {
		return nil, types.ErrInvalidToken
	}
	return claims, nil
}
