package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/passhash"
)

// Credential is a configured driver. PIN may be plain or an existing bcrypt hash.
type Credential struct {
	Name string
	PIN  string
}

type driver struct {
	name string
	hash string
}

// AuthService is the PIN login for the fixed set of configured drivers.
type AuthService struct {
	drivers []driver
	// dummy keeps unknown-name logins as slow as wrong-PIN ones.
	dummy  string
	tokens *TokenService
	log    logger.Logger
}

func NewAuthService(creds []Credential, tokens *TokenService, cost int, log logger.Logger) (*AuthService, error) {
	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}

	s := &AuthService{tokens: tokens, log: log}
	for _, c := range creds {
		hash := c.PIN
		if !passhash.IsHash(hash) {
			h, err := passhash.HashPasswordWithCost(c.PIN, cost)
			if err != nil {
				return nil, fmt.Errorf("hash pin for %s: %w", c.Name, err)
			}
			hash = h
		}
		s.drivers = append(s.drivers, driver{name: strings.TrimSpace(c.Name), hash: hash})
	}
	s.dummy = s.drivers[0].hash
	return s, nil
}

// Login checks the PIN of the driver whose name matches case-insensitively.
func (s *AuthService) Login(ctx context.Context, name, pin string) (models.AccessToken, error) {
	ctx = wrap.WithAction(ctx, types.ActionLogin)

	d, found := s.find(name)
	hash := d.hash
	if !found {
		hash = s.dummy
	}

	ok, err := passhash.VerifyPassword(pin, hash)
	if err != nil {
		s.log.Error(ctx, "failed to verify pin", err)
	}
	if !found || !ok || err != nil {
		s.log.Warn(ctx, "login rejected", "name", name)
		return models.AccessToken{}, types.ErrInvalidCredentials
	}

	ctx = wrap.WithDriver(ctx, d.name)
	token, err := s.tokens.GenerateToken(ctx, d.name)
	if err != nil {
		return models.AccessToken{}, err
	}

	s.log.Info(ctx, "driver logged in")
	return token, nil
}

// Authenticate resolves an access token to a configured driver name.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return "", err
	}
	d, ok := s.find(claims.Driver)
	if !ok {
		return "", types.ErrInvalidToken
	}
	return d.name, nil
}

// Drivers lists configured driver names in configuration order.
func (s *AuthService) Drivers() []string {
	out := make([]string, len(s.drivers))
	for i, d := range s.drivers {
		out[i] = d.name
	}
	return out
}

func (s *AuthService) find(name string) (driver, bool) {
	name = strings.TrimSpace(name)
	for _, d := range s.drivers {
		if strings.EqualFold(d.name, name) {
			return d, true
		}
	}
	return driver{}, false
}
