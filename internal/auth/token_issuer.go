package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

var (
	errMissingSigningSecret = errors.New("token issuer: signing secret must be provided")
	errMissingSubjectClaim  = errors.New("token issuer: subject must be provided")
	errInvalidTokenTTL      = errors.New("token issuer: ttl must be positive")
)

// Identity names the owner a token is minted for.
type Identity struct {
	Subject     string
	Email       string
	DisplayName string
}

// TokenIssuerConfig configures session token minting.
type TokenIssuerConfig struct {
	SigningSecret []byte
	// Issuer defaults to DefaultSessionIssuer.
	Issuer   string
	TokenTTL time.Duration
	Clock    func() time.Time
}

// TokenIssuer signs session tokens accepted by SessionValidator. Sign-in is
// handled elsewhere; the issuer backs local tooling and tests.
type TokenIssuer struct {
	signingSecret []byte
	issuer        string
	ttl           time.Duration
	clock         func() time.Time
}

func NewTokenIssuer(cfg TokenIssuerConfig) (*TokenIssuer, error) {
	if len(cfg.SigningSecret) == 0 {
		return nil, errMissingSigningSecret
	}
	if cfg.TokenTTL < 0 {
		return nil, errInvalidTokenTTL
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = DefaultSessionIssuer
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TokenIssuer{
		signingSecret: append([]byte(nil), cfg.SigningSecret...),
		issuer:        issuer,
		ttl:           ttl,
		clock:         clock,
	}, nil
}

// Issue signs a token for identity and returns it with its expiry.
func (i *TokenIssuer) Issue(_ context.Context, identity Identity) (string, time.Time, error) {
	subject := strings.TrimSpace(identity.Subject)
	if subject == "" {
		return "", time.Time{}, errMissingSubjectClaim
	}

	now := i.clock().UTC()
	expiresAt := now.Add(i.ttl)
	claims := SessionClaims{
		UserID:          subject,
		UserEmail:       strings.TrimSpace(identity.Email),
		UserDisplayName: strings.TrimSpace(identity.DisplayName),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signingSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
