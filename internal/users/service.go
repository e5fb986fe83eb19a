package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/auth"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultProvider = "default"

// ErrInvalidIdentity indicates the claims did not contain a usable identifier.
var ErrInvalidIdentity = errors.New("users: invalid identity")

type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Service resolves session claims to stable owner ids.
type Service struct {
	db     *gorm.DB
	now    func() time.Time
	logger *zap.Logger
	cache  sync.Map
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("users: database connection required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:     cfg.Database,
		now:    clock,
		logger: logger,
	}, nil
}

// ResolveOwnerID returns the owner id for the claims, recording a new
// identity the first time a provider+subject pair is seen.
func (s *Service) ResolveOwnerID(ctx context.Context, claims auth.SessionClaims) (string, error) {
	provider, subject := deriveProviderSubject(claims)
	if subject == "" {
		return "", ErrInvalidIdentity
	}

	cacheKey := provider + ":" + subject
	if cached, ok := s.cache.Load(cacheKey); ok {
		if ownerID, ok := cached.(string); ok {
			return ownerID, nil
		}
	}

	db := s.db.WithContext(ctx)
	var identity Identity
	err := db.
		Where("provider = ? AND subject = ?", provider, subject).
		First(&identity).
		Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		identity = Identity{
			Provider:    provider,
			Subject:     subject,
			OwnerID:     subject,
			Email:       normalize(claims.UserEmail),
			DisplayName: normalize(claims.UserDisplayName),
			LastSeenAt:  s.now().UTC(),
		}
		if err := db.Create(&identity).Error; err != nil {
			return "", fmt.Errorf("users: create identity: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("users: lookup identity: %w", err)
	default:
		s.touch(db, identity, claims)
	}

	s.cache.Store(cacheKey, identity.OwnerID)
	return identity.OwnerID, nil
}

// touch refreshes profile fields; failures are logged and otherwise ignored.
func (s *Service) touch(db *gorm.DB, identity Identity, claims auth.SessionClaims) {
	updates := map[string]interface{}{"last_seen_at": s.now().UTC()}
	if email := normalize(claims.UserEmail); email != "" && email != identity.Email {
		updates["email"] = email
	}
	if display := normalize(claims.UserDisplayName); display != "" && display != identity.DisplayName {
		updates["display_name"] = display
	}
	err := db.Model(&Identity{}).
		Where("provider = ? AND subject = ?", identity.Provider, identity.Subject).
		Updates(updates).
		Error
	if err != nil {
		s.logger.Warn("identity refresh failed",
			zap.String("operation", "users.resolve"),
			zap.String("reason", "update_failed"),
			zap.String("provider", identity.Provider),
			zap.Error(err))
	}
}

// deriveProviderSubject splits a "provider:subject" user id; bare ids use the
// default provider.
func deriveProviderSubject(claims auth.SessionClaims) (string, string) {
	provider := defaultProvider
	subject := normalize(claims.Subject)

	raw := normalize(claims.UserID)
	if raw != "" {
		if strings.Contains(raw, ":") {
			segments := strings.SplitN(raw, ":", 2)
			if normalize(segments[0]) != "" && normalize(segments[1]) != "" {
				provider = normalize(segments[0])
				subject = normalize(segments[1])
			}
		} else if subject == "" {
			subject = raw
		}
	}

	if subject == "" {
		subject = normalize(claims.UserEmail)
	}
	return provider, subject
}
