package token

import (
	"context"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
)

const (
	// DefaultAccessTTL is the access token lifetime: one short request window.
	DefaultAccessTTL = 15 * time.Minute
	// DefaultRefreshTTL is the refresh token lifetime, mirrored by the cache
	// entry's expiry (604800 seconds).
	DefaultRefreshTTL = 7 * 24 * time.Hour

	defaultCacheTimeout = 3 * time.Second
)

// Pair bundles the two credentials minted on login or signup.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Config carries the signing material and lifetimes for both token kinds.
// Access and refresh tokens are always signed with different secrets.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// CacheTimeout bounds every credential cache round trip.
	CacheTimeout time.Duration
}

// Service issues, verifies, rotates and revokes session credential pairs. All
// cross-request state lives in the injected cache; the service itself is safe
// for concurrent use.
type Service struct {
	cache CacheRepo
	cfg   Config
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a token service backed by the given credential cache.
func NewService(cache CacheRepo, cfg Config, options ...Option) (*Service, error) {
	if cache == nil {
		return nil, errors.New("[token.NewService] cache repo is required")
	}
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("[token.NewService] both signing secrets are required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("[token.NewService] access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.CacheTimeout <= 0 {
		cfg.CacheTimeout = defaultCacheTimeout
	}

	s := &Service{
		cache: cache,
		cfg:   cfg,
		now:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Issue mints a fresh credential pair for the user. It has no side effect on
// the cache; call PersistRefresh to make the refresh token the valid one.
func (s *Service) Issue(userID string) (Pair, error) {
	access, err := s.mint(userID, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return Pair{}, errors.Wrap(err, "minting access token")
	}
	refresh, err := s.mint(userID, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return Pair{}, errors.Wrap(err, "minting refresh token")
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// PersistRefresh records the refresh token as the single valid one for the
// user. Overwriting is the sole rotation/revocation point: any previously
// issued refresh token stops verifying the moment this returns, expired or not.
func (s *Service) PersistRefresh(ctx context.Context, userID, refreshToken string) error {
	ctx, cancel := s.cacheContext(ctx)
	defer cancel()

	if err := s.cache.Set(ctx, userID, refreshToken, s.cfg.RefreshTTL); err != nil {
		return apperrors.Upstream(err, "persisting refresh token")
	}
	return nil
}

// VerifyAccess checks signature and expiry of an access token and returns the
// user it was bound to.
func (s *Service) VerifyAccess(accessToken string) (string, error) {
	return s.verify(accessToken, s.cfg.AccessSecret)
}

// VerifyRefresh checks signature and expiry of a refresh token without
// consulting the cache. Used on logout, where a stale token should still name
// the entry to delete.
func (s *Service) VerifyRefresh(refreshToken string) (string, error) {
	return s.verify(refreshToken, s.cfg.RefreshSecret)
}

// RotateAccess exchanges a valid refresh token for a new access token. The
// presented token must byte-match the cache entry for its user; a missing or
// different entry means the token was revoked or superseded elsewhere.
func (s *Service) RotateAccess(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.verify(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return "", err
	}

	cacheCtx, cancel := s.cacheContext(ctx)
	defer cancel()

	stored, err := s.cache.Get(cacheCtx, userID)
	if err != nil {
		return "", apperrors.Upstream(err, "reading refresh token")
	}
	if stored == "" || stored != refreshToken {
		return "", apperrors.Wrapf(apperrors.ErrTokenRevoked, "refresh token for user %s not current", userID)
	}

	access, err := s.mint(userID, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return "", errors.Wrap(err, "minting rotated access token")
	}
	return access, nil
}

// Revoke deletes the user's cache entry, ending the session. Revoking a user
// with no entry is a no-op, so logout stays idempotent.
func (s *Service) Revoke(ctx context.Context, userID string) error {
	ctx, cancel := s.cacheContext(ctx)
	defer cancel()

	if err := s.cache.Delete(ctx, userID); err != nil {
		return apperrors.Upstream(err, "revoking refresh token")
	}
	return nil
}

func (s *Service) mint(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwtlib.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		ID:        uuid.New().String(),
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
}

func (s *Service) verify(raw string, secret []byte) (string, error) {
	parsed, err := jwtlib.ParseWithClaims(raw, &jwtlib.RegisteredClaims{},
		func(t *jwtlib.Token) (any, error) { return secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return "", apperrors.Wrapf(apperrors.ErrTokenInvalid, "verifying token")
	}

	claims, ok := parsed.Claims.(*jwtlib.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperrors.Wrapf(apperrors.ErrTokenInvalid, "token has no subject")
	}
	return claims.Subject, nil
}

func (s *Service) cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.CacheTimeout)
}
