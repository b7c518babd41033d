package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
	"github.com/YuBaichuan2000/e-commerce/token"
	"github.com/YuBaichuan2000/e-commerce/users"
)

const defaultStoreTimeout = 3 * time.Second

// Service handles signup, login, logout and token refresh, composing the user
// store and the token service. Handlers stay thin; every rule lives here.
type Service struct {
	users        users.Repo
	tokens       *token.Service
	storeTimeout time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an auth service.
func NewService(userRepo users.Repo, tokens *token.Service, log zerolog.Logger, options ...Option) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[auth.NewService] user repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[auth.NewService] token service is required")
	}

	s := &Service{
		users:        userRepo,
		tokens:       tokens,
		storeTimeout: defaultStoreTimeout,
		now:          time.Now,
		log:          log,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Signup registers a new customer account and starts a session for it.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*users.User, token.Pair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, token.Pair{}, errors.New("name and email are required")
	}
	if err := users.ValidatePasswordStrength(password); err != nil {
		return nil, token.Pair{}, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	existing, err := s.users.GetByEmail(storeCtx, email)
	cancel()
	if err != nil {
		return nil, token.Pair{}, apperrors.Upstream(err, "checking existing user")
	}
	if existing != nil {
		return nil, token.Pair{}, users.ErrEmailTaken
	}

	u := &users.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      users.RoleCustomer,
		CartItems: []users.CartItem{},
		CreatedAt: s.now(),
	}
	if err := u.SetPassword(password); err != nil {
		return nil, token.Pair{}, errors.Wrap(err, "hashing password")
	}

	storeCtx, cancel = s.storeContext(ctx)
	err = s.users.Create(storeCtx, u)
	cancel()
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return nil, token.Pair{}, err
		}
		return nil, token.Pair{}, apperrors.Upstream(err, "creating user")
	}

	pair, err := s.startSession(ctx, u.ID)
	if err != nil {
		return nil, token.Pair{}, err
	}

	s.log.Info().Str("user_id", u.ID).Msg("user signed up")
	return u, pair, nil
}

// Login verifies credentials and starts a session, superseding any session the
// user had elsewhere.
func (s *Service) Login(ctx context.Context, email, password string) (*users.User, token.Pair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	storeCtx, cancel := s.storeContext(ctx)
	u, err := s.users.GetByEmail(storeCtx, email)
	cancel()
	if err != nil {
		return nil, token.Pair{}, apperrors.Upstream(err, "looking up user")
	}
	if u == nil || !u.CheckPassword(password) {
		return nil, token.Pair{}, apperrors.Wrapf(apperrors.ErrInvalidCredentials, "login for %q", email)
	}

	pair, err := s.startSession(ctx, u.ID)
	if err != nil {
		return nil, token.Pair{}, err
	}

	s.log.Info().Str("user_id", u.ID).Msg("user logged in")
	return u, pair, nil
}

// Logout ends the session named by the refresh token. A missing, expired or
// garbled token leaves nothing to revoke, so logout never fails for it.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}
	return s.tokens.Revoke(ctx, userID)
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.tokens.RotateAccess(ctx, refreshToken)
}

func (s *Service) startSession(ctx context.Context, userID string) (token.Pair, error) {
	pair, err := s.tokens.Issue(userID)
	if err != nil {
		return token.Pair{}, apperrors.Mask(apperrors.ErrInternal, err, "issuing credential pair")
	}
	if err := s.tokens.PersistRefresh(ctx, userID, pair.RefreshToken); err != nil {
		return token.Pair{}, err
	}
	return pair, nil
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}
