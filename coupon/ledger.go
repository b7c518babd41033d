package coupon

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
)

const (
	rewardDiscountPercent = 10
	rewardValidity        = 30 * 24 * time.Hour

	defaultStoreTimeout = 3 * time.Second
)

// Ledger validates and deactivates discount codes and issues reward coupons.
// It holds no state of its own; every decision is made against the injected
// store, per key, under the repo's atomicity guarantees.
type Ledger struct {
	repo         Repo
	codes        CodeGenerator
	storeTimeout time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithCodeGenerator overrides the reward code generator.
func WithCodeGenerator(g CodeGenerator) LedgerOption {
	return func(l *Ledger) {
		l.codes = g
	}
}

// WithStoreTimeout bounds every store round trip.
func WithStoreTimeout(d time.Duration) LedgerOption {
	return func(l *Ledger) {
		l.storeTimeout = d
	}
}

// NewLedger creates a coupon ledger over the given store.
func NewLedger(repo Repo, log zerolog.Logger, options ...LedgerOption) (*Ledger, error) {
	if repo == nil {
		return nil, errors.New("[coupon.NewLedger] repo is required")
	}

	l := &Ledger{
		repo:         repo,
		codes:        GiftCodeGenerator{},
		storeTimeout: defaultStoreTimeout,
		now:          time.Now,
		log:          log,
	}
	for _, opt := range options {
		opt(l)
	}
	return l, nil
}

// Validate returns the coupon for code if it is active, unexpired and owned by
// userID. Anything else is ErrCouponNotFound; callers learn nothing about
// coupons they do not own.
func (l *Ledger) Validate(ctx context.Context, code, userID string) (*Coupon, error) {
	ctx, cancel := l.storeContext(ctx)
	defer cancel()

	c, err := l.repo.GetActive(ctx, code, userID)
	if err != nil {
		return nil, apperrors.Upstream(err, "looking up coupon")
	}
	if c == nil {
		return nil, apperrors.Wrapf(apperrors.ErrCouponNotFound, "code %q", code)
	}
	if c.ExpirationDate.Before(l.now()) {
		return nil, apperrors.Wrapf(apperrors.ErrCouponNotFound, "code %q expired", code)
	}
	return c, nil
}

// ApplyDiscount returns the total after subtracting the coupon's percentage,
// in integer cents with round-half-up so no fractional cent survives. The
// result is never negative and never exceeds the input.
func (l *Ledger) ApplyDiscount(totalCents int64, c *Coupon) int64 {
	pct := int64(c.DiscountPercentage)
	if pct <= 0 {
		return totalCents
	}
	if pct >= 100 {
		return 0
	}
	discount := (totalCents*pct + 50) / 100
	return totalCents - discount
}

// Deactivate retires the coupon after a confirmed redemption. The underlying
// update is conditional on is_active, so for two concurrent redemptions exactly
// one call wins; the loser gets ErrCouponNotFound.
func (l *Ledger) Deactivate(ctx context.Context, code, userID string) error {
	ctx, cancel := l.storeContext(ctx)
	defer cancel()

	done, err := l.repo.DeactivateActive(ctx, code, userID)
	if err != nil {
		return apperrors.Upstream(err, "deactivating coupon")
	}
	if !done {
		return apperrors.Wrapf(apperrors.ErrCouponNotFound, "code %q already inactive", code)
	}
	return nil
}

// IssueReward creates a fresh 10%-off loyalty coupon for the user, valid for
// 30 days. Callers decide when a checkout has earned one; the ledger never
// issues rewards on its own.
func (l *Ledger) IssueReward(ctx context.Context, userID string) (*Coupon, error) {
	code, err := l.codes.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "generating reward code")
	}

	c := &Coupon{
		ID:                 uuid.New().String(),
		Code:               code,
		DiscountPercentage: rewardDiscountPercent,
		ExpirationDate:     l.now().Add(rewardValidity),
		UserID:             userID,
		IsActive:           true,
	}

	ctx, cancel := l.storeContext(ctx)
	defer cancel()

	if err := l.repo.Create(ctx, c); err != nil {
		return nil, apperrors.Upstream(err, "storing reward coupon")
	}

	l.log.Info().Str("user_id", userID).Str("code", code).Msg("issued reward coupon")
	return c, nil
}

// ActiveFor returns the user's current active coupon, or ErrCouponNotFound.
func (l *Ledger) ActiveFor(ctx context.Context, userID string) (*Coupon, error) {
	ctx, cancel := l.storeContext(ctx)
	defer cancel()

	c, err := l.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Upstream(err, "looking up user coupon")
	}
	if c == nil {
		return nil, apperrors.Wrapf(apperrors.ErrCouponNotFound, "no active coupon for user %s", userID)
	}
	return c, nil
}

func (l *Ledger) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, l.storeTimeout)
}
