package checkout

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/YuBaichuan2000/e-commerce/coupon"
	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
	"github.com/YuBaichuan2000/e-commerce/order"
)

const (
	defaultGatewayTimeout = 10 * time.Second
	defaultStoreTimeout   = 3 * time.Second
)

// Config carries the orchestrator's tunables.
type Config struct {
	// SuccessURL and CancelURL are the storefront redirect targets handed to
	// the gateway at session creation.
	SuccessURL string
	CancelURL  string
	// RewardThresholdCents is the post-discount total at or above which a
	// confirmed checkout earns the buyer a loyalty coupon.
	RewardThresholdCents int64
	GatewayTimeout       time.Duration
	StoreTimeout         time.Duration
}

// SessionResult is what session creation hands back to the storefront.
type SessionResult struct {
	SessionID  string
	TotalCents int64
}

// Orchestrator drives the checkout transaction end to end: pricing, coupon
// validation, gateway session creation, confirmation, order persistence,
// coupon deactivation and reward issuance. It keeps no cross-request state;
// the gateway session and the order store carry everything between the two
// phases.
type Orchestrator struct {
	gateway Gateway
	coupons *coupon.Ledger
	orders  order.Repo
	cfg     Config
	now     func() time.Time
	log     zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates a checkout orchestrator.
func NewOrchestrator(gateway Gateway, coupons *coupon.Ledger, orders order.Repo, cfg Config, log zerolog.Logger, options ...Option) (*Orchestrator, error) {
	if gateway == nil {
		return nil, errors.New("[checkout.NewOrchestrator] gateway is required")
	}
	if coupons == nil {
		return nil, errors.New("[checkout.NewOrchestrator] coupon ledger is required")
	}
	if orders == nil {
		return nil, errors.New("[checkout.NewOrchestrator] order repo is required")
	}
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	o := &Orchestrator{
		gateway: gateway,
		coupons: coupons,
		orders:  orders,
		cfg:     cfg,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range options {
		opt(o)
	}
	return o, nil
}

// CreateSession prices the cart, applies an optional coupon, and requests a
// hosted payment session from the gateway. No local state is mutated: the
// coupon stays active (the buyer may abandon checkout) and no reward is issued
// until payment is confirmed.
func (o *Orchestrator) CreateSession(ctx context.Context, userID string, lines []CartLine, couponCode string) (*SessionResult, error) {
	if len(lines) == 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidCart, "empty cart")
	}

	var (
		totalCents int64
		items      = make([]LineItem, 0, len(lines))
		snapshot   = make([]lineSnapshot, 0, len(lines))
	)
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity <= 0 || l.Price < 0 {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidCart, "malformed line for product %q", l.ProductID)
		}
		unitCents := int64(math.Round(l.Price * 100))
		totalCents += unitCents * l.Quantity

		items = append(items, LineItem{
			Name:       l.Name,
			Image:      l.Image,
			UnitAmount: unitCents,
			Quantity:   l.Quantity,
		})
		snapshot = append(snapshot, lineSnapshot{ID: l.ProductID, Quantity: l.Quantity, Price: l.Price})
	}

	var discountID string
	if couponCode != "" {
		c, err := o.coupons.Validate(ctx, couponCode, userID)
		if err != nil {
			return nil, err
		}
		totalCents = o.coupons.ApplyDiscount(totalCents, c)

		// The gateway applies an equivalent discount to this session only; the
		// persisted coupon is untouched until confirmation.
		gwCtx, cancel := context.WithTimeout(ctx, o.cfg.GatewayTimeout)
		discountID, err = o.gateway.CreateDiscount(gwCtx, c.DiscountPercentage)
		cancel()
		if err != nil {
			return nil, o.gatewayError(err, "creating gateway discount")
		}
	}

	products, err := json.Marshal(snapshot)
	if err != nil {
		return nil, apperrors.Mask(apperrors.ErrInternal, err, "encoding product snapshot")
	}

	gwCtx, cancel := context.WithTimeout(ctx, o.cfg.GatewayTimeout)
	defer cancel()

	sess, err := o.gateway.CreateSession(gwCtx, SessionParams{
		LineItems:  items,
		SuccessURL: o.cfg.SuccessURL,
		CancelURL:  o.cfg.CancelURL,
		DiscountID: discountID,
		Metadata: map[string]string{
			metaUserID:     userID,
			metaCouponCode: couponCode,
			metaProducts:   string(products),
		},
	})
	if err != nil {
		return nil, o.gatewayError(err, "creating gateway session")
	}

	o.log.Info().
		Str("user_id", userID).
		Str("session_id", sess.ID).
		Int64("total_cents", totalCents).
		Msg("checkout session created")

	return &SessionResult{SessionID: sess.ID, TotalCents: totalCents}, nil
}

// Confirm finalizes a checkout session: it requires confirmed payment, retires
// the coupon, persists the order from the metadata snapshot, and issues a
// loyalty reward when the paid total meets the threshold. Calling it again
// with the same session id returns the already-persisted order.
func (o *Orchestrator) Confirm(ctx context.Context, sessionID string) (*order.Order, error) {
	if existing, err := o.getOrder(ctx, sessionID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	gwCtx, cancel := context.WithTimeout(ctx, o.cfg.GatewayTimeout)
	sess, err := o.gateway.GetSession(gwCtx, sessionID)
	cancel()
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, err
		}
		return nil, o.gatewayError(err, "retrieving gateway session")
	}

	if sess.PaymentStatus != PaymentStatusPaid {
		// Non-terminal: the buyer may still complete payment through the
		// gateway's own retry UI. No order, no coupon deactivation.
		return nil, apperrors.Wrapf(apperrors.ErrPaymentIncomplete, "session %s is %q", sessionID, sess.PaymentStatus)
	}

	userID := sess.Metadata[metaUserID]
	if code := sess.Metadata[metaCouponCode]; code != "" {
		// Payment has already succeeded; a coupon that is gone or already
		// inactive must not block order creation.
		if err := o.coupons.Deactivate(ctx, code, userID); err != nil {
			o.log.Warn().Err(err).
				Str("session_id", sessionID).
				Str("code", code).
				Msg("coupon deactivation skipped")
		}
	}

	var snapshot []lineSnapshot
	if err := json.Unmarshal([]byte(sess.Metadata[metaProducts]), &snapshot); err != nil {
		return nil, apperrors.Mask(apperrors.ErrInternal, err, "decoding product snapshot")
	}

	lines := make([]order.Line, 0, len(snapshot))
	for _, s := range snapshot {
		lines = append(lines, order.Line{
			ProductID:  s.ID,
			Quantity:   s.Quantity,
			PriceCents: int64(math.Round(s.Price * 100)),
		})
	}

	ord := &order.Order{
		ID:               uuid.New().String(),
		UserID:           userID,
		Lines:            lines,
		TotalCents:       sess.AmountTotal,
		GatewaySessionID: sessionID,
		CreatedAt:        o.now(),
	}

	storeCtx, cancel := context.WithTimeout(ctx, o.cfg.StoreTimeout)
	err = o.orders.Create(storeCtx, ord)
	cancel()
	if err != nil {
		if errors.Is(err, order.ErrDuplicateSession) {
			// Lost a race with a concurrent confirmation; hand back its order.
			existing, getErr := o.getOrder(ctx, sessionID)
			if getErr != nil {
				return nil, getErr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, apperrors.Upstream(err, "persisting order")
	}

	if o.cfg.RewardThresholdCents > 0 && sess.AmountTotal >= o.cfg.RewardThresholdCents {
		if _, err := o.coupons.IssueReward(ctx, userID); err != nil {
			// The order is already durable; a failed reward only costs goodwill.
			o.log.Error().Err(err).
				Str("session_id", sessionID).
				Str("user_id", userID).
				Msg("reward coupon issuance failed")
		}
	}

	o.log.Info().
		Str("session_id", sessionID).
		Str("order_id", ord.ID).
		Int64("total_cents", ord.TotalCents).
		Msg("order created")

	return ord, nil
}

func (o *Orchestrator) getOrder(ctx context.Context, sessionID string) (*order.Order, error) {
	storeCtx, cancel := context.WithTimeout(ctx, o.cfg.StoreTimeout)
	defer cancel()

	existing, err := o.orders.GetBySessionID(storeCtx, sessionID)
	if err != nil {
		return nil, apperrors.Upstream(err, "looking up order")
	}
	return existing, nil
}

func (o *Orchestrator) gatewayError(err error, op string) error {
	if apperrors.Is(err, context.DeadlineExceeded) {
		return apperrors.Mask(apperrors.ErrUpstreamTimeout, err, op)
	}
	return apperrors.Mask(apperrors.ErrPaymentGateway, err, op)
}
