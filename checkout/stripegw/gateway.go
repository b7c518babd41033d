package stripegw

import (
	"context"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/YuBaichuan2000/e-commerce/checkout"
	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
)

var _ checkout.Gateway = (*Gateway)(nil)

// Gateway is the Stripe-backed payment gateway. The client handle is injected
// at construction; nothing here is process-global.
type Gateway struct {
	api      *client.API
	currency string
}

// New creates a Stripe gateway client for the given secret key and currency.
func New(apiKey, currency string) *Gateway {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Gateway{api: api, currency: currency}
}

func (g *Gateway) CreateSession(ctx context.Context, p checkout.SessionParams) (*checkout.Session, error) {
	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
	}

	for _, li := range p.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(li.Name),
		}
		if li.Image != "" {
			productData.Images = stripe.StringSlice([]string{li.Image})
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(g.currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	if p.DiscountID != "" {
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(p.DiscountID)},
		}
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, mapError(err, "stripe session create")
	}
	return fromStripe(sess), nil
}

func (g *Gateway) GetSession(ctx context.Context, id string) (*checkout.Session, error) {
	sess, err := g.api.CheckoutSessions.Get(id, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, mapError(err, "stripe session get")
	}
	return fromStripe(sess), nil
}

func (g *Gateway) CreateDiscount(ctx context.Context, percentOff int) (string, error) {
	c, err := g.api.Coupons.New(&stripe.CouponParams{
		Params:     stripe.Params{Context: ctx},
		PercentOff: stripe.Float64(float64(percentOff)),
		Duration:   stripe.String(string(stripe.CouponDurationOnce)),
	})
	if err != nil {
		return "", mapError(err, "stripe coupon create")
	}
	return c.ID, nil
}

func fromStripe(s *stripe.CheckoutSession) *checkout.Session {
	return &checkout.Session{
		ID:            s.ID,
		PaymentStatus: checkout.PaymentStatus(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Metadata:      s.Metadata,
	}
}

func mapError(err error, op string) error {
	var stripeErr *stripe.Error
	if apperrors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
		return apperrors.Wrapf(apperrors.ErrSessionNotFound, "%s", op)
	}
	if apperrors.Is(err, context.DeadlineExceeded) {
		return apperrors.Mask(apperrors.ErrUpstreamTimeout, err, op)
	}
	return apperrors.Mask(apperrors.ErrPaymentGateway, err, op)
}
