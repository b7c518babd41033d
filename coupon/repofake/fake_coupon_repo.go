package repofake

import (
	"context"
	"sync"

	"github.com/YuBaichuan2000/e-commerce/coupon"
)

var _ coupon.Repo = (*FakeCouponRepo)(nil)

// FakeCouponRepo is an in-memory coupon store for tests. DeactivateActive is
// atomic under the repo lock, matching the conditional-update semantics of the
// Postgres implementation.
type FakeCouponRepo struct {
	lock    sync.Mutex
	coupons map[string]*coupon.Coupon // keyed by code

	// Err, when set, is returned by every operation.
	Err error
}

func NewFakeCouponRepo() *FakeCouponRepo {
	return &FakeCouponRepo{coupons: make(map[string]*coupon.Coupon)}
}

func (f *FakeCouponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	if f.Err != nil {
		return f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	clone := *c
	f.coupons[c.Code] = &clone
	return nil
}

func (f *FakeCouponRepo) GetActive(_ context.Context, code, userID string) (*coupon.Coupon, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	c, ok := f.coupons[code]
	if !ok || c.UserID != userID || !c.IsActive {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (f *FakeCouponRepo) GetActiveByUser(_ context.Context, userID string) (*coupon.Coupon, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	for _, c := range f.coupons {
		if c.UserID == userID && c.IsActive {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *FakeCouponRepo) DeactivateActive(_ context.Context, code, userID string) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	c, ok := f.coupons[code]
	if !ok || c.UserID != userID || !c.IsActive {
		return false, nil
	}
	c.IsActive = false
	return true, nil
}

// Get returns the stored coupon regardless of state, for assertions.
func (f *FakeCouponRepo) Get(code string) *coupon.Coupon {
	f.lock.Lock()
	defer f.lock.Unlock()
	c, ok := f.coupons[code]
	if !ok {
		return nil
	}
	clone := *c
	return &clone
}

// All returns every stored coupon, for assertions.
func (f *FakeCouponRepo) All() []*coupon.Coupon {
	f.lock.Lock()
	defer f.lock.Unlock()
	out := make([]*coupon.Coupon, 0, len(f.coupons))
	for _, c := range f.coupons {
		clone := *c
		out = append(out, &clone)
	}
	return out
}
