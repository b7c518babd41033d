package repofake

import (
	"context"
	"sort"
	"sync"

	"github.com/YuBaichuan2000/e-commerce/order"
)

var _ order.Repo = (*FakeOrderRepo)(nil)

// FakeOrderRepo is an in-memory order store for tests. Create enforces the
// unique-gateway-session invariant under the repo lock, so concurrent
// confirmation tests behave like the Postgres implementation.
type FakeOrderRepo struct {
	lock     sync.Mutex
	bySessID map[string]*order.Order

	// Err, when set, is returned by every operation.
	Err error
}

func NewFakeOrderRepo() *FakeOrderRepo {
	return &FakeOrderRepo{bySessID: make(map[string]*order.Order)}
}

func (f *FakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	if f.Err != nil {
		return f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	if _, exists := f.bySessID[o.GatewaySessionID]; exists {
		return order.ErrDuplicateSession
	}
	clone := *o
	f.bySessID[o.GatewaySessionID] = &clone
	return nil
}

func (f *FakeOrderRepo) GetBySessionID(_ context.Context, sessionID string) (*order.Order, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	o, ok := f.bySessID[sessionID]
	if !ok {
		return nil, nil
	}
	clone := *o
	return &clone, nil
}

func (f *FakeOrderRepo) ListByUser(_ context.Context, userID string) ([]*order.Order, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	var out []*order.Order
	for _, o := range f.bySessID {
		if o.UserID == userID {
			clone := *o
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Count returns the number of stored orders, for assertions.
func (f *FakeOrderRepo) Count() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.bySessID)
}
