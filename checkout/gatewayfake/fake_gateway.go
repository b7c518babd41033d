package gatewayfake

import (
	"context"
	"fmt"
	"sync"

	"github.com/YuBaichuan2000/e-commerce/checkout"
	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
)

var _ checkout.Gateway = (*FakeGateway)(nil)

// FakeGateway is a scripted in-memory payment gateway for tests. Created
// sessions start unpaid; MarkPaid flips them, mirroring the buyer completing
// the gateway's hosted flow.
type FakeGateway struct {
	lock      sync.Mutex
	sessions  map[string]*checkout.Session
	discounts map[string]int
	nextID    int

	// CreateSessionErr/GetSessionErr/CreateDiscountErr, when set, are returned
	// by the corresponding call.
	CreateSessionErr  error
	GetSessionErr     error
	CreateDiscountErr error
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		sessions:  make(map[string]*checkout.Session),
		discounts: make(map[string]int),
	}
}

func (f *FakeGateway) CreateSession(_ context.Context, p checkout.SessionParams) (*checkout.Session, error) {
	if f.CreateSessionErr != nil {
		return nil, f.CreateSessionErr
	}
	f.lock.Lock()
	defer f.lock.Unlock()

	var total int64
	for _, li := range p.LineItems {
		total += li.UnitAmount * li.Quantity
	}
	if pct, ok := f.discounts[p.DiscountID]; ok {
		total -= (total*int64(pct) + 50) / 100
	}

	f.nextID++
	sess := &checkout.Session{
		ID:            fmt.Sprintf("cs_test_%03d", f.nextID),
		PaymentStatus: checkout.PaymentStatusUnpaid,
		AmountTotal:   total,
		Metadata:      p.Metadata,
	}
	f.sessions[sess.ID] = sess

	clone := *sess
	return &clone, nil
}

func (f *FakeGateway) GetSession(_ context.Context, id string) (*checkout.Session, error) {
	if f.GetSessionErr != nil {
		return nil, f.GetSessionErr
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	sess, ok := f.sessions[id]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrSessionNotFound, "session %q", id)
	}
	clone := *sess
	return &clone, nil
}

func (f *FakeGateway) CreateDiscount(_ context.Context, percentOff int) (string, error) {
	if f.CreateDiscountErr != nil {
		return "", f.CreateDiscountErr
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	id := fmt.Sprintf("disc_%03d", len(f.discounts)+1)
	f.discounts[id] = percentOff
	return id, nil
}

// MarkPaid flips a session to paid, as if the buyer completed the hosted flow.
func (f *FakeGateway) MarkPaid(id string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if sess, ok := f.sessions[id]; ok {
		sess.PaymentStatus = checkout.PaymentStatusPaid
	}
}

// DiscountCount returns how many gateway discounts were created.
func (f *FakeGateway) DiscountCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.discounts)
}
