package repofake

import (
	"context"
	"sync"

	"github.com/YuBaichuan2000/e-commerce/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory user store for tests.
type FakeUserRepo struct {
	lock    sync.RWMutex
	byID    map[string]*users.User
	byEmail map[string]string // email -> id

	// Err, when set, is returned by every operation.
	Err error
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		byID:    make(map[string]*users.User),
		byEmail: make(map[string]string),
	}
}

func (f *FakeUserRepo) Create(_ context.Context, u *users.User) error {
	if f.Err != nil {
		return f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	if _, exists := f.byEmail[u.Email]; exists {
		return users.ErrEmailTaken
	}
	clone := *u
	f.byID[u.ID] = &clone
	f.byEmail[u.Email] = u.ID
	return nil
}

func (f *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.lock.RLock()
	defer f.lock.RUnlock()
	id, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	clone := *f.byID[id]
	return &clone, nil
}

func (f *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.lock.RLock()
	defer f.lock.RUnlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (f *FakeUserRepo) UpdateCart(_ context.Context, userID string, items []users.CartItem) error {
	if f.Err != nil {
		return f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return nil
	}
	u.CartItems = append([]users.CartItem(nil), items...)
	return nil
}
