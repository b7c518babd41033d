package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/YuBaichuan2000/e-commerce/token"
)

var _ token.CacheRepo = (*FakeCacheRepo)(nil)

// FakeCacheRepo is an in-memory credential cache for tests. Entries honour
// their TTL against an injectable clock.
type FakeCacheRepo struct {
	lock    sync.RWMutex
	entries map[string]entry

	// Err, when set, is returned by every operation.
	Err error
	// Now is the clock used for expiry checks.
	Now func() time.Time
}

type entry struct {
	token     string
	expiresAt time.Time
}

func NewFakeCacheRepo() *FakeCacheRepo {
	return &FakeCacheRepo{
		entries: make(map[string]entry),
		Now:     time.Now,
	}
}

func (f *FakeCacheRepo) Set(_ context.Context, userID, tok string, ttl time.Duration) error {
	if f.Err != nil {
		return f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.entries[userID] = entry{token: tok, expiresAt: f.Now().Add(ttl)}
	return nil
}

func (f *FakeCacheRepo) Get(_ context.Context, userID string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	f.lock.RLock()
	defer f.lock.RUnlock()
	e, ok := f.entries[userID]
	if !ok || f.Now().After(e.expiresAt) {
		return "", nil
	}
	return e.token, nil
}

func (f *FakeCacheRepo) Delete(_ context.Context, userID string) error {
	if f.Err != nil {
		return f.Err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	delete(f.entries, userID)
	return nil
}
