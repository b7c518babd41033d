package repofake

import (
	"context"
	"sort"
	"sync"

	"github.com/YuBaichuan2000/e-commerce/catalog"
)

var _ catalog.Repo = (*FakeProductRepo)(nil)

// FakeProductRepo is an in-memory catalog for tests.
type FakeProductRepo struct {
	lock     sync.RWMutex
	products map[string]catalog.Product
}

func NewFakeProductRepo(products ...catalog.Product) *FakeProductRepo {
	f := &FakeProductRepo{products: make(map[string]catalog.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *FakeProductRepo) List(_ context.Context) ([]catalog.Product, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	out := make([]catalog.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeProductRepo) ListFeatured(ctx context.Context) ([]catalog.Product, error) {
	all, _ := f.List(ctx)
	var out []catalog.Product
	for _, p := range all {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakeProductRepo) GetByIDs(_ context.Context, ids []string) ([]catalog.Product, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
