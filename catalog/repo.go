package catalog

import "context"

// Repo is the read-only product catalog.
type Repo interface {
	List(ctx context.Context) ([]Product, error)
	ListFeatured(ctx context.Context) ([]Product, error)
	// GetByIDs returns the products for the given id set; unknown ids are
	// silently absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}
