package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/YuBaichuan2000/e-commerce/catalog"
)

var _ catalog.Repo = (*Repo)(nil)

// Repo is the Postgres product catalog.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const productColumns = `id, name, description, price, image, category, is_featured`

func (r *Repo) List(ctx context.Context) ([]catalog.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY name;`, productColumns)
	return r.query(ctx, query)
}

func (r *Repo) ListFeatured(ctx context.Context) ([]catalog.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE is_featured ORDER BY name;`, productColumns)
	return r.query(ctx, query)
}

func (r *Repo) GetByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ANY($1);`, productColumns)
	return r.query(ctx, query, pq.Array(ids))
}

func (r *Repo) query(ctx context.Context, query string, args ...any) ([]catalog.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.IsFeatured); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
