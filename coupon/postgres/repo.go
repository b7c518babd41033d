package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/YuBaichuan2000/e-commerce/coupon"
)

var _ coupon.Repo = (*Repo)(nil)

// Repo is the Postgres coupon store.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, c *coupon.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, discount_percentage, expiration_date, user_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := r.db.ExecContext(ctx, query,
		c.ID, c.Code, c.DiscountPercentage, c.ExpirationDate, c.UserID, c.IsActive,
	); err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

func (r *Repo) GetActive(ctx context.Context, code, userID string) (*coupon.Coupon, error) {
	query := `
		SELECT id, code, discount_percentage, expiration_date, user_id, is_active
		FROM coupons
		WHERE code = $1 AND user_id = $2 AND is_active;
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, code, userID))
}

func (r *Repo) GetActiveByUser(ctx context.Context, userID string) (*coupon.Coupon, error) {
	query := `
		SELECT id, code, discount_percentage, expiration_date, user_id, is_active
		FROM coupons
		WHERE user_id = $1 AND is_active
		ORDER BY expiration_date DESC
		LIMIT 1;
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

// DeactivateActive is the linearization point for redemption: the WHERE clause
// makes the flip conditional on is_active, so only one of any number of
// concurrent callers observes a row change.
func (r *Repo) DeactivateActive(ctx context.Context, code, userID string) (bool, error) {
	query := `
		UPDATE coupons
		SET is_active = false
		WHERE code = $1 AND user_id = $2 AND is_active;
	`
	res, err := r.db.ExecContext(ctx, query, code, userID)
	if err != nil {
		return false, fmt.Errorf("deactivate coupon: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deactivate coupon rows: %w", err)
	}
	return affected == 1, nil
}

func (r *Repo) scanOne(row *sql.Row) (*coupon.Coupon, error) {
	var c coupon.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountPercentage, &c.ExpirationDate, &c.UserID, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan coupon: %w", err)
	}
	return &c, nil
}
