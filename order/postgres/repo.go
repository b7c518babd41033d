package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/YuBaichuan2000/e-commerce/order"
)

// Postgres class 23505, unique_violation.
const uniqueViolation = "23505"

var _ order.Repo = (*Repo)(nil)

// Repo is the Postgres order store. The orders table carries a unique index on
// gateway_session_id, which is what makes confirmation idempotent under
// concurrent callers.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, o *order.Order) error {
	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshal order lines: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, products, total_cents, gateway_session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := r.db.ExecContext(ctx, query,
		o.ID, o.UserID, lines, o.TotalCents, o.GatewaySessionID, o.CreatedAt,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return order.ErrDuplicateSession
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repo) GetBySessionID(ctx context.Context, sessionID string) (*order.Order, error) {
	query := `
		SELECT id, user_id, products, total_cents, gateway_session_id, created_at
		FROM orders
		WHERE gateway_session_id = $1;
	`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	query := `
		SELECT id, user_id, products, total_cents, gateway_session_id, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*order.Order
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row *sql.Row) (*order.Order, error) {
	o, err := scanOrderRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func scanOrderRow(row rowScanner) (*order.Order, error) {
	var (
		o     order.Order
		lines []byte
	)
	if err := row.Scan(&o.ID, &o.UserID, &lines, &o.TotalCents, &o.GatewaySessionID, &o.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lines, &o.Lines); err != nil {
		return nil, fmt.Errorf("unmarshal order lines: %w", err)
	}
	return &o, nil
}
