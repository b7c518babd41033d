package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/YuBaichuan2000/e-commerce/users"
)

const uniqueViolation = "23505"

var _ users.Repo = (*Repo)(nil)

// Repo is the Postgres user store. The cart lives as a JSONB document on the
// user row; it is plain quantity CRUD with no invariant beyond "record exists".
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, u *users.User) error {
	items, err := json.Marshal(cartOrEmpty(u.CartItems))
	if err != nil {
		return fmt.Errorf("marshal cart items: %w", err)
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, role, cart_items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, items, u.CreatedAt,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return users.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, cart_items, created_at
		FROM users
		WHERE email = $1;
	`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *Repo) GetByID(ctx context.Context, id string) (*users.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, cart_items, created_at
		FROM users
		WHERE id = $1;
	`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repo) UpdateCart(ctx context.Context, userID string, items []users.CartItem) error {
	payload, err := json.Marshal(cartOrEmpty(items))
	if err != nil {
		return fmt.Errorf("marshal cart items: %w", err)
	}

	query := `UPDATE users SET cart_items = $2 WHERE id = $1;`
	if _, err := r.db.ExecContext(ctx, query, userID, payload); err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*users.User, error) {
	var (
		u     users.User
		items []byte
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &items, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if err := json.Unmarshal(items, &u.CartItems); err != nil {
		return nil, fmt.Errorf("unmarshal cart items: %w", err)
	}
	return &u, nil
}

func cartOrEmpty(items []users.CartItem) []users.CartItem {
	if items == nil {
		return []users.CartItem{}
	}
	return items
}
