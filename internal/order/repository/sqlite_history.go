package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/mariwi1503/mini-market-pondok/internal/order/domain"
)

//go:embed history_migrations/*.sql
var historyMigrationsFS embed.FS

// HistoryRepository keeps order summaries in a local sqlite file. It is
// the always-available side of the order bookkeeping: appends must
// succeed even when the remote store is down.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(dbPath string) (*HistoryRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	return &HistoryRepository{db: db}, nil
}

func (r *HistoryRepository) RunMigrations() error {
	source, err := iofs.New(historyMigrationsFS, "history_migrations")
	if err != nil {
		return fmt.Errorf("could not create migration source: %w", err)
	}

	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *HistoryRepository) Append(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	query := `INSERT INTO order_history (id, user_id, items, subtotal, shipping, total, shipping_address, payment, status, payment_ref, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		itemsJSON,
		order.Subtotal,
		order.Shipping,
		order.Total,
		addressJSON,
		string(order.Payment),
		string(order.Status),
		order.PaymentRef,
		order.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	)
	if err != nil {
		return fmt.Errorf("failed to append order history: %w", err)
	}

	return nil
}

// ListByUser returns the user's order summaries, newest first.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `SELECT id, user_id, items, subtotal, shipping, total, shipping_address, payment, status, payment_ref, created_at
	          FROM order_history WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order history: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o := &domain.Order{}
		var itemsJSON, addressJSON []byte
		var payment, status, createdAt string

		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&itemsJSON,
			&o.Subtotal,
			&o.Shipping,
			&o.Total,
			&addressJSON,
			&payment,
			&status,
			&o.PaymentRef,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order history row: %w", err)
		}

		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}
		if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
		}
		o.Payment = domain.PaymentMethod(payment)
		o.Status = domain.Status(status)
		if o.CreatedAt, err = parseHistoryTime(createdAt); err != nil {
			return nil, err
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (r *HistoryRepository) Close() error {
	return r.db.Close()
}
