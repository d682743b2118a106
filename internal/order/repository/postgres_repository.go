package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/mariwi1503/mini-market-pondok/internal/order/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// CreateOrder persists the order and returns the store-generated id.
// The caller's Order is not mutated.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (string, error) {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order items: %w", err)
	}

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return "", fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	id := uuid.New().String()
	query := `INSERT INTO orders (id, user_id, items, subtotal, shipping, total, shipping_address, payment, status, payment_ref, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())`

	_, err = r.db.ExecContext(ctx, query,
		id,
		order.UserID,
		itemsJSON,
		order.Subtotal,
		order.Shipping,
		order.Total,
		addressJSON,
		string(order.Payment),
		string(order.Status),
		order.PaymentRef,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}

	return id, nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT id, user_id, items, subtotal, shipping, total, shipping_address, payment, status, payment_ref, created_at
	          FROM orders WHERE id = $1`

	o := &domain.Order{}
	var itemsJSON, addressJSON []byte
	var payment, status string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
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
		&o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}
	o.Payment = domain.PaymentMethod(payment)
	o.Status = domain.Status(status)

	return o, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
