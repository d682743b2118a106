package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/mariwi1503/mini-market-pondok/internal/catalog/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
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

const productColumns = `id, name, handle, description, price, image, category, category_id, stock, unit, discount, is_promo`

func scanProduct(rows *sql.Rows) (*domain.Product, error) {
	p := &domain.Product{}
	var discount sql.NullInt64
	err := rows.Scan(
		&p.ID,
		&p.Name,
		&p.Handle,
		&p.Description,
		&p.Price,
		&p.Image,
		&p.Category,
		&p.CategoryID,
		&p.Stock,
		&p.Unit,
		&discount,
		&p.IsPromo,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	if discount.Valid {
		p.Discount = &discount.Int64
	}
	return p, nil
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) queryProduct(ctx context.Context, query string, args ...interface{}) (*domain.Product, error) {
	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}
	return products[0], nil
}

func (r *Repository) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY rowid`)
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return r.queryProduct(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
}

func (r *Repository) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	return r.queryProduct(ctx, `SELECT `+productColumns+` FROM products WHERE handle = ?`, handle)
}

func (r *Repository) GetProductsByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products WHERE category_id = ? ORDER BY rowid`, categoryID)
}

func (r *Repository) GetPromoProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products WHERE is_promo = 1 ORDER BY rowid`)
}

// SearchProducts matches a case-insensitive substring against name,
// description and category, preserving catalog order. An empty result is
// a valid answer, not an error.
func (r *Repository) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	q := "%" + escapeLike(strings.ToLower(query)) + "%"
	return r.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE lower(name) LIKE ? ESCAPE '\'
		   OR lower(description) LIKE ? ESCAPE '\'
		   OR lower(category) LIKE ? ESCAPE '\'
		ORDER BY rowid`, q, q, q)
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *Repository) GetAllCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, icon, handle, color FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c := &domain.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Handle, &c.Color); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return categories, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
