package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	catalogrepo "github.com/mariwi1503/mini-market-pondok/internal/catalog/repository"

	"github.com/mariwi1503/mini-market-pondok/internal/cart/cache"
	"github.com/mariwi1503/mini-market-pondok/internal/cart/domain"
	"github.com/mariwi1503/mini-market-pondok/internal/cart/repository"
)

// ShippingCost is a standing business rule: delivery is free. Total is
// still exposed separately from Subtotal so shipping pricing can change
// without breaking callers.
const ShippingCost int64 = 0

var ErrProductUnavailable = errors.New("product is out of stock")

type Totals struct {
	LineCount int   `json:"line_count"`
	Subtotal  int64 `json:"subtotal"`
	Shipping  int64 `json:"shipping"`
	Total     int64 `json:"total"`
}

type CartService struct {
	repo    repository.CartRepository
	cache   cache.CartCache
	catalog catalogrepo.CatalogRepository
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cc cache.CartCache, catalog catalogrepo.CatalogRepository) *CartService {
	return &CartService{
		repo:    repo,
		cache:   cc,
		catalog: catalog,
	}
}

// GetCart returns the user's cart, reading through the cache. A missing,
// schema-mismatched or otherwise unreadable stored cart degrades to an
// empty cart. Items whose product no longer resolves in the catalog are
// dropped and the pruned state is persisted.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, err = s.load(ctx, userID)
		if err != nil {
			return nil, err
		}

		cart, err = s.pruneUnavailable(ctx, cart)
		if err != nil {
			return nil, err
		}

		// set cache
		go func() {
			if errSet := s.cache.Set(context.Background(), userID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem adds quantity units of the product, merging into an existing
// line. Quantities clamp silently to the product's stock; the applied
// line quantity is returned so callers can surface the clamp if they
// want to.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if product.Stock <= 0 {
		return 0, ErrProductUnavailable
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}

	applied := quantity
	if item := cart.Find(productID); item != nil {
		applied = clampQuantity(item.Quantity+quantity, product.Stock)
		item.Quantity = applied
	} else {
		applied = clampQuantity(quantity, product.Stock)
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  applied,
			AddedAt:   time.Now(),
		})
	}

	if err := s.persist(ctx, cart); err != nil {
		return 0, err
	}
	return applied, nil
}

// SetQuantity sets the line quantity, clamped to stock. A quantity of
// zero or less removes the line. Setting an absent line is a no-op.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, s.RemoveItem(ctx, userID, productID)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}

	item := cart.Find(productID)
	if item == nil {
		return 0, nil
	}

	applied := clampQuantity(quantity, product.Stock)
	item.Quantity = applied

	if err := s.persist(ctx, cart); err != nil {
		return 0, err
	}
	return applied, nil
}

// RemoveItem deletes the line for the product. Removing an absent line
// is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	cart.Remove(productID)
	return s.persist(ctx, cart)
}

// ClearCart empties the cart and persists the empty state.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	cart.Items = []domain.CartItem{}
	return s.persist(ctx, cart)
}

// Contains reports whether the cart holds a line for the product.
func (s *CartService) Contains(ctx context.Context, userID, productID string) (bool, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return false, err
	}
	return cart.Find(productID) != nil, nil
}

// Totals prices the cart against the current catalog: line count,
// subtotal over discounted unit prices, and total (subtotal plus the
// fixed shipping cost).
func (s *CartService) Totals(ctx context.Context, userID string) (*Totals, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := &Totals{Shipping: ShippingCost}
	for _, item := range cart.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalogrepo.ErrProductNotFound) {
				continue // pruned on next load
			}
			return nil, err
		}
		totals.LineCount += item.Quantity
		totals.Subtotal += product.DiscountedPrice() * int64(item.Quantity)
	}
	totals.Total = totals.Subtotal + totals.Shipping

	return totals, nil
}

// load reads the cart straight from the repository, bypassing the
// cache, so mutations always apply to the durable state. A missing or
// schema-mismatched cart starts over empty.
func (s *CartService) load(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if errors.Is(err, repository.ErrCartNotFound) {
		return emptyCart(userID), nil
	}
	if errors.Is(err, repository.ErrSchemaMismatch) {
		log.Printf("cart for user %s has an unknown schema version, resetting to empty", userID)
		return emptyCart(userID), nil
	}
	return nil, err
}

func (s *CartService) pruneUnavailable(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	kept := cart.Items[:0]
	pruned := false
	for _, item := range cart.Items {
		_, err := s.catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(err, catalogrepo.ErrProductNotFound) {
			pruned = true
			continue
		}
		if err != nil {
			return nil, err
		}
		kept = append(kept, item)
	}

	if !pruned {
		return cart, nil
	}

	cart.Items = kept
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) persist(ctx context.Context, cart *domain.Cart) error {
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v", err)
		return err
	}

	s.invalidateCache(cart.UserID)
	return nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func clampQuantity(quantity, stock int) int {
	if quantity > stock {
		return stock
	}
	if quantity < 1 {
		return 1
	}
	return quantity
}

func emptyCart(userID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		UserID:    userID,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
