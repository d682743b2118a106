package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	catalogdomain "github.com/mariwi1503/mini-market-pondok/internal/catalog/domain"
	catalogrepo "github.com/mariwi1503/mini-market-pondok/internal/catalog/repository"
)

type ProductHandler struct {
	catalog catalogrepo.CatalogRepository
	timeout time.Duration
}

func NewProductHandler(catalog catalogrepo.CatalogRepository, timeout time.Duration) *ProductHandler {
	return &ProductHandler{catalog: catalog, timeout: timeout}
}

type ProductResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Handle          string `json:"handle"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	DiscountedPrice int64  `json:"discounted_price"`
	Image           string `json:"image"`
	Category        string `json:"category"`
	CategoryID      string `json:"category_id"`
	Stock           int    `json:"stock"`
	Unit            string `json:"unit"`
	Discount        *int64 `json:"discount,omitempty"`
	IsPromo         bool   `json:"is_promo"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

type CategoryResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Handle string `json:"handle"`
	Color  string `json:"color"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

func toProductResponse(p *catalogdomain.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Handle:          p.Handle,
		Description:     p.Description,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice(),
		Image:           p.Image,
		Category:        p.Category,
		CategoryID:      p.CategoryID,
		Stock:           p.Stock,
		Unit:            p.Unit,
		Discount:        p.Discount,
		IsPromo:         p.IsPromo,
	}
}

func toProductsResponse(products []*catalogdomain.Product) *ProductsResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return &ProductsResponse{Products: out}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	products, err := h.catalog.GetAllProducts(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductsResponse(products))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	product, err := h.catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) GetByHandle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	product, err := h.catalog.GetProductByHandle(ctx, chi.URLParam(r, "handle"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(product))
}

// Search answers an empty query with the full catalog, matching the
// browse-with-empty-searchbox behavior of the shop front.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	query := r.URL.Query().Get("q")
	if query == "" {
		products, err := h.catalog.GetAllProducts(ctx)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, toProductsResponse(products))
		return
	}

	products, err := h.catalog.SearchProducts(ctx, query)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductsResponse(products))
}

func (h *ProductHandler) Promos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	products, err := h.catalog.GetPromoProducts(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductsResponse(products))
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	categories, err := h.catalog.GetAllCategories(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = CategoryResponse{ID: c.ID, Name: c.Name, Icon: c.Icon, Handle: c.Handle, Color: c.Color}
	}
	respondJSON(w, http.StatusOK, &CategoriesResponse{Categories: out})
}

func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	products, err := h.catalog.GetProductsByCategory(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductsResponse(products))
}
