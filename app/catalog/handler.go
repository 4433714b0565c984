package catalog

import (
	"net/http"

	"github.com/lunamart/catalog-service/httpx"
	"github.com/lunamart/catalog-service/models"
)

// Product is the wire shape of a catalog entry.
type Product struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
}

// NewProduct maps a stored product to its wire shape.
func NewProduct(p models.Product) Product {
	tags := p.Tags
	if tags == nil {
		tags = make([]string, 0)
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		Image:       p.Image,
		Tags:        tags,
	}
}

type ProductProvider interface {
	ListProducts() ([]models.Product, error)
	ListTagNames() ([]string, error)
}

type CatalogHandler struct {
	repo ProductProvider
}

func NewCatalogHandler(r ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		repo: r,
	}
}

// HandleGetProducts serves the full catalog with tags, ordered by id. It
// backs both the public feed and the admin listing.
func (h *CatalogHandler) HandleGetProducts(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.ListProducts()
	if err != nil {
		httpx.Internal(w, err.Error())
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = NewProduct(p)
	}
	httpx.JSON(w, http.StatusOK, products)
}

// HandleGetTags serves all distinct tag names currently in use.
func (h *CatalogHandler) HandleGetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.repo.ListTagNames()
	if err != nil {
		httpx.Internal(w, err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, tags)
}
