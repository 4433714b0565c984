// Package products implements the admin mutation endpoints: multipart
// create and update with optional image upload, and delete.
package products

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lunamart/catalog-service/app/catalog"
	"github.com/lunamart/catalog-service/httpx"
	"github.com/lunamart/catalog-service/models"
	"github.com/lunamart/catalog-service/uploads"
)

// maxUploadSize bounds the multipart form held in memory.
const maxUploadSize = 16 << 20

type CatalogStore interface {
	GetProduct(id uint) (*models.Product, error)
	CreateProduct(in models.ProductInput) (*models.Product, error)
	UpdateProduct(id uint, in models.ProductInput, replaceImage bool) (*models.Product, error)
	DeleteProduct(id uint) (string, error)
}

type ImageStore interface {
	Save(r io.Reader, originalFilename string) (string, error)
	Delete(ref string) error
}

type ProductsHandler struct {
	repo     CatalogStore
	images   ImageStore
	validate *validator.Validate
}

func NewProductsHandler(repo CatalogStore, images ImageStore) *ProductsHandler {
	return &ProductsHandler{
		repo:     repo,
		images:   images,
		validate: validator.New(),
	}
}

// productForm carries the multipart form fields shared by create and update.
type productForm struct {
	Name        string `validate:"required"`
	Price       string `validate:"required"`
	Description string
	Tags        string
}

// parseForm validates the form fields and resolves them into a store input.
// The image reference is filled in by the caller.
func (h *ProductsHandler) parseForm(r *http.Request) (models.ProductInput, error) {
	form := productForm{
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
		Tags:        r.FormValue("tags"),
	}
	if err := h.validate.Struct(form); err != nil {
		return models.ProductInput{}, errors.New("name and price are required")
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		return models.ProductInput{}, errors.New("price must be a number")
	}
	if price.IsNegative() {
		return models.ProductInput{}, errors.New("price must not be negative")
	}

	return models.ProductInput{
		Name:        form.Name,
		Price:       price,
		Description: form.Description,
		Tags:        models.SplitTagNames(form.Tags),
	}, nil
}

// saveImage stores an uploaded image if one was submitted with an allowed
// extension. It returns the new reference, or "" when there is no image to
// store.
func (h *ProductsHandler) saveImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()
	return h.images.Save(file, header.Filename)
}

// HandleCreate creates a product from a multipart form. The image is saved
// first so the stored reference is final at insert time.
func (h *ProductsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.BadRequest(w, "invalid multipart form")
		return
	}

	input, err := h.parseForm(r)
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}

	input.Image, err = h.saveImage(r)
	if err != nil {
		httpx.Internal(w, err.Error())
		return
	}

	product, err := h.repo.CreateProduct(input)
	if err != nil {
		// The row never landed; drop the file that was saved for it.
		if input.Image != "" {
			_ = h.images.Delete(input.Image)
		}
		httpx.Internal(w, err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, catalog.NewProduct(*product))
}

// HandleUpdate updates a product from a multipart form. When a new image is
// uploaded the previous one is deleted after the update commits, and only
// if it lived in the managed uploads area.
func (h *ProductsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.NotFound(w, "product not found")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.BadRequest(w, "invalid multipart form")
		return
	}

	existing, err := h.repo.GetProduct(id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			httpx.NotFound(w, "product not found")
			return
		}
		httpx.Internal(w, err.Error())
		return
	}

	input, err := h.parseForm(r)
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}

	newImage, err := h.saveImage(r)
	if err != nil {
		httpx.Internal(w, err.Error())
		return
	}
	replaceImage := newImage != ""
	if replaceImage {
		input.Image = newImage
	}

	product, err := h.repo.UpdateProduct(id, input, replaceImage)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			httpx.NotFound(w, "product not found")
			return
		}
		httpx.Internal(w, err.Error())
		return
	}

	if replaceImage && uploads.Managed(existing.Image) {
		if err := h.images.Delete(existing.Image); err != nil {
			httpx.Internal(w, err.Error())
			return
		}
	}
	httpx.JSON(w, http.StatusOK, catalog.NewProduct(*product))
}

// HandleDelete deletes a product, then removes its image file if it lived
// in the managed uploads area.
func (h *ProductsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.NotFound(w, "product not found")
		return
	}

	image, err := h.repo.DeleteProduct(id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			httpx.NotFound(w, "product not found")
			return
		}
		httpx.Internal(w, err.Error())
		return
	}

	if err := h.images.Delete(image); err != nil {
		httpx.Internal(w, err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
