package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// maxBodyBytes bounds request bodies of write operations.
const maxBodyBytes = 1 << 20

// Reader serves the cached read path.
type Reader interface {
	List(ctx context.Context, params catalog.ListParams) (*catalog.ProductPage, error)
	Get(ctx context.Context, id string) (*catalog.Product, error)
	Stats(ctx context.Context) (*catalog.Stats, error)
}

// Writer applies mutations and invalidates the cache.
type Writer interface {
	Create(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error)
	Update(ctx context.Context, id string, u catalog.ProductUpdate) (*catalog.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandler exposes the catalog over HTTP.
type ProductHandler struct {
	reader          Reader
	writer          Writer
	defaultPageSize int
}

// NewProductHandler creates a product handler.
func NewProductHandler(reader Reader, writer Writer, defaultPageSize int) *ProductHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = catalog.DefaultConfig().DefaultPageSize
	}
	return &ProductHandler{reader: reader, writer: writer, defaultPageSize: defaultPageSize}
}

// ListProducts handles GET /products.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r.URL.Query(), h.defaultPageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.reader.List(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetProduct handles GET /products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.reader.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Stats handles GET /products/stats/summary.
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reader.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CreateProduct handles POST /products.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.writer.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/{id}.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var u catalog.ProductUpdate
	if err := decodeBody(w, r, &u); err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.writer.Update(r.Context(), mux.Vars(r)["id"], u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.writer.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return invalid("request body is empty")
		case errors.As(err, &tooLarge):
			return invalid("request body too large")
		default:
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return invalid("invalid request body", catalog.FieldError{
					Field:   typeErr.Field,
					Message: "must be of type " + typeErr.Type.String(),
				})
			}
			return invalid("malformed JSON body")
		}
	}
	return nil
}
