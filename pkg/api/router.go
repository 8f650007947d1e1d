package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/Sternrassler/catalog-api/pkg/cache"
	"github.com/Sternrassler/catalog-api/pkg/logging"
	"github.com/Sternrassler/catalog-api/pkg/metrics"
)

// Options configures the HTTP surface.
type Options struct {
	// Prefix is prepended to every product route, e.g. "/api/v1".
	Prefix string

	// CORSOrigins lists allowed origins. Empty allows any origin.
	CORSOrigins []string

	// DefaultPageSize applies when a list request omits page_size.
	DefaultPageSize int
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Reader Reader
	Writer Writer
	Store  Pinger
	Cache  cache.Store
}

// NewRouter builds the HTTP handler with all routes and middleware.
func NewRouter(deps Deps, opts Options) http.Handler {
	router := mux.NewRouter()
	router.Use(requestLogging, metrics.Middleware)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Detail: "method not allowed"})
	})

	health := NewHealthHandler(deps.Store, deps.Cache)
	router.HandleFunc("/health", health.Live).Methods(http.MethodGet)
	router.HandleFunc("/ready", health.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	products := NewProductHandler(deps.Reader, deps.Writer, opts.DefaultPageSize)
	api := router
	if prefix := strings.TrimRight(opts.Prefix, "/"); prefix != "" {
		api = router.PathPrefix(prefix).Subrouter()
	}

	// stats must be registered before the {id} route
	api.HandleFunc("/products/stats/summary", products.Stats).Methods(http.MethodGet)
	api.HandleFunc("/products", products.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", products.CreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", products.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", products.UpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", products.DeleteProduct).Methods(http.MethodDelete)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", HeaderRequestID}),
		handlers.ExposedHeaders([]string{HeaderRequestID, HeaderProcessTime}),
	)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: logging.NewLogger("api")}),
		handlers.PrintRecoveryStack(true),
	)

	return recovery(cors(router))
}
