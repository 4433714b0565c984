// Package server wires the HTTP routes, middleware, and static asset
// serving for the catalog service.
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lunamart/catalog-service/app/auth"
	"github.com/lunamart/catalog-service/app/catalog"
	"github.com/lunamart/catalog-service/app/products"
	"github.com/lunamart/catalog-service/pkg/logx"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalogHandler  *catalog.CatalogHandler
	productsHandler *products.ProductsHandler
	authHandler     *auth.AuthHandler
	publicDir       string
	uploadDir       string
	router          *chi.Mux
}

// New creates the HTTP server with all routes configured. publicDir holds
// the static storefront assets; uploadDir is the managed uploads area.
func New(catalogHandler *catalog.CatalogHandler, productsHandler *products.ProductsHandler, authHandler *auth.AuthHandler, publicDir, uploadDir string) *Server {
	s := &Server{
		catalogHandler:  catalogHandler,
		productsHandler: productsHandler,
		authHandler:     authHandler,
		publicDir:       publicDir,
		uploadDir:       uploadDir,
		router:          chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
}

func (s *Server) setupRoutes() {
	s.router.Post("/api/auth", s.authHandler.HandleAuth)

	s.router.Get("/products.json", s.catalogHandler.HandleGetProducts)

	// TODO: gate the mutating routes behind the shared-secret check; today
	// only /api/auth verifies it and these endpoints trust the client.
	s.router.Route("/api/products", func(r chi.Router) {
		r.Get("/", s.catalogHandler.HandleGetProducts)
		r.Post("/", s.productsHandler.HandleCreate)
		r.Put("/{id}", s.productsHandler.HandleUpdate)
		r.Delete("/{id}", s.productsHandler.HandleDelete)
	})
	s.router.Get("/api/tags", s.catalogHandler.HandleGetTags)

	s.router.Get("/uploads/{file}", s.handleUpload)
	s.router.Get("/favicon.ico", s.handlePublicFile("favicon.ico"))
	s.router.Get("/", s.handlePublicFile("index.html"))
	s.router.Get("/{name}", s.handlePage)
	s.router.NotFound(s.handleNotFound)
}

// handleUpload serves an image from the managed uploads area.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "file"))
	path := filepath.Join(s.uploadDir, name)
	if _, err := os.Stat(path); err != nil {
		s.handleNotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handlePublicFile(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.publicDir, name)
		if _, err := os.Stat(path); err != nil {
			s.handleNotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

// handlePage serves a top-level static asset. A bare name resolves to its
// .html file when present, so /about serves about.html.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "name"))

	if path := filepath.Join(s.publicDir, name+".html"); fileExists(path) {
		http.ServeFile(w, r, path)
		return
	}
	if path := filepath.Join(s.publicDir, name); fileExists(path) {
		http.ServeFile(w, r, path)
		return
	}
	s.handleNotFound(w, r)
}

// handleNotFound serves the custom not-found page. These paths serve
// browsers, not API clients, so the response is HTML rather than JSON.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.publicDir, "404.html")
	data, err := os.ReadFile(path)
	if err != nil {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write(data)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// requestLogger logs one line per request with method, path, status, and
// duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logx.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
