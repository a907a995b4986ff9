package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	core_port "listing-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	corsAllowedOrigins []string,
	listingsHandler *ListingsHandler,
	mapHandler *MapHandler,
	catalogInfoHandler *CatalogInfoHandler,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders: []string{"X-Trace-ID"},
		MaxAge:         300, // 5 минут
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", catalogInfoHandler.Health)

		// каталог покупателя
		r.Get("/listings", listingsHandler.FindListings)
		r.Get("/listings/{listingID}", listingsHandler.GetListingDetails)
		r.Post("/listings", listingsHandler.SubmitListing)

		r.Get("/map/markers", mapHandler.GetMarkers)
		r.Get("/map/clusters", mapHandler.GetClusters)

		r.Get("/dictionaries/categories", catalogInfoHandler.GetCategories)
		r.Get("/stats", catalogInfoHandler.GetStats)

		// кабинет продавца
		r.Get("/seller/listings", catalogInfoHandler.GetSellerListings)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// Handler отдает роутер целиком, нужен для httptest
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
