package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rental-listing-client/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает маршруты API. Вынесен отдельно, чтобы тесты гоняли его через httptest.
func NewRouter(sessionHandlers *SessionHandlers, catalogHandlers *CatalogHandlers, allowedOrigins []string, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(baseLogger)) // метод, путь, статус и длительность каждого запроса
	r.Use(middleware.Recoverer)         // паника в обработчике превращается в 500
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandlers.CreateSession)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionHandlers.GetSession)
				r.Delete("/", sessionHandlers.DeleteSession)

				r.Put("/scope", sessionHandlers.SetScope)
				r.Put("/search", sessionHandlers.ApplySearch)
				r.Put("/page", sessionHandlers.GoToPage)
				r.Put("/page-size", sessionHandlers.SetPageSize)
				r.Post("/refresh", sessionHandlers.Refresh)

				r.Post("/properties", sessionHandlers.AddProperty)
				r.Put("/properties/{propertyID}", sessionHandlers.EditProperty)
				r.Delete("/properties/{propertyID}", sessionHandlers.DeleteProperty)
				r.Put("/properties/{propertyID}/availability", sessionHandlers.SetAvailability)

				r.Get("/forms/{mode}", sessionHandlers.PresentForm)
				r.Get("/events", sessionHandlers.SubscribeEvents)
			})
		})

		r.Get("/properties/{propertyID}", catalogHandlers.GetPropertyDetails)
		r.Get("/landlords", catalogHandlers.ListLandlords)
		r.Get("/landlords/{landlordID}", catalogHandlers.GetLandlord)
	})

	return r
}

func NewServer(listenPort string, handler http.Handler, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + listenPort,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			// WriteTimeout не ставим: SSE-соединения живут долго
		},
		logger: baseLogger.WithFields(port.Fields{"component": "RestServer"}),
	}
}

// Start запускает HTTP-сервер и блокируется до Stop или ошибки.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
