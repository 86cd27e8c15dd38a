package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var ErrUnauthorised = errors.New("unauthorized")

// Server exposes the ticket and vacation resources the dashboard consumes.
type Server struct {
	log     *logrus.Entry
	store   Store
	address string
	version string
	token   string
}

func New(log *logrus.Logger, store Store, address, version, token string) *Server {
	s := Server{
		log:     log.WithField("component", "backend"),
		store:   store,
		address: address,
		version: version,
		token:   token,
	}
	return &s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/version", s.versionHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Use(s.tokenAuth)
			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", s.listTicketsHandler)
				r.Post("/", s.createTicketHandler)
				r.Get("/{id}", s.getTicketHandler)
				r.Patch("/{id}", s.updateTicketHandler)
				r.Delete("/{id}", s.deleteTicketHandler)
			})
			r.Route("/vacations/history", func(r chi.Router) {
				r.Get("/", s.listVacationsHandler)
				r.Post("/", s.createVacationHandler)
			})
		})
	})
	return r
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("err during shutdown: %v", err)
		}
	}()
	s.log.Infof("Starting backend server on %s", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// tokenAuth accepts any request when no token is configured.
func (s *Server) tokenAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		headerParts := strings.Split(r.Header.Get("Authorization"), " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" || headerParts[1] != s.token {
			s.writeResponse(w, http.StatusUnauthorized, ErrUnauthorised)
			return
		}
		next.ServeHTTP(w, r)
	})
}
