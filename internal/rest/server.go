package rest

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Server struct {
	log       *logrus.Entry
	app       App
	address   string
	version   string
	publicKey *rsa.PublicKey
}

func New(log *logrus.Logger, app App, address, version string, publicKey *rsa.PublicKey) *Server {
	s := Server{
		log:       log.WithField("component", "rest"),
		app:       app,
		address:   address,
		version:   version,
		publicKey: publicKey,
	}
	return &s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Get("/version", s.versionHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Use(s.jwtAuth)
			r.Route("/calendar", func(r chi.Router) {
				r.Get("/events", s.eventsHandler)
				r.Get("/events.ics", s.eventsICSHandler)
				r.Get("/state", s.stateHandler)
				r.Post("/select", s.selectHandler)
				r.Post("/click", s.clickHandler)
				r.Post("/move", s.moveHandler)
				r.Post("/close", s.closeHandler)
				r.Post("/vacation-dialog", s.openVacationDialogHandler)
				r.Post("/tickets", s.saveTicketHandler)
				r.Delete("/tickets/{id}", s.deleteTicketHandler)
				r.Post("/vacations", s.requestVacationHandler)
			})
			r.Route("/vacations", func(r chi.Router) {
				r.Post("/amount", s.vacationAmountHandler)
				r.Get("/export.xlsx", s.vacationExportHandler)
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
	s.log.Infof("Starting dashboard server on %s", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
