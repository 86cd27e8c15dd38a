package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pershin-daniil/hrdesk/pkg/models"
	"github.com/pershin-daniil/hrdesk/pkg/pgstore"
)

type Store interface {
	ListTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error)
	GetTicket(ctx context.Context, id int) (models.Ticket, error)
	CreateTicket(ctx context.Context, ticket models.TicketRequest) (models.Ticket, error)
	UpdateTicket(ctx context.Context, id int, ticket models.TicketRequest) (models.Ticket, error)
	DeleteTicket(ctx context.Context, id int) (models.Ticket, error)
	ListVacations(ctx context.Context, userID string, year int) ([]models.VacationHistory, error)
	CreateVacation(ctx context.Context, req models.VacationRequest) (models.VacationHistory, error)
}

var (
	ErrBadFilter   = errors.New("userName, periodYear and periodMonth are required")
	ErrBadTicket   = errors.New("userName, title, eventStartDate and eventEndDate are required")
	ErrBadVacation = errors.New("userId is required and the range must not be reversed")
	ErrBadRange    = errors.New("eventEndDate is before eventStartDate")

	ErrBadVacationType = errors.New("unknown vacation type")
)

func (s *Server) versionHandler(w http.ResponseWriter, _ *http.Request) {
	_, err := fmt.Fprintf(w, "%s\n", s.version)
	if err != nil {
		s.log.Warnf("err during writing to connection: %v", err)
	}
}

func (s *Server) listTicketsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	year, yerr := strconv.Atoi(q.Get("periodYear"))
	month, merr := strconv.Atoi(q.Get("periodMonth"))
	if q.Get("userName") == "" || yerr != nil || merr != nil || month < 1 || month > 12 {
		s.writeResponse(w, http.StatusBadRequest, ErrBadFilter)
		return
	}
	tickets, err := s.store.ListTickets(ctx, models.TicketFilter{
		UserName:    q.Get("userName"),
		PeriodYear:  year,
		PeriodMonth: month,
	})
	if err != nil {
		s.log.Warnf("err during listing tickets: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusOK, tickets)
}

func (s *Server) createTicketHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var ticket models.TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&ticket); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if ticket.UserName == nil || ticket.Title == nil || strings.TrimSpace(*ticket.Title) == "" ||
		ticket.EventStartDate == nil || ticket.EventEndDate == nil {
		s.writeResponse(w, http.StatusBadRequest, ErrBadTicket)
		return
	}
	if ticket.EventEndDate.Before(*ticket.EventStartDate) {
		s.writeResponse(w, http.StatusBadRequest, ErrBadRange)
		return
	}
	created, err := s.store.CreateTicket(ctx, ticket)
	if err != nil {
		s.log.Warnf("err during creating ticket: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) getTicketHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	ticket, err := s.store.GetTicket(ctx, id)
	switch {
	case errors.Is(err, pgstore.ErrTicketNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.log.Warnf("err during getting ticket: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusOK, ticket)
}

func (s *Server) updateTicketHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var newData models.TicketRequest
	if err = json.NewDecoder(r.Body).Decode(&newData); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if newData.EventStartDate != nil && newData.EventEndDate != nil && newData.EventEndDate.Before(*newData.EventStartDate) {
		s.writeResponse(w, http.StatusBadRequest, ErrBadRange)
		return
	}
	updated, err := s.store.UpdateTicket(ctx, id, newData)
	switch {
	case errors.Is(err, pgstore.ErrTicketNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.log.Warnf("err during updating ticket: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusOK, updated)
}

func (s *Server) deleteTicketHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	deleted, err := s.store.DeleteTicket(ctx, id)
	switch {
	case errors.Is(err, pgstore.ErrTicketNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.log.Warnf("err during deleting ticket: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusOK, deleted)
}

func (s *Server) listVacationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	userID := q.Get("userId")
	if userID == "" {
		s.writeResponse(w, http.StatusBadRequest, ErrBadVacation)
		return
	}
	year := time.Now().Year()
	if raw := q.Get("year"); raw != "" {
		var err error
		if year, err = strconv.Atoi(raw); err != nil {
			s.writeResponse(w, http.StatusBadRequest, err)
			return
		}
	}
	history, err := s.store.ListVacations(ctx, userID, year)
	if err != nil {
		s.log.Warnf("err during listing vacations: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusOK, history)
}

func (s *Server) createVacationHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.VacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if req.UserID == "" || req.EventEndDate.Before(req.EventStartDate) || req.Amount < 0 {
		s.writeResponse(w, http.StatusBadRequest, ErrBadVacation)
		return
	}
	if req.Type == "" {
		req.Type = models.VacationAnnual
	}
	if !models.IsVacationType(req.Type) {
		s.writeResponse(w, http.StatusBadRequest, ErrBadVacationType)
		return
	}
	created, err := s.store.CreateVacation(ctx, req)
	if err != nil {
		s.log.Warnf("err during creating vacation: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) writeResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if x, ok := data.(error); ok {
		if err := json.NewEncoder(w).Encode(models.ErrorResponse{Error: x.Error()}); err != nil {
			s.log.Warnf("err during encoding error: %v", err)
		}
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warnf("err during encoding responce: %v", err)
	}
}
