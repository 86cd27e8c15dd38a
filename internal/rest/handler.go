package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pershin-daniil/hrdesk/internal/calendar"
	"github.com/pershin-daniil/hrdesk/internal/export"
	"github.com/pershin-daniil/hrdesk/pkg/models"
	"github.com/pershin-daniil/hrdesk/pkg/service"
	"github.com/pershin-daniil/hrdesk/pkg/upstream"
)

type App interface {
	Location() *time.Location
	Events(ctx context.Context, session models.Session, ref time.Time) service.EventsResult
	VacationHistory(ctx context.Context, session models.Session, year int) ([]models.VacationHistory, error)
	VacationAmount(start, end time.Time) float64
	Screen(session models.Session) service.ScreenView
	Refresh(ctx context.Context, session models.Session, ref time.Time) service.ScreenView
	SelectRange(session models.Session, start, endExclusive time.Time) (service.ScreenView, error)
	ClickEvent(session models.Session, eventID string) (service.ScreenView, error)
	OpenVacationDialog(session models.Session) (service.ScreenView, error)
	Close(session models.Session) service.ScreenView
	MoveEvent(ctx context.Context, session models.Session, eventID string, start, endExclusive time.Time) (service.ScreenView, error)
	SaveTicket(ctx context.Context, session models.Session, draft service.TicketDraft) (service.ScreenView, error)
	DeleteTicket(ctx context.Context, session models.Session, id int) (service.ScreenView, error)
	RequestVacation(ctx context.Context, session models.Session, draft service.VacationDraft) (service.ScreenView, error)
}

type rangeRequest struct {
	EventID string `json:"eventId"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type vacationRequest struct {
	Type  string `json:"type"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type amountResponse struct {
	Amount float64 `json:"amount"`
	Valid  bool    `json:"valid"`
}

func (s *Server) versionHandler(w http.ResponseWriter, _ *http.Request) {
	_, err := fmt.Fprintf(w, "%s\n", s.version)
	if err != nil {
		s.log.Warnf("err during writing to connection: %v", err)
	}
}

func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	ref, err := s.referenceDate(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	view := s.app.Refresh(r.Context(), sessionFrom(r.Context()), ref)
	s.writeResponse(w, http.StatusOK, view)
}

func (s *Server) eventsICSHandler(w http.ResponseWriter, r *http.Request) {
	ref, err := s.referenceDate(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	result := s.app.Events(r.Context(), sessionFrom(r.Context()), ref)
	if result.Failed() {
		s.log.Warnf("serving partial calendar feed: tickets failed=%v vacations failed=%v", result.TicketsFailed, result.VacationsFailed)
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	if err = export.WriteICS(w, result.Events, time.Now().UTC()); err != nil {
		s.log.Warnf("err writing calendar feed: %v", err)
	}
}

func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, http.StatusOK, s.app.Screen(sessionFrom(r.Context())))
}

func (s *Server) selectHandler(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	start, end, err := s.parseRange(req.Start, req.End)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	view, err := s.app.SelectRange(sessionFrom(r.Context()), start, end)
	s.writeView(w, view, err)
}

func (s *Server) clickHandler(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	view, err := s.app.ClickEvent(sessionFrom(r.Context()), req.EventID)
	s.writeView(w, view, err)
}

func (s *Server) moveHandler(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	start, end, err := s.parseRange(req.Start, req.End)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	view, err := s.app.MoveEvent(r.Context(), sessionFrom(r.Context()), req.EventID, start, end)
	s.writeView(w, view, err)
}

func (s *Server) closeHandler(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, http.StatusOK, s.app.Close(sessionFrom(r.Context())))
}

func (s *Server) openVacationDialogHandler(w http.ResponseWriter, r *http.Request) {
	view, err := s.app.OpenVacationDialog(sessionFrom(r.Context()))
	s.writeView(w, view, err)
}

func (s *Server) saveTicketHandler(w http.ResponseWriter, r *http.Request) {
	var draft service.TicketDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	view, err := s.app.SaveTicket(r.Context(), sessionFrom(r.Context()), draft)
	s.writeView(w, view, err)
}

func (s *Server) deleteTicketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	view, err := s.app.DeleteTicket(r.Context(), sessionFrom(r.Context()), id)
	s.writeView(w, view, err)
}

func (s *Server) requestVacationHandler(w http.ResponseWriter, r *http.Request) {
	var req vacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	start, end, err := s.parseRange(req.Start, req.End)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	view, err := s.app.RequestVacation(r.Context(), sessionFrom(r.Context()), service.VacationDraft{
		Type:  req.Type,
		Start: start,
		End:   end,
	})
	s.writeView(w, view, err)
}

func (s *Server) vacationAmountHandler(w http.ResponseWriter, r *http.Request) {
	var req vacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	start, end, err := s.parseRange(req.Start, req.End)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	amount := s.app.VacationAmount(start, end)
	s.writeResponse(w, http.StatusOK, amountResponse{Amount: amount, Valid: amount >= 0})
}

func (s *Server) vacationExportHandler(w http.ResponseWriter, r *http.Request) {
	year := time.Now().In(s.app.Location()).Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		var err error
		if year, err = strconv.Atoi(raw); err != nil {
			s.writeResponse(w, http.StatusBadRequest, err)
			return
		}
	}
	history, err := s.app.VacationHistory(r.Context(), sessionFrom(r.Context()), year)
	if err != nil {
		s.log.Warnf("err during exporting vacations: %v", err)
		s.writeResponse(w, http.StatusBadGateway, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="vacations-%d.xlsx"`, year))
	if err = export.WriteVacationsXLSX(w, history); err != nil {
		s.log.Warnf("err writing workbook: %v", err)
	}
}

func (s *Server) referenceDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now().In(s.app.Location()), nil
	}
	return calendar.ParseDay(raw, s.app.Location())
}

func (s *Server) parseRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := calendar.ParseStamp(rawStart, s.app.Location())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := calendar.ParseStamp(rawEnd, s.app.Location())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end: %w", err)
	}
	return start, end, nil
}

func (s *Server) writeView(w http.ResponseWriter, view service.ScreenView, err error) {
	switch {
	case err == nil:
		s.writeResponse(w, http.StatusOK, view)
	case errors.Is(err, service.ErrInvalidRange), errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrNoSession),
		errors.Is(err, service.ErrUnknownVacationType):
		s.writeResponse(w, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrEventNotFound), errors.Is(err, upstream.ErrNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
	case errors.Is(err, service.ErrDialogOpen), errors.Is(err, service.ErrNoDialog):
		s.writeResponse(w, http.StatusConflict, err)
	default:
		s.log.Warnf("err during calendar interaction: %v", err)
		s.writeResponse(w, http.StatusBadGateway, err)
	}
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
