package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pershin-daniil/hrdesk/internal/calendar"
	"github.com/pershin-daniil/hrdesk/pkg/metrics"
	"github.com/pershin-daniil/hrdesk/pkg/models"
)

type UIState int

const (
	StateIdle UIState = iota
	StateEventDialogOpen
	StateVacationDialogOpen
)

func (s UIState) String() string {
	switch s {
	case StateEventDialogOpen:
		return "eventDialogOpen"
	case StateVacationDialogOpen:
		return "vacationDialogOpen"
	default:
		return "idle"
	}
}

func (s UIState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// TicketDraft is the content of the event dialog. Start and End are calendar
// days, End is exclusive. TicketID is zero for a new ticket.
type TicketDraft struct {
	TicketID int    `json:"ticketId"`
	No       int    `json:"no"`
	Title    string `json:"title"`
	Color    string `json:"color"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

type VacationDraft struct {
	Type  string    `json:"type"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ScreenView is a snapshot of a session's calendar screen.
type ScreenView struct {
	State    UIState                 `json:"state"`
	Draft    *TicketDraft            `json:"draft,omitempty"`
	Vacation *models.VacationHistory `json:"vacation,omitempty"`
	Month    string                  `json:"month,omitempty"`
	Events   []models.Event          `json:"events"`
	Failed   bool                    `json:"failed"`
}

type screen struct {
	used     time.Time
	state    UIState
	draft    *TicketDraft
	vacation *models.VacationHistory
	ref      time.Time
	events   []models.Event
	failed   bool
}

func (sc *screen) view() ScreenView {
	v := ScreenView{
		State:  sc.state,
		Events: append([]models.Event{}, sc.events...),
		Failed: sc.failed,
	}
	if sc.draft != nil {
		d := *sc.draft
		v.Draft = &d
	}
	if sc.vacation != nil {
		vac := *sc.vacation
		v.Vacation = &vac
	}
	if !sc.ref.IsZero() {
		v.Month = sc.ref.Format("2006-01")
	}
	return v
}

func (sc *screen) close() {
	sc.state = StateIdle
	sc.draft = nil
	sc.vacation = nil
}

func (sc *screen) find(eventID string) (int, bool) {
	for i, ev := range sc.events {
		if ev.ID == eventID {
			return i, true
		}
	}
	return 0, false
}

func sessionKey(session models.Session) string {
	if session.ID != "" {
		return session.ID
	}
	return session.UserID
}

func idleView() ScreenView {
	return ScreenView{State: StateIdle, Events: []models.Event{}}
}

// screenFor returns the session's screen, creating it if needed.
// It must be called with s.mu held.
func (s *DashboardService) screenFor(session models.Session) *screen {
	now := s.now()
	s.evictIdle(now)
	key := sessionKey(session)
	sc, ok := s.screens[key]
	if !ok {
		sc = &screen{}
		s.screens[key] = sc
	}
	sc.used = now
	return sc
}

// lookupScreen is screenFor without the creation. It must be called with s.mu held.
func (s *DashboardService) lookupScreen(session models.Session) (*screen, bool) {
	now := s.now()
	s.evictIdle(now)
	sc, ok := s.screens[sessionKey(session)]
	if ok {
		sc.used = now
	}
	return sc, ok
}

// evictIdle drops screens unused for longer than screenTTL. The map is swept
// at most once per evictInterval. It must be called with s.mu held.
func (s *DashboardService) evictIdle(now time.Time) {
	if now.Sub(s.lastEvict) < evictInterval {
		return
	}
	s.lastEvict = now
	for key, sc := range s.screens {
		if now.Sub(sc.used) > s.screenTTL {
			delete(s.screens, key)
		}
	}
}

// Screen returns the session's current screen. A session that never
// interacted with the calendar gets an idle view and no state is kept for it.
func (s *DashboardService) Screen(session models.Session) ScreenView {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.lookupScreen(session)
	if !ok {
		return idleView()
	}
	return sc.view()
}

// Refresh fetches the events for ref and caches them on the session's screen.
func (s *DashboardService) Refresh(ctx context.Context, session models.Session, ref time.Time) ScreenView {
	result := s.Events(ctx, session, ref)
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.screenFor(session)
	sc.ref = calendar.Midnight(ref.In(s.loc))
	sc.events = result.Events
	sc.failed = result.Failed()
	return sc.view()
}

func (s *DashboardService) refetch(ctx context.Context, session models.Session) ScreenView {
	s.mu.Lock()
	ref := s.screenFor(session).ref
	s.mu.Unlock()
	if ref.IsZero() {
		ref = s.now().In(s.loc)
	}
	return s.Refresh(ctx, session, ref)
}

// SelectRange opens the event dialog for a new ticket covering the clicked range.
func (s *DashboardService) SelectRange(session models.Session, start, endExclusive time.Time) (ScreenView, error) {
	start, endExclusive = start.In(s.loc), endExclusive.In(s.loc)
	if endExclusive.Before(start) {
		return ScreenView{}, ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.screenFor(session)
	if sc.state != StateIdle {
		metrics.Interactions.WithLabelValues("select", "rejected").Inc()
		return sc.view(), ErrDialogOpen
	}
	sc.state = StateEventDialogOpen
	sc.draft = &TicketDraft{
		Start: calendar.FormatDay(start),
		End:   calendar.FormatDay(endExclusive),
	}
	metrics.Interactions.WithLabelValues("select", "opened").Inc()
	return sc.view(), nil
}

// ClickEvent routes a click on an existing event to the dialog for its kind.
// Clicking a locked ticket does nothing.
func (s *DashboardService) ClickEvent(session models.Session, eventID string) (ScreenView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.screenFor(session)
	i, ok := sc.find(eventID)
	if !ok {
		return sc.view(), ErrEventNotFound
	}
	if sc.state != StateIdle {
		metrics.Interactions.WithLabelValues("click", "rejected").Inc()
		return sc.view(), ErrDialogOpen
	}
	ev := sc.events[i]
	switch ev.Kind {
	case models.KindTicket:
		if ev.Ticket == nil || ev.Ticket.No == 0 {
			metrics.Interactions.WithLabelValues("click", "ignored").Inc()
			return sc.view(), nil
		}
		sc.state = StateEventDialogOpen
		sc.draft = &TicketDraft{
			TicketID: ev.Ticket.ID,
			No:       ev.Ticket.No,
			Title:    ev.Ticket.Title,
			Color:    ev.Ticket.Color,
			Start:    ev.Start,
			End:      ev.End,
		}
	case models.KindVacation:
		sc.state = StateVacationDialogOpen
		sc.vacation = ev.Vacation
	}
	metrics.Interactions.WithLabelValues("click", "opened").Inc()
	return sc.view(), nil
}

// OpenVacationDialog opens an empty vacation request form.
func (s *DashboardService) OpenVacationDialog(session models.Session) (ScreenView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.screenFor(session)
	if sc.state != StateIdle {
		return sc.view(), ErrDialogOpen
	}
	sc.state = StateVacationDialogOpen
	sc.vacation = nil
	return sc.view(), nil
}

func (s *DashboardService) Close(session models.Session) ScreenView {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.lookupScreen(session)
	if !ok {
		return idleView()
	}
	sc.close()
	return sc.view()
}

// MoveEvent applies a drag or resize of an editable ticket. The cached event
// moves right away; if the backend rejects the update it is put back.
func (s *DashboardService) MoveEvent(ctx context.Context, session models.Session, eventID string, start, endExclusive time.Time) (ScreenView, error) {
	start, endExclusive = start.In(s.loc), endExclusive.In(s.loc)
	if endExclusive.Before(start) {
		return ScreenView{}, ErrInvalidRange
	}
	s.mu.Lock()
	sc := s.screenFor(session)
	i, ok := sc.find(eventID)
	if !ok {
		view := sc.view()
		s.mu.Unlock()
		return view, ErrEventNotFound
	}
	ev := sc.events[i]
	if ev.Kind != models.KindTicket || !ev.Editable || ev.Ticket == nil {
		view := sc.view()
		s.mu.Unlock()
		metrics.Interactions.WithLabelValues("move", "ignored").Inc()
		return view, nil
	}
	previous := ev
	moved := ev
	moved.Start = calendar.FormatDay(start)
	moved.End = calendar.FormatDay(endExclusive)
	sc.events[i] = moved
	s.mu.Unlock()

	storedStart, storedEnd := calendar.StoredRange(start, endExclusive)
	_, err := s.backend.UpdateTicket(ctx, ev.Ticket.ID, models.TicketRequest{
		EventStartDate: &storedStart,
		EventEndDate:   &storedEnd,
	})
	if err != nil {
		s.log.Warnf("err moving ticket %d: %v", ev.Ticket.ID, err)
		s.mu.Lock()
		// A refresh during the update already replaced the event with backend data.
		if j, ok := sc.find(eventID); ok && sc.events[j] == moved {
			sc.events[j] = previous
		}
		view := sc.view()
		s.mu.Unlock()
		metrics.Interactions.WithLabelValues("move", "rolled_back").Inc()
		s.notify(ctx, session, fmt.Sprintf("Could not move %q: %v", ev.Title, err))
		return view, fmt.Errorf("err moving ticket %d: %w", ev.Ticket.ID, err)
	}
	metrics.Interactions.WithLabelValues("move", "saved").Inc()
	return s.refetch(ctx, session), nil
}

// SaveTicket creates or updates the ticket described by the open event dialog.
func (s *DashboardService) SaveTicket(ctx context.Context, session models.Session, draft TicketDraft) (ScreenView, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return ScreenView{}, ErrTitleRequired
	}
	start, err := calendar.ParseDay(draft.Start, s.loc)
	if err != nil {
		return ScreenView{}, err
	}
	end, err := calendar.ParseDay(draft.End, s.loc)
	if err != nil {
		return ScreenView{}, err
	}
	if end.Before(start) {
		return ScreenView{}, ErrInvalidRange
	}

	s.mu.Lock()
	sc := s.screenFor(session)
	if sc.state != StateEventDialogOpen || sc.draft == nil || sc.draft.TicketID != draft.TicketID {
		view := sc.view()
		s.mu.Unlock()
		return view, ErrNoDialog
	}
	s.mu.Unlock()

	storedStart, storedEnd := calendar.StoredRange(start, end)
	req := models.TicketRequest{
		Title:          &draft.Title,
		EventStartDate: &storedStart,
		EventEndDate:   &storedEnd,
	}
	if draft.Color != "" {
		req.Color = &draft.Color
	}
	if draft.No != 0 {
		req.No = &draft.No
	}
	if draft.TicketID == 0 {
		req.UserName = &session.UserName
		_, err = s.backend.CreateTicket(ctx, req)
	} else {
		_, err = s.backend.UpdateTicket(ctx, draft.TicketID, req)
	}
	if err != nil {
		s.log.Warnf("err saving ticket: %v", err)
		s.notify(ctx, session, fmt.Sprintf("Could not save %q: %v", draft.Title, err))
		return s.Screen(session), fmt.Errorf("err saving ticket: %w", err)
	}
	s.Close(session)
	return s.refetch(ctx, session), nil
}

// DeleteTicket removes the ticket shown in the open event dialog.
func (s *DashboardService) DeleteTicket(ctx context.Context, session models.Session, id int) (ScreenView, error) {
	s.mu.Lock()
	sc := s.screenFor(session)
	if sc.state != StateEventDialogOpen || sc.draft == nil || sc.draft.TicketID != id || id == 0 {
		view := sc.view()
		s.mu.Unlock()
		return view, ErrNoDialog
	}
	s.mu.Unlock()

	if err := s.backend.DeleteTicket(ctx, id); err != nil {
		s.log.Warnf("err deleting ticket %d: %v", id, err)
		s.notify(ctx, session, fmt.Sprintf("Could not delete ticket: %v", err))
		return s.Screen(session), fmt.Errorf("err deleting ticket %d: %w", id, err)
	}
	s.Close(session)
	return s.refetch(ctx, session), nil
}

// RequestVacation submits the vacation dialog, computing the day count from the range.
func (s *DashboardService) RequestVacation(ctx context.Context, session models.Session, draft VacationDraft) (ScreenView, error) {
	if session.UserID == "" {
		return ScreenView{}, ErrNoSession
	}
	amount := calendar.VacationAmount(draft.Start, draft.End)
	if amount < 0 {
		return ScreenView{}, ErrInvalidRange
	}
	if draft.Type == "" {
		draft.Type = models.VacationAnnual
	}
	if !models.IsVacationType(draft.Type) {
		return ScreenView{}, ErrUnknownVacationType
	}

	s.mu.Lock()
	sc := s.screenFor(session)
	if sc.state != StateVacationDialogOpen || sc.vacation != nil {
		view := sc.view()
		s.mu.Unlock()
		return view, ErrNoDialog
	}
	s.mu.Unlock()

	_, err := s.backend.CreateVacation(ctx, models.VacationRequest{
		UserID:         session.UserID,
		Type:           draft.Type,
		EventStartDate: draft.Start,
		EventEndDate:   draft.End,
		Amount:         amount,
	})
	if err != nil {
		s.log.Warnf("err requesting vacation: %v", err)
		s.notify(ctx, session, fmt.Sprintf("Could not request vacation: %v", err))
		return s.Screen(session), fmt.Errorf("err requesting vacation: %w", err)
	}
	s.Close(session)
	return s.refetch(ctx, session), nil
}
