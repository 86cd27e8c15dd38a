package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pershin-daniil/hrdesk/internal/calendar"
	"github.com/pershin-daniil/hrdesk/pkg/models"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidRange  = errors.New("start must not be after end")
	ErrDialogOpen    = errors.New("another dialog is open")
	ErrNoDialog      = errors.New("no matching dialog is open")
	ErrTitleRequired = errors.New("title is required")
	ErrNoSession     = errors.New("session has no user")

	ErrUnknownVacationType = errors.New("unknown vacation type")
)

const (
	// DefaultScreenTTL is how long an untouched session screen is kept.
	DefaultScreenTTL = 2 * time.Hour
	evictInterval    = time.Minute
)

type Notifier interface {
	Notify(ctx context.Context, message string, userID string) error
}

// Backend is the HR REST API the dashboard reads from and writes to.
type Backend interface {
	ListTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error)
	CreateTicket(ctx context.Context, ticket models.TicketRequest) (models.Ticket, error)
	UpdateTicket(ctx context.Context, id int, ticket models.TicketRequest) (models.Ticket, error)
	DeleteTicket(ctx context.Context, id int) error
	ListVacations(ctx context.Context, userID string, year int) ([]models.VacationHistory, error)
	CreateVacation(ctx context.Context, req models.VacationRequest) (models.VacationHistory, error)
}

type DashboardService struct {
	log      *logrus.Entry
	backend  Backend
	notifier Notifier
	adapter  *calendar.Adapter
	loc      *time.Location
	now      func() time.Time

	mu        sync.Mutex
	screens   map[string]*screen
	screenTTL time.Duration
	lastEvict time.Time
}

func NewDashboardService(log *logrus.Logger, backend Backend, notifier Notifier, adapter *calendar.Adapter, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	s := DashboardService{
		log:      log.WithField("component", "service"),
		backend:  backend,
		notifier: notifier,
		adapter:  adapter,
		loc:      loc,
		now:      time.Now,
		screens:  make(map[string]*screen),
	}
	s.screenTTL = DefaultScreenTTL
	return &s
}

// VacationAmount reports the days a vacation between start and end consumes.
func (s *DashboardService) VacationAmount(start, end time.Time) float64 {
	return calendar.VacationAmount(start, end)
}

func (s *DashboardService) Location() *time.Location {
	return s.loc
}

func (s *DashboardService) notify(ctx context.Context, session models.Session, message string) {
	if err := s.notifier.Notify(ctx, message, session.UserID); err != nil {
		s.log.Errorf("err notifying user %s: %v", session.UserID, err)
	}
}
