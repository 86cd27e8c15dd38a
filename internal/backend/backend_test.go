package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/pershin-daniil/hrdesk/pkg/models"
	"github.com/pershin-daniil/hrdesk/pkg/pgstore"
	"github.com/pershin-daniil/hrdesk/pkg/upstream"
)

const testToken = "secret"

type memStore struct {
	mu        sync.Mutex
	nextID    int
	tickets   map[int]models.Ticket
	vacations []models.VacationHistory
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, tickets: map[int]models.Ticket{}}
}

func (m *memStore) ListTickets(_ context.Context, filter models.TicketFilter) ([]models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	from := time.Date(filter.PeriodYear, time.Month(filter.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	tickets := []models.Ticket{}
	for id := 1; id < m.nextID; id++ {
		t, ok := m.tickets[id]
		if !ok || t.UserName != filter.UserName {
			continue
		}
		if t.EventStartDate.Before(to) && !t.EventEndDate.Before(from) {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

func (m *memStore) GetTicket(_ context.Context, id int) (models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return models.Ticket{}, pgstore.ErrTicketNotFound
	}
	return t, nil
}

func (m *memStore) CreateTicket(_ context.Context, req models.TicketRequest) (models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := models.Ticket{
		ID:             m.nextID,
		No:             m.nextID,
		UserName:       *req.UserName,
		Title:          *req.Title,
		EventStartDate: *req.EventStartDate,
		EventEndDate:   *req.EventEndDate,
	}
	if req.No != nil {
		t.No = *req.No
	}
	m.tickets[t.ID] = t
	m.nextID++
	return t, nil
}

func (m *memStore) UpdateTicket(_ context.Context, id int, req models.TicketRequest) (models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return models.Ticket{}, pgstore.ErrTicketNotFound
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.EventStartDate != nil {
		t.EventStartDate = *req.EventStartDate
	}
	if req.EventEndDate != nil {
		t.EventEndDate = *req.EventEndDate
	}
	m.tickets[id] = t
	return t, nil
}

func (m *memStore) DeleteTicket(_ context.Context, id int) (models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return models.Ticket{}, pgstore.ErrTicketNotFound
	}
	delete(m.tickets, id)
	return t, nil
}

func (m *memStore) ListVacations(_ context.Context, userID string, year int) ([]models.VacationHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := []models.VacationHistory{}
	for _, v := range m.vacations {
		if v.UserID == userID && v.EventStartDate.Year() == year {
			history = append(history, v)
		}
	}
	return history, nil
}

func (m *memStore) CreateVacation(_ context.Context, req models.VacationRequest) (models.VacationHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := models.VacationHistory{
		ID:             len(m.vacations) + 1,
		UserID:         req.UserID,
		Amount:         req.Amount,
		EventStartDate: req.EventStartDate,
		EventEndDate:   req.EventEndDate,
		Type:           req.Type,
	}
	m.vacations = append(m.vacations, v)
	return v, nil
}

type BackendTestSuite struct {
	suite.Suite
	log    *logrus.Logger
	store  *memStore
	srv    *httptest.Server
	client *upstream.Client
}

func (s *BackendTestSuite) SetupTest() {
	s.log = logrus.New()
	s.store = newMemStore()
	s.srv = httptest.NewServer(New(s.log, s.store, "", "test", testToken).Handler())
	s.client = upstream.New(s.log, s.srv.URL, testToken)
}

func (s *BackendTestSuite) TearDownTest() {
	s.srv.Close()
}

func ptr[T any](v T) *T {
	return &v
}

func (s *BackendTestSuite) TestTicketLifecycle() {
	ctx := context.Background()
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 4, 23, 59, 59, 0, time.UTC)

	created, err := s.client.CreateTicket(ctx, models.TicketRequest{
		UserName:       ptr("kim"),
		Title:          ptr("Sprint"),
		EventStartDate: &start,
		EventEndDate:   &end,
	})
	s.Require().NoError(err)
	s.Require().Equal("Sprint", created.Title)
	s.Require().NotZero(created.No)

	tickets, err := s.client.ListTickets(ctx, models.TicketFilter{UserName: "kim", PeriodYear: 2025, PeriodMonth: 3})
	s.Require().NoError(err)
	s.Require().Len(tickets, 1)

	tickets, err = s.client.ListTickets(ctx, models.TicketFilter{UserName: "kim", PeriodYear: 2025, PeriodMonth: 4})
	s.Require().NoError(err)
	s.Require().Empty(tickets)

	newEnd := end.AddDate(0, 0, 2)
	updated, err := s.client.UpdateTicket(ctx, created.ID, models.TicketRequest{EventEndDate: &newEnd})
	s.Require().NoError(err)
	s.Require().True(newEnd.Equal(updated.EventEndDate))
	s.Require().Equal("Sprint", updated.Title)

	got, err := s.client.GetTicket(ctx, created.ID)
	s.Require().NoError(err)
	s.Require().True(newEnd.Equal(got.EventEndDate))

	s.Require().NoError(s.client.DeleteTicket(ctx, created.ID))

	_, err = s.client.GetTicket(ctx, created.ID)
	s.Require().True(errors.Is(err, upstream.ErrNotFound))
	err = s.client.DeleteTicket(ctx, created.ID)
	s.Require().True(errors.Is(err, upstream.ErrNotFound))
}

func (s *BackendTestSuite) TestTicketValidation() {
	ctx := context.Background()
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	_, err := s.client.CreateTicket(ctx, models.TicketRequest{Title: ptr("No user")})
	var statusErr *upstream.StatusError
	s.Require().True(errors.As(err, &statusErr))
	s.Require().Equal(http.StatusBadRequest, statusErr.Code)
	s.Require().Equal(ErrBadTicket.Error(), statusErr.Message)

	_, err = s.client.CreateTicket(ctx, models.TicketRequest{
		UserName:       ptr("kim"),
		Title:          ptr("Reversed"),
		EventStartDate: &start,
		EventEndDate:   &end,
	})
	s.Require().True(errors.As(err, &statusErr))
	s.Require().Equal(ErrBadRange.Error(), statusErr.Message)

	_, err = s.client.ListTickets(ctx, models.TicketFilter{UserName: "kim", PeriodYear: 2025, PeriodMonth: 13})
	s.Require().True(errors.As(err, &statusErr))
	s.Require().Equal(http.StatusBadRequest, statusErr.Code)
}

func (s *BackendTestSuite) TestVacations() {
	ctx := context.Background()
	created, err := s.client.CreateVacation(ctx, models.VacationRequest{
		UserID:         "u-1",
		EventStartDate: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		EventEndDate:   time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC),
		Amount:         0.5,
	})
	s.Require().NoError(err)
	s.Require().Equal(models.VacationAnnual, created.Type)

	history, err := s.client.ListVacations(ctx, "u-1", 2025)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Require().Equal(0.5, history[0].Amount)

	history, err = s.client.ListVacations(ctx, "u-2", 2025)
	s.Require().NoError(err)
	s.Require().Empty(history)

	_, err = s.client.CreateVacation(ctx, models.VacationRequest{UserID: "u-1", Amount: -1})
	var statusErr *upstream.StatusError
	s.Require().True(errors.As(err, &statusErr))
	s.Require().Equal(http.StatusBadRequest, statusErr.Code)

	_, err = s.client.CreateVacation(ctx, models.VacationRequest{UserID: "u-1", Type: "ANUAL", Amount: 1})
	s.Require().True(errors.As(err, &statusErr))
	s.Require().Equal(ErrBadVacationType.Error(), statusErr.Message)
}

func (s *BackendTestSuite) TestTokenRequired() {
	client := upstream.New(s.log, s.srv.URL, "wrong")
	_, err := client.ListVacations(context.Background(), "u-1", 2025)
	var statusErr *upstream.StatusError
	s.Require().True(errors.As(err, &statusErr))
	s.Require().Equal(http.StatusUnauthorized, statusErr.Code)

	resp, err := http.Get(s.srv.URL + "/version")
	s.Require().NoError(err)
	s.Require().NoError(resp.Body.Close())
	s.Require().Equal(http.StatusOK, resp.StatusCode)
}

func TestBackendTestSuite(t *testing.T) {
	suite.Run(t, new(BackendTestSuite))
}
