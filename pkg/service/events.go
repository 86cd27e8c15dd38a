package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pershin-daniil/hrdesk/pkg/models"
)

type EventsResult struct {
	Events          []models.Event `json:"events"`
	TicketsFailed   bool           `json:"ticketsFailed"`
	VacationsFailed bool           `json:"vacationsFailed"`
}

func (r EventsResult) Failed() bool {
	return r.TicketsFailed || r.VacationsFailed
}

// Events reads the session user's tickets for the month of ref and vacation
// history for the year of ref, and merges them into one calendar list.
// A failed read leaves its half empty and is reported through the result flags.
func (s *DashboardService) Events(ctx context.Context, session models.Session, ref time.Time) EventsResult {
	var (
		wg        sync.WaitGroup
		tickets   []models.Ticket
		vacations []models.VacationHistory
		result    = EventsResult{Events: []models.Event{}}
	)
	ref = ref.In(s.loc)

	if session.UserName != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			tickets, err = s.backend.ListTickets(ctx, models.TicketFilter{
				UserName:    session.UserName,
				PeriodYear:  ref.Year(),
				PeriodMonth: int(ref.Month()),
			})
			if err != nil {
				s.log.Warnf("err loading tickets for %s: %v", session.UserName, err)
				tickets = nil
				result.TicketsFailed = true
			}
		}()
	}
	if session.UserID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			vacations, err = s.backend.ListVacations(ctx, session.UserID, ref.Year())
			if err != nil {
				s.log.Warnf("err loading vacation history for %s: %v", session.UserID, err)
				vacations = nil
				result.VacationsFailed = true
			}
		}()
	}
	wg.Wait()

	result.Events = s.adapter.Merge(tickets, vacations)
	return result
}

// VacationHistory returns the session user's vacation records for year.
func (s *DashboardService) VacationHistory(ctx context.Context, session models.Session, year int) ([]models.VacationHistory, error) {
	if session.UserID == "" {
		return []models.VacationHistory{}, nil
	}
	history, err := s.backend.ListVacations(ctx, session.UserID, year)
	if err != nil {
		return nil, fmt.Errorf("err getting vacation history: %w", err)
	}
	return history, nil
}
