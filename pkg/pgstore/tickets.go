package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pershin-daniil/hrdesk/pkg/models"
)

const ticketColumns = `id, no, user_name, title, event_start_date, event_end_date, color, created_at, updated_at`

// ListTickets returns the user's tickets overlapping the requested month.
func (s *Store) ListTickets(ctx context.Context, filter models.TicketFilter) (tickets []models.Ticket, err error) {
	defer func(started time.Time) { observe("ListTickets", started, err) }(time.Now())
	from := time.Date(filter.PeriodYear, time.Month(filter.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	query := `
SELECT ` + ticketColumns + ` FROM tickets
WHERE user_name = $1
  AND event_start_date < $3
  AND event_end_date >= $2
ORDER BY event_start_date, id;`
	for i := 0; i < retries; i++ {
		tickets = []models.Ticket{}
		if err = s.db.SelectContext(ctx, &tickets, query, filter.UserName, from, to); err != nil {
			continue
		}
		return tickets, nil
	}
	return nil, fmt.Errorf("err listing tickets: %w", err)
}

func (s *Store) GetTicket(ctx context.Context, id int) (ticket models.Ticket, err error) {
	defer func(started time.Time) { observe("GetTicket", started, err) }(time.Now())
	query := `
SELECT ` + ticketColumns + ` FROM tickets
WHERE id = $1;`
	for i := 0; i < retries; i++ {
		err = s.db.GetContext(ctx, &ticket, query, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Ticket{}, ErrTicketNotFound
		case err != nil:
			continue
		}
		return ticket, nil
	}
	return models.Ticket{}, fmt.Errorf("err getting ticket %d: %w", id, err)
}

// CreateTicket stores a ticket. Without an explicit number the ticket gets the
// next one from ticket_no_seq and is therefore editable.
func (s *Store) CreateTicket(ctx context.Context, ticket models.TicketRequest) (created models.Ticket, err error) {
	defer func(started time.Time) { observe("CreateTicket", started, err) }(time.Now())
	query := `
INSERT INTO tickets (no, user_name, title, event_start_date, event_end_date, color)
VALUES (COALESCE($1, nextval('ticket_no_seq')), $2, $3, $4, $5, COALESCE($6, ''))
RETURNING ` + ticketColumns + `;`
	for i := 0; i < retries; i++ {
		if err = s.db.GetContext(ctx, &created, query, ticket.No, ticket.UserName, ticket.Title,
			ticket.EventStartDate, ticket.EventEndDate, ticket.Color); err != nil {
			continue
		}
		return created, nil
	}
	return models.Ticket{}, fmt.Errorf("err creating ticket: %w", err)
}

// UpdateTicket changes the provided fields only.
func (s *Store) UpdateTicket(ctx context.Context, id int, ticket models.TicketRequest) (updated models.Ticket, err error) {
	defer func(started time.Time) { observe("UpdateTicket", started, err) }(time.Now())
	query := `
UPDATE tickets
SET no = COALESCE($2, no),
    title = COALESCE($3, title),
    event_start_date = COALESCE($4, event_start_date),
    event_end_date = COALESCE($5, event_end_date),
    color = COALESCE($6, color),
    updated_at = now()
WHERE id = $1
RETURNING ` + ticketColumns + `;`
	for i := 0; i < retries; i++ {
		err = s.db.GetContext(ctx, &updated, query, id, ticket.No, ticket.Title,
			ticket.EventStartDate, ticket.EventEndDate, ticket.Color)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Ticket{}, ErrTicketNotFound
		case err != nil:
			continue
		}
		return updated, nil
	}
	return models.Ticket{}, fmt.Errorf("err updating ticket %d: %w", id, err)
}

func (s *Store) DeleteTicket(ctx context.Context, id int) (deleted models.Ticket, err error) {
	defer func(started time.Time) { observe("DeleteTicket", started, err) }(time.Now())
	query := `
DELETE FROM tickets
WHERE id = $1
RETURNING ` + ticketColumns + `;`
	for i := 0; i < retries; i++ {
		err = s.db.GetContext(ctx, &deleted, query, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Ticket{}, ErrTicketNotFound
		case err != nil:
			continue
		}
		return deleted, nil
	}
	return models.Ticket{}, fmt.Errorf("err deleting ticket %d: %w", id, err)
}
