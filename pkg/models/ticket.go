package models

import "time"

type TicketRequest struct {
	ID             *int       `json:"id" db:"id"`
	No             *int       `json:"no" db:"no"`
	UserName       *string    `json:"userName" db:"user_name"`
	Title          *string    `json:"title" db:"title"`
	EventStartDate *time.Time `json:"eventStartDate" db:"event_start_date"`
	EventEndDate   *time.Time `json:"eventEndDate" db:"event_end_date"`
	Color          *string    `json:"color" db:"color"`
}

// Ticket is a scheduled work item. Tickets with No == 0 are read-only on the calendar.
type Ticket struct {
	ID             int       `json:"id" db:"id"`
	No             int       `json:"no" db:"no"`
	UserName       string    `json:"userName" db:"user_name"`
	Title          string    `json:"title" db:"title"`
	EventStartDate time.Time `json:"eventStartDate" db:"event_start_date"`
	EventEndDate   time.Time `json:"eventEndDate" db:"event_end_date"`
	Color          string    `json:"color" db:"color"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

type TicketFilter struct {
	UserName    string
	PeriodYear  int
	PeriodMonth int
}
