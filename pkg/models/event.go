package models

type EventKind string

const (
	KindTicket   EventKind = `ticket`
	KindVacation EventKind = `vacation`
)

// Event is the calendar-displayable shape of a ticket or a vacation record.
// Start and End are YYYY-MM-DD, End is exclusive.
type Event struct {
	ID       string    `json:"id"`
	Kind     EventKind `json:"kind"`
	Title    string    `json:"title"`
	Start    string    `json:"start"`
	End      string    `json:"end"`
	AllDay   bool      `json:"allDay"`
	Color    string    `json:"color,omitempty"`
	Editable bool      `json:"editable"`

	Ticket   *Ticket          `json:"ticket,omitempty"`
	Vacation *VacationHistory `json:"vacation,omitempty"`
}
