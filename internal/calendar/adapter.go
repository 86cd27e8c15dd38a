package calendar

import (
	"strconv"
	"time"

	"github.com/pershin-daniil/hrdesk/pkg/models"
)

const (
	DefaultVacationLabel = "휴가"
	DefaultVacationColor = "#f59e0b"
)

// whole-day vacation categories are stored with an end that already lands on
// the last calendar day, so their display end is not shifted.
var wholeDayTypes = map[string]bool{
	models.VacationSick:        true,
	models.VacationFamilyEvent: true,
	models.VacationOfficial:    true,
	models.VacationReward:      true,
}

func IsWholeDayType(vacationType string) bool {
	return wholeDayTypes[vacationType]
}

// Adapter turns backend records into calendar events.
type Adapter struct {
	VacationLabel string
	VacationColor string
}

func NewAdapter(label, color string) *Adapter {
	if label == "" {
		label = DefaultVacationLabel
	}
	if color == "" {
		color = DefaultVacationColor
	}
	return &Adapter{VacationLabel: label, VacationColor: color}
}

func TicketEventID(id int) string {
	return "ticket-" + strconv.Itoa(id)
}

func VacationEventID(id int) string {
	return "vacation-" + strconv.Itoa(id)
}

func (a *Adapter) FromTicket(t models.Ticket) models.Event {
	ticket := t
	return models.Event{
		ID:       TicketEventID(t.ID),
		Kind:     models.KindTicket,
		Title:    t.Title,
		Start:    FormatDay(t.EventStartDate),
		End:      FormatDay(exclusiveEnd(t.EventEndDate)),
		AllDay:   true,
		Color:    t.Color,
		Editable: t.No != 0,
		Ticket:   &ticket,
	}
}

func (a *Adapter) FromVacation(v models.VacationHistory) models.Event {
	vacation := v
	end := v.EventEndDate
	if v.Amount != 0 && !IsWholeDayType(v.Type) {
		end = exclusiveEnd(end)
	}
	return models.Event{
		ID:       VacationEventID(v.ID),
		Kind:     models.KindVacation,
		Title:    a.VacationLabel,
		Start:    FormatDay(v.EventStartDate),
		End:      FormatDay(end),
		AllDay:   true,
		Color:    a.VacationColor,
		Editable: false,
		Vacation: &vacation,
	}
}

// Merge returns tickets followed by vacations.
func (a *Adapter) Merge(tickets []models.Ticket, vacations []models.VacationHistory) []models.Event {
	events := make([]models.Event, 0, len(tickets)+len(vacations))
	for _, t := range tickets {
		events = append(events, a.FromTicket(t))
	}
	for _, v := range vacations {
		events = append(events, a.FromVacation(v))
	}
	return events
}

// exclusiveEnd converts an inclusive stored end into the calendar's exclusive
// all-day end. A stored end at exactly midnight is already exclusive.
func exclusiveEnd(end time.Time) time.Time {
	if IsMidnight(end) {
		return end
	}
	return AddDays(end, 1)
}

// StoredRange maps a calendar range (exclusive end day) back to the inclusive
// timestamps the backend stores: start at midnight, end at the last second of
// the final day.
func StoredRange(start, endExclusive time.Time) (time.Time, time.Time) {
	start = Midnight(start)
	endExclusive = Midnight(endExclusive)
	if !endExclusive.After(start) {
		endExclusive = AddDays(start, 1)
	}
	return start, endExclusive.Add(-time.Second)
}
