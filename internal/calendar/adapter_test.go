package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pershin-daniil/hrdesk/pkg/models"
)

func at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestFromVacation(t *testing.T) {
	a := NewAdapter("", "")
	tests := []struct {
		name    string
		record  models.VacationHistory
		wantEnd string
	}{
		{
			name:    "annual leave shifts end",
			record:  models.VacationHistory{ID: 1, Amount: 2, Type: models.VacationAnnual, EventStartDate: at(10, 9), EventEndDate: at(11, 18)},
			wantEnd: "2025-03-12",
		},
		{
			name:    "zero amount keeps end",
			record:  models.VacationHistory{ID: 2, Amount: 0, Type: models.VacationAnnual, EventStartDate: at(10, 9), EventEndDate: at(11, 18)},
			wantEnd: "2025-03-11",
		},
		{
			name:    "whole day type keeps end",
			record:  models.VacationHistory{ID: 3, Amount: 3, Type: models.VacationSick, EventStartDate: at(10, 9), EventEndDate: at(12, 18)},
			wantEnd: "2025-03-12",
		},
		{
			name:    "midnight end is already exclusive",
			record:  models.VacationHistory{ID: 4, Amount: 2, Type: models.VacationAnnual, EventStartDate: at(10, 0), EventEndDate: at(12, 0)},
			wantEnd: "2025-03-12",
		},
		{
			name:    "half day",
			record:  models.VacationHistory{ID: 5, Amount: 0.5, Type: models.VacationHalfDay, EventStartDate: at(10, 9), EventEndDate: at(10, 13)},
			wantEnd: "2025-03-11",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := a.FromVacation(tt.record)
			require.Equal(t, models.KindVacation, ev.Kind)
			require.Equal(t, tt.wantEnd, ev.End)
			require.Equal(t, FormatDay(tt.record.EventStartDate), ev.Start)
			require.False(t, ev.Editable)
			require.True(t, ev.AllDay)
			require.Equal(t, DefaultVacationLabel, ev.Title)
			require.NotNil(t, ev.Vacation)
		})
	}
}

func TestFromTicket(t *testing.T) {
	a := NewAdapter("Leave", "#000")

	ev := a.FromTicket(models.Ticket{ID: 7, No: 12, Title: "Release", Color: "#123456", EventStartDate: at(3, 9), EventEndDate: at(4, 18)})
	require.Equal(t, "ticket-7", ev.ID)
	require.Equal(t, models.KindTicket, ev.Kind)
	require.Equal(t, "2025-03-03", ev.Start)
	require.Equal(t, "2025-03-05", ev.End)
	require.True(t, ev.Editable)
	require.Equal(t, "#123456", ev.Color)

	locked := a.FromTicket(models.Ticket{ID: 8, No: 0, Title: "Imported", EventStartDate: at(3, 0), EventEndDate: at(4, 0)})
	require.False(t, locked.Editable)
	require.Equal(t, "2025-03-04", locked.End)
}

func TestTicketTitledLikeVacationStaysTicket(t *testing.T) {
	a := NewAdapter("", "")
	ev := a.FromTicket(models.Ticket{ID: 1, No: 1, Title: DefaultVacationLabel, EventStartDate: at(3, 9), EventEndDate: at(3, 18)})
	require.Equal(t, models.KindTicket, ev.Kind)
	require.NotNil(t, ev.Ticket)
	require.Nil(t, ev.Vacation)
}

func TestMerge(t *testing.T) {
	a := NewAdapter("", "")
	tickets := []models.Ticket{{ID: 1, No: 1}, {ID: 2, No: 2}}
	vacations := []models.VacationHistory{{ID: 1, Amount: 1}}

	events := a.Merge(tickets, vacations)
	require.Len(t, events, 3)
	require.Equal(t, "ticket-1", events[0].ID)
	require.Equal(t, "vacation-1", events[2].ID)

	require.Len(t, a.Merge(nil, vacations), 1)
	require.Empty(t, a.Merge(nil, nil))
}

func TestStoredRangeRoundTrip(t *testing.T) {
	a := NewAdapter("", "")
	start, end := StoredRange(at(10, 0), at(13, 0))
	require.Equal(t, at(10, 0), start)
	require.Equal(t, time.Date(2025, 3, 12, 23, 59, 59, 0, time.UTC), end)

	ev := a.FromTicket(models.Ticket{ID: 1, No: 1, EventStartDate: start, EventEndDate: end})
	require.Equal(t, "2025-03-10", ev.Start)
	require.Equal(t, "2025-03-13", ev.End)

	start, end = StoredRange(at(10, 0), at(10, 0))
	require.Equal(t, at(10, 0), start)
	require.Equal(t, time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC), end)
}
