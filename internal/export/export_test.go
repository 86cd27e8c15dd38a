package export

import (
	"bytes"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pershin-daniil/hrdesk/pkg/models"
)

func TestWriteICS(t *testing.T) {
	events := []models.Event{
		{ID: "ticket-1", Kind: models.KindTicket, Title: "Release", Start: "2025-03-03", End: "2025-03-05", Color: "#123456"},
		{ID: "vacation-2", Kind: models.KindVacation, Title: "휴가", Start: "2025-03-10", End: "2025-03-12"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, events, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))

	cal, err := ics.ParseCalendar(&buf)
	require.NoError(t, err)
	parsed := cal.Events()
	require.Len(t, parsed, 2)
	require.Equal(t, "ticket-1@hrdesk", parsed[0].Id())
	require.Equal(t, "Release", parsed[0].GetProperty(ics.ComponentPropertySummary).Value)
	require.Equal(t, "20250303", parsed[0].GetProperty(ics.ComponentPropertyDtStart).Value)
	require.Equal(t, "20250312", parsed[1].GetProperty(ics.ComponentPropertyDtEnd).Value)
}

func TestWriteICSRejectsBadDay(t *testing.T) {
	var buf bytes.Buffer
	err := WriteICS(&buf, []models.Event{{ID: "x", Start: "soon", End: "later"}}, time.Now())
	require.Error(t, err)
}

func TestWriteVacationsXLSX(t *testing.T) {
	history := []models.VacationHistory{
		{ID: 1, UserID: "u-1", Type: models.VacationAnnual, Amount: 2,
			EventStartDate: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), EventEndDate: time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC)},
		{ID: 2, UserID: "u-1", Type: models.VacationHalfDay, Amount: 0.5,
			EventStartDate: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC), EventEndDate: time.Date(2025, 4, 1, 13, 0, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteVacationsXLSX(&buf, history))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(vacationSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, vacationHeader, rows[0])
	require.Equal(t, "2025-03-10T09:00:00", rows[1][3])
	require.Equal(t, "Total", rows[3][4])
	require.Equal(t, "2.5", rows[3][5])
}
