package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pershin-daniil/hrdesk/pkg/models"
)

func TestFormatVacations(t *testing.T) {
	require.Equal(t, "No vacations in 2025.", formatVacations(2025, nil))

	history := []models.VacationHistory{
		{
			Type:           models.VacationAnnual,
			Amount:         2,
			EventStartDate: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			EventEndDate:   time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC),
		},
		{
			Type:           models.VacationHalfDay,
			Amount:         0.5,
			EventStartDate: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
			EventEndDate:   time.Date(2025, 4, 1, 13, 0, 0, 0, time.UTC),
		},
	}
	want := "Vacations in 2025:\n" +
		"2025-03-10 - 2025-03-11  ANNUAL  2\n" +
		"2025-04-01 - 2025-04-01  HALF_DAY  0.5\n" +
		"Total: 2.5"
	require.Equal(t, want, formatVacations(2025, history))
}

func TestUnknownChatMessage(t *testing.T) {
	require.Contains(t, unknownChatMessage(42), "42")
}
