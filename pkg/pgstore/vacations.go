package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pershin-daniil/hrdesk/pkg/models"
)

const vacationColumns = `id, user_id, amount, event_start_date, event_end_date, type, notified, created_at`

// ListVacations returns the user's vacation history overlapping the year.
func (s *Store) ListVacations(ctx context.Context, userID string, year int) (history []models.VacationHistory, err error) {
	defer func(started time.Time) { observe("ListVacations", started, err) }(time.Now())
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	query := `
SELECT ` + vacationColumns + ` FROM vacation_histories
WHERE user_id = $1
  AND event_start_date < $3
  AND event_end_date >= $2
ORDER BY event_start_date, id;`
	for i := 0; i < retries; i++ {
		history = []models.VacationHistory{}
		if err = s.db.SelectContext(ctx, &history, query, userID, from, to); err != nil {
			continue
		}
		return history, nil
	}
	return nil, fmt.Errorf("err listing vacations: %w", err)
}

func (s *Store) CreateVacation(ctx context.Context, req models.VacationRequest) (created models.VacationHistory, err error) {
	defer func(started time.Time) { observe("CreateVacation", started, err) }(time.Now())
	query := `
INSERT INTO vacation_histories (user_id, amount, event_start_date, event_end_date, type)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + vacationColumns + `;`
	for i := 0; i < retries; i++ {
		if err = s.db.GetContext(ctx, &created, query, req.UserID, req.Amount,
			req.EventStartDate, req.EventEndDate, req.Type); err != nil {
			continue
		}
		return created, nil
	}
	return models.VacationHistory{}, fmt.Errorf("err creating vacation: %w", err)
}

// UpcomingVacations lists vacations starting in [from, to) that nobody was reminded of yet.
func (s *Store) UpcomingVacations(ctx context.Context, from, to time.Time) (upcoming []models.VacationNotify, err error) {
	defer func(started time.Time) { observe("UpcomingVacations", started, err) }(time.Now())
	query := `
SELECT id, user_id, type, event_start_date, event_end_date FROM vacation_histories
WHERE notified = false
  AND event_start_date >= $1
  AND event_start_date < $2
ORDER BY event_start_date;`
	upcoming = []models.VacationNotify{}
	if err = s.db.SelectContext(ctx, &upcoming, query, from, to); err != nil {
		return nil, fmt.Errorf("err listing upcoming vacations: %w", err)
	}
	return upcoming, nil
}

func (s *Store) MarkVacationNotified(ctx context.Context, id int) (err error) {
	defer func(started time.Time) { observe("MarkVacationNotified", started, err) }(time.Now())
	res, err := s.db.ExecContext(ctx, `UPDATE vacation_histories SET notified = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("err marking vacation %d notified: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrVacationNotFound
		return err
	}
	return nil
}

// QueryRow exposes raw reads for tests.
func (s *Store) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}
