package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/pershin-daniil/hrdesk/internal/calendar"
	"github.com/pershin-daniil/hrdesk/pkg/metrics"
	"github.com/pershin-daniil/hrdesk/pkg/models"
)

type Store interface {
	UpcomingVacations(ctx context.Context, from, to time.Time) ([]models.VacationNotify, error)
	MarkVacationNotified(ctx context.Context, id int) error
}

type Notifier interface {
	Notify(ctx context.Context, message string, userID string) error
}

// Worker reminds users the day before their vacation starts.
type Worker struct {
	log      *logrus.Entry
	store    Store
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

func New(log *logrus.Logger, store Store, notifier Notifier, loc *time.Location) *Worker {
	if loc == nil {
		loc = time.UTC
	}
	return &Worker{
		log:      log.WithField("component", "worker"),
		store:    store,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// Run executes SendVacationReminders on the cron schedule until ctx is done.
func (w *Worker) Run(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithLocation(w.loc))
	_, err := c.AddFunc(schedule, func() {
		if err := w.SendVacationReminders(ctx); err != nil {
			w.log.Errorf("err sending vacation reminders: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	c.Start()
	w.log.Infof("Vacation reminders scheduled at %q", schedule)
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// SendVacationReminders notifies every user whose vacation starts tomorrow.
// A record that fails stays unmarked so the next run retries it; the rest of
// the batch is still sent.
func (w *Worker) SendVacationReminders(ctx context.Context) error {
	from := calendar.AddDays(calendar.Midnight(w.now().In(w.loc)), 1)
	to := calendar.AddDays(from, 1)
	upcoming, err := w.store.UpcomingVacations(ctx, from, to)
	if err != nil {
		return fmt.Errorf("worker send notification faild: %w", err)
	}
	var errs []error
	for _, v := range upcoming {
		msg := fmt.Sprintf("Your vacation starts on %s and ends on %s", calendar.FormatDay(v.EventStartDate), calendar.FormatDay(v.EventEndDate))
		if err = w.notifier.Notify(ctx, msg, v.UserID); err != nil {
			w.log.Warnf("err reminding %s about vacation %d: %v", v.UserID, v.VacationID, err)
			errs = append(errs, fmt.Errorf("vacation %d: %w", v.VacationID, err))
			continue
		}
		if err = w.store.MarkVacationNotified(ctx, v.VacationID); err != nil {
			w.log.Warnf("err marking vacation %d notified: %v", v.VacationID, err)
			errs = append(errs, fmt.Errorf("vacation %d: %w", v.VacationID, err))
			continue
		}
		metrics.RemindersSent.Inc()
	}
	if len(errs) > 0 {
		return fmt.Errorf("worker send notification faild: %w", errors.Join(errs...))
	}
	return nil
}
