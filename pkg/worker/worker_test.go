package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/pershin-daniil/hrdesk/pkg/models"
)

type fakeStore struct {
	from, to time.Time
	upcoming []models.VacationNotify
	marked   []int
}

func (f *fakeStore) UpcomingVacations(_ context.Context, from, to time.Time) ([]models.VacationNotify, error) {
	f.from, f.to = from, to
	return f.upcoming, nil
}

func (f *fakeStore) MarkVacationNotified(_ context.Context, id int) error {
	f.marked = append(f.marked, id)
	return nil
}

type fakeNotifier struct {
	users  []string
	err    error
	failed map[string]error
}

func (f *fakeNotifier) Notify(_ context.Context, _ string, userID string) error {
	if f.err != nil {
		return f.err
	}
	if err, ok := f.failed[userID]; ok {
		return err
	}
	f.users = append(f.users, userID)
	return nil
}

func TestSendVacationReminders(t *testing.T) {
	store := &fakeStore{upcoming: []models.VacationNotify{
		{VacationID: 1, UserID: "u-1", EventStartDate: time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)},
		{VacationID: 2, UserID: "u-2", EventStartDate: time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)},
	}}
	n := &fakeNotifier{}
	w := New(logrus.New(), store, n, time.UTC)
	w.now = func() time.Time { return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC) }

	require.NoError(t, w.SendVacationReminders(context.Background()))
	require.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), store.from)
	require.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), store.to)
	require.Equal(t, []string{"u-1", "u-2"}, n.users)
	require.Equal(t, []int{1, 2}, store.marked)
}

func TestSendVacationRemindersReportsNotifyError(t *testing.T) {
	store := &fakeStore{upcoming: []models.VacationNotify{{VacationID: 1, UserID: "u-1"}}}
	w := New(logrus.New(), store, &fakeNotifier{err: errors.New("down")}, time.UTC)

	require.Error(t, w.SendVacationReminders(context.Background()))
	require.Empty(t, store.marked)
}

func TestSendVacationRemindersContinuesAfterFailedUser(t *testing.T) {
	blocked := errors.New("bot was blocked by the user")
	store := &fakeStore{upcoming: []models.VacationNotify{
		{VacationID: 1, UserID: "u-1"},
		{VacationID: 2, UserID: "u-2"},
		{VacationID: 3, UserID: "u-3"},
	}}
	n := &fakeNotifier{failed: map[string]error{"u-1": blocked}}
	w := New(logrus.New(), store, n, time.UTC)

	err := w.SendVacationReminders(context.Background())
	require.ErrorIs(t, err, blocked)
	require.Equal(t, []string{"u-2", "u-3"}, n.users)
	require.Equal(t, []int{2, 3}, store.marked)
}

func TestRunRejectsBadSchedule(t *testing.T) {
	w := New(logrus.New(), &fakeStore{}, &fakeNotifier{}, time.UTC)
	require.Error(t, w.Run(context.Background(), "not a schedule"))
}
