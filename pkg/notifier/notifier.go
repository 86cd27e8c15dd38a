package notifier

import (
	"context"

	"github.com/sirupsen/logrus"
)

// DummyNotifier only logs, for local runs without a bot token.
type DummyNotifier struct {
	log *logrus.Entry
}

func NewDummyNotifier(log *logrus.Logger) *DummyNotifier {
	return &DummyNotifier{
		log: log.WithField("component", "notifier"),
	}
}

func (n *DummyNotifier) Notify(_ context.Context, message string, userID string) error {
	n.log.Infof("notifying user %s: %s", userID, message)
	return nil
}
