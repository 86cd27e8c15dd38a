package telegram

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"

	"github.com/pershin-daniil/hrdesk/pkg/models"
)

// Telegram answers chat commands about a user's vacations. Chats are bound to
// users through the same map the notifier delivers reminders with.
type Telegram struct {
	log   *logrus.Entry
	bot   *tele.Bot
	app   App
	users map[int64]string
	loc   *time.Location
	now   func() time.Time
}

type App interface {
	ListVacations(ctx context.Context, userID string, year int) ([]models.VacationHistory, error)
}

func New(log *logrus.Logger, bot *tele.Bot, app App, chats map[string]int64, loc *time.Location) *Telegram {
	if loc == nil {
		loc = time.UTC
	}
	t := Telegram{
		log:   log.WithField("component", "telegram"),
		bot:   bot,
		app:   app,
		users: make(map[int64]string, len(chats)),
		loc:   loc,
		now:   time.Now,
	}
	for userID, chat := range chats {
		t.users[chat] = userID
	}
	t.initButtons()
	t.initHandlers()
	return &t
}

func (t *Telegram) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		t.bot.Stop()
	}()
	t.log.Infof("Starting telegram bot as %v", t.bot.Me.Username)
	t.bot.Start()
}
