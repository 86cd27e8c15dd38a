package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"
)

type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Telegram delivers notifications to the chat registered for each user.
type Telegram struct {
	log   *logrus.Entry
	bot   Sender
	chats map[string]int64
}

func NewBot(token string) (*tele.Bot, error) {
	config := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(config)
	if err != nil {
		return nil, fmt.Errorf("new bot faild: %w", err)
	}
	return b, nil
}

func NewTelegram(log *logrus.Logger, bot Sender, chats map[string]int64) *Telegram {
	if chats == nil {
		chats = map[string]int64{}
	}
	return &Telegram{
		log:   log.WithField("component", "telegram"),
		bot:   bot,
		chats: chats,
	}
}

func (t *Telegram) Notify(_ context.Context, message string, userID string) error {
	chat, ok := t.chats[userID]
	if !ok {
		t.log.Debugf("no chat registered for user %s, dropping: %s", userID, message)
		return nil
	}
	if _, err := t.bot.Send(tele.ChatID(chat), message); err != nil {
		return fmt.Errorf("tg send message faild: %w", err)
	}
	return nil
}
