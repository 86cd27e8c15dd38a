package telegram

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/pershin-daniil/hrdesk/internal/calendar"
	"github.com/pershin-daniil/hrdesk/pkg/models"
)

func (t *Telegram) initHandlers() {
	t.bot.Handle(cmdStart, t.startHandler)
	t.bot.Handle(cmdVacations, t.vacationsHandler)
	t.bot.Handle(&vacationsBtn, t.vacationsHandler)
	t.bot.Handle(tele.OnText, t.textHandler)
}

func (t *Telegram) startHandler(ctx tele.Context) error {
	if _, ok := t.users[ctx.Chat().ID]; !ok {
		return ctx.Send(unknownChatMessage(ctx.Chat().ID))
	}
	return ctx.Send("Reminders about your vacations will arrive here.", menu)
}

func (t *Telegram) vacationsHandler(ctx tele.Context) error {
	userID, ok := t.users[ctx.Chat().ID]
	if !ok {
		return ctx.Send(unknownChatMessage(ctx.Chat().ID))
	}
	year := t.now().In(t.loc).Year()
	history, err := t.app.ListVacations(context.Background(), userID, year)
	if err != nil {
		t.log.Warnf("err listing vacations for %s: %v", userID, err)
		return ctx.Send("Could not load your vacations, try again later.")
	}
	if err = ctx.Send(formatVacations(year, history), menu); err != nil {
		return fmt.Errorf("tg send message faild: %w", err)
	}
	return nil
}

func (t *Telegram) textHandler(ctx tele.Context) error {
	return ctx.Send("Unknown command, try "+cmdVacations, menu)
}

func unknownChatMessage(chatID int64) string {
	return fmt.Sprintf("This chat is not linked to an account yet. Ask HR to register chat id %d.", chatID)
}

func formatVacations(year int, history []models.VacationHistory) string {
	if len(history) == 0 {
		return fmt.Sprintf("No vacations in %d.", year)
	}
	var b strings.Builder
	total := 0.0
	fmt.Fprintf(&b, "Vacations in %d:\n", year)
	for _, v := range history {
		fmt.Fprintf(&b, "%s - %s  %s  %g\n",
			calendar.FormatDay(v.EventStartDate), calendar.FormatDay(v.EventEndDate), v.Type, v.Amount)
		total += v.Amount
	}
	fmt.Fprintf(&b, "Total: %g", total)
	return b.String()
}
