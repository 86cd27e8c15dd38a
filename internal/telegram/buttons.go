package telegram

import tele "gopkg.in/telebot.v3"

const (
	cmdStart     = "/start"
	cmdVacations = "/vacations"
)

func (t *Telegram) initButtons() {
	menu.Inline(
		menu.Row(vacationsBtn))
}

var (
	menu         = &tele.ReplyMarkup{}
	vacationsBtn = menu.Data("My vacations", "vacations")
)
