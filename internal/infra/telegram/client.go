package telegram

import (
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the alert.Client interface using the
// gopkg.in/telebot.v3 library. It pushes operational alerts to a single
// admin chat; there is no inbound handling.
type TelebotAdapter struct {
	bot    *telebot.Bot
	chatID int64
}

func NewTelebotAdapter(b *telebot.Bot, adminChatID int64) *TelebotAdapter {
	return &TelebotAdapter{bot: b, chatID: adminChatID}
}

// Notify sends a plain-text alert to the admin chat.
func (tba *TelebotAdapter) Notify(text string) error {
	recipient := &telebot.User{ID: tba.chatID}
	_, err := tba.bot.Send(recipient, text, &telebot.SendOptions{})
	return err
}
