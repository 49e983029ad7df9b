package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
)

// HandleMessage routes text and photo messages.
func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	actor, err := h.identify(ctx, msg.From, chatID)
	if err != nil {
		h.fail(chatID, "identify", err)
		return
	}

	if msg.IsCommand() {
		if r, ok, err := h.HandleCommand(ctx, *actor, msg.Command()); ok {
			if err != nil {
				h.fail(chatID, "command "+msg.Command(), err)
				return
			}
			h.reply(chatID, r)
			return
		}
	}

	st, err := h.DB.GetState(ctx, actor.ID)
	if err != nil {
		h.fail(chatID, "load state", err)
		return
	}
	if st == nil {
		h.reply(chatID, &models.Reply{Text: messages.UseMenu, Buttons: messages.MainMenuButtons(actor.Role)})
		return
	}

	r, err := h.Engine.Advance(ctx, *actor, *st, inputOf(msg))
	if err != nil {
		h.fail(chatID, "advance "+string(st.Kind), err, zap.Int("step", int(st.Step)))
		return
	}
	h.reply(chatID, r)
}

// inputOf extracts text (or caption) and the largest photo of msg.
func inputOf(msg *tgbotapi.Message) models.Input {
	in := models.Input{Text: msg.Text}
	if in.Text == "" {
		in.Text = msg.Caption
	}
	if n := len(msg.Photo); n > 0 { // последний размер самый большой
		in.PhotoFileID = msg.Photo[n-1].FileID
	}
	return in
}
