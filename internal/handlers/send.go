package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
	"telegram-coach-bot/internal/scheduler"
)

func keyboard(rows [][]models.Button) tgbotapi.InlineKeyboardMarkup {
	kb := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, r := range rows {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Action))
		}
		kb = append(kb, tgbotapi.NewInlineKeyboardRow(btns...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(kb...)
}

// send delivers r: the text (or captioned image) first, then attached
// photos one by one.
func (h *Handler) send(chatID int64, r *models.Reply) error {
	if r == nil {
		return nil
	}
	var first tgbotapi.Chattable
	if r.PhotoFileID != "" {
		p := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(r.PhotoFileID))
		p.Caption = r.Text
		if r.Markdown {
			p.ParseMode = tgbotapi.ModeMarkdown
		}
		if len(r.Buttons) > 0 {
			p.ReplyMarkup = keyboard(r.Buttons)
		}
		first = p
	} else {
		m := tgbotapi.NewMessage(chatID, r.Text)
		if r.Markdown {
			m.ParseMode = tgbotapi.ModeMarkdown
		}
		if len(r.Buttons) > 0 {
			m.ReplyMarkup = keyboard(r.Buttons)
		}
		first = m
	}
	if _, err := h.Bot.Send(first); err != nil {
		return err
	}
	for _, id := range r.Photos {
		if _, err := h.Bot.Send(tgbotapi.NewPhoto(chatID, tgbotapi.FileID(id))); err != nil {
			return err
		}
	}
	return nil
}

// reply sends r and only logs delivery errors.
func (h *Handler) reply(chatID int64, r *models.Reply) {
	if err := h.send(chatID, r); err != nil {
		h.log.Warn("send reply", zap.Int64("chat", chatID), zap.Error(err))
	}
}

// fail logs err and shows the user a plain failure with a way back.
func (h *Handler) fail(chatID int64, op string, err error, fields ...zap.Field) {
	h.log.Error(op, append(fields, zap.Int64("chat", chatID), zap.Error(err))...)
	h.reply(chatID, &models.Reply{Text: messages.Failure, Buttons: messages.BackButtons()})
}

// Notify implements scheduler.Notifier. A 403 from telegram means the user
// blocked the bot.
func (h *Handler) Notify(ctx context.Context, chatID int64, r models.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := h.send(chatID, &r)
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.Code == http.StatusForbidden {
		return fmt.Errorf("%w: %s", scheduler.ErrBlocked, tgErr.Message)
	}
	return err
}
