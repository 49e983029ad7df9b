package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"telegram-coach-bot/internal/logging"
	"telegram-coach-bot/internal/models"
	"telegram-coach-bot/internal/storage"
	"telegram-coach-bot/internal/utils"
	"telegram-coach-bot/internal/wizard"
)

// Bot is the part of *tgbotapi.BotAPI the handlers use.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Options carry what the router needs besides its collaborators.
type Options struct {
	Clock       clockwork.Clock
	Location    *time.Location
	SuperAdmins []string
	Log         *zap.Logger
}

// Handler is the command router: it de-duplicates updates, identifies the
// sender and hands the event to the live wizard or to a menu action.
type Handler struct {
	Bot    Bot
	DB     *storage.DB
	Engine *wizard.Engine

	clock  clockwork.Clock
	loc    *time.Location
	supers map[string]bool
	log    *zap.Logger
}

func NewHandler(bot Bot, db *storage.DB, engine *wizard.Engine, opt Options) *Handler {
	h := &Handler{
		Bot:    bot,
		DB:     db,
		Engine: engine,
		clock:  opt.Clock,
		loc:    opt.Location,
		supers: map[string]bool{},
		log:    logging.OrNop(opt.Log).Named("handlers"),
	}
	if h.clock == nil {
		h.clock = clockwork.NewRealClock()
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	for _, id := range opt.SuperAdmins {
		h.supers[id] = true
	}
	return h
}

// HandleUpdate processes one inbound update at most once.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	first, err := h.DB.MarkUpdateProcessed(ctx, upd.UpdateID)
	if err != nil {
		h.log.Error("record update", zap.Int("update", upd.UpdateID), zap.Error(err))
		return
	}
	if !first {
		h.log.Debug("duplicate update dropped", zap.Int("update", upd.UpdateID))
		return
	}

	switch {
	case upd.Message != nil:
		h.HandleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		h.HandleCallback(ctx, upd.CallbackQuery)
	}
}

// identify upserts the sender. Configured super-admin ids are promoted on
// contact.
func (h *Handler) identify(ctx context.Context, from *tgbotapi.User, chatID int64) (*models.User, error) {
	id := strconv.FormatInt(from.ID, 10)
	u, err := h.DB.UpsertUser(ctx, &models.User{
		ID:     id,
		ChatID: chatID,
		Name:   strings.TrimSpace(from.FirstName + " " + from.LastName),
		Handle: from.UserName,
	})
	if err != nil {
		return nil, err
	}
	if h.supers[id] && u.Role != models.RoleSuperAdmin {
		if err := h.DB.SetRole(ctx, id, models.RoleSuperAdmin); err != nil {
			return nil, err
		}
		u.Role = models.RoleSuperAdmin
	}
	return u, nil
}

func (h *Handler) today() string {
	return utils.Today(h.clock, h.loc)
}
