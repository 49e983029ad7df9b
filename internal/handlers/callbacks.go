package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
)

// wizardStarts maps menu actions to the wizard they open.
var wizardStarts = map[string]models.WizardKind{
	messages.ActionReport:          models.WizardDailyReport,
	messages.ActionAdminMacros:     models.WizardMacros,
	messages.ActionAdminWorkout:    models.WizardWorkout,
	messages.ActionAdminNorms:      models.WizardNorms,
	messages.ActionAdminViewReport: models.WizardViewReport,
	messages.ActionAdminAssign:     models.WizardAssignUser,
	messages.ActionAdminUnassign:   models.WizardUnassignUser,
	messages.ActionAdminContact:    models.WizardContact,
	messages.ActionSuperPromote:    models.WizardPromoteAdmin,
	messages.ActionSuperDemote:     models.WizardDemoteAdmin,
	messages.ActionSuperEvening:    models.WizardEveningTime,
}

// HandleCallback routes inline button presses.
func (h *Handler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	// всегда отвечаем на callback, чтобы убрать «часики»
	_, _ = h.Bot.Request(tgbotapi.NewCallback(cq.ID, ""))

	if cq.From == nil || cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	actor, err := h.identify(ctx, cq.From, chatID)
	if err != nil {
		h.fail(chatID, "identify", err)
		return
	}

	r, err := h.dispatchAction(ctx, *actor, cq.Data)
	if err != nil {
		h.fail(chatID, "callback "+cq.Data, err)
		return
	}
	h.reply(chatID, r)
}

func (h *Handler) dispatchAction(ctx context.Context, actor models.User, data string) (*models.Reply, error) {
	if data == messages.ActionCancel {
		return h.Engine.Cancel(ctx, actor)
	}
	if strings.HasPrefix(data, "wiz:") {
		st, err := h.DB.GetState(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if st == nil {
			return &models.Reply{Text: messages.UseMenu, Buttons: messages.MainMenuButtons(actor.Role)}, nil
		}
		return h.Engine.Advance(ctx, actor, *st, models.Input{Action: data})
	}
	if kind, ok := wizardStarts[data]; ok {
		return h.Engine.Start(ctx, actor, kind)
	}

	switch data {
	case messages.ActionMainMenu:
		if err := h.DB.ClearState(ctx, actor.ID); err != nil {
			return nil, err
		}
		return h.mainMenu(actor), nil
	case messages.ActionAdmin:
		if err := h.DB.ClearState(ctx, actor.ID); err != nil {
			return nil, err
		}
		return h.adminMenu(actor), nil
	case messages.ActionHelp:
		if err := h.DB.ClearState(ctx, actor.ID); err != nil {
			return nil, err
		}
		return &models.Reply{Text: messages.Help, Buttons: messages.BackButtons()}, nil
	case messages.ActionPlan:
		return h.myPlan(ctx, actor)
	case messages.ActionMyReport:
		return h.myReport(ctx, actor)
	case messages.ActionContact:
		return h.coachContact(ctx, actor)
	case messages.ActionAdminUsers:
		return h.groupList(ctx, actor)
	}
	return &models.Reply{Text: messages.UseMenu, Buttons: messages.MainMenuButtons(actor.Role)}, nil
}
