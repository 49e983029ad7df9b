package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
	"telegram-coach-bot/internal/storage"
	"telegram-coach-bot/internal/utils"
)

// advanceGroup assigns or removes a user from the actor's group.
func (e *Engine) advanceGroup(ctx context.Context, actor models.User, st models.WizardState, in models.Input) (*models.Reply, error) {
	target, err := e.lookup(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if target == nil {
		return again(st)
	}

	if st.Kind == models.WizardAssignUser {
		err := e.store.AssignCoach(ctx, target.ID, actor.ID)
		if errors.Is(err, storage.ErrAlreadyAssigned) {
			return e.done(ctx, actor, messages.AlreadyAssigned, true)
		}
		if err != nil {
			return nil, fmt.Errorf("assign coach: %w", err)
		}
		return e.done(ctx, actor, messages.Assigned(target.ID), true)
	}

	coach := actor.ID
	if actor.Role == models.RoleSuperAdmin {
		coach = ""
	}
	err = e.store.Unassign(ctx, target.ID, coach)
	if errors.Is(err, storage.ErrNotFound) {
		return e.deny(ctx, actor, messages.NotInGroup)
	}
	if err != nil {
		return nil, fmt.Errorf("unassign: %w", err)
	}
	return e.done(ctx, actor, messages.Unassigned(target.ID), true)
}

// advanceRole promotes a user to admin or demotes an admin to user.
func (e *Engine) advanceRole(ctx context.Context, actor models.User, st models.WizardState, in models.Input) (*models.Reply, error) {
	target, err := e.lookup(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if target == nil {
		return again(st)
	}

	// Повышаем только USER, снимаем только ADMIN.
	role, text := models.RoleAdmin, messages.Promoted(target.ID)
	if st.Kind == models.WizardDemoteAdmin {
		switch {
		case target.ID == actor.ID:
			return e.done(ctx, actor, messages.CannotDemoteSelf, true)
		case target.Role == models.RoleSuperAdmin:
			return e.done(ctx, actor, messages.CannotDemoteSuper, true)
		case target.Role != models.RoleAdmin:
			return e.done(ctx, actor, messages.NotAnAdmin, true)
		}
		role, text = models.RoleUser, messages.Demoted(target.ID)
	} else if target.Role != models.RoleUser {
		return e.done(ctx, actor, messages.AlreadyAdmin, true)
	}
	if err := e.store.SetRole(ctx, target.ID, role); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	return e.done(ctx, actor, text, true)
}

func (e *Engine) advanceEvening(ctx context.Context, actor models.User, st models.WizardState, in models.Input) (*models.Reply, error) {
	hm, err := utils.ParseClock(in.Text)
	if err != nil {
		return again(st)
	}
	if err := e.store.SetSetting(ctx, models.SettingEveningTime, hm); err != nil {
		return nil, fmt.Errorf("save evening time: %w", err)
	}
	return e.done(ctx, actor, messages.EveningTimeSaved(hm), true)
}

func (e *Engine) advanceContact(ctx context.Context, actor models.User, st models.WizardState, in models.Input) (*models.Reply, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return again(st)
	}
	if err := e.store.SetContact(ctx, actor.ID, text); err != nil {
		return nil, fmt.Errorf("save contact: %w", err)
	}
	return e.done(ctx, actor, messages.ContactSaved, true)
}
