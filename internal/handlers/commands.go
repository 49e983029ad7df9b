package handlers

import (
	"context"
	"fmt"

	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
)

// HandleCommand runs the entry commands. Each clears any wizard of the
// actor before doing anything else. ok is false for other commands, which
// the caller treats as plain input.
func (h *Handler) HandleCommand(ctx context.Context, actor models.User, cmd string) (*models.Reply, bool, error) {
	switch cmd {
	case "start", "admin", "report", "help":
	default:
		return nil, false, nil
	}
	if err := h.DB.ClearState(ctx, actor.ID); err != nil {
		return nil, true, fmt.Errorf("reset state: %w", err)
	}

	switch cmd {
	case "start":
		return h.mainMenu(actor), true, nil
	case "admin":
		return h.adminMenu(actor), true, nil
	case "report":
		r, err := h.Engine.Start(ctx, actor, models.WizardDailyReport)
		return r, true, err
	default:
		return &models.Reply{Text: messages.Help, Buttons: messages.BackButtons()}, true, nil
	}
}

func (h *Handler) mainMenu(actor models.User) *models.Reply {
	return &models.Reply{Text: messages.MainMenu, Buttons: messages.MainMenuButtons(actor.Role)}
}

func (h *Handler) adminMenu(actor models.User) *models.Reply {
	if !actor.Role.AtLeast(models.RoleAdmin) {
		return &models.Reply{Text: messages.Denied, Buttons: messages.MainMenuButtons(actor.Role)}
	}
	return &models.Reply{Text: messages.AdminMenu, Buttons: messages.AdminMenuButtons(actor.Role)}
}

// ---------- read-only queries -----------------------------------------------

func (h *Handler) myPlan(ctx context.Context, actor models.User) (*models.Reply, error) {
	date := h.today()
	n, err := h.DB.GetNutritionPlan(ctx, actor.ID, date)
	if err != nil {
		return nil, err
	}
	w, err := h.DB.GetWorkoutPlan(ctx, actor.ID, date)
	if err != nil {
		return nil, err
	}
	a, err := h.DB.GetActivityNorm(ctx, actor.ID, date)
	if err != nil {
		return nil, err
	}
	return &models.Reply{Text: messages.Plan(date, n, w, a), Buttons: messages.BackButtons()}, nil
}

func (h *Handler) myReport(ctx context.Context, actor models.User) (*models.Reply, error) {
	date := h.today()
	rec, err := h.DB.GetReport(ctx, actor.ID, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &models.Reply{Text: messages.NoReportToday, Buttons: messages.MainMenuButtons(actor.Role)}, nil
	}
	photos, err := h.DB.ListFoodPhotos(ctx, actor.ID, date)
	if err != nil {
		return nil, err
	}
	return &models.Reply{Text: messages.Report(date, rec, len(photos)), Buttons: messages.BackButtons()}, nil
}

func (h *Handler) coachContact(ctx context.Context, actor models.User) (*models.Reply, error) {
	coach, err := h.DB.CoachOf(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if coach == "" {
		return &models.Reply{Text: messages.NoCoach, Buttons: messages.BackButtons()}, nil
	}
	c, err := h.DB.GetContact(ctx, coach)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Text == "" {
		return &models.Reply{Text: messages.NoContact, Buttons: messages.BackButtons()}, nil
	}
	return &models.Reply{Text: c.Text, Buttons: messages.BackButtons()}, nil
}

func (h *Handler) groupList(ctx context.Context, actor models.User) (*models.Reply, error) {
	if !actor.Role.AtLeast(models.RoleAdmin) {
		return &models.Reply{Text: messages.Denied, Buttons: messages.MainMenuButtons(actor.Role)}, nil
	}
	users, err := h.DB.ListGroup(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &models.Reply{Text: messages.UserList(users), Buttons: messages.AdminMenuButtons(actor.Role)}, nil
}
