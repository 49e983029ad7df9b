// Package wizard runs the per-user step machines that collect reports,
// plans and admin changes across several messages.
//
// A user has at most one live wizard, stored as a models.WizardState. The
// engine is only invoked while that state exists; the router handles
// everything else. A step advances only after its writes succeeded, so the
// stored state is always the authority on what is left to do.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"telegram-coach-bot/internal/logging"
	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
	"telegram-coach-bot/internal/utils"
)

// Store is the persistence the engine needs. *storage.DB implements it.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	SetRole(ctx context.Context, id string, role models.Role) error

	SetState(ctx context.Context, st models.WizardState) error
	ClearState(ctx context.Context, userID string) error

	CoachOf(ctx context.Context, userID string) (string, error)
	AssignCoach(ctx context.Context, userID, coachID string) error
	Unassign(ctx context.Context, userID, coachID string) error

	SetNutritionPlan(ctx context.Context, p models.NutritionPlan) error
	SetWorkoutPlan(ctx context.Context, p models.WorkoutPlan) error
	SetActivityNorm(ctx context.Context, n models.ActivityNorm) error

	MergeReport(ctx context.Context, r models.DailyReport) error
	HasReport(ctx context.Context, userID, date string) (bool, error)
	GetReport(ctx context.Context, userID, date string) (*models.DailyReport, error)
	AddFoodPhoto(ctx context.Context, userID, date, fileID string) (int, error)
	ListFoodPhotos(ctx context.Context, userID, date string) ([]models.FoodPhoto, error)

	SetSetting(ctx context.Context, key, value string) error
	SetContact(ctx context.Context, coachID, text string) error
}

type Engine struct {
	store Store
	clock clockwork.Clock
	loc   *time.Location
	log   *zap.Logger
}

func New(store Store, clock clockwork.Clock, loc *time.Location, log *zap.Logger) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{store: store, clock: clock, loc: loc, log: logging.OrNop(log).Named("wizard")}
}

// requiredRole is the minimum role allowed to run a wizard kind.
func requiredRole(kind models.WizardKind) (models.Role, bool) {
	switch kind {
	case models.WizardDailyReport:
		return models.RoleUser, true
	case models.WizardAdminTarget, models.WizardMacros, models.WizardWorkout, models.WizardNorms,
		models.WizardViewReport, models.WizardAssignUser, models.WizardUnassignUser, models.WizardContact:
		return models.RoleAdmin, true
	case models.WizardPromoteAdmin, models.WizardDemoteAdmin, models.WizardEveningTime:
		return models.RoleSuperAdmin, true
	}
	return "", false
}

// needsTarget lists the kinds that start with the target user/date prelude.
func needsTarget(kind models.WizardKind) bool {
	switch kind {
	case models.WizardMacros, models.WizardWorkout, models.WizardNorms, models.WizardViewReport:
		return true
	}
	return false
}

// Start enters a wizard for actor. Any previous state is replaced.
func (e *Engine) Start(ctx context.Context, actor models.User, kind models.WizardKind) (*models.Reply, error) {
	role, ok := requiredRole(kind)
	if !ok {
		return nil, fmt.Errorf("unknown wizard %q", kind)
	}
	if !actor.Role.AtLeast(role) {
		return e.deny(ctx, actor, messages.Denied)
	}

	st := models.WizardState{UserID: actor.ID, Kind: kind, Step: models.StepFirst}
	switch {
	case kind == models.WizardDailyReport:
		today := utils.Today(e.clock, e.loc)
		exists, err := e.store.HasReport(ctx, actor.ID, today)
		if err != nil {
			return nil, fmt.Errorf("check report: %w", err)
		}
		if exists {
			if err := e.store.ClearState(ctx, actor.ID); err != nil {
				return nil, err
			}
			return &models.Reply{Text: messages.ReportExists, Buttons: messages.MainMenuButtons(actor.Role)}, nil
		}
		st.Step = models.StepReportSleep
		st.Payload.TargetDate = today
	case needsTarget(kind):
		st.Kind = models.WizardAdminTarget
		st.Step = models.StepTargetUser
		st.Payload.Purpose = kind
	}

	if err := e.store.SetState(ctx, st); err != nil {
		return nil, fmt.Errorf("start %s: %w", kind, err)
	}
	e.log.Debug("wizard started", zap.String("user", actor.ID), zap.String("kind", string(kind)))
	r := prompt(st)
	return &r, nil
}

// Cancel drops the wizard of actor whatever its step. Values that an
// incremental wizard already wrote are kept.
func (e *Engine) Cancel(ctx context.Context, actor models.User) (*models.Reply, error) {
	if err := e.store.ClearState(ctx, actor.ID); err != nil {
		return nil, err
	}
	return &models.Reply{Text: messages.Cancelled, Buttons: messages.MainMenuButtons(actor.Role)}, nil
}

// Advance feeds one inbound event into the live wizard st of actor.
func (e *Engine) Advance(ctx context.Context, actor models.User, st models.WizardState, in models.Input) (*models.Reply, error) {
	role, ok := requiredRole(st.Kind)
	if !ok {
		e.log.Warn("dropping unknown wizard state", zap.String("user", actor.ID), zap.String("kind", string(st.Kind)))
		if err := e.store.ClearState(ctx, actor.ID); err != nil {
			return nil, err
		}
		return &models.Reply{Text: messages.UseMenu, Buttons: messages.MainMenuButtons(actor.Role)}, nil
	}
	if !actor.Role.AtLeast(role) {
		return e.deny(ctx, actor, messages.Denied)
	}

	if isCommand(in) {
		hint := messages.HintCommandBlocked
		if st.Kind == models.WizardDailyReport {
			hint = messages.HintReportCommandBlocked
		}
		r := prompt(st)
		r.Text = hint + "\n\n" + r.Text
		return &r, nil
	}

	switch st.Kind {
	case models.WizardDailyReport:
		return e.advanceReport(ctx, actor, st, in)
	case models.WizardAdminTarget:
		return e.advanceTarget(ctx, actor, st, in)
	case models.WizardMacros:
		return e.advanceMacros(ctx, actor, st, in)
	case models.WizardNorms:
		return e.advanceNorms(ctx, actor, st, in)
	case models.WizardWorkout:
		return e.advanceWorkout(ctx, actor, st, in)
	case models.WizardAssignUser, models.WizardUnassignUser:
		return e.advanceGroup(ctx, actor, st, in)
	case models.WizardPromoteAdmin, models.WizardDemoteAdmin:
		return e.advanceRole(ctx, actor, st, in)
	case models.WizardEveningTime:
		return e.advanceEvening(ctx, actor, st, in)
	case models.WizardContact:
		return e.advanceContact(ctx, actor, st, in)
	}
	// view_report never persists past the prelude.
	if err := e.store.ClearState(ctx, actor.ID); err != nil {
		return nil, err
	}
	return &models.Reply{Text: messages.UseMenu, Buttons: messages.MainMenuButtons(actor.Role)}, nil
}

func isCommand(in models.Input) bool {
	return strings.HasPrefix(strings.TrimSpace(in.Text), "/")
}

// next persists st and returns its prompt.
func (e *Engine) next(ctx context.Context, st models.WizardState) (*models.Reply, error) {
	if err := e.store.SetState(ctx, st); err != nil {
		return nil, fmt.Errorf("save %s step %d: %w", st.Kind, st.Step, err)
	}
	r := prompt(st)
	return &r, nil
}

// again re-sends the prompt of the current step unchanged.
func again(st models.WizardState) (*models.Reply, error) {
	r := prompt(st)
	return &r, nil
}

// done clears the state and returns text with the menu matching the wizard.
func (e *Engine) done(ctx context.Context, actor models.User, text string, admin bool) (*models.Reply, error) {
	if err := e.store.ClearState(ctx, actor.ID); err != nil {
		return nil, err
	}
	buttons := messages.MainMenuButtons(actor.Role)
	if admin {
		buttons = messages.AdminMenuButtons(actor.Role)
	}
	return &models.Reply{Text: text, Buttons: buttons}, nil
}

// deny aborts the wizard of actor with a fixed denial text.
func (e *Engine) deny(ctx context.Context, actor models.User, text string) (*models.Reply, error) {
	if err := e.store.ClearState(ctx, actor.ID); err != nil {
		return nil, err
	}
	return &models.Reply{Text: text, Buttons: messages.MainMenuButtons(actor.Role)}, nil
}

// prompt is the question asked at the current step of st.
func prompt(st models.WizardState) models.Reply {
	text, buttons := messages.UseMenu, messages.CancelButtons()
	switch st.Kind {
	case models.WizardDailyReport:
		switch st.Step {
		case models.StepReportSleep:
			text = messages.PromptSleep
		case models.StepReportSteps:
			text = messages.PromptSteps
		case models.StepReportWater:
			text = messages.PromptWater
		case models.StepReportMacros:
			text, buttons = messages.PromptMacros, messages.SkipButtons()
		case models.StepReportPhotos:
			text, buttons = messages.PromptPhotos, messages.SkipButtons()
		case models.StepReportNote:
			text, buttons = messages.PromptNote, messages.SkipButtons()
		}
	case models.WizardAdminTarget:
		switch st.Step {
		case models.StepTargetUser:
			text = messages.PromptTargetUser
		case models.StepTargetDate:
			text, buttons = messages.PromptTargetDate, messages.TodayButtons()
		}
	case models.WizardMacros:
		switch st.Step {
		case models.StepMacroCalories:
			text = messages.PromptCalories
		case models.StepMacroProtein:
			text = messages.PromptProtein
		case models.StepMacroFat:
			text = messages.PromptFat
		case models.StepMacroCarbs:
			text = messages.PromptCarbs
		}
	case models.WizardNorms:
		switch st.Step {
		case models.StepNormWater:
			text = messages.PromptNormWater
		case models.StepNormSteps:
			text = messages.PromptNormSteps
		case models.StepNormSleep:
			text = messages.PromptNormSleep
		}
	case models.WizardWorkout:
		text, buttons = messages.PromptWorkout, messages.FinishButtons()
	case models.WizardAssignUser:
		text = messages.PromptAssign
	case models.WizardUnassignUser:
		text = messages.PromptUnassign
	case models.WizardPromoteAdmin:
		text = messages.PromptPromote
	case models.WizardDemoteAdmin:
		text = messages.PromptDemote
	case models.WizardEveningTime:
		text = messages.PromptEveningTime
	case models.WizardContact:
		text = messages.PromptContact
	}
	return models.Reply{Text: text, Buttons: buttons}
}
