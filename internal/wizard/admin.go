package wizard

import (
	"context"
	"fmt"
	"strings"

	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
	"telegram-coach-bot/internal/utils"
)

// canManage reports whether actor may edit or read data of userID: the
// assigned coach or any super-admin.
func (e *Engine) canManage(ctx context.Context, actor models.User, userID string) (bool, error) {
	if actor.Role == models.RoleSuperAdmin {
		return true, nil
	}
	coach, err := e.store.CoachOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return coach == actor.ID, nil
}

// lookup resolves a typed user id; nil means the user is unknown.
func (e *Engine) lookup(ctx context.Context, in models.Input) (*models.User, error) {
	id := strings.TrimSpace(in.Text)
	if id == "" {
		return nil, nil
	}
	return e.store.GetUser(ctx, id)
}

// advanceTarget is the shared prelude: target user, then date. It then
// hands over to the purpose wizard starting at its first step.
func (e *Engine) advanceTarget(ctx context.Context, actor models.User, st models.WizardState, in models.Input) (*models.Reply, error) {
	switch st.Step {
	case models.StepTargetUser:
		target, err := e.lookup(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("lookup target: %w", err)
		}
		if target == nil {
			return again(st)
		}
		ok, err := e.canManage(ctx, actor, target.ID)
		if err != nil {
			return nil, fmt.Errorf("check group: %w", err)
		}
		if !ok {
			return e.deny(ctx, actor, messages.NotInGroup)
		}
		st.Payload.TargetUserID = target.ID
		st.Step = models.StepTargetDate
		return e.next(ctx, st)

	case models.StepTargetDate:
		var date string
		if in.Action == messages.ActionToday {
			date = utils.Today(e.clock, e.loc)
		} else {
			d, err := utils.ParseDate(in.Text)
			if err != nil {
				return again(st)
			}
			date = d
		}
		st.Payload.TargetDate = date
		if st.Payload.Purpose == models.WizardViewReport {
			return e.viewReport(ctx, actor, st.Payload.TargetUserID, date)
		}
		if !needsTarget(st.Payload.Purpose) {
			return e.deny(ctx, actor, messages.UseMenu)
		}
		st.Kind = st.Payload.Purpose
		st.Step = models.StepFirst
		return e.next(ctx, st)
	}
	return e.deny(ctx, actor, messages.UseMenu)
}

// viewReport renders a user's report with its food photos attached.
func (e *Engine) viewReport(ctx context.Context, actor models.User, userID, date string) (*models.Reply, error) {
	rec, err := e.store.GetReport(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	photos, err := e.store.ListFoodPhotos(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("load food photos: %w", err)
	}
	r, err := e.done(ctx, actor, "", true)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		r.Text = fmt.Sprintf("%s: %s", userID, messages.NoReportToday)
		return r, nil
	}
	r.Text = messages.Report(date, rec, len(photos))
	if rec.PhotoFileID != nil {
		r.Photos = append(r.Photos, *rec.PhotoFileID)
	}
	for _, p := range photos {
		r.Photos = append(r.Photos, p.FileID)
	}
	return r, nil
}

// advanceMacros collects kcal, protein, fat, carbs in the payload and
// writes the plan once, after the last value.
func (e *Engine) advanceMacros(ctx context.Context, actor models.User, st models.WizardState, in models.Input) (*models.Reply, error) {
	v, err := utils.ParseNumber(in.Text)
	if err != nil {
		return again(st)
	}
	p := &st.Payload
	switch st.Step {
	case models.StepMacroCalories:
		p.Calories = &v
	case models.StepMacroProtein:
		p.Protein = &v
	case models.StepMacroFat:
		p.Fat = &v
	case models.StepMacroCarbs:
		plan := models.NutritionPlan{
			UserID:   p.TargetUserID,
			Date:     p.TargetDate,
			Calories: p.Calories,
			Protein:  p.Protein,
			Fat:      p.Fat,
			Carbs:    &v,
		}
		if err := e.store.SetNutritionPlan(ctx, plan); err != nil {
			return nil, fmt.Errorf("save nutrition plan: %w", err)
		}
		return e.done(ctx, actor, messages.MacrosSaved(p.TargetUserID, p.TargetDate), true)
	default:
		return e.deny(ctx, actor, messages.UseMenu)
	}
	st.Step++
	return e.next(ctx, st)
}

// advanceNorms collects water, steps, sleep and writes them together.
func (e *Engine) advanceNorms(ctx context.Context, actor models.User, st models.WizardState, in models.Input) (*models.Reply, error) {
	p := &st.Payload
	switch st.Step {
	case models.StepNormWater:
		v, err := utils.ParseNumber(in.Text)
		if err != nil {
			return again(st)
		}
		p.Water = &v
	case models.StepNormSteps:
		v, err := utils.ParseCount(in.Text)
		if err != nil {
			return again(st)
		}
		p.Steps = &v
	case models.StepNormSleep:
		v, err := utils.ParseNumber(in.Text)
		if err != nil || v > maxSleepHours {
			return again(st)
		}
		norm := models.ActivityNorm{
			UserID: p.TargetUserID,
			Date:   p.TargetDate,
			Water:  p.Water,
			Steps:  p.Steps,
			Sleep:  &v,
		}
		if err := e.store.SetActivityNorm(ctx, norm); err != nil {
			return nil, fmt.Errorf("save activity norm: %w", err)
		}
		return e.done(ctx, actor, messages.NormsSaved(p.TargetUserID, p.TargetDate), true)
	default:
		return e.deny(ctx, actor, messages.UseMenu)
	}
	st.Step++
	return e.next(ctx, st)
}

// advanceWorkout takes one exercise per message until finished.
func (e *Engine) advanceWorkout(ctx context.Context, actor models.User, st models.WizardState, in models.Input) (*models.Reply, error) {
	p := &st.Payload
	if in.Action == messages.ActionFinish {
		if len(p.WorkoutLines) == 0 {
			return again(st)
		}
		plan := models.WorkoutPlan{
			UserID: p.TargetUserID,
			Date:   p.TargetDate,
			Text:   strings.Join(p.WorkoutLines, "\n"),
		}
		if err := e.store.SetWorkoutPlan(ctx, plan); err != nil {
			return nil, fmt.Errorf("save workout plan: %w", err)
		}
		return e.done(ctx, actor, messages.WorkoutSaved(p.TargetUserID, p.TargetDate, len(p.WorkoutLines)), true)
	}

	line := strings.TrimSpace(in.Text)
	if line == "" {
		return again(st)
	}
	p.WorkoutLines = append(p.WorkoutLines, line)
	if err := e.store.SetState(ctx, st); err != nil {
		return nil, fmt.Errorf("save workout line: %w", err)
	}
	return &models.Reply{
		Text:    messages.WorkoutLineAccepted(len(p.WorkoutLines)),
		Buttons: messages.FinishButtons(),
	}, nil
}
