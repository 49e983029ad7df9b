package wizard

import (
	"context"
	"fmt"
	"strings"

	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
	"telegram-coach-bot/internal/utils"
)

const (
	maxSleepHours = 24
	maxWaterLiter = 20
)

// advanceReport drives the self-report. Each answer is merged into the
// report row right away, so a half-filled report is already visible.
func (e *Engine) advanceReport(ctx context.Context, actor models.User, st models.WizardState, in models.Input) (*models.Reply, error) {
	date := st.Payload.TargetDate
	if date == "" {
		date = utils.Today(e.clock, e.loc)
		st.Payload.TargetDate = date
	}
	rec := models.DailyReport{UserID: actor.ID, Date: date}
	text := strings.TrimSpace(in.Text)

	switch st.Step {
	case models.StepReportSleep:
		v, err := utils.ParseNumber(text)
		if err != nil || v > maxSleepHours {
			return again(st)
		}
		rec.Sleep = &v

	case models.StepReportSteps:
		v, err := utils.ParseCount(text)
		if err != nil {
			return again(st)
		}
		rec.Steps = &v

	case models.StepReportWater:
		v, err := utils.ParseNumber(text)
		if err != nil || v > maxWaterLiter {
			return again(st)
		}
		rec.Water = &v

	case models.StepReportMacros:
		switch {
		case in.Action == messages.ActionSkip:
		case in.PhotoFileID != "":
			photo := in.PhotoFileID
			rec.PhotoFileID = &photo
		default:
			m, err := utils.ParseMacros(text)
			if err != nil {
				return again(st)
			}
			rec.Calories, rec.Protein, rec.Fat, rec.Carbs = &m[0], &m[1], &m[2], &m[3]
		}

	case models.StepReportPhotos:
		switch {
		case in.Action == messages.ActionSkip:
			st.Step = models.StepReportNote
			return e.next(ctx, st)
		case in.PhotoFileID != "":
			n, err := e.store.AddFoodPhoto(ctx, actor.ID, date, in.PhotoFileID)
			if err != nil {
				return nil, fmt.Errorf("add food photo: %w", err)
			}
			return &models.Reply{Text: messages.PhotoAccepted(n), Buttons: messages.SkipButtons()}, nil
		default:
			return again(st)
		}

	case models.StepReportNote:
		switch {
		case in.Action == messages.ActionSkip:
		case text != "":
			rec.Note = &text
		default:
			return again(st)
		}
		// Строка есть с шага 1; пустой merge безвреден и покрывает
		// отчёт, где все шаги пропущены.
		if err := e.store.MergeReport(ctx, rec); err != nil {
			return nil, fmt.Errorf("save report note: %w", err)
		}
		return e.done(ctx, actor, messages.ReportSaved, false)

	default:
		return e.deny(ctx, actor, messages.UseMenu)
	}

	if err := e.store.MergeReport(ctx, rec); err != nil {
		return nil, fmt.Errorf("save report step %d: %w", st.Step, err)
	}
	st.Step++
	return e.next(ctx, st)
}
