package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"telegram-coach-bot/internal/logging"
	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
	"telegram-coach-bot/internal/utils"
)

// ErrBlocked marks a delivery that can never succeed (the user blocked the
// bot). Such users are deactivated.
var ErrBlocked = errors.New("recipient blocked the bot")

// Notifier delivers one outbound reply to a chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, r models.Reply) error
}

// Store is what a tick reads and writes. *storage.DB implements it.
type Store interface {
	ListActiveUsers(ctx context.Context, role models.Role) ([]models.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	IsNotified(ctx context.Context, typ models.NotificationType, userID, date string) (bool, error)
	MarkNotified(ctx context.Context, typ models.NotificationType, userID, date string) (bool, error)
	EveningTime(ctx context.Context) (string, error)
	GetNutritionPlan(ctx context.Context, userID, date string) (*models.NutritionPlan, error)
	GetWorkoutPlan(ctx context.Context, userID, date string) (*models.WorkoutPlan, error)
	GetActivityNorm(ctx context.Context, userID, date string) (*models.ActivityNorm, error)
}

type SendStatus string

const (
	StatusSent    SendStatus = "sent"
	StatusSkipped SendStatus = "skipped" // already marked for the day
	StatusFailed  SendStatus = "failed"
)

// SendResult is the outcome of one recipient in one broadcast.
type SendResult struct {
	UserID string
	Status SendStatus
	Err    error
}

// TickReport aggregates what a tick did. A tick outside both trigger
// minutes has no results.
type TickReport struct {
	ID      string
	At      time.Time
	Date    string
	Results map[models.NotificationType][]SendResult
}

// Count returns how many recipients of typ ended with status.
func (r TickReport) Count(typ models.NotificationType, status SendStatus) int {
	n := 0
	for _, res := range r.Results[typ] {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Dispatcher sends the morning digest and the evening reminder at most once
// per user per logical day.
type Dispatcher struct {
	store     Store
	notifier  Notifier
	clock     clockwork.Clock
	loc       *time.Location
	morningAt string
	log       *zap.Logger
}

func NewDispatcher(store Store, notifier Notifier, clock clockwork.Clock, loc *time.Location, morningAt string, log *zap.Logger) *Dispatcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	if hm, err := utils.ParseClock(morningAt); err == nil {
		morningAt = hm
	}
	return &Dispatcher{
		store:     store,
		notifier:  notifier,
		clock:     clock,
		loc:       loc,
		morningAt: morningAt,
		log:       logging.OrNop(log).Named("scheduler"),
	}
}

// Tick runs one scheduler pass. It is a no-op unless the local wall clock
// is at the morning or the evening time.
func (d *Dispatcher) Tick(ctx context.Context) (TickReport, error) {
	now := d.clock.Now()
	hm := utils.ClockTime(now, d.loc)
	report := TickReport{
		ID:      uuid.NewString(),
		At:      now,
		Date:    utils.LogicalDate(now, d.loc),
		Results: map[models.NotificationType][]SendResult{},
	}

	var errs []error
	if hm == d.morningAt {
		res, err := d.broadcast(ctx, models.NotifyMorning, report.Date)
		report.Results[models.NotifyMorning] = res
		errs = append(errs, err)
	}
	evening, err := d.store.EveningTime(ctx)
	if err == nil {
		evening, err = utils.ParseClock(evening)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("load evening time: %w", err))
	} else if hm == evening {
		res, err := d.broadcast(ctx, models.NotifyEvening, report.Date)
		report.Results[models.NotifyEvening] = res
		errs = append(errs, err)
	}

	for typ := range report.Results {
		d.log.Info("broadcast tick",
			zap.String("tick", report.ID),
			zap.String("type", string(typ)),
			zap.String("date", report.Date),
			zap.Int("sent", report.Count(typ, StatusSent)),
			zap.Int("skipped", report.Count(typ, StatusSkipped)),
			zap.Int("failed", report.Count(typ, StatusFailed)),
		)
	}
	return report, errors.Join(errs...)
}

// broadcast fans typ out to every active plain user. A failing recipient is
// not marked, so the next tick inside the same minute retries it.
func (d *Dispatcher) broadcast(ctx context.Context, typ models.NotificationType, date string) ([]SendResult, error) {
	users, err := d.store.ListActiveUsers(ctx, models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	res := make([]SendResult, 0, len(users))
	for _, u := range users {
		r := d.deliver(ctx, typ, u, date)
		if r.Err != nil {
			d.log.Warn("broadcast delivery failed",
				zap.String("type", string(typ)), zap.String("user", u.ID), zap.Error(r.Err))
		}
		res = append(res, r)
	}
	return res, nil
}

func (d *Dispatcher) deliver(ctx context.Context, typ models.NotificationType, u models.User, date string) SendResult {
	res := SendResult{UserID: u.ID, Status: StatusFailed}

	sent, err := d.store.IsNotified(ctx, typ, u.ID, date)
	if err != nil {
		res.Err = fmt.Errorf("check log: %w", err)
		return res
	}
	if sent {
		res.Status = StatusSkipped
		return res
	}

	reply, err := d.compose(ctx, typ, u, date)
	if err != nil {
		res.Err = fmt.Errorf("compose: %w", err)
		return res
	}
	if err := d.notifier.Notify(ctx, u.ChatID, reply); err != nil {
		res.Err = err
		if errors.Is(err, ErrBlocked) {
			if err := d.store.SetActive(ctx, u.ID, false); err != nil {
				d.log.Warn("deactivate user", zap.String("user", u.ID), zap.Error(err))
			}
		}
		return res
	}
	if _, err := d.store.MarkNotified(ctx, typ, u.ID, date); err != nil {
		res.Err = fmt.Errorf("mark sent: %w", err)
		return res
	}
	res.Status = StatusSent
	return res
}

func (d *Dispatcher) compose(ctx context.Context, typ models.NotificationType, u models.User, date string) (models.Reply, error) {
	if typ == models.NotifyEvening {
		return models.Reply{Text: messages.EveningReminder, Buttons: messages.EveningButtons()}, nil
	}
	n, err := d.store.GetNutritionPlan(ctx, u.ID, date)
	if err != nil {
		return models.Reply{}, err
	}
	w, err := d.store.GetWorkoutPlan(ctx, u.ID, date)
	if err != nil {
		return models.Reply{}, err
	}
	a, err := d.store.GetActivityNorm(ctx, u.ID, date)
	if err != nil {
		return models.Reply{}, err
	}
	return models.Reply{Text: messages.MorningDigest(date, n, w, a)}, nil
}
