package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
	"telegram-coach-bot/internal/storage"
)

var msk = time.FixedZone("MSK", 3*60*60)

type sent struct {
	ChatID int64
	Reply  models.Reply
}

// fakeNotifier records deliveries. fail maps a chat id to the error its
// next deliveries return.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sent
	fail map[int64]error
}

func (n *fakeNotifier) Notify(_ context.Context, chatID int64, r models.Reply) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail[chatID]; err != nil {
		return err
	}
	n.sent = append(n.sent, sent{ChatID: chatID, Reply: r})
	return nil
}

func (n *fakeNotifier) count(chatID int64) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, s := range n.sent {
		if s.ChatID == chatID {
			c++
		}
	}
	return c
}

func (n *fakeNotifier) total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *fakeNotifier) setFail(chatID int64, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail == nil {
		n.fail = map[int64]error{}
	}
	n.fail[chatID] = err
}

type fixture struct {
	ctx      context.Context
	db       *storage.DB
	clock    *clockwork.FakeClock
	notifier *fakeNotifier
	d        *Dispatcher
}

func newFixture(t *testing.T, at time.Time) *fixture {
	t.Helper()
	db, err := storage.New(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		ctx:      context.Background(),
		db:       db,
		clock:    clockwork.NewFakeClockAt(at),
		notifier: &fakeNotifier{},
	}
	f.d = NewDispatcher(db, f.notifier, f.clock, msk, "08:00", nil)
	return f
}

func (f *fixture) user(t *testing.T, id string, chatID int64, role models.Role) {
	t.Helper()
	_, err := f.db.UpsertUser(f.ctx, &models.User{ID: id, ChatID: chatID, Name: id})
	require.NoError(t, err)
	if role != models.RoleUser {
		require.NoError(t, f.db.SetRole(f.ctx, id, role))
	}
}

func (f *fixture) tick(t *testing.T) TickReport {
	t.Helper()
	r, err := f.d.Tick(f.ctx)
	require.NoError(t, err)
	return r
}

func morning(day int) time.Time {
	return time.Date(2024, 5, day, 8, 0, 0, 0, msk)
}

func TestTick_OutsideTriggerMinutes(t *testing.T) {
	f := newFixture(t, time.Date(2024, 5, 1, 7, 59, 59, 0, msk))
	f.user(t, "u1", 1, models.RoleUser)

	r := f.tick(t)
	assert.Empty(t, r.Results)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "2024-05-01", r.Date)

	f.clock.Advance(61 * time.Second)
	r = f.tick(t)
	assert.Empty(t, r.Results)
	assert.Zero(t, f.notifier.total())
}

func TestTick_MorningOncePerUserPerDay(t *testing.T) {
	f := newFixture(t, morning(1))
	f.user(t, "u1", 1, models.RoleUser)
	f.user(t, "u2", 2, models.RoleUser)
	f.user(t, "u3", 3, models.RoleUser)
	f.user(t, "coach", 10, models.RoleAdmin)
	f.user(t, "gone", 11, models.RoleUser)
	require.NoError(t, f.db.SetActive(f.ctx, "gone", false))

	r := f.tick(t)
	assert.Equal(t, 3, r.Count(models.NotifyMorning, StatusSent))
	for i := 0; i < 2; i++ {
		f.clock.Advance(20 * time.Second)
		r = f.tick(t)
		assert.Equal(t, 0, r.Count(models.NotifyMorning, StatusSent))
		assert.Equal(t, 3, r.Count(models.NotifyMorning, StatusSkipped))
	}
	for _, chat := range []int64{1, 2, 3} {
		assert.Equal(t, 1, f.notifier.count(chat), chat)
	}
	assert.Zero(t, f.notifier.count(10))
	assert.Zero(t, f.notifier.count(11))

	f.clock.Advance(24*time.Hour - 40*time.Second)
	r = f.tick(t)
	assert.Equal(t, "2024-05-02", r.Date)
	assert.Equal(t, 3, r.Count(models.NotifyMorning, StatusSent))
	assert.Equal(t, 2, f.notifier.count(1))
}

func TestTick_MorningDigestCarriesPlans(t *testing.T) {
	f := newFixture(t, morning(1))
	f.user(t, "u1", 1, models.RoleUser)
	kcal, protein := 2000.0, 150.0
	plan := models.NutritionPlan{UserID: "u1", Date: "2024-05-01", Calories: &kcal, Protein: &protein}
	require.NoError(t, f.db.SetNutritionPlan(f.ctx, plan))
	workout := models.WorkoutPlan{UserID: "u1", Date: "2024-05-01", Text: "Run 5k"}
	require.NoError(t, f.db.SetWorkoutPlan(f.ctx, workout))

	f.tick(t)
	require.Equal(t, 1, f.notifier.total())
	got := f.notifier.sent[0].Reply
	want := models.Reply{Text: messages.MorningDigest("2024-05-01", &plan, &workout, nil)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("digest mismatch (-want +got):\n%s", diff)
	}
}

func TestTick_FailedDeliveryIsRetried(t *testing.T) {
	f := newFixture(t, morning(1))
	f.user(t, "u1", 1, models.RoleUser)
	f.user(t, "u2", 2, models.RoleUser)
	errDown := errors.New("telegram timeout")
	f.notifier.setFail(2, errDown)

	r := f.tick(t)
	want := []SendResult{
		{UserID: "u1", Status: StatusSent},
		{UserID: "u2", Status: StatusFailed, Err: errDown},
	}
	opts := []cmp.Option{
		cmpopts.EquateErrors(),
		cmpopts.SortSlices(func(a, b SendResult) bool { return a.UserID < b.UserID }),
	}
	if diff := cmp.Diff(want, r.Results[models.NotifyMorning], opts...); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	marked, err := f.db.IsNotified(f.ctx, models.NotifyMorning, "u2", "2024-05-01")
	require.NoError(t, err)
	assert.False(t, marked)

	f.notifier.setFail(2, nil)
	f.clock.Advance(20 * time.Second)
	r = f.tick(t)
	assert.Equal(t, 1, r.Count(models.NotifyMorning, StatusSent))
	assert.Equal(t, 1, f.notifier.count(1))
	assert.Equal(t, 1, f.notifier.count(2))
}

func TestTick_BlockedUserIsDeactivated(t *testing.T) {
	f := newFixture(t, morning(1))
	f.user(t, "u1", 1, models.RoleUser)
	f.notifier.setFail(1, fmt.Errorf("send: %w", ErrBlocked))

	r := f.tick(t)
	assert.Equal(t, 1, r.Count(models.NotifyMorning, StatusFailed))

	u, err := f.db.GetUser(f.ctx, "u1")
	require.NoError(t, err)
	assert.False(t, u.Active)

	f.clock.Advance(20 * time.Second)
	r = f.tick(t)
	assert.Empty(t, r.Results[models.NotifyMorning])
}

func TestTick_EveningUsesSetting(t *testing.T) {
	f := newFixture(t, time.Date(2024, 5, 1, 19, 0, 0, 0, msk))
	f.user(t, "u1", 1, models.RoleUser)
	require.NoError(t, f.db.SetSetting(f.ctx, models.SettingEveningTime, "21:15"))

	r := f.tick(t)
	assert.Empty(t, r.Results)

	f.clock.Advance(2*time.Hour + 15*time.Minute)
	r = f.tick(t)
	assert.Equal(t, 1, r.Count(models.NotifyEvening, StatusSent))
	assert.Empty(t, r.Results[models.NotifyMorning])

	got := f.notifier.sent[0].Reply
	assert.Equal(t, messages.EveningReminder, got.Text)
	assert.Equal(t, messages.EveningButtons(), got.Buttons)
}

func TestTick_UnpaddedClockValuesStillMatch(t *testing.T) {
	f := newFixture(t, morning(1))
	f.d = NewDispatcher(f.db, f.notifier, f.clock, msk, "8:00", nil)
	f.user(t, "u1", 1, models.RoleUser)
	require.NoError(t, f.db.SetSetting(f.ctx, models.SettingEveningTime, "9:05"))

	r := f.tick(t)
	assert.Equal(t, 1, r.Count(models.NotifyMorning, StatusSent))

	f.clock.Advance(65 * time.Minute)
	r = f.tick(t)
	assert.Equal(t, 1, r.Count(models.NotifyEvening, StatusSent))
}

func TestTick_EveningAfterMidnightBelongsToPreviousDay(t *testing.T) {
	f := newFixture(t, time.Date(2024, 5, 2, 0, 30, 0, 0, msk))
	f.user(t, "u1", 1, models.RoleUser)
	require.NoError(t, f.db.SetSetting(f.ctx, models.SettingEveningTime, "00:30"))

	r := f.tick(t)
	assert.Equal(t, "2024-05-01", r.Date)
	assert.Equal(t, 1, r.Count(models.NotifyEvening, StatusSent))

	marked, err := f.db.IsNotified(f.ctx, models.NotifyEvening, "u1", "2024-05-01")
	require.NoError(t, err)
	assert.True(t, marked)
}

func TestStart_TicksWithoutDuplicates(t *testing.T) {
	f := newFixture(t, morning(1))
	f.user(t, "u1", 1, models.RoleUser)
	f.user(t, "u2", 2, models.RoleUser)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s, err := Start(ctx, f.d, Options{Interval: 10 * time.Millisecond, Location: msk, Pruner: f.db})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return f.notifier.total() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, s.Jobs(), 2)
	require.NoError(t, s.Shutdown())

	assert.Equal(t, 1, f.notifier.count(1))
	assert.Equal(t, 1, f.notifier.count(2))
}
