package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-coach-bot/internal/messages"
	"telegram-coach-bot/internal/models"
)

// prelude runs the target user/date steps for kind.
func (e *testEnv) prelude(actor models.User, kind models.WizardKind, userID, date string) *models.Reply {
	e.t.Helper()
	r := e.start(actor, kind)
	require.Equal(e.t, messages.PromptTargetUser, r.Text)
	r = e.text(actor, userID)
	require.Equal(e.t, messages.PromptTargetDate, r.Text)
	if date == "" {
		return e.action(actor, messages.ActionToday)
	}
	return e.text(actor, date)
}

func (e *testEnv) assign(userID, coachID string) {
	e.t.Helper()
	require.NoError(e.t, e.db.AssignCoach(e.ctx, userID, coachID))
}

func TestPrelude_RequiresOwnGroup(t *testing.T) {
	env := newEnv(t)
	coachA := env.user("coachA", models.RoleAdmin)
	coachB := env.user("coachB", models.RoleAdmin)
	env.user("u1", models.RoleUser)
	env.assign("u1", coachA.ID)

	env.start(coachB, models.WizardMacros)
	r := env.text(coachB, "u1")
	assert.Equal(t, messages.NotInGroup, r.Text)
	assert.Nil(t, env.state(coachB.ID))

	env.start(coachA, models.WizardMacros)
	r = env.text(coachA, "nobody")
	assert.Equal(t, messages.PromptTargetUser, r.Text)
	assert.Equal(t, models.StepTargetUser, env.state(coachA.ID).Step)

	r = env.text(coachA, "u1")
	assert.Equal(t, messages.PromptTargetDate, r.Text)
	r = env.text(coachA, "not a date")
	assert.Equal(t, messages.PromptTargetDate, r.Text)

	r = env.text(coachA, "03.05.2024")
	assert.Equal(t, messages.PromptCalories, r.Text)
	st := env.state(coachA.ID)
	assert.Equal(t, models.WizardMacros, st.Kind)
	assert.Equal(t, models.StepMacroCalories, st.Step)
	assert.Equal(t, "u1", st.Payload.TargetUserID)
	assert.Equal(t, "2024-05-03", st.Payload.TargetDate)
}

func TestPrelude_SuperAdminManagesAnyone(t *testing.T) {
	env := newEnv(t)
	super := env.user("s", models.RoleSuperAdmin)
	env.user("u1", models.RoleUser)

	r := env.prelude(super, models.WizardNorms, "u1", "")
	assert.Equal(t, messages.PromptNormWater, r.Text)
	assert.Equal(t, "2024-05-01", env.state(super.ID).Payload.TargetDate)
}

func TestMacros_BatchedCommit(t *testing.T) {
	env := newEnv(t)
	coach := env.user("c", models.RoleAdmin)
	env.user("u1", models.RoleUser)
	env.assign("u1", coach.ID)

	env.prelude(coach, models.WizardMacros, "u1", "2024-05-02")
	env.text(coach, "1800")
	env.text(coach, "120,5")
	r := env.text(coach, "60")
	assert.Equal(t, messages.PromptCarbs, r.Text)

	// A restart here finds no plan row and the wizard waiting for carbs.
	plan, err := env.db.GetNutritionPlan(env.ctx, "u1", "2024-05-02")
	require.NoError(t, err)
	assert.Nil(t, plan)

	st := env.state(coach.ID)
	require.NotNil(t, st)
	assert.Equal(t, models.WizardMacros, st.Kind)
	assert.Equal(t, models.StepMacroCarbs, st.Step)
	assert.Equal(t, 1800.0, *st.Payload.Calories)
	assert.Equal(t, 120.5, *st.Payload.Protein)
	assert.Equal(t, 60.0, *st.Payload.Fat)

	r = env.text(coach, "oops")
	assert.Equal(t, messages.PromptCarbs, r.Text)

	r = env.text(coach, "200")
	assert.Equal(t, messages.MacrosSaved("u1", "2024-05-02"), r.Text)
	assert.Nil(t, env.state(coach.ID))

	plan, err = env.db.GetNutritionPlan(env.ctx, "u1", "2024-05-02")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, 1800.0, *plan.Calories)
	assert.Equal(t, 120.5, *plan.Protein)
	assert.Equal(t, 60.0, *plan.Fat)
	assert.Equal(t, 200.0, *plan.Carbs)
}

func TestMacros_FinalWriteFailureKeepsState(t *testing.T) {
	env := newEnv(t)
	super := env.user("s", models.RoleSuperAdmin)
	env.user("u1", models.RoleUser)
	env.prelude(super, models.WizardMacros, "u1", "")
	env.text(super, "1800")
	env.text(super, "120")
	env.text(super, "60")

	store := &failingStore{DB: env.db, failPlan: true}
	engine := New(store, env.clock, msk, nil)
	_, err := engine.Advance(env.ctx, super, *env.state(super.ID), models.Input{Text: "200"})
	require.ErrorIs(t, err, errBroken)

	assert.Equal(t, models.StepMacroCarbs, env.state(super.ID).Step)
	r := env.text(super, "200")
	assert.Equal(t, messages.MacrosSaved("u1", "2024-05-01"), r.Text)
}

func TestMacros_CancelDiscardsAccumulator(t *testing.T) {
	env := newEnv(t)
	super := env.user("s", models.RoleSuperAdmin)
	env.user("u1", models.RoleUser)
	env.prelude(super, models.WizardMacros, "u1", "")
	env.text(super, "1800")

	_, err := env.engine.Cancel(env.ctx, super)
	require.NoError(t, err)
	plan, err := env.db.GetNutritionPlan(env.ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestNorms(t *testing.T) {
	env := newEnv(t)
	super := env.user("s", models.RoleSuperAdmin)
	env.user("u1", models.RoleUser)
	env.prelude(super, models.WizardNorms, "u1", "")

	env.text(super, "2,5")
	r := env.text(super, "10 000")
	assert.Equal(t, messages.PromptNormSleep, r.Text)
	r = env.text(super, "30")
	assert.Equal(t, messages.PromptNormSleep, r.Text)
	r = env.text(super, "8")
	assert.Equal(t, messages.NormsSaved("u1", "2024-05-01"), r.Text)

	n, err := env.db.GetActivityNorm(env.ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 2.5, *n.Water)
	assert.Equal(t, int64(10000), *n.Steps)
	assert.Equal(t, 8.0, *n.Sleep)
}

func TestWorkout_AccumulatesLines(t *testing.T) {
	env := newEnv(t)
	super := env.user("s", models.RoleSuperAdmin)
	env.user("u1", models.RoleUser)
	r := env.prelude(super, models.WizardWorkout, "u1", "")
	assert.Equal(t, messages.PromptWorkout, r.Text)

	r = env.action(super, messages.ActionFinish)
	assert.Equal(t, messages.PromptWorkout, r.Text, "nothing to save yet")

	r = env.text(super, "Squat 5x5")
	assert.Equal(t, messages.WorkoutLineAccepted(1), r.Text)
	env.text(super, "   ")
	r = env.text(super, "Plank 3x1m")
	assert.Equal(t, messages.WorkoutLineAccepted(2), r.Text)

	w, err := env.db.GetWorkoutPlan(env.ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	assert.Nil(t, w)

	r = env.text(super, "/admin")
	assert.Contains(t, r.Text, messages.HintCommandBlocked)

	r = env.action(super, messages.ActionFinish)
	assert.Equal(t, messages.WorkoutSaved("u1", "2024-05-01", 2), r.Text)
	w, err = env.db.GetWorkoutPlan(env.ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "Squat 5x5\nPlank 3x1m", w.Text)
}

func TestViewReport(t *testing.T) {
	env := newEnv(t)
	coach := env.user("c", models.RoleAdmin)
	u := env.user("u1", models.RoleUser)
	env.assign(u.ID, coach.ID)

	r := env.prelude(coach, models.WizardViewReport, "u1", "")
	assert.Contains(t, r.Text, messages.NoReportToday)
	assert.Nil(t, env.state(coach.ID))

	env.start(u, models.WizardDailyReport)
	env.text(u, "7")
	env.text(u, "8000")
	env.text(u, "2")
	env.send(u, models.Input{PhotoFileID: "diary"})
	env.send(u, models.Input{PhotoFileID: "food"})

	r = env.prelude(coach, models.WizardViewReport, "u1", "01.05.2024")
	assert.Equal(t, []string{"diary", "food"}, r.Photos)
	assert.Equal(t, messages.AdminMenuButtons(coach.Role), r.Buttons)
	assert.Nil(t, env.state(coach.ID))
}

func TestAssign_Exclusive(t *testing.T) {
	env := newEnv(t)
	coachA := env.user("coachA", models.RoleAdmin)
	coachB := env.user("coachB", models.RoleAdmin)
	env.user("u1", models.RoleUser)

	env.start(coachA, models.WizardAssignUser)
	r := env.text(coachA, "u1")
	assert.Equal(t, messages.Assigned("u1"), r.Text)

	env.start(coachB, models.WizardAssignUser)
	r = env.text(coachB, "u1")
	assert.Equal(t, messages.AlreadyAssigned, r.Text)

	coach, err := env.db.CoachOf(env.ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, coachA.ID, coach)

	env.start(coachB, models.WizardUnassignUser)
	r = env.text(coachB, "u1")
	assert.Equal(t, messages.NotInGroup, r.Text)

	env.start(coachA, models.WizardUnassignUser)
	r = env.text(coachA, "u1")
	assert.Equal(t, messages.Unassigned("u1"), r.Text)
	coach, err = env.db.CoachOf(env.ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, coach)
}

func TestRoles(t *testing.T) {
	env := newEnv(t)
	super := env.user("s", models.RoleSuperAdmin)
	env.user("u1", models.RoleUser)

	env.start(super, models.WizardPromoteAdmin)
	r := env.text(super, "u1")
	assert.Equal(t, messages.Promoted("u1"), r.Text)
	got, err := env.db.GetUser(env.ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	env.start(super, models.WizardDemoteAdmin)
	r = env.text(super, "s")
	assert.Equal(t, messages.CannotDemoteSelf, r.Text)

	env.start(super, models.WizardDemoteAdmin)
	r = env.text(super, "u1")
	assert.Equal(t, messages.Demoted("u1"), r.Text)
	got, err = env.db.GetUser(env.ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestRoles_RespectCurrentTier(t *testing.T) {
	env := newEnv(t)
	super := env.user("s", models.RoleSuperAdmin)
	env.user("s2", models.RoleSuperAdmin)
	env.user("a", models.RoleAdmin)
	env.user("u1", models.RoleUser)

	role := func(id string) models.Role {
		t.Helper()
		u, err := env.db.GetUser(env.ctx, id)
		require.NoError(t, err)
		return u.Role
	}

	env.start(super, models.WizardPromoteAdmin)
	assert.Equal(t, messages.AlreadyAdmin, env.text(super, "s").Text)
	assert.Equal(t, models.RoleSuperAdmin, role("s"))

	env.start(super, models.WizardPromoteAdmin)
	assert.Equal(t, messages.AlreadyAdmin, env.text(super, "a").Text)
	assert.Equal(t, models.RoleAdmin, role("a"))

	env.start(super, models.WizardDemoteAdmin)
	assert.Equal(t, messages.CannotDemoteSuper, env.text(super, "s2").Text)
	assert.Equal(t, models.RoleSuperAdmin, role("s2"))

	env.start(super, models.WizardDemoteAdmin)
	assert.Equal(t, messages.NotAnAdmin, env.text(super, "u1").Text)
	assert.Equal(t, models.RoleUser, role("u1"))
	assert.Nil(t, env.state(super.ID))
}

func TestEveningTime(t *testing.T) {
	env := newEnv(t)
	super := env.user("s", models.RoleSuperAdmin)

	env.start(super, models.WizardEveningTime)
	r := env.text(super, "25:00")
	assert.Equal(t, messages.PromptEveningTime, r.Text)
	r = env.text(super, "8:30")
	assert.Equal(t, messages.EveningTimeSaved("08:30"), r.Text)

	evening, err := env.db.EveningTime(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "08:30", evening)
}

func TestContact(t *testing.T) {
	env := newEnv(t)
	coach := env.user("c", models.RoleAdmin)

	env.start(coach, models.WizardContact)
	r := env.text(coach, "  ")
	assert.Equal(t, messages.PromptContact, r.Text)
	r = env.text(coach, "@coach_anna")
	assert.Equal(t, messages.ContactSaved, r.Text)

	c, err := env.db.GetContact(env.ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, "@coach_anna", c.Text)
}
