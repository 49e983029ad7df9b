package messages

import (
	"fmt"
	"strconv"
	"strings"

	"telegram-coach-bot/internal/models"
)

func num(v *float64, unit string) string {
	if v == nil {
		return NotSet
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if unit != "" {
		s += " " + unit
	}
	return s
}

func count(v *int64) string {
	if v == nil {
		return NotSet
	}
	return strconv.FormatInt(*v, 10)
}

// Plan renders the nutrition plan, workout and norms of one day. Nil
// records render as NotSet.
func Plan(date string, n *models.NutritionPlan, w *models.WorkoutPlan, a *models.ActivityNorm) string {
	var b strings.Builder
	fmt.Fprintf(&b, "План на %s\n\n", date)

	if n == nil {
		n = &models.NutritionPlan{}
	}
	fmt.Fprintf(&b, "🍽 КБЖУ: %s / %s / %s / %s\n",
		num(n.Calories, "ккал"), num(n.Protein, "г"), num(n.Fat, "г"), num(n.Carbs, "г"))

	if a == nil {
		a = &models.ActivityNorm{}
	}
	fmt.Fprintf(&b, "💧 Вода: %s\n👣 Шаги: %s\n😴 Сон: %s\n",
		num(a.Water, "л"), count(a.Steps), num(a.Sleep, "ч"))

	b.WriteString("\n🏋️ Тренировка:\n")
	if w == nil || strings.TrimSpace(w.Text) == "" {
		b.WriteString(NotSet)
	} else {
		b.WriteString(w.Text)
	}
	return b.String()
}

// MorningDigest is the scheduled morning message.
func MorningDigest(date string, n *models.NutritionPlan, w *models.WorkoutPlan, a *models.ActivityNorm) string {
	return "Доброе утро! ☀️\n\n" + Plan(date, n, w, a)
}

// Report renders a daily report; photos is the number of food photos.
func Report(date string, r *models.DailyReport, photos int) string {
	if r == nil {
		r = &models.DailyReport{}
	}
	note := NotSet
	if r.Note != nil && *r.Note != "" {
		note = *r.Note
	}
	return fmt.Sprintf("Отчёт за %s\n\n"+
		"😴 Сон: %s\n👣 Шаги: %s\n💧 Вода: %s\n"+
		"🍽 КБЖУ: %s / %s / %s / %s\n"+
		"📷 Фото еды: %d\n💬 Комментарий: %s",
		date,
		num(r.Sleep, "ч"), count(r.Steps), num(r.Water, "л"),
		num(r.Calories, "ккал"), num(r.Protein, "г"), num(r.Fat, "г"), num(r.Carbs, "г"),
		photos, note)
}

// UserList renders a coach's group.
func UserList(users []models.User) string {
	if len(users) == 0 {
		return NoUsers
	}
	var b strings.Builder
	b.WriteString("Ваши подопечные:\n")
	for _, u := range users {
		fmt.Fprintf(&b, "\n• %s – ID %s", u.Label(), u.ID)
	}
	return b.String()
}
