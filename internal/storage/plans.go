package storage

import (
	"context"
	"database/sql"
	"errors"

	"telegram-coach-bot/internal/models"
)

// ---------- nutrition -------------------------------------------------------

// SetNutritionPlan replaces the macro targets of (user, date).
func (d *DB) SetNutritionPlan(ctx context.Context, p models.NutritionPlan) error {
	_, err := d.ExecContext(ctx, `
        INSERT INTO nutrition_plans (user_id, date, calories, protein, fat, carbs) VALUES (?,?,?,?,?,?)
        ON CONFLICT(user_id, date) DO UPDATE SET calories=excluded.calories,
            protein=excluded.protein,
            fat=excluded.fat,
            carbs=excluded.carbs`,
		p.UserID, p.Date, nullFloat(p.Calories), nullFloat(p.Protein), nullFloat(p.Fat), nullFloat(p.Carbs))
	return err
}

func (d *DB) GetNutritionPlan(ctx context.Context, userID, date string) (*models.NutritionPlan, error) {
	p := models.NutritionPlan{UserID: userID, Date: date}
	var kcal, protein, fat, carbs sql.NullFloat64
	err := d.QueryRowContext(ctx,
		`SELECT calories, protein, fat, carbs FROM nutrition_plans WHERE user_id=? AND date=?`,
		userID, date).Scan(&kcal, &protein, &fat, &carbs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Calories, p.Protein, p.Fat, p.Carbs = floatPtr(kcal), floatPtr(protein), floatPtr(fat), floatPtr(carbs)
	return &p, nil
}

// ---------- workout ---------------------------------------------------------

func (d *DB) SetWorkoutPlan(ctx context.Context, p models.WorkoutPlan) error {
	_, err := d.ExecContext(ctx, `
        INSERT INTO workout_plans (user_id, date, text) VALUES (?,?,?)
        ON CONFLICT(user_id, date) DO UPDATE SET text=excluded.text`,
		p.UserID, p.Date, p.Text)
	return err
}

func (d *DB) GetWorkoutPlan(ctx context.Context, userID, date string) (*models.WorkoutPlan, error) {
	p := models.WorkoutPlan{UserID: userID, Date: date}
	err := d.QueryRowContext(ctx,
		`SELECT text FROM workout_plans WHERE user_id=? AND date=?`, userID, date).Scan(&p.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ---------- activity norms --------------------------------------------------

func (d *DB) SetActivityNorm(ctx context.Context, n models.ActivityNorm) error {
	_, err := d.ExecContext(ctx, `
        INSERT INTO activity_norms (user_id, date, water, steps, sleep) VALUES (?,?,?,?,?)
        ON CONFLICT(user_id, date) DO UPDATE SET water=excluded.water,
            steps=excluded.steps,
            sleep=excluded.sleep`,
		n.UserID, n.Date, nullFloat(n.Water), nullInt(n.Steps), nullFloat(n.Sleep))
	return err
}

func (d *DB) GetActivityNorm(ctx context.Context, userID, date string) (*models.ActivityNorm, error) {
	n := models.ActivityNorm{UserID: userID, Date: date}
	var water, sleep sql.NullFloat64
	var steps sql.NullInt64
	err := d.QueryRowContext(ctx,
		`SELECT water, steps, sleep FROM activity_norms WHERE user_id=? AND date=?`,
		userID, date).Scan(&water, &steps, &sleep)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n.Water, n.Steps, n.Sleep = floatPtr(water), intPtr(steps), floatPtr(sleep)
	return &n, nil
}
