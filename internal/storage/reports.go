package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"telegram-coach-bot/internal/models"
)

// MergeReport upserts the report of (user, date) filling only the columns
// that are still NULL: values already stored win and nil inputs never
// overwrite anything.
func (d *DB) MergeReport(ctx context.Context, r models.DailyReport) error {
	now := time.Now().Unix()
	_, err := d.ExecContext(ctx, `
        INSERT INTO daily_reports
            (user_id, date, sleep, steps, water, calories, protein, fat, carbs, note, photo_file_id, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT(user_id, date) DO UPDATE SET
            sleep         = COALESCE(daily_reports.sleep, excluded.sleep),
            steps         = COALESCE(daily_reports.steps, excluded.steps),
            water         = COALESCE(daily_reports.water, excluded.water),
            calories      = COALESCE(daily_reports.calories, excluded.calories),
            protein       = COALESCE(daily_reports.protein, excluded.protein),
            fat           = COALESCE(daily_reports.fat, excluded.fat),
            carbs         = COALESCE(daily_reports.carbs, excluded.carbs),
            note          = COALESCE(daily_reports.note, excluded.note),
            photo_file_id = COALESCE(daily_reports.photo_file_id, excluded.photo_file_id),
            updated_at    = excluded.updated_at`,
		r.UserID, r.Date,
		nullFloat(r.Sleep), nullInt(r.Steps), nullFloat(r.Water),
		nullFloat(r.Calories), nullFloat(r.Protein), nullFloat(r.Fat), nullFloat(r.Carbs),
		nullString(r.Note), nullString(r.PhotoFileID), now, now)
	return err
}

// GetReport returns nil, nil when nothing was reported for (user, date).
func (d *DB) GetReport(ctx context.Context, userID, date string) (*models.DailyReport, error) {
	r := models.DailyReport{UserID: userID, Date: date}
	var (
		sleep, water, kcal, protein, fat, carbs sql.NullFloat64
		steps                                   sql.NullInt64
		note, photo                             sql.NullString
	)
	err := d.QueryRowContext(ctx, `
        SELECT sleep, steps, water, calories, protein, fat, carbs, note, photo_file_id
        FROM daily_reports WHERE user_id=? AND date=?`, userID, date,
	).Scan(&sleep, &steps, &water, &kcal, &protein, &fat, &carbs, &note, &photo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Sleep, r.Steps, r.Water = floatPtr(sleep), intPtr(steps), floatPtr(water)
	r.Calories, r.Protein, r.Fat, r.Carbs = floatPtr(kcal), floatPtr(protein), floatPtr(fat), floatPtr(carbs)
	r.Note, r.PhotoFileID = stringPtr(note), stringPtr(photo)
	return &r, nil
}

// HasReport reports whether a report row exists for (user, date).
func (d *DB) HasReport(ctx context.Context, userID, date string) (bool, error) {
	var one int
	err := d.QueryRowContext(ctx,
		`SELECT 1 FROM daily_reports WHERE user_id=? AND date=?`, userID, date).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ---------- food photos -----------------------------------------------------

// AddFoodPhoto appends an attachment and returns how many (user, date) has now.
func (d *DB) AddFoodPhoto(ctx context.Context, userID, date, fileID string) (int, error) {
	if _, err := d.ExecContext(ctx,
		`INSERT INTO food_photos (user_id, date, file_id, created_at) VALUES (?,?,?,?)`,
		userID, date, fileID, time.Now().Unix()); err != nil {
		return 0, err
	}
	var n int
	err := d.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM food_photos WHERE user_id=? AND date=?`, userID, date).Scan(&n)
	return n, err
}

// ListFoodPhotos returns attachments in insertion order.
func (d *DB) ListFoodPhotos(ctx context.Context, userID, date string) ([]models.FoodPhoto, error) {
	rows, err := d.QueryContext(ctx, `
        SELECT id, user_id, date, file_id, created_at FROM food_photos
        WHERE user_id=? AND date=? ORDER BY id`, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.FoodPhoto
	for rows.Next() {
		var p models.FoodPhoto
		if err := rows.Scan(&p.ID, &p.UserID, &p.Date, &p.FileID, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}
