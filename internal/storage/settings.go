package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"telegram-coach-bot/internal/models"
)

// ---------- settings --------------------------------------------------------

// GetSetting returns "", false, nil when key is not set.
func (d *DB) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := d.QueryRowContext(ctx, `SELECT value FROM settings WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (d *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := d.ExecContext(ctx, `
        INSERT INTO settings (key, value) VALUES (?,?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	return err
}

// EveningTime returns the "HH:MM" of the evening broadcast.
func (d *DB) EveningTime(ctx context.Context) (string, error) {
	v, ok, err := d.GetSetting(ctx, models.SettingEveningTime)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return models.DefaultEveningTime, nil
	}
	return v, nil
}

// ---------- contacts --------------------------------------------------------

func (d *DB) SetContact(ctx context.Context, coachID, text string) error {
	_, err := d.ExecContext(ctx, `
        INSERT INTO contacts (coach_id, text, updated_at) VALUES (?,?,?)
        ON CONFLICT(coach_id) DO UPDATE SET text=excluded.text, updated_at=excluded.updated_at`,
		coachID, text, time.Now().Unix())
	return err
}

// GetContact returns nil, nil when the coach has no card.
func (d *DB) GetContact(ctx context.Context, coachID string) (*models.Contact, error) {
	c := models.Contact{CoachID: coachID}
	err := d.QueryRowContext(ctx,
		`SELECT text, updated_at FROM contacts WHERE coach_id=?`, coachID).Scan(&c.Text, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
