package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"telegram-coach-bot/internal/models"
)

// ---------- notification log ------------------------------------------------

// IsNotified reports whether the broadcast typ already reached userID on date.
func (d *DB) IsNotified(ctx context.Context, typ models.NotificationType, userID, date string) (bool, error) {
	var one int
	err := d.QueryRowContext(ctx,
		`SELECT 1 FROM notification_log WHERE type=? AND user_id=? AND date=?`,
		string(typ), userID, date).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// MarkNotified writes the sent marker. It returns false when the marker
// already existed.
func (d *DB) MarkNotified(ctx context.Context, typ models.NotificationType, userID, date string) (bool, error) {
	res, err := d.ExecContext(ctx,
		`INSERT OR IGNORE INTO notification_log (type, user_id, date, sent_at) VALUES (?,?,?,?)`,
		string(typ), userID, date, time.Now().Unix())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ---------- processed updates -----------------------------------------------

// MarkUpdateProcessed records an inbound update id. It returns false for an
// id that was recorded before, so the caller can drop the duplicate.
func (d *DB) MarkUpdateProcessed(ctx context.Context, updateID int) (bool, error) {
	res, err := d.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_updates (update_id, processed_at) VALUES (?,?)`,
		updateID, time.Now().Unix())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// PruneProcessedUpdates forgets update ids recorded before t.
func (d *DB) PruneProcessedUpdates(ctx context.Context, before time.Time) (int64, error) {
	res, err := d.ExecContext(ctx, `DELETE FROM processed_updates WHERE processed_at < ?`, before.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
