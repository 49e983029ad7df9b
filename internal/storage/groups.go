package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"telegram-coach-bot/internal/models"
)

// AssignCoach maps userID to coachID only when the user has no coach yet.
func (d *DB) AssignCoach(ctx context.Context, userID, coachID string) error {
	res, err := d.ExecContext(ctx, `
        INSERT INTO coach_groups (user_id, coach_id, created_at) VALUES (?,?,?)
        ON CONFLICT(user_id) DO NOTHING`, userID, coachID, time.Now().Unix())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrAlreadyAssigned
	}
	return nil
}

// Unassign removes the coach mapping of userID. A non-empty coachID limits
// the removal to that coach.
func (d *DB) Unassign(ctx context.Context, userID, coachID string) error {
	q := `DELETE FROM coach_groups WHERE user_id=?`
	args := []any{userID}
	if coachID != "" {
		q += ` AND coach_id=?`
		args = append(args, coachID)
	}
	res, err := d.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	return affected(res)
}

// CoachOf returns the coach id of userID, or "" when unassigned.
func (d *DB) CoachOf(ctx context.Context, userID string) (string, error) {
	var coach string
	err := d.QueryRowContext(ctx, `SELECT coach_id FROM coach_groups WHERE user_id=?`, userID).Scan(&coach)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return coach, err
}

// ListGroup returns the users assigned to coachID.
func (d *DB) ListGroup(ctx context.Context, coachID string) ([]models.User, error) {
	return d.listUsers(ctx, `
        SELECT u.id, u.chat_id, u.name, u.handle, u.role, u.active, u.created_at
        FROM coach_groups g JOIN users u ON u.id = g.user_id
        WHERE g.coach_id=? ORDER BY g.created_at, u.id`, coachID)
}
