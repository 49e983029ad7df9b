package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"telegram-coach-bot/internal/models"
)

// ---------- wizard state (fsm) ----------------------------------------------

// SetState stores the single live wizard of a user, replacing any other.
func (d *DB) SetState(ctx context.Context, st models.WizardState) error {
	_, err := d.ExecContext(ctx, `
        INSERT INTO wizard_states (user_id, type, step, payload, updated_at) VALUES (?,?,?,?,?)
        ON CONFLICT(user_id) DO UPDATE SET type=excluded.type,
            step=excluded.step,
            payload=excluded.payload,
            updated_at=excluded.updated_at`,
		st.UserID, string(st.Kind), int(st.Step), st.Payload.Encode(), time.Now().Unix())
	return err
}

// GetState returns nil, nil when the user is idle.
func (d *DB) GetState(ctx context.Context, userID string) (*models.WizardState, error) {
	var (
		st      models.WizardState
		kind    string
		step    int
		payload string
	)
	err := d.QueryRowContext(ctx,
		`SELECT user_id, type, step, payload, updated_at FROM wizard_states WHERE user_id=?`, userID,
	).Scan(&st.UserID, &kind, &step, &payload, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.Kind = models.WizardKind(kind)
	st.Step = models.Step(step)
	st.Payload = models.DecodePayload(payload)
	return &st, nil
}

// ClearState makes the user idle. Clearing an idle user is a no-op.
func (d *DB) ClearState(ctx context.Context, userID string) error {
	_, err := d.ExecContext(ctx, `DELETE FROM wizard_states WHERE user_id=?`, userID)
	return err
}
