package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"telegram-coach-bot/internal/models"
)

const userColumns = `id, chat_id, name, handle, role, active, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.ChatID, &u.Name, &u.Handle, &role, &u.Active, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

// UpsertUser records a contact. New users get the default role; existing
// users keep their role and are marked active again.
func (d *DB) UpsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	_, err := d.ExecContext(ctx, `
        INSERT INTO users (id, chat_id, name, handle, role, active, created_at)
        VALUES (?,?,?,?,?,1,?)
        ON CONFLICT(id) DO UPDATE SET chat_id=excluded.chat_id,
            name=excluded.name,
            handle=excluded.handle,
            active=1
    `, u.ID, u.ChatID, u.Name, u.Handle, string(models.RoleUser), time.Now().Unix())
	if err != nil {
		return nil, err
	}
	return d.GetUser(ctx, u.ID)
}

// GetUser returns nil, nil when the user is unknown.
func (d *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(d.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// SetRole changes the role of an existing user.
func (d *DB) SetRole(ctx context.Context, id string, role models.Role) error {
	res, err := d.ExecContext(ctx, `UPDATE users SET role=? WHERE id=?`, string(role), id)
	if err != nil {
		return err
	}
	return affected(res)
}

// SetActive toggles delivery of scheduled broadcasts to a user.
func (d *DB) SetActive(ctx context.Context, id string, active bool) error {
	res, err := d.ExecContext(ctx, `UPDATE users SET active=? WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// ListActiveUsers returns active users of the given role, oldest first.
func (d *DB) ListActiveUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	return d.listUsers(ctx,
		`SELECT `+userColumns+` FROM users WHERE role=? AND active=1 ORDER BY created_at, id`,
		string(role))
}

// ListUsers returns every known user.
func (d *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	return d.listUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
}

func (d *DB) listUsers(ctx context.Context, q string, args ...any) ([]models.User, error) {
	rows, err := d.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	return res, rows.Err()
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
