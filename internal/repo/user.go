package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/ems-inventory/internal/apperrors"
	"github.com/crucial707/ems-inventory/internal/models"
)

const userColumns = `user_id, username, role, email, password_encrypted, created_at, updated_at`

// UserRepo persists user records. All SQL against the users table goes
// through this type.
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Role,
		&u.Email,
		&u.EncryptedPassword,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create inserts a new user with an already-encrypted password.
func (r *UserRepo) Create(ctx context.Context, username, encryptedPassword, role, email string) (models.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, password_encrypted, role, email)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		username, encryptedPassword, role, email,
	)
	return scanUser(row)
}

// GetByUsername returns the user with the given username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.ErrNotFound
	}
	return u, err
}

// Exists reports whether a user with the given username exists.
func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = $1`,
		username,
	).Scan(&count)
	return count > 0, err
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY user_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetRole assigns a new role to the target user.
func (r *UserRepo) SetRole(ctx context.Context, username, role string) error {
	return r.exec(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE username = $2`,
		role, username)
}

// SetUsername renames the target user.
func (r *UserRepo) SetUsername(ctx context.Context, username, newUsername string) error {
	return r.exec(ctx,
		`UPDATE users SET username = $1, updated_at = now() WHERE username = $2`,
		newUsername, username)
}

// SetEmail replaces the target user's email address.
func (r *UserRepo) SetEmail(ctx context.Context, username, email string) error {
	return r.exec(ctx,
		`UPDATE users SET email = $1, updated_at = now() WHERE username = $2`,
		email, username)
}

// SetPassword stores a new already-encrypted password.
func (r *UserRepo) SetPassword(ctx context.Context, username, encryptedPassword string) error {
	return r.exec(ctx,
		`UPDATE users SET password_encrypted = $1, updated_at = now() WHERE username = $2`,
		encryptedPassword, username)
}

// Delete removes the user.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	return r.exec(ctx, `DELETE FROM users WHERE username = $1`, username)
}

func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
