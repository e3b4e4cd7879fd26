package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/omarhegazy/matchday/internal/model"
	"github.com/omarhegazy/matchday/internal/utils"
)

// UserRepo provides persistence for user accounts.  Usernames and
// emails are unique; duplicate inserts are mapped onto the
// ErrUsernameExists / ErrEmailExists sentinels by inspecting the MySQL
// duplicate-key error message.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, username, email, password_hash, first_name, last_name, birthdate, gender, city, address, role, authorized, created_at, updated_at"

// Create inserts a new user and returns its generated UUID.  The
// password arrives in plain text and is bcrypt-hashed here so callers
// never handle hashes.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) (string, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, first_name, last_name, birthdate, gender, city, address, role)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		id, u.Username, strings.ToLower(strings.TrimSpace(u.Email)), hash,
		u.FirstName, u.LastName, u.Birthdate.Format("2006-01-02"),
		u.Gender, u.City, u.Address, u.Role)
	if err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "1062") {
			if strings.Contains(low, "uq_users_username") {
				return "", ErrUsernameExists
			}
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}

// GetByUsername fetches a user by login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", username)
}

// GetByID fetches a user by UUID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (*model.User, error) {
	var u model.User
	var address sql.NullString
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Birthdate, &u.Gender, &u.City, &address, &u.Role, &u.Authorized,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if address.Valid {
		a := address.String
		u.Address = &a
	}
	return &u, nil
}

// List returns one page of users ordered by creation time.  When
// unauthorizedOnly is set, only accounts still awaiting admin approval
// are returned.  Pages are 1-based; out-of-range pages yield an empty
// slice and the caller clamps using the returned total.
func (r *UserRepo) List(ctx context.Context, unauthorizedOnly bool, perPage, page int) ([]model.User, int, error) {
	where := ""
	if unauthorizedOnly {
		where = " WHERE authorized = 0"
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * perPage
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users"+where+" ORDER BY created_at, id LIMIT ? OFFSET ?",
		perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	users := make([]model.User, 0, perPage)
	for rows.Next() {
		var u model.User
		var address sql.NullString
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Birthdate, &u.Gender, &u.City, &address, &u.Role, &u.Authorized,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if address.Valid {
			a := address.String
			u.Address = &a
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Authorize sets the authorized flag for a user. ErrUserNotFound is
// returned when no row matches.
func (r *UserRepo) Authorize(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET authorized = 1 WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguish "already authorized" from "missing"
		var exists bool
		if err := r.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}
	}
	return nil
}

// UpdateProfile overwrites a user's personal information.  Identity,
// credentials and role are untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, firstName, lastName string, birthdate time.Time, gender, city string, address *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?, last_name=?, birthdate=?, gender=?, city=?, address=? WHERE id=?",
		firstName, lastName, birthdate.Format("2006-01-02"), gender, city, address, id)
	return err
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// Delete removes a user.  Reservations and refresh tokens cascade via
// foreign keys.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
