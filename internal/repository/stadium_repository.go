package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/omarhegazy/matchday/internal/model"
)

// StadiumRepo provides persistence for stadiums.  Stadiums are
// create-only: geometry is never mutated once matches may reference it,
// so the repository deliberately exposes no update operation.
type StadiumRepo struct{ DB *sql.DB }

// NewStadiumRepo returns a StadiumRepo bound to the given database.
func NewStadiumRepo(db *sql.DB) *StadiumRepo { return &StadiumRepo{DB: db} }

const stadiumCols = "id, name, capacity, vip_seats_per_row, vip_rows, created_at, updated_at"

// Create inserts a stadium and returns its generated UUID.  Duplicate
// names map to ErrStadiumExists.
func (r *StadiumRepo) Create(ctx context.Context, s *model.Stadium) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO stadiums (id, name, capacity, vip_seats_per_row, vip_rows) VALUES (?,?,?,?,?)",
		id, s.Name, s.Capacity, s.VIPSeatsPerRow, s.VIPRows)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrStadiumExists
		}
		return "", err
	}
	return id, nil
}

// GetByID fetches a stadium by UUID.
func (r *StadiumRepo) GetByID(ctx context.Context, id string) (*model.Stadium, error) {
	var s model.Stadium
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+stadiumCols+" FROM stadiums WHERE id=? LIMIT 1", id).Scan(
		&s.ID, &s.Name, &s.Capacity, &s.VIPSeatsPerRow, &s.VIPRows, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStadiumNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all stadiums ordered by name.
func (r *StadiumRepo) List(ctx context.Context) ([]model.Stadium, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+stadiumCols+" FROM stadiums ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stadiums := make([]model.Stadium, 0)
	for rows.Next() {
		var s model.Stadium
		if err := rows.Scan(&s.ID, &s.Name, &s.Capacity, &s.VIPSeatsPerRow, &s.VIPRows, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stadiums = append(stadiums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stadiums, nil
}
