package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/omarhegazy/matchday/internal/model"
)

// MatchRepo provides persistence for matches.  Reads join the hosting
// stadium so callers always see the venue geometry alongside the match;
// the reservation ledger depends on that to validate seat labels
// without a second round trip.
type MatchRepo struct{ DB *sql.DB }

// NewMatchRepo returns a MatchRepo bound to the given database.
func NewMatchRepo(db *sql.DB) *MatchRepo { return &MatchRepo{DB: db} }

const matchJoinQ = `SELECT m.id, m.home_team, m.away_team, m.date, m.referee, m.linesmen, m.stadium_id,
                           m.created_at, m.updated_at,
                           s.id, s.name, s.capacity, s.vip_seats_per_row, s.vip_rows, s.created_at, s.updated_at
                    FROM matches m
                    JOIN stadiums s ON s.id = m.stadium_id`

// Create inserts a match and returns its generated UUID.  Linesmen are
// stored as a JSON array.  The stadium must exist; a failed foreign key
// maps to ErrStadiumNotFound.
func (r *MatchRepo) Create(ctx context.Context, m *model.Match) (string, error) {
	linesmen, err := json.Marshal(m.Linesmen)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO matches (id, home_team, away_team, date, referee, linesmen, stadium_id) VALUES (?,?,?,?,?,?,?)",
		id, m.HomeTeam, m.AwayTeam, m.Date.UTC(), m.Referee, linesmen, m.StadiumID)
	if err != nil {
		if isForeignKeyErr(err) {
			return "", ErrStadiumNotFound
		}
		return "", err
	}
	return id, nil
}

// Update overwrites a match's mutable fields, including the venue.
// Last writer wins; matches are mutated only by their owning request.
func (r *MatchRepo) Update(ctx context.Context, m *model.Match) error {
	linesmen, err := json.Marshal(m.Linesmen)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE matches SET home_team=?, away_team=?, date=?, referee=?, linesmen=?, stadium_id=? WHERE id=?",
		m.HomeTeam, m.AwayTeam, m.Date.UTC(), m.Referee, linesmen, m.StadiumID, m.ID)
	if err != nil {
		if isForeignKeyErr(err) {
			return ErrStadiumNotFound
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// the UPDATE may be a no-op on identical values; verify existence
		var exists bool
		if err := r.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM matches WHERE id=?)", m.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrMatchNotFound
		}
	}
	return nil
}

// GetByID fetches a match with its venue joined.
func (r *MatchRepo) GetByID(ctx context.Context, id string) (*model.Match, error) {
	row := r.DB.QueryRowContext(ctx, matchJoinQ+" WHERE m.id = ?", id)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns one page of matches ordered by kickoff time, along with
// the total match count for page clamping.
func (r *MatchRepo) List(ctx context.Context, perPage, page int) ([]model.Match, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM matches").Scan(&total); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * perPage
	rows, err := r.DB.QueryContext(ctx, matchJoinQ+" ORDER BY m.date, m.id LIMIT ? OFFSET ?", perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	matches := make([]model.Match, 0, perPage)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, 0, err
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanMatch(row rowScanner) (*model.Match, error) {
	var m model.Match
	var s model.Stadium
	var linesmen []byte
	err := row.Scan(
		&m.ID, &m.HomeTeam, &m.AwayTeam, &m.Date, &m.Referee, &linesmen, &m.StadiumID,
		&m.CreatedAt, &m.UpdatedAt,
		&s.ID, &s.Name, &s.Capacity, &s.VIPSeatsPerRow, &s.VIPRows, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(linesmen, &m.Linesmen); err != nil {
		return nil, err
	}
	m.Date = m.Date.UTC()
	m.Venue = &s
	return &m, nil
}

// isForeignKeyErr reports whether err is a MySQL foreign key violation
// (errno 1452, failed reference on insert/update).
func isForeignKeyErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}

// ClampPage normalizes a requested page number against the total item
// count the way the listing endpoints promise: a page below 1 becomes 1
// and a page past the end becomes the last non-empty page.
func ClampPage(page, perPage, total int) int {
	if page < 1 {
		return 1
	}
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	if page > last {
		return last
	}
	return page
}
