package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/omarhegazy/matchday/internal/model"
)

// SeatRepo is the storage half of the reservation ledger.  The seats
// table carries a unique key on (match_id, seat_label); Create relies
// on it so that two concurrent inserts for the same seat resolve to
// exactly one success and one ErrSeatTaken, regardless of what any
// earlier availability read said.
type SeatRepo struct{ DB *sql.DB }

// NewSeatRepo returns a SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{DB: db} }

// IsAvailable reports whether no live reservation exists for the given
// match and normalized seat label.  This is the fast-fail read; it is
// advisory only and never a substitute for the unique key.
func (r *SeatRepo) IsAvailable(ctx context.Context, matchID, label string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM seats WHERE match_id=? AND seat_label=?)",
		matchID, label).Scan(&exists)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Create inserts a reservation row, generating the ticket UUID and
// populating it on the passed Seat.  A duplicate-key rejection on
// (match_id, seat_label) maps to ErrSeatTaken; this is the atomic
// arbitration point for concurrent bookings.
func (r *SeatRepo) Create(ctx context.Context, seat *model.Seat) error {
	seat.TicketID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO seats (ticket_id, match_id, user_id, seat_label) VALUES (?,?,?,?)",
		seat.TicketID, seat.MatchID, seat.UserID, seat.SeatLabel)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSeatTaken
		}
		return err
	}
	return nil
}

// GetByTicketForUser fetches a reservation by ticket id, restricted to
// the owning user.  A ticket that exists but belongs to someone else is
// indistinguishable from a missing one: both return ErrTicketNotFound,
// so ticket ids leak nothing about other users' bookings.
func (r *SeatRepo) GetByTicketForUser(ctx context.Context, ticketID, userID string) (*model.Seat, error) {
	var s model.Seat
	err := r.DB.QueryRowContext(ctx,
		"SELECT ticket_id, match_id, user_id, seat_label, created_at FROM seats WHERE ticket_id=? AND user_id=? LIMIT 1",
		ticketID, userID).Scan(&s.TicketID, &s.MatchID, &s.UserID, &s.SeatLabel, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Delete removes a reservation by ticket id.
func (r *SeatRepo) Delete(ctx context.Context, ticketID string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM seats WHERE ticket_id=?", ticketID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// ListByUser returns all reservations owned by a user, newest first.
func (r *SeatRepo) ListByUser(ctx context.Context, userID string) ([]model.Seat, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT ticket_id, match_id, user_id, seat_label, created_at FROM seats WHERE user_id=? ORDER BY created_at DESC, ticket_id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.TicketID, &s.MatchID, &s.UserID, &s.SeatLabel, &s.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// ListByMatch returns the labels of all reserved seats for a match,
// used by the public match representation.
func (r *SeatRepo) ListByMatch(ctx context.Context, matchID string) ([]model.Seat, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT ticket_id, match_id, user_id, seat_label, created_at FROM seats WHERE match_id=? ORDER BY seat_label",
		matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.TicketID, &s.MatchID, &s.UserID, &s.SeatLabel, &s.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
