package model

import "time"

// Seat is a committed reservation: one user holding one labelled seat
// for one match.  The ticket ID is the reservation's public identity.
// The (MatchID, SeatLabel) pair is unique in the database; that
// constraint is what makes concurrent bookings of the same seat
// resolve to exactly one winner.
//
// Fields:
//  TicketID  – UUID primary key of the reservation.
//  MatchID   – match foreign key.
//  UserID    – owning user foreign key.
//  SeatLabel – normalized seat label such as "A4".
//  CreatedAt – when the reservation was committed.
type Seat struct {
	TicketID  string    // seats.ticket_id
	MatchID   string    // seats.match_id
	UserID    string    // seats.user_id
	SeatLabel string    // seats.seat_label
	CreatedAt time.Time // seats.created_at
}
