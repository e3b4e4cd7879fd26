// Package queue defines the messages exchanged over the broker and the
// processes that produce and consume them.  Each match has its own
// pub/sub topic: events are published to the reservations exchange with
// the match id as routing key, so a subscriber interested in one match
// binds a queue to exactly that key.
package queue

// SeatReservedEvent is broadcast after a reservation commits.  The wire
// format is the JSON object subscribers of a match's topic receive.
type SeatReservedEvent struct {
	SeatID string `json:"seat_id"`
}
