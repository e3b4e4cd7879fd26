// Package service holds the reservation ledger: the one piece of the
// system whose correctness depends on more than field validation.  It
// orchestrates seat-label validation, the advisory availability read,
// the atomic insert that actually arbitrates races, the cancellation
// deadline, and the best-effort seat-taken broadcast.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/omarhegazy/matchday/internal/model"
	"github.com/omarhegazy/matchday/internal/repository"
)

// MatchStore is the slice of match persistence the ledger needs.
type MatchStore interface {
	// GetByID returns a match with its venue populated, or
	// repository.ErrMatchNotFound.
	GetByID(ctx context.Context, id string) (*model.Match, error)
}

// SeatStore is the reservation storage contract.  Create must enforce
// uniqueness of (match, seat label) atomically and return
// repository.ErrSeatTaken on conflict; the in-database unique key is
// the production implementation.
type SeatStore interface {
	IsAvailable(ctx context.Context, matchID, label string) (bool, error)
	Create(ctx context.Context, seat *model.Seat) error
	GetByTicketForUser(ctx context.Context, ticketID, userID string) (*model.Seat, error)
	Delete(ctx context.Context, ticketID string) error
	ListByUser(ctx context.Context, userID string) ([]model.Seat, error)
}

// NotificationPublisher broadcasts a seat-taken event to subscribers of
// a match.  Delivery is best effort and at most once; a failed publish
// must never fail or roll back the reservation it announces.
type NotificationPublisher interface {
	PublishSeatReserved(ctx context.Context, matchID, seatLabel string) error
}

// Reservations is the ledger interface consumed by the HTTP handlers.
type Reservations interface {
	Reserve(ctx context.Context, userID, matchID, label string) (*model.Seat, error)
	Cancel(ctx context.Context, userID, ticketID string) error
	List(ctx context.Context, userID string) ([]model.Seat, error)
}

// ErrInvalidSeat is returned by Reserve when the label is malformed or
// falls outside the match venue's VIP grid.
var ErrInvalidSeat = errors.New("invalid seat for this stadium")

// ReservationService implements Reservations against a match store, a
// seat store and a notification publisher.
type ReservationService struct {
	matches   MatchStore
	seats     SeatStore
	publisher NotificationPublisher

	cancellationWindow time.Duration // lead time before kickoff during which cancellation is refused
	labelMaxLen        int
	now                func() time.Time
}

// NewReservationService wires a ledger.  windowDays is the cancellation
// window in days and labelMaxLen bounds accepted seat labels; both come
// from configuration.  publisher may be nil, in which case reservation
// events are not broadcast.
func NewReservationService(matches MatchStore, seats SeatStore, publisher NotificationPublisher, windowDays, labelMaxLen int) *ReservationService {
	if matches == nil || seats == nil {
		panic("nil store passed to NewReservationService")
	}
	return &ReservationService{
		matches:            matches,
		seats:              seats,
		publisher:          publisher,
		cancellationWindow: time.Duration(windowDays) * 24 * time.Hour,
		labelMaxLen:        labelMaxLen,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// Reserve books one seat for one user on one match.
//
// The availability read is a fast-fail optimization: it produces a
// clean conflict for the common case but decides nothing.  The seat
// store's atomic Create is the serialization point: when two calls
// race past the read with the same (match, label), exactly one insert
// wins and the loser surfaces repository.ErrSeatTaken.
func (s *ReservationService) Reserve(ctx context.Context, userID, matchID, label string) (*model.Seat, error) {
	label = model.NormalizeSeatLabel(label)
	if label == "" || (s.labelMaxLen > 0 && len(label) > s.labelMaxLen) {
		return nil, ErrInvalidSeat
	}

	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, storeErr(err)
	}
	if match.Venue == nil || !match.Venue.IsValidSeat(label) {
		return nil, ErrInvalidSeat
	}

	available, err := s.seats.IsAvailable(ctx, matchID, label)
	if err != nil {
		return nil, storeErr(err)
	}
	if !available {
		return nil, repository.ErrSeatTaken
	}

	seat := &model.Seat{
		MatchID:   match.ID,
		UserID:    userID,
		SeatLabel: label,
	}
	if err := s.seats.Create(ctx, seat); err != nil {
		return nil, storeErr(err)
	}

	// Fire-and-forget broadcast. The reservation is already committed;
	// a publish failure is logged and swallowed.
	if s.publisher != nil {
		go func(matchID, label string) {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.publisher.PublishSeatReserved(pubCtx, matchID, label); err != nil {
				log.Printf("reservation: publish seat-reserved failed for match %s seat %s: %v", matchID, label, err)
			}
		}(match.ID, label)
	}

	return seat, nil
}

// Cancel deletes a reservation owned by userID, provided kickoff is
// still more than the cancellation window away.  The boundary is
// exclusive: a cancellation arriving exactly at (kickoff - window)
// still succeeds.
func (s *ReservationService) Cancel(ctx context.Context, userID, ticketID string) error {
	seat, err := s.seats.GetByTicketForUser(ctx, ticketID, userID)
	if err != nil {
		return storeErr(err)
	}
	match, err := s.matches.GetByID(ctx, seat.MatchID)
	if err != nil {
		return storeErr(err)
	}
	if s.now().After(match.Date.Add(-s.cancellationWindow)) {
		return repository.ErrCancellationClosed
	}
	return storeErr(s.seats.Delete(ctx, seat.TicketID))
}

// List returns the caller's reservations, newest first.
func (s *ReservationService) List(ctx context.Context, userID string) ([]model.Seat, error) {
	seats, err := s.seats.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return seats, nil
}

// storeErr passes through the repository sentinels and wraps anything
// else (driver faults, timeouts) as retryable ErrUnavailable so no raw
// storage error crosses the ledger boundary.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrSeatTaken),
		errors.Is(err, repository.ErrTicketNotFound),
		errors.Is(err, repository.ErrMatchNotFound),
		errors.Is(err, repository.ErrCancellationClosed),
		errors.Is(err, repository.ErrForbidden):
		return err
	default:
		return errors.Join(repository.ErrUnavailable, err)
	}
}
