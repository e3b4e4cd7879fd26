package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarhegazy/matchday/internal/model"
	"github.com/omarhegazy/matchday/internal/repository"
)

// fakeMatchStore serves matches from a map.
type fakeMatchStore struct {
	matches map[string]*model.Match
}

func (f *fakeMatchStore) GetByID(_ context.Context, id string) (*model.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repository.ErrMatchNotFound
	}
	return m, nil
}

// fakeSeatStore mimics the database repository: Create arbitrates
// (match, label) uniqueness under a mutex the way the unique key does.
type fakeSeatStore struct {
	mu    sync.Mutex
	seats map[string]*model.Seat // key: matchID + "/" + label
	next  int
}

func newFakeSeatStore() *fakeSeatStore {
	return &fakeSeatStore{seats: make(map[string]*model.Seat)}
}

func (f *fakeSeatStore) key(matchID, label string) string { return matchID + "/" + label }

func (f *fakeSeatStore) IsAvailable(_ context.Context, matchID, label string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, taken := f.seats[f.key(matchID, label)]
	return !taken, nil
}

func (f *fakeSeatStore) Create(_ context.Context, seat *model.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(seat.MatchID, seat.SeatLabel)
	if _, taken := f.seats[k]; taken {
		return repository.ErrSeatTaken
	}
	f.next++
	seat.TicketID = fmt.Sprintf("ticket-%d", f.next)
	seat.CreatedAt = time.Now().UTC()
	cp := *seat
	f.seats[k] = &cp
	return nil
}

func (f *fakeSeatStore) GetByTicketForUser(_ context.Context, ticketID, userID string) (*model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.seats {
		if s.TicketID == ticketID && s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrTicketNotFound
}

func (f *fakeSeatStore) Delete(_ context.Context, ticketID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, s := range f.seats {
		if s.TicketID == ticketID {
			delete(f.seats, k)
			return nil
		}
	}
	return repository.ErrTicketNotFound
}

func (f *fakeSeatStore) ListByUser(_ context.Context, userID string) ([]model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Seat
	for _, s := range f.seats {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

// recordingPublisher records published events and can be told to fail.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) PublishSeatReserved(_ context.Context, matchID, seatLabel string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, matchID+"/"+seatLabel)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func testVenue() *model.Stadium {
	return &model.Stadium{ID: "stad-1", Name: "Cairo International", Capacity: 60000, VIPRows: 5, VIPSeatsPerRow: 10}
}

func testMatch(kickoff time.Time) *model.Match {
	return &model.Match{
		ID:        "match-1",
		HomeTeam:  "al ahly sc",
		AwayTeam:  "zamalek sc",
		Date:      kickoff,
		StadiumID: "stad-1",
		Venue:     testVenue(),
	}
}

func newTestService(kickoff time.Time) (*ReservationService, *fakeSeatStore, *recordingPublisher) {
	seats := newFakeSeatStore()
	pub := &recordingPublisher{}
	matches := &fakeMatchStore{matches: map[string]*model.Match{"match-1": testMatch(kickoff)}}
	svc := NewReservationService(matches, seats, pub, 3, model.SeatLabelMaxLen)
	return svc, seats, pub
}

func TestReserveHappyPath(t *testing.T) {
	svc, _, pub := newTestService(time.Now().UTC().Add(30 * 24 * time.Hour))

	seat, err := svc.Reserve(context.Background(), "user-1", "match-1", " a4 ")
	require.NoError(t, err)
	assert.Equal(t, "A4", seat.SeatLabel, "label is normalized before storage")
	assert.Equal(t, "match-1", seat.MatchID)
	assert.NotEmpty(t, seat.TicketID)

	assert.Eventually(t, func() bool { return pub.count() == 1 },
		time.Second, 10*time.Millisecond, "reserve broadcasts the taken seat")
}

func TestReserveUnknownMatch(t *testing.T) {
	svc, _, _ := newTestService(time.Now().UTC().Add(30 * 24 * time.Hour))

	_, err := svc.Reserve(context.Background(), "user-1", "no-such-match", "A4")
	assert.ErrorIs(t, err, repository.ErrMatchNotFound)
}

func TestReserveInvalidLabels(t *testing.T) {
	svc, _, _ := newTestService(time.Now().UTC().Add(30 * 24 * time.Hour))

	for _, label := range []string{"", "4A", "A", "A-4", "F0", "A10", "AA1"} {
		_, err := svc.Reserve(context.Background(), "user-1", "match-1", label)
		assert.ErrorIs(t, err, ErrInvalidSeat, "label %q", label)
	}
}

func TestReserveSeatTaken(t *testing.T) {
	svc, _, _ := newTestService(time.Now().UTC().Add(30 * 24 * time.Hour))

	_, err := svc.Reserve(context.Background(), "user-1", "match-1", "A4")
	require.NoError(t, err)

	// a second user, and the first user retrying, both collide
	_, err = svc.Reserve(context.Background(), "user-2", "match-1", "A4")
	assert.ErrorIs(t, err, repository.ErrSeatTaken)
	_, err = svc.Reserve(context.Background(), "user-1", "match-1", "a4")
	assert.ErrorIs(t, err, repository.ErrSeatTaken)
}

func TestReserveConcurrentSingleWinner(t *testing.T) {
	svc, _, _ := newTestService(time.Now().UTC().Add(30 * 24 * time.Hour))

	const contenders = 64
	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(context.Background(), fmt.Sprintf("user-%d", i), "match-1", "B7")
		}(i)
	}
	wg.Wait()

	winners, losers := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, repository.ErrSeatTaken):
			losers++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, winners, "exactly one booking wins the seat")
	assert.Equal(t, contenders-1, losers)
}

func TestReservePublishFailureDoesNotFailBooking(t *testing.T) {
	svc, seats, pub := newTestService(time.Now().UTC().Add(30 * 24 * time.Hour))
	pub.err = errors.New("broker down")

	seat, err := svc.Reserve(context.Background(), "user-1", "match-1", "C3")
	require.NoError(t, err)
	assert.NotEmpty(t, seat.TicketID)

	// the reservation is committed even though the broadcast failed
	available, err := seats.IsAvailable(context.Background(), "match-1", "C3")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestCancelBeforeWindow(t *testing.T) {
	kickoff := time.Now().UTC().Add(30 * 24 * time.Hour)
	svc, seats, _ := newTestService(kickoff)

	seat, err := svc.Reserve(context.Background(), "user-1", "match-1", "A4")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), "user-1", seat.TicketID))
	available, err := seats.IsAvailable(context.Background(), "match-1", "A4")
	require.NoError(t, err)
	assert.True(t, available, "cancelled seat is bookable again")
}

func TestCancelInsideWindow(t *testing.T) {
	kickoff := time.Now().UTC().Add(2 * 24 * time.Hour) // within the 3-day window
	svc, _, _ := newTestService(kickoff)

	seat, err := svc.Reserve(context.Background(), "user-1", "match-1", "A4")
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), "user-1", seat.TicketID)
	assert.ErrorIs(t, err, repository.ErrCancellationClosed)

	// the ticket survives a refused cancellation
	_, err = svc.List(context.Background(), "user-1")
	require.NoError(t, err)
}

func TestCancelBoundaryIsExclusive(t *testing.T) {
	kickoff := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(kickoff)

	seat, err := svc.Reserve(context.Background(), "user-1", "match-1", "A4")
	require.NoError(t, err)

	// exactly at kickoff minus the window the cancellation still goes through
	svc.now = func() time.Time { return kickoff.Add(-3 * 24 * time.Hour) }
	assert.NoError(t, svc.Cancel(context.Background(), "user-1", seat.TicketID))

	seat, err = svc.Reserve(context.Background(), "user-1", "match-1", "A4")
	require.NoError(t, err)

	// one nanosecond later it is refused
	svc.now = func() time.Time { return kickoff.Add(-3 * 24 * time.Hour).Add(time.Nanosecond) }
	assert.ErrorIs(t, svc.Cancel(context.Background(), "user-1", seat.TicketID), repository.ErrCancellationClosed)
}

func TestCancelForeignTicketLooksMissing(t *testing.T) {
	svc, _, _ := newTestService(time.Now().UTC().Add(30 * 24 * time.Hour))

	seat, err := svc.Reserve(context.Background(), "user-1", "match-1", "A4")
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), "user-2", seat.TicketID)
	assert.ErrorIs(t, err, repository.ErrTicketNotFound,
		"another user's ticket is indistinguishable from a missing one")
}

func TestListReturnsOwnTickets(t *testing.T) {
	svc, _, _ := newTestService(time.Now().UTC().Add(30 * 24 * time.Hour))

	_, err := svc.Reserve(context.Background(), "user-1", "match-1", "A1")
	require.NoError(t, err)
	_, err = svc.Reserve(context.Background(), "user-1", "match-1", "A2")
	require.NoError(t, err)
	_, err = svc.Reserve(context.Background(), "user-2", "match-1", "A3")
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := svc.List(context.Background(), "user-3")
	require.NoError(t, err)
	assert.Empty(t, none)
}
