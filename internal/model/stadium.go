package model

import "time"

// Stadium describes a venue where matches are hosted.  Only the VIP
// grid (VIPRows x VIPSeatsPerRow) is addressable through seat labels;
// the remaining capacity is general admission and never bookable per
// seat.
//
// Fields:
//  ID             – UUID primary key.
//  Name           – unique stadium name.
//  Capacity       – total capacity, at least StadiumMinCapacity.
//  VIPSeatsPerRow – seats per VIP row, within [VIPSeatsPerRowMin, VIPSeatsPerRowMax].
//  VIPRows        – number of VIP rows, within [VIPRowsMin, VIPRowsMax].
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Stadium struct {
	ID             string    // stadiums.id
	Name           string    // stadiums.name
	Capacity       uint32    // stadiums.capacity
	VIPSeatsPerRow uint32    // stadiums.vip_seats_per_row
	VIPRows        uint32    // stadiums.vip_rows
	CreatedAt      time.Time // stadiums.created_at
	UpdatedAt      time.Time // stadiums.updated_at
}

// IsValidSeat reports whether a seat label addresses a seat inside
// this stadium's VIP grid.  Labels that fail to decode are invalid.
func (s *Stadium) IsValidSeat(label string) bool {
	row, col, err := ParseSeatLabel(label)
	if err != nil {
		return false
	}
	return uint32(row) < s.VIPRows && uint32(col) < s.VIPSeatsPerRow
}
