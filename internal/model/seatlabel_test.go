package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatLabel(t *testing.T) {
	cases := []struct {
		label string
		row   int
		seat  int
	}{
		{"A0", 0, 0},
		{"A1", 0, 1},
		{"Z10", 25, 10},
		{"AA1", 26, 1},
		{"AB12", 27, 12},
		{"B7", 1, 7},
	}
	for _, tc := range cases {
		row, seat, err := ParseSeatLabel(tc.label)
		require.NoError(t, err, "label %q", tc.label)
		assert.Equal(t, tc.row, row, "row of %q", tc.label)
		assert.Equal(t, tc.seat, seat, "seat of %q", tc.label)
	}
}

func TestParseSeatLabelCaseInsensitive(t *testing.T) {
	row1, seat1, err1 := ParseSeatLabel("a4")
	row2, seat2, err2 := ParseSeatLabel("A4")
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, row2, row1)
	assert.Equal(t, seat2, seat1)
}

func TestParseSeatLabelInvalid(t *testing.T) {
	for _, label := range []string{"", "1A", "A", "4", "A4B", "A-4", "ÅA4", "A 4"} {
		_, _, err := ParseSeatLabel(label)
		assert.ErrorIs(t, err, ErrInvalidSeatLabel, "label %q", label)
	}
}

func TestStadiumIsValidSeat(t *testing.T) {
	s := &Stadium{VIPRows: 5, VIPSeatsPerRow: 10}

	assert.True(t, s.IsValidSeat("E9"), "last row, last seat")
	assert.True(t, s.IsValidSeat("A0"), "first row, first seat")
	assert.False(t, s.IsValidSeat("F9"), "row out of range")
	assert.False(t, s.IsValidSeat("E10"), "seat index out of range")
	assert.False(t, s.IsValidSeat("1A"), "malformed label")
	assert.True(t, s.IsValidSeat("e9"), "lower-case input is normalized")
}

func TestStadiumIsValidSeatSingleRow(t *testing.T) {
	s := &Stadium{VIPRows: 1, VIPSeatsPerRow: 10}

	assert.True(t, s.IsValidSeat("A4"))
	assert.False(t, s.IsValidSeat("B0"), "only one VIP row")
}
