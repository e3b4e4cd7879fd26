package model

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidSeatLabel is returned when a seat label does not match the
// expected row-letters-then-seat-digits shape.
var ErrInvalidSeatLabel = errors.New("invalid seat label")

// seatLabelPattern anchors the label at both ends: one or more row
// letters followed by one or more digits, e.g. "A4" or "AB12".
var seatLabelPattern = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// NormalizeSeatLabel upper-cases and trims a raw seat label.  All
// comparisons and storage use the normalized form.
func NormalizeSeatLabel(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ParseSeatLabel decodes a seat label into a zero-based (row, seat)
// pair.  Row letters are read as a bijective base-26 numeral
// (A=1 ... Z=26, AA=27) minus one; the digit suffix is taken directly
// as the zero-based seat index within the row, so "A0" is the first
// seat of the first row.  Input is normalized before decoding.
// Malformed labels return ErrInvalidSeatLabel.
func ParseSeatLabel(label string) (row int, seat int, err error) {
	m := seatLabelPattern.FindStringSubmatch(NormalizeSeatLabel(label))
	if m == nil {
		return 0, 0, ErrInvalidSeatLabel
	}
	for i := 0; i < len(m[1]); i++ {
		row = row*26 + int(m[1][i]-'A'+1)
	}
	row--
	seat, err = strconv.Atoi(m[2])
	if err != nil {
		// suffix longer than an int; out of any realistic grid anyway
		return 0, 0, ErrInvalidSeatLabel
	}
	return row, seat, nil
}
