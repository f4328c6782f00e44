package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type SeatType string

const (
	SeatStandard SeatType = "STANDARD"
	SeatVIP      SeatType = "VIP"
	SeatCouple   SeatType = "COUPLE"
	SeatPremium  SeatType = "PREMIUM"
)

// SeatTypes lists every seat type in display order.
func SeatTypes() []SeatType {
	return []SeatType{SeatStandard, SeatVIP, SeatCouple, SeatPremium}
}

const StatusAvailable = "AVAILABLE"

// Seat is the persisted seat entity. RowLabel and ColumnNumber are the source
// of truth for position; SeatNumber is derived from them at serialization time.
type Seat struct {
	SeatNumber      string   `json:"seatNumber"`
	RowLabel        string   `json:"rowLabel"`
	ColumnNumber    int      `json:"columnNumber"`
	SeatType        SeatType `json:"seatType"`
	Status          string   `json:"status"`
	PriceMultiplier float64  `json:"priceMultiplier"`
	Exists          bool     `json:"exists"`
}

// Number returns the canonical seat number, e.g. "C7".
func (s Seat) Number() string {
	return s.RowLabel + strconv.Itoa(s.ColumnNumber)
}

// ParseSeatNumber splits a seat number such as "C7" into its row label and
// column number. Older backend responses carry only the seat number, so this
// runs once at the service boundary. Synthetic row labels ("R12") concatenated
// with a column are ambiguous; responses using them must carry the explicit
// rowLabel/columnNumber pair instead.
func ParseSeatNumber(number string) (string, int, error) {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return "", 0, fmt.Errorf("empty seat number")
	}
	split := len(trimmed)
	for split > 0 && unicode.IsDigit(rune(trimmed[split-1])) {
		split--
	}
	if split == 0 || split == len(trimmed) {
		return "", 0, fmt.Errorf("malformed seat number %q", number)
	}
	column, err := strconv.Atoi(trimmed[split:])
	if err != nil || column < 1 {
		return "", 0, fmt.Errorf("malformed seat number %q", number)
	}
	return trimmed[:split], column, nil
}
