package store

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusPlaced    Status = "PLACED"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
	StatusAnulated  Status = "ANULATED" // administratif, belum dipakai happy path
)

var validNext = map[Status]map[Status]bool{
	StatusCreated:   {StatusPlaced: true, StatusCanceled: true, StatusAnulated: true},
	StatusPlaced:    {StatusCompleted: true, StatusCanceled: true, StatusAnulated: true},
	StatusCompleted: {},
	StatusCanceled:  {},
	StatusAnulated:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// ParseStatus: lookup case-insensitive dari string bebas (format persistence).
// Nilai tidak dikenal = error, bukan default diam-diam.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusCreated, StatusPlaced, StatusCompleted, StatusCanceled, StatusAnulated:
		return st, nil
	default:
		return "", fmt.Errorf("unknown order status: %q", s)
	}
}
