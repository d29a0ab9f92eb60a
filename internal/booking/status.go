package booking

import "fmt"

type Status string

const (
	StatusConfirmed        Status = "confirmed"
	StatusCancelledByGuest Status = "cancelled-by-guest"
	StatusCancelledByHost  Status = "cancelled-by-host"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusConfirmed, StatusCancelledByGuest, StatusCancelledByHost:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusConfirmed:        {StatusCancelledByGuest: true, StatusCancelledByHost: true},
	StatusCancelledByGuest: {},
	StatusCancelledByHost:  {},
}

func CanTransition(from, to Status) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

func (s Status) IsCancelled() bool {
	return s == StatusCancelledByGuest || s == StatusCancelledByHost
}

// Canceller is the party that cancelled a booking.
type Canceller string

const (
	ByGuest Canceller = "guest"
	ByHost  Canceller = "host"
)

func (c Canceller) status() (Status, error) {
	switch c {
	case ByGuest:
		return StatusCancelledByGuest, nil
	case ByHost:
		return StatusCancelledByHost, nil
	default:
		return "", fmt.Errorf("unknown canceller: %s", c)
	}
}
