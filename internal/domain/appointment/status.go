package appointment

import (
	"strconv"
	"strings"
)

// ===============================
// Appointment Status
// ===============================

type Status int

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusCompleted
	StatusCancelled
)

// transitions is the single source of truth for legal status changes.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// forward drives the one-click advance action only.
var forward = map[Status]Status{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusCompleted,
}

type statusDisplay struct {
	name  string
	color string
}

var displays = map[Status]statusDisplay{
	StatusPending:   {name: "Pending", color: "warning"},
	StatusConfirmed: {name: "Confirmed", color: "info"},
	StatusCompleted: {name: "Completed", color: "success"},
	StatusCancelled: {name: "Cancelled", color: "error"},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) String() string {
	if d, ok := displays[s]; ok {
		return d.name
	}
	return "Unknown"
}

// Color is the display hint for the status badge.
func (s Status) Color() string {
	if d, ok := displays[s]; ok {
		return d.color
	}
	return "default"
}

func (s Status) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// ParseStatus accepts either the numeric code or the case-insensitive name.
func ParseStatus(v string) (Status, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		s := Status(n)
		if !s.Valid() {
			return 0, ErrInvalidStatus
		}
		return s, nil
	}
	for s, d := range displays {
		if strings.EqualFold(d.name, v) {
			return s, nil
		}
	}
	return 0, ErrInvalidStatus
}

// ===============================
// Transitions
// ===============================

func AllowedTransitions(from Status) []Status {
	out := make([]Status, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

// CanTransition reports ErrInvalidTransition for any pair outside the table.
func CanTransition(from, to Status) error {
	if !from.Valid() || !to.Valid() {
		return ErrInvalidStatus
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return ErrInvalidTransition
}

// NextStatus returns the forward transition; ok is false for terminal states.
func NextStatus(current Status) (Status, bool) {
	next, ok := forward[current]
	return next, ok
}

func InitialStatus() Status {
	return StatusPending
}
