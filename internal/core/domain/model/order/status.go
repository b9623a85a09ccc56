package order

import (
	"fmt"
	"time"

	"fooddelivery/internal/pkg/errs"
)

// Status is one step of the order lifecycle. Values are the single-letter codes
// that are persisted and sent to realtime clients.
//
// State transitions:
//
//	Open ──> Preparing ──> Delivering ──┬──> Cancelled
//	                                    └──> Delivered
//
// Transitions only move forward, every code is recorded at most once per order,
// and Cancelled and Delivered exclude each other.
type Status string

const (
	// Unknown is the zero value and is never valid.
	Unknown Status = ""

	// Open is a cart: line items may still change.
	Open Status = "O"

	// Preparing is set on submission; the order waits for a courier.
	Preparing Status = "P"

	// Delivering is set when a courier claims the order.
	Delivering Status = "D"

	// Cancelled is a terminal status set by the courier or an administrator.
	Cancelled Status = "C"

	// Delivered is a terminal status set by the courier or an administrator.
	Delivered Status = "F"
)

func getStatusNames() map[Status]string {
	return map[Status]string{
		Open:       "OPEN",
		Preparing:  "PREPARING",
		Delivering: "DELIVERING",
		Cancelled:  "CANCELLED",
		Delivered:  "DELIVERED",
	}
}

// getStatusRanks orders statuses along the lifecycle; it breaks timestamp ties.
func getStatusRanks() map[Status]int {
	return map[Status]int{
		Open:       1,
		Preparing:  2,
		Delivering: 3,
		Cancelled:  4,
		Delivered:  4,
	}
}

// ParseStatus accepts a status code ("P") or name ("PREPARING").
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if s.Validate() == nil {
		return s, nil
	}
	for status, name := range getStatusNames() {
		if name == value {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", value))
}

// Validate checks the status is one of the five lifecycle codes.
func (s Status) Validate() error {
	if _, ok := getStatusNames()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// Code returns the persisted single-letter code.
func (s Status) Code() string {
	return string(s)
}

// String returns the upper-case name, or "UNKNOWN".
func (s Status) String() string {
	if name, ok := getStatusNames()[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsFinal reports whether no further transition exists.
func (s Status) IsFinal() bool {
	return s == Cancelled || s == Delivered
}

func (s Status) rank() int {
	return getStatusRanks()[s]
}

// StatusEntry is one row of an order's append-only status ledger.
type StatusEntry struct {
	status    Status
	timestamp time.Time
}

// NewStatusEntry validates the code and requires a timestamp.
func NewStatusEntry(status Status, timestamp time.Time) (StatusEntry, error) {
	if err := status.Validate(); err != nil {
		return StatusEntry{}, err
	}
	if timestamp.IsZero() {
		return StatusEntry{}, errs.NewValueIsRequiredError("status timestamp")
	}
	return StatusEntry{status: status, timestamp: timestamp.UTC()}, nil
}

func (e StatusEntry) Status() Status {
	return e.status
}

func (e StatusEntry) Timestamp() time.Time {
	return e.timestamp
}

// before orders entries by timestamp, then by lifecycle rank.
func (e StatusEntry) before(other StatusEntry) bool {
	if e.timestamp.Equal(other.timestamp) {
		return e.status.rank() < other.status.rank()
	}
	return e.timestamp.Before(other.timestamp)
}
