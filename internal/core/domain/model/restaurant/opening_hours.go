package restaurant

import (
	"fmt"
	"time"

	"fooddelivery/internal/pkg/errs"
)

const day = 24 * time.Hour

// OpeningHours is a daily window expressed as offsets from local midnight.
//
// Rules:
//   - no window configured: always open
//   - from < to: open on [from, to)
//   - from > to: the window wraps midnight, open on [from, 24h) and [0, to)
//   - from == to: open around the clock
type OpeningHours struct {
	from  time.Duration
	to    time.Duration
	isSet bool
}

// AlwaysOpen returns a window without limits.
func AlwaysOpen() OpeningHours {
	return OpeningHours{}
}

// NewOpeningHours validates both offsets are within a day.
//
// Example:
//
//	nightShift, _ := restaurant.NewOpeningHours(22*time.Hour, 6*time.Hour)
func NewOpeningHours(from time.Duration, to time.Duration) (OpeningHours, error) {
	if from < 0 || from >= day {
		return OpeningHours{}, errs.NewValueIsOutOfRangeError("open from", from, time.Duration(0), day)
	}
	if to < 0 || to >= day {
		return OpeningHours{}, errs.NewValueIsOutOfRangeError("open to", to, time.Duration(0), day)
	}

	return OpeningHours{from: from, to: to, isSet: true}, nil
}

// IsSet reports whether a window was configured.
func (h OpeningHours) IsSet() bool {
	return h.isSet
}

func (h OpeningHours) From() time.Duration {
	return h.from
}

func (h OpeningHours) To() time.Duration {
	return h.to
}

// IsOpenAt checks the wall-clock time of t (in t's own location) against the window.
func (h OpeningHours) IsOpenAt(t time.Time) bool {
	if !h.isSet || h.from == h.to {
		return true
	}

	now := sinceMidnight(t)
	if h.from < h.to {
		return now >= h.from && now < h.to
	}
	return now >= h.from || now < h.to
}

func (h OpeningHours) String() string {
	if !h.isSet {
		return "always open"
	}
	return fmt.Sprintf("%s-%s", clock(h.from), clock(h.to))
}

func sinceMidnight(t time.Time) time.Duration {
	hour, minute, sec := t.Clock()
	return time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(t.Nanosecond())
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
