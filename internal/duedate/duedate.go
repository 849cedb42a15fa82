// Package duedate converts between a human-entered local due date/time in a
// named IANA zone and the single absolute UTC instant that gets persisted.
package duedate

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the wire format for local calendar dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for local wall-clock times (24h, zero-padded).
	TimeLayout = "15:04"

	wallClockLayout = DateLayout + " " + TimeLayout
)

// ToAbsolute interprets localDate+localTime as wall-clock time in the given
// zone and returns the equivalent UTC instant. When any of the three inputs
// is empty it returns (nil, nil): that is the documented "no due date"
// encoding, not an error.
//
// Wall-clock times that are ambiguous or nonexistent because of a DST
// transition resolve the way the Go time package resolves them; the result is
// always a well-defined instant.
func ToAbsolute(localDate, localTime, zoneName string) (*time.Time, error) {
	if localDate == "" || localTime == "" || zoneName == "" {
		return nil, nil
	}

	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", zoneName, err)
	}

	local, err := time.ParseInLocation(wallClockLayout, localDate+" "+localTime, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid due date/time %q %q: %w", localDate, localTime, err)
	}

	utc := local.UTC()
	return &utc, nil
}

// FromAbsolute reprojects a stored UTC instant into the zone's local calendar
// date and wall-clock time.
func FromAbsolute(instant time.Time, zoneName string) (localDate, localTime string, err error) {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return "", "", fmt.Errorf("unknown time zone %q: %w", zoneName, err)
	}

	local := instant.In(loc)
	return local.Format(DateLayout), local.Format(TimeLayout), nil
}
