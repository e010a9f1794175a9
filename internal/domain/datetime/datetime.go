// Package datetime normalizes the timestamp strings found in requests and
// stored records into instants in the reference zone (Singapore, UTC+8).
package datetime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReferenceZone is the zone naive timestamps are read in and every parsed
// instant is converted to. Singapore has not observed DST since 1982, so a
// fixed zone avoids depending on the host tzdata.
var ReferenceZone = time.FixedZone("SGT", 8*60*60)

// Layout is the ISO-8601 form written to the store.
const Layout = "2006-01-02T15:04:05.999999-07:00"

var (
	offsetLayouts = []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04Z07:00",
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04-0700",
		"2006-01-02 15:04:05-0700",
		"2006-01-02T15:04:05-07",
		"2006-01-02T15:04-07",
		"2006-01-02 15:04:05-07",
		"2006-01-02 15:04-07",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02T15",
		"2006-01-02 15:04",
		"2006-01-02 15",
		"20060102T150405",
		"20060102",
	}
	fallbackLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// FormatError reports a timestamp that matched none of the accepted layouts.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid datetime format: %q", e.Value)
}

// IsInvalidFormat reports whether err is a *FormatError.
func IsInvalidFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// Parse converts text into an instant in ReferenceZone.
//
// A trailing "Z" is read as UTC. ISO-8601 with an explicit offset is converted
// to ReferenceZone; ISO-8601 without one is assumed to already be in it. The
// "YYYY-MM-DD HH:MM:SS" and "YYYY-MM-DD" forms are tried last.
func Parse(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(ReferenceZone), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, ReferenceZone); err == nil {
			return t, nil
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, ReferenceZone); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &FormatError{Value: text}
}

// Format renders t in ReferenceZone using Layout.
func Format(t time.Time) string {
	return t.In(ReferenceZone).Format(Layout)
}

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// Now returns the clock's current instant in ReferenceZone.
func (c Clock) Now() time.Time {
	if c == nil {
		return SystemClock().In(ReferenceZone)
	}
	return c().In(ReferenceZone)
}
