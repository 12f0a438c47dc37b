// Package zone resolves birth timezone identifiers and computes local calendar months
//
// Accepted identifiers:
// - IANA region ids such as America/Toronto, resolved against the embedded tz database
// - Z, UTC, GMT, UT
// - fixed offsets +h, +hh, +hh:mm, +hhmm, +hh:mm:ss, +hhmmss (or with -), within +-18:00
// - offsets prefixed by UTC, GMT or UT, e.g. UTC+05:30, GMT-3
package zone

import (
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // results must not depend on the host zoneinfo

	perr "peoplestats/internal/platform/errors"
)

const maxOffsetSeconds = 18 * 60 * 60

// Resolver caches resolved locations for the lifetime of one run
// It is not safe for concurrent use
type Resolver struct {
	cache map[string]*time.Location
}

// NewResolver returns an empty resolver
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]*time.Location)}
}

// Resolve returns the location for id, consulting the cache first
func (r *Resolver) Resolve(id string) (*time.Location, error) {
	if loc, ok := r.cache[id]; ok {
		return loc, nil
	}
	loc, err := Parse(id)
	if err != nil {
		return nil, err
	}
	r.cache[id] = loc
	return loc, nil
}

// Len reports how many distinct identifiers have been resolved
func (r *Resolver) Len() int { return len(r.cache) }

// loadLocation is a seam for tests
var loadLocation = time.LoadLocation

// Parse resolves id without caching
func Parse(id string) (*time.Location, error) {
	s := strings.TrimSpace(id)
	if s == "" {
		return nil, perr.WithField(perr.Timezonef("empty timezone identifier"), "birth_timezone")
	}
	switch s {
	case "Z", "UTC", "GMT", "UT":
		return time.UTC, nil
	case "Local":
		// host dependent, never a birth zone
		return nil, unresolvable(id, nil)
	}

	if s[0] == '+' || s[0] == '-' {
		secs, err := parseOffset(s)
		if err != nil {
			return nil, unresolvable(id, err)
		}
		return fixed(s, secs), nil
	}
	for _, prefix := range []string{"UTC", "GMT", "UT"} {
		rest, ok := strings.CutPrefix(s, prefix)
		if !ok || rest == "" || (rest[0] != '+' && rest[0] != '-') {
			continue
		}
		secs, err := parseOffset(rest)
		if err != nil {
			return nil, unresolvable(id, err)
		}
		return fixed(s, secs), nil
	}

	loc, err := loadLocation(s)
	if err != nil {
		return nil, unresolvable(id, err)
	}
	return loc, nil
}

func unresolvable(id string, cause error) error {
	var err error
	if cause != nil {
		err = perr.Wrapf(cause, perr.ErrorCodeTimezone, "unknown timezone %q", id)
	} else {
		err = perr.Timezonef("unknown timezone %q", id)
	}
	return perr.WithField(err, "birth_timezone")
}

func fixed(name string, secs int) *time.Location {
	if secs == 0 {
		return time.UTC
	}
	return time.FixedZone(name, secs)
}

// parseOffset parses a signed offset in one of the accepted layouts into seconds east of UTC
func parseOffset(s string) (int, error) {
	if len(s) < 2 {
		return 0, perr.Timezonef("offset %q too short", s)
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, perr.Timezonef("offset %q must start with + or -", s)
	}
	body := s[1:]

	var hh, mm, ss string
	switch len(body) {
	case 1, 2: // h, hh
		hh = body
	case 4: // hhmm
		hh, mm = body[:2], body[2:]
	case 5: // hh:mm
		if body[2] != ':' {
			return 0, perr.Timezonef("offset %q is malformed", s)
		}
		hh, mm = body[:2], body[3:]
	case 6: // hhmmss
		hh, mm, ss = body[:2], body[2:4], body[4:]
	case 8: // hh:mm:ss
		if body[2] != ':' || body[5] != ':' {
			return 0, perr.Timezonef("offset %q is malformed", s)
		}
		hh, mm, ss = body[:2], body[3:5], body[6:]
	default:
		return 0, perr.Timezonef("offset %q is malformed", s)
	}

	h, err := digits(hh)
	if err != nil {
		return 0, err
	}
	m, err := digits(mm)
	if err != nil {
		return 0, err
	}
	sec, err := digits(ss)
	if err != nil {
		return 0, err
	}
	if m > 59 || sec > 59 {
		return 0, perr.Timezonef("offset %q has out of range minutes or seconds", s)
	}
	total := h*3600 + m*60 + sec
	if total > maxOffsetSeconds {
		return 0, perr.Timezonef("offset %q exceeds 18 hours", s)
	}
	return sign * total, nil
}

// digits parses an all-digit string; empty means zero
func digits(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, perr.Timezonef("offset component %q is not numeric", s)
		}
	}
	return strconv.Atoi(s)
}

// LocalMonth converts epoch milliseconds to the calendar month observed in loc at that instant
func LocalMonth(epochMillis int64, loc *time.Location) time.Month {
	return time.UnixMilli(epochMillis).In(loc).Month()
}

// MonthOf resolves id and returns the local month of the instant
func (r *Resolver) MonthOf(epochMillis int64, id string) (time.Month, error) {
	loc, err := r.Resolve(id)
	if err != nil {
		return 0, err
	}
	return LocalMonth(epochMillis, loc), nil
}
