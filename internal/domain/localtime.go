package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Layouts accepted for naive local date/time input and produced on output.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	LocalISOLayout = "2006-01-02T15:04:05"
)

var localISOLayouts = []string{LocalISOLayout, "2006-01-02T15:04"}

// LoadZone resolves an IANA timezone name. Empty names are rejected rather
// than defaulting to UTC, which is what time.LoadLocation would do.
func LoadZone(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty zone name", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// ResolveLocal converts a naive local date/time pair and an IANA timezone
// name into an absolute UTC instant.
//
// DST policy: a local time that does not exist (spring-forward gap) resolves
// to the first valid instant after the gap; an ambiguous local time
// (fall-back overlap) resolves to the earlier of the two candidate instants.
func ResolveLocal(dateStr, timeStr, tz string) (time.Time, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidDateTime, dateStr)
	}
	var t time.Time
	if t, err = time.Parse("15:04:05", timeStr); err != nil {
		if t, err = time.Parse(TimeLayout, timeStr); err != nil {
			return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidDateTime, timeStr)
		}
	}
	return resolveWall(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), loc), nil
}

// ResolveLocalISO is ResolveLocal for a combined "2006-01-02T15:04[:05]"
// string, the shape clients submit.
func ResolveLocalISO(iso, tz string) (time.Time, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range localISOLayouts {
		if t, perr := time.Parse(layout, iso); perr == nil {
			return resolveWall(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, iso)
}

// ToLocal converts a UTC instant into a naive (date, time) pair in the given
// timezone.
func ToLocal(utc time.Time, tz string) (dateStr, timeStr string, err error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return "", "", err
	}
	lt := utc.In(loc)
	return lt.Format(DateLayout), lt.Format(TimeLayout), nil
}

// FormatLocalISO renders a UTC instant as a naive local ISO string in the
// given timezone.
func FormatLocalISO(utc time.Time, tz string) (string, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return "", err
	}
	return utc.In(loc).Format(LocalISOLayout), nil
}

// resolveWall maps a naive wall-clock reading onto a UTC instant, applying
// the gap and ambiguity policy documented on ResolveLocal.
func resolveWall(year int, month time.Month, day, hour, min, sec int, loc *time.Location) time.Time {
	// The wall reading reinterpreted as UTC; candidate instants differ from
	// it by one of the zone's UTC offsets in effect around that time.
	wall := time.Date(year, month, day, hour, min, sec, 0, time.UTC)

	offsets := map[int]struct{}{}
	for _, delta := range []time.Duration{-30 * time.Hour, 0, 30 * time.Hour} {
		_, off := wall.Add(delta).In(loc).Zone()
		offsets[off] = struct{}{}
	}

	var candidates []time.Time
	for off := range offsets {
		cand := wall.Add(-time.Duration(off) * time.Second)
		lt := cand.In(loc)
		if lt.Year() == year && lt.Month() == month && lt.Day() == day &&
			lt.Hour() == hour && lt.Minute() == min && lt.Second() == sec {
			candidates = append(candidates, cand)
		}
	}

	if len(candidates) == 0 {
		return gapEnd(wall, offsets, loc)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })
	return candidates[0].UTC()
}

// gapEnd locates the transition instant for a wall time that was skipped by
// a DST gap: the first valid instant after the gap. The two candidate
// instants derived from the old and new offsets bracket the transition, so a
// bisection on the offset change finds it exactly.
func gapEnd(wall time.Time, offsets map[int]struct{}, loc *time.Location) time.Time {
	offs := make([]int, 0, len(offsets))
	for off := range offsets {
		offs = append(offs, off)
	}
	sort.Ints(offs)

	lo := wall.Add(-time.Duration(offs[len(offs)-1]) * time.Second)
	hi := wall.Add(-time.Duration(offs[0]) * time.Second)
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	_, target := hi.In(loc).Zone()
	for hi.Sub(lo) > time.Nanosecond {
		mid := lo.Add(hi.Sub(lo) / 2)
		if _, off := mid.In(loc).Zone(); off == target {
			hi = mid
		} else {
			lo = mid.Add(time.Nanosecond)
		}
	}
	if _, off := lo.In(loc).Zone(); off == target {
		return lo.UTC()
	}
	return hi.UTC()
}
