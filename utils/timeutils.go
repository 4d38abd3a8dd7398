package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockToMinutes converts a GTFS clock string ("HH:MM:SS" or "HH:MM") to
// minutes from midnight of the service day. Hours may exceed 24 for trips
// that run past midnight (e.g. "25:30:00" -> 1530). Seconds are truncated.
func ClockToMinutes(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid GTFS clock %q", clock)
	}
	hh, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid hour in GTFS clock %q", clock)
	}
	mm, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid minute in GTFS clock %q", clock)
	}
	if hh < 0 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("out-of-range GTFS clock %q", clock)
	}
	return hh*60 + mm, nil
}

// ParseTimeWindow parses an analysis window of the form "HHMM_HHMM"
// (e.g. "0700_0800") into start and end minutes from midnight.
func ParseTimeWindow(window string) (int, int, error) {
	parts := strings.Split(window, "_")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 4 {
		return 0, 0, fmt.Errorf("invalid time window %q, want HHMM_HHMM", window)
	}
	start, err := hhmmToMinutes(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time window %q: %w", window, err)
	}
	end, err := hhmmToMinutes(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time window %q: %w", window, err)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("time window %q ends before it starts", window)
	}
	return start, end, nil
}

func hhmmToMinutes(s string) (int, error) {
	hh, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, err
	}
	mm, err := strconv.Atoi(s[2:])
	if err != nil {
		return 0, err
	}
	if mm > 59 {
		return 0, fmt.Errorf("minute out of range in %q", s)
	}
	return hh*60 + mm, nil
}

// MinutesToClock renders minutes from midnight back to "HH:MM". Values past
// 1440 keep accumulating hours, matching GTFS next-day clock strings.
func MinutesToClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
