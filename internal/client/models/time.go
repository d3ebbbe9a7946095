package models

import (
	"fmt"
	"time"
)

// SQLite has no native timestamp type; timestamps are stored as RFC 3339
// TEXT in UTC so lexicographic order matches chronological order.

func TimeToDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func TimeFromDB(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func NullTimeToDB(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := TimeToDB(*t)
	return &s
}

func NullTimeFromDB(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := TimeFromDB(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
