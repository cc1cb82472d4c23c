package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Deadline is a task deadline as stored and transmitted: an ISO-8601 string
// parsed to an instant. A value that fails to parse keeps its raw text and is
// marked invalid instead of failing the read that produced it.
type Deadline struct {
	Time  time.Time
	Raw   string
	Valid bool
}

// ParseDeadline parses an ISO-8601 (RFC 3339) timestamp. Fractional seconds
// are accepted, so JavaScript's toISOString output parses as well.
func ParseDeadline(raw string) Deadline {
	trimmed := strings.TrimSpace(raw)
	t, err := time.Parse(time.RFC3339Nano, trimmed)
	if err != nil {
		return Deadline{Raw: raw}
	}
	return Deadline{Time: t, Raw: raw, Valid: true}
}

// DeadlineAt wraps an already-known instant.
func DeadlineAt(t time.Time) Deadline {
	return Deadline{Time: t, Raw: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

// Before reports whether the deadline is valid and strictly before t.
func (d Deadline) Before(t time.Time) bool {
	return d.Valid && d.Time.Before(t)
}

func (d Deadline) String() string {
	if d.Valid {
		return d.Time.UTC().Format(time.RFC3339Nano)
	}
	return d.Raw
}

// Scan implements sql.Scanner.
func (d *Deadline) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Deadline{}
	case string:
		*d = ParseDeadline(v)
	case []byte:
		*d = ParseDeadline(string(v))
	case time.Time:
		*d = DeadlineAt(v)
	default:
		*d = Deadline{Raw: fmt.Sprint(v)}
	}
	return nil
}

// Value implements driver.Valuer.
func (d Deadline) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d Deadline) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Deadline) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("deadline: %w", err)
	}
	*d = ParseDeadline(raw)
	return nil
}
