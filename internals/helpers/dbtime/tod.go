package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod is a wall-clock time of day with no date and no zone, stored in a SQL
// TIME column.
type Tod struct{ time.Time }

// NewTod builds a Tod from components.
func NewTod(hour, min, sec int) Tod {
	return Tod{Time: time.Date(0, 1, 1, hour, min, sec, 0, time.UTC)}
}

// ParseTod accepts "HH:MM" or "HH:MM:SS".
func ParseTod(s string) (Tod, error) {
	var t Tod
	return t, t.parse(s)
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 {
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("invalid time of day %q", s)
	}
	t.Time = time.Date(0, 1, 1, tt.Hour(), tt.Minute(), tt.Second(), 0, time.UTC)
	return nil
}

// On places the time of day on the calendar date of d in loc.
func (t Tod) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

func (t Tod) String() string { return t.Format("15:04:05") }

// Scan accepts time.Time (pgx) or "HH:MM[:SS]" text (mysql TIME).
func (t *Tod) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		t.Time = time.Date(0, 1, 1, x.Hour(), x.Minute(), x.Second(), 0, time.UTC)
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("tod: unsupported Scan type %T", v)
	}
}

func (t Tod) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format("15:04"))
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
