package api

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const (
	// compactDate is the layout of 8 digit dates such as 20240101.
	compactDate = "20060102"
	// minMillisDigits is the shortest numeric string read as epoch millis.
	minMillisDigits = 10
)

// Time is a backend timestamp. It decodes ISO dates and date-times, epoch milliseconds
// (as numbers or numeric strings) and Mongo-style {"$date": ...} wrappers.
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	parsed, err := ParseTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// ParseTime converts a decoded backend value into a time. Empty values give the zero time.
func ParseTime(v any) (time.Time, error) {
	switch value := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return value, nil
	case map[string]any:
		inner, ok := value["$date"]
		if !ok {
			return time.Time{}, fmt.Errorf("unsupported date object %v", value)
		}
		return ParseTime(inner)
	case json.Number:
		return millis(value.String())
	case float64:
		return time.UnixMilli(int64(value)).UTC(), nil
	case int64:
		return time.UnixMilli(value).UTC(), nil
	case int:
		return time.UnixMilli(int64(value)).UTC(), nil
	case string:
		s := strings.TrimSpace(value)
		if s == "" {
			return time.Time{}, nil
		}
		switch {
		case !isDigits(s):
			return cast.ToTimeE(s)
		case len(s) >= minMillisDigits:
			return millis(s)
		case len(s) == len(compactDate):
			return time.Parse(compactDate, s)
		default:
			return time.Time{}, fmt.Errorf("ambiguous numeric date %q", s)
		}
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v (%T)", v, v)
	}
}

func millis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse epoch millis %q: %w", s, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
