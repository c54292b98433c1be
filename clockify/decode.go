package clockify

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the layout the API uses for timeInterval values.
const TimestampLayout = "2006-01-02T15:04:05Z"

const durationPrefix = "PT"

var durationUnits = []struct {
	symbol byte
	scale  time.Duration
}{
	{'H', time.Hour},
	{'M', time.Minute},
	{'S', time.Second},
}

// ParseDuration parses the API's duration encoding, e.g. "PT1H30M15S".
// Each of the H, M and S components is optional but they must appear in that
// order, at most once, as non-negative integers. A missing "PT" prefix or any
// other text is a *DecodeError.
func ParseDuration(s string) (time.Duration, error) {
	rest, ok := strings.CutPrefix(s, durationPrefix)
	if !ok {
		return 0, &DecodeError{Type: "duration", Value: s, Err: errors.New("missing PT prefix")}
	}

	var total time.Duration
	next := 0
	for rest != "" {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 || i == len(rest) {
			return 0, &DecodeError{Type: "duration", Value: s, Err: errors.New("expected <number><unit>")}
		}

		n, err := strconv.ParseInt(rest[:i], 10, 64)
		if err != nil {
			return 0, &DecodeError{Type: "duration", Value: s, Err: err}
		}

		symbol := rest[i]
		matched := false
		for next < len(durationUnits) {
			unit := durationUnits[next]
			next++
			if unit.symbol != symbol {
				continue
			}
			if n > int64(math.MaxInt64/unit.scale) || time.Duration(n)*unit.scale > math.MaxInt64-total {
				return 0, &DecodeError{Type: "duration", Value: s, Err: errors.New("value out of range")}
			}
			total += time.Duration(n) * unit.scale
			matched = true
			break
		}
		if !matched {
			return 0, &DecodeError{Type: "duration", Value: s, Err: fmt.Errorf("unexpected unit %q", symbol)}
		}

		rest = rest[i+1:]
	}

	return total, nil
}

// FormatDuration renders d in the API's duration encoding, truncated to whole
// seconds. Zero and negative durations render as "PT0S".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "PT0S"
	}
	d = d.Truncate(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second

	var b strings.Builder
	b.WriteString(durationPrefix)
	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if sec > 0 {
		fmt.Fprintf(&b, "%dS", sec)
	}
	return b.String()
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, &DecodeError{Type: "timestamp", Value: s, Err: err}
	}
	return t, nil
}

// wireDuration is a duration field as it travels over the wire.
type wireDuration time.Duration

func (d *wireDuration) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &DecodeError{Type: "duration", Value: string(data), Err: err}
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = wireDuration(parsed)
	return nil
}

func (d wireDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatDuration(time.Duration(d)))
}

// wireBool accepts both JSON booleans and the strings "true"/anything else,
// since some endpoints send flags as strings.
type wireBool bool

func (b *wireBool) UnmarshalJSON(data []byte) error {
	s := string(data)
	switch {
	case s == "null":
		return nil
	case s == "true" || s == "false":
		*b = s == "true"
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return &DecodeError{Type: "boolean", Value: s, Err: err}
		}
		*b = str == "true"
		return nil
	default:
		return &DecodeError{Type: "boolean", Value: s}
	}
}
