package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Date is a possibly partial calendar date. Month and Day are zero when
// unknown; a zero Month implies a zero Day. The zero value means "no date".
type Date struct {
	Year  int
	Month uint8
	Day   uint8
}

// ParseDate parses "YYYY", "YYYY-MM", or "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	parts := strings.SplitN(s, "-", 3)
	var d Date
	year, err := strconv.Atoi(parts[0])
	if err != nil || year == 0 {
		return Date{}, fmt.Errorf("invalid date %q: bad year", s)
	}
	d.Year = year
	if len(parts) > 1 {
		month, err := strconv.Atoi(parts[1])
		if err != nil || month < 1 || month > 12 {
			return Date{}, fmt.Errorf("invalid date %q: bad month", s)
		}
		d.Month = uint8(month)
	}
	if len(parts) > 2 {
		day, err := strconv.Atoi(parts[2])
		if err != nil || day < 1 || day > 31 {
			return Date{}, fmt.Errorf("invalid date %q: bad day", s)
		}
		d.Day = uint8(day)
	}
	return d, nil
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool { return d == Date{} }

// Compare orders dates chronologically. An unknown month or day sorts before
// any known one in the same year or month, matching how the dataset orders
// "sometime in 1905" before "1905-04". Returns -1, 0, or +1.
func (d Date) Compare(other Date) int {
	if c := cmpInt(d.Year, other.Year); c != 0 {
		return c
	}
	if c := cmpInt(int(d.Month), int(other.Month)); c != 0 {
		return c
	}
	return cmpInt(int(d.Day), int(other.Day))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	switch {
	case d.Day != 0:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	case d.Month != 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d", d.Year)
	}
}

// MarshalJSON renders the date in its textual dataset form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses the textual form; an empty string is the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
