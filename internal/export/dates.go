package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02"}

// FormatDate renders an ISO-8601 date as DD/Mon/YYYY in local time. Empty or
// unparseable input gives "".
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return FormatTime(t.Local())
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return FormatTime(t)
		}
	}
	return ""
}

func FormatTime(t time.Time) string {
	return fmt.Sprintf("%02d/%s/%04d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// ParseDisplayDate reads a DD/Mon/YYYY string back into local midnight.
func ParseDisplayDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q: want DD/Mon/YYYY", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: bad day", s)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: bad year", s)
	}
	month := 0
	for i, name := range monthNames {
		if strings.EqualFold(name, parts[1]) {
			month = i + 1
			break
		}
	}
	if month == 0 {
		return time.Time{}, fmt.Errorf("date %q: bad month", s)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("date %q: no such day", s)
	}
	return t, nil
}
