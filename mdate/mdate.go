// Package mdate parses and compares the date vocabulary MDSL uses
// throughout identity, lifecycle, override, link, and event positions:
// `"YYYY-MM-DD"` strings and the bare CURRENT sentinel (spec.md §3 "Dates").
package mdate

import (
	"fmt"
	"time"
)

// Date is a resolved calendar date, or the open-ended CURRENT sentinel.
type Date struct {
	Current bool
	Year    int
	Month   int
	Day     int
}

// Parse parses "YYYY-MM-DD" into a Date. The caller is responsible for
// recognizing the bare CURRENT token before calling Parse.
func Parse(text string) (Date, error) {
	t, err := time.Parse("2006-01-02", text)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", text, err)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// Current returns the open-ended sentinel date, which always compares as
// occurring after every concrete date (spec.md §4.5 "Lifecycle flattening":
// "represent open intervals with a sentinel (TO = CURRENT)").
func Current() Date { return Date{Current: true} }

// Compare returns -1, 0, or 1 as a is before, equal to, or after b. CURRENT
// sorts after every concrete date and equals only another CURRENT.
func Compare(a, b Date) int {
	if a.Current && b.Current {
		return 0
	}
	if a.Current {
		return 1
	}
	if b.Current {
		return -1
	}
	switch {
	case a.Year != b.Year:
		return sign(a.Year - b.Year)
	case a.Month != b.Month:
		return sign(a.Month - b.Month)
	default:
		return sign(a.Day - b.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Before reports whether a sorts strictly before b.
func Before(a, b Date) bool { return Compare(a, b) < 0 }

// After reports whether a sorts strictly after b.
func After(a, b Date) bool { return Compare(a, b) > 0 }

// String renders d the way emission backends expect: "YYYY-MM-DD" or
// "CURRENT".
func (d Date) String() string {
	if d.Current {
		return "CURRENT"
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
