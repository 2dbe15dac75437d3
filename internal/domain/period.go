package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPeriod is returned when a deadline string is not "YYYY Qn".
var ErrInvalidPeriod = errors.New("invalid period")

// Period is a (year, quarter) due period. The zero value is unscheduled.
type Period struct {
	Year      int
	Quarter   int
	Scheduled bool
}

// ParsePeriod parses a deadline such as "2018 Q2". The quarter token is
// case-insensitive and the "Q" prefix is optional. Blank input yields an
// unscheduled period.
func ParsePeriod(s string) (Period, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Period{}, nil
	}
	if len(fields) != 2 {
		return Period{}, fmt.Errorf("%w: %q (expected \"YYYY Qn\")", ErrInvalidPeriod, s)
	}

	year, err := strconv.Atoi(fields[0])
	if err != nil {
		return Period{}, fmt.Errorf("%w: year %q in %q", ErrInvalidPeriod, fields[0], s)
	}

	q := strings.TrimPrefix(strings.ToLower(fields[1]), "q")
	quarter, err := strconv.Atoi(q)
	if err != nil {
		return Period{}, fmt.Errorf("%w: quarter %q in %q", ErrInvalidPeriod, fields[1], s)
	}
	if quarter < 1 || quarter > 4 {
		return Period{}, fmt.Errorf("%w: quarter %d out of range 1-4 in %q", ErrInvalidPeriod, quarter, s)
	}

	return Period{Year: year, Quarter: quarter, Scheduled: true}, nil
}

// PeriodFromOffset is the inverse of Offset for scheduled periods.
func PeriodFromOffset(offset, startYear int) Period {
	year := startYear + offset/4
	quarter := offset%4 + 1
	if offset < 0 && offset%4 != 0 {
		year--
		quarter += 4
	}
	return Period{Year: year, Quarter: quarter, Scheduled: true}
}

// Offset returns the number of quarters between the first quarter of
// startYear and p. Unscheduled periods map to the given placeholder offset.
func (p Period) Offset(startYear, unscheduled int) int {
	if !p.Scheduled {
		return unscheduled
	}
	return (p.Year-startYear)*4 + (p.Quarter - 1)
}

func (p Period) String() string {
	if !p.Scheduled {
		return "unscheduled"
	}
	return fmt.Sprintf("%d Q%d", p.Year, p.Quarter)
}
