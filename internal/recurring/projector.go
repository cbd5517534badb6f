// Package recurring projects the occurrence dates of a fixed-frequency
// schedule. Everything here is pure: the only notion of "now" is the
// reference date a caller passes in.
package recurring

import (
	"errors"
	"fmt"
	"time"

	"personal-ledger-go/internal/models"
)

var (
	ErrInvalidRange     = errors.New("start date is after end date")
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// DefaultEndDate stands in for "no end" where a concrete bound is needed.
var DefaultEndDate = time.Date(2100, time.December, 31, 0, 0, 0, 0, time.UTC)

// Projector computes occurrences of start + k*frequency, k >= 0, bounded by
// an optional end date. Occurrence k is always derived from start, so month
// end clamping on one occurrence never shifts the following ones.
type Projector struct {
	start time.Time
	end   *time.Time
	freq  models.Frequency
}

// New builds a projector over civil dates. Times of day are dropped.
func New(start time.Time, end *time.Time, freq models.Frequency) (Projector, error) {
	f, err := models.ParseFrequency(string(freq))
	if err != nil {
		return Projector{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, freq)
	}

	p := Projector{start: Day(start), freq: f}
	if end != nil {
		e := Day(*end)
		if e.Before(p.start) {
			return Projector{}, fmt.Errorf("%w: start=%s end=%s", ErrInvalidRange,
				p.start.Format(time.DateOnly), e.Format(time.DateOnly))
		}
		p.end = &e
	}
	return p, nil
}

func (p Projector) Start() time.Time { return p.start }

// End returns the end date, if any.
func (p Projector) End() (time.Time, bool) {
	if p.end == nil {
		return time.Time{}, false
	}
	return *p.end, true
}

// Occurrence returns the k-th date of the schedule, ignoring the end date.
func (p Projector) Occurrence(k int) time.Time {
	return Advance(p.start, p.freq, k)
}

// NextOnOrAfter returns the first occurrence on or after ref. It reports
// false when that occurrence would fall after the end date.
func (p Projector) NextOnOrAfter(ref time.Time) (time.Time, bool) {
	k := p.indexOnOrAfter(Day(ref))
	occ := p.Occurrence(k)
	if p.end != nil && occ.After(*p.end) {
		return time.Time{}, false
	}
	return occ, true
}

// LastOnOrBefore returns the last occurrence on or before limit, also
// bounded by the end date. It reports false when limit precedes the start.
func (p Projector) LastOnOrBefore(limit time.Time) (time.Time, bool) {
	limit = Day(limit)
	if p.end != nil && p.end.Before(limit) {
		limit = *p.end
	}
	if limit.Before(p.start) {
		return time.Time{}, false
	}

	k := p.indexOnOrAfter(limit)
	if p.Occurrence(k).After(limit) {
		k--
	}
	return p.Occurrence(k), true
}

// Between lists the occurrences in [from, to], bounded by the end date.
func (p Projector) Between(from, to time.Time) []time.Time {
	to = Day(to)
	if p.end != nil && p.end.Before(to) {
		to = *p.end
	}

	var dates []time.Time
	for k := p.indexOnOrAfter(Day(from)); ; k++ {
		occ := p.Occurrence(k)
		if occ.After(to) {
			break
		}
		dates = append(dates, occ)
	}
	return dates
}

// indexOnOrAfter finds the smallest k whose occurrence is >= ref.
func (p Projector) indexOnOrAfter(ref time.Time) int {
	if !ref.After(p.start) {
		return 0
	}

	k := p.estimate(ref)
	for k > 0 && !p.Occurrence(k-1).Before(ref) {
		k--
	}
	for p.Occurrence(k).Before(ref) {
		k++
	}
	return k
}

func (p Projector) estimate(ref time.Time) int {
	days := int(ref.Sub(p.start).Hours() / 24)
	switch p.freq {
	case models.FrequencyDaily:
		return days
	case models.FrequencyWeekly:
		return days / 7
	case models.FrequencyMonthly:
		return monthsBetween(p.start, ref)
	case models.FrequencyYearly:
		return ref.Year() - p.start.Year()
	}
	return 0
}

// Advance moves t forward by n steps of freq. Month and year steps clamp to
// the last day of the target month.
func Advance(t time.Time, freq models.Frequency, n int) time.Time {
	switch freq {
	case models.FrequencyDaily:
		return t.AddDate(0, 0, n)
	case models.FrequencyWeekly:
		return t.AddDate(0, 0, 7*n)
	case models.FrequencyMonthly:
		return addMonths(t, n)
	case models.FrequencyYearly:
		return addMonths(t, 12*n)
	}
	return t
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysIn returns the number of days of the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// ErrWindowTooShort is returned when a schedule would not reach a second
// occurrence.
var ErrWindowTooShort = errors.New("end date must be at least one period after the start date")

// ValidateWindow checks that end is on or after start plus one step of freq.
func ValidateWindow(start, end time.Time, freq models.Frequency) error {
	f, err := models.ParseFrequency(string(freq))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, freq)
	}
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return ErrInvalidRange
	}
	if end.Before(Advance(start, f, 1)) {
		return fmt.Errorf("%w: %s", ErrWindowTooShort, f)
	}
	return nil
}
