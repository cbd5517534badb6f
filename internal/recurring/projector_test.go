package recurring

import (
	"errors"
	"testing"
	"time"

	"personal-ledger-go/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOnOrAfter_MonthlyBoundary(t *testing.T) {
	p, err := New(date(2025, time.January, 15), nil, models.FrequencyMonthly)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	next, ok := p.NextOnOrAfter(date(2025, time.March, 1))
	if !ok {
		t.Fatal("Expected an occurrence")
	}
	if !next.Equal(date(2025, time.March, 15)) {
		t.Errorf("Expected 2025-03-15, got %s", next.Format(time.DateOnly))
	}
}

func TestNextOnOrAfter(t *testing.T) {
	end := date(2025, time.June, 30)

	tests := []struct {
		name   string
		start  time.Time
		end    *time.Time
		freq   models.Frequency
		ref    time.Time
		want   time.Time
		wantOk bool
	}{
		{"before start returns start", date(2025, time.January, 15), nil, models.FrequencyMonthly, date(2024, time.December, 1), date(2025, time.January, 15), true},
		{"on occurrence returns it", date(2025, time.January, 15), nil, models.FrequencyMonthly, date(2025, time.February, 15), date(2025, time.February, 15), true},
		{"day after occurrence", date(2025, time.January, 15), nil, models.FrequencyMonthly, date(2025, time.February, 16), date(2025, time.March, 15), true},
		{"daily", date(2025, time.January, 1), nil, models.FrequencyDaily, date(2025, time.January, 10), date(2025, time.January, 10), true},
		{"weekly", date(2025, time.January, 1), nil, models.FrequencyWeekly, date(2025, time.January, 9), date(2025, time.January, 15), true},
		{"yearly", date(2020, time.March, 10), nil, models.FrequencyYearly, date(2025, time.March, 11), date(2026, time.March, 10), true},
		{"month end clamps", date(2025, time.January, 31), nil, models.FrequencyMonthly, date(2025, time.February, 1), date(2025, time.February, 28), true},
		{"clamping does not drift", date(2025, time.January, 31), nil, models.FrequencyMonthly, date(2025, time.March, 1), date(2025, time.March, 31), true},
		{"leap day yearly", date(2024, time.February, 29), nil, models.FrequencyYearly, date(2025, time.January, 1), date(2025, time.February, 28), true},
		{"past end", date(2025, time.January, 15), &end, models.FrequencyMonthly, date(2025, time.June, 16), time.Time{}, false},
		{"time of day ignored", date(2025, time.January, 15), nil, models.FrequencyMonthly, time.Date(2025, time.February, 15, 18, 30, 0, 0, time.UTC), date(2025, time.February, 15), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.start, tt.end, tt.freq)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			got, ok := p.NextOnOrAfter(tt.ref)
			if ok != tt.wantOk {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOk, ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Expected %s, got %s", tt.want.Format(time.DateOnly), got.Format(time.DateOnly))
			}
		})
	}
}

func TestLastOnOrBefore(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		limit time.Time
		freq  models.Frequency
		want  time.Time
	}{
		{"monthly end between occurrences", date(2025, time.January, 15), date(2025, time.June, 10), models.FrequencyMonthly, date(2025, time.May, 15)},
		{"monthly end on occurrence", date(2025, time.January, 15), date(2025, time.June, 15), models.FrequencyMonthly, date(2025, time.June, 15)},
		{"weekly", date(2025, time.January, 1), date(2025, time.January, 20), models.FrequencyWeekly, date(2025, time.January, 15)},
		{"daily", date(2025, time.January, 1), date(2025, time.January, 20), models.FrequencyDaily, date(2025, time.January, 20)},
		{"yearly", date(2025, time.May, 1), date(2030, time.April, 30), models.FrequencyYearly, date(2029, time.May, 1)},
		{"limit equals start", date(2025, time.May, 1), date(2025, time.May, 1), models.FrequencyYearly, date(2025, time.May, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.start, &tt.limit, tt.freq)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			got, ok := p.LastOnOrBefore(tt.limit)
			if !ok {
				t.Fatal("Expected an occurrence")
			}
			if !got.Equal(tt.want) {
				t.Errorf("Expected %s, got %s", tt.want.Format(time.DateOnly), got.Format(time.DateOnly))
			}
		})
	}
}

func TestLastOnOrBefore_LimitBeforeStart(t *testing.T) {
	p, err := New(date(2025, time.May, 1), nil, models.FrequencyMonthly)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := p.LastOnOrBefore(date(2025, time.April, 30)); ok {
		t.Error("Expected no occurrence before start")
	}
}

func TestNew_InvalidRange(t *testing.T) {
	end := date(2025, time.January, 1)
	_, err := New(date(2025, time.February, 1), &end, models.FrequencyMonthly)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange, got %v", err)
	}
}

func TestNew_InvalidFrequency(t *testing.T) {
	_, err := New(date(2025, time.February, 1), nil, models.Frequency("HOURLY"))
	if !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("Expected ErrInvalidFrequency, got %v", err)
	}
}

func TestProjectionIsDeterministic(t *testing.T) {
	p, err := New(date(2025, time.January, 31), nil, models.FrequencyMonthly)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ref := date(2027, time.August, 3)
	first, _ := p.NextOnOrAfter(ref)
	second, _ := p.NextOnOrAfter(ref)
	if !first.Equal(second) {
		t.Errorf("Expected identical results, got %s and %s", first, second)
	}
}

func TestBetween(t *testing.T) {
	end := date(2025, time.April, 15)
	p, err := New(date(2025, time.January, 15), &end, models.FrequencyMonthly)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got := p.Between(date(2025, time.February, 1), date(2025, time.December, 31))
	want := []time.Time{date(2025, time.February, 15), date(2025, time.March, 15), date(2025, time.April, 15)}
	if len(got) != len(want) {
		t.Fatalf("Expected %d dates, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("Date %d: expected %s, got %s", i, want[i].Format(time.DateOnly), got[i].Format(time.DateOnly))
		}
	}
}

func TestValidateWindow(t *testing.T) {
	start := date(2025, time.January, 15)

	if err := ValidateWindow(start, date(2025, time.February, 15), models.FrequencyMonthly); err != nil {
		t.Errorf("Expected one month window to be valid, got %v", err)
	}
	if err := ValidateWindow(start, date(2025, time.February, 14), models.FrequencyMonthly); !errors.Is(err, ErrWindowTooShort) {
		t.Errorf("Expected ErrWindowTooShort, got %v", err)
	}
	if err := ValidateWindow(start, date(2025, time.January, 1), models.FrequencyDaily); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange, got %v", err)
	}
	if err := ValidateWindow(start, date(2025, time.January, 22), models.Frequency("weekly")); err != nil {
		t.Errorf("Expected lower case frequency to be accepted, got %v", err)
	}
}
