package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-03-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(TruncateToDay(time.Now())) {
			t.Errorf("got %v, want today at midnight", got)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		for _, s := range []string{"15-03-2025", "2025/03/15", "not-a-date"} {
			if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("ParseDate(%q) = %v, want ErrInvalidDateFormat", s, err)
			}
		}
	})
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input    string
		hour     int
		minute   int
		wantErr  error
	}{
		{"09:30", 9, 30, nil},
		{"00:00", 0, 0, nil},
		{"23:45", 23, 45, nil},
		{"9:30am", 0, 0, ErrInvalidClockFormat},
		{"25:00", 0, 0, ErrInvalidClockFormat},
		{"", 0, 0, ErrInvalidClockFormat},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			hour, minute, err := ParseClock(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got error %v, want %v", err, tc.wantErr)
			}
			if hour != tc.hour || minute != tc.minute {
				t.Errorf("got %02d:%02d, want %02d:%02d", hour, minute, tc.hour, tc.minute)
			}
		})
	}
}

func TestClockOn(t *testing.T) {
	day := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)

	got, err := ClockOn(day, "14:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 15, 14, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ClockOn(day, "half past two"); !errors.Is(err, ErrInvalidClockFormat) {
		t.Errorf("got %v, want ErrInvalidClockFormat", err)
	}
}

func TestNewDateRange(t *testing.T) {
	t.Run("explicit range", func(t *testing.T) {
		r, err := NewDateRange("2025-03-10", "2025-03-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.Start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)) {
			t.Errorf("start = %v", r.Start)
		}
		if !r.End.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)) {
			t.Errorf("end = %v", r.End)
		}
	})

	t.Run("end defaults to one week later", func(t *testing.T) {
		r, err := NewDateRange("2025-03-10", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.End.Equal(r.Start.AddDate(0, 0, 7)) {
			t.Errorf("end = %v, want one week after start", r.End)
		}
	})

	t.Run("accepts relative forms", func(t *testing.T) {
		r, err := NewDateRange("tomorrow", "next-week")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !r.Start.Equal(today.AddDate(0, 0, 1)) {
			t.Errorf("start = %v, want tomorrow", r.Start)
		}
		if !r.End.Equal(today.AddDate(0, 0, 7)) {
			t.Errorf("end = %v, want one week from today", r.End)
		}
	})

	t.Run("end equal to start rejected", func(t *testing.T) {
		if _, err := NewDateRange("2025-03-10", "2025-03-10"); !errors.Is(err, ErrEndDateBeforeStart) {
			t.Errorf("got %v, want ErrEndDateBeforeStart", err)
		}
	})

	t.Run("end before start rejected", func(t *testing.T) {
		if _, err := NewDateRange("2025-03-10", "2025-03-05"); !errors.Is(err, ErrEndDateBeforeStart) {
			t.Errorf("got %v, want ErrEndDateBeforeStart", err)
		}
	})
}

func TestParseRelativeDate(t *testing.T) {
	// Wednesday
	relativeTo := time.Date(2025, 3, 12, 16, 45, 0, 0, time.Local)
	today := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"", today},
		{"today", today},
		{"TODAY", today},
		{"tomorrow", today.AddDate(0, 0, 1)},
		{"next-week", today.AddDate(0, 0, 7)},
		{"friday", time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)},
		{"monday", time.Date(2025, 3, 17, 0, 0, 0, 0, time.Local)},
		// Same weekday as today rolls a full week forward.
		{"wednesday", time.Date(2025, 3, 19, 0, 0, 0, 0, time.Local)},
		{"next-friday", time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)},
		{"2025-04-01", time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tc := range tests {
		name := tc.input
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			got, err := ParseRelativeDate(tc.input, relativeTo)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("invalid input", func(t *testing.T) {
		for _, s := range []string{"next-someday", "yesterday", "12.03.2025"} {
			if _, err := ParseRelativeDate(s, relativeTo); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("ParseRelativeDate(%q) = %v, want ErrInvalidDateFormat", s, err)
			}
		}
	})
}
