package integrations

import (
	"testing"
	"time"

	"github.com/haru/meets-dashboard/pkg/domain"
)

func TestCombineDateAndTime(t *testing.T) {
	t.Run("combines as JST instant", func(t *testing.T) {
		got, err := combineDateAndTime("2025-11-05", "14:30:45")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := time.Date(2025, 11, 5, 14, 30, 45, 0, jst)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		// 14:30 JST is 05:30 UTC
		if utc := got.UTC(); utc.Hour() != 5 || utc.Minute() != 30 {
			t.Errorf("expected 05:30 UTC, got %v", utc)
		}
	})

	t.Run("midnight boundary", func(t *testing.T) {
		got, err := combineDateAndTime("2025-11-05", "00:00:00")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !got.Equal(time.Date(2025, 11, 5, 0, 0, 0, 0, jst)) {
			t.Errorf("unexpected instant %v", got)
		}
	})

	invalid := []struct {
		name string
		date string
		tod  string
	}{
		{"hour out of range", "2025-11-05", "25:00:00"},
		{"minute out of range", "2025-11-05", "14:60:00"},
		{"second out of range", "2025-11-05", "14:00:61"},
		{"negative hour", "2025-11-05", "-1:00:00"},
		{"two components", "2025-11-05", "14:30"},
		{"four components", "2025-11-05", "14:30:00:00"},
		{"non-numeric component", "2025-11-05", "14:3o:00"},
		{"empty time", "2025-11-05", ""},
		{"bad date", "11/05/2025", "14:30:00"},
		{"empty date", "", "14:30:00"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := combineDateAndTime(tc.date, tc.tod)
			if err == nil {
				t.Fatalf("expected error for %q %q", tc.date, tc.tod)
			}
			if !domain.IsTimeParseError(err) {
				t.Errorf("expected TimeParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestStartOfDayJST(t *testing.T) {
	// 23:30 UTC on Nov 4 is already 08:30 JST on Nov 5.
	now := time.Date(2025, 11, 4, 23, 30, 0, 0, time.UTC)
	got := startOfDayJST(now)
	want := time.Date(2025, 11, 5, 0, 0, 0, 0, jst)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
