package shopdate

import (
	"testing"
	"time"
)

func TestDateString_UTCConversion(t *testing.T) {
	// 19:00 UTC + 5:30 = 00:30 the next day in shop time.
	ts := time.Date(2025, 9, 7, 19, 0, 0, 0, time.UTC)
	if got := DateString(ts); got != "2025-09-08" {
		t.Fatalf("DateString = %q, want 2025-09-08", got)
	}

	// 18:29 UTC is still 23:59 the same day.
	ts = time.Date(2025, 9, 7, 18, 29, 0, 0, time.UTC)
	if got := DateString(ts); got != "2025-09-07" {
		t.Fatalf("DateString = %q, want 2025-09-07", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"zero time", time.Time{}, ""},
		{"nil time pointer", (*time.Time)(nil), ""},
		{"rfc3339 crossing midnight", "2025-09-07T19:00:00Z", "2025-09-08"},
		{"rfc3339 with offset", "2025-09-08T01:00:00+05:30", "2025-09-08"},
		{"bare date passes through", "2025-09-07", "2025-09-07"},
		{"naive timestamp treated as utc", "2025-09-07 19:30:00", "2025-09-08"},
		{"epoch seconds", int64(1757271600), DateString(time.Unix(1757271600, 0))},
		{"epoch millis", int64(1757271600000), DateString(time.UnixMilli(1757271600000))},
		{"empty string", "", ""},
		{"garbage", "not-a-date", ""},
		{"unsupported type", struct{}{}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Fatalf("Normalize(%v) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestWeekBounds(t *testing.T) {
	// 2025-09-12 is a Friday; its week runs Sunday the 7th to Saturday the 13th.
	start, end, ok := WeekBounds("2025-09-12")
	if !ok {
		t.Fatal("WeekBounds should succeed")
	}
	if start != "2025-09-07" || end != "2025-09-13" {
		t.Fatalf("week bounds = %s..%s", start, end)
	}

	// A Sunday is its own week start.
	start, end, ok = WeekBounds("2025-09-07")
	if !ok || start != "2025-09-07" || end != "2025-09-13" {
		t.Fatalf("sunday week bounds = %s..%s ok=%v", start, end, ok)
	}

	if _, _, ok := WeekBounds("bogus"); ok {
		t.Fatal("malformed date should not produce bounds")
	}
}

func TestWeekDays(t *testing.T) {
	days := WeekDays("2025-09-07")
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if days[0] != "2025-09-07" || days[5] != "2025-09-12" || days[6] != "2025-09-13" {
		t.Fatalf("unexpected days: %v", days)
	}
}

func TestMonthBounds(t *testing.T) {
	first, last, ok := MonthBounds("2025-02-14")
	if !ok || first != "2025-02-01" || last != "2025-02-28" {
		t.Fatalf("feb bounds = %s..%s ok=%v", first, last, ok)
	}

	// Leap year February.
	first, last, ok = MonthBounds("2024-02-14")
	if !ok || first != "2024-02-01" || last != "2024-02-29" {
		t.Fatalf("leap feb bounds = %s..%s ok=%v", first, last, ok)
	}
}

func TestMonthWeeks_PartialEdges(t *testing.T) {
	// September 2025 starts on a Monday and ends on a Tuesday, so the first
	// and last weeks are partial.
	weeks := MonthWeeks("2025-09-15")
	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d: %v", len(weeks), weeks)
	}
	if weeks[0].Start != "2025-09-01" || weeks[0].End != "2025-09-06" {
		t.Fatalf("first week = %+v", weeks[0])
	}
	if weeks[1].Start != "2025-09-07" || weeks[1].End != "2025-09-13" {
		t.Fatalf("second week = %+v", weeks[1])
	}
	if weeks[4].Start != "2025-09-28" || weeks[4].End != "2025-09-30" {
		t.Fatalf("last week = %+v", weeks[4])
	}

	// Every day of the month appears exactly once across the spans.
	seen := map[string]bool{}
	for _, w := range weeks {
		for _, d := range w.Days() {
			if seen[d] {
				t.Fatalf("date %s bucketed twice", d)
			}
			seen[d] = true
		}
	}
	if len(seen) != 30 {
		t.Fatalf("expected 30 distinct days, got %d", len(seen))
	}
}

func TestAddDays(t *testing.T) {
	if got := AddDays("2025-09-01", -7); got != "2025-08-25" {
		t.Fatalf("unexpected shifted date %q", got)
	}
	if got := AddDays("2025-09-28", 3); got != "2025-10-01" {
		t.Fatalf("expected month rollover, got %q", got)
	}
	if got := AddDays("garbage", 1); got != "" {
		t.Fatalf("malformed input should yield empty, got %q", got)
	}
}

func TestSpanDays(t *testing.T) {
	days := Span{Start: "2025-09-28", End: "2025-09-30"}.Days()
	if len(days) != 3 || days[0] != "2025-09-28" || days[2] != "2025-09-30" {
		t.Fatalf("unexpected span days: %v", days)
	}
	if (Span{Start: "x", End: "y"}).Days() != nil {
		t.Fatal("malformed span should yield nil")
	}
}
