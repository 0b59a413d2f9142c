package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone Asia/Tokyo",
			timezone: "Asia/Tokyo",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
			if ValidateTimezone(tt.timezone) == tt.wantErr {
				t.Errorf("ValidateTimezone(%q) disagrees with LoadLocation", tt.timezone)
			}
		})
	}
}

func TestDayKeyUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 20:00 UTC on Jan 1 is already Jan 2 in Tokyo
	instant := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)

	if got := DayKey(instant, time.UTC); got != "2026-01-01" {
		t.Errorf("DayKey(UTC) = %q, want 2026-01-01", got)
	}
	if got := DayKey(instant, tokyo); got != "2026-01-02" {
		t.Errorf("DayKey(Tokyo) = %q, want 2026-01-02", got)
	}
	if got := DayKey(instant, nil); got != "2026-01-01" {
		t.Errorf("DayKey(nil) = %q, want 2026-01-01", got)
	}
}

func TestValidateDayKey(t *testing.T) {
	tests := map[string]bool{
		"2026-10-17": true,
		"2026-02-29": false,
		"2026-1-5":   false,
		"17/10/2026": false,
		"":           false,
	}
	for day, want := range tests {
		if got := ValidateDayKey(day); got != want {
			t.Errorf("ValidateDayKey(%q) = %v, want %v", day, got, want)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 3, 5, 17, 45, 12, 99, time.UTC)
	got := StartOfDay(in)
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2026-10", time.UTC)
	if err != nil {
		t.Fatalf("ParseMonth() error = %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.October || got.Day() != 1 {
		t.Errorf("ParseMonth() = %v", got)
	}

	if _, err := ParseMonth("October", time.UTC); err == nil {
		t.Error("ParseMonth(\"October\") should fail")
	}
}

func TestMonthGrid(t *testing.T) {
	// October 2026 starts on a Thursday and has 31 days
	cells := MonthGrid(2026, time.October, time.UTC)

	leading := 0
	for _, c := range cells {
		if !c.IsZero() {
			break
		}
		leading++
	}
	if leading != int(time.Thursday) {
		t.Errorf("leading blanks = %d, want %d", leading, int(time.Thursday))
	}
	if len(cells)-leading != 31 {
		t.Errorf("day cells = %d, want 31", len(cells)-leading)
	}
	if last := cells[len(cells)-1]; last.Day() != 31 {
		t.Errorf("last cell = %v, want day 31", last)
	}
}
