package unit

import (
	"math"
	"testing"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/utils"
)

func TestClockToMinutes(t *testing.T) {
	tests := []struct {
		name      string
		clock     string
		expected  int
		wantError bool
	}{
		{
			name:     "morning time",
			clock:    "07:30:00",
			expected: 450,
		},
		{
			name:     "midnight",
			clock:    "00:00:00",
			expected: 0,
		},
		{
			name:     "past midnight (25:30:00)",
			clock:    "25:30:00",
			expected: 1530,
		},
		{
			name:     "no seconds",
			clock:    "08:15",
			expected: 495,
		},
		{
			name:     "seconds truncated",
			clock:    "08:15:59",
			expected: 495,
		},
		{
			name:      "empty",
			clock:     "",
			wantError: true,
		},
		{
			name:      "garbage",
			clock:     "abc",
			wantError: true,
		},
		{
			name:      "minute out of range",
			clock:     "08:75:00",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := utils.ClockToMinutes(tt.clock)
			if tt.wantError {
				if err == nil {
					t.Errorf("expected error for %q, got %d", tt.clock, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestParseTimeWindow(t *testing.T) {
	tests := []struct {
		name      string
		window    string
		wantStart int
		wantEnd   int
		wantError bool
	}{
		{
			name:      "morning peak",
			window:    "0700_0800",
			wantStart: 420,
			wantEnd:   480,
		},
		{
			name:      "full day",
			window:    "0000_2359",
			wantStart: 0,
			wantEnd:   1439,
		},
		{
			name:      "missing separator",
			window:    "07000800",
			wantError: true,
		},
		{
			name:      "end before start",
			window:    "0800_0700",
			wantError: true,
		},
		{
			name:      "short field",
			window:    "700_800",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := utils.ParseTimeWindow(tt.window)
			if tt.wantError {
				if err == nil {
					t.Errorf("expected error for %q", tt.window)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("expected %d-%d, got %d-%d", tt.wantStart, tt.wantEnd, start, end)
			}
		})
	}
}

func TestMinutesToClock(t *testing.T) {
	tests := []struct {
		minutes  int
		expected string
	}{
		{0, "00:00"},
		{450, "07:30"},
		{1439, "23:59"},
		{1530, "25:30"},
	}

	for _, tt := range tests {
		if result := utils.MinutesToClock(tt.minutes); result != tt.expected {
			t.Errorf("MinutesToClock(%d): expected %s, got %s", tt.minutes, tt.expected, result)
		}
	}
}

func TestHaversine(t *testing.T) {
	// one degree of latitude is about 111.19 km everywhere
	km := utils.HaversineKM(42.0, 23.0, 43.0, 23.0)
	if math.Abs(km-111.19) > 0.5 {
		t.Errorf("expected ~111.19 km, got %f", km)
	}

	m := utils.HaversineM(42.0, 23.0, 43.0, 23.0)
	if math.Abs(m-km*1000) > 0.001 {
		t.Errorf("meter and kilometer variants disagree: %f vs %f", m, km*1000)
	}

	mi := utils.HaversineMi(42.0, 23.0, 43.0, 23.0)
	if math.Abs(mi-km*utils.MilesPerKilometer) > 0.001 {
		t.Errorf("mile variant disagrees: %f vs %f", mi, km*utils.MilesPerKilometer)
	}

	if d := utils.HaversineM(42.69, 23.32, 42.69, 23.32); d != 0 {
		t.Errorf("zero distance expected, got %f", d)
	}
}
