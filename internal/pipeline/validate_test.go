package pipeline

import "testing"

func TestIsValidLatLong(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid pair", "40.7128, -74.0060", true},
		{"valid without space", "40.7128,-74.0060", true},
		{"boundary north east", "90, 180", true},
		{"boundary south west", "-90, -180", true},
		{"equator", "0, 0", true},
		{"latitude too big", "90.0001, 0", false},
		{"latitude too small", "-91, 0", false},
		{"longitude too big", "0, 180.5", false},
		{"longitude too small", "0, -181", false},
		{"not numeric", "somewhere, nowhere", false},
		{"single value", "40.7128", false},
		{"three values", "1, 2, 3", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidLatLong(tt.input); got != tt.want {
				t.Errorf("IsValidLatLong(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLatLong(t *testing.T) {
	lat, long, ok := ParseLatLong("51.5074, -0.1278")
	if !ok {
		t.Fatal("ParseLatLong() ok = false")
	}
	if lat != 51.5074 || long != -0.1278 {
		t.Errorf("ParseLatLong() = %v, %v", lat, long)
	}

	if _, _, ok := ParseLatLong("free text location"); ok {
		t.Error("ParseLatLong() should reject free text")
	}
}
