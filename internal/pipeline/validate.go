package pipeline

import (
	"strconv"
	"strings"
)

// ParseLatLong splits a "latitude, longitude" string into its parts.
// ok is false when the string is not two comma-separated numbers.
func ParseLatLong(s string) (lat, long float64, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	long, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}

	return lat, long, true
}

// InRange reports whether the coordinate pair is on the globe.
func InRange(lat, long float64) bool {
	return lat >= -90 && lat <= 90 && long >= -180 && long <= 180
}

// IsValidLatLong reports whether s is a parseable, in-range
// "latitude, longitude" pair.
func IsValidLatLong(s string) bool {
	lat, long, ok := ParseLatLong(s)
	return ok && InRange(lat, long)
}
