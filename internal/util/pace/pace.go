package pace

// Conversions between elapsed time, distance and pace (minutes per kilometer).
// Values are stored unrounded; flooring only happens when formatting.

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ColinToft/RunPlanner/internal/util/errors"
)

// PaceFromTime returns the pace in min/km. Non-positive distances yield 0.
func PaceFromTime(timeSeconds, distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return timeSeconds / 60 / distanceKm
}

// TimeFromPace returns the elapsed time in seconds for the given pace and distance.
func TimeFromPace(paceMinPerKm, distanceKm float64) float64 {
	return paceMinPerKm * 60 * distanceKm
}

// FormatTime renders seconds as HH:MM:SS. Hours are not wrapped.
func FormatTime(seconds float64) string {
	hours := math.Floor(seconds / 3600)
	minutes := math.Floor(math.Mod(seconds, 3600) / 60)
	secs := math.Floor(math.Mod(seconds, 60))
	return fmt.Sprintf("%02d:%02d:%02d", int64(hours), int64(minutes), int64(secs))
}

// FormatPace renders a pace as M:SS/km.
func FormatPace(minPerKm float64) string {
	minutes := math.Floor(minPerKm)
	seconds := math.Floor((minPerKm - minutes) * 60)
	return fmt.Sprintf("%d:%02d/km", int64(minutes), int64(seconds))
}

// ParseTime parses an HH:MM:SS string back into seconds.
// Sub-second precision lost by FormatTime is not recovered.
func ParseTime(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("time %q is not HH:MM:SS: %w", s, errors.ErrInvalidArgument)
	}

	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("time %q is not HH:MM:SS: %w", s, errors.ErrInvalidArgument)
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("time %q has minutes or seconds out of range: %w", s, errors.ErrInvalidArgument)
	}

	return float64(fields[0]*3600 + fields[1]*60 + fields[2]), nil
}

// State holds a distance together with a time and pace, one of which was derived
// from the other two.
type State struct {
	DistanceKm   float64 `json:"distance_km"`
	TimeSeconds  float64 `json:"time_seconds"`
	PaceMinPerKm float64 `json:"pace_min_per_km"`
}

// FromTime builds a State from a distance and an elapsed time, deriving the pace.
// The pace stays 0 unless both inputs are positive.
func FromTime(distanceKm, timeSeconds float64) State {
	s := State{DistanceKm: distanceKm, TimeSeconds: timeSeconds}
	if distanceKm > 0 && timeSeconds > 0 {
		s.PaceMinPerKm = PaceFromTime(timeSeconds, distanceKm)
	}
	return s
}

// FromPace builds a State from a distance and a pace, deriving the time.
// The time stays 0 unless both inputs are positive.
func FromPace(distanceKm, paceMinPerKm float64) State {
	s := State{DistanceKm: distanceKm, PaceMinPerKm: paceMinPerKm}
	if distanceKm > 0 && paceMinPerKm > 0 {
		s.TimeSeconds = TimeFromPace(paceMinPerKm, distanceKm)
	}
	return s
}

func (s State) FormattedTime() string {
	return FormatTime(s.TimeSeconds)
}

func (s State) FormattedPace() string {
	return FormatPace(s.PaceMinPerKm)
}
