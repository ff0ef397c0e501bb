package polyline

// Codec for the compact path encoding used by the routing service:
// coordinates at 1e-5 degree precision, delta encoded, zigzagged and written
// as 5-bit groups offset by 63, with 0x20 as the continuation bit.

import (
	"fmt"
	"math"
	"strings"

	"github.com/ColinToft/RunPlanner/internal/util/errors"
	"github.com/ColinToft/RunPlanner/internal/util/geo"
)

const precision = 1e5

// ErrMalformed is returned for truncated or out-of-alphabet input.
var ErrMalformed = fmt.Errorf("malformed encoded path: %w", errors.ErrInvalidArgument)

// Decode turns an encoded path into coordinates. An empty string decodes to an empty path.
func Decode(encoded string) (geo.Path, error) {
	path := geo.Path{}
	var lat, lng int64

	for i := 0; i < len(encoded); {
		dLat, next, err := readValue(encoded, i)
		if err != nil {
			return nil, err
		}
		if next >= len(encoded) {
			return nil, fmt.Errorf("%w: latitude at offset %d has no longitude", ErrMalformed, i)
		}
		dLng, next, err := readValue(encoded, next)
		if err != nil {
			return nil, err
		}
		i = next

		lat += dLat
		lng += dLng
		path = append(path, geo.Coordinate{
			Latitude:  float64(lat) / precision,
			Longitude: float64(lng) / precision,
		})
	}

	return path, nil
}

// readValue reads one signed varint starting at offset i and returns it with the
// offset of the following byte.
func readValue(encoded string, i int) (int64, int, error) {
	var result int64
	var shift uint
	for {
		if i >= len(encoded) {
			return 0, i, fmt.Errorf("%w: truncated value", ErrMalformed)
		}
		b := int64(encoded[i]) - 63
		if b < 0 || b > 0x3f {
			return 0, i, fmt.Errorf("%w: invalid character %q at offset %d", ErrMalformed, encoded[i], i)
		}
		if shift > 60 {
			return 0, i, fmt.Errorf("%w: value at offset %d overflows", ErrMalformed, i)
		}
		i++

		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	return (result >> 1) ^ -(result & 1), i, nil
}

// Encode is the inverse of Decode.
func Encode(path geo.Path) string {
	var sb strings.Builder
	var prevLat, prevLng int64
	for _, c := range path {
		lat := int64(math.Round(c.Latitude * precision))
		lng := int64(math.Round(c.Longitude * precision))
		writeValue(&sb, lat-prevLat)
		writeValue(&sb, lng-prevLng)
		prevLat, prevLng = lat, lng
	}
	return sb.String()
}

func writeValue(sb *strings.Builder, v int64) {
	u := uint64(v << 1)
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		sb.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	sb.WriteByte(byte(u + 63))
}
