package packed

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat32 renders a float32 with the shortest text that round-trips.
func FormatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'G', -1, 32)
}

// FormatPackReal renders a float64 the way packfiles write reals: integral
// values keep one decimal digit, others use up to 16 significant digits.
func FormatPackReal(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}

	return strconv.FormatFloat(f, 'G', 16, 64)
}

// FormatVector4 renders four lanes as a parenthesized packfile vector. Lanes
// given as text are written verbatim.
func FormatVector4(x, y, z, w string) string {
	return "(" + strings.Join([]string{x, y, z, w}, " ") + ")"
}

// FormatVec3 renders three float32 lanes plus a literal w lane.
func FormatVec3(v [3]float32, w string) string {
	return FormatVector4(FormatFloat32(v[0]), FormatFloat32(v[1]), FormatFloat32(v[2]), w)
}
