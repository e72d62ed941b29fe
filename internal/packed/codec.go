package packed

import (
	"fmt"
	"math"
	"strconv"

	"tag2pack/internal/tagfile"
)

const (
	unitVectorOffset uint32 = 0x80000000
	// unitVectorScale is 1 / (30000 * 65536) rounded once to float32.
	unitVectorScale float32 = 1.0 / (30000.0 * 0x10000)
)

// UnpackVector3 decodes an hkPackedVector3. Lanes hold the high 16 bits of
// int32 values; the 4th lane's bit pattern doubles as a float32 exponent
// correction applied to every lane.
func UnpackVector3(p [4]uint16) [4]float32 {
	correction := math.Float32frombits(uint32(p[3]) << 16)

	var v [4]float32
	for i, c := range p {
		v[i] = float32(int32(uint32(c)<<16)) * correction
	}

	return v
}

// UnpackUnitVector decodes a packed unit vector (e.g. a major axis space
// quaternion).
func UnpackUnitVector(p [4]uint16) [4]float32 {
	var v [4]float32
	for i, c := range p {
		biased := int32((uint32(c) << 16) + unitVectorOffset)
		v[i] = float32(biased) * unitVectorScale
	}

	return v
}

// Components reads the four 16-bit components of a packed vector node: an
// array of integers, or a record whose first field holds that array.
func Components(v *tagfile.Value) ([4]uint16, error) {
	var out [4]uint16

	arr := v
	if arr != nil && arr.Kind == tagfile.KindRecord {
		if len(arr.Fields) == 0 {
			return out, fmt.Errorf("packed vector %s has no fields", arr.Path())
		}

		arr = arr.Fields[0].Value
	}

	if arr == nil || arr.Kind != tagfile.KindArray {
		return out, fmt.Errorf("packed vector: expected array, got %s", arr.KindName())
	}

	if len(arr.Elements) != len(out) {
		return out, fmt.Errorf("packed vector %s: expected %d components, got %d", arr.Path(), len(out), len(arr.Elements))
	}

	for i, e := range arr.Elements {
		c, err := ParseComponent(e.Text)
		if err != nil {
			return out, fmt.Errorf("packed vector %s: %w", arr.Path(), err)
		}

		out[i] = c
	}

	return out, nil
}

// ParseComponent parses the integer text of one packed component. Signed
// and unsigned renderings of the same 16 bits yield the same value.
func ParseComponent(s string) (uint16, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid packed component %q: %w", s, err)
	}

	if n < math.MinInt16 || n > math.MaxUint16 {
		return 0, fmt.Errorf("packed component %q out of 16-bit range", s)
	}

	return uint16(n), nil
}
