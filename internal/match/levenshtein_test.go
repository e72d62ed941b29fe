package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"Hello", "hello", 1},
		{"softcontactseperationvelocity", "softcontactseparationvelocity", 1},
		{"motionid", "motionids", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "symmetric")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("m_mass", "mass"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.Greater(t, Similarity("linearDamping", "angularDamping"), Similarity("linearDamping", "friction"))
}

func TestSuggest(t *testing.T) {
	candidates := []string{
		"friction",
		"softContactSeparationVelocity",
		"restitution",
		"softContactForceFactor",
		"softContactSeparationVelocity",
	}

	t.Run("duplicates collapse", func(t *testing.T) {
		got := Suggest("softContactSeperationVelocity", candidates, 3)
		assert.Equal(t, []string{"softContactSeparationVelocity"}, got)
	})

	t.Run("closest first", func(t *testing.T) {
		velocities := []string{"maxAngularVelocity", "friction", "linearVelocity", "maxLinearVelocity2"}

		got := Suggest("maxLinearVelocity", velocities, 3)
		assert.Equal(t, []string{"maxLinearVelocity2", "linearVelocity", "maxAngularVelocity"}, got)

		got = Suggest("maxLinearVelocity", velocities, 1)
		assert.Equal(t, []string{"maxLinearVelocity2"}, got)
	})

	t.Run("nothing similar", func(t *testing.T) {
		assert.Empty(t, Suggest("collisionFilterInfo", candidates, 3))
	})

	t.Run("zero limit", func(t *testing.T) {
		assert.Nil(t, Suggest("friction", candidates, 0))
	})

	t.Run("self excluded", func(t *testing.T) {
		assert.Empty(t, Suggest("friction", []string{"friction"}, 3))
	})
}
