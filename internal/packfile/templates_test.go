package packfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDictionary = `<?xml version="1.0" encoding="ascii"?>
<Classes>
  <hkobject name="#0090" class="hknpPhysicsSystemData" signature="0x35ca68ad">
    <hkparam name="materials" numelements="1">
      <hkobject>
        <hkparam name="isExclusive">0</hkparam>
        <hkparam name="softContactSeperationVelocity">0.0</hkparam>
      </hkobject>
    </hkparam>
    <hkparam name="referencedObjects" numelements="2">#0091
#0092</hkparam>
    <hkparam name="gravity">(0.000000 0.000000 0.000000 0.000000)</hkparam>
  </hkobject>
  <hkobject name="#0050" class="hkRootLevelContainer" signature="0x2772c11e">
    <hkparam name="namedVariants" numelements="0"></hkparam>
  </hkobject>
</Classes>`

func TestParseDictionary(t *testing.T) {
	d, err := ParseDictionary([]byte(sampleDictionary))
	require.NoError(t, err)

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"hknpPhysicsSystemData", "hkRootLevelContainer"}, d.Names())

	tmpl, ok := d.Class("hknpPhysicsSystemData")
	require.True(t, ok)
	assert.Equal(t, "hknpPhysicsSystemData", tmpl.Class())
	assert.Equal(t, []string{"materials", "referencedObjects", "gravity"}, tmpl.FieldNames())

	sig, ok := tmpl.Attrs.Get(AttrSignature)
	require.True(t, ok)
	assert.Equal(t, "0x35ca68ad", sig)

	materials, ok := tmpl.Field("materials")
	require.True(t, ok)
	require.NotNil(t, materials.Sub)
	assert.Equal(t, "", materials.Sub.Class())
	assert.Equal(t, []string{"isExclusive", "softContactSeperationVelocity"}, materials.Sub.FieldNames())
	assert.Equal(t, Attrs{{Key: AttrNumElements, Value: "1"}}, materials.Attrs)

	gravity, _ := tmpl.Field("gravity")
	assert.True(t, gravity.IsVector())
	assert.Nil(t, gravity.Sub)

	refs, _ := tmpl.Field("referencedObjects")
	assert.False(t, refs.IsVector())

	_, ok = d.Class("hclClothData")
	assert.False(t, ok)
}

func TestParseDictionary_Errors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{"no class", `<Classes><hkobject name="#1"/></Classes>`, "without class attribute"},
		{"duplicate", `<Classes><hkobject class="a"/><hkobject class="a"/></Classes>`, "duplicate template"},
		{"unnamed param", `<Classes><hkobject class="a"><hkparam>1</hkparam></hkobject></Classes>`, "without name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDictionary([]byte(tt.xml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTemplatesAreNotShared(t *testing.T) {
	d, err := ParseDictionary([]byte(sampleDictionary))
	require.NoError(t, err)

	tmpl, _ := d.Class("hknpPhysicsSystemData")
	refs, _ := tmpl.Field("referencedObjects")

	p := refs.Scalar("#0001")
	p.SetCount(1)

	obj := NewObject(tmpl)
	obj.Attrs = obj.Attrs.With(AttrName, "#0007")

	assert.Equal(t, "2", mustGet(t, refs.Attrs, AttrNumElements))
	assert.Equal(t, "1", mustGet(t, p.Attrs, AttrNumElements))
	assert.Equal(t, "#0090", mustGet(t, tmpl.Attrs, AttrName))
	assert.Equal(t, "#0007", obj.Name())
	assert.Equal(t, "hknpPhysicsSystemData", obj.Class())
}

func TestAttrs_With(t *testing.T) {
	a := Attrs{{Key: "name", Value: "#1"}, {Key: "class", Value: "x"}}

	b := a.With("name", "#2")
	assert.Equal(t, Attrs{{Key: "name", Value: "#2"}, {Key: "class", Value: "x"}}, b)
	assert.Equal(t, "#1", a[0].Value)

	c := a.With("signature", "0x1")
	assert.Len(t, c, 3)
	assert.Len(t, a, 2)
}

func TestParam_SetCount(t *testing.T) {
	withCount := &FieldTemplate{Name: "a", Attrs: Attrs{{Key: AttrNumElements, Value: "0"}}}
	p := withCount.Scalar("1 2 3")
	p.SetCount(3)
	assert.Equal(t, "3", mustGet(t, p.Attrs, AttrNumElements))

	plain := &FieldTemplate{Name: "b"}
	q := plain.Scalar("1")
	q.SetCount(3)
	assert.Empty(t, q.Attrs)
}

func mustGet(t *testing.T, a Attrs, key string) string {
	t.Helper()

	v, ok := a.Get(key)
	require.True(t, ok, "missing attribute %s", key)

	return v
}
