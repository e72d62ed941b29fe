package packfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tag2pack/internal/xmlio"
)

func sampleDocument() *Document {
	d := NewDocument()
	d.TopLevelObject = "#1"

	d.Append(&Object{
		Attrs: Attrs{{Key: AttrName, Value: "#1"}, {Key: AttrClass, Value: "hkRootLevelContainer"}, {Key: AttrSignature, Value: "0x2772c11e"}},
		Params: []*Param{
			{
				Name:  "namedVariants",
				Attrs: Attrs{{Key: AttrNumElements, Value: "1"}},
				Objects: []*Object{{Params: []*Param{
					{Name: "name", Value: "Café Data"},
					{Name: "variant", Value: "#2"},
				}}},
			},
		},
	})
	d.Append(&Object{
		Attrs: Attrs{{Key: AttrName, Value: "#2"}, {Key: AttrClass, Value: "hknpPhysicsSystemData"}},
		Params: []*Param{
			{Name: "referencedObjects", Attrs: Attrs{{Key: AttrNumElements, Value: "2"}}, Value: "#91\nnull"},
			{Name: "bodyCinfos", Attrs: Attrs{{Key: AttrNumElements, Value: "0"}}},
		},
	})

	return d
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(sampleDocument())
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="us-ascii"?>`))
	assert.Contains(t, out, `<hkpackfile classversion="11" contentsversion="hk_2014.1.0-r1" toplevelobject="#1">`)
	assert.Contains(t, out, `<hksection name="__data__">`)
	assert.Contains(t, out, `<hkobject name="#1" class="hkRootLevelContainer" signature="0x2772c11e">`)
	assert.Contains(t, out, `<hkparam name="referencedObjects" numelements="2">#91`+"\n"+`null</hkparam>`)
	assert.Contains(t, out, `<hkparam name="bodyCinfos" numelements="0"></hkparam>`)
	assert.Contains(t, out, `Caf&#233; Data`)

	for _, b := range data {
		require.Less(t, b, byte(0x80), "output must be ASCII")
	}
}

func TestMarshal_ReadBack(t *testing.T) {
	data, err := Marshal(sampleDocument())
	require.NoError(t, err)

	x := xmlio.NewDocument()
	require.NoError(t, x.ReadFromBytes(data))

	objs := x.FindElements("//hksection/hkobject")
	require.Len(t, objs, 2)

	name := objs[0].FindElement("hkparam/hkobject/hkparam[@name='name']")
	require.NotNil(t, name)
	assert.Equal(t, "Café Data", name.Text())
}

func TestMarshal_Deterministic(t *testing.T) {
	a, err := Marshal(sampleDocument())
	require.NoError(t, err)
	b, err := Marshal(sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xml")
	require.NoError(t, WriteFile(sampleDocument(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hknpPhysicsSystemData")
}

func TestAsciiEscape(t *testing.T) {
	assert.Equal(t, []byte("abc"), asciiEscape([]byte("abc")))
	assert.Equal(t, "x&#8364;y&#128512;", string(asciiEscape([]byte("x€y\U0001F600"))))
}
