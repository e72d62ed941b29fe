package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/tagfile"
)

const schemaTagfile = `<hktagfile version="3">
  <type id="type1"><name value="hclSimClothData"/><parent id="type9"/>
    <fields count="2">
      <field name="staticConstraintSets" typeid="type2"/>
      <field name="simulationInfo" typeid="type6"/>
    </fields>
  </type>
  <type id="type2"><name value="hkArray"/><subtype id="type3"/></type>
  <type id="type3"><name value="hclSimClothData::ConstraintSet"/>
    <fields count="1"><field name="lengths" typeid="type4"/></fields>
  </type>
  <type id="type4"><name value="hkArray"/><subtype id="type5"/></type>
  <type id="type5"><name value="hkArray"/><subtype id="type7"/></type>
  <type id="type6"><name value="hclSimClothData::OverridableSimulationInfo"/>
    <fields count="1"><field name="gravity" typeid="type8"/></fields>
  </type>
  <type id="type7"><name value="hkReal"/></type>
  <type id="type8"><name value="hkVector4"/></type>
  <type id="type9"><name value="hkReferencedObject"/>
    <fields count="1"><field name="memSizeAndRefCount" typeid="type10"/></fields>
  </type>
  <type id="type10"><name value="hkUint32"/></type>
  <type id="type11"><name value="hkArray"/><subtype id="type12"/></type>
  <type id="type12"><name value="hkArray"/><subtype id="type11"/></type>
  <type id="type13"><name value="hkArray"/></type>
  <object id="object1" typeid="type1">
    <record>
      <field name="memSizeAndRefCount"><integer value="0"/></field>
      <field name="staticConstraintSets">
        <array count="1" elementtypeid="type3">
          <record>
            <field name="lengths"><array count="1" elementtypeid="type7"><real dec="1.0"/></array></field>
          </record>
        </array>
      </field>
      <field name="simulationInfo">
        <record>
          <field name="gravity"><array count="4" elementtypeid="type7">
            <real dec="0"/><real dec="-9.8"/><real dec="0"/><real dec="0"/>
          </array></field>
          <field name="unknownMember"><integer value="1"/></field>
        </record>
      </field>
    </record>
  </object>
  <object id="object2">
    <!-- ArrayOfhclSimClothData -->
    <record/>
  </object>
  <object id="object3"><record/></object>
</hktagfile>`

func newTestResolver(t *testing.T) (*Resolver, *tagfile.Document) {
	t.Helper()

	doc, err := tagfile.Parse([]byte(schemaTagfile))
	require.NoError(t, err)

	r, err := NewResolver(doc)
	require.NoError(t, err)

	return r, doc
}

func TestResolver_TypeName(t *testing.T) {
	r, _ := newTestResolver(t)

	tests := []struct {
		typeID   string
		expected string
	}{
		{"type1", "hclSimClothData"},
		{"type2", "hclSimClothData::ConstraintSet"},
		{"type4", "hkReal"},
		{"type5", "hkReal"},
		{"type8", "hkVector4"},
	}

	for _, tt := range tests {
		t.Run(tt.typeID, func(t *testing.T) {
			name, err := r.TypeName(tt.typeID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)

			// Second lookup is served from the cache.
			again, err := r.TypeName(tt.typeID)
			require.NoError(t, err)
			assert.Equal(t, name, again)
		})
	}
}

func TestResolver_TypeName_Failures(t *testing.T) {
	r, _ := newTestResolver(t)

	for _, id := range []string{"type99", "type11", "type13"} {
		t.Run(id, func(t *testing.T) {
			_, err := r.TypeName(id)
			require.Error(t, err)
			assert.ErrorIs(t, err, diagnostic.ErrSchemaResolution)
		})
	}
}

func TestResolver_ObjectTypeName(t *testing.T) {
	r, doc := newTestResolver(t)

	obj, _ := doc.Object("object1")
	name, err := r.ObjectTypeName(obj)
	require.NoError(t, err)
	assert.Equal(t, "hclSimClothData", name)

	commented, _ := doc.Object("object2")
	name, err = r.ObjectTypeName(commented)
	require.NoError(t, err)
	assert.Equal(t, "hclSimClothData", name)

	untyped, _ := doc.Object("object3")
	_, err = r.ObjectTypeName(untyped)
	assert.ErrorIs(t, err, diagnostic.ErrSchemaResolution)
}

func TestResolver_RecordTypeName(t *testing.T) {
	r, doc := newTestResolver(t)
	obj, _ := doc.Object("object1")

	sets, _ := obj.Record.Get("staticConstraintSets")
	name, err := r.RecordTypeName(sets.Elements[0])
	require.NoError(t, err)
	assert.Equal(t, "hclSimClothData::ConstraintSet", name)

	// Nested record in a field: resolved through the owning object's type.
	info, _ := obj.Record.Get("simulationInfo")
	name, err = r.RecordTypeName(info)
	require.NoError(t, err)
	assert.Equal(t, "hclSimClothData::OverridableSimulationInfo", name)
}

func TestResolver_FieldTypeName(t *testing.T) {
	r, doc := newTestResolver(t)
	obj, _ := doc.Object("object1")

	info, _ := obj.Record.Get("simulationInfo")
	gravity, _ := info.Field("gravity")
	name, err := r.FieldTypeName(gravity)
	require.NoError(t, err)
	assert.Equal(t, "hkVector4", name)

	// Inherited member declared on the parent type.
	refCount, _ := obj.Record.Field("memSizeAndRefCount")
	name, err = r.FieldTypeName(refCount)
	require.NoError(t, err)
	assert.Equal(t, "hkUint32", name)

	// Field inside an array element resolves through the element type.
	sets, _ := obj.Record.Get("staticConstraintSets")
	lengths, _ := sets.Elements[0].Field("lengths")
	name, err = r.FieldTypeName(lengths)
	require.NoError(t, err)
	assert.Equal(t, "hkReal", name)

	unknown, _ := info.Field("unknownMember")
	_, err = r.FieldTypeName(unknown)
	require.Error(t, err)
	assert.ErrorIs(t, err, diagnostic.ErrSchemaResolution)
	assert.Contains(t, err.Error(), "unknownMember")
}

func TestResolver_ElementTypeName(t *testing.T) {
	r, doc := newTestResolver(t)
	obj, _ := doc.Object("object1")

	sets, _ := obj.Record.Get("staticConstraintSets")
	name, err := r.ElementTypeName(sets)
	require.NoError(t, err)
	assert.Equal(t, "hclSimClothData::ConstraintSet", name)

	_, err = r.ElementTypeName(obj.Record)
	assert.ErrorIs(t, err, diagnostic.ErrSchemaResolution)
}
