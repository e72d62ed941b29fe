package transcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/schema"
	"tag2pack/internal/tagfile"
)

const transcodeTagfile = `<hktagfile version="3">
  <type id="type1"><name value="hkQsTransform"/>
    <fields count="3">
      <field name="translation" typeid="type3"/>
      <field name="rotation" typeid="type3"/>
      <field name="scale" typeid="type3"/>
    </fields>
  </type>
  <type id="type2"><name value="hkReal"/></type>
  <type id="type3"><name value="hkVector4"/></type>
  <type id="type4"><name value="hknpBodyCinfo"/>
    <fields count="2">
      <field name="transform" typeid="type1"/>
      <field name="other" typeid="type6"/>
    </fields>
  </type>
  <type id="type6"><name value="hknpMaterial"/></type>
  <object id="object1" typeid="type4">
    <record>
      <field name="ptr"><pointer id="object12"/></field>
      <field name="nullPtr"><pointer id="object0"/></field>
      <field name="flags"><integer value="4294967295"/></field>
      <field name="negative"><integer value="-5"/></field>
      <field name="wide"><integer value="18446744073709551615"/></field>
      <field name="wideSigned"><integer value="9223372036854775807"/></field>
      <field name="broken"><integer value="twelve"/></field>
      <field name="mass"><real dec="1.5e-05" hex="#3ee92a737110e454"/></field>
      <field name="hexOnly"><real hex="#3f800000"/></field>
      <field name="hexOnlyDouble"><real hex="#3ff8000000000000"/></field>
      <field name="noText"><real/></field>
      <field name="label"><string value="Physics Data"/></field>
      <field name="enabled"><bool value="true"/></field>
      <field name="eight"><array count="8" elementtypeid="type2">
        <real dec="1"/><real dec="2"/><real dec="3"/><real dec="4"/>
        <real dec="5"/><real dec="6"/><real dec="7"/><real dec="8"/>
      </array></field>
      <field name="six"><array count="6" elementtypeid="type2">
        <real dec="1"/><real dec="2"/><real dec="3"/><real dec="4"/><real dec="5"/><real dec="6"/>
      </array></field>
      <field name="empty"><array count="0" elementtypeid="type2"/></field>
      <field name="pointers"><array count="2" elementtypeid="type4">
        <pointer id="object1"/><pointer id="object0"/>
      </array></field>
      <field name="rows"><array count="2" elementtypeid="type3">
        <array count="4" elementtypeid="type2"><real dec="1"/><real dec="0"/><real dec="0"/><real dec="0"/></array>
        <array count="4" elementtypeid="type2"><real dec="0"/><real dec="1"/><real dec="0"/><real dec="0"/></array>
      </array></field>
      <field name="transform"><record>
        <field name="translation"><array count="4" elementtypeid="type2"><real dec="1"/><real dec="2"/><real dec="3"/><real dec="0"/></array></field>
        <field name="rotation"><array count="4" elementtypeid="type2"><real dec="0"/><real dec="0"/><real dec="0"/><real dec="1"/></array></field>
        <field name="scale"><array count="4" elementtypeid="type2"><real dec="1"/><real dec="1"/><real dec="1"/><real dec="1"/></array></field>
      </record></field>
      <field name="other"><record>
        <field name="friction"><real dec="0.5"/></field>
      </record></field>
    </record>
  </object>
</hktagfile>`

func newTestTranscoder(t *testing.T) (*Transcoder, *tagfile.Value) {
	t.Helper()

	doc, err := tagfile.Parse([]byte(transcodeTagfile))
	require.NoError(t, err)

	r, err := schema.NewResolver(doc)
	require.NoError(t, err)

	obj, ok := doc.Object("object1")
	require.True(t, ok)

	return New(r, nil), obj.Record
}

func TestTranscoder_Value(t *testing.T) {
	tc, rec := newTestTranscoder(t)

	tests := []struct {
		field  string
		vector bool
		want   string
	}{
		{"ptr", false, "#12"},
		{"nullPtr", false, "null"},
		{"flags", false, "-1"},
		{"negative", false, "-5"},
		{"wide", false, "-1"},
		{"wideSigned", false, "9223372036854775807"},
		{"mass", false, "1.5E-05"},
		{"hexOnly", false, "1"},
		{"hexOnlyDouble", false, "1.5"},
		{"label", false, "Physics Data"},
		{"enabled", false, "true"},
		{"eight", true, "(1 2 3 4)\n(5 6 7 8)"},
		{"eight", false, "1 2 3 4 5 6 7 8"},
		{"six", true, "(1 2 3 4)\n(5 6)"},
		{"empty", true, ""},
		{"empty", false, ""},
		{"pointers", false, "#1\nnull"},
		{"rows", true, "(1 0 0 0)\n(0 1 0 0)"},
		{"transform", false, "(1 2 3 0)(0 0 0 1)(1 1 1 1)"},
	}

	for _, tt := range tests {
		name := tt.field
		if tt.vector {
			name += "/vector"
		}

		t.Run(name, func(t *testing.T) {
			v, ok := rec.Get(tt.field)
			require.True(t, ok)

			got, err := tc.Value(v, tt.vector)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranscoder_Errors(t *testing.T) {
	tc, rec := newTestTranscoder(t)

	tests := []struct {
		field string
		kind  error
	}{
		{"broken", diagnostic.ErrSchemaResolution},
		{"noText", diagnostic.ErrSchemaResolution},
		{"other", diagnostic.ErrTemplateMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			v, ok := rec.Get(tt.field)
			require.True(t, ok)

			_, err := tc.Value(v, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	_, err := tc.Value(nil, false)
	assert.ErrorIs(t, err, diagnostic.ErrTemplateMismatch)
}

func TestInteger(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"2147483647", "2147483647"},
		{"2147483648", "-2147483648"},
		{"4294967295", "-1"},
		{"-2147483648", "-2147483648"},
		{"4294967296", "4294967296"},
		{"18446744073709551615", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Integer(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Integer("")
	assert.ErrorIs(t, err, diagnostic.ErrSchemaResolution)
}
