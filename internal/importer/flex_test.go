package importer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFlexInt_JSON(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
		value int
	}{
		{`5`, true, 5},
		{`-2`, true, -2},
		{`"7"`, true, 7},
		{`3.9`, true, 3},
		{`null`, false, 0},
		{`"abc"`, false, 0},
		{`""`, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			var holder struct {
				N FlexInt `json:"n"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"n":`+tc.in+`}`), &holder))
			assert.Equal(t, tc.valid, holder.N.Valid)
			assert.Equal(t, tc.value, holder.N.Value)
		})
	}
}

func TestFlexInt_JSONObjectIsIgnored(t *testing.T) {
	var holder struct {
		N FlexInt `json:"n"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"n":{"x":1}}`), &holder))
	assert.False(t, holder.N.Valid)
}

func TestFlexInt_YAML(t *testing.T) {
	var holder struct {
		A FlexInt `yaml:"a"`
		B FlexInt `yaml:"b"`
		C FlexInt `yaml:"c"`
		D FlexInt `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 4\nb: \"12\"\nc: ~\nd: [1]\n"), &holder))
	assert.Equal(t, Int(4), holder.A)
	assert.Equal(t, Int(12), holder.B)
	assert.False(t, holder.C.Valid)
	assert.False(t, holder.D.Valid)
}

func TestFlexInt_MarshalAbsentAsNull(t *testing.T) {
	out, err := json.Marshal(struct {
		N FlexInt `json:"n"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":null}`, string(out))
}

func TestFlexInt_Ptr(t *testing.T) {
	assert.Nil(t, FlexInt{}.Ptr())
	require.NotNil(t, Int(3).Ptr())
	assert.Equal(t, 3, *Int(3).Ptr())
}
