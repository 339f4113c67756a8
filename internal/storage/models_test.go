package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameters_MarshalKeepsDeclarationOrder(t *testing.T) {
	params := Parameters{
		{Name: "zeta", Type: "string", Value: "z"},
		{Name: "alpha", Type: "integer", Value: "1", Default: 10, Required: true, Description: "first"},
	}

	b, err := json.Marshal(params)
	require.NoError(t, err)
	assert.Equal(t,
		`{"zeta":{"type":"string","value":"z","default":null,"required":false,"description":""},`+
			`"alpha":{"type":"integer","value":"1","default":10,"required":true,"description":"first"}}`,
		string(b))

	var back Parameters
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back, 2)
	assert.Equal(t, "zeta", back[0].Name)
	assert.Equal(t, "alpha", back[1].Name)
	assert.Equal(t, float64(10), back[1].Default)
	assert.True(t, back[1].Required)
}

func TestParameters_Set(t *testing.T) {
	var params Parameters

	assert.False(t, params.Set(Parameter{Name: "id", Type: "integer"}))
	assert.False(t, params.Set(Parameter{Name: "q", Type: "string"}))
	assert.True(t, params.Set(Parameter{Name: "id", Type: "string", Description: "replaced"}))

	require.Len(t, params, 2)
	assert.Equal(t, "id", params[0].Name)
	assert.Equal(t, "replaced", params[0].Description)

	b, err := params.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":{"type":"string","value":"","default":null,"required":false,"description":"replaced"},"q":{"type":"string","value":"","default":null,"required":false,"description":""}}`, string(b))
}

func TestParameters_UnmarshalLooseValues(t *testing.T) {
	var params Parameters
	require.NoError(t, params.UnmarshalJSON([]byte(`{"count":{"type":"int","value":12,"required":"true"},"flag":"yes"}`)))

	require.Len(t, params, 2)
	assert.Equal(t, "12", params[0].Value)
	assert.True(t, params[0].Required)
	assert.Equal(t, "flag", params[1].Name)
	assert.Equal(t, "yes", params[1].Value)

	assert.Error(t, params.UnmarshalJSON([]byte(`[1,2]`)))
	assert.Error(t, params.UnmarshalJSON([]byte(`{broken`)))
}

func TestParameters_ScanAndValue(t *testing.T) {
	var params Parameters
	require.NoError(t, params.Scan(nil))
	assert.Nil(t, params)

	require.NoError(t, params.Scan(`{}`))
	assert.Empty(t, params)

	require.NoError(t, params.Scan([]byte(`{"id":{"type":"string"}}`)))
	assert.True(t, params.Has("id"))
	assert.False(t, params.Has("name"))

	assert.Error(t, params.Scan(42))

	v, err := Parameters(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNewRawJSON(t *testing.T) {
	r, err := NewRawJSON([]byte(" {\"a\":1}\n"))
	require.NoError(t, err)
	assert.Equal(t, RawJSON(`{"a":1}`), r)

	r, err = NewRawJSON([]byte("<h1>hello</h1>"))
	require.NoError(t, err)
	assert.Equal(t, RawJSON(`"<h1>hello</h1>"`), r)

	r, err = NewRawJSON(nil)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestRawJSON_ScanAndMarshal(t *testing.T) {
	var r RawJSON
	require.NoError(t, r.Scan(nil))
	assert.Nil(t, r)

	b, err := json.Marshal(struct {
		Response RawJSON `json:"response"`
	}{})
	require.NoError(t, err)
	assert.Equal(t, `{"response":null}`, string(b))

	require.NoError(t, r.Scan(`[true]`))
	b, err = json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `[true]`, string(b))
}
