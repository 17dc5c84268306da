package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesDocumentOrder(t *testing.T) {
	m, err := Parse([]byte(`{"status": "Active", "uptime": "99.9%", "requests": 42}`))
	require.NoError(t, err)

	entries := m.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Key: "status", Label: "STATUS", Value: "Active"}, entries[0])
	assert.Equal(t, Entry{Key: "uptime", Label: "UPTIME", Value: "99.9%"}, entries[1])
	assert.Equal(t, Entry{Key: "requests", Label: "REQUESTS", Value: "42"}, entries[2])
}

func TestParse_CPUUsage(t *testing.T) {
	m, err := Parse([]byte(`{"cpu_usage": 42}`))
	require.NoError(t, err)

	entries := m.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "CPU USAGE", entries[0].Label)
	assert.Equal(t, "42", entries[0].Value)
}

func TestParse_ValueKinds(t *testing.T) {
	m, err := Parse([]byte(`{
		"name": "api",
		"ratio": 0.25,
		"healthy": true,
		"degraded": false,
		"owner": null,
		"tags": ["a", "b"],
		"meta": {"region": "eu"}
	}`))
	require.NoError(t, err)

	tests := []struct {
		key  string
		kind Kind
		text string
	}{
		{"name", KindString, "api"},
		{"ratio", KindNumber, "0.25"},
		{"healthy", KindBool, "true"},
		{"degraded", KindBool, "false"},
		{"owner", KindNull, "null"},
		{"tags", KindArray, `["a","b"]`},
		{"meta", KindObject, `{"region":"eu"}`},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f, ok := m.Get(tt.key)
			require.True(t, ok, "field %q missing", tt.key)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.text, f.Text)
		})
	}
}

func TestParse_StringEscapes(t *testing.T) {
	m, err := Parse([]byte(`{"msg": "line\nbreak \"quoted\" é"}`))
	require.NoError(t, err)

	f, ok := m.Get("msg")
	require.True(t, ok)
	assert.Equal(t, "line\nbreak \"quoted\" é", f.Text)
}

func TestParse_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	m, err := Parse([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)

	fields := m.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "3", fields[0].Text)
	assert.Equal(t, "b", fields[1].Key)
}

func TestParse_EmptyObject(t *testing.T) {
	m, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Entries())
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		notObject bool
	}{
		{name: "empty body", body: ""},
		{name: "malformed", body: `{"status": `},
		{name: "html", body: `<html>502 Bad Gateway</html>`},
		{name: "array", body: `[1, 2]`, notObject: true},
		{name: "string", body: `"ok"`, notObject: true},
		{name: "number", body: `42`, notObject: true},
		{name: "null", body: `null`, notObject: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.notObject, errors.Is(err, ErrNotObject))
		})
	}
}

func TestMapping_ZeroValue(t *testing.T) {
	var m Mapping
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Fields())
	_, ok := m.Get("anything")
	assert.False(t, ok)
}

func TestMapping_FieldsReturnsCopy(t *testing.T) {
	m, err := Parse([]byte(`{"a": 1}`))
	require.NoError(t, err)

	fields := m.Fields()
	fields[0].Text = "mutated"

	f, _ := m.Get("a")
	assert.Equal(t, "1", f.Text)
}
