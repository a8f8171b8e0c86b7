package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawArray(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
		wantErr bool
	}{
		{name: "array", raw: `[{"business_type":"salary"}]`, wantLen: 1},
		{name: "json string holding array", raw: `"[{\"business_type\":\"salary\"},{}]"`, wantLen: 2},
		{name: "empty payload", raw: ``, wantLen: 0},
		{name: "empty array", raw: `[]`, wantLen: 0},
		{name: "object", raw: `{"business_type":"salary"}`, wantErr: true},
		{name: "array of scalars", raw: `[1,2]`, wantErr: true},
		{name: "garbage", raw: `[{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRawArray([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestParseRawObject(t *testing.T) {
	obj, err := ParseRawObject([]byte(`"{\"father_name\":\"Ram\"}"`))
	require.NoError(t, err)
	assert.Equal(t, "Ram", *obj.String("father_name"))

	obj, err = ParseRawObject(nil)
	require.NoError(t, err)
	assert.True(t, obj.IsEmpty())

	_, err = ParseRawObject([]byte(`[1]`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestRawObjectAccessors(t *testing.T) {
	obj, err := ParseRawObject([]byte(`{
		"address": "  12 Market Rd ",
		"blank": "   ",
		"staff_size": 25,
		"category_id": "7",
		"bad_id": "seven",
		"children_names": "[\"A\",\"B\"]",
		"tags": ["x", " ", "y"],
		"flag": true
	}`))
	require.NoError(t, err)

	assert.Equal(t, "12 Market Rd", *obj.String("company_address", "address", "businessAddress"))
	assert.Nil(t, obj.String("blank"))
	assert.Nil(t, obj.String("missing"))
	assert.Equal(t, "25", *obj.String("staff_size"))
	assert.Equal(t, "true", *obj.String("flag"))

	id, err := obj.Int64("category_id")
	require.NoError(t, err)
	assert.Equal(t, int64(7), *id)

	_, err = obj.Int64("bad_id")
	assert.Error(t, err)

	id, err = obj.Int64("missing")
	require.NoError(t, err)
	assert.Nil(t, id)

	names, err := obj.StringSlice("children_names")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)

	tags, err := obj.StringSlice("tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tags)
}

func TestParseStringList(t *testing.T) {
	list, err := ParseStringList(`["uploads/a.jpg","uploads/b.jpg"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/a.jpg", "uploads/b.jpg"}, list)

	list, err = ParseStringList("uploads/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/a.jpg"}, list)

	list, err = ParseStringList("")
	require.NoError(t, err)
	assert.Nil(t, list)
}
