package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Schema{})
	assert.ErrorContains(t, err, "at least one column")

	_, err = New(Schema{{Name: "", Type: Text}})
	assert.ErrorContains(t, err, "must not be empty")

	_, err = New(Schema{{Name: "a", Type: Text}, {Name: "a", Type: Bigint}})
	assert.ErrorContains(t, err, `duplicate frame column "a"`)
}

func TestAppend_ArityChecked(t *testing.T) {
	f, err := New(Schema{{Name: "id", Type: Bigint}, {Name: "name", Type: Text}})
	require.NoError(t, err)

	assert.Error(t, f.Append(int64(1)))
	assert.Error(t, f.Append(int64(1), "a", "extra"))
	assert.NoError(t, f.Append(int64(1), "a"))
	assert.Equal(t, 1, f.NumRows())
}

func TestRecords(t *testing.T) {
	f, err := New(Schema{{Name: "id", Type: Bigint}, {Name: "name", Type: Text}})
	require.NoError(t, err)
	require.NoError(t, f.Append(int64(1), "alice"))
	require.NoError(t, f.Append(int64(2), "bob"))

	recs := f.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, map[string]any{"id": int64(1), "name": "alice"}, recs[0])
	assert.Equal(t, map[string]any{"id": int64(2), "name": "bob"}, recs[1])
}

func TestFromRecords_InfersSchema(t *testing.T) {
	f, err := FromRecords([]map[string]any{
		{"name": "alice", "score": 99.5, "active": true},
		{"name": "bob", "score": 11.0, "active": false},
	})
	require.NoError(t, err)

	// Columns are the first record's keys, sorted.
	assert.Equal(t, Schema{
		{Name: "active", Type: Boolean},
		{Name: "name", Type: Text},
		{Name: "score", Type: Double},
	}, f.Schema())
	require.Equal(t, 2, f.NumRows())
	assert.Equal(t, []any{true, "alice", 99.5}, f.Row(0))
}

func TestFromRecords_Errors(t *testing.T) {
	_, err := FromRecords(nil)
	assert.ErrorContains(t, err, "zero records")

	_, err = FromRecords([]map[string]any{{"a": nil}})
	assert.ErrorContains(t, err, "null value")

	_, err = FromRecords([]map[string]any{
		{"a": "x"},
		{"a": "y", "b": "stray"},
	})
	assert.ErrorContains(t, err, `unknown column "b"`)
}

func TestFromRecords_MissingKeysBecomeNull(t *testing.T) {
	f, err := FromRecords([]map[string]any{
		{"a": "x", "b": "y"},
		{"a": "z"},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"z", nil}, f.Row(1))
}
