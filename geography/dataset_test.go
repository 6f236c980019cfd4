package geography

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataset(t *testing.T) {
	ds, err := NewDataset([]string{"id", "user_location"}, [][]RawValue{
		{Text("1"), Text("Boston")},
		{Text("2"), Null},
		{Text("3"), Text("")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "user_location"}, ds.Columns())
	assert.Equal(t, 3, ds.Len())

	values, err := ds.Values("user_location")
	require.NoError(t, err)
	assert.Equal(t, []RawValue{Text("Boston"), Null, Text("")}, values)

	_, err = ds.Values("missing")
	assert.Error(t, err)
}

func TestNewDatasetRenamesColumns(t *testing.T) {
	ds, err := NewDataset([]string{"loc", "loc", "", "loc"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"loc", "loc.1", "Unnamed: 2", "loc.2"}, ds.Columns())
	assert.Equal(t, 0, ds.Len())
}

func TestNewDatasetErrors(t *testing.T) {
	_, err := NewDataset(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = NewDataset([]string{"a", "b"}, [][]RawValue{{Text("only one")}})
	assert.Error(t, err)
}

func TestDatasetFrameIsACopy(t *testing.T) {
	ds, err := NewDataset([]string{"location"}, [][]RawValue{{Text("Oslo")}})
	require.NoError(t, err)

	frame := ds.Frame()
	frame = frame.Rename("renamed", "location")
	require.NoError(t, frame.Err)
	assert.Equal(t, []string{"location"}, ds.Columns())
}
