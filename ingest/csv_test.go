package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows(t *testing.T) {
	in := strings.Join([]string{
		" a , b ,c",
		"1,2,3",
		"4,5",       // short row padded
		"6,7,8,9",   // long row truncated
		`10,"x,y",8`, // quoted separator
	}, "\n")

	headers, rows, err := readRows(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, headers, "headers trimmed")
	require.Len(t, rows, 4)
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, rows[0])
	assert.Equal(t, map[string]string{"a": "4", "b": "5", "c": ""}, rows[1])
	assert.Equal(t, map[string]string{"a": "6", "b": "7", "c": "8"}, rows[2])
	assert.Equal(t, map[string]string{"a": "10", "b": "x,y", "c": "8"}, rows[3])
}

func TestReadRows_EmptyFile(t *testing.T) {
	_, _, err := readRows(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestMissingColumns(t *testing.T) {
	headers := []string{"a", "b", "c"}
	assert.Nil(t, missingColumns(headers, []string{"a", "c"}))
	assert.Equal(t, []string{"d", "e"}, missingColumns(headers, []string{"a", "d", "e"}))
}
