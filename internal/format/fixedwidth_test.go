package format_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcanon/refcanon/internal/format"
)

func TestFixedWidthReader(t *testing.T) {
	// Two records after a title line, encoded in Latin-1. 0xc4 is Ä,
	// 0xd6 is Ö.
	var src bytes.Buffer
	src.WriteString("POSTAL CODE FILE 20240101\n")
	src.Write([]byte{'0', '0', '1', '0', '0', ' ', 'H', 'E', 'L', 'S', 'I', 'N', 'K', 'I', '\n'})
	src.Write([]byte{'9', '5', '9', '7', '0', ' ', 0xc4, 'K', 0xc4, 'S', 'J', 'O', 'K', 'I', '\n'})

	r := format.NewFixedWidth(&src, true)

	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, line.Num)
	assert.Equal(t, "00100", line.Field(0, 5))
	assert.Equal(t, "HELSINKI", line.Field(6, 14))

	line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "95970", line.Field(0, 5))
	assert.Equal(t, "ÄKÄSJOKI", line.Field(6, 14), "Latin-1 bytes decode to UTF-8")
	// One byte per character in the source, so byte offsets keep
	// working after decoding.
	assert.Equal(t, 14, line.Len())

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFixedWidthFieldBounds(t *testing.T) {
	r := format.NewFixedWidth(bytes.NewReader([]byte("short\n")), false)

	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "short", line.Field(0, 100), "range clipped to line length")
	assert.Equal(t, "", line.Field(10, 20), "start past end is empty")
	assert.Equal(t, "", line.Field(-1, 3), "negative start is empty")
	assert.Equal(t, "", line.Field(3, 3), "empty range is empty")
}

func TestFixedWidthNoTitleLine(t *testing.T) {
	r := format.NewFixedWidth(bytes.NewReader([]byte("data\n")), false)
	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, line.Num)
	assert.Equal(t, "data", line.Field(0, 4))
}
