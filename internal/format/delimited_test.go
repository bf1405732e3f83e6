package format_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcanon/refcanon/internal/format"
)

func TestDelimitedReader(t *testing.T) {
	src := "\xef\xbb\xbf" + // BOM must be stripped
		"CODEVALUE,PREFLABEL_FI,PREFLABEL_SE,STATUS\n" +
		"091, Helsinki ,Helsingfors,VALID\n" +
		"049,Espoo,Esbo,\n"

	r, err := format.NewDelimited(strings.NewReader(src))
	require.NoError(t, err)
	require.NoError(t, r.Require("CODEVALUE", "PREFLABEL_FI"))

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "091", row.Get("CODEVALUE"))
	assert.Equal(t, "Helsinki", row.Get("PREFLABEL_FI"), "values are trimmed")
	assert.Equal(t, 2, row.Line())
	assert.True(t, row.Has("STATUS"))
	assert.False(t, row.Has("PREFLABEL_EN"))
	assert.Equal(t, "", row.Get("PREFLABEL_EN"))

	row, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "049", row.Get("CODEVALUE"))
	assert.Equal(t, "", row.Get("STATUS"))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDelimitedReaderHeaders(t *testing.T) {
	src := "CODEVALUE,PREFLABEL_FI,PREFLABEL_SE,PREFLABEL_EN\n1,a,b,c\n"
	r, err := format.NewDelimited(strings.NewReader(src))
	require.NoError(t, err)

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"CODEVALUE", "PREFLABEL_FI", "PREFLABEL_SE", "PREFLABEL_EN"}, row.Headers())
}

func TestDelimitedReaderMissingRequiredHeader(t *testing.T) {
	r, err := format.NewDelimited(strings.NewReader("CODEVALUE,STATUS\n091,VALID\n"))
	require.NoError(t, err)

	err = r.Require("CODEVALUE", "PREFLABEL_FI")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREFLABEL_FI")
}

func TestDelimitedReaderEmptySource(t *testing.T) {
	_, err := format.NewDelimited(strings.NewReader(""))
	require.Error(t, err)
}

func TestDelimitedReaderRaggedRows(t *testing.T) {
	// Rows with a differing column count are not fatal; the missing
	// trailing columns read as empty.
	src := "CODEVALUE,PREFLABEL_FI,PREFLABEL_SE\n091,Helsinki\n"
	r, err := format.NewDelimited(strings.NewReader(src))
	require.NoError(t, err)

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Helsinki", row.Get("PREFLABEL_FI"))
	assert.Equal(t, "", row.Get("PREFLABEL_SE"))
}
