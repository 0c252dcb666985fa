package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileReader_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"a","count":2}`), 0o644))

	fr := &FileReader[doc]{fileFlagValue: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, doc{Name: "a", Count: 2}, got)
}

func TestFileReader_MissingFile(t *testing.T) {
	fr := &FileReader[doc]{fileFlagValue: filepath.Join(t.TempDir(), "nope.json")}
	_, err := fr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}

func TestFileReader_FromStdin(t *testing.T) {
	fr := &FileReader[doc]{stdin: strings.NewReader(`{"name":"piped"}`)}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "piped", got.Name)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode[doc](strings.NewReader(`{"name":"a","colour":"red"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode JSON")
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, doc{Name: "x", Count: 1}))
	assert.Equal(t, "{\n  \"name\": \"x\",\n  \"count\": 1\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalError(t *testing.T) {
	var out, errOut bytes.Buffer
	err := WriteWith(&out, &errOut, map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), `"json_error"`)
}
