package hunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const updatePatch = `diff --git a/foo.txt b/foo.txt
index 1111111..2222222 100644
--- a/foo.txt
+++ b/foo.txt
@@ -1,3 +1,3 @@
 a
-b
+B
 c
`

const createPatch = `diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..3333333
--- /dev/null
+++ b/new.txt
@@ -0,0 +1,2 @@
+x
+y
`

func TestFromPatch_Update(t *testing.T) {
	files, err := FromPatch(updatePatch)
	require.NoError(t, err)
	require.Len(t, files, 1)

	parsed := files[0]
	assert.Equal(t, "foo.txt", parsed.Path)
	assert.Equal(t, OpUpdate, parsed.Operation)
	require.Len(t, parsed.Hunks, 1)
	assert.Equal(t, "@@ -1,3 +1,3 @@", parsed.Hunks[0].Header)

	assert.Equal(t, "a\nB\nc\n", Apply("a\nb\nc\n", parsed, []int{0}))
	assert.Equal(t, "a\nb\nc\n", Apply("a\nb\nc\n", parsed, nil))
}

func TestFromPatch_Create(t *testing.T) {
	files, err := FromPatch(createPatch)
	require.NoError(t, err)
	require.Len(t, files, 1)

	parsed := files[0]
	assert.Equal(t, "new.txt", parsed.Path)
	assert.Equal(t, OpCreate, parsed.Operation)
	assert.Equal(t, "x\ny\n", Apply("", parsed, []int{0}))
}

func TestFromPatch_MultipleFiles(t *testing.T) {
	files, err := FromPatch(updatePatch + createPatch)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "foo.txt", files[0].Path)
	assert.Equal(t, "new.txt", files[1].Path)
}

func TestFromPatch_Empty(t *testing.T) {
	files, err := FromPatch("")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFromPatch_MatchesUnifiedRendering(t *testing.T) {
	parsed := Parse("a\nb\nc\n", "a\nB\nc\n", "foo.txt", OpUpdate)

	files, err := FromPatch("diff --git a/foo.txt b/foo.txt\n" + parsed.Unified())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, parsed.Hunks, files[0].Hunks)
}
