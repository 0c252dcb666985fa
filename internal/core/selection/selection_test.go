package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectAllHunksInFile(t *testing.T) {
	m := New().SelectAllHunksInFile(2, 3)

	assert.True(t, m.FileSelected(2))
	assert.Equal(t, []int{0, 1, 2}, m.Hunks(2))
}

func TestSelectAllHunksInFile_ZeroHunks(t *testing.T) {
	m := New().SelectAllHunksInFile(0, 0)

	assert.True(t, m.FileSelected(0))
	assert.Empty(t, m.Hunks(0))
}

func TestSetHunkSelected_PartialKeepsFileIncluded(t *testing.T) {
	m := New().SelectAllHunksInFile(0, 3)
	m = m.SetHunkSelected(0, 1, false)

	assert.Equal(t, []int{0, 2}, m.Hunks(0))
	assert.True(t, m.FileSelected(0))
	assert.True(t, m.IsPartial(0, 3))
}

func TestSetHunkSelected_LastHunkExcludesFile(t *testing.T) {
	m := New().SelectAllHunksInFile(0, 2)
	m = m.SetHunkSelected(0, 0, false)
	m = m.SetHunkSelected(0, 1, false)

	assert.False(t, m.FileSelected(0))
	assert.Empty(t, m.Hunks(0))
}

func TestSetHunkSelected_IncludesFile(t *testing.T) {
	m := New().SetHunkSelected(4, 2, true)

	assert.True(t, m.FileSelected(4))
	assert.Equal(t, []int{2}, m.Hunks(4))
	assert.True(t, m.HunkSelected(4, 2))
	assert.False(t, m.HunkSelected(4, 1))
}

func TestSetFileSelected(t *testing.T) {
	m := New().SetFileSelected(1, true, 4)
	assert.True(t, m.FileSelected(1))
	assert.Equal(t, []int{0, 1, 2, 3}, m.Hunks(1))

	m = m.SetFileSelected(1, false, 4)
	assert.False(t, m.FileSelected(1))
	assert.Empty(t, m.Hunks(1))
}

func TestDeselectAllHunksInFile(t *testing.T) {
	m := NewFull([]int{2, 3})
	m = m.DeselectAllHunksInFile(1)

	assert.False(t, m.FileSelected(1))
	assert.Empty(t, m.Hunks(1))
	assert.True(t, m.FileSelected(0))
	assert.Equal(t, []int{0}, m.IncludedFiles())
}

func TestToggleHunk(t *testing.T) {
	m := NewFull([]int{2})
	m = m.ToggleHunk(0, 0)
	assert.Equal(t, []int{1}, m.Hunks(0))

	m = m.ToggleHunk(0, 0)
	assert.Equal(t, []int{0, 1}, m.Hunks(0))
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	base := NewFull([]int{3})

	_ = base.SetHunkSelected(0, 1, false)
	_ = base.DeselectAllHunksInFile(0)
	_ = base.SetFileSelected(0, false, 3)

	assert.True(t, base.FileSelected(0))
	assert.Equal(t, []int{0, 1, 2}, base.Hunks(0))
}

func TestZeroValueModel(t *testing.T) {
	var m Model

	assert.False(t, m.FileSelected(0))
	assert.Empty(t, m.Hunks(0))

	m = m.SetHunkSelected(0, 0, true)
	assert.True(t, m.FileSelected(0))
}

func TestNewFull(t *testing.T) {
	m := NewFull([]int{1, 0, 2})

	assert.Equal(t, []int{0, 1, 2}, m.IncludedFiles())
	assert.Equal(t, []int{0}, m.Hunks(0))
	assert.Empty(t, m.Hunks(1))
	assert.Equal(t, []int{0, 1}, m.Hunks(2))
	assert.False(t, m.IsPartial(2, 2))
}
