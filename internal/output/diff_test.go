package output

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
)

func TestDiffLines(t *testing.T) {
	diffs := DiffLines("a\nb\nc\n", "a\nx\nc\n")

	var inserted, deleted []string
	for _, d := range diffs {
		switch d.Op {
		case diffmatchpatch.DiffInsert:
			inserted = append(inserted, d.Text)
		case diffmatchpatch.DiffDelete:
			deleted = append(deleted, d.Text)
		}
	}

	assert.Equal(t, []string{"x"}, inserted)
	assert.Equal(t, []string{"b"}, deleted)
	assert.True(t, HasChanges(diffs))
}

func TestDiffLines_Identical(t *testing.T) {
	assert.False(t, HasChanges(DiffLines("same\n", "same\n")))
	assert.Empty(t, RenderLineDiff("same\n", "same\n"))
}

func TestRenderLineDiff(t *testing.T) {
	out := RenderLineDiff("old\n", "new\n")
	assert.Contains(t, out, "- old")
	assert.Contains(t, out, "+ new")
}
