package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFileTree(t *testing.T) {
	files := map[string]string{
		"render.yaml":           "Render blueprint",
		"node-api/":             "",
		"node-api/src/index.ts": "",
		"README.md":             "Project readme",
	}

	out := RenderFileTree("demo", files)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Contains(t, lines[0], "demo/")
	// Directories sort before files.
	assert.Contains(t, lines[1], "node-api/")
	assert.Contains(t, out, "└── index.ts")
	assert.Contains(t, out, "Render blueprint")
}

func TestRenderFileTree_Nesting(t *testing.T) {
	out := RenderFileTree("demo", map[string]string{
		"a/b.txt":   "",
		"a/c/d.txt": "",
		"z.txt":     "",
	})

	assert.Equal(t, strings.Join([]string{
		"├── a/",
		"│   ├── c/",
		"│   │   └── d.txt",
		"│   └── b.txt",
		"└── z.txt",
	}, "\n")+"\n", strings.SplitN(out, "\n", 2)[1])
}

func TestRenderFileTree_ForcedDirectory(t *testing.T) {
	out := RenderFileTree("demo", map[string]string{"frontend/": "Frontend"})
	assert.Contains(t, out, "frontend/")
}

func TestRenderFileTree_Empty(t *testing.T) {
	assert.Empty(t, RenderFileTree("demo", nil))
}
