package output

import (
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// noteColumn is the column file notes are aligned to.
const noteColumn = 30

type fileNode struct {
	name     string
	note     string
	dir      bool
	children []*fileNode
}

// add walks down parts, creating nodes as needed, and returns the last one.
func (n *fileNode) add(parts []string) *fileNode {
	cur := n
	for i, part := range parts {
		idx := slices.IndexFunc(cur.children, func(c *fileNode) bool { return c.name == part })
		if idx < 0 {
			cur.children = append(cur.children, &fileNode{name: part})
			idx = len(cur.children) - 1
		}
		cur = cur.children[idx]
		if i < len(parts)-1 {
			cur.dir = true
		}
	}
	return cur
}

// RenderFileTree draws the planned files of project as a tree. files maps
// slash separated paths to an optional note; a trailing slash marks an
// empty directory. Directories list before files.
func RenderFileTree(project string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	root := &fileNode{name: project, dir: true}
	for p, note := range files {
		p = filepath.ToSlash(p)
		leaf := root.add(strings.Split(path.Clean(p), "/"))
		leaf.note = note
		if strings.HasSuffix(p, "/") {
			leaf.dir = true
		}
	}

	var sb strings.Builder
	sb.WriteString(StyleSummary.Render(project + "/"))
	sb.WriteByte('\n')
	writeChildren(&sb, root, "")
	return sb.String()
}

func writeChildren(sb *strings.Builder, n *fileNode, indent string) {
	slices.SortFunc(n.children, func(a, b *fileNode) int {
		if a.dir != b.dir {
			if a.dir {
				return -1
			}
			return 1
		}
		return strings.Compare(a.name, b.name)
	})

	for i, c := range n.children {
		branch, next := "├── ", "│   "
		if i == len(n.children)-1 {
			branch, next = "└── ", "    "
		}

		line := indent + branch + c.name
		if c.dir {
			line += "/"
		}
		if c.note != "" {
			line += strings.Repeat(" ", max(noteColumn-len(line), 2)) + StyleDim.Render(c.note)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')

		writeChildren(sb, c, indent+next)
	}
}
