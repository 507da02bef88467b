package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	tbl := NewTable("KIND", "ID", "RUNTIME").
		Row("api", "fastify", "node").
		Row("api", "fastapi", "python")

	out := tbl.String()
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "fastify")
	assert.Contains(t, out, "python")
	assert.Less(t, strings.Index(out, "fastify"), strings.Index(out, "fastapi"))
}

func TestTable_HeadersOnly(t *testing.T) {
	out := NewTable("KIND", "ID").String()
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "ID")
}
