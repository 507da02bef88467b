// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/render-examples/create-demo/internal/registry"
)

// Registry loads the embedded catalog or fails the test.
func Registry(t testing.TB) *registry.Registry {
	t.Helper()
	r, err := registry.Default()
	require.NoError(t, err)
	return r
}

// WriteFiles writes path to content pairs into fsys.
func WriteFiles(t testing.TB, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for p, content := range files {
		require.NoError(t, afero.WriteFile(fsys, p, []byte(content), 0o644))
	}
}

// ReadFile returns the content of path in fsys or fails the test.
func ReadFile(t testing.TB, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}
