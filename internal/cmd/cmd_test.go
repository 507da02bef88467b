package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/render-examples/create-demo/internal/cmdtypes"
	"github.com/render-examples/create-demo/internal/config"
	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/testutil"
)

type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) Run(_ context.Context, _ string, argv []string) error {
	r.calls = append(r.calls, argv)
	return nil
}

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command against gc with an isolated home and
// config path.
func execute(t *testing.T, gc *cmdtypes.GlobalConfig, stdin string, args ...string) result {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfig, "")

	if !hasFlag(args, "--config") {
		args = append(args, "--config", filepath.Join(home, ".create-demo", "config.yaml"))
	}

	var stdout, stderr bytes.Buffer
	root := newRootCmd(gc)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || strings.HasPrefix(a, name+"=") {
			return true
		}
	}
	return false
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
	assert.True(t, exitErr.Printed)
	return exitErr.Code
}

func memConfig() (*cmdtypes.GlobalConfig, afero.Fs, *recordingRunner) {
	fsys := afero.NewMemMapFs()
	runner := &recordingRunner{}
	return &cmdtypes.GlobalConfig{Fs: fsys, Runner: runner}, fsys, runner
}

var fullStackArgs = []string{"--frontend", "nextjs", "--api", "fastify", "--database", "postgres"}

func initProject(t *testing.T, gc *cmdtypes.GlobalConfig) {
	t.Helper()
	args := append([]string{"init", "demo", "--dir", "/work", "--skip-install"}, fullStackArgs...)
	res := execute(t, gc, "", args...)
	require.NoError(t, res.err, res.stderr)
}

func TestInit(t *testing.T) {
	gc, fsys, runner := memConfig()

	res := execute(t, gc, "", "init", "demo", "--dir", "/work", "--api", "fastify", "--database", "postgres")
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "Created demo")
	assert.Contains(t, res.stdout, "render.yaml")
	assert.Contains(t, testutil.ReadFile(t, fsys, "/work/demo/render.yaml"), "DATABASE_URL")
	assert.Contains(t, runner.calls, []string{"npm", "install"})
}

func TestInit_SkipInstall(t *testing.T) {
	gc, fsys, runner := memConfig()
	initProject(t, gc)

	assert.Empty(t, runner.calls)
	exists, err := afero.Exists(fsys, "/work/demo/.cursor/rules/general.mdc")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInit_Preset(t *testing.T) {
	gc, fsys, _ := memConfig()

	res := execute(t, gc, "", "init", "demo", "--dir", "/work", "--skip-install", "--preset", "next-fullstack")
	require.NoError(t, res.err, res.stderr)

	bp := testutil.ReadFile(t, fsys, "/work/demo/render.yaml")
	assert.Contains(t, bp, "npm start")
	assert.Contains(t, bp, "demo-db")
	exists, err := afero.Exists(fsys, "/work/demo/.env.example")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInit_DryRun(t *testing.T) {
	gc, fsys, runner := memConfig()

	res := execute(t, gc, "", "init", "demo", "--dir", "/work", "--frontend", "vite", "--dry-run")
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "Dry run")
	assert.Empty(t, runner.calls)
	exists, err := afero.DirExists(fsys, "/work/demo")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInit_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{
			name: "unknown api",
			args: []string{"init", "demo", "--api", "rails"},
			code: oerrors.ExitValidationError,
		},
		{
			name: "invalid name",
			args: []string{"init", "../demo", "--api", "fastify"},
			code: oerrors.ExitValidationError,
		},
		{
			name: "unknown preset",
			args: []string{"init", "demo", "--preset", "rails"},
			code: oerrors.ExitValidationError,
		},
		{
			name: "unsupported deploy type",
			args: []string{"init", "demo", "--frontend", "vite", "--deploy", "webservice"},
			code: oerrors.ExitValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc, fsys, _ := memConfig()

			res := execute(t, gc, "", append(tt.args, "--dir", "/work")...)
			require.Error(t, res.err)
			assert.Equal(t, tt.code, exitCode(t, res.err))

			exists, err := afero.DirExists(fsys, "/work")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestBlueprint(t *testing.T) {
	gc, _, _ := memConfig()

	res := execute(t, gc, "", append([]string{"blueprint", "demo"}, fullStackArgs...)...)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "demo-frontend")
	assert.Contains(t, res.stdout, "demo-db")
}

func TestBlueprint_Preset(t *testing.T) {
	gc, _, _ := memConfig()

	res := execute(t, gc, "", "blueprint", "demo", "-p", "multi-api", "--cache", "redis")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "demo-node-api")
	assert.Contains(t, res.stdout, "demo-python-api")
	assert.Contains(t, res.stdout, "demo-cache")
	assert.NotContains(t, res.stdout, "demo-frontend")
}

func TestBlueprint_JSON(t *testing.T) {
	gc, _, _ := memConfig()

	res := execute(t, gc, "", "blueprint", "demo", "--api", "fastapi", "-o", "json")
	require.NoError(t, res.err, res.stderr)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Contains(t, doc, "services")
}

func TestBlueprint_InvalidFormat(t *testing.T) {
	gc, _, _ := memConfig()

	res := execute(t, gc, "", "blueprint", "demo", "--api", "fastapi", "-o", "toml")
	assert.Equal(t, oerrors.ExitValidationError, exitCode(t, res.err))
}

func TestBlueprint_NothingDeployable(t *testing.T) {
	gc, _, _ := memConfig()

	res := execute(t, gc, "", "blueprint", "demo")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
}

func TestComponents(t *testing.T) {
	gc, _, _ := memConfig()

	res := execute(t, gc, "", "components")
	require.NoError(t, res.err, res.stderr)
	for _, id := range []string{"nextjs", "fastify", "fastapi", "postgres", "redis"} {
		assert.Contains(t, res.stdout, id)
	}
}

func TestComponents_KindFilter(t *testing.T) {
	gc, _, _ := memConfig()

	res := execute(t, gc, "", "components", "--kind", "database", "-o", "json")
	require.NoError(t, res.err, res.stderr)

	var rows []componentRow
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.NotEmpty(t, rows)
	for _, r := range rows {
		assert.EqualValues(t, "database", r.Kind)
	}
}

func TestComponents_Presets(t *testing.T) {
	gc, _, _ := memConfig()

	res := execute(t, gc, "", "components", "--kind", "preset", "-o", "json")
	require.NoError(t, res.err, res.stderr)

	var rows []componentRow
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Len(t, rows, 6)
	byID := map[string]componentRow{}
	for _, r := range rows {
		assert.EqualValues(t, "preset", r.Kind)
		byID[r.ID] = r
	}
	assert.Equal(t, "nextjs (webservice) + postgres", byID["next-fullstack"].Details)
	assert.Equal(t, "fastify + fastapi", byID["multi-api"].Details)
}

func TestComponents_UnknownKind(t *testing.T) {
	gc, _, _ := memConfig()

	res := execute(t, gc, "", "components", "--kind", "queue")
	assert.Equal(t, oerrors.ExitValidationError, exitCode(t, res.err))
}

func TestCheck(t *testing.T) {
	gc, fsys, _ := memConfig()
	initProject(t, gc)

	res := execute(t, gc, "", "check", "--dir", "/work/demo", "--ci")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "general.mdc")
	assert.Contains(t, res.stdout, "0 out of sync")

	testutil.WriteFiles(t, fsys, map[string]string{
		"/work/demo/.cursor/rules/general.mdc": "edited\n",
		"/work/demo/.cursor/rules/mine.mdc":    "my own rule\n",
	})

	res = execute(t, gc, "", "check", "--dir", "/work/demo")
	require.NoError(t, res.err, "without --ci drift is only reported")
	assert.Contains(t, res.stdout, "1 out of sync")
	assert.Contains(t, res.stdout, "1 custom")

	res = execute(t, gc, "", "check", "--dir", "/work/demo", "--ci")
	assert.Equal(t, oerrors.ExitOutOfSync, exitCode(t, res.err))
}

func TestSync(t *testing.T) {
	gc, fsys, _ := memConfig()
	initProject(t, gc)
	want := testutil.ReadFile(t, fsys, "/work/demo/.cursor/rules/general.mdc")
	testutil.WriteFiles(t, fsys, map[string]string{
		"/work/demo/.cursor/rules/general.mdc": "edited\n",
	})

	res := execute(t, gc, "", "sync", "--dir", "/work/demo", "--dry-run")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "would update 1")
	assert.Equal(t, "edited\n", testutil.ReadFile(t, fsys, "/work/demo/.cursor/rules/general.mdc"))

	res = execute(t, gc, "n\n", "sync", "--dir", "/work/demo")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Aborted")
	assert.Equal(t, "edited\n", testutil.ReadFile(t, fsys, "/work/demo/.cursor/rules/general.mdc"))

	res = execute(t, gc, "y\n", "sync", "--dir", "/work/demo")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Updated 1 file(s)")
	assert.Equal(t, want, testutil.ReadFile(t, fsys, "/work/demo/.cursor/rules/general.mdc"))

	res = execute(t, gc, "", "sync", "--dir", "/work/demo", "--force")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "up to date")
}

func TestDiff(t *testing.T) {
	gc, _, _ := memConfig()
	initProject(t, gc)

	args := append([]string{"diff", "demo", "--dir", "/work/demo"}, fullStackArgs...)
	res := execute(t, gc, "", args...)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "No differences.")

	res = execute(t, gc, "", append(args, "--cache", "redis")...)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "demo-cache")
}

func TestDiff_MissingFile(t *testing.T) {
	gc, _, _ := memConfig()

	res := execute(t, gc, "", "diff", "demo", "--dir", "/nowhere", "--api", "fastify")
	assert.Equal(t, oerrors.ExitNotFound, exitCode(t, res.err))
}

func TestVersion(t *testing.T) {
	res := execute(t, &cmdtypes.GlobalConfig{}, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "create-demo:")
	assert.Contains(t, res.stdout, "Version:")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	gc := &cmdtypes.GlobalConfig{}

	res := execute(t, gc, "", "config", "init", "--config", path)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigTemplate, string(data))
}

func TestConfigInit_Existing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skipInstall: true\n"), 0o600))

	res := execute(t, &cmdtypes.GlobalConfig{}, "", "config", "init", "--config", path)
	assert.Equal(t, oerrors.ExitValidationError, exitCode(t, res.err))
	assert.Contains(t, res.stderr, "already exists")

	res = execute(t, &cmdtypes.GlobalConfig{}, "", "config", "init", "--config", path, "--force")
	require.NoError(t, res.err, res.stderr)
}

func TestConfigVet(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		code    int
	}{
		{name: "default template", content: strPtr(config.DefaultConfigTemplate)},
		{name: "missing file", code: oerrors.ExitNotFound},
		{name: "unknown key", content: strPtr("colour: blue\n"), code: oerrors.ExitValidationError},
		{name: "bad deploy type", content: strPtr("defaults:\n  deploy: docker\n"), code: oerrors.ExitValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o600))
			}

			res := execute(t, &cmdtypes.GlobalConfig{}, "", "config", "vet", "--config", path)
			if tt.code == 0 {
				require.NoError(t, res.err, res.stderr)
				assert.Contains(t, res.stdout, "Config file is valid")
				return
			}
			assert.Equal(t, tt.code, exitCode(t, res.err))
		})
	}
}

func TestConfigDefaults_ApplyToSelection(t *testing.T) {
	gc, _, _ := memConfig()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  deploy: webservice\n"), 0o600))

	res := execute(t, gc, "", "blueprint", "demo", "--frontend", "nextjs", "--config", path)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "npm start")
	assert.NotContains(t, res.stdout, "staticPublishPath")
}

func strPtr(s string) *string { return &s }
