package resolver

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/registry"
	"github.com/render-examples/create-demo/internal/testutil"
)

func TestResolve_OrderAndSubdirs(t *testing.T) {
	reg := testutil.Registry(t)

	plan, err := Resolve(Selection{
		ProjectName: "demo",
		Frontend:    "nextjs",
		APIs:        []string{"fastapi", "fastify"},
		Workers:     []string{"worker-ts", "worker-py", "cron-py"},
		Database:    "postgres",
	}, reg)
	require.NoError(t, err)

	var got []string
	for _, c := range plan.Components {
		got = append(got, string(c.Kind)+":"+c.ID+":"+c.Subdir)
	}
	assert.Equal(t, []string{
		"frontend:nextjs:frontend",
		"api:fastapi:python-api",
		"api:fastify:node-api",
		"worker:worker-ts:worker-ts",
		"worker:worker-py:worker-py",
		"worker:cron-py:cron-py",
	}, got)

	assert.Equal(t, registry.DeployStatic, plan.DeployType)
	assert.True(t, plan.HasDatabase())
	assert.False(t, plan.HasCache())
	assert.Equal(t, "demo-db", plan.DatabaseName())
	assert.Empty(t, plan.CacheName())
	assert.Equal(t, "demo", plan.Dir)
}

func TestResolve_Errors(t *testing.T) {
	reg := testutil.Registry(t)

	tests := []struct {
		name     string
		sel      Selection
		sentinel error
		contains string
	}{
		{"empty name", Selection{}, oerrors.ErrInvalidProjectName, "must not be empty"},
		{"bad charset", Selection{ProjectName: "my app"}, oerrors.ErrInvalidProjectName, "letters, digits"},
		{"path traversal", Selection{ProjectName: "../x"}, oerrors.ErrInvalidProjectName, "letters, digits"},
		{"unknown frontend", Selection{ProjectName: "p", Frontend: "angular"}, oerrors.ErrUnknownComponent, "angular"},
		{
			"unsupported variant",
			Selection{ProjectName: "p", Frontend: "vite", DeployType: registry.DeployWebservice},
			oerrors.ErrUnsupportedVariant, "static",
		},
		{
			"unknown deploy type",
			Selection{ProjectName: "p", Frontend: "nextjs", DeployType: "edge"},
			oerrors.ErrUnsupportedVariant, "edge",
		},
		{"unknown api", Selection{ProjectName: "p", APIs: []string{"rails"}}, oerrors.ErrUnknownComponent, "rails"},
		{"duplicate api", Selection{ProjectName: "p", APIs: []string{"fastify", "fastify"}}, oerrors.ErrDuplicateComponent, "more than once"},
		{"unknown worker", Selection{ProjectName: "p", Workers: []string{"sidekiq"}}, oerrors.ErrUnknownComponent, "sidekiq"},
		{"duplicate worker id", Selection{ProjectName: "p", Workers: []string{"cron-ts", "cron-ts"}}, oerrors.ErrDuplicateWorker, "more than once"},
		{"unknown database", Selection{ProjectName: "p", Database: "mysql"}, oerrors.ErrUnknownComponent, "mysql"},
		{"unknown cache", Selection{ProjectName: "p", Cache: "memcached"}, oerrors.ErrUnknownComponent, "memcached"},
		{"unknown extra", Selection{ProjectName: "p", Extras: []string{"k8s"}}, oerrors.ErrUnknownComponent, "k8s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.sel, reg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestResolve_ErrorOrder(t *testing.T) {
	reg := testutil.Registry(t)

	// The name is checked before any component.
	_, err := Resolve(Selection{ProjectName: "bad name", Frontend: "nope"}, reg)
	assert.True(t, errors.Is(err, oerrors.ErrInvalidProjectName))

	// Frontend before apis.
	_, err = Resolve(Selection{ProjectName: "p", Frontend: "nope", APIs: []string{"nope"}}, reg)
	assert.Contains(t, err.Error(), "frontend")
}

func TestResolve_SameRuntimeSameSubdir(t *testing.T) {
	data := []byte(`
workers:
  queue-a:
    name: A
    subdir: queue
    runtime: node
    workerType: worker
    blueprint: {type: worker, runtime: node, startCommand: "npm start"}
  queue-b:
    name: B
    subdir: queue
    runtime: node
    workerType: worker
    blueprint: {type: worker, runtime: node, startCommand: "npm start"}
  queue-py:
    name: C
    subdir: queue
    runtime: python
    workerType: worker
    blueprint: {type: worker, runtime: python, startCommand: "python queue.py"}
`)
	reg, err := registry.Load(data, "test.yaml")
	require.NoError(t, err)

	plan, err := Resolve(Selection{ProjectName: "p", Workers: []string{"queue-a", "queue-py"}}, reg)
	require.NoError(t, err)
	assert.Equal(t, "queue-ts", plan.Components[0].Subdir)
	assert.Equal(t, "queue-py", plan.Components[1].Subdir)

	_, err = Resolve(Selection{ProjectName: "p", Workers: []string{"queue-a", "queue-b"}}, reg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrDuplicateWorker))
	assert.Contains(t, err.Error(), "queue-ts/")
}

func TestResolve_SubdirConflictAcrossKinds(t *testing.T) {
	data := []byte(`
frontends:
  fe:
    name: FE
    blueprintStatic: {type: web, runtime: static, buildCommand: "npm run build", staticPublishPath: dist}
apis:
  a:
    name: A
    subdir: frontend
    runtime: node
  b:
    name: B
    subdir: worker-ts
    runtime: node
  c:
    name: C
    subdir: c-api
    runtime: node
workers:
  w:
    name: W
    subdir: worker
    runtime: node
    workerType: worker
    blueprint: {type: worker, runtime: node, startCommand: "npm start"}
`)
	reg, err := registry.Load(data, "test.yaml")
	require.NoError(t, err)

	tests := []struct {
		name     string
		sel      Selection
		contains string
	}{
		{
			name:     "api on the frontend directory",
			sel:      Selection{ProjectName: "p", Frontend: "fe", APIs: []string{"a"}},
			contains: `frontend "fe" and api "a" both write to frontend/`,
		},
		{
			name:     "worker on an api directory",
			sel:      Selection{ProjectName: "p", APIs: []string{"b"}, Workers: []string{"w"}},
			contains: `api "b" and worker "w" both write to worker-ts/`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.sel, reg)
			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrDuplicateComponent)
			assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	plan, err := Resolve(Selection{ProjectName: "p", Frontend: "fe", APIs: []string{"c"}, Workers: []string{"w"}}, reg)
	require.NoError(t, err)
	assert.Len(t, plan.Components, 3)
}

func TestSelection_WithPreset(t *testing.T) {
	preset := &registry.Preset{
		ID:       "next-fullstack",
		Frontend: "nextjs",
		Deploy:   registry.DeployWebservice,
		APIs:     []string{"fastify"},
		Database: "postgres",
		Extras:   []string{ExtraEnv},
	}

	tests := []struct {
		name string
		sel  Selection
		want Selection
	}{
		{
			name: "empty selection takes the preset",
			sel:  Selection{ProjectName: "demo"},
			want: Selection{
				ProjectName: "demo",
				Frontend:    "nextjs",
				DeployType:  registry.DeployWebservice,
				APIs:        []string{"fastify"},
				Database:    "postgres",
				Extras:      []string{ExtraEnv},
			},
		},
		{
			name: "chosen fields win and lists join",
			sel: Selection{
				ProjectName: "demo",
				DeployType:  registry.DeployStatic,
				APIs:        []string{"fastapi", "fastify"},
				Cache:       "redis",
				Extras:      []string{ExtraDocker, ExtraEnv},
			},
			want: Selection{
				ProjectName: "demo",
				Frontend:    "nextjs",
				DeployType:  registry.DeployStatic,
				APIs:        []string{"fastify", "fastapi"},
				Database:    "postgres",
				Cache:       "redis",
				Extras:      []string{ExtraEnv, ExtraDocker},
			},
		},
		{
			name: "other frontend keeps its own deploy",
			sel:  Selection{ProjectName: "demo", Frontend: "vite"},
			want: Selection{
				ProjectName: "demo",
				Frontend:    "vite",
				APIs:        []string{"fastify"},
				Database:    "postgres",
				Extras:      []string{ExtraEnv},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.WithPreset(preset))
		})
	}

	sel := Selection{ProjectName: "demo", APIs: []string{"fastify"}}
	assert.Equal(t, sel, sel.WithPreset(nil))
}

func TestResolve_DefaultPresets(t *testing.T) {
	reg := testutil.Registry(t)

	for _, p := range reg.Presets() {
		t.Run(p.ID, func(t *testing.T) {
			plan, err := Resolve(Selection{ProjectName: "demo"}.WithPreset(p), reg)
			require.NoError(t, err)
			assert.NotEmpty(t, plan.Components)
		})
	}
}

func TestResolver_TargetDirExists(t *testing.T) {
	reg := testutil.Registry(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work/taken", 0o755))

	r := New(reg, fs, "/work")

	_, err := r.Resolve(Selection{ProjectName: "taken"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrInvalidProjectName))
	assert.Contains(t, err.Error(), "already exists")

	plan, err := r.Resolve(Selection{ProjectName: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, "/work/fresh", plan.Dir)
	assert.True(t, Selection{ProjectName: "fresh"}.Empty())

	// Resolution never creates anything.
	_, statErr := fs.Stat("/work/fresh")
	assert.Error(t, statErr)
}

func TestResolve_WebserviceAndExtras(t *testing.T) {
	reg := testutil.Registry(t)

	plan, err := Resolve(Selection{
		ProjectName: "p",
		Frontend:    "nextjs",
		DeployType:  registry.DeployWebservice,
		Extras:      []string{"docker", "env", "docker"},
	}, reg)
	require.NoError(t, err)

	assert.Equal(t, registry.DeployWebservice, plan.DeployType)
	assert.Equal(t, []string{"docker", "env"}, plan.Extras)
	assert.True(t, plan.HasExtra(ExtraEnv))

	fe, ok := plan.Frontend()
	require.True(t, ok)
	assert.Equal(t, "Next.js", fe.Meta().Name)
	assert.Nil(t, fe.Overlay())
}

func TestResolve_WorkersNeverCollide(t *testing.T) {
	reg := testutil.Registry(t)
	ids := reg.IDs(registry.KindWorker)

	rapid.Check(t, func(t *rapid.T) {
		picked := rapid.SliceOfNDistinct(rapid.SampledFrom(ids), 0, len(ids), rapid.ID[string]).Draw(t, "workers")

		plan, err := Resolve(Selection{ProjectName: "p", Workers: picked}, reg)
		if err != nil {
			t.Fatalf("distinct catalog workers must resolve: %v", err)
		}

		seen := make(map[string]bool)
		for _, c := range plan.OfKind(registry.KindWorker) {
			if seen[c.Subdir] {
				t.Fatalf("subdir %s used twice", c.Subdir)
			}
			seen[c.Subdir] = true
		}
		if len(seen) != len(picked) {
			t.Fatalf("expected %d workers, got %d", len(picked), len(seen))
		}
	})
}
