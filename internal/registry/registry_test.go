package registry

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/render-examples/create-demo/internal/errors"
)

func TestDefault(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	assert.Equal(t, DefaultLocation, r.Location())
	assert.Equal(t, []string{"nextjs", "vite"}, r.IDs(KindFrontend))
	assert.Equal(t, []string{"fastapi", "fastify"}, r.IDs(KindAPI))
	assert.Equal(t, []string{"cron-py", "cron-ts", "worker-py", "worker-ts", "workflow-py", "workflow-ts"}, r.IDs(KindWorker))
	assert.Equal(t, []string{"postgres"}, r.IDs(KindDatabase))
	assert.Equal(t, []string{"redis"}, r.IDs(KindCache))
	assert.Equal(t, []string{"fastapi", "fastify-api", "multi-api", "next-frontend", "next-fullstack", "vite-spa"}, r.PresetIDs())
}

func TestDefault_Presets(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	p, ok := r.Preset("next-fullstack")
	require.True(t, ok)
	assert.Equal(t, "next-fullstack", p.ID)
	assert.Equal(t, "nextjs", p.Frontend)
	assert.Equal(t, DeployWebservice, p.Deploy)
	assert.Equal(t, "postgres", p.Database)
	assert.Equal(t, []string{"env"}, p.Extras)

	p, ok = r.Preset("multi-api")
	require.True(t, ok)
	assert.Empty(t, p.Frontend)
	assert.Equal(t, []string{"fastify", "fastapi"}, p.APIs)

	_, ok = r.Preset("nope")
	assert.False(t, ok)
	assert.Len(t, r.Presets(), 6)
}

func TestLoad_NullEntry(t *testing.T) {
	require.NotPanics(t, func() {
		_, err := Load([]byte("frontends:\n  broken:\n"), "catalog.yaml")
		require.Error(t, err)
	})
}

func TestDefault_Contents(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	t.Run("nextjs supports both deploy types", func(t *testing.T) {
		f, ok := r.Frontend("nextjs")
		require.True(t, ok)
		assert.Equal(t, "nextjs", f.ID)
		assert.Equal(t, []DeployType{DeployStatic, DeployWebservice}, f.DeployTypes())
		assert.Equal(t, "out", f.BlueprintStatic.StaticPublishPath)
		assert.Equal(t, "npm start", f.BlueprintWebservice.StartCommand)
	})

	t.Run("vite is static only", func(t *testing.T) {
		f, ok := r.Frontend("vite")
		require.True(t, ok)
		assert.Equal(t, []DeployType{DeployStatic}, f.DeployTypes())
		assert.False(t, f.Supports(DeployWebservice))
	})

	t.Run("fastify has a database overlay", func(t *testing.T) {
		a, ok := r.API("fastify")
		require.True(t, ok)
		assert.Equal(t, "node-api", a.Subdir)
		assert.Equal(t, RuntimeNode, a.Runtime)
		require.NotNil(t, a.WithDatabase)
		assert.Equal(t, []string{"drizzle"}, a.WithDatabase.Rules)
		assert.Contains(t, a.Dependencies, "fastify")
	})

	t.Run("workflow workers have no blueprint", func(t *testing.T) {
		for _, id := range []string{"workflow-ts", "workflow-py"} {
			w, ok := r.Worker(id)
			require.True(t, ok)
			assert.Equal(t, WorkerTypeWorkflow, w.WorkerType)
			assert.Nil(t, w.Blueprint)
		}
	})

	t.Run("cron workers are scheduled", func(t *testing.T) {
		w, ok := r.Worker("cron-ts")
		require.True(t, ok)
		require.NotNil(t, w.Blueprint)
		assert.Equal(t, ServiceCron, w.Blueprint.Type)
		assert.NotEmpty(t, w.Blueprint.Schedule)
	})

	t.Run("database name template", func(t *testing.T) {
		d, ok := r.Database("postgres")
		require.True(t, ok)
		assert.Equal(t, "{{PROJECT_NAME}}-db", d.NameTemplate)
		assert.Equal(t, "16", d.Blueprint.PostgresMajorVersion)
	})
}

func TestLookup(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	c, ok := r.Lookup(KindAPI, "fastapi")
	require.True(t, ok)
	assert.Equal(t, KindAPI, c.Kind())
	assert.Equal(t, "FastAPI", c.Meta().Name)

	_, ok = r.Lookup(KindCache, "memcached")
	assert.False(t, ok)

	_, ok = r.Lookup(Kind("plugin"), "x")
	assert.False(t, ok)
}

func TestComponents_Order(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	comps := r.Components()
	require.NotEmpty(t, comps)
	assert.Equal(t, KindFrontend, comps[0].Kind())
	assert.Equal(t, KindCache, comps[len(comps)-1].Kind())
}

func TestLoad_JSON(t *testing.T) {
	data := []byte(`{
		"apis": {"go-api": {"name": "Go", "subdir": "go-api", "runtime": "node"}},
		"databases": {"pg": {"name": "PG", "nameTemplate": "{{PROJECT_NAME}}-pg"}}
	}`)

	r, err := Load(data, "custom.json")
	require.NoError(t, err)
	a, ok := r.API("go-api")
	require.True(t, ok)
	assert.Equal(t, "go-api", a.ID)
	assert.Empty(t, r.IDs(KindFrontend))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		problem string
	}{
		{
			name:    "unknown field",
			data:    "apis:\n  a:\n    name: A\n    subdir: a\n    runtime: node\n    colour: red\n",
			problem: "colour",
		},
		{
			name:    "missing subdir",
			data:    "apis:\n  a:\n    name: A\n    runtime: node\n",
			problem: "apis.a: subdir is required",
		},
		{
			name:    "shared api subdir",
			data:    "apis:\n  a:\n    name: A\n    subdir: api\n    runtime: node\n  b:\n    name: B\n    subdir: api\n    runtime: python\n",
			problem: `apis.b: subdir "api" already used by a`,
		},
		{
			name:    "unknown runtime",
			data:    "workers:\n  w:\n    name: W\n    subdir: w\n    runtime: ruby\n    workerType: worker\n",
			problem: `workers.w: unknown runtime "ruby"`,
		},
		{
			name:    "workflow with blueprint",
			data:    "workers:\n  w:\n    name: W\n    subdir: w\n    runtime: node\n    workerType: workflow\n    blueprint:\n      type: worker\n      runtime: node\n",
			problem: "workflow workers cannot declare a blueprint",
		},
		{
			name:    "cron without schedule",
			data:    "workers:\n  c:\n    name: C\n    subdir: c\n    runtime: node\n    workerType: cron\n    blueprint:\n      type: cron\n      runtime: node\n",
			problem: "cron workers need a blueprint with a schedule",
		},
		{
			name:    "frontend webservice flag mismatch",
			data:    "frontends:\n  f:\n    name: F\n    supportsWebservice: true\n    blueprintStatic:\n      type: web\n      runtime: static\n      staticPublishPath: out\n",
			problem: "supportsWebservice must match",
		},
		{
			name:    "frontend without fragments",
			data:    "frontends:\n  f:\n    name: F\n",
			problem: "needs blueprintStatic or blueprintWebservice",
		},
		{
			name:    "static fragment with start command",
			data:    "frontends:\n  f:\n    name: F\n    blueprintStatic:\n      type: web\n      runtime: static\n      staticPublishPath: out\n      startCommand: npm start\n",
			problem: "blueprintStatic needs staticPublishPath and no startCommand",
		},
		{
			name:    "database without name template",
			data:    "databases:\n  pg:\n    name: PG\n",
			problem: "databases.pg: nameTemplate is required",
		},
		{
			name:    "null frontend",
			data:    "frontends:\n  broken:\n",
			problem: "frontends.broken: empty entry",
		},
		{
			name:    "null api",
			data:    "apis:\n  broken:\n",
			problem: "apis.broken: empty entry",
		},
		{
			name:    "null worker",
			data:    "workers:\n  broken: null\n",
			problem: "workers.broken: empty entry",
		},
		{
			name:    "null database",
			data:    "databases:\n  broken:\n",
			problem: "databases.broken: nameTemplate is required",
		},
		{
			name:    "null preset",
			data:    "presets:\n  broken:\n",
			problem: "presets.broken: empty entry",
		},
		{
			name:    "preset with unknown frontend",
			data:    "presets:\n  p:\n    name: P\n    frontend: astro\n",
			problem: `presets.p: unknown frontend "astro"`,
		},
		{
			name:    "preset with unknown api",
			data:    "presets:\n  p:\n    name: P\n    apis: [gin]\n",
			problem: `presets.p: unknown api "gin"`,
		},
		{
			name:    "preset with unsupported deploy",
			data:    "frontends:\n  f:\n    name: F\n    blueprintStatic:\n      type: web\n      runtime: static\n      staticPublishPath: out\npresets:\n  p:\n    name: P\n    frontend: f\n    deploy: webservice\n",
			problem: `presets.p: frontend f does not support deploy "webservice"`,
		},
		{
			name:    "preset selecting nothing",
			data:    "presets:\n  p:\n    name: P\n    extras: [env]\n",
			problem: "presets.p: selects no component",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data), "catalog.yaml")
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrInvalidRegistry))
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/catalog.yaml", defaultCatalog, 0o644))

	r, err := LoadFile(fs, "/cfg/catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/cfg/catalog.yaml", r.Location())

	_, err = LoadFile(fs, "/cfg/missing.yaml")
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestRuntimeTag(t *testing.T) {
	assert.Equal(t, "ts", RuntimeNode.Tag())
	assert.Equal(t, "py", RuntimePython.Tag())
}

func TestPostCreateFilesFor(t *testing.T) {
	p := PostCreate{
		Files:           map[string]string{"app/page.tsx": "next/page.tsx", "app/layout.tsx": "next/layout.tsx"},
		FilesStatic:     map[string]string{"next.config.ts": "next/next.config.static.ts"},
		FilesWebservice: map[string]string{"app/page.tsx": "next/page-fullstack.tsx"},
	}

	static := p.FilesFor(DeployStatic)
	assert.Equal(t, "next/next.config.static.ts", static["next.config.ts"])
	assert.Equal(t, "next/page.tsx", static["app/page.tsx"])

	web := p.FilesFor(DeployWebservice)
	assert.NotContains(t, web, "next.config.ts")
	assert.Equal(t, "next/page-fullstack.tsx", web["app/page.tsx"])
	assert.Len(t, p.Files, 2)
}
