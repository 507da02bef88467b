// Package templates provides the embedded template store used to scaffold
// project files, with an optional directory overlay.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"

	oerrors "github.com/render-examples/create-demo/internal/errors"
)

//go:embed all:files
var embedded embed.FS

// VarProjectName is substituted with the project name.
const VarProjectName = "PROJECT_NAME"

// binaryExtensions are copied verbatim without substitution.
var binaryExtensions = map[string]bool{
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".gif":   true,
	".ico":   true,
	".webp":  true,
	".woff":  true,
	".woff2": true,
	".ttf":   true,
	".eot":   true,
	".pdf":   true,
	".zip":   true,
}

// IsBinary reports whether a template path is copied without substitution.
func IsBinary(p string) bool {
	return binaryExtensions[strings.ToLower(path.Ext(p))]
}

// Store reads templates by slash-separated path.
type Store struct {
	fs afero.Fs
}

// NewStore wraps an arbitrary filesystem rooted at the template directory.
func NewStore(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

// Embedded returns a store over the built-in templates.
func Embedded() *Store {
	return NewStore(embeddedFs())
}

// WithOverlay returns a store where files under dir on osFs shadow the
// built-in templates. An empty dir returns the embedded store.
func WithOverlay(osFs afero.Fs, dir string) (*Store, error) {
	if dir == "" {
		return Embedded(), nil
	}
	info, err := osFs.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewNotFoundError("template overlay directory does not exist", dir, "Check the templates setting or --templates flag.")
		}
		return nil, fmt.Errorf("checking template overlay %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, oerrors.NewValidationError("template overlay is not a directory", dir, "templates", "")
	}

	layer := afero.NewReadOnlyFs(afero.NewBasePathFs(osFs, dir))
	return NewStore(afero.NewCopyOnWriteFs(embeddedFs(), layer)), nil
}

func embeddedFs() afero.Fs {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		// The directory is part of the binary.
		panic(err)
	}
	return afero.NewReadOnlyFs(afero.FromIOFS{FS: sub})
}

// Exists reports whether a template file is present.
func (s *Store) Exists(p string) bool {
	info, err := s.fs.Stat(clean(p))
	return err == nil && !info.IsDir()
}

// Read returns the raw template bytes. A missing template yields an error
// wrapping ErrTemplateMissing.
func (s *Store) Read(p string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, clean(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("template %s: %w", p, oerrors.ErrTemplateMissing)
		}
		return nil, fmt.Errorf("reading template %s: %w", p, err)
	}
	return data, nil
}

// Render reads a template and replaces {{KEY}} placeholders with vars.
// Binary templates are returned unchanged.
func (s *Store) Render(p string, vars map[string]string) ([]byte, error) {
	data, err := s.Read(p)
	if err != nil {
		return nil, err
	}
	if IsBinary(p) || len(vars) == 0 {
		return data, nil
	}
	return []byte(Substitute(string(data), vars)), nil
}

// List returns the sorted file names directly under dir.
func (s *Store) List(dir string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, clean(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing templates in %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Substitute replaces every {{KEY}} in content with vars[KEY].
func Substitute(content string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

// clean converts p to an unrooted io/fs path.
func clean(p string) string {
	c := strings.TrimPrefix(path.Clean("/"+p), "/")
	if c == "" {
		return "."
	}
	return c
}
