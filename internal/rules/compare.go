package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/output"
)

// Status is the sync state of a tracked project file.
type Status string

const (
	StatusInSync    Status = "in-sync"
	StatusOutOfSync Status = "out-of-sync"
	// StatusCustom marks a project file without a matching template.
	StatusCustom Status = "custom"
)

// Source provides template contents.
type Source interface {
	Exists(path string) bool
	Read(path string) ([]byte, error)
}

// FileStatus compares one project file with its template.
type FileStatus struct {
	// Path is relative to the project directory.
	Path     string
	Template string
	Status   Status
	Local    string
	Want     string
}

// Diff renders the changes sync would apply.
func (f FileStatus) Diff() string {
	return output.RenderLineDiff(f.Local, f.Want)
}

// Summary counts statuses.
type Summary struct {
	InSync    int
	OutOfSync int
	Custom    int
}

// Summarize counts the statuses in files.
func Summarize(files []FileStatus) Summary {
	var s Summary
	for _, f := range files {
		switch f.Status {
		case StatusInSync:
			s.InSync++
		case StatusOutOfSync:
			s.OutOfSync++
		case StatusCustom:
			s.Custom++
		}
	}
	return s
}

// Compare checks every rule file under .cursor/rules and every tracked
// config file present in dir against the templates. Config files missing
// from the project are not reported.
func Compare(src Source, fsys afero.Fs, dir string) ([]FileStatus, error) {
	var out []FileStatus

	rulesDir := filepath.Join(dir, filepath.FromSlash(RulesDir))
	entries, err := afero.ReadDir(fsys, rulesDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", rulesDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".mdc") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		id := strings.TrimSuffix(name, ".mdc")
		st, err := compareFile(src, fsys, dir, RuleTarget(id), RuleTemplate(id))
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}

	for _, cf := range TrackedConfigs() {
		local := filepath.Join(dir, filepath.FromSlash(cf.Target))
		if ok, _ := afero.Exists(fsys, local); !ok {
			continue
		}
		st, err := compareFile(src, fsys, dir, cf.Target, cf.Template)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}

	return out, nil
}

func compareFile(src Source, fsys afero.Fs, dir, target, tpl string) (*FileStatus, error) {
	local, err := afero.ReadFile(fsys, filepath.Join(dir, filepath.FromSlash(target)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}

	st := &FileStatus{Path: target, Template: tpl, Local: string(local)}
	if !src.Exists(tpl) {
		st.Status = StatusCustom
		return st, nil
	}

	want, err := src.Read(tpl)
	if err != nil {
		return nil, err
	}
	st.Want = string(want)
	if st.Local == st.Want {
		st.Status = StatusInSync
	} else {
		st.Status = StatusOutOfSync
	}
	return st, nil
}

// Sync rewrites every out-of-sync file with its template content and
// returns the updated paths.
func Sync(fsys afero.Fs, dir string, files []FileStatus) ([]string, error) {
	var updated []string
	for _, f := range files {
		if f.Status != StatusOutOfSync {
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return updated, fmt.Errorf("creating %s: %w", path.Dir(f.Path), err)
		}
		if err := afero.WriteFile(fsys, target, []byte(f.Want), 0o644); err != nil {
			return updated, fmt.Errorf("writing %s: %w", f.Path, err)
		}
		output.Debug("synced file", "path", f.Path, "template", f.Template)
		updated = append(updated, f.Path)
	}
	return updated, nil
}

// ErrIfOutOfSync returns an error wrapping ErrOutOfSync when any file drifted.
func ErrIfOutOfSync(s Summary) error {
	if s.OutOfSync == 0 {
		return nil
	}
	return &oerrors.DetailError{
		Type:    "out of sync",
		Message: fmt.Sprintf("%d file(s) differ from the templates", s.OutOfSync),
		Hint:    "Run 'create-demo sync' to update them.",
		Cause:   oerrors.ErrOutOfSync,
	}
}
