// Package python implements the python scheme adapter (§4.20): best-
// effort interpreter and virtualenv introspection. Any failure degrades
// to an empty Structure plus a warning — nothing here is fatal, since an
// absent interpreter is a normal, expected state.
package python

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// Adapter implements adapter.Adapter for the "python" scheme. Resource
// is a venv directory, an interpreter path, or empty for "whatever
// python3 resolves to on PATH".
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Scheme() string     { return "python" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ElementNamespace }

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	s := contract.NewStructure("python_environment", u.Raw, contract.SourceProcess)

	exe, err := resolveInterpreter(u.Resource)
	if err != nil {
		s.AddWarning("InterpreterNotFound", err.Error())
		if q != nil {
			adapter.ApplyToStructure(s, q)
		}
		return s, nil
	}

	version, err := interpreterVersion(ctx, exe)
	if err != nil {
		s.AddWarning("VersionQueryFailed", err.Error())
		version = ""
	}

	s.AddCategory("interpreter", &contract.Element{
		Name:     exe,
		Category: "interpreter",
		Ordinal:  1,
		Attributes: map[string]any{
			"executable": exe,
			"version":    version,
			"is_venv":    isVenv(exe),
		},
	})

	pkgs, err := sitePackages(exe)
	if err != nil {
		s.AddWarning("SitePackagesUnavailable", err.Error())
	}
	for i, p := range pkgs {
		s.AddCategory("packages", &contract.Element{
			Name:       p,
			Category:   "packages",
			Ordinal:    i + 1,
			Attributes: map[string]any{"name": p},
		})
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

// resolveInterpreter finds a python executable. An empty resource resolves
// "python3" on PATH; an existing directory is treated as a venv root and
// must contain bin/python3 (there is no PATH fallback for it); any other
// existing path is used as the interpreter itself; a path that does not
// exist is looked up on PATH by that name.
func resolveInterpreter(resource string) (string, error) {
	if resource == "" {
		return exec.LookPath("python3")
	}
	if info, err := os.Stat(resource); err == nil {
		if info.IsDir() {
			candidate := filepath.Join(resource, "bin", "python3")
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			return "", os.ErrNotExist
		}
		return resource, nil
	}
	return exec.LookPath(resource)
}

func interpreterVersion(ctx context.Context, exe string) (string, error) {
	out, err := exec.CommandContext(ctx, exe, "--version").CombinedOutput()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func isVenv(exe string) bool {
	dir := filepath.Dir(filepath.Dir(exe))
	_, err := os.Stat(filepath.Join(dir, "pyvenv.cfg"))
	return err == nil
}

// sitePackages lists top-level installed package/module names by
// scanning the venv's site-packages directory, without importing or
// executing any package code.
func sitePackages(exe string) ([]string, error) {
	envDir := filepath.Dir(filepath.Dir(exe))
	libDir := filepath.Join(envDir, "lib")
	entries, err := os.ReadDir(libDir)
	if err != nil {
		return nil, err
	}
	var sitePkgs string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "python") {
			candidate := filepath.Join(libDir, e.Name(), "site-packages")
			if _, err := os.Stat(candidate); err == nil {
				sitePkgs = candidate
				break
			}
		}
	}
	if sitePkgs == "" {
		return nil, os.ErrNotExist
	}

	names, err := os.ReadDir(sitePkgs)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, n := range names {
		name := n.Name()
		name = strings.TrimSuffix(name, ".dist-info")
		name = strings.TrimSuffix(name, ".egg-info")
		name = strings.TrimSuffix(name, ".py")
		if idx := strings.IndexAny(name, "-"); idx > 0 {
			name = name[:idx]
		}
		if name == "" || name == "__pycache__" || strings.HasPrefix(name, "_") {
			continue
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}

func (a *Adapter) GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error) {
	s, err := a.GetStructure(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	return adapter.ResolveElement(s, u.Raw, ref)
}

func (a *Adapter) Help() adapter.HelpRecord {
	return adapter.HelpRecord{
		Scheme:     "python",
		Summary:    "Interpreter version and installed top-level packages for a venv",
		Categories: []string{"interpreter", "packages"},
		Examples:   []string{"python://", "python:///path/to/.venv"},
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
	}}
}
