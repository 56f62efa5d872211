package parserfrontend

import (
	"bufio"
	"path/filepath"
	"strings"
)

// Engine holds the set of registered Providers and resolves a source file
// to one of them using the precedence order from §4.5.1: explicit
// language override, then file extension, then a well-known filename
// table, then a shebang line. Any step that fails to resolve falls
// through to the next.
type Engine struct {
	providers  map[string]Provider
	byExt      map[string]Provider
	byFilename map[string]Provider
	byShebang  map[string]Provider
}

// NewEngine builds an Engine from the given providers, indexing each by
// its declared extensions, filenames, and shebang interpreters.
func NewEngine(providers []Provider) *Engine {
	e := &Engine{
		providers:  make(map[string]Provider, len(providers)),
		byExt:      make(map[string]Provider),
		byFilename: make(map[string]Provider),
		byShebang:  make(map[string]Provider),
	}
	for _, p := range providers {
		e.providers[p.Lang()] = p
		for _, ext := range p.Extensions() {
			e.byExt[ext] = p
		}
		for _, fn := range p.Filenames() {
			e.byFilename[fn] = p
		}
		for _, sb := range p.Shebangs() {
			e.byShebang[sb] = p
		}
	}
	return e
}

// Resolve picks a Provider for path, optionally reading its first line
// for shebang detection when extension and filename lookups both miss.
// override, when non-empty, takes precedence over every other signal —
// it is the file adapter's "lang=" query field.
func (e *Engine) Resolve(path string, override string, firstLine func() (string, bool)) (Provider, bool) {
	if override != "" {
		if p, ok := e.providers[override]; ok {
			return p, true
		}
	}

	ext := filepath.Ext(path)
	if p, ok := e.byExt[ext]; ok {
		return p, true
	}

	base := filepath.Base(path)
	if p, ok := e.byFilename[base]; ok {
		return p, true
	}

	if firstLine != nil {
		if line, ok := firstLine(); ok {
			if interp, ok := parseShebang(line); ok {
				if p, ok := e.byShebang[interp]; ok {
					return p, true
				}
			}
		}
	}

	return nil, false
}

// FirstLineOf returns a firstLine func reading from a byte source already
// in memory, for callers that have already loaded the file.
func FirstLineOf(source []byte) func() (string, bool) {
	return func() (string, bool) {
		sc := bufio.NewScanner(strings.NewReader(string(source)))
		if sc.Scan() {
			return sc.Text(), true
		}
		return "", false
	}
}

func parseShebang(line string) (interpreter string, ok bool) {
	if !strings.HasPrefix(line, "#!") {
		return "", false
	}
	fields := strings.Fields(line[2:])
	if len(fields) == 0 {
		return "", false
	}
	// "#!/usr/bin/env python3" -> fields[1]; "#!/usr/bin/python3" -> fields[0].
	candidate := fields[0]
	if filepath.Base(candidate) == "env" && len(fields) > 1 {
		candidate = fields[1]
	}
	return filepath.Base(candidate), true
}

// Get returns the provider registered under canonical language name lang.
func (e *Engine) Get(lang string) (Provider, bool) {
	p, ok := e.providers[lang]
	return p, ok
}

// All returns every registered provider.
func (e *Engine) All() []Provider {
	out := make([]Provider, 0, len(e.providers))
	for _, p := range e.providers {
		out = append(out, p)
	}
	return out
}
