// Package registry holds the three process-wide registries named in
// §4.0's overview: adapters (scheme -> adapter), rules, and source-code
// analyzers (language -> provider). Each is populated once at startup by
// cmd/reveal/main.go; duplicate registration is a programming error,
// reported immediately rather than silently overwritten, following the
// discipline of a hand-rolled language-provider registry this project's
// parser frontend is adapted from.
package registry

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/rules"
)

// Analyzer is the minimal shape an AnalyzerRegistry entry must satisfy —
// a parser-frontend language provider, named and keyed the same way the
// AdapterRegistry keys schemes.
type Analyzer interface {
	Lang() string
	Aliases() []string
	Extensions() []string
}

// AdapterRegistry maps URI schemes to their Adapter implementation.
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[string]adapter.Adapter
}

// NewAdapterRegistry returns an empty registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{adapters: make(map[string]adapter.Adapter)}
}

// Register adds a, keyed by a.Scheme(). Registering the same scheme twice
// is a programming error: the Adapter Contract guarantees exactly one
// adapter per scheme.
func (r *AdapterRegistry) Register(a adapter.Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	scheme := a.Scheme()
	if scheme == "" {
		return fmt.Errorf("registry: adapter has empty scheme")
	}
	if _, exists := r.adapters[scheme]; exists {
		return fmt.Errorf("registry: adapter for scheme %q already registered", scheme)
	}
	r.adapters[scheme] = a
	return nil
}

// Get returns the adapter for scheme, if any.
func (r *AdapterRegistry) Get(scheme string) (adapter.Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[scheme]
	return a, ok
}

// Schemes lists all registered scheme names, for the Dispatcher's
// nearest-scheme suggestion and for help output.
func (r *AdapterRegistry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.adapters))
	for s := range r.adapters {
		out = append(out, s)
	}
	return out
}

// RuleRegistry holds every registered quality rule, keyed by Code.
type RuleRegistry struct {
	mu    sync.RWMutex
	rules map[string]rules.Rule
	order []string // registration order, for stable iteration
}

// NewRuleRegistry returns an empty registry.
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{rules: make(map[string]rules.Rule)}
}

// Register adds rule r, keyed by r.Code().
func (r *RuleRegistry) Register(rule rules.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := rule.Code()
	if code == "" {
		return fmt.Errorf("registry: rule has empty code")
	}
	if _, exists := r.rules[code]; exists {
		return fmt.Errorf("registry: rule %q already registered", code)
	}
	r.rules[code] = rule
	r.order = append(r.order, code)
	return nil
}

// Get returns the rule for code, if any.
func (r *RuleRegistry) Get(code string) (rules.Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rl, ok := r.rules[code]
	return rl, ok
}

// All returns every registered rule in registration order.
func (r *RuleRegistry) All() []rules.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]rules.Rule, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.rules[code])
	}
	return out
}

// AnalyzerRegistry maps language identifiers (canonical name, alias, or
// file extension) to a parser-frontend Analyzer, mirroring the teacher
// provider registry's three-way lookup table.
type AnalyzerRegistry struct {
	mu         sync.RWMutex
	byLang     map[string]Analyzer
	aliases    map[string]string
	extensions map[string]string
}

// NewAnalyzerRegistry returns an empty registry.
func NewAnalyzerRegistry() *AnalyzerRegistry {
	return &AnalyzerRegistry{
		byLang:     make(map[string]Analyzer),
		aliases:    make(map[string]string),
		extensions: make(map[string]string),
	}
}

// Register adds a, indexing it by its canonical language name, its
// declared aliases, and its declared file extensions.
func (r *AnalyzerRegistry) Register(a Analyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lang := a.Lang()
	if lang == "" {
		return fmt.Errorf("registry: analyzer has empty language name")
	}
	if _, exists := r.byLang[lang]; exists {
		return fmt.Errorf("registry: analyzer for language %q already registered", lang)
	}
	r.byLang[lang] = a

	for _, alias := range a.Aliases() {
		if alias == "" {
			continue
		}
		if existing, exists := r.aliases[alias]; exists {
			return fmt.Errorf("registry: alias %q conflicts with existing mapping to %q", alias, existing)
		}
		r.aliases[alias] = lang
	}

	for _, ext := range a.Extensions() {
		if ext == "" {
			continue
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		if existing, exists := r.extensions[ext]; exists {
			return fmt.Errorf("registry: extension %q conflicts with existing mapping to %q", ext, existing)
		}
		r.extensions[ext] = lang
	}

	return nil
}

// Get resolves identifier (language name, alias, or extension) to its
// Analyzer.
func (r *AnalyzerRegistry) Get(identifier string) (Analyzer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.byLang[identifier]; ok {
		return a, true
	}
	if canonical, ok := r.aliases[identifier]; ok {
		if a, ok := r.byLang[canonical]; ok {
			return a, true
		}
	}
	ext := identifier
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	if canonical, ok := r.extensions[ext]; ok {
		if a, ok := r.byLang[canonical]; ok {
			return a, true
		}
	}
	return nil, false
}

// GetForFile resolves a filename's extension to its Analyzer. Callers
// needing the fuller extension -> filename-table -> shebang precedence
// chain (§4.5.1) implement that above this method, in the parser
// frontend, since shebang inspection requires reading file content.
func (r *AnalyzerRegistry) GetForFile(filename string) (Analyzer, bool) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return nil, false
	}
	return r.Get(ext)
}

// Languages lists all registered canonical language names.
func (r *AnalyzerRegistry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byLang))
	for l := range r.byLang {
		out = append(out, l)
	}
	return out
}
