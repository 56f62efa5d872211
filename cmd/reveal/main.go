// Command reveal is the CLI entrypoint: it wires the three process-wide
// registries (adapters, rules, analyzers), resolves the layered
// configuration snapshot, and hands control to the cobra-based CLI
// Surface.
package main

import (
	"fmt"
	"os"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/adapters/ast"
	"github.com/termfx/reveal/internal/adapters/claude"
	"github.com/termfx/reveal/internal/adapters/diff"
	"github.com/termfx/reveal/internal/adapters/domain"
	"github.com/termfx/reveal/internal/adapters/env"
	"github.com/termfx/reveal/internal/adapters/file"
	"github.com/termfx/reveal/internal/adapters/git"
	"github.com/termfx/reveal/internal/adapters/help"
	"github.com/termfx/reveal/internal/adapters/imports"
	"github.com/termfx/reveal/internal/adapters/json"
	"github.com/termfx/reveal/internal/adapters/markdown"
	"github.com/termfx/reveal/internal/adapters/mysql"
	"github.com/termfx/reveal/internal/adapters/python"
	"github.com/termfx/reveal/internal/adapters/revealself"
	"github.com/termfx/reveal/internal/adapters/sqlite"
	"github.com/termfx/reveal/internal/adapters/ssl"
	"github.com/termfx/reveal/internal/adapters/stats"
	"github.com/termfx/reveal/internal/adapters/xlsx"
	"github.com/termfx/reveal/internal/cliapp"
	"github.com/termfx/reveal/internal/config"
	"github.com/termfx/reveal/internal/logging"
	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/registry"
	"github.com/termfx/reveal/internal/rules"
)

// version is stamped via -ldflags "-X main.version=..." at release build
// time; left at its default for local builds.
var version = "dev"

// builtinProviders lists every tree-sitter language integration this
// build ships, mirroring the provider-factory table the parser frontend
// is adapted from.
func builtinProviders() []parserfrontend.Provider {
	return []parserfrontend.Provider{
		parserfrontend.GoProvider{},
		parserfrontend.PythonProvider{},
		parserfrontend.JavaScriptProvider{},
		parserfrontend.TypeScriptProvider{},
		parserfrontend.RubyProvider{},
		parserfrontend.LuaProvider{},
		parserfrontend.SwiftProvider{},
	}
}

func registerAnalyzers(reg *registry.AnalyzerRegistry, providers []parserfrontend.Provider) error {
	for _, p := range providers {
		if err := reg.Register(p); err != nil {
			return fmt.Errorf("registering analyzer %s: %w", p.Lang(), err)
		}
	}
	return nil
}

// registerAdapters builds and registers every concrete Adapter this
// build ships, sourcing their constructor arguments from the resolved
// configuration snapshot.
func registerAdapters(reg *registry.AdapterRegistry, engine *parserfrontend.Engine, ruleReg *registry.RuleRegistry, cfg *config.Snapshot) error {
	sampleLimit := cfg.Int("db.sample_limit", 50)
	rowLimit := cfg.Int("xlsx.row_limit", 1000)

	adapters := []adapter.Adapter{
		file.New(engine, cfg.Int("directory.default_depth", 5)),
		git.New(engine),
		json.New(),
		markdown.New(),
		ast.New(engine),
		stats.New(engine),
		imports.New(engine),
		diff.New(reg),
		revealself.New(reg, ruleReg),
		sqlite.New(sampleLimit),
		mysql.New(sampleLimit),
		ssl.New(cfg.Int("ssl.timeout_ms", 5000)),
		domain.New(cfg.String("domain.resolver")),
		env.New(),
		help.New(reg, ruleReg),
		claude.New(),
		xlsx.New(rowLimit),
		python.New(),
	}

	for _, a := range adapters {
		if err := reg.Register(a); err != nil {
			return fmt.Errorf("registering adapter %s: %w", a.Scheme(), err)
		}
	}
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load("", nil)
	logging.Init(cfg.String("log.level"))
	defer logging.Sync()

	engine := parserfrontend.NewEngine(builtinProviders())

	adapterReg := registry.NewAdapterRegistry()
	ruleReg := registry.NewRuleRegistry()
	analyzerReg := registry.NewAnalyzerRegistry()

	if err := registerAnalyzers(analyzerReg, builtinProviders()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	for _, r := range rules.All() {
		if err := ruleReg.Register(r); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	if err := registerAdapters(adapterReg, engine, ruleReg, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	app := &cliapp.App{
		Adapters:  adapterReg,
		Rules:     ruleReg,
		Analyzers: analyzerReg,
	}
	cliapp.Version = version
	return app.Execute(args)
}
