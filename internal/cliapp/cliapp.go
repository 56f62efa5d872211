// Package cliapp wires the cobra-based CLI Surface (§6): one
// subcommand-less root command parsing the universal flag set, calling
// the Dispatcher, running the rule engine and schema validator when
// requested, and handing the result to the Renderer.
package cliapp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/dispatch"
	"github.com/termfx/reveal/internal/logging"
	"github.com/termfx/reveal/internal/registry"
	"github.com/termfx/reveal/internal/render"
	"github.com/termfx/reveal/internal/rules"
	"github.com/termfx/reveal/internal/schema"
)

// Version is stamped at build time (ldflags); "dev" otherwise.
var Version = "dev"

// App bundles the registries cmd/reveal/main.go builds at startup with
// the cobra command tree that dispatches against them.
type App struct {
	Adapters *registry.AdapterRegistry
	Rules    *registry.RuleRegistry
	Analyzers *registry.AnalyzerRegistry

	Stdout io.Writer
	Stderr io.Writer
}

// flagSet collects every universal flag's parsed value for one
// invocation, independent of cobra so Run can be unit-tested without a
// cobra.Command in the loop.
type flagSet struct {
	format         string
	selectFields   string
	check          bool
	checkSelect    string
	checkIgnore    string
	outline        bool
	depth          int
	head           int
	tail           int
	rangeSpec      string
	exclude        []string
	noGitignore    bool
	stdin          bool
	batch          bool
	extract        string
	copy           bool
	validateSchema string
	noColor        bool

	version       bool
	listSupported bool
	adaptersFlag  bool
	languagesFlag bool
	rulesFlag     bool
	explainFile   string
	showAST       bool
	capabilities  bool
}

// Execute builds the cobra command tree and runs it, returning the
// process exit code per §6's table (never calling os.Exit itself, so
// cmd/reveal/main.go stays the single place that does).
func (a *App) Execute(args []string) int {
	var fs flagSet
	exitCode := 0

	root := &cobra.Command{
		Use:           "reveal URI_OR_PATH [ELEMENT]",
		Short:         "Progressive-disclosure introspection for heterogeneous resources",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			code, err := a.run(cmd, cmdArgs, fs)
			exitCode = code
			return err
		},
	}

	root.Flags().StringVar(&fs.format, "format", "", "output format: text, json, grep, csv")
	root.Flags().StringVar(&fs.selectFields, "select", "", "comma-separated field projection")
	root.Flags().BoolVar(&fs.check, "check", false, "run the rule engine")
	root.Flags().StringVar(&fs.checkSelect, "select-rules", "", "rule codes to include under --check (prefix wildcards allowed)")
	root.Flags().StringVar(&fs.checkIgnore, "ignore", "", "rule codes to exclude under --check (prefix wildcards allowed)")
	root.Flags().BoolVar(&fs.outline, "outline", false, "hierarchical structure view (names only)")
	root.Flags().IntVar(&fs.depth, "depth", 0, "directory depth cap")
	root.Flags().IntVar(&fs.head, "head", 0, "restrict to the first N elements")
	root.Flags().IntVar(&fs.tail, "tail", 0, "restrict to the last N elements")
	root.Flags().StringVar(&fs.rangeSpec, "range", "", "restrict to a line range A-B")
	root.Flags().StringSliceVar(&fs.exclude, "exclude", nil, "additional exclusion glob(s)")
	root.Flags().BoolVar(&fs.noGitignore, "no-gitignore", false, "disable gitignore filtering")
	root.Flags().BoolVar(&fs.stdin, "stdin", false, "read target paths from stdin, one per line")
	root.Flags().BoolVar(&fs.batch, "batch", false, "apply the same operation to each stdin target")
	root.Flags().StringVar(&fs.extract, "extract", "", "extract a named attribute projection (e.g. domain)")
	root.Flags().BoolVar(&fs.copy, "copy", false, "copy rendered output to the clipboard")
	root.Flags().StringVar(&fs.validateSchema, "validate-schema", "", "validate front matter against a named or file-path schema")
	root.Flags().BoolVar(&fs.noColor, "no-color", false, "disable ANSI color in text output")

	root.Flags().BoolVar(&fs.version, "version", false, "print the version and exit")
	root.Flags().BoolVar(&fs.listSupported, "list-supported", false, "list every registered scheme and language")
	root.Flags().BoolVar(&fs.adaptersFlag, "adapters", false, "list registered adapter schemes")
	root.Flags().BoolVar(&fs.languagesFlag, "languages", false, "list registered source-code languages")
	root.Flags().BoolVar(&fs.rulesFlag, "rules", false, "list registered rule codes")
	root.Flags().StringVar(&fs.explainFile, "explain-file", "", "show which analyzer resolves a given filename")
	root.Flags().BoolVar(&fs.showAST, "show-ast", false, "render the raw AST tree instead of the progressive summary")
	root.Flags().BoolVar(&fs.capabilities, "capabilities", false, "print the combined adapter/rule capability index")

	root.SetArgs(args)
	root.SetOut(a.out())
	root.SetErr(a.err())

	if err := root.Execute(); err != nil {
		var ce contract.Error
		if errors.As(err, &ce) {
			fmt.Fprintln(a.err(), ce.Error())
			if exitCode == 0 {
				exitCode = ce.Kind.ExitCode()
			}
			return exitCode
		}
		fmt.Fprintln(a.err(), err)
		if exitCode == 0 {
			exitCode = 2
		}
	}
	return exitCode
}

func (a *App) out() io.Writer {
	if a.Stdout != nil {
		return a.Stdout
	}
	return os.Stdout
}

func (a *App) err() io.Writer {
	if a.Stderr != nil {
		return a.Stderr
	}
	return os.Stderr
}

// run performs one invocation's worth of work (or, under --stdin, one
// per line read) and returns the process exit code to use.
func (a *App) run(cmd *cobra.Command, cmdArgs []string, fs flagSet) (int, error) {
	if code, handled, err := a.handleIntrospection(fs); handled {
		return code, err
	}

	targets, elementArg, err := resolveTargets(cmdArgs, fs)
	if err != nil {
		return 2, contract.NewError(contract.ErrInvocation, "", err.Error(), err)
	}

	d := dispatch.New(a.Adapters)
	overrides := buildQueryOverrides(fs)

	worstExit := 0
	for _, target := range targets {
		code, err := a.runOne(d, target, elementArg, fs, overrides)
		if err != nil {
			return code, err
		}
		if code > worstExit {
			worstExit = code
		}
	}
	return worstExit, nil
}

func (a *App) runOne(d *dispatch.Dispatcher, target, elementArg string, fs flagSet, overrides map[string]string) (int, error) {
	if fs.showAST {
		target = asASTTarget(target)
	}
	s, err := d.Dispatch(cmdContext(), dispatch.Request{
		Resource:       target,
		Element:        elementArg,
		QueryOverrides: overrides,
	})
	if err != nil {
		return 0, err
	}

	var findings []rules.Finding
	if fs.check {
		findings = append(findings, a.runChecks(s, target, fs)...)
	}
	if fs.validateSchema != "" {
		findings = append(findings, a.runSchemaValidation(s, fs.validateSchema)...)
	}

	opts := render.Options{Color: !fs.noColor && isatty.IsTerminal(os.Stdout.Fd())}
	if fs.outline {
		opts.Select = []string{"name"}
	} else if fs.selectFields != "" {
		opts.Select = strings.Split(fs.selectFields, ",")
	}

	format, ferr := render.ParseFormat(fs.format)
	if ferr != nil {
		return 2, contract.NewError(contract.ErrInvocation, target, ferr.Error(), ferr)
	}

	out := &strings.Builder{}
	if fs.extract != "" {
		writeExtraction(out, s, fs.extract)
	} else if err := render.Render(out, s, format, opts); err != nil {
		return 1, contract.NewError(contract.ErrInvocation, target, err.Error(), err)
	}

	for _, f := range findings {
		fmt.Fprintf(out, "%s %s: %s (line %d)\n", f.Severity, f.Code, f.Message, f.Line)
	}

	rendered := out.String()
	if fs.copy {
		if err := clipboard.WriteAll(rendered); err != nil {
			logging.L().Warn("clipboard write failed", zap.Error(err))
		}
	}
	fmt.Fprint(a.out(), rendered)

	if format != render.FormatJSON && format != render.FormatGrep {
		emitBreadcrumb(a.err(), s, target)
	}

	if fs.check || fs.validateSchema != "" {
		if ec := rules.ExitCode(findings); ec != 0 {
			return ec, nil
		}
	}
	return 0, nil
}

func (a *App) runChecks(s *contract.Structure, target string, fs flagSet) []rules.Finding {
	sel := rules.NewSelector(fs.checkSelect, fs.checkIgnore)
	var source []byte
	if data, err := os.ReadFile(target); err == nil {
		source = data
	}
	return rules.Run(a.Rules.All(), sel, s, source)
}

func (a *App) runSchemaValidation(s *contract.Structure, name string) []rules.Finding {
	sc, ok := schema.Builtin(name)
	if !ok {
		loaded, err := schema.LoadFile(name)
		if err != nil {
			logging.L().Warn("schema validation unavailable", zap.Error(err))
			return nil
		}
		sc = loaded
	}

	elems, ok := s.Categories["frontmatter"]
	if !ok || len(elems) == 0 {
		return nil
	}
	el := elems[0]
	record := el.Attributes
	if record == nil {
		record = map[string]any{}
	}
	return schema.Validate(sc, record, el.LineStart)
}
