// Package writer renders schemas into Rust modules on disk.
package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"firestige.xyz/nomgen/internal/config"
	"firestige.xyz/nomgen/internal/gen"
	"firestige.xyz/nomgen/internal/loader"
	"firestige.xyz/nomgen/internal/protocols"
	"firestige.xyz/nomgen/internal/rulearg"
	"firestige.xyz/nomgen/internal/schema"
)

var (
	ErrInvalidModule   = errors.New("nomgen: invalid module name")
	ErrDuplicateModule = errors.New("nomgen: duplicate module")
)

// ModFile is the name of the generated module index.
const ModFile = "mod.rs"

const modHeader = "// Code generated by nomgen. DO NOT EDIT.\n\n"

var moduleName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Target is one Rust module to generate.
type Target struct {
	Module string
	Nodes  []schema.Node
}

// Result describes a written module.
type Result struct {
	Module      string
	Path        string
	Definitions int
}

// Options configures a Writer.
type Options struct {
	OutputDir string
	Workers   int // 0 = GOMAXPROCS
	RuleArgs  bool
}

// Writer generates modules concurrently and writes them under OutputDir.
type Writer struct {
	opts     Options
	registry *protocols.Registry
	logger   *slog.Logger
}

// New returns a Writer resolving protocol names against the built-in
// registry.
func New(opts Options) *Writer {
	return &Writer{opts: opts, registry: protocols.Default(), logger: slog.Default()}
}

// FromConfig returns a Writer configured by cfg.
func FromConfig(cfg *config.GlobalConfig) *Writer {
	return New(Options{OutputDir: cfg.OutputDir, Workers: cfg.Workers, RuleArgs: cfg.RuleArgs.Enabled})
}

// WithRegistry replaces the protocol registry.
func (w *Writer) WithRegistry(r *protocols.Registry) *Writer {
	w.registry = r
	return w
}

// Targets builds the modules for the named protocols and schema files. With
// neither, every registered protocol is a target.
func (w *Writer) Targets(names, schemas []string) ([]Target, error) {
	if len(names) == 0 && len(schemas) == 0 {
		names = w.registry.Names()
	}

	targets := make([]Target, 0, len(names)+len(schemas))
	for _, name := range names {
		p, err := w.registry.Get(name)
		if err != nil {
			return nil, err
		}
		nodes, err := p.Build()
		if err != nil {
			return nil, fmt.Errorf("build protocol %s: %w", p.Name, err)
		}
		targets = append(targets, Target{Module: p.Name, Nodes: nodes})
	}
	for _, path := range schemas {
		s, err := loader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		targets = append(targets, Target{Module: s.Module, Nodes: s.Nodes})
	}
	return targets, nil
}

// Render returns the complete source of t and the number of definitions in
// it.
func (w *Writer) Render(t Target) (string, int, error) {
	nodes := t.Nodes
	if w.opts.RuleArgs {
		reduced, err := rulearg.ReduceAll(t.Nodes)
		if err != nil {
			return "", 0, err
		}
		nodes = append(append([]schema.Node(nil), nodes...), reduced...)
	}

	g := gen.New()
	parts := []string{gen.Prelude}
	for _, n := range nodes {
		out, err := g.Generate(n)
		if err != nil {
			return "", 0, err
		}
		if out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n"), g.Emitted(), nil
}

// Run renders and writes every target, then writes the module index. Nothing
// is written when a module name is invalid or repeated.
func (w *Writer) Run(ctx context.Context, targets []Target) ([]Result, error) {
	if err := checkModules(targets); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	workers := w.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := w.write(t)
			if err != nil {
				return fmt.Errorf("module %s: %w", t.Module, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := w.writeIndex(targets); err != nil {
		return nil, err
	}
	return results, nil
}

func (w *Writer) write(t Target) (Result, error) {
	src, n, err := w.Render(t)
	if err != nil {
		return Result{}, err
	}
	path := filepath.Join(w.opts.OutputDir, t.Module+".rs")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.logger.Info("module written", "module", t.Module, "path", path, "definitions", n)
	return Result{Module: t.Module, Path: path, Definitions: n}, nil
}

// writeIndex writes mod.rs declaring every module in sorted order.
func (w *Writer) writeIndex(targets []Target) error {
	modules := make([]string, 0, len(targets))
	for _, t := range targets {
		modules = append(modules, t.Module)
	}
	sort.Strings(modules)

	var b strings.Builder
	b.WriteString(modHeader)
	for _, m := range modules {
		fmt.Fprintf(&b, "pub mod %s;\n", m)
	}

	path := filepath.Join(w.opts.OutputDir, ModFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.logger.Debug("module index written", "path", path, "modules", len(modules))
	return nil
}

func checkModules(targets []Target) error {
	seen := make(map[string]bool, len(targets))
	for _, t := range targets {
		if !moduleName.MatchString(t.Module) || t.Module == "mod" {
			return fmt.Errorf("%w: %q", ErrInvalidModule, t.Module)
		}
		if seen[t.Module] {
			return fmt.Errorf("%w: %q", ErrDuplicateModule, t.Module)
		}
		seen[t.Module] = true
	}
	return nil
}
