package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/freepool/pkg/errors"
)

// PoolTemplate is the name of the embedded pool template. One expansion with
// the RACE binding unset produces the optimized variant; a second expansion
// with RACE set produces the race-instrumented variant. The two are never
// maintained as separate algorithm texts.
const PoolTemplate = "randomized_freepool.go.tmpl"

// Defaults for the tunable template parameters. Each can be overridden per
// instantiation with -DSHARD_CAP=<n>, -DPROBES=<n> and -DPOLICY=<evict|drop>.
const (
	DefaultShardCap = "32"
	DefaultProbes   = "4"
	DefaultPolicy   = "evict"
)

// Request describes one pool instantiation.
type Request struct {
	// Package is the target package name for all generated sources.
	Package string
	// Output is the base output path; ".go" and "_race.go" are appended
	// for the two pool variants, and the runtime-linkage files land in
	// its directory.
	Output string
	// Args are the template arguments passed through verbatim from the
	// driver: --prefix=<name> and -DNAME=VALUE bindings such as
	// -DELEM=[]byte.
	Args []string
}

// Artifact is one rendered output file.
type Artifact struct {
	Path    string
	Content []byte
}

// ParseRequest scans argv for the required --package and --output flags.
// Every other argument is passed through verbatim to the generator, exactly
// as given.
func ParseRequest(argv []string) (Request, error) {
	var req Request
	for _, arg := range argv {
		switch {
		case strings.HasPrefix(arg, "--package="):
			req.Package = strings.TrimPrefix(arg, "--package=")
		case strings.HasPrefix(arg, "--output="):
			req.Output = strings.TrimPrefix(arg, "--output=")
		default:
			req.Args = append(req.Args, arg)
		}
	}
	if req.Package == "" || req.Output == "" {
		return Request{}, errors.New(errors.ErrorTypeConfig, "--package and --output are required")
	}
	return req, nil
}

// Generator turns requests into source artifacts via an expansion engine.
type Generator struct {
	engine Engine
	log    *zap.Logger
}

// NewGenerator creates a generator over the given engine. A nil logger
// disables logging.
func NewGenerator(engine Engine, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{engine: engine, log: log}
}

// bindings derives the template binding set from the request: the package
// name, the prefix in both exported and unexported spelling, tunables with
// their defaults, and any -D pairs. The element type (ELEM) is deliberately
// not defaulted; a template expansion without it fails as an unresolved
// parameter.
func (g *Generator) bindings(req Request) (map[string]string, error) {
	b := map[string]string{
		"PACKAGE":   req.Package,
		"SHARD_CAP": DefaultShardCap,
		"PROBES":    DefaultProbes,
		"POLICY":    DefaultPolicy,
	}
	for _, arg := range req.Args {
		switch {
		case strings.HasPrefix(arg, "--prefix="):
			p := strings.TrimPrefix(arg, "--prefix=")
			if p == "" {
				return nil, errors.New(errors.ErrorTypeConfig, "--prefix must not be empty")
			}
			b["PREFIX"] = strings.ToUpper(p[:1]) + p[1:]
			b["prefix"] = strings.ToLower(p[:1]) + p[1:]
		case strings.HasPrefix(arg, "-D"):
			kv := strings.SplitN(strings.TrimPrefix(arg, "-D"), "=", 2)
			if len(kv) != 2 || kv[0] == "" {
				return nil, errors.Newf(errors.ErrorTypeConfig, "malformed binding %q, want -DNAME=VALUE", arg)
			}
			b[kv[0]] = kv[1]
		default:
			return nil, errors.Newf(errors.ErrorTypeConfig, "unknown argument %q", arg)
		}
	}

	for _, name := range []string{"SHARD_CAP", "PROBES"} {
		if n, err := strconv.Atoi(b[name]); err != nil || n < 1 {
			return nil, errors.Newf(errors.ErrorTypeConfig, "%s must be a positive integer, got %q", name, b[name])
		}
	}
	if p := b["POLICY"]; p != "evict" && p != "drop" {
		return nil, errors.Newf(errors.ErrorTypeConfig, "POLICY must be evict or drop, got %q", p)
	}
	return b, nil
}

// Generate renders the four artifacts for req: the optimized pool source,
// the race-instrumented pool source, and the two fixed runtime-linkage
// files. Nothing is written to disk; any error means no artifacts at all.
// Identical requests render byte-identical artifacts.
func (g *Generator) Generate(req Request) ([]Artifact, error) {
	bindings, err := g.bindings(req)
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, 4)
	for _, variant := range []struct {
		race   string
		suffix string
	}{
		{race: "", suffix: ".go"},
		{race: "1", suffix: "_race.go"},
	} {
		bindings["RACE"] = variant.race
		g.log.Debug("expanding template",
			zap.String("template", PoolTemplate),
			zap.String("output", req.Output+variant.suffix),
			zap.Bool("race", variant.race != ""))
		src, err := g.engine.Expand(PoolTemplate, bindings)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{Path: req.Output + variant.suffix, Content: src})
	}

	dir := filepath.Dir(req.Output)
	artifacts = append(artifacts,
		Artifact{Path: filepath.Join(dir, "freepool_runtime.s"), Content: []byte(runtimeStubAsm)},
		Artifact{Path: filepath.Join(dir, "freepool_runtime.go"), Content: []byte(fmt.Sprintf(runtimeGlueFormat, req.Package))},
	)
	return artifacts, nil
}

// Run renders all artifacts for req and only then writes them, so a failed
// expansion leaves no partial output behind.
func (g *Generator) Run(req Request) error {
	artifacts, err := g.Generate(req)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		if dir := filepath.Dir(a.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(err, errors.ErrorTypeIO, fmt.Sprintf("creating output directory %s", dir))
			}
		}
		if err := os.WriteFile(a.Path, a.Content, 0o644); err != nil { // #nosec G306 - generated source files
			return errors.Wrap(err, errors.ErrorTypeIO, fmt.Sprintf("writing %s", a.Path))
		}
		g.log.Debug("wrote artifact", zap.String("path", a.Path), zap.Int("bytes", len(a.Content)))
	}
	return nil
}

// RunBatch runs every instantiation in the manifest in order. Each entry is
// all-or-nothing on its own; the first failing entry aborts the run, leaving
// earlier entries' output in place.
func (g *Generator) RunBatch(m *Manifest) error {
	for _, entry := range m.Instantiations {
		req, err := entry.Request()
		if err != nil {
			return err
		}
		if err := g.Run(req); err != nil {
			return fmt.Errorf("generating %s: %w", entry.Output, err)
		}
	}
	return nil
}

// The two fixed artifacts establishing the runtime linkage. They are
// invariant across invocations except for the glue file's package clause.
// The empty assembly file exists purely to make the compiler honor the
// go:linkname directives in the glue file.

const runtimeStubAsm = `// Code generated by poolgen. DO NOT EDIT.

// Empty file that forces the go compiler to honor the go:linkname
// directives in freepool_runtime.go. See
// https://github.com/golang/go/issues/15006.
`

const runtimeGlueFormat = `// Code generated by poolgen. DO NOT EDIT.

package %s

// This import is needed to use go:linkname.
import _ "unsafe"

// The functions below are defined in the Go runtime and reached through
// go:linkname; the companion freepool_runtime.s (empty) makes the compiler
// honor the directives.
//
// runtime_procPin pins the caller to its current processor and returns the
// processor index in [0, GOMAXPROCS); runtime_procUnpin undoes it.
// fastrandn returns a uniform integer in [0, n) from the runtime's
// per-processor generator.

//go:linkname runtime_procPin runtime.procPin
//go:nosplit
func runtime_procPin() int

//go:linkname runtime_procUnpin runtime.procUnpin
//go:nosplit
func runtime_procUnpin()

//go:linkname fastrandn runtime.fastrandn
func fastrandn(n uint32) uint32
`
