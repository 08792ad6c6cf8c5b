// Command poolgen generates type-specialized randomized free pools.
//
// One invocation produces four files: the optimized pool source, a
// race-instrumented pool source with identical semantics, and the two fixed
// runtime-linkage files the generated code needs for processor pinning.
//
//	poolgen --package=bytepool --output=bytes_freepool --prefix=Bytes -DELEM=[]byte
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/freepool/pkg/gen"
	"github.com/ajitpratap0/freepool/pkg/logger"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "poolgen --package=<name> --output=<path> [template args...]",
		Short: "poolgen - randomized free pool generator",
		Long: `poolgen expands the randomized free pool template into type-specialized
Go sources. It writes <output>.go (optimized), <output>_race.go (race
instrumented) and the fixed runtime-linkage files next to them.

Arguments other than --package and --output are passed through verbatim to
the template expansion: --prefix=<Name> names the generated type, and
-DNAME=VALUE binds template parameters (-DELEM=<type> is required;
-DSHARD_CAP, -DPROBES and -DPOLICY tune the pool).`,
		// The passthrough contract needs the raw argument list; flags are
		// scanned manually, the way the template bindings expect them.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runGenerate(args)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("poolgen v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "templates",
		Short: "List available templates",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available templates:")
			for _, t := range gen.Templates() {
				fmt.Printf("  - %s: %s\n", t.Name, t.Description)
			}
		},
	})

	batchCmd := &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Generate every instantiation listed in a JSON or YAML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(args[0])
		},
	}
	root.AddCommand(batchCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newGenerator() (*gen.Generator, error) {
	engine, err := gen.NewEngine()
	if err != nil {
		return nil, err
	}
	log := logger.Get().With(zap.String("component", "poolgen"))
	return gen.NewGenerator(engine, log), nil
}

// runGenerate handles a single instantiation. All artifacts are rendered
// before the first write, so a failure produces no files.
func runGenerate(args []string) error {
	req, err := gen.ParseRequest(args)
	if err != nil {
		return err
	}
	g, err := newGenerator()
	if err != nil {
		return err
	}
	return g.Run(req)
}

// runBatch generates each manifest entry in order. Every entry is
// all-or-nothing on its own; the first failing entry aborts the run.
func runBatch(path string) error {
	manifest, err := gen.LoadManifest(path)
	if err != nil {
		return err
	}
	g, err := newGenerator()
	if err != nil {
		return err
	}
	return g.RunBatch(manifest)
}
