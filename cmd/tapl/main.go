package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tapl-lang/tapl/internal/build"
	"github.com/tapl-lang/tapl/internal/cgen"
	"github.com/tapl-lang/tapl/internal/config"
	"github.com/tapl-lang/tapl/internal/diag"
	"github.com/tapl-lang/tapl/internal/types"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tapl <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  runtime    Generate the C runtime headers for the configured list types\n")
		fmt.Fprintf(os.Stderr, "  build      Generate the runtime and compile the staged C sources\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	configPath := flag.String("config", config.DefaultFile, "path to the build configuration")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	var err error
	switch command := flag.Arg(0); command {
	case "runtime":
		err = runRuntime(*configPath)
	case "build":
		err = runBuild(*configPath)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		report(err)
		os.Exit(1)
	}
}

// report prints an error, rendering diagnostics through the formatter
// so internal compiler faults and build failures keep their shape.
func report(err error) {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		diag.NewFormatter().Format(d)
		return
	}
	fmt.Fprintf(os.Stderr, "tapl: %v\n", err)
}

// generate resolves the configured list element types and writes the
// runtime headers into the build folder.
func generate(cfg *config.Config) (*cgen.Generator, error) {
	ts := types.NewTypes()
	g := cgen.NewGenerator()

	elems, err := cfg.ElementTypes(ts)
	if err != nil {
		return nil, err
	}
	for _, elem := range elems {
		if _, err := g.Registry().Resolve(elem); err != nil {
			return nil, err
		}
	}

	if _, err := g.WriteHeaders(cfg.Build.Folder); err != nil {
		return nil, err
	}
	return g, nil
}

func runRuntime(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	g, err := generate(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d list specialization(s) into %s/%s\n",
		g.Registry().Len(), cfg.Build.Folder, cgen.HeaderDirName)
	return nil
}

func runBuild(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	g, err := generate(cfg)
	if err != nil {
		return err
	}

	// The front end hands the main body to the generator in a full
	// compile; driving the backend standalone builds an empty program
	// around the generated runtime.
	mainFile, err := g.WriteMain(cfg.Build.Folder, nil)
	if err != nil {
		return err
	}

	exe, err := build.Compile(context.Background(), cfg.Build, mainFile)
	if err != nil {
		return err
	}

	fmt.Printf("Built %s\n", exe)
	return nil
}
