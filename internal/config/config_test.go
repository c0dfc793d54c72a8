package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tapl-lang/tapl/internal/types"
)

func TestParseFull(t *testing.T) {
	doc := `
build:
  folder: out
  compiler: clang
  flags: ["-O2", "-Wall"]
  output: demo
runtime:
  list_types:
    - u64
    - char
    - list[u64]
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Build.Folder != "out" || cfg.Build.Compiler != "clang" || cfg.Build.Output != "demo" {
		t.Errorf("build config = %+v", cfg.Build)
	}
	if len(cfg.Build.Flags) != 2 || cfg.Build.Flags[0] != "-O2" {
		t.Errorf("flags = %v", cfg.Build.Flags)
	}
	if len(cfg.Runtime.ListTypes) != 3 {
		t.Errorf("list_types = %v", cfg.Runtime.ListTypes)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("runtime:\n  list_types: [u64]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Build.Folder != "build" || cfg.Build.Compiler != "cc" || cfg.Build.Output != "program" {
		t.Errorf("defaults not applied: %+v", cfg.Build)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte(":::not yaml")); err == nil {
		t.Errorf("malformed yaml accepted")
	}

	if _, err := Parse([]byte("build:\n  compiler: \"\"\n")); err == nil {
		t.Errorf("empty compiler accepted")
	} else if !strings.Contains(err.Error(), "build.compiler") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "tapl.yaml"))
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if cfg.Build.Compiler != "cc" {
		t.Errorf("defaults not applied: %+v", cfg.Build)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	if err := os.WriteFile(path, []byte("build:\n  output: hello\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Build.Output != "hello" {
		t.Errorf("output = %q", cfg.Build.Output)
	}
}

func TestElementTypes(t *testing.T) {
	doc := `
runtime:
  list_types:
    - u64
    - list[char]
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ts := types.NewTypes()
	elems, err := cfg.ElementTypes(ts)
	if err != nil {
		t.Fatalf("ElementTypes: %v", err)
	}
	if len(elems) != 2 {
		t.Fatalf("got %d element types", len(elems))
	}
	if elems[0] != types.TypeU64 {
		t.Errorf("element 0 = %s", elems[0])
	}
	if elems[1].String() != "list[char]" {
		t.Errorf("element 1 = %s", elems[1])
	}
}

// TestElementTypesFlowStyle covers the flow-sequence spelling: a list
// type keyword contains flow indicators, so it must be quoted there.
func TestElementTypesFlowStyle(t *testing.T) {
	cfg, err := Parse([]byte("runtime:\n  list_types: [u64, \"list[char]\"]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	elems, err := cfg.ElementTypes(types.NewTypes())
	if err != nil {
		t.Fatalf("ElementTypes: %v", err)
	}
	if len(elems) != 2 || elems[0] != types.TypeU64 || elems[1].String() != "list[char]" {
		t.Errorf("ElementTypes = %v", elems)
	}

	// Unquoted, the bracket ends the flow entry; the document must be
	// rejected rather than silently misread.
	if _, err := Parse([]byte("runtime:\n  list_types: [u64, list[char]]\n")); err == nil {
		t.Errorf("unquoted list keyword accepted inside a flow sequence")
	}
}

func TestElementTypesUnknownKeyword(t *testing.T) {
	cfg, err := Parse([]byte("runtime:\n  list_types: [quux]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := cfg.ElementTypes(types.NewTypes()); err == nil {
		t.Errorf("unknown keyword accepted")
	}
}
