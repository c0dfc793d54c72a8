// Package cgen is the C back end of the compiler: it turns resolved
// uses of the generic list type into specialized C definitions
// (monomorphization) and assembles the generated headers and the main
// C file the build step compiles into the final executable.
package cgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tapl-lang/tapl/internal/types"
)

// HeaderDirName is the directory the generated headers live in under
// the build folder. Generated C includes them as
// <tapl_headers/NAME.h>, so the build step compiles with -I pointing
// at the build folder.
const HeaderDirName = "tapl_headers"

// Generator assembles the emitted artifacts for one compiled program.
// All output is derived from the registry's first-use order and the
// fixed builtin type order, so two runs over the same input produce
// byte-identical text.
type Generator struct {
	registry *Registry
}

// NewGenerator creates a generator with an empty registry, scoped to
// one compilation.
func NewGenerator() *Generator {
	return &Generator{registry: NewRegistry()}
}

// Registry exposes the monomorphization registry; the expression and
// statement generators resolve list element types through it.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// TypesHeader renders the typedefs for the builtin basic types.
func (g *Generator) TypesHeader() string {
	var b strings.Builder
	b.WriteString("#pragma once\n")
	b.WriteString("\n")
	b.WriteString("#include <stdbool.h>\n")
	b.WriteString("#include <stdint.h>\n")
	b.WriteString("\n")
	b.WriteString("// typedefs for the builtin basic types defined in TAPL\n")

	for _, p := range types.Builtins {
		// string has no C equivalent of its own; it lowers to a
		// character pointer.
		if p.Kind == types.String {
			b.WriteString("typedef char* string;\n")
			continue
		}
		// types whose C name already matches need no typedef
		if p.CName() == p.String() {
			continue
		}
		fmt.Fprintf(&b, "typedef %s %s;\n", p.CName(), p.String())
	}

	return b.String()
}

// UtilityHeader renders the runtime helpers every compiled program
// links against: the ANSI color macros and the fatal panic helper the
// emitted bounds checks call. panic never returns; a bounds fault
// terminates the compiled program.
func (g *Generator) UtilityHeader() string {
	var b strings.Builder
	b.WriteString("#pragma once\n")
	b.WriteString("\n")
	b.WriteString("#include <stdio.h>\n")
	b.WriteString("#include <stdlib.h>\n")
	b.WriteString("\n")
	b.WriteString("#define RED   \"\\x1b[31m\"\n")
	b.WriteString("#define GRN   \"\\x1b[32m\"\n")
	b.WriteString("#define YEL   \"\\x1b[33m\"\n")
	b.WriteString("#define BLU   \"\\x1b[34m\"\n")
	b.WriteString("#define MAG   \"\\x1b[35m\"\n")
	b.WriteString("#define CYN   \"\\x1b[36m\"\n")
	b.WriteString("#define WHT   \"\\x1b[37m\"\n")
	b.WriteString("#define RESET \"\\x1b[0m\"\n")
	b.WriteString("\n")
	b.WriteString("// unrecoverable runtime fault: report and stop the program\n")
	b.WriteString("void panic(const char* message) {\n")
	b.WriteString("    fprintf(stderr, RED \"panic: %s!\\n\" RESET, message);\n")
	b.WriteString("    exit(1);\n")
	b.WriteString("}\n")
	return b.String()
}

// ListHeader renders every registered list specialization, in
// first-use order. Each definition set is self-contained given the
// element type's own definition; inner list types are registered
// before the outer ones that store them, so the order is also a valid
// C declaration order.
func (g *Generator) ListHeader() string {
	var b strings.Builder
	b.WriteString("#pragma once\n")
	b.WriteString("\n")
	b.WriteString("#include <stdio.h>\n")
	b.WriteString("#include <stdlib.h>\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "#include <%s/types.h>\n", HeaderDirName)
	fmt.Fprintf(&b, "#include <%s/utility_functions.h>\n", HeaderDirName)
	b.WriteString("\n")

	for i := uint64(0); i < g.registry.Len(); i++ {
		inst := g.registry.At(i)
		b.WriteString(newListWriter(inst).generate())
	}

	return b.String()
}

// MainFile renders the program's main C file around the statement
// lines the rest of code generation produced.
func (g *Generator) MainFile(body []string) string {
	var b strings.Builder
	b.WriteString("#include <stdio.h>\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "#include <%s/types.h>\n", HeaderDirName)
	fmt.Fprintf(&b, "#include <%s/utility_functions.h>\n", HeaderDirName)
	fmt.Fprintf(&b, "#include <%s/list.h>\n", HeaderDirName)
	b.WriteString("\n")
	b.WriteString("int main(int argc, char** argv) {\n")
	for _, line := range body {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	b.WriteString("    return 0;\n")
	b.WriteString("}\n")
	return b.String()
}

// WriteHeaders writes the generated headers into the header directory
// under buildDir, creating it as needed, and returns that directory.
func (g *Generator) WriteHeaders(buildDir string) (string, error) {
	headerDir := filepath.Join(buildDir, HeaderDirName)
	if err := os.MkdirAll(headerDir, 0o755); err != nil {
		return "", fmt.Errorf("creating header folder: %w", err)
	}

	files := []struct {
		name    string
		content string
	}{
		{"types.h", g.TypesHeader()},
		{"utility_functions.h", g.UtilityHeader()},
		{"list.h", g.ListHeader()},
	}

	for _, f := range files {
		path := filepath.Join(headerDir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	return headerDir, nil
}

// WriteMain writes the program's main C file into buildDir and returns
// its path.
func (g *Generator) WriteMain(buildDir string, body []string) (string, error) {
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return "", fmt.Errorf("creating build folder: %w", err)
	}
	path := filepath.Join(buildDir, "main.c")
	if err := os.WriteFile(path, []byte(g.MainFile(body)), 0o644); err != nil {
		return "", fmt.Errorf("writing main.c: %w", err)
	}
	return path, nil
}
