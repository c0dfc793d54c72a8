package cgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tapl-lang/tapl/internal/types"
)

func TestTypesHeader(t *testing.T) {
	g := NewGenerator()
	header := g.TypesHeader()

	for _, want := range []string{
		"#pragma once",
		"#include <stdbool.h>",
		"#include <stdint.h>",
		"typedef bool u1;",
		"typedef uint8_t u8;",
		"typedef uint64_t u64;",
		"typedef int64_t s64;",
		"typedef float f32;",
		"typedef double f64;",
		"typedef char* string;",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("types header missing %q", want)
		}
	}

	// Types that already are their C name must not be redefined.
	for _, reject := range []string{"typedef char char;", "typedef void void;"} {
		if strings.Contains(header, reject) {
			t.Errorf("types header contains %q", reject)
		}
	}
}

func TestUtilityHeader(t *testing.T) {
	g := NewGenerator()
	header := g.UtilityHeader()

	for _, want := range []string{
		"void panic(const char* message)",
		"exit(1);",
		"#define RED",
		"#define RESET",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("utility header missing %q", want)
		}
	}
}

func TestListHeaderEmitsOncePerType(t *testing.T) {
	g := NewGenerator()
	for _, elem := range []types.Type{types.TypeU64, types.TypeChar, types.TypeU64} {
		if _, err := g.Registry().Resolve(elem); err != nil {
			t.Fatalf("Resolve(%s): %v", elem, err)
		}
	}

	header := g.ListHeader()

	if got := strings.Count(header, "struct list_u64_struct {"); got != 1 {
		t.Errorf("list_u64 definition emitted %d times, want 1", got)
	}
	if got := strings.Count(header, "struct list_char_struct {"); got != 1 {
		t.Errorf("list_char definition emitted %d times, want 1", got)
	}

	// First-use order: u64 before char.
	if strings.Index(header, "list_u64_struct") > strings.Index(header, "list_char_struct") {
		t.Errorf("instantiations not emitted in first-use order")
	}
}

func TestListHeaderNestedDeclarationOrder(t *testing.T) {
	ts := types.NewTypes()
	g := NewGenerator()
	if _, err := g.Registry().Resolve(ts.List(types.TypeU64)); err != nil {
		t.Fatalf("Resolve(list[u64]): %v", err)
	}

	header := g.ListHeader()

	inner := strings.Index(header, "struct list_u64_struct {")
	outer := strings.Index(header, "struct list_list_u64_struct {")
	if inner < 0 || outer < 0 {
		t.Fatalf("missing definitions: inner at %d, outer at %d", inner, outer)
	}
	if inner > outer {
		t.Errorf("inner specialization emitted after the outer one that stores it")
	}

	// The outer element stores the inner container by value.
	if !strings.Contains(header, "list_u64 value;") {
		t.Errorf("outer element does not store list_u64 by value")
	}
}

// TestEmittedOperations pins the behavioral skeleton of one emitted
// specialization: the cache-hit condition, the absolute-index cache
// update, invalidation before every mutation, and per-operation fault
// messages.
func TestEmittedOperations(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Registry().Resolve(types.TypeU64); err != nil {
		t.Fatalf("Resolve(u64): %v", err)
	}
	header := g.ListHeader()

	wants := []string{
		// structure
		"typedef struct list_u64_element_struct list_u64_element;",
		"uint64_t cache_index;",
		"list_u64_element* cache_element;",
		// operations
		"void list_u64_init(list_u64* this)",
		"uint64_t list_u64_size(list_u64* this)",
		"void list_u64_append(list_u64* this, uint64_t value)",
		"uint64_t list_u64_get(list_u64* this, uint64_t index)",
		"void list_u64_set(list_u64* this, uint64_t index, uint64_t value)",
		"void list_u64_delete(list_u64* this, uint64_t index)",
		"void list_u64_insert(list_u64* this, uint64_t index, uint64_t value)",
		// forward-only cache hit condition and absolute-index keying
		"if (this->cache_valid && index >= this->cache_index) {",
		"this->cache_index = target;",
		// bounds faults, one message per operation
		`panic("index out of bounds in list_u64_get");`,
		`panic("index out of bounds in list_u64_set");`,
		`panic("index out of bounds in list_u64_delete");`,
		`panic("index out of bounds in list_u64_insert");`,
		// splicing frees the removed node
		"free(removed);",
		"free(this->head);",
	}
	for _, want := range wants {
		if !strings.Contains(header, want) {
			t.Errorf("emitted definitions missing %q", want)
		}
	}

	// Every mutation invalidates the cache before touching the chain.
	for _, op := range []string{"append", "delete", "insert"} {
		marker := "void list_u64_" + op + "("
		body := header[strings.Index(header, marker):]
		body = body[:strings.Index(body, "\n}")]
		if !strings.Contains(body, "list_u64_invalidate(this);") {
			t.Errorf("%s does not invalidate the cache", op)
		}
	}

	// Inserting at the front of an empty list must set the tail.
	insertBody := header[strings.Index(header, "void list_u64_insert("):]
	if !strings.Contains(insertBody, "if (this->tail == NULL)") {
		t.Errorf("insert at index 0 does not repair the tail for an empty list")
	}
}

// TestByteIdenticalReemission builds the same program twice and
// requires byte-identical emitted text, and re-reads one generator's
// output to check that emission itself has no observable side effects.
func TestByteIdenticalReemission(t *testing.T) {
	build := func() *Generator {
		ts := types.NewTypes()
		g := NewGenerator()
		for _, elem := range []types.Type{types.TypeU64, ts.List(types.TypeU64), types.TypeChar} {
			if _, err := g.Registry().Resolve(elem); err != nil {
				t.Fatalf("Resolve(%s): %v", elem, err)
			}
		}
		return g
	}

	a, b := build(), build()
	if a.TypesHeader() != b.TypesHeader() {
		t.Errorf("types headers differ between compilations")
	}
	if a.UtilityHeader() != b.UtilityHeader() {
		t.Errorf("utility headers differ between compilations")
	}
	if a.ListHeader() != b.ListHeader() {
		t.Errorf("list headers differ between compilations")
	}

	if first, second := a.ListHeader(), a.ListHeader(); first != second {
		t.Errorf("re-emitting from the same generator changed the output")
	}
}

func TestMainFile(t *testing.T) {
	g := NewGenerator()
	main := g.MainFile([]string{"list_u64 xs;", "list_u64_init(&xs);"})

	for _, want := range []string{
		"#include <tapl_headers/list.h>",
		"#include <tapl_headers/types.h>",
		"#include <tapl_headers/utility_functions.h>",
		"int main(int argc, char** argv) {",
		"    list_u64 xs;",
		"    list_u64_init(&xs);",
		"    return 0;",
	} {
		if !strings.Contains(main, want) {
			t.Errorf("main file missing %q", want)
		}
	}

	// Includes follow the header set's dependency order.
	typesAt := strings.Index(main, "tapl_headers/types.h")
	utilAt := strings.Index(main, "tapl_headers/utility_functions.h")
	listAt := strings.Index(main, "tapl_headers/list.h")
	if !(typesAt < utilAt && utilAt < listAt) {
		t.Errorf("includes out of dependency order: types at %d, utility at %d, list at %d",
			typesAt, utilAt, listAt)
	}
}

func TestWriteHeaders(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Registry().Resolve(types.TypeU64); err != nil {
		t.Fatalf("Resolve(u64): %v", err)
	}

	buildDir := t.TempDir()
	headerDir, err := g.WriteHeaders(buildDir)
	if err != nil {
		t.Fatalf("WriteHeaders: %v", err)
	}
	if headerDir != filepath.Join(buildDir, HeaderDirName) {
		t.Errorf("header dir = %q", headerDir)
	}

	for name, want := range map[string]string{
		"types.h":             g.TypesHeader(),
		"utility_functions.h": g.UtilityHeader(),
		"list.h":              g.ListHeader(),
	} {
		data, err := os.ReadFile(filepath.Join(headerDir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if string(data) != want {
			t.Errorf("%s on disk differs from generated text", name)
		}
	}
}

func TestWriteMain(t *testing.T) {
	g := NewGenerator()
	buildDir := t.TempDir()

	path, err := g.WriteMain(buildDir, []string{"printf(\"ok\\n\");"})
	if err != nil {
		t.Fatalf("WriteMain: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading main.c: %v", err)
	}
	if string(data) != g.MainFile([]string{"printf(\"ok\\n\");"}) {
		t.Errorf("main.c on disk differs from generated text")
	}
}
