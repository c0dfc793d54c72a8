// Package types models the resolved TAPL type identities the lowering
// subsystem consumes. The type checker owns inference and generic
// resolution; by the time a type reaches code generation it is one of
// the concrete identities defined here.
package types

import (
	"fmt"
	"strings"
)

// Type represents a resolved type in the TAPL type system.
type Type interface {
	// String returns the source-level keyword, e.g. "u64" or "list[u64]".
	String() string
	// IsType is a marker method to ensure type safety.
	IsType()
}

// PrimitiveKind identifies a builtin basic type by its keyword.
type PrimitiveKind string

const (
	Void   PrimitiveKind = "void"
	U1     PrimitiveKind = "u1"
	U8     PrimitiveKind = "u8"
	U16    PrimitiveKind = "u16"
	U32    PrimitiveKind = "u32"
	U64    PrimitiveKind = "u64"
	S8     PrimitiveKind = "s8"
	S16    PrimitiveKind = "s16"
	S32    PrimitiveKind = "s32"
	S64    PrimitiveKind = "s64"
	F32    PrimitiveKind = "f32"
	F64    PrimitiveKind = "f64"
	Char   PrimitiveKind = "char"
	String PrimitiveKind = "string"
)

// Primitive represents a builtin basic type.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) String() string { return string(p.Kind) }
func (p *Primitive) IsType()        {}

// Common primitive instances
var (
	TypeVoid   = &Primitive{Kind: Void}
	TypeU1     = &Primitive{Kind: U1}
	TypeU8     = &Primitive{Kind: U8}
	TypeU16    = &Primitive{Kind: U16}
	TypeU32    = &Primitive{Kind: U32}
	TypeU64    = &Primitive{Kind: U64}
	TypeS8     = &Primitive{Kind: S8}
	TypeS16    = &Primitive{Kind: S16}
	TypeS32    = &Primitive{Kind: S32}
	TypeS64    = &Primitive{Kind: S64}
	TypeF32    = &Primitive{Kind: F32}
	TypeF64    = &Primitive{Kind: F64}
	TypeChar   = &Primitive{Kind: Char}
	TypeString = &Primitive{Kind: String}
)

// cNames maps primitive keywords to their C lowering names. Keywords
// missing here lower under their own name (a typedef in the emitted
// types header makes them valid C).
var cNames = map[PrimitiveKind]string{
	Void: "void",
	U1:   "bool",
	U8:   "uint8_t",
	U16:  "uint16_t",
	U32:  "uint32_t",
	U64:  "uint64_t",
	S8:   "int8_t",
	S16:  "int16_t",
	S32:  "int32_t",
	S64:  "int64_t",
	F32:  "float",
	F64:  "double",
	Char: "char",
}

// CName returns the C type name the primitive lowers to.
func (p *Primitive) CName() string {
	if n, ok := cNames[p.Kind]; ok {
		return n
	}
	return string(p.Kind)
}

// List represents the generic ordered-sequence type at a concrete
// element type.
type List struct {
	Elem Type
}

func (l *List) String() string { return "list[" + l.Elem.String() + "]" }
func (l *List) IsType()        {}

// TypeParam represents an unresolved generic type parameter. The type
// checker must substitute every TypeParam before lowering; code
// generation treats one as an internal compiler fault.
type TypeParam struct {
	Name string
}

func (t *TypeParam) String() string { return t.Name }
func (t *TypeParam) IsType()        {}

// Mangle derives a canonical C identifier fragment from a type
// identity. The mapping is injective over the identities lowering
// supports: primitives mangle to their keyword, lists prefix "list_"
// onto their element's mangling. TypeParams have no mangling; callers
// reject them before asking.
func Mangle(t Type) string {
	switch t := t.(type) {
	case *Primitive:
		return string(t.Kind)
	case *List:
		return "list_" + Mangle(t.Elem)
	default:
		return ""
	}
}

// Builtins lists the builtin basic types in their declaration order.
// Emitters iterate this slice rather than a map so generated typedefs
// come out in the same order on every run.
var Builtins = []*Primitive{
	TypeVoid, TypeU1, TypeU8, TypeU16, TypeU32, TypeU64,
	TypeS8, TypeS16, TypeS32, TypeS64, TypeF32, TypeF64,
	TypeChar, TypeString,
}

// Types is the per-compilation type collection. It interns list types
// by keyword so each identity is represented by one value for the
// whole compilation, the way the checker hands them out.
type Types struct {
	byKeyword map[string]Type
}

// NewTypes returns a collection seeded with the builtin basic types.
func NewTypes() *Types {
	ts := &Types{byKeyword: make(map[string]Type)}
	for _, p := range Builtins {
		ts.byKeyword[p.String()] = p
	}
	return ts
}

// Lookup returns the type registered under keyword, if any.
func (ts *Types) Lookup(keyword string) (Type, bool) {
	t, ok := ts.byKeyword[keyword]
	return t, ok
}

// List returns the interned list type over elem, creating it on first
// use.
func (ts *Types) List(elem Type) *List {
	keyword := "list[" + elem.String() + "]"
	if t, ok := ts.byKeyword[keyword]; ok {
		return t.(*List)
	}
	l := &List{Elem: elem}
	ts.byKeyword[keyword] = l
	return l
}

// Parse resolves a type keyword, interning any list types it names.
// Keywords follow the source syntax: a primitive keyword or
// "list[ELEM]" with arbitrary nesting.
func (ts *Types) Parse(keyword string) (Type, error) {
	if inner, ok := strings.CutPrefix(keyword, "list["); ok {
		inner, ok = strings.CutSuffix(inner, "]")
		if !ok {
			return nil, fmt.Errorf("malformed list type keyword %q", keyword)
		}
		elem, err := ts.Parse(inner)
		if err != nil {
			return nil, err
		}
		return ts.List(elem), nil
	}

	if t, ok := ts.Lookup(keyword); ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type keyword %q", keyword)
}