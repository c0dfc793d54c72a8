package cgen

import (
	"github.com/tapl-lang/tapl/internal/chain"
	"github.com/tapl-lang/tapl/internal/diag"
	"github.com/tapl-lang/tapl/internal/types"
)

// Instantiation records one concrete specialization of the generic
// list type: the element type and the definition name its call sites
// are generated against. Entries are never mutated after creation.
type Instantiation struct {
	Elem types.Type
	Name string
}

// Registry tracks which element types have had a list specialization
// emitted during one compilation. It guarantees a single emission and
// a stable, collision-free name per element type identity.
//
// The registry is scoped to one compilation context and discarded with
// it; it is deliberately not process-wide, so compilations running in
// the same process (tests, a long-lived driver) cannot interfere.
type Registry struct {
	// byIdentity maps a mangled element-type identity to its
	// definition name.
	byIdentity map[string]string

	// order holds the instantiations in first-use order, which is the
	// order their definitions are emitted in. The emitters read it
	// back by ascending index, the access pattern the chain's cache
	// is built for.
	order *chain.Chain[Instantiation]
}

// NewRegistry creates an empty registry for one compilation.
func NewRegistry() *Registry {
	return &Registry{
		byIdentity: make(map[string]string),
		order:      chain.New[Instantiation](),
	}
}

// Resolve returns the definition name for the list specialization over
// elem, recording the instantiation on first use. Repeated calls with
// the same element type identity return the identical name and record
// nothing further.
//
// This is the sole entry point from the rest of code generation: the
// expression and statement generators call it when lowering a list
// literal, indexing expression, or list-typed declaration, and embed
// the returned name into the generated call sites.
//
// The type checker resolves generics before lowering, so elem must be
// a concrete type; a nil or unresolved element type is an internal
// compiler fault, not a user-facing diagnostic.
func (r *Registry) Resolve(elem types.Type) (string, error) {
	if elem == nil {
		return "", diag.ICE(diag.StageCodegen, diag.CodeGenUnresolvedElementType,
			"list lowering requested for a nil element type")
	}
	if tp, ok := elem.(*types.TypeParam); ok {
		return "", diag.ICE(diag.StageCodegen, diag.CodeGenUnresolvedElementType,
			"list lowering requested for unresolved type parameter %s", tp.Name)
	}

	// A list element type needs its own specialization emitted first:
	// the outer definition stores values of the inner list type.
	if l, ok := elem.(*types.List); ok {
		if _, err := r.Resolve(l.Elem); err != nil {
			return "", err
		}
	}

	identity := types.Mangle(elem)
	if identity == "" {
		return "", diag.ICE(diag.StageCodegen, diag.CodeGenUnsupportedType,
			"no list lowering for element type %s", elem)
	}

	if name, ok := r.byIdentity[identity]; ok {
		return name, nil
	}

	name := "list_" + identity
	r.byIdentity[identity] = name
	r.order.Append(Instantiation{Elem: elem, Name: name})
	return name, nil
}

// Len returns the number of recorded instantiations.
func (r *Registry) Len() uint64 {
	return r.order.Size()
}

// At returns the i-th instantiation in first-use order.
func (r *Registry) At(i uint64) Instantiation {
	return r.order.Get(i)
}
