package cgen

import (
	"fmt"
	"strings"

	"github.com/tapl-lang/tapl/internal/types"
)

// cType returns the C type name values of t are stored and passed as.
func cType(t types.Type) string {
	switch t := t.(type) {
	case *types.Primitive:
		return t.CName()
	case *types.List:
		return "list_" + types.Mangle(t)
	default:
		// Resolve rejects anything else before generation starts.
		return ""
	}
}

// listWriter emits the self-contained C definitions for one list
// specialization. The generated operations mirror internal/chain
// one for one; any behavioral change there must be reflected here.
type listWriter struct {
	builder strings.Builder

	// name is the definition name, e.g. "list_u64". elem is the C
	// type of the stored values.
	name string
	elem string
}

func newListWriter(inst Instantiation) *listWriter {
	return &listWriter{
		name: inst.Name,
		elem: cType(inst.Elem),
	}
}

// emit writes one line to the output buffer.
func (w *listWriter) emit(format string, args ...any) {
	fmt.Fprintf(&w.builder, format, args...)
	w.builder.WriteString("\n")
}

// generate renders the full definition set: element struct, container
// struct, and the operations of the container contract. The unit
// depends only on the element type's own definition, malloc/free, and
// the runtime panic helper.
func (w *listWriter) generate() string {
	w.emitElementStruct()
	w.emitContainerStruct()
	w.emitInit()
	w.emitInvalidate()
	w.emitSize()
	w.emitAppend()
	w.emitGet()
	w.emitSet()
	w.emitDelete()
	w.emitInsert()
	return w.builder.String()
}

func (w *listWriter) emitElementStruct() {
	w.emit("// one element of %s: a value and its successor", w.name)
	w.emit("typedef struct %s_element_struct %s_element;", w.name, w.name)
	w.emit("struct %s_element_struct {", w.name)
	w.emit("    %s value;", w.elem)
	w.emit("    %s_element* next;", w.name)
	w.emit("};")
}

func (w *listWriter) emitContainerStruct() {
	w.emit("// the container: head/tail of the chain, the access cache, and the size")
	w.emit("typedef struct %s_struct %s;", w.name, w.name)
	w.emit("struct %s_struct {", w.name)
	w.emit("    %s_element* head;", w.name)
	w.emit("    %s_element* tail;", w.name)
	w.emit("")
	w.emit("    // the last resolved index -> element pair, valid until the next mutation")
	w.emit("    bool cache_valid;")
	w.emit("    uint64_t cache_index;")
	w.emit("    %s_element* cache_element;", w.name)
	w.emit("")
	w.emit("    uint64_t size;")
	w.emit("};")
}

func (w *listWriter) emitInit() {
	w.emit("void %s_init(%s* this) {", w.name, w.name)
	w.emit("    this->head = NULL;")
	w.emit("    this->tail = NULL;")
	w.emit("    this->cache_valid = false;")
	w.emit("    this->cache_index = 0;")
	w.emit("    this->cache_element = NULL;")
	w.emit("    this->size = 0;")
	w.emit("}")
}

func (w *listWriter) emitInvalidate() {
	w.emit("void %s_invalidate(%s* this) {", w.name, w.name)
	w.emit("    this->cache_valid = false;")
	w.emit("}")
}

func (w *listWriter) emitSize() {
	w.emit("// the size is kept up to date by every mutation, never recounted")
	w.emit("uint64_t %s_size(%s* this) {", w.name, w.name)
	w.emit("    return this->size;")
	w.emit("}")
}

func (w *listWriter) emitAppend() {
	w.emit("// append a value at the back of the chain in O(1) via the tail pointer")
	w.emit("void %s_append(%s* this, %s value) {", w.name, w.name, w.elem)
	w.emit("    %s_invalidate(this);", w.name)
	w.emit("    %s_element* elem = malloc(sizeof(%s_element));", w.name, w.name)
	w.emit("    elem->value = value;")
	w.emit("    elem->next = NULL;")
	w.emit("")
	w.emit("    if (this->head == NULL) {")
	w.emit("        this->head = elem;")
	w.emit("        this->tail = elem;")
	w.emit("        this->size++;")
	w.emit("        return;")
	w.emit("    }")
	w.emit("")
	w.emit("    this->tail->next = elem;")
	w.emit("    this->tail = elem;")
	w.emit("    this->size++;")
	w.emit("}")
}

// emitLookup renders the shared get/set traversal: start from the
// cached element when the target lies at or past the cached index,
// otherwise from head, then record the absolute target in the cache.
// op selects the fault message.
func (w *listWriter) emitLookup(op string) {
	w.emit("    uint64_t target = index;")
	w.emit("    %s_element* cursor = this->head;", w.name)
	w.emit("")
	w.emit("    // the chain is forward-only: the cache shortcuts forward continuations only")
	w.emit("    if (this->cache_valid && index >= this->cache_index) {")
	w.emit("        cursor = this->cache_element;")
	w.emit("        index -= this->cache_index;")
	w.emit("    }")
	w.emit("")
	w.emit("    while (cursor != NULL && index > 0) {")
	w.emit("        cursor = cursor->next;")
	w.emit("        index--;")
	w.emit("    }")
	w.emit("")
	w.emit("    if (index > 0 || cursor == NULL)")
	w.emit("        panic(\"index out of bounds in %s_%s\");", w.name, op)
	w.emit("")
	w.emit("    // key the cache by the absolute index so later forward reads chain off it")
	w.emit("    this->cache_valid = true;")
	w.emit("    this->cache_index = target;")
	w.emit("    this->cache_element = cursor;")
}

func (w *listWriter) emitGet() {
	w.emit("// return the value at index, panic when it is out of bounds")
	w.emit("%s %s_get(%s* this, uint64_t index) {", w.elem, w.name, w.name)
	w.emitLookup("get")
	w.emit("")
	w.emit("    return cursor->value;")
	w.emit("}")
}

func (w *listWriter) emitSet() {
	w.emit("// overwrite the value at index, panic when it is out of bounds")
	w.emit("void %s_set(%s* this, uint64_t index, %s value) {", w.name, w.name, w.elem)
	w.emitLookup("set")
	w.emit("")
	w.emit("    cursor->value = value;")
	w.emit("}")
}

func (w *listWriter) emitDelete() {
	w.emit("// remove the element at index and relink the chain around it")
	w.emit("void %s_delete(%s* this, uint64_t index) {", w.name, w.name)
	w.emit("    %s_invalidate(this);", w.name)
	w.emit("")
	w.emit("    if (index == 0) {")
	w.emit("        if (this->head == NULL)")
	w.emit("            panic(\"index out of bounds in %s_delete\");", w.name)
	w.emit("")
	w.emit("        %s_element* rest = this->head->next;", w.name)
	w.emit("        free(this->head);")
	w.emit("        this->head = rest;")
	w.emit("        this->size--;")
	w.emit("")
	w.emit("        // deleted the only element: clear the tail as well")
	w.emit("        if (rest == NULL)")
	w.emit("            this->tail = NULL;")
	w.emit("")
	w.emit("        return;")
	w.emit("    }")
	w.emit("")
	w.emit("    // walk to the predecessor; bounds are checked before any relinking")
	w.emit("    %s_element* cursor = this->head;", w.name)
	w.emit("    while (cursor != NULL && index > 1) {")
	w.emit("        cursor = cursor->next;")
	w.emit("        index--;")
	w.emit("    }")
	w.emit("")
	w.emit("    if (index > 1 || cursor == NULL || cursor->next == NULL)")
	w.emit("        panic(\"index out of bounds in %s_delete\");", w.name)
	w.emit("")
	w.emit("    %s_element* removed = cursor->next;", w.name)
	w.emit("    cursor->next = removed->next;")
	w.emit("    free(removed);")
	w.emit("    this->size--;")
	w.emit("")
	w.emit("    // removed the old tail: its predecessor is the tail now")
	w.emit("    if (cursor->next == NULL)")
	w.emit("        this->tail = cursor;")
	w.emit("}")
}

func (w *listWriter) emitInsert() {
	w.emit("// insert a value at index, shifting the rest back; index == size appends")
	w.emit("void %s_insert(%s* this, uint64_t index, %s value) {", w.name, w.name, w.elem)
	w.emit("    %s_invalidate(this);", w.name)
	w.emit("")
	w.emit("    if (index == 0) {")
	w.emit("        %s_element* elem = malloc(sizeof(%s_element));", w.name, w.name)
	w.emit("        elem->value = value;")
	w.emit("        elem->next = this->head;")
	w.emit("        this->head = elem;")
	w.emit("        if (this->tail == NULL)")
	w.emit("            this->tail = elem;")
	w.emit("        this->size++;")
	w.emit("        return;")
	w.emit("    }")
	w.emit("")
	w.emit("    // the new element goes after the one at index - 1")
	w.emit("    index--;")
	w.emit("    %s_element* cursor = this->head;", w.name)
	w.emit("    while (cursor != NULL && index > 0) {")
	w.emit("        cursor = cursor->next;")
	w.emit("        index--;")
	w.emit("    }")
	w.emit("")
	w.emit("    if (index > 0 || cursor == NULL)")
	w.emit("        panic(\"index out of bounds in %s_insert\");", w.name)
	w.emit("")
	w.emit("    %s_element* elem = malloc(sizeof(%s_element));", w.name, w.name)
	w.emit("    elem->value = value;")
	w.emit("    elem->next = cursor->next;")
	w.emit("    cursor->next = elem;")
	w.emit("")
	w.emit("    // inserted at the back: the new element is the tail now")
	w.emit("    if (elem->next == NULL)")
	w.emit("        this->tail = elem;")
	w.emit("")
	w.emit("    this->size++;")
	w.emit("}")
}
