package ir

import (
	"strings"

	"github.com/dolthub/swiss"
	llir "github.com/llir/llvm/ir"
	llconstant "github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"golang.org/x/exp/slices"

	"github.com/mna/gale/arena"
)

// lltypesVoidPtr is the raw LLVM type used for malloc/free's untyped
// pointer parameter, equivalent to a written `*ubyte`.
func lltypesVoidPtr() lltypes.Type { return lltypes.NewPointer(lltypes.I8) }

// FuncMapping is one entry of the sorted function-name index used for
// overload resolution and call-site binding.
type FuncMapping struct {
	Name string
	ID   int
	Fn   *Function
}

// MethodMapping is one entry of the sorted (struct, name) method index.
type MethodMapping struct {
	Struct string
	Name   string
	ID     int
	Fn     *Function
}

// TypeTableEntry is one record of the accumulated, later reduced, type
// table used to emit RTTI.
type TypeTableEntry struct {
	Name     string
	Resolved *Type
	IsAlias  bool
}

// Global is a module-scope variable with an optional initializer.
type Global struct {
	Name string
	Type *Type
	Init *Value
	LL   *llir.Global
}

// Function is a lowered function: its signature, traits, and basic blocks.
type Function struct {
	Name       string
	Traits     uint8
	ParamTypes []*Type
	ParamPOD   []bool // per-parameter "plain-old-data" trait, skips pass/defer management
	Return     *Type
	LL         *llir.Func
	Blocks     []*Block

	m *Module // owning module, for malloc/free declaration lookup
}

// Module owns every lowered function, global, and type produced for one
// translation unit. typesPool/valuesPool back the Type/Value records handed
// out by AllocType/AllocValue, released as a single unit by Release. The
// Types built by Builder and the Values built by Block and the other ir
// constructors are ordinary Go allocations and are not drawn from these
// pools.
type Module struct {
	LL *llir.Module

	Builder *Builder

	typesPool  *arena.Arena[Type]
	valuesPool *arena.Arena[Value]

	Funcs        []*Function
	FuncMappings []FuncMapping
	Methods      []MethodMapping
	TypeTable    []TypeTableEntry
	Globals      []*Global
	AnonGlobals  []*Global

	// seenTypeNames dedups AddTypeTableEntry against the same written type
	// name appearing repeatedly across a translation unit, cheaper than
	// scanning the accumulated slice on every lowering site that writes a
	// type (`s32`, `*Foo`, ... typically recur hundreds of times).
	seenTypeNames *swiss.Map[string, struct{}]

	nextAnonID int
	cstrCache  map[string]*Value

	mallocFn *llir.Func
	freeFn   *llir.Func

	// Cached common types.
	Usize    *Type
	UsizePtr *Type
	Bool     *Type
	FuncPtr  *Type
}

// NewModule creates an empty Module, with a fresh LLVM module and IR type
// pool, and the common cached types pre-built (usize/usize_ptr/bool
// assuming a 64-bit target; funcptr is a bare void() function pointer, the
// type of the null value that `func &` of an undeclared name lowers to).
func NewModule(name string) *Module {
	b := NewBuilder()
	m := &Module{
		LL:            llir.NewModule(),
		Builder:       b,
		typesPool:     arena.New[Type](1024, 0),
		valuesPool:    arena.New[Value](4096, 0),
		seenTypeNames: swiss.NewMap[string, struct{}](256),
	}
	m.LL.SourceFilename = name
	m.Usize = b.Prim(KindU64)
	m.UsizePtr = b.Pointer(m.Usize)
	m.Bool = b.Prim(KindBool)
	m.FuncPtr = b.FuncPtr(nil, b.Prim(KindVoid))
	return m
}

// AllocType hands out a pool-owned Type record, initialized by init.
func (m *Module) AllocType(init func(*Type)) *Type {
	t := m.typesPool.Alloc()
	init(t)
	return t
}

// AllocValue hands out a pool-owned Value record.
func (m *Module) AllocValue(init func(*Value)) *Value {
	v := m.valuesPool.Alloc()
	init(v)
	return v
}

// Release frees every pooled Type and Value record in one shot.
func (m *Module) Release() {
	m.typesPool.Release()
	m.valuesPool.Release()
}

// AddFuncMapping records fn under name and keeps FuncMappings sorted by
// (name, id) for binary-search lookup.
func (m *Module) AddFuncMapping(name string, fn *Function) int {
	id := len(m.Funcs)
	m.Funcs = append(m.Funcs, fn)
	m.FuncMappings = append(m.FuncMappings, FuncMapping{Name: name, ID: id, Fn: fn})
	slices.SortStableFunc(m.FuncMappings, func(a, b FuncMapping) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
	return id
}

// LookupFuncs returns the contiguous group of overload candidates for name.
func (m *Module) LookupFuncs(name string) []FuncMapping {
	lo, _ := slices.BinarySearchFunc(m.FuncMappings, name, func(fm FuncMapping, name string) int {
		return strings.Compare(fm.Name, name)
	})
	hi := lo
	for hi < len(m.FuncMappings) && m.FuncMappings[hi].Name == name {
		hi++
	}
	return m.FuncMappings[lo:hi]
}

// AddMethodMapping records a struct method, keeping Methods sorted by
// (struct, name, id).
func (m *Module) AddMethodMapping(structName, name string, fn *Function) int {
	id := len(m.Funcs)
	m.Funcs = append(m.Funcs, fn)
	m.Methods = append(m.Methods, MethodMapping{Struct: structName, Name: name, ID: id, Fn: fn})
	slices.SortStableFunc(m.Methods, func(a, b MethodMapping) int {
		if c := strings.Compare(a.Struct, b.Struct); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
	return id
}

// LookupMethods returns the contiguous group of overload candidates for
// (structName, name).
func (m *Module) LookupMethods(structName, name string) []MethodMapping {
	key := structName + "\x00" + name
	lo, _ := slices.BinarySearchFunc(m.Methods, key, func(mm MethodMapping, key string) int {
		return strings.Compare(mm.Struct+"\x00"+mm.Name, key)
	})
	hi := lo
	for hi < len(m.Methods) && m.Methods[hi].Struct == structName && m.Methods[hi].Name == name {
		hi++
	}
	return m.Methods[lo:hi]
}

// NewGlobal declares a named module-scope variable with an optional
// initializer (nil means zero-initialized), used for user GlobalVariable
// declarations and the four distinguished RTTI globals.
func (m *Module) NewGlobal(name string, t *Type, init *Value) *Global {
	var llg *llir.Global
	if init != nil {
		if cst, ok := init.LL.(llconstant.Constant); ok {
			llg = m.LL.NewGlobalDef(name, cst)
		} else {
			llg = m.LL.NewGlobal(name, t.LL)
		}
	} else {
		llg = m.LL.NewGlobal(name, t.LL)
	}
	gl := &Global{Name: name, Type: t, Init: init, LL: llg}
	m.Globals = append(m.Globals, gl)
	return gl
}

// AddTypeTableEntry appends a distinct written type encountered during
// lowering; the table is reduced (sorted, as a final pass) by Reduce before
// RTTI arrays are emitted. Repeated writes of the same type name are
// rejected here rather than left to Reduce, since a name typically recurs
// far more often than it first appears.
func (m *Module) AddTypeTableEntry(e TypeTableEntry) {
	if _, dup := m.seenTypeNames.Get(e.Name); dup {
		return
	}
	m.seenTypeNames.Put(e.Name, struct{}{})
	m.TypeTable = append(m.TypeTable, e)
}

// Reduce sorts the type table by name and removes duplicate names,
// establishing each record's stable index.
func (m *Module) Reduce() {
	slices.SortStableFunc(m.TypeTable, func(a, b TypeTableEntry) int { return strings.Compare(a.Name, b.Name) })
	out := m.TypeTable[:0]
	var lastName string
	first := true
	for _, e := range m.TypeTable {
		if !first && e.Name == lastName {
			continue
		}
		out = append(out, e)
		lastName = e.Name
		first = false
	}
	m.TypeTable = out
}

// mallocDecl lazily declares the external `malloc` function backing the
// `malloc` IR opcode.
func (m *Module) mallocDecl() *llir.Func {
	if m.mallocFn == nil {
		m.mallocFn = m.LL.NewFunc("malloc", lltypesVoidPtr(), llir.NewParam("size", m.Usize.LL))
	}
	return m.mallocFn
}

// freeDecl lazily declares the external `free` function backing the
// `free` IR opcode.
func (m *Module) freeDecl() *llir.Func {
	if m.freeFn == nil {
		m.freeFn = m.LL.NewFunc("free", m.Builder.Prim(KindVoid).LL, llir.NewParam("ptr", lltypesVoidPtr()))
	}
	return m.freeFn
}

// LookupTypeIndex returns the index of name in the reduced type table, or
// -1 if absent.
func (m *Module) LookupTypeIndex(name string) int {
	i, found := slices.BinarySearchFunc(m.TypeTable, name, func(e TypeTableEntry, name string) int {
		return strings.Compare(e.Name, name)
	})
	if found {
		return i
	}
	return -1
}

