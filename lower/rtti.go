package lower

import (
	llconstant "github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/mna/gale/ir"
)

// rttiKind is the fixed run-time-type-information kind tag.
type rttiKind int

// List of RTTI kind tags, in the order the kind-names array mirrors.
const (
	rttiVoid rttiKind = iota
	rttiPtr
	rttiByte
	rttiUbyte
	rttiShort
	rttiUshort
	rttiInt
	rttiUint
	rttiLong
	rttiUlong
	rttiFloat
	rttiDouble
	rttiBool
	rttiStruct
	rttiFuncPtr
	rttiFixedArray
)

var rttiKindNames = [...]string{
	"void", "ptr", "byte", "ubyte", "short", "ushort", "int", "uint",
	"long", "ulong", "float", "double", "bool", "struct", "func_ptr", "fixed_array",
}

// rttiKindFor maps an ir.Kind to its RTTI tag. Half collapses into ushort
// here — a documented limitation carried over verbatim from the data
// model rather than fixed, per DESIGN NOTES.
func rttiKindFor(k ir.Kind) rttiKind {
	switch k {
	case ir.KindVoid:
		return rttiVoid
	case ir.KindPointer:
		return rttiPtr
	case ir.KindS8:
		return rttiByte
	case ir.KindU8:
		return rttiUbyte
	case ir.KindS16:
		return rttiShort
	case ir.KindU16, ir.KindHalf:
		return rttiUshort
	case ir.KindS32:
		return rttiInt
	case ir.KindU32:
		return rttiUint
	case ir.KindS64:
		return rttiLong
	case ir.KindU64:
		return rttiUlong
	case ir.KindFloat:
		return rttiFloat
	case ir.KindDouble:
		return rttiDouble
	case ir.KindBool:
		return rttiBool
	case ir.KindStructure, ir.KindUnion:
		return rttiStruct
	case ir.KindFuncPtr:
		return rttiFuncPtr
	case ir.KindFixedArray:
		return rttiFixedArray
	}
	return rttiVoid
}

// anyTypeShapes caches the handful of concrete AnyType*-variant LLVM struct
// shapes so repeated emission (one per type-table record) doesn't rebuild
// them.
type anyTypeShapes struct {
	base       *ir.Type // AnyType: {kind u8}
	ptrType    *ir.Type // AnyPtrType: {kind u8, inner *AnyType}
	fixedArray *ir.Type // AnyFixedArrayType: {kind u8, elem *AnyType, length usize}
	funcPtr    *ir.Type // AnyFuncPtrType: {kind u8}
	// AnyStructType is built per-record since its `members` array length
	// varies with field count.
}

func (l *Lowerer) anyTypeShapes() anyTypeShapes {
	b := l.module.Builder
	u8 := b.Prim(ir.KindU8)
	usize := l.module.Usize
	anyPtr := b.Pointer(b.Structure([]*ir.Type{u8}, false))
	return anyTypeShapes{
		base:       b.Structure([]*ir.Type{u8}, false),
		ptrType:    b.Structure([]*ir.Type{u8, anyPtr}, false),
		fixedArray: b.Structure([]*ir.Type{u8, anyPtr, usize}, false),
		funcPtr:    b.Structure([]*ir.Type{u8}, false),
	}
}

func kindTag(b *ir.Builder, k rttiKind) *ir.Value {
	u8 := b.Prim(ir.KindU8)
	return ir.NewLiteral(u8, llconstant.NewInt(u8.LL.(*lltypes.IntType), int64(k)))
}

// emitRTTI reduces the type table, emits one anonymous AnyType-variant
// global per record, assembles the `**AnyType` array and the kind-names
// array (one name per RTTI kind tag, in tag order, so a record's kind tag
// indexes it), and stores their addresses and lengths into the four
// distinguished globals.
func (l *Lowerer) emitRTTI() {
	l.module.Reduce()
	shapes := l.anyTypeShapes()
	b := l.module.Builder
	anyPtrType := b.Pointer(shapes.base)

	entryPtrs := make([]*ir.Value, len(l.module.TypeTable))
	for i, entry := range l.module.TypeTable {
		g := l.emitAnyTypeRecord(entry, shapes)
		entryPtrs[i] = l.module.ConstBitcast(anyPtrType, &ir.Value{Type: b.Pointer(g.Type), LL: g.LL})
	}

	arrType := b.FixedArray(anyPtrType, int64(len(entryPtrs)))
	arr := l.module.ArrayLiteral(arrType, entryPtrs)
	typesArr := l.module.NewAnonGlobal("types", arrType, arr, true)

	kindNamesType := b.FixedArray(b.Pointer(b.Prim(ir.KindU8)), int64(len(rttiKindNames)))
	kindNameVals := make([]*ir.Value, len(rttiKindNames))
	for i, name := range rttiKindNames {
		kindNameVals[i] = l.module.CStrOfLen(name)
	}
	kindsArr := l.module.ArrayLiteral(kindNamesType, kindNameVals)
	kindsGlobal := l.module.NewAnonGlobal("type_kinds", kindNamesType, kindsArr, true)

	usize := l.module.Usize
	length := ir.NewLiteral(usize, llconstant.NewInt(usize.LL.(*lltypes.IntType), int64(len(l.module.TypeTable))))
	kindsLength := ir.NewLiteral(usize, llconstant.NewInt(usize.LL.(*lltypes.IntType), int64(len(rttiKindNames))))

	doublePtrAny := b.Pointer(anyPtrType)
	doublePtrU8 := b.Pointer(b.Pointer(b.Prim(ir.KindU8)))

	l.module.NewGlobal("__types__", doublePtrAny, l.module.ConstBitcast(doublePtrAny, &ir.Value{Type: b.Pointer(arrType), LL: typesArr.LL}))
	l.module.NewGlobal("__types_length__", usize, length)
	l.module.NewGlobal("__type_kinds__", doublePtrU8, l.module.ConstBitcast(doublePtrU8, &ir.Value{Type: b.Pointer(kindNamesType), LL: kindsGlobal.LL}))
	l.module.NewGlobal("__type_kinds_length__", usize, kindsLength)
}

// emitNullRTTI initializes the four RTTI globals to null/0 when the
// compiler's no-type-info switch is set, skipping table reduction and
// record emission entirely.
func (l *Lowerer) emitNullRTTI() {
	b := l.module.Builder
	anyPtrType := b.Pointer(b.Structure([]*ir.Type{b.Prim(ir.KindU8)}, false))
	doublePtrAny := b.Pointer(anyPtrType)
	doublePtrU8 := b.Pointer(b.Pointer(b.Prim(ir.KindU8)))
	usize := l.module.Usize
	zero := ir.NewLiteral(usize, llconstant.NewInt(usize.LL.(*lltypes.IntType), 0))

	l.module.NewGlobal("__types__", doublePtrAny, ir.NewNullPtr(doublePtrAny))
	l.module.NewGlobal("__types_length__", usize, zero)
	l.module.NewGlobal("__type_kinds__", doublePtrU8, ir.NewNullPtr(doublePtrU8))
	l.module.NewGlobal("__type_kinds_length__", usize, zero)
}

// emitAnyTypeRecord builds the concrete AnyType-variant global for one
// reduced type-table record, dispatching on the resolved IR type's shape.
func (l *Lowerer) emitAnyTypeRecord(entry ir.TypeTableEntry, shapes anyTypeShapes) *ir.Global {
	b := l.module.Builder
	t := entry.Resolved
	kindVal := kindTag(b, rttiKindFor(t.Kind))

	switch t.Kind {
	case ir.KindPointer:
		innerPtr := l.emitOrReuseAnyTypePtr(t.Elem, shapes)
		v := l.module.StructLiteral(shapes.ptrType, []*ir.Value{kindVal, innerPtr})
		return l.module.NewAnonGlobal("ptr."+entry.Name, shapes.ptrType, v, true)

	case ir.KindFixedArray:
		innerPtr := l.emitOrReuseAnyTypePtr(t.Elem, shapes)
		usize := l.module.Usize
		length := ir.NewLiteral(usize, llconstant.NewInt(usize.LL.(*lltypes.IntType), t.Len))
		v := l.module.StructLiteral(shapes.fixedArray, []*ir.Value{kindVal, innerPtr, length})
		return l.module.NewAnonGlobal("arr."+entry.Name, shapes.fixedArray, v, true)

	case ir.KindFuncPtr:
		v := l.module.StructLiteral(shapes.funcPtr, []*ir.Value{kindVal})
		return l.module.NewAnonGlobal("func."+entry.Name, shapes.funcPtr, v, true)

	case ir.KindStructure, ir.KindUnion:
		return l.emitAnyStructType(entry, t, kindVal)

	default:
		v := l.module.StructLiteral(shapes.base, []*ir.Value{kindVal})
		return l.module.NewAnonGlobal("scalar."+entry.Name, shapes.base, v, true)
	}
}

// emitOrReuseAnyTypePtr builds a standalone AnyType record for a pointee
// type that may not itself have a type-table entry (e.g. the pointee of an
// anonymous `*int` written inline), then returns its bitcast `*AnyType`.
func (l *Lowerer) emitOrReuseAnyTypePtr(elem *ir.Type, shapes anyTypeShapes) *ir.Value {
	b := l.module.Builder
	anyPtrType := b.Pointer(shapes.base)
	kindVal := kindTag(b, rttiKindFor(elem.Kind))
	v := l.module.StructLiteral(shapes.base, []*ir.Value{kindVal})
	g := l.module.NewAnonGlobal("elem", shapes.base, v, true)
	return l.module.ConstBitcast(anyPtrType, &ir.Value{Type: b.Pointer(shapes.base), LL: g.LL})
}

// emitAnyStructType builds the AnyStructType variant: kind tag, a members
// array of `*AnyType` (each pointing at a standalone kind-only record built
// for the field's re-resolved written type, not at that type's own record
// in the type table), member offsets (zero placeholders, filled by the
// external codegen collaborator), member names, and a packed flag.
func (l *Lowerer) emitAnyStructType(entry ir.TypeTableEntry, t *ir.Type, kindVal *ir.Value) *ir.Global {
	b := l.module.Builder
	usize := l.module.Usize
	u8 := b.Prim(ir.KindU8)
	anyPtr := b.Pointer(b.Structure([]*ir.Type{u8}, false))

	si, ok := l.table.Struct(entry.Name)
	var fieldCount int
	if ok {
		fieldCount = len(si.Fields)
	} else {
		fieldCount = len(t.Fields)
	}

	members := make([]*ir.Value, fieldCount)
	offsets := make([]*ir.Value, fieldCount)
	names := make([]*ir.Value, fieldCount)
	for i := 0; i < fieldCount; i++ {
		var fieldType *ir.Type
		var fieldName string
		if ok {
			ft, err := l.table.Resolve(si.Decl.Fields[i].Type)
			if err == nil {
				fieldType = ft
			}
			fieldName = si.Decl.Fields[i].Name
		}
		if fieldType == nil && i < len(t.Fields) {
			fieldType = t.Fields[i]
		}
		if fieldType == nil {
			fieldType = b.Prim(ir.KindVoid)
		}
		members[i] = l.emitOrReuseAnyTypePtr(fieldType, l.anyTypeShapes())
		offsets[i] = ir.NewLiteral(usize, llconstant.NewInt(usize.LL.(*lltypes.IntType), 0))
		names[i] = l.module.CStrOfLen(fieldName)
	}

	membersArrType := b.FixedArray(anyPtr, int64(fieldCount))
	offsetsArrType := b.FixedArray(usize, int64(fieldCount))
	namesArrType := b.FixedArray(b.Pointer(u8), int64(fieldCount))

	membersArr := l.module.ArrayLiteral(membersArrType, members)
	offsetsArr := l.module.ArrayLiteral(offsetsArrType, offsets)
	namesArr := l.module.ArrayLiteral(namesArrType, names)

	membersG := l.module.NewAnonGlobal("struct_members."+entry.Name, membersArrType, membersArr, true)
	offsetsG := l.module.NewAnonGlobal("struct_offsets."+entry.Name, offsetsArrType, offsetsArr, true)
	namesG := l.module.NewAnonGlobal("struct_names."+entry.Name, namesArrType, namesArr, true)

	packedVal := ir.NewLiteral(l.module.Bool, llconstant.NewBool(t.Packed))
	anyStructShape := b.Structure([]*ir.Type{
		u8,
		b.Pointer(anyPtr),
		usize,
		b.Pointer(usize),
		b.Pointer(b.Pointer(u8)),
		l.module.Bool,
	}, false)

	fieldsVal := []*ir.Value{
		kindVal,
		l.module.ConstBitcast(b.Pointer(anyPtr), &ir.Value{Type: b.Pointer(membersArrType), LL: membersG.LL}),
		ir.NewLiteral(usize, llconstant.NewInt(usize.LL.(*lltypes.IntType), int64(fieldCount))),
		l.module.ConstBitcast(b.Pointer(usize), &ir.Value{Type: b.Pointer(offsetsArrType), LL: offsetsG.LL}),
		l.module.ConstBitcast(b.Pointer(b.Pointer(u8)), &ir.Value{Type: b.Pointer(namesArrType), LL: namesG.LL}),
		packedVal,
	}
	v := l.module.StructLiteral(anyStructShape, fieldsVal)
	return l.module.NewAnonGlobal("struct."+entry.Name, anyStructShape, v, true)
}
