package ir

import (
	llir "github.com/llir/llvm/ir"
)

// NewFunction declares fn in m with the given parameter and return types,
// and creates its entry block-less llir.Func shell (basic blocks are added
// with NewBlock as lowering proceeds).
func (m *Module) NewFunction(name string, paramNames []string, paramTypes []*Type, ret *Type, traits uint8) *Function {
	params := make([]*llir.Param, len(paramTypes))
	for i, pt := range paramTypes {
		pname := ""
		if i < len(paramNames) {
			pname = paramNames[i]
		}
		params[i] = llir.NewParam(pname, pt.LL)
	}
	llfn := m.LL.NewFunc(name, ret.LL, params...)
	return &Function{Name: name, Traits: traits, ParamTypes: paramTypes, Return: ret, LL: llfn, m: m}
}

// Param returns the ith formal parameter as a Value.
func (f *Function) Param(i int) *Value {
	return &Value{Kind: ValResult, Type: f.ParamTypes[i], LL: f.LL.Params[i]}
}

// NewBlock appends a new basic block named name.
func (f *Function) NewBlock(name string) *Block {
	b := &Block{LL: f.LL.NewBlock(name), m: f.m}
	f.Blocks = append(f.Blocks, b)
	return b
}
