// Package bytecode implements the instruction-level comparator of spec
// §4.3: two decoded instructions compare equal by dispatching on opcode
// family and consulting the current match graph where a family requires
// resolving a field/method reference.
package bytecode

import (
	"github.com/ruinedyourlife/matchengine/internal/model"
	"github.com/ruinedyourlife/matchengine/internal/resolve"
	"github.com/ruinedyourlife/matchengine/internal/similarity"
)

// Equal returns whether iA and iB are equal at the design level described
// by §4.3. It returns false outright if the opcodes differ.
func Equal(iA, iB model.Instruction) bool {
	if iA.Op != iB.Op {
		return false
	}
	switch iA.Op {
	case model.OpBiPush, model.OpSiPush:
		return iA.IntOperand == iB.IntOperand

	case model.OpILoad, model.OpLLoad, model.OpFLoad, model.OpDLoad, model.OpALoad,
		model.OpIStore, model.OpLStore, model.OpFStore, model.OpDStore, model.OpAStore:
		// Local-variable matching is deliberately omitted; opcode match suffices.
		return true

	case model.OpNew, model.OpANewArray, model.OpCheckCast, model.OpInstanceOf:
		return similarity.PotentiallyEqualClasses(iA.TypeClass, iB.TypeClass)

	case model.OpGetStatic, model.OpPutStatic, model.OpGetField, model.OpPutField:
		return compareFieldInstruction(iA, iB)

	case model.OpInvokeVirtual, model.OpInvokeSpecial, model.OpInvokeStatic, model.OpInvokeInterface:
		return compareMethodInstruction(iA, iB)

	case model.OpInvokeDynamic:
		return compareInvokeDynamic(iA, iB)

	case model.OpIfEq, model.OpIfNe, model.OpIfLt, model.OpIfGe, model.OpIfGt, model.OpIfLe,
		model.OpIfICmpEq, model.OpIfICmpNe, model.OpIfICmpLt, model.OpIfICmpGe, model.OpIfICmpGt, model.OpIfICmpLe,
		model.OpIfACmpEq, model.OpIfACmpNe, model.OpGoto, model.OpJsr, model.OpIfNull, model.OpIfNonNull:
		return jumpSign(iA) == jumpSign(iB)

	case model.OpLdc:
		return compareLdc(iA.Constant, iB.Constant)

	case model.OpIinc:
		return iA.IntOperand == iB.IntOperand

	case model.OpTableSwitch:
		return iA.SwitchMin == iB.SwitchMin && iA.SwitchMax == iB.SwitchMax

	case model.OpLookupSwitch:
		return equalKeys(iA.SwitchKeys, iB.SwitchKeys)

	case model.OpMultiANewArray:
		return iA.ArrayDims == iB.ArrayDims && similarity.PotentiallyEqualClasses(iA.TypeClass, iB.TypeClass)

	default:
		// Arithmetic/stack/conversion/return and every other opcode not
		// singled out above: equal iff opcodes match, which was already
		// established above.
		return true
	}
}

func jumpSign(i model.Instruction) int {
	delta := i.JumpTarget - i.Position
	switch {
	case delta > 0:
		return 1
	case delta < 0:
		return -1
	default:
		return 0
	}
}

func equalKeys(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func compareLdc(a, b model.Constant) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == model.ConstClassType {
		return similarity.PotentiallyEqualClasses(a.ClassVal, b.ClassVal)
	}
	return a.Equal(b)
}

// compareFieldInstruction resolves the field referenced by each
// instruction against its owner; both unresolved -> equal, one
// unresolved -> unequal, else potentially equal.
func compareFieldInstruction(iA, iB model.Instruction) bool {
	fa := resolve.Field(iA.FieldOwner, iA.FieldName, iA.FieldDesc)
	fb := resolve.Field(iB.FieldOwner, iB.FieldName, iB.FieldDesc)
	if fa == nil && fb == nil {
		return true
	}
	if fa == nil || fb == nil {
		return false
	}
	return similarity.PotentiallyEqualFields(fa, fb)
}

// compareMethodInstruction resolves the method referenced by each
// instruction, honoring the interface-call bit, with the same
// both/one/else-resolved rule as fields.
func compareMethodInstruction(iA, iB model.Instruction) bool {
	ma := resolve.Method(iA.MethodOwner, iA.MethodName, iA.MethodDesc, iA.IsInterfaceCall)
	mb := resolve.Method(iB.MethodOwner, iB.MethodName, iB.MethodDesc, iB.IsInterfaceCall)
	if ma == nil && mb == nil {
		return true
	}
	if ma == nil || mb == nil {
		return false
	}
	return similarity.PotentiallyEqualMethods(ma, mb)
}

// compareInvokeDynamic requires equal bootstrap handles; when the
// bootstrap is the lambda metafactory, it unwraps arg[1] as the
// implementation handle and compares its target methods per its tag.
func compareInvokeDynamic(iA, iB model.Instruction) bool {
	if !iA.Bootstrap.Equal(iB.Bootstrap) {
		return false
	}
	if !iA.Bootstrap.IsLambdaMetafactory() {
		return true
	}
	ha, okA := lambdaImplHandle(iA.Bootstrap)
	hb, okB := lambdaImplHandle(iB.Bootstrap)
	if !okA && !okB {
		return true
	}
	if !okA || !okB {
		return false
	}
	if ha.Tag != hb.Tag {
		return false
	}
	switch ha.Tag {
	case model.HandleInvokeStatic, model.HandleNewInvokeSpecial:
		ma := resolve.Method(ha.Owner, ha.Name, ha.Desc, false)
		mb := resolve.Method(hb.Owner, hb.Name, hb.Desc, false)
		if ma == nil && mb == nil {
			return true
		}
		if ma == nil || mb == nil {
			return false
		}
		return similarity.PotentiallyEqualMethods(ma, mb)
	case model.HandleInvokeInterface:
		ma := resolve.Method(ha.Owner, ha.Name, ha.Desc, true)
		mb := resolve.Method(hb.Owner, hb.Name, hb.Desc, true)
		if ma == nil && mb == nil {
			return true
		}
		if ma == nil || mb == nil {
			return false
		}
		return similarity.PotentiallyEqualMethods(ma, mb)
	default: // HandleInvokeVirtual, HandleInvokeSpecial
		ma := resolve.Method(ha.Owner, ha.Name, ha.Desc, false)
		mb := resolve.Method(hb.Owner, hb.Name, hb.Desc, false)
		if ma == nil && mb == nil {
			return true
		}
		if ma == nil || mb == nil {
			return false
		}
		return similarity.PotentiallyEqualMethods(ma, mb)
	}
}

// lambdaImplHandle unwraps arg[1] of a lambda-metafactory bootstrap
// call's static arguments into the implementation method handle.
func lambdaImplHandle(b model.BootstrapHandle) (model.MethodHandle, bool) {
	if len(b.Args) < 2 {
		return model.MethodHandle{}, false
	}
	arg := b.Args[1]
	if arg.Kind != model.ConstMethodHandle {
		return model.MethodHandle{}, false
	}
	return model.MethodHandle{
		Tag:   arg.HandleTag,
		Owner: arg.HandleOwner,
		Name:  arg.HandleName,
		Desc:  arg.HandleDesc,
	}, true
}
