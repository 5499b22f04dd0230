package classfile

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/model"
)

// Opcodes relevant to graph construction (JVM spec chapter 6). Only the
// families the spec calls out — invoke*, get/putfield, get/putstatic,
// and the two ldc forms that can push a Class constant — are decoded
// semantically; every other opcode is only measured, never interpreted
// (spec.md §1 Non-goals: no stack-frame simulation).
const (
	opLdc             = 0x12
	opLdcW            = 0x13
	opLdc2W           = 0x14
	opGetstatic       = 0xB2
	opPutstatic       = 0xB3
	opGetfield        = 0xB4
	opPutfield        = 0xB5
	opInvokevirtual   = 0xB6
	opInvokespecial   = 0xB7
	opInvokestatic    = 0xB8
	opInvokeinterface = 0xB9
	opInvokedynamic   = 0xBA
	opTableswitch     = 0xAA
	opLookupswitch    = 0xAB
	opWide            = 0xC4
)

// fixedInstructionLength holds the total instruction length (opcode byte
// included) for every opcode with a fixed width. Opcodes requiring
// special-cased variable-length handling (tableswitch, lookupswitch,
// wide) are absent and handled in instructionLength.
var fixedInstructionLength = [256]int{
	0x00: 1, 0x01: 1, 0x02: 1, 0x03: 1, 0x04: 1, 0x05: 1, 0x06: 1, 0x07: 1,
	0x08: 1, 0x09: 1, 0x0A: 1, 0x0B: 1, 0x0C: 1, 0x0D: 1, 0x0E: 1, 0x0F: 1,
	0x10: 2, 0x11: 3, 0x12: 2, 0x13: 3, 0x14: 3, 0x15: 2, 0x16: 2, 0x17: 2,
	0x18: 2, 0x19: 2, 0x1A: 1, 0x1B: 1, 0x1C: 1, 0x1D: 1, 0x1E: 1, 0x1F: 1,
	0x20: 1, 0x21: 1, 0x22: 1, 0x23: 1, 0x24: 1, 0x25: 1, 0x26: 1, 0x27: 1,
	0x28: 1, 0x29: 1, 0x2A: 1, 0x2B: 1, 0x2C: 1, 0x2D: 1, 0x2E: 1, 0x2F: 1,
	0x30: 1, 0x31: 1, 0x32: 1, 0x33: 1, 0x34: 1, 0x35: 1, 0x36: 2, 0x37: 2,
	0x38: 2, 0x39: 2, 0x3A: 2, 0x3B: 1, 0x3C: 1, 0x3D: 1, 0x3E: 1, 0x3F: 1,
	0x40: 1, 0x41: 1, 0x42: 1, 0x43: 1, 0x44: 1, 0x45: 1, 0x46: 1, 0x47: 1,
	0x48: 1, 0x49: 1, 0x4A: 1, 0x4B: 1, 0x4C: 1, 0x4D: 1, 0x4E: 1, 0x4F: 1,
	0x50: 1, 0x51: 1, 0x52: 1, 0x53: 1, 0x54: 1, 0x55: 1, 0x56: 1, 0x57: 1,
	0x58: 1, 0x59: 1, 0x5A: 1, 0x5B: 1, 0x5C: 1, 0x5D: 1, 0x5E: 1, 0x5F: 1,
	0x60: 1, 0x61: 1, 0x62: 1, 0x63: 1, 0x64: 1, 0x65: 1, 0x66: 1, 0x67: 1,
	0x68: 1, 0x69: 1, 0x6A: 1, 0x6B: 1, 0x6C: 1, 0x6D: 1, 0x6E: 1, 0x6F: 1,
	0x70: 1, 0x71: 1, 0x72: 1, 0x73: 1, 0x74: 1, 0x75: 1, 0x76: 1, 0x77: 1,
	0x78: 1, 0x79: 1, 0x7A: 1, 0x7B: 1, 0x7C: 1, 0x7D: 1, 0x7E: 1, 0x7F: 1,
	0x80: 1, 0x81: 1, 0x82: 1, 0x83: 1, 0x84: 3, 0x85: 1, 0x86: 1, 0x87: 1,
	0x88: 1, 0x89: 1, 0x8A: 1, 0x8B: 1, 0x8C: 1, 0x8D: 1, 0x8E: 1, 0x8F: 1,
	0x90: 1, 0x91: 1, 0x92: 1, 0x93: 1, 0x94: 1, 0x95: 1, 0x96: 1, 0x97: 1,
	0x98: 1, 0x99: 3, 0x9A: 3, 0x9B: 3, 0x9C: 3, 0x9D: 3, 0x9E: 3, 0x9F: 3,
	0xA0: 3, 0xA1: 3, 0xA2: 3, 0xA3: 3, 0xA4: 3, 0xA5: 3, 0xA6: 3, 0xA7: 3,
	0xA8: 3, 0xA9: 2, 0xAA: -1, 0xAB: -1, 0xAC: 1, 0xAD: 1, 0xAE: 1, 0xAF: 1,
	0xB0: 1, 0xB1: 1, 0xB2: 3, 0xB3: 3, 0xB4: 3, 0xB5: 3, 0xB6: 3, 0xB7: 3,
	0xB8: 3, 0xB9: 5, 0xBA: 5, 0xBB: 3, 0xBC: 2, 0xBD: 3, 0xBE: 1, 0xBF: 1,
	0xC0: 3, 0xC1: 3, 0xC2: 1, 0xC3: 1, 0xC4: -1, 0xC5: 4, 0xC6: 3, 0xC7: 3,
	0xC8: 5, 0xC9: 5,
}

// codeWalkResult is the semantic summary the Graph Builder needs out of a
// method's bytecode.
type codeWalkResult struct {
	Invocations    []model.MethodRef
	FieldAccesses  []model.FieldRef
	ClassConstants []string
}

// walkCode scans one method's Code attribute, classifying each opcode
// belonging to the three families the spec tracks; every other opcode is
// measured and skipped (spec.md §4.1, §1 Non-goals).
func walkCode(code []byte, cp *constantPool) (codeWalkResult, error) {
	var result codeWalkResult
	pc := 0
	for pc < len(code) {
		op := code[pc]
		width, err := instructionLength(code, pc)
		if err != nil {
			return result, fmt.Errorf("classfile: bytecode at pc=%d: %w", pc, err)
		}

		switch op {
		case opLdc:
			if pc+1 >= len(code) {
				return result, fmt.Errorf("classfile: truncated ldc at pc=%d", pc)
			}
			if fqn, ok := classConstantAt(cp, uint16(code[pc+1])); ok {
				result.ClassConstants = append(result.ClassConstants, fqn)
			}
		case opLdcW, opLdc2W:
			if pc+2 >= len(code) {
				return result, fmt.Errorf("classfile: truncated %s at pc=%d", mnemonic(op), pc)
			}
			idx := uint16(code[pc+1])<<8 | uint16(code[pc+2])
			if fqn, ok := classConstantAt(cp, idx); ok {
				result.ClassConstants = append(result.ClassConstants, fqn)
			}
		case opGetstatic, opPutstatic, opGetfield, opPutfield:
			idx := uint16(code[pc+1])<<8 | uint16(code[pc+2])
			owner, name, desc, err := cp.memberRefAt(idx)
			if err == nil {
				result.FieldAccesses = append(result.FieldAccesses, model.FieldRef{
					Owner: toDotted(owner), Name: name, Descriptor: desc,
				})
			}
		case opInvokevirtual, opInvokespecial, opInvokestatic, opInvokeinterface:
			idx := uint16(code[pc+1])<<8 | uint16(code[pc+2])
			owner, name, desc, err := cp.memberRefAt(idx)
			if err == nil {
				result.Invocations = append(result.Invocations, model.MethodRef{
					Owner: toDotted(owner), Name: name, Descriptor: desc,
				})
			}
		case opInvokedynamic:
			// Bootstrap-linked call sites carry no resolvable static owner;
			// spec.md's graph is built from textual invoke targets only.
		}

		pc += width
	}
	return result, nil
}

// classConstantAt resolves a constant pool index to a dotted class FQN if
// (and only if) it names a CONSTANT_Class entry — the operand shape `ldc`
// needs to discover `bind(Interface.class).to(Impl.class)` arguments
// (spec.md §4.1, §4.3).
func classConstantAt(cp *constantPool, index uint16) (string, bool) {
	internal, err := cp.classNameAt(index)
	if err != nil {
		return "", false
	}
	return toDotted(internal), true
}

// instructionLength returns the total width (in bytes, opcode included)
// of the instruction at code[pc], resolving the three variable-length
// families (tableswitch, lookupswitch, wide) explicitly.
func instructionLength(code []byte, pc int) (int, error) {
	op := code[pc]
	if w := fixedInstructionLength[op]; w > 0 {
		return w, nil
	}
	switch op {
	case opTableswitch:
		return tableswitchLength(code, pc)
	case opLookupswitch:
		return lookupswitchLength(code, pc)
	case opWide:
		return wideLength(code, pc)
	default:
		return 0, fmt.Errorf("unrecognised opcode 0x%02X", op)
	}
}

// tableswitchLength: opcode, 0-3 pad bytes to reach a 4-byte boundary
// (relative to method start, i.e. relative to pc=0 of the Code array),
// then default(4) low(4) high(4) then (high-low+1) jump offsets of 4
// bytes each.
func tableswitchLength(code []byte, pc int) (int, error) {
	pad := (4 - (pc+1)%4) % 4
	base := pc + 1 + pad
	if base+12 > len(code) {
		return 0, fmt.Errorf("truncated tableswitch at pc=%d", pc)
	}
	low := int32(be4(code[base+4:]))
	high := int32(be4(code[base+8:]))
	if high < low {
		return 0, fmt.Errorf("tableswitch at pc=%d: high %d < low %d", pc, high, low)
	}
	numEntries := int(high-low) + 1
	total := (base + 12 + numEntries*4) - pc
	return total, nil
}

// lookupswitchLength: opcode, padding, default(4) npairs(4), npairs*(match(4)+offset(4)).
func lookupswitchLength(code []byte, pc int) (int, error) {
	pad := (4 - (pc+1)%4) % 4
	base := pc + 1 + pad
	if base+8 > len(code) {
		return 0, fmt.Errorf("truncated lookupswitch at pc=%d", pc)
	}
	npairs := int32(be4(code[base+4:]))
	if npairs < 0 {
		return 0, fmt.Errorf("lookupswitch at pc=%d: negative npairs", pc)
	}
	total := (base + 8 + int(npairs)*8) - pc
	return total, nil
}

// wideLength: opcode, modified-opcode(1); iinc variant carries an extra
// u2 constant, every other widened opcode carries only the u2 index.
func wideLength(code []byte, pc int) (int, error) {
	if pc+1 >= len(code) {
		return 0, fmt.Errorf("truncated wide at pc=%d", pc)
	}
	modified := code[pc+1]
	if modified == 0x84 { // iinc
		return 6, nil
	}
	return 4, nil
}

func be4(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func mnemonic(op byte) string {
	switch op {
	case opLdcW:
		return "ldc_w"
	case opLdc2W:
		return "ldc2_w"
	default:
		return fmt.Sprintf("0x%02X", op)
	}
}
