package classfile

import "fmt"

// Constant pool tags (JVM spec §4.4).
const (
	tagUtf8              = 1
	tagInteger           = 3
	tagFloat             = 4
	tagLong              = 5
	tagDouble            = 6
	tagClass             = 7
	tagString            = 8
	tagFieldref          = 9
	tagMethodref         = 10
	tagInterfaceMethodref = 11
	tagNameAndType       = 12
	tagMethodHandle      = 15
	tagMethodType        = 16
	tagDynamic           = 17
	tagInvokeDynamic     = 18
	tagModule            = 19
	tagPackage           = 20
)

// cpEntry is one constant pool slot. Only the fields relevant to a given
// tag are populated; the rest are zero.
type cpEntry struct {
	tag uint8

	utf8 string // tagUtf8

	nameIndex       uint16 // tagClass, tagString, tagMethodType, tagModule, tagPackage
	classIndex      uint16 // tagFieldref/Methodref/InterfaceMethodref
	nameTypeIndex   uint16 // tagFieldref/Methodref/InterfaceMethodref, tagDynamic/InvokeDynamic
	descriptorIndex uint16 // tagNameAndType
}

// constantPool is a 1-indexed view over the raw cpEntry slice (index 0 is
// unused, per the JVM spec's pool numbering).
type constantPool struct {
	entries []cpEntry
}

func (cp *constantPool) get(index uint16) (cpEntry, error) {
	if int(index) <= 0 || int(index) >= len(cp.entries) {
		return cpEntry{}, fmt.Errorf("classfile: constant pool index %d out of range", index)
	}
	return cp.entries[index], nil
}

// utf8At resolves a Utf8 constant pool entry, the building block behind
// every name/descriptor lookup.
func (cp *constantPool) utf8At(index uint16) (string, error) {
	e, err := cp.get(index)
	if err != nil {
		return "", err
	}
	if e.tag != tagUtf8 {
		return "", fmt.Errorf("classfile: constant pool index %d is not Utf8 (tag %d)", index, e.tag)
	}
	return e.utf8, nil
}

// classNameAt resolves a CONSTANT_Class entry to its internal (slash-form)
// name, unconverted — callers translate to dotted form at the edge.
func (cp *constantPool) classNameAt(index uint16) (string, error) {
	e, err := cp.get(index)
	if err != nil {
		return "", err
	}
	if e.tag != tagClass {
		return "", fmt.Errorf("classfile: constant pool index %d is not Class (tag %d)", index, e.tag)
	}
	return cp.utf8At(e.nameIndex)
}

// nameAndTypeAt resolves a CONSTANT_NameAndType entry's name and descriptor.
func (cp *constantPool) nameAndTypeAt(index uint16) (name, desc string, err error) {
	e, err := cp.get(index)
	if err != nil {
		return "", "", err
	}
	if e.tag != tagNameAndType {
		return "", "", fmt.Errorf("classfile: constant pool index %d is not NameAndType (tag %d)", index, e.tag)
	}
	name, err = cp.utf8At(e.nameIndex)
	if err != nil {
		return "", "", err
	}
	desc, err = cp.utf8At(e.descriptorIndex)
	if err != nil {
		return "", "", err
	}
	return name, desc, nil
}

// memberRefAt resolves any of Fieldref/Methodref/InterfaceMethodref to the
// owning class's internal name plus the member's name and descriptor.
func (cp *constantPool) memberRefAt(index uint16) (owner, name, desc string, err error) {
	e, err := cp.get(index)
	if err != nil {
		return "", "", "", err
	}
	switch e.tag {
	case tagFieldref, tagMethodref, tagInterfaceMethodref:
	default:
		return "", "", "", fmt.Errorf("classfile: constant pool index %d is not a member ref (tag %d)", index, e.tag)
	}
	owner, err = cp.classNameAt(e.classIndex)
	if err != nil {
		return "", "", "", err
	}
	name, desc, err = cp.nameAndTypeAt(e.nameTypeIndex)
	if err != nil {
		return "", "", "", err
	}
	return owner, name, desc, nil
}

// parseConstantPool reads constant_pool_count-1 entries from r, honouring
// the JVM rule that Long/Double entries occupy two consecutive pool slots.
func parseConstantPool(r *reader) (*constantPool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading constant_pool_count: %w", err)
	}
	entries := make([]cpEntry, count) // entries[0] unused
	for i := 1; i < int(count); i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, fmt.Errorf("classfile: reading constant pool entry %d tag: %w", i, err)
		}
		entry := cpEntry{tag: tag}
		switch tag {
		case tagUtf8:
			length, err := r.u2()
			if err != nil {
				return nil, err
			}
			raw, err := r.bytes(int(length))
			if err != nil {
				return nil, err
			}
			entry.utf8 = string(raw)
		case tagInteger, tagFloat:
			if _, err := r.u4(); err != nil {
				return nil, err
			}
		case tagLong, tagDouble:
			if _, err := r.u4(); err != nil {
				return nil, err
			}
			if _, err := r.u4(); err != nil {
				return nil, err
			}
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.nameIndex = idx
		case tagFieldref, tagMethodref, tagInterfaceMethodref:
			ci, err := r.u2()
			if err != nil {
				return nil, err
			}
			nt, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.classIndex, entry.nameTypeIndex = ci, nt
		case tagNameAndType:
			ni, err := r.u2()
			if err != nil {
				return nil, err
			}
			di, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.nameIndex, entry.descriptorIndex = ni, di
		case tagMethodHandle:
			if _, err := r.u1(); err != nil {
				return nil, err
			}
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.nameTypeIndex = idx
		case tagDynamic, tagInvokeDynamic:
			bsm, err := r.u2()
			if err != nil {
				return nil, err
			}
			nt, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.classIndex, entry.nameTypeIndex = bsm, nt
		default:
			return nil, fmt.Errorf("classfile: unrecognised constant pool tag %d at entry %d", tag, i)
		}
		entries[i] = entry

		// Long and Double occupy the next index too (JVM spec §4.4.5).
		if tag == tagLong || tag == tagDouble {
			i++
		}
	}
	return &constantPool{entries: entries}, nil
}
