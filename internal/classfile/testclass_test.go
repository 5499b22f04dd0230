package classfile

import (
	"bytes"
	"encoding/binary"
)

// classBuilder constructs minimal, valid .class byte streams for tests.
// It is not part of the decoder — state-scan has no encoder, only a
// decoder (spec.md's round-trip property is checked against a real
// compiler's output in integration testing; this builder plays that role
// for unit tests where no javac output is available).
type classBuilder struct {
	pool     [][]byte // cp_info bytes, index 0 unused
	poolSlot map[string]uint16
}

func newClassBuilder() *classBuilder {
	return &classBuilder{pool: [][]byte{nil}, poolSlot: make(map[string]uint16)}
}

func (b *classBuilder) addUtf8(s string) uint16 {
	key := "utf8:" + s
	if idx, ok := b.poolSlot[key]; ok {
		return idx
	}
	var buf bytes.Buffer
	buf.WriteByte(tagUtf8)
	binary.Write(&buf, binary.BigEndian, uint16(len(s)))
	buf.WriteString(s)
	return b.add(key, buf.Bytes())
}

func (b *classBuilder) addClass(dottedOrInternal string) uint16 {
	internal := toInternalTest(dottedOrInternal)
	key := "class:" + internal
	if idx, ok := b.poolSlot[key]; ok {
		return idx
	}
	nameIdx := b.addUtf8(internal)
	var buf bytes.Buffer
	buf.WriteByte(tagClass)
	binary.Write(&buf, binary.BigEndian, nameIdx)
	return b.add(key, buf.Bytes())
}

func (b *classBuilder) addNameAndType(name, desc string) uint16 {
	key := "nt:" + name + ":" + desc
	if idx, ok := b.poolSlot[key]; ok {
		return idx
	}
	ni := b.addUtf8(name)
	di := b.addUtf8(desc)
	var buf bytes.Buffer
	buf.WriteByte(tagNameAndType)
	binary.Write(&buf, binary.BigEndian, ni)
	binary.Write(&buf, binary.BigEndian, di)
	return b.add(key, buf.Bytes())
}

func (b *classBuilder) addFieldref(owner, name, desc string) uint16 {
	key := "fr:" + owner + ":" + name + ":" + desc
	if idx, ok := b.poolSlot[key]; ok {
		return idx
	}
	ci := b.addClass(owner)
	nt := b.addNameAndType(name, desc)
	var buf bytes.Buffer
	buf.WriteByte(tagFieldref)
	binary.Write(&buf, binary.BigEndian, ci)
	binary.Write(&buf, binary.BigEndian, nt)
	return b.add(key, buf.Bytes())
}

func (b *classBuilder) addMethodref(owner, name, desc string) uint16 {
	key := "mr:" + owner + ":" + name + ":" + desc
	if idx, ok := b.poolSlot[key]; ok {
		return idx
	}
	ci := b.addClass(owner)
	nt := b.addNameAndType(name, desc)
	var buf bytes.Buffer
	buf.WriteByte(tagMethodref)
	binary.Write(&buf, binary.BigEndian, ci)
	binary.Write(&buf, binary.BigEndian, nt)
	return b.add(key, buf.Bytes())
}

func (b *classBuilder) add(key string, entry []byte) uint16 {
	idx := uint16(len(b.pool))
	b.pool = append(b.pool, entry)
	b.poolSlot[key] = idx
	return idx
}

func toInternalTest(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c == '.' {
			out[i] = '/'
		}
	}
	return string(out)
}

// fieldSpec/methodSpec describe members for buildClass.
type fieldSpec struct {
	name, desc string
	flags      uint16
}

type methodSpec struct {
	name, desc string
	flags      uint16
	code       []byte // nil for abstract/no-Code methods
}

// buildClass assembles a complete class file. Every constant pool entry
// the body will reference is registered first, so the constant_pool_count
// written in the header matches the pool's final length.
func (b *classBuilder) buildClass(thisClass, superClass string, accessFlags uint16, fields []fieldSpec, methods []methodSpec) []byte {
	thisIdx := b.addClass(thisClass)
	var superIdx uint16
	if superClass != "" {
		superIdx = b.addClass(superClass)
	}
	for _, f := range fields {
		b.addUtf8(f.name)
		b.addUtf8(f.desc)
	}
	var codeAttrIdx uint16
	for _, m := range methods {
		b.addUtf8(m.name)
		b.addUtf8(m.desc)
		if m.code != nil {
			codeAttrIdx = b.addUtf8("Code")
		}
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(classMagic))
	binary.Write(&buf, binary.BigEndian, uint16(0))  // minor
	binary.Write(&buf, binary.BigEndian, uint16(61)) // major (Java 17)

	binary.Write(&buf, binary.BigEndian, uint16(len(b.pool)))
	for i := 1; i < len(b.pool); i++ {
		buf.Write(b.pool[i])
	}

	binary.Write(&buf, binary.BigEndian, accessFlags)
	binary.Write(&buf, binary.BigEndian, thisIdx)
	binary.Write(&buf, binary.BigEndian, superIdx)
	binary.Write(&buf, binary.BigEndian, uint16(0)) // interfaces_count

	binary.Write(&buf, binary.BigEndian, uint16(len(fields)))
	for _, f := range fields {
		binary.Write(&buf, binary.BigEndian, f.flags)
		binary.Write(&buf, binary.BigEndian, b.poolSlot["utf8:"+f.name])
		binary.Write(&buf, binary.BigEndian, b.poolSlot["utf8:"+f.desc])
		binary.Write(&buf, binary.BigEndian, uint16(0)) // attributes_count
	}

	binary.Write(&buf, binary.BigEndian, uint16(len(methods)))
	for _, m := range methods {
		binary.Write(&buf, binary.BigEndian, m.flags)
		binary.Write(&buf, binary.BigEndian, b.poolSlot["utf8:"+m.name])
		binary.Write(&buf, binary.BigEndian, b.poolSlot["utf8:"+m.desc])
		if m.code == nil {
			binary.Write(&buf, binary.BigEndian, uint16(0)) // attributes_count
			continue
		}
		binary.Write(&buf, binary.BigEndian, uint16(1)) // attributes_count: Code
		var codeBuf bytes.Buffer
		binary.Write(&codeBuf, binary.BigEndian, uint16(4)) // max_stack
		binary.Write(&codeBuf, binary.BigEndian, uint16(4)) // max_locals
		binary.Write(&codeBuf, binary.BigEndian, uint32(len(m.code)))
		codeBuf.Write(m.code)
		binary.Write(&codeBuf, binary.BigEndian, uint16(0)) // exception_table_length
		binary.Write(&codeBuf, binary.BigEndian, uint16(0)) // attributes_count

		binary.Write(&buf, binary.BigEndian, codeAttrIdx)
		binary.Write(&buf, binary.BigEndian, uint32(codeBuf.Len()))
		buf.Write(codeBuf.Bytes())
	}

	binary.Write(&buf, binary.BigEndian, uint16(0)) // class attributes_count
	return buf.Bytes()
}
