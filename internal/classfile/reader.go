package classfile

import "fmt"

// reader is a minimal big-endian cursor over a class file's bytes. The JVM
// class file format is entirely big-endian, unlike the host's native
// encoding, so this cannot be a thin wrapper over encoding/binary's
// fixed-size reads without also tracking position for error messages.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) u1() (uint8, error) {
	if r.pos+1 > len(r.data) {
		return 0, fmt.Errorf("classfile: unexpected end of data at offset %d (u1)", r.pos)
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u2() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("classfile: unexpected end of data at offset %d (u2)", r.pos)
	}
	v := uint16(r.data[r.pos])<<8 | uint16(r.data[r.pos+1])
	r.pos += 2
	return v, nil
}

func (r *reader) u4() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("classfile: unexpected end of data at offset %d (u4)", r.pos)
	}
	v := uint32(r.data[r.pos])<<24 | uint32(r.data[r.pos+1])<<16 | uint32(r.data[r.pos+2])<<8 | uint32(r.data[r.pos+3])
	r.pos += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("classfile: unexpected end of data at offset %d (bytes:%d)", r.pos, n)
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

func (r *reader) skip(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return fmt.Errorf("classfile: unexpected end of data at offset %d (skip:%d)", r.pos, n)
	}
	r.pos += n
	return nil
}
