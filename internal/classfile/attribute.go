package classfile

import "fmt"

// rawAttribute is one attribute_info entry before interpretation: the
// JVM spec requires unknown attributes to be skippable, which this
// generic shape makes trivial — attribute_length is authoritative
// regardless of whether the reader recognises attribute_name.
type rawAttribute struct {
	name string
	info []byte
}

// parseAttributes reads attributes_count followed by that many
// attribute_info structures.
func parseAttributes(r *reader, cp *constantPool) ([]rawAttribute, error) {
	count, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading attributes_count: %w", err)
	}
	out := make([]rawAttribute, 0, count)
	for i := 0; i < int(count); i++ {
		nameIdx, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("classfile: reading attribute %d name index: %w", i, err)
		}
		length, err := r.u4()
		if err != nil {
			return nil, fmt.Errorf("classfile: reading attribute %d length: %w", i, err)
		}
		info, err := r.bytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("classfile: reading attribute %d body: %w", i, err)
		}
		name, err := cp.utf8At(nameIdx)
		if err != nil {
			// Unknown/unresolvable attribute name: keep the bytes, skip
			// interpretation. Malformed name indices do not abort decode.
			name = ""
		}
		out = append(out, rawAttribute{name: name, info: info})
	}
	return out, nil
}

func findAttribute(attrs []rawAttribute, name string) (rawAttribute, bool) {
	for _, a := range attrs {
		if a.name == name {
			return a, true
		}
	}
	return rawAttribute{}, false
}

// parseAnnotations reads a RuntimeVisibleAnnotations attribute body and
// returns the dotted FQN of each annotation's type. Element values are
// walked (not retained) purely so the cursor stays correctly positioned
// past nested annotations/arrays.
func parseAnnotations(body []byte, cp *constantPool) ([]string, error) {
	r := newReader(body)
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		fqn, err := parseOneAnnotation(r, cp)
		if err != nil {
			return nil, fmt.Errorf("classfile: annotation %d: %w", i, err)
		}
		out = append(out, fqn)
	}
	return out, nil
}

// parseOneAnnotation reads a single `annotation` structure (JVM spec
// §4.7.16) and returns its type's dotted FQN.
func parseOneAnnotation(r *reader, cp *constantPool) (string, error) {
	typeIdx, err := r.u2()
	if err != nil {
		return "", err
	}
	descriptor, err := cp.utf8At(typeIdx)
	if err != nil {
		return "", err
	}
	numPairs, err := r.u2()
	if err != nil {
		return "", err
	}
	for i := 0; i < int(numPairs); i++ {
		if _, err := r.u2(); err != nil { // element_name_index
			return "", err
		}
		if err := skipElementValue(r, cp); err != nil {
			return "", err
		}
	}
	return fqnFromAnnotationDescriptor(descriptor), nil
}

// fqnFromAnnotationDescriptor converts an annotation type descriptor
// "Lcom/example/Ann;" to its dotted FQN.
func fqnFromAnnotationDescriptor(descriptor string) string {
	if len(descriptor) >= 2 && descriptor[0] == 'L' && descriptor[len(descriptor)-1] == ';' {
		return toDotted(descriptor[1 : len(descriptor)-1])
	}
	return descriptor
}

func toDotted(internal string) string {
	out := make([]byte, len(internal))
	for i := 0; i < len(internal); i++ {
		if internal[i] == '/' {
			out[i] = '.'
		} else {
			out[i] = internal[i]
		}
	}
	return string(out)
}

// skipElementValue consumes one `element_value` structure (JVM spec
// §4.7.16.1) without retaining it.
func skipElementValue(r *reader, cp *constantPool) error {
	tag, err := r.u1()
	if err != nil {
		return err
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		_, err := r.u2() // const_value_index
		return err
	case 'e':
		if _, err := r.u2(); err != nil { // type_name_index
			return err
		}
		_, err := r.u2() // const_name_index
		return err
	case 'c':
		_, err := r.u2() // class_info_index
		return err
	case '@':
		_, err := parseOneAnnotation(r, cp)
		return err
	case '[':
		count, err := r.u2()
		if err != nil {
			return err
		}
		for i := 0; i < int(count); i++ {
			if err := skipElementValue(r, cp); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("classfile: unrecognised element_value tag %q", tag)
	}
}

// parameterAnnotationsEntry holds the annotations found on one formal
// parameter, from a RuntimeVisibleParameterAnnotations attribute.
type parameterAnnotationsEntry struct {
	annotations []string
}

// parseParameterAnnotations reads a RuntimeVisibleParameterAnnotations
// attribute body (JVM spec §4.7.18).
func parseParameterAnnotations(body []byte, cp *constantPool) ([]parameterAnnotationsEntry, error) {
	r := newReader(body)
	numParams, err := r.u1()
	if err != nil {
		return nil, err
	}
	out := make([]parameterAnnotationsEntry, 0, numParams)
	for p := 0; p < int(numParams); p++ {
		count, err := r.u2()
		if err != nil {
			return nil, err
		}
		entry := parameterAnnotationsEntry{}
		for i := 0; i < int(count); i++ {
			fqn, err := parseOneAnnotation(r, cp)
			if err != nil {
				return nil, fmt.Errorf("classfile: parameter %d annotation %d: %w", p, i, err)
			}
			entry.annotations = append(entry.annotations, fqn)
		}
		out = append(out, entry)
	}
	return out, nil
}
