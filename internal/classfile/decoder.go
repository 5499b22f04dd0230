// Package classfile decodes a single JVM .class file's bytes into a
// model.ClassShape (spec.md §4.1). It performs no graph-level resolution:
// callers of Decode own the "project-local vs external" tag, since that
// information lives outside the bytes of any one class file.
package classfile

import (
	"fmt"

	"github.com/state-scan/state-scan/internal/model"
)

const classMagic = 0xCAFEBABE

// Access flags relevant to ClassShape/FieldShape/MethodShape (JVM spec
// tables 4.1-A, 4.5-A, 4.6-A). Only the bits the spec's predicates need
// are named.
const (
	accPublic     = 0x0001
	accPrivate    = 0x0002
	accStatic     = 0x0008
	accFinal      = 0x0010
	accVolatile   = 0x0040
	accInterface  = 0x0200
	accAbstract   = 0x0400
	accEnum       = 0x4000
)

// DefaultInjectionAnnotations names the annotation FQNs recognised as
// "injection or provider" for the purpose of the parameter-metadata memory
// gate (spec.md §4.1, §9). This is intentionally a small, decoder-local
// set kept apart from the Leaf-Type Catalogue (which has no injection
// set): it only needs to decide whether to retain parameter metadata, never whether
// to treat something as a DI binding source (internal/binding owns that).
var DefaultInjectionAnnotations = map[string]bool{
	"javax.inject.Inject":                  true,
	"jakarta.inject.Inject":                true,
	"com.google.inject.Inject":             true,
	"javax.inject.Provider":                true,
	"jakarta.inject.Provider":              true,
	"com.google.inject.Provides":           true,
	"javax.enterprise.inject.Produces":     true,
	"jakarta.enterprise.inject.Produces":   true,
	"org.springframework.beans.factory.annotation.Autowired": true,
}

// Options configures Decode. The zero value uses DefaultInjectionAnnotations.
type Options struct {
	InjectionAnnotations map[string]bool
}

func (o Options) injectionAnnotations() map[string]bool {
	if o.InjectionAnnotations != nil {
		return o.InjectionAnnotations
	}
	return DefaultInjectionAnnotations
}

// Decode parses a single .class file's bytes into a ClassShape. IsProjectLocal
// is left false; callers set it once the shape's origin (project directory
// vs dependency archive) is known.
func Decode(data []byte, opts Options) (*model.ClassShape, error) {
	r := newReader(data)

	magic, err := r.u4()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading magic: %w", err)
	}
	if magic != classMagic {
		return nil, fmt.Errorf("classfile: bad magic 0x%08X, not a class file", magic)
	}
	if err := r.skip(4); err != nil { // minor_version, major_version
		return nil, fmt.Errorf("classfile: reading version: %w", err)
	}

	cp, err := parseConstantPool(r)
	if err != nil {
		return nil, err
	}

	accessFlags, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading access_flags: %w", err)
	}

	thisClassIdx, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading this_class: %w", err)
	}
	thisClass, err := cp.classNameAt(thisClassIdx)
	if err != nil {
		return nil, fmt.Errorf("classfile: resolving this_class: %w", err)
	}

	superClassIdx, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading super_class: %w", err)
	}
	var superClass string
	if superClassIdx != 0 {
		superClass, err = cp.classNameAt(superClassIdx)
		if err != nil {
			return nil, fmt.Errorf("classfile: resolving super_class: %w", err)
		}
	}

	interfaceCount, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("classfile: reading interfaces_count: %w", err)
	}
	interfaces := make([]string, 0, interfaceCount)
	for i := 0; i < int(interfaceCount); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("classfile: reading interface %d: %w", i, err)
		}
		name, err := cp.classNameAt(idx)
		if err != nil {
			return nil, fmt.Errorf("classfile: resolving interface %d: %w", i, err)
		}
		interfaces = append(interfaces, toDotted(name))
	}

	fields, err := parseFields(r, cp)
	if err != nil {
		return nil, fmt.Errorf("classfile: parsing fields: %w", err)
	}
	methods, err := parseMethods(r, cp, opts)
	if err != nil {
		return nil, fmt.Errorf("classfile: parsing methods: %w", err)
	}

	classAttrs, err := parseAttributes(r, cp)
	if err != nil {
		return nil, fmt.Errorf("classfile: parsing class attributes: %w", err)
	}

	var classAnnotations []string
	if attr, ok := findAttribute(classAttrs, "RuntimeVisibleAnnotations"); ok {
		classAnnotations, err = parseAnnotations(attr.info, cp)
		if err != nil {
			return nil, fmt.Errorf("classfile: parsing class annotations: %w", err)
		}
	}

	var sourceFile string
	if attr, ok := findAttribute(classAttrs, "SourceFile"); ok {
		sourceFile, err = sourceFileName(attr.info, cp)
		if err != nil {
			return nil, fmt.Errorf("classfile: parsing SourceFile: %w", err)
		}
	}

	return &model.ClassShape{
		FQN:         toDotted(thisClass),
		Superclass:  toDotted(superClass),
		Interfaces:  interfaces,
		Annotations: classAnnotations,
		Fields:      fields,
		Methods:     methods,
		IsInterface: accessFlags&accInterface != 0,
		IsAbstract:  accessFlags&accAbstract != 0,
		IsEnum:      accessFlags&accEnum != 0,
		SourceFile:  sourceFile,
	}, nil
}

func sourceFileName(body []byte, cp *constantPool) (string, error) {
	r := newReader(body)
	idx, err := r.u2()
	if err != nil {
		return "", err
	}
	return cp.utf8At(idx)
}

func parseFields(r *reader, cp *constantPool) ([]*model.FieldShape, error) {
	count, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("reading fields_count: %w", err)
	}
	out := make([]*model.FieldShape, 0, count)
	for i := 0; i < int(count); i++ {
		flags, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("field %d: reading access_flags: %w", i, err)
		}
		nameIdx, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("field %d: reading name_index: %w", i, err)
		}
		descIdx, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("field %d: reading descriptor_index: %w", i, err)
		}
		name, err := cp.utf8At(nameIdx)
		if err != nil {
			return nil, fmt.Errorf("field %d: resolving name: %w", i, err)
		}
		desc, err := cp.utf8At(descIdx)
		if err != nil {
			return nil, fmt.Errorf("field %d: resolving descriptor: %w", i, err)
		}
		attrs, err := parseAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): parsing attributes: %w", i, name, err)
		}
		var annotations []string
		if attr, ok := findAttribute(attrs, "RuntimeVisibleAnnotations"); ok {
			annotations, err = parseAnnotations(attr.info, cp)
			if err != nil {
				return nil, fmt.Errorf("field %d (%s): parsing annotations: %w", i, name, err)
			}
		}
		out = append(out, &model.FieldShape{
			Name:        name,
			Descriptor:  desc,
			Annotations: annotations,
			IsStatic:    flags&accStatic != 0,
			IsFinal:     flags&accFinal != 0,
			IsPrivate:   flags&accPrivate != 0,
			IsVolatile:  flags&accVolatile != 0,
		})
	}
	return out, nil
}

func parseMethods(r *reader, cp *constantPool, opts Options) ([]*model.MethodShape, error) {
	count, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("reading methods_count: %w", err)
	}
	injectionAnnotations := opts.injectionAnnotations()
	out := make([]*model.MethodShape, 0, count)
	for i := 0; i < int(count); i++ {
		flags, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("method %d: reading access_flags: %w", i, err)
		}
		nameIdx, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("method %d: reading name_index: %w", i, err)
		}
		descIdx, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("method %d: reading descriptor_index: %w", i, err)
		}
		name, err := cp.utf8At(nameIdx)
		if err != nil {
			return nil, fmt.Errorf("method %d: resolving name: %w", i, err)
		}
		desc, err := cp.utf8At(descIdx)
		if err != nil {
			return nil, fmt.Errorf("method %d (%s): resolving descriptor: %w", i, name, err)
		}
		attrs, err := parseAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("method %d (%s): parsing attributes: %w", i, name, err)
		}

		var annotations []string
		if attr, ok := findAttribute(attrs, "RuntimeVisibleAnnotations"); ok {
			annotations, err = parseAnnotations(attr.info, cp)
			if err != nil {
				return nil, fmt.Errorf("method %d (%s): parsing annotations: %w", i, name, err)
			}
		}

		hasInjectionAnnotation := false
		for _, a := range annotations {
			if injectionAnnotations[a] {
				hasInjectionAnnotation = true
				break
			}
		}

		var paramEntries []parameterAnnotationsEntry
		if attr, ok := findAttribute(attrs, "RuntimeVisibleParameterAnnotations"); ok {
			paramEntries, err = parseParameterAnnotations(attr.info, cp)
			if err != nil {
				return nil, fmt.Errorf("method %d (%s): parsing parameter annotations: %w", i, name, err)
			}
		}

		isConstructor := name == "<init>"
		anyParamAnnotated := false
		for _, e := range paramEntries {
			if len(e.annotations) > 0 {
				anyParamAnnotated = true
				break
			}
		}

		var parameters []*model.ParameterShape
		if hasInjectionAnnotation || (isConstructor && anyParamAnnotated) {
			parameters, err = buildParameters(desc, paramEntries)
			if err != nil {
				return nil, fmt.Errorf("method %d (%s): building parameters: %w", i, name, err)
			}
		}

		var invocations []model.MethodRef
		var fieldAccesses []model.FieldRef
		var classConstants []string
		if attr, ok := findAttribute(attrs, "Code"); ok {
			walk, err := parseCodeAttribute(attr.info, cp)
			if err != nil {
				return nil, fmt.Errorf("method %d (%s): parsing Code attribute: %w", i, name, err)
			}
			invocations = walk.Invocations
			fieldAccesses = walk.FieldAccesses
			classConstants = walk.ClassConstants
		}

		out = append(out, &model.MethodShape{
			Name:           name,
			Descriptor:     desc,
			Annotations:    annotations,
			Parameters:     parameters,
			Invocations:    invocations,
			FieldAccesses:  fieldAccesses,
			ClassConstants: classConstants,
			IsStatic:       flags&accStatic != 0,
			IsPublic:       flags&accPublic != 0,
			IsAbstract:     flags&accAbstract != 0,
		})
	}
	return out, nil
}

// buildParameters pairs the method descriptor's parameter types with any
// RuntimeVisibleParameterAnnotations entries (which may be absent or
// shorter than the parameter list — compilers are not required to emit
// the attribute for parameters with no annotations).
func buildParameters(methodDescriptor string, paramEntries []parameterAnnotationsEntry) ([]*model.ParameterShape, error) {
	descTypes, err := parseMethodParamTypes(methodDescriptor)
	if err != nil {
		return nil, err
	}
	out := make([]*model.ParameterShape, 0, len(descTypes))
	for i, t := range descTypes {
		p := &model.ParameterShape{Index: i, TypeFQN: t}
		if i < len(paramEntries) {
			p.Annotations = paramEntries[i].annotations
		}
		out = append(out, p)
	}
	return out, nil
}

// parseCodeAttribute reads max_stack/max_locals/code_length/code, skips
// the exception table, skips nested attributes, and walks the bytecode.
func parseCodeAttribute(body []byte, cp *constantPool) (codeWalkResult, error) {
	r := newReader(body)
	if _, err := r.u2(); err != nil { // max_stack
		return codeWalkResult{}, err
	}
	if _, err := r.u2(); err != nil { // max_locals
		return codeWalkResult{}, err
	}
	codeLength, err := r.u4()
	if err != nil {
		return codeWalkResult{}, err
	}
	code, err := r.bytes(int(codeLength))
	if err != nil {
		return codeWalkResult{}, err
	}

	excCount, err := r.u2()
	if err != nil {
		return codeWalkResult{}, err
	}
	if err := r.skip(int(excCount) * 8); err != nil { // 4 u2 fields per entry
		return codeWalkResult{}, err
	}

	// Nested attributes (LineNumberTable, LocalVariableTable,
	// StackMapTable, ...) are skipped wholesale: not needed by any
	// detector, and attribute_length makes them trivially skippable.
	if _, err := parseAttributes(r, cp); err != nil {
		return codeWalkResult{}, fmt.Errorf("parsing nested Code attributes: %w", err)
	}

	return walkCode(code, cp)
}
