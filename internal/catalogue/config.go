package catalogue

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// rawEntry mirrors one YAML list item for a type-oriented set: either a
// bare string ("java.sql.Connection") or a mapping with an explicit legacy
// tag ({value: ..., legacy: true}).
type rawEntry struct {
	Value  string
	Legacy bool
}

// UnmarshalYAML accepts both the bare-scalar and mapping forms so the
// default catalogue can stay terse while still supporting legacy tags
// where needed.
func (e *rawEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Value = node.Value
		e.Legacy = false
		return nil
	}
	var m struct {
		Value  string `yaml:"value"`
		Legacy bool   `yaml:"legacy"`
	}
	if err := node.Decode(&m); err != nil {
		return fmt.Errorf("catalogue: decoding type entry: %w", err)
	}
	e.Value = m.Value
	e.Legacy = m.Legacy
	return nil
}

// document is the raw, merge-friendly shape of a catalogue YAML document.
// Field names use hyphenated keys per spec.md §4.4's named sets.
type document struct {
	SingletonAnnotations []string `yaml:"singleton-annotations"`
	SessionAnnotations   []string `yaml:"session-annotations"`
	RequestAnnotations   []string `yaml:"request-annotations"`
	EndpointAnnotations  []string `yaml:"endpoint-annotations"`

	ExternalStateTypes     []rawEntry `yaml:"external-state-types"`
	ServiceClientTypes     []rawEntry `yaml:"service-client-types"`
	GRPCTypes              []rawEntry `yaml:"grpc-types"`
	ResilienceTypes        []rawEntry `yaml:"resilience-types"`
	CacheTypes             []rawEntry `yaml:"cache-types"`
	MutableCollectionTypes []rawEntry `yaml:"mutable-collection-types"`
	ModuleTypes            []rawEntry `yaml:"module-types"`
	ThreadLocalTypes       []rawEntry `yaml:"thread-local-types"`
	FileStateTypes         []rawEntry `yaml:"file-state-types"`
	SafeTypes              []rawEntry `yaml:"safe-types"`
	MetricTypes            []rawEntry `yaml:"metric-types"`

	Exclude []string `yaml:"exclude"`
}

func parseDocument(data []byte) (document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("catalogue: parsing YAML: %w", err)
	}
	return doc, nil
}

// mergeAdditive appends user into base for every set: spec.md §4.4 "a
// user-supplied configuration MAY be merged into it (user set-elements are
// added, not replaced)".
func mergeAdditive(base, user document) document {
	out := document{
		SingletonAnnotations:   append(append([]string{}, base.SingletonAnnotations...), user.SingletonAnnotations...),
		SessionAnnotations:     append(append([]string{}, base.SessionAnnotations...), user.SessionAnnotations...),
		RequestAnnotations:     append(append([]string{}, base.RequestAnnotations...), user.RequestAnnotations...),
		EndpointAnnotations:    append(append([]string{}, base.EndpointAnnotations...), user.EndpointAnnotations...),
		ExternalStateTypes:     append(append([]rawEntry{}, base.ExternalStateTypes...), user.ExternalStateTypes...),
		ServiceClientTypes:     append(append([]rawEntry{}, base.ServiceClientTypes...), user.ServiceClientTypes...),
		GRPCTypes:              append(append([]rawEntry{}, base.GRPCTypes...), user.GRPCTypes...),
		ResilienceTypes:        append(append([]rawEntry{}, base.ResilienceTypes...), user.ResilienceTypes...),
		CacheTypes:             append(append([]rawEntry{}, base.CacheTypes...), user.CacheTypes...),
		MutableCollectionTypes: append(append([]rawEntry{}, base.MutableCollectionTypes...), user.MutableCollectionTypes...),
		ModuleTypes:            append(append([]rawEntry{}, base.ModuleTypes...), user.ModuleTypes...),
		ThreadLocalTypes:       append(append([]rawEntry{}, base.ThreadLocalTypes...), user.ThreadLocalTypes...),
		FileStateTypes:         append(append([]rawEntry{}, base.FileStateTypes...), user.FileStateTypes...),
		SafeTypes:              append(append([]rawEntry{}, base.SafeTypes...), user.SafeTypes...),
		MetricTypes:            append(append([]rawEntry{}, base.MetricTypes...), user.MetricTypes...),
		Exclude:                append(append([]string{}, base.Exclude...), user.Exclude...),
	}
	return out
}

func toAnnotationSet(values []string) AnnotationSet {
	out := make(AnnotationSet, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

func toTypeSet(entries []rawEntry) TypeSet {
	out := make(TypeSet, 0, len(entries))
	for _, e := range entries {
		out = append(out, TypeEntry{Value: e.Value, Legacy: e.Legacy})
	}
	return out
}

// build compiles a document into a ready-to-query Catalogue, dropping (and
// recording) any exclude pattern that fails to compile rather than
// treating it as fatal (spec.md §7).
func build(doc document) *Catalogue {
	cat := &Catalogue{
		SingletonAnnotations:   toAnnotationSet(doc.SingletonAnnotations),
		SessionAnnotations:     toAnnotationSet(doc.SessionAnnotations),
		RequestAnnotations:     toAnnotationSet(doc.RequestAnnotations),
		EndpointAnnotations:    toAnnotationSet(doc.EndpointAnnotations),
		ExternalStateTypes:     toTypeSet(doc.ExternalStateTypes),
		ServiceClientTypes:     toTypeSet(doc.ServiceClientTypes),
		GRPCTypes:              toTypeSet(doc.GRPCTypes),
		ResilienceTypes:        toTypeSet(doc.ResilienceTypes),
		CacheTypes:             toTypeSet(doc.CacheTypes),
		MutableCollectionTypes: toTypeSet(doc.MutableCollectionTypes),
		ModuleTypes:            toTypeSet(doc.ModuleTypes),
		ThreadLocalTypes:       toTypeSet(doc.ThreadLocalTypes),
		FileStateTypes:         toTypeSet(doc.FileStateTypes),
		SafeTypes:              toTypeSet(doc.SafeTypes),
		MetricTypes:            toTypeSet(doc.MetricTypes),
	}
	for _, pattern := range doc.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			cat.BadPatterns = append(cat.BadPatterns, BadPattern{Pattern: pattern, Err: err})
			continue
		}
		cat.Exclude = append(cat.Exclude, re)
	}
	return cat
}

// LoadDefault returns the catalogue built from the embedded default
// document alone.
func LoadDefault() (*Catalogue, error) {
	doc, err := parseDocument(defaultYAML)
	if err != nil {
		return nil, err
	}
	return build(doc), nil
}

// Load reads userConfigPath (if non-empty) and merges it additively over
// the embedded default document. A missing userConfigPath is not an
// error: it simply means "use the default catalogue unmodified".
func Load(userConfigPath string) (*Catalogue, error) {
	baseDoc, err := parseDocument(defaultYAML)
	if err != nil {
		return nil, err
	}
	if userConfigPath == "" {
		return build(baseDoc), nil
	}

	data, err := os.ReadFile(userConfigPath)
	if os.IsNotExist(err) {
		return build(baseDoc), nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalogue: reading %s: %w", userConfigPath, err)
	}
	userDoc, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("catalogue: parsing %s: %w", userConfigPath, err)
	}
	return build(mergeAdditive(baseDoc, userDoc)), nil
}
