package fromenv

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Supported tags
const (
	// Name of the environment variable, "-" to skip the field
	TagEnv = "env"
	// Default value
	TagEnvDefault = "env-default"
	// Environment variable description
	TagEnvDescription = "env-description"
	// Validation rules, see github.com/go-playground/validator
	TagValidate = "validate"
)

// Descriptor is a compiled description of one structure field.
type Descriptor struct {
	// Field is the Go field name
	Field string
	// Key is the environment variable name
	Key string
	// Default is the raw default value, nil if the field has none
	Default *string
	// Optional is set for pointer fields, which stay nil when nothing is provided
	Optional bool
	Kind     Kind
	// Bits is the bit size of numeric kinds
	Bits int
	// Type is the Go name of the scalar type, e.g. "int32"
	Type        string
	Description string

	index  int
	scalar reflect.Type
}

// Required reports whether resolution fails when the variable is not set.
func (d Descriptor) Required() bool {
	return !d.Optional && d.Default == nil
}

// KeyFor returns the variable name derived from a field name.
func KeyFor(fieldName string) string {
	return strings.ToUpper(fieldName)
}

// typeMeta is the metadata of a structure type
type typeMeta struct {
	fields []Descriptor
	// validate is set if any field carries validation rules
	validate bool
}

// metaCache maps reflect.Type to *typeMeta
var metaCache sync.Map

// Describe returns field descriptors of a structure or a pointer to a structure.
// The environment is not read.
func Describe(cfg interface{}) ([]Descriptor, error) {
	t := reflect.TypeOf(cfg)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, newInvalidTargetError(reflect.TypeOf(cfg))
	}

	meta, err := readTypeMeta(t)
	if err != nil {
		return nil, err
	}

	out := make([]Descriptor, len(meta.fields))
	copy(out, meta.fields)
	return out, nil
}

// readTypeMeta reads structure metadata once per type
func readTypeMeta(t reflect.Type) (*typeMeta, error) {
	if m, ok := metaCache.Load(t); ok {
		return m.(*typeMeta), nil
	}

	meta := &typeMeta{fields: make([]Descriptor, 0, t.NumField())}

	for idx := 0; idx < t.NumField(); idx++ {
		fType := t.Field(idx)

		// unexported fields can't be set
		if !fType.IsExported() {
			continue
		}

		if _, ok := fType.Tag.Lookup(TagValidate); ok {
			meta.validate = true
		}

		key := fType.Tag.Get(TagEnv)
		if key == "-" {
			continue
		}
		if key == "" {
			key = KeyFor(fType.Name)
		}

		d, err := newDescriptor(fType.Name, key, fType.Type)
		if err != nil {
			return nil, err
		}
		d.index = idx
		d.Description = fType.Tag.Get(TagEnvDescription)
		if def, ok := fType.Tag.Lookup(TagEnvDefault); ok {
			d.Default = &def
		}

		meta.fields = append(meta.fields, d)
	}

	actual, _ := metaCache.LoadOrStore(t, meta)
	return actual.(*typeMeta), nil
}

// newDescriptor classifies a field type as a scalar or a pointer to a scalar
func newDescriptor(fieldName, key string, t reflect.Type) (Descriptor, error) {
	scalar := t
	optional := false
	if scalar.Kind() == reflect.Ptr {
		scalar = scalar.Elem()
		optional = true
	}

	kind, bits, ok := kindOf(scalar)
	if !ok {
		return Descriptor{}, newUnsupportedFieldTypeError(fieldName, t)
	}

	return Descriptor{
		Field:    fieldName,
		Key:      key,
		Optional: optional,
		Kind:     kind,
		Bits:     bits,
		Type:     typeName(scalar),
		scalar:   scalar,
	}, nil
}

// typeName returns the predeclared name for builtin types and the qualified name otherwise
func typeName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return fmt.Sprintf("%s(%s)", t.String(), t.Kind())
}
