package fromenv

import (
	"reflect"
	"strconv"
)

// Kind is a scalar kind a variable can be parsed into.
type Kind uint8

// Supported scalar kinds
const (
	Invalid Kind = iota
	String
	Int
	Uint
	Float
	Bool
)

var kindNames = [...]string{
	Invalid: "invalid",
	String:  "string",
	Int:     "int",
	Uint:    "uint",
	Float:   "float",
	Bool:    "bool",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// parseFunc parses a raw value into the field
type parseFunc func(field reflect.Value, value string) error

// Any new scalar kind has to be added here and to kindOf
var scalarParsers = map[Kind]parseFunc{

	String: func(field reflect.Value, value string) error {
		field.SetString(value)
		return nil
	},

	Int: func(field reflect.Value, value string) error {
		number, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(number)
		return nil
	},

	Uint: func(field reflect.Value, value string) error {
		number, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(number)
		return nil
	},

	Float: func(field reflect.Value, value string) error {
		number, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(number)
		return nil
	},

	// only "true" and "false" in any ASCII letter case
	Bool: func(field reflect.Value, value string) error {
		switch {
		case asciiEqualFold(value, "true"):
			field.SetBool(true)
		case asciiEqualFold(value, "false"):
			field.SetBool(false)
		default:
			return &strconv.NumError{Func: "ParseBool", Num: value, Err: strconv.ErrSyntax}
		}
		return nil
	},
}

// asciiEqualFold compares s with a lower-case ASCII word, ignoring ASCII case only
func asciiEqualFold(s, lower string) bool {
	if len(s) != len(lower) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}

// parseScalar parses value into field according to the kind
func parseScalar(field reflect.Value, kind Kind, value string) error {
	parse, ok := scalarParsers[kind]
	if !ok {
		return newUnsupportedFieldTypeError("", field.Type())
	}
	return parse(field, value)
}

// kindOf maps a Go type onto a scalar kind and its bit size.
// Named types are classified by their underlying kind.
func kindOf(t reflect.Type) (Kind, int, bool) {
	switch t.Kind() {
	case reflect.String:
		return String, 0, true
	case reflect.Bool:
		return Bool, 0, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int, t.Bits(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint, t.Bits(), true
	case reflect.Float32, reflect.Float64:
		return Float, t.Bits(), true
	default:
		return Invalid, 0, false
	}
}

var scalarTypes = map[string]reflect.Type{
	"string":  reflect.TypeOf(""),
	"bool":    reflect.TypeOf(false),
	"int":     reflect.TypeOf(int(0)),
	"int8":    reflect.TypeOf(int8(0)),
	"int16":   reflect.TypeOf(int16(0)),
	"int32":   reflect.TypeOf(int32(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"uint":    reflect.TypeOf(uint(0)),
	"uint8":   reflect.TypeOf(uint8(0)),
	"uint16":  reflect.TypeOf(uint16(0)),
	"uint32":  reflect.TypeOf(uint32(0)),
	"uint64":  reflect.TypeOf(uint64(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
	"byte":    reflect.TypeOf(byte(0)),
	"rune":    reflect.TypeOf(rune(0)),
}

// LookupKind returns the scalar kind and bit size of a predeclared Go type name.
// It reports false for any other name.
func LookupKind(typeName string) (Kind, int, bool) {
	t, ok := scalarTypes[typeName]
	if !ok {
		return Invalid, 0, false
	}
	return kindOf(t)
}
