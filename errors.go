package fromenv

import (
	"fmt"
	"reflect"
)

// InvalidTargetError is returned when the value to fill is not a non-nil pointer to a structure.
type InvalidTargetError struct {
	Type reflect.Type
}

func newInvalidTargetError(t reflect.Type) InvalidTargetError {
	return InvalidTargetError{Type: t}
}

func (e InvalidTargetError) Error() string {
	if e.Type == nil {
		return "target must be a non-nil pointer to struct, got nil"
	}
	return fmt.Sprintf("target must be a non-nil pointer to struct, got %s", e.Type)
}

// UnsupportedFieldTypeError is returned when a field type is neither a scalar nor a pointer to a scalar.
// It is detected while describing the structure, before any variable is read.
type UnsupportedFieldTypeError struct {
	FieldName string
	Type      reflect.Type
}

func newUnsupportedFieldTypeError(fieldName string, t reflect.Type) UnsupportedFieldTypeError {
	return UnsupportedFieldTypeError{
		FieldName: fieldName,
		Type:      t,
	}
}

func (e UnsupportedFieldTypeError) Error() string {
	if e.FieldName == "" {
		return fmt.Sprintf("unsupported type %s", e.Type)
	}
	return fmt.Sprintf("field %q has unsupported type %s", e.FieldName, e.Type)
}

// MissingRequiredVariableError is returned when a required field has neither a variable nor a default value.
type MissingRequiredVariableError struct {
	FieldName string
	EnvName   string
}

func newMissingRequiredVariableError(fieldName, envName string) MissingRequiredVariableError {
	return MissingRequiredVariableError{
		FieldName: fieldName,
		EnvName:   envName,
	}
}

func (e MissingRequiredVariableError) Error() string {
	if e.FieldName == "" {
		return fmt.Sprintf("variable %q is required but the value is not provided", e.EnvName)
	}
	return fmt.Sprintf("field %q is required but variable %q is not provided", e.FieldName, e.EnvName)
}

// InvalidLiteralError is returned when a variable value or a default value can't be parsed as the field type.
type InvalidLiteralError struct {
	Err       error
	FieldName string
	EnvName   string
	Value     string
	Kind      string
	// FromDefault is set when Value came from the env-default tag rather than the environment
	FromDefault bool
}

func newInvalidLiteralError(d Descriptor, value string, fromDefault bool, err error) InvalidLiteralError {
	return InvalidLiteralError{
		Err:         err,
		FieldName:   d.Field,
		EnvName:     d.Key,
		Value:       value,
		Kind:        d.Type,
		FromDefault: fromDefault,
	}
}

func (e InvalidLiteralError) Error() string {
	origin := "env " + e.EnvName
	if e.FromDefault {
		origin = "default of " + e.EnvName
	}
	if e.FieldName == "" {
		return fmt.Sprintf("parsing %q from %s as %s: %v", e.Value, origin, e.Kind, e.Err)
	}
	return fmt.Sprintf("parsing field %s: %q from %s as %s: %v", e.FieldName, e.Value, origin, e.Kind, e.Err)
}

func (e InvalidLiteralError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a resolved structure fails its validate tags.
type ValidationError struct {
	Err error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}
