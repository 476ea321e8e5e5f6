package fromenv

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Scalar is the set of types a single variable can be parsed into.
type Scalar interface {
	~string | ~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// source tells where a resolved value came from
type source string

const (
	sourceEnv     source = "env"
	sourceDefault source = "default"
	sourceAbsent  source = "absent"
)

// Option configures reading.
type Option func(*loader)

// WithLookuper sets the variable source. The process environment is used by default.
func WithLookuper(env Lookuper) Option {
	return func(l *loader) {
		if env != nil {
			l.env = env
		}
	}
}

// WithLogger sets a logger for debug events about every resolved field.
// Values are never logged.
func WithLogger(log zerolog.Logger) Option {
	return func(l *loader) {
		l.log = log
	}
}

// WithValidator replaces the validator used for structures with validate tags.
func WithValidator(v *validator.Validate) Option {
	return func(l *loader) {
		if v != nil {
			l.validate = v
		}
	}
}

type loader struct {
	env      Lookuper
	log      zerolog.Logger
	validate *validator.Validate
}

var (
	defaultValidate     *validator.Validate
	defaultValidateOnce sync.Once
)

func sharedValidator() *validator.Validate {
	defaultValidateOnce.Do(func() {
		defaultValidate = validator.New(validator.WithRequiredStructEnabled())
	})
	return defaultValidate
}

func newLoader(opts []Option) *loader {
	l := &loader{
		env: OSEnv{},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Read reads environment variables into the structure cfg points to.
//
// Every exported field is resolved: the variable named by the env tag (or the upper-cased
// field name) is parsed into the field; if it is not set, the env-default tag value is parsed
// instead; if there is no default, pointer fields are set to nil and any other field fails with
// MissingRequiredVariableError.
//
// The structure is updated only if every field resolves, so on error it is left untouched.
//
// Example:
//
//	type Config struct {
//		Name    string                          // NAME
//		Age     int32                           // AGE
//		Phone   string  `env:"MOBILE"`          // MOBILE
//		Address *string `env-default:"unknown"` // ADDRESS, "unknown" when not set
//		Married *bool                           // MARRIED, nil when not set
//	}
//
//	var cfg Config
//
//	err := fromenv.Read(&cfg)
//	if err != nil {
//		...
//	}
func Read(cfg interface{}, opts ...Option) error {
	return newLoader(opts).read(cfg)
}

// Load constructs a T from environment variables. See Read for the rules.
func Load[T any](opts ...Option) (T, error) {
	var cfg T
	if err := Read(&cfg, opts...); err != nil {
		var zero T
		return zero, err
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Get resolves a single required variable. It backs the code produced by fromenv-gen.
// A nil env reads the process environment; def is the default value or nil.
func Get[T Scalar](env Lookuper, key string, def *string) (T, error) {
	var zero T
	d, err := newDescriptor("", key, reflect.TypeOf(zero))
	if err != nil {
		return zero, err
	}
	d.Default = def

	v, _, err := resolve(d, lookuperOrOS(env))
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

// GetOptional resolves a single optional variable. The result is nil when
// the variable is not set and there is no default.
func GetOptional[T Scalar](env Lookuper, key string, def *string) (*T, error) {
	d, err := newDescriptor("", key, reflect.TypeOf((*T)(nil)))
	if err != nil {
		return nil, err
	}
	d.Default = def

	v, _, err := resolve(d, lookuperOrOS(env))
	if err != nil {
		return nil, err
	}
	return v.Interface().(*T), nil
}

// Validate checks the validate tags of a structure, or a pointer to one, with the
// validator Read uses by default. Generated constructors call it for structures
// with validation rules.
func Validate(cfg interface{}) error {
	if err := sharedValidator().Struct(cfg); err != nil {
		return ValidationError{Err: err}
	}
	return nil
}

// Default returns a pointer to a default value literal.
func Default(value string) *string {
	return &value
}

func lookuperOrOS(env Lookuper) Lookuper {
	if env == nil {
		return OSEnv{}
	}
	return env
}

// read fills a scratch copy of the structure and publishes it only on success
func (l *loader) read(cfg interface{}) error {
	ptr := reflect.ValueOf(cfg)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		return newInvalidTargetError(reflect.TypeOf(cfg))
	}
	target := ptr.Elem()

	meta, err := readTypeMeta(target.Type())
	if err != nil {
		return err
	}

	scratch := reflect.New(target.Type()).Elem()
	scratch.Set(target)

	for _, d := range meta.fields {
		value, src, err := resolve(d, l.env)
		if err != nil {
			l.log.Debug().Str("field", d.Field).Str("key", d.Key).Err(err).Msg("field resolution failed")
			return err
		}
		l.log.Debug().Str("field", d.Field).Str("key", d.Key).Str("source", string(src)).Msg("field resolved")
		scratch.Field(d.index).Set(value)
	}

	if meta.validate {
		v := l.validate
		if v == nil {
			v = sharedValidator()
		}
		if err := v.Struct(scratch.Interface()); err != nil {
			return ValidationError{Err: err}
		}
	}

	target.Set(scratch)
	return nil
}

// resolve produces the value of a single field: the variable, then the default, then nil for optional fields
func resolve(d Descriptor, env Lookuper) (reflect.Value, source, error) {
	raw, ok := env.LookupEnv(d.Key)
	src := sourceEnv

	if !ok {
		if d.Default == nil {
			if d.Optional {
				return reflect.Zero(reflect.PointerTo(d.scalar)), sourceAbsent, nil
			}
			return reflect.Value{}, sourceAbsent, newMissingRequiredVariableError(d.Field, d.Key)
		}
		raw, src = *d.Default, sourceDefault
	}

	value := reflect.New(d.scalar)
	if err := parseScalar(value.Elem(), d.Kind, raw); err != nil {
		return reflect.Value{}, src, newInvalidLiteralError(d, raw, src == sourceDefault, err)
	}

	if d.Optional {
		return value, src, nil
	}
	return value.Elem(), src, nil
}
