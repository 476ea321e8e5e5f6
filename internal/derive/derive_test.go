package derive

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilyakaznacheev/fromenv"
)

const personSrc = `package people

type Port int

type Person struct {
	Name    string
	Age     int32
	Phone   string  ` + "`env:\"MOBILE\"`" + `
	Address *string ` + "`env-default:\"unknown\" env-description:\"postal address\"`" + `
	Married *bool
	Sex     string  ` + "`env:\"GENDER\" env-default:\"famale\"`" + `
	Port    Port
	a, b    uint8
	_       int
	Skipped []string ` + "`env:\"-\"`" + `
	Sep     rune
}

type Empty struct{}

type NotStruct int
`

func TestParseFile(t *testing.T) {
	t.Parallel()

	f, err := ParseFile("person.go", personSrc, []string{"Person", "Empty", "Person"})
	require.NoError(t, err)

	assert.Equal(t, "people", f.Package)
	require.Len(t, f.Structs, 2)
	assert.Equal(t, "Empty", f.Structs[0].Name)
	assert.Empty(t, f.Structs[0].Fields)

	p := f.Structs[1]
	assert.Equal(t, "Person", p.Name)

	var keys []string
	for _, fld := range p.Fields {
		keys = append(keys, fld.Key)
	}
	assert.Equal(t, []string{"NAME", "AGE", "MOBILE", "ADDRESS", "MARRIED", "GENDER", "PORT", "A", "B", "SEP"}, keys)

	age := p.Fields[1]
	assert.Equal(t, fromenv.Int, age.Kind)
	assert.Equal(t, 32, age.Bits)
	assert.Equal(t, "int32", age.Type)
	assert.False(t, age.Optional)
	assert.Nil(t, age.Default)

	address := p.Fields[3]
	assert.True(t, address.Optional)
	assert.Equal(t, "string", address.Type)
	require.NotNil(t, address.Default)
	assert.Equal(t, "unknown", *address.Default)
	assert.Equal(t, "postal address", address.Description)

	port := p.Fields[6]
	assert.Equal(t, "Port", port.Type)
	assert.Equal(t, fromenv.Int, port.Kind)

	assert.Equal(t, "uint8", p.Fields[7].Type)
	assert.Equal(t, "a", p.Fields[7].Name)

	sep := p.Fields[9]
	assert.Equal(t, "rune", sep.Type)
	assert.Equal(t, fromenv.Int, sep.Kind)
	assert.Equal(t, 32, sep.Bits)
	assert.False(t, p.Validate)
}

// every scalar name the reflective reader accepts is accepted here too
func TestParseFileScalarNames(t *testing.T) {
	t.Parallel()

	names := []string{
		"string", "bool",
		"int", "int8", "int16", "int32", "int64", "rune",
		"uint", "uint8", "uint16", "uint32", "uint64", "byte",
		"float32", "float64",
	}

	for _, name := range names {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src := "package p\n\ntype T struct {\n\tV " + name + "\n\tP *" + name + "\n}\n"
			f, err := ParseFile("t.go", src, []string{"T"})
			require.NoError(t, err)

			fields := f.Structs[0].Fields
			require.Len(t, fields, 2)

			kind, bits, ok := fromenv.LookupKind(name)
			require.True(t, ok)
			for _, fld := range fields {
				assert.Equal(t, name, fld.Type)
				assert.Equal(t, kind, fld.Kind)
				assert.Equal(t, bits, fld.Bits)
			}
			assert.False(t, fields[0].Optional)
			assert.True(t, fields[1].Optional)
		})
	}
}

func TestParseFileNamedPointer(t *testing.T) {
	t.Parallel()

	src := "package p\n\ntype Port uint16\n\ntype OptInt *int\n\ntype OptPort *Port\n\ntype T struct {\n\tA OptInt\n\tB OptPort\n}\n"
	f, err := ParseFile("t.go", src, []string{"T"})
	require.NoError(t, err)

	fields := f.Structs[0].Fields
	require.Len(t, fields, 2)
	assert.True(t, fields[0].Optional)
	assert.Equal(t, "int", fields[0].Type)
	assert.True(t, fields[1].Optional)
	assert.Equal(t, "Port", fields[1].Type)
	assert.Equal(t, fromenv.Uint, fields[1].Kind)

	code, err := Generate(f)
	require.NoError(t, err)
	assert.Contains(t, string(code), `if v.A, err = fromenv.GetOptional[int](env, "A", nil); err != nil {`)
	assert.Contains(t, string(code), `if v.B, err = fromenv.GetOptional[Port](env, "B", nil); err != nil {`)
}

func TestGenerateValidation(t *testing.T) {
	t.Parallel()

	src := "package p\n\ntype T struct {\n\tPort uint16 `validate:\"gt=0\"`\n\tHidden string `env:\"-\" validate:\"required\"`\n}\n\ntype U struct {\n\tHidden string `env:\"-\" validate:\"required\"`\n}\n"
	f, err := ParseFile("t.go", src, []string{"T", "U"})
	require.NoError(t, err)
	require.True(t, f.Structs[0].Validate)
	require.True(t, f.Structs[1].Validate)

	code, err := Generate(f)
	require.NoError(t, err)
	assert.Contains(t, string(code), "\n\tif err = fromenv.Validate(v); err != nil {\n\t\treturn T{}, err\n\t}\n\n\treturn v, nil\n")
	assert.Contains(t, string(code), "\n\tif err = fromenv.Validate(v); err != nil {\n\t\treturn U{}, err\n\t}\n")
	assert.Contains(t, string(code), "and the result passes its validate tags")

	_, err = parser.ParseFile(token.NewFileSet(), "t_fromenv.go", code, parser.AllErrors)
	require.NoError(t, err)
}

func TestParseFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		types   []string
		wantErr string
	}{
		{name: "no types", src: personSrc, types: nil, wantErr: "no type names"},
		{name: "missing type", src: personSrc, types: []string{"Nobody"}, wantErr: "type Nobody not found"},
		{name: "not a struct", src: personSrc, types: []string{"NotStruct"}, wantErr: "is not a struct"},
		{name: "syntax", src: "package p\ntype T struct {", types: []string{"T"}, wantErr: "expected"},
		{
			name:    "slice",
			src:     "package p\n\ntype T struct {\n\tHosts []string\n}\n",
			types:   []string{"T"},
			wantErr: "t.go:4:2: T.Hosts: unsupported type []string",
		},
		{
			name:    "foreign type",
			src:     "package p\n\nimport \"time\"\n\ntype T struct {\n\tTTL time.Duration\n}\n",
			types:   []string{"T"},
			wantErr: "T.TTL: unsupported type time.Duration",
		},
		{
			name:    "pointer to pointer",
			src:     "package p\n\ntype T struct {\n\tN **int\n}\n",
			types:   []string{"T"},
			wantErr: "T.N: unsupported type **int",
		},
		{
			name:    "embedded",
			src:     "package p\n\ntype Base struct{}\n\ntype T struct {\n\tBase\n}\n",
			types:   []string{"T"},
			wantErr: "unsupported type Base",
		},
		{
			name:    "recursive named type",
			src:     "package p\n\ntype A B\ntype B A\n\ntype T struct {\n\tX A\n}\n",
			types:   []string{"T"},
			wantErr: "T.X: unsupported type A",
		},
		{
			name:    "generic",
			src:     "package p\n\ntype T[V any] struct {\n\tX V\n}\n",
			types:   []string{"T"},
			wantErr: "generic types are not supported",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseFile("t.go", tt.src, tt.types)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFieldTypeErrorAs(t *testing.T) {
	t.Parallel()

	_, err := ParseFile("t.go", "package p\n\ntype T struct {\n\tM map[string]int\n}\n", []string{"T"})

	var fte FieldTypeError
	require.ErrorAs(t, err, &fte)
	assert.Equal(t, "T", fte.Struct)
	assert.Equal(t, "M", fte.Field)
	assert.Equal(t, "map[string]int", fte.Type)
	assert.Equal(t, 4, fte.Pos.Line)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	f, err := ParseFile("testdata/person.go", personSrc, []string{"Person", "Empty"})
	require.NoError(t, err)

	src, err := Generate(f)
	require.NoError(t, err)
	code := string(src)

	assert.True(t, strings.HasPrefix(code, "// Code generated by fromenv-gen from person.go. DO NOT EDIT.\n\npackage people\n"))
	for _, want := range []string{
		`import "github.com/ilyakaznacheev/fromenv"`,
		"func PersonFromEnv() (Person, error) {",
		"func PersonFromLookuper(env fromenv.Lookuper) (Person, error) {",
		"func MustPersonFromEnv() Person {",
		`if v.Name, err = fromenv.Get[string](env, "NAME", nil); err != nil {`,
		`if v.Age, err = fromenv.Get[int32](env, "AGE", nil); err != nil {`,
		`if v.Phone, err = fromenv.Get[string](env, "MOBILE", nil); err != nil {`,
		`if v.Address, err = fromenv.GetOptional[string](env, "ADDRESS", fromenv.Default("unknown")); err != nil {`,
		`if v.Married, err = fromenv.GetOptional[bool](env, "MARRIED", nil); err != nil {`,
		`if v.Sex, err = fromenv.Get[string](env, "GENDER", fromenv.Default("famale")); err != nil {`,
		`if v.Port, err = fromenv.Get[Port](env, "PORT", nil); err != nil {`,
		`if v.a, err = fromenv.Get[uint8](env, "A", nil); err != nil {`,
		`if v.Sep, err = fromenv.Get[rune](env, "SEP", nil); err != nil {`,
		"return Person{}, err",
		"func EmptyFromLookuper(env fromenv.Lookuper) (Empty, error) {\n\treturn Empty{}, nil\n}",
	} {
		assert.Contains(t, code, want)
	}
	assert.NotContains(t, code, "Skipped")
	assert.NotContains(t, code, "fromenv.Validate")

	// generated code is valid Go
	_, err = parser.ParseFile(token.NewFileSet(), "person_fromenv.go", src, parser.AllErrors)
	require.NoError(t, err)

	// and stable
	again, err := Generate(f)
	require.NoError(t, err)
	assert.Equal(t, src, again)
}

func TestGenerateQuotesLiterals(t *testing.T) {
	t.Parallel()

	src := "package p\n\ntype T struct {\n\tS string `env:\"S\" env-default:\"a \\\"quoted\\\"\\tvalue\"`\n}\n"
	f, err := ParseFile("t.go", src, []string{"T"})
	require.NoError(t, err)
	require.Equal(t, "a \"quoted\"\tvalue", *f.Structs[0].Fields[0].Default)

	code, err := Generate(f)
	require.NoError(t, err)
	assert.Contains(t, string(code), `fromenv.Default("a \"quoted\"\tvalue")`)
}

func TestDescriptors(t *testing.T) {
	t.Parallel()

	f, err := ParseFile("person.go", personSrc, []string{"Person"})
	require.NoError(t, err)

	ds := f.Descriptors()
	require.Len(t, ds, 10)
	assert.Equal(t, "Person.Phone", ds[2].Field)
	assert.Equal(t, "MOBILE", ds[2].Key)
	assert.True(t, ds[0].Required())
	assert.False(t, ds[3].Required())
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "person_fromenv.go", OutputPath("person.go"))
	assert.Equal(t, "a/b/config_fromenv.go", OutputPath("a/b/config.go"))
}

func TestGenerateRejectsRuntimePackage(t *testing.T) {
	t.Parallel()

	f, err := ParseFile("x.go", "package fromenv\n\ntype T struct{ A int }\n", []string{"T"})
	require.NoError(t, err)

	_, err = Generate(f)
	require.Error(t, err)
}
