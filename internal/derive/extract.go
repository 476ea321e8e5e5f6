// Package derive builds constructors of environment-backed structures from Go source.
//
// It is the engine behind fromenv-gen: ParseFile reads the field declarations of the
// requested structures and Generate renders a constructor for each of them.
package derive

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"sort"
	"strconv"

	"github.com/ilyakaznacheev/fromenv"
)

// Field is a field of a structure a constructor is generated for.
type Field struct {
	Name     string
	Key      string
	Default  *string
	Optional bool
	// Type is the scalar type as written in the source, e.g. "int32" or a local named type
	Type        string
	Kind        fromenv.Kind
	Bits        int
	Description string
}

// Struct is a structure a constructor is generated for.
type Struct struct {
	Name   string
	Fields []Field
	// Validate is set if any field carries validation rules
	Validate bool
}

// File holds the requested structures of one source file.
type File struct {
	Path    string
	Package string
	Structs []Struct
}

// FieldTypeError reports a field whose type can't be read from a variable.
// It carries the source position so it reads like a compiler error.
type FieldTypeError struct {
	Pos    token.Position
	Struct string
	Field  string
	Type   string
}

func (e FieldTypeError) Error() string {
	return fmt.Sprintf("%s: %s.%s: unsupported type %s", e.Pos, e.Struct, e.Field, e.Type)
}

// ParseFile parses a Go source file and extracts the named structures.
// If src is nil the file is read from path, see parser.ParseFile.
func ParseFile(path string, src interface{}, typeNames []string) (*File, error) {
	if len(typeNames) == 0 {
		return nil, fmt.Errorf("no type names given")
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	specs := make(map[string]*ast.TypeSpec)
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, s := range gen.Specs {
			ts := s.(*ast.TypeSpec)
			specs[ts.Name.Name] = ts
		}
	}

	x := &extractor{fset: fset, specs: specs}
	out := &File{Path: path, Package: f.Name.Name}

	names := append([]string(nil), typeNames...)
	sort.Strings(names)

	for i, name := range names {
		if i > 0 && names[i-1] == name {
			continue
		}
		s, err := x.extract(name)
		if err != nil {
			return nil, err
		}
		out.Structs = append(out.Structs, s)
	}

	return out, nil
}

// Descriptors returns the field descriptors of every structure in the file.
func (f *File) Descriptors() []fromenv.Descriptor {
	var out []fromenv.Descriptor
	for _, s := range f.Structs {
		for _, fld := range s.Fields {
			out = append(out, fromenv.Descriptor{
				Field:       s.Name + "." + fld.Name,
				Key:         fld.Key,
				Default:     fld.Default,
				Optional:    fld.Optional,
				Kind:        fld.Kind,
				Bits:        fld.Bits,
				Type:        fld.Type,
				Description: fld.Description,
			})
		}
	}
	return out
}

type extractor struct {
	fset  *token.FileSet
	specs map[string]*ast.TypeSpec
}

func (x *extractor) extract(name string) (Struct, error) {
	ts, ok := x.specs[name]
	if !ok {
		return Struct{}, fmt.Errorf("type %s not found", name)
	}
	if ts.TypeParams != nil {
		return Struct{}, fmt.Errorf("%s: type %s: generic types are not supported", x.fset.Position(ts.Pos()), name)
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return Struct{}, fmt.Errorf("%s: type %s is not a struct", x.fset.Position(ts.Pos()), name)
	}

	s := Struct{Name: name}

	for _, fld := range st.Fields.List {
		var tag reflect.StructTag
		if fld.Tag != nil {
			raw, err := strconv.Unquote(fld.Tag.Value)
			if err != nil {
				return Struct{}, fmt.Errorf("%s: malformed tag: %w", x.fset.Position(fld.Tag.Pos()), err)
			}
			tag = reflect.StructTag(raw)
		}

		if _, ok := tag.Lookup(fromenv.TagValidate); ok {
			s.Validate = true
		}

		envName := tag.Get(fromenv.TagEnv)
		if envName == "-" {
			continue
		}

		// embedded fields are never scalars
		if len(fld.Names) == 0 {
			return Struct{}, FieldTypeError{
				Pos:    x.fset.Position(fld.Pos()),
				Struct: name,
				Field:  exprString(fld.Type),
				Type:   exprString(fld.Type),
			}
		}

		for _, ident := range fld.Names {
			if ident.Name == "_" {
				continue
			}

			f, err := x.field(name, ident, fld.Type, tag)
			if err != nil {
				return Struct{}, err
			}
			s.Fields = append(s.Fields, f)
		}
	}

	return s, nil
}

func (x *extractor) field(structName string, ident *ast.Ident, typ ast.Expr, tag reflect.StructTag) (Field, error) {
	f := Field{
		Name:        ident.Name,
		Key:         tag.Get(fromenv.TagEnv),
		Description: tag.Get(fromenv.TagEnvDescription),
	}
	if f.Key == "" {
		f.Key = fromenv.KeyFor(ident.Name)
	}
	if def, ok := tag.Lookup(fromenv.TagEnvDefault); ok {
		f.Default = &def
	}

	scalar, optional := x.unpointer(typ, map[string]bool{})
	f.Optional = optional

	kind, bits, ok := x.kindOf(scalar, map[string]bool{})
	if !ok {
		return Field{}, FieldTypeError{
			Pos:    x.fset.Position(ident.Pos()),
			Struct: structName,
			Field:  ident.Name,
			Type:   exprString(typ),
		}
	}
	f.Kind, f.Bits = kind, bits
	f.Type = exprString(scalar)

	return f, nil
}

// unpointer strips a pointer written in the field or behind a named type of the same file
func (x *extractor) unpointer(expr ast.Expr, seen map[string]bool) (ast.Expr, bool) {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return t.X, true
	case *ast.Ident:
		ts, ok := x.specs[t.Name]
		if !ok || seen[t.Name] || ts.TypeParams != nil {
			return expr, false
		}
		seen[t.Name] = true
		if elem, ok := x.unpointer(ts.Type, seen); ok {
			return elem, true
		}
	}
	return expr, false
}

// kindOf resolves predeclared scalar types and named types declared in the same file
func (x *extractor) kindOf(expr ast.Expr, seen map[string]bool) (fromenv.Kind, int, bool) {
	ident, ok := expr.(*ast.Ident)
	if !ok {
		return fromenv.Invalid, 0, false
	}

	if ts, ok := x.specs[ident.Name]; ok {
		if seen[ident.Name] || ts.TypeParams != nil {
			return fromenv.Invalid, 0, false
		}
		seen[ident.Name] = true
		return x.kindOf(ts.Type, seen)
	}

	return fromenv.LookupKind(ident.Name)
}

// exprString prints a type expression the way it is written in the source
func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + exprString(t.Elt)
		}
		return "[...]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.InterfaceType:
		return "interface{...}"
	case *ast.StructType:
		return "struct{...}"
	case *ast.FuncType:
		return "func(...)"
	case *ast.ChanType:
		return "chan " + exprString(t.Value)
	case *ast.IndexExpr:
		return exprString(t.X) + "[" + exprString(t.Index) + "]"
	default:
		return fmt.Sprintf("%T", expr)
	}
}
