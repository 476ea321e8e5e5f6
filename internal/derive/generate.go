package derive

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

// RuntimeImport is the import path of the package generated code calls into.
const RuntimeImport = "github.com/ilyakaznacheev/fromenv"

var constructorTpl = template.Must(template.New("constructor").Funcs(template.FuncMap{
	"quote":   strconv.Quote,
	"getter":  getter,
	"default": defaultExpr,
}).Parse(`// Code generated by fromenv-gen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import "{{.Import}}"
{{range .Structs}}{{$s := .}}
// {{.Name}}FromEnv constructs a {{.Name}} from the process environment.
func {{.Name}}FromEnv() ({{.Name}}, error) {
	return {{.Name}}FromLookuper(fromenv.OSEnv{})
}

// {{.Name}}FromLookuper constructs a {{.Name}} from env.
// A value is returned only if every field resolves{{if .Validate}} and the result passes its validate tags{{end}}.
func {{.Name}}FromLookuper(env fromenv.Lookuper) ({{.Name}}, error) {
{{- if or .Fields .Validate}}
	var (
		v   {{.Name}}
		err error
	)
{{range .Fields}}
	if v.{{.Name}}, err = {{getter .}}(env, {{quote .Key}}, {{default .}}); err != nil {
		return {{$s.Name}}{}, err
	}
{{- end}}
{{- if .Validate}}

	if err = fromenv.Validate(v); err != nil {
		return {{.Name}}{}, err
	}
{{- end}}

	return v, nil
{{- else}}
	return {{.Name}}{}, nil
{{- end}}
}

// Must{{.Name}}FromEnv is like {{.Name}}FromEnv but panics on error.
func Must{{.Name}}FromEnv() {{.Name}} {
	v, err := {{.Name}}FromEnv()
	if err != nil {
		panic(err)
	}
	return v
}
{{end}}`))

func getter(f Field) string {
	if f.Optional {
		return "fromenv.GetOptional[" + f.Type + "]"
	}
	return "fromenv.Get[" + f.Type + "]"
}

func defaultExpr(f Field) string {
	if f.Default == nil {
		return "nil"
	}
	return "fromenv.Default(" + strconv.Quote(*f.Default) + ")"
}

// Generate renders constructors for every structure of the file.
func Generate(f *File) ([]byte, error) {
	if f.Package == "fromenv" {
		return nil, fmt.Errorf("can't generate constructors inside the fromenv package")
	}

	data := map[string]interface{}{
		"Source":  filepath.Base(f.Path),
		"Package": f.Package,
		"Import":  RuntimeImport,
		"Structs": f.Structs,
	}

	var buf bytes.Buffer
	if err := constructorTpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w\n%s", err, buf.String())
	}
	return src, nil
}

// OutputPath returns the default output file for a source file: person.go -> person_fromenv.go.
func OutputPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, ".go") + "_fromenv.go"
}
