package fromenv

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"text/template"
)

const (
	DefaultTableFormat = `The following environment variables can be used for configuration:

KEY	TYPE	DEFAULT	REQUIRED	DESCRIPTION
{{range .}}{{usage_key .}}	{{usage_type .}}	{{usage_default .}}	{{usage_required .}}	{{usage_description .}}
{{end}}`
)

// PrintDescription prints a table of environment variables to STDOUT.
func PrintDescription(cfg interface{}) error {
	return FPrintDescription(os.Stdout, cfg)
}

// FPrintDescription prints a table of environment variables into the custom output.
func FPrintDescription(w io.Writer, cfg interface{}) error {
	meta, err := Describe(cfg)
	if err != nil {
		return err
	}

	// Specify the default usage template functions
	functions := template.FuncMap{
		"usage_key":         func(v Descriptor) string { return v.Key },
		"usage_description": func(v Descriptor) string { return v.Description },
		"usage_type":        func(v Descriptor) string { return typeLabel(v) },
		"usage_default":     func(v Descriptor) string { return derefString(v.Default) },
		"usage_required":    func(v Descriptor) string { return formatBool(v.Required()) },
	}

	tmpl, err := template.New("fromenv").Funcs(functions).Parse(DefaultTableFormat)
	if err != nil {
		return err
	}
	tabs := tabwriter.NewWriter(w, 1, 0, 4, ' ', 0)
	err = tmpl.Execute(tabs, meta)
	if err != nil {
		return err
	}
	return tabs.Flush()
}

// GetDescription returns a description of environment variables.
// You can provide a custom header text.
func GetDescription(cfg interface{}, headerText *string) (string, error) {
	meta, err := Describe(cfg)
	if err != nil {
		return "", err
	}

	var header, description string

	if headerText != nil {
		header = *headerText
	} else {
		header = "Environment variables:"
	}

	for _, m := range meta {
		description += fmt.Sprintf("\n  %s %s", m.Key, typeLabel(m))
		description += fmt.Sprintf("\n    \t%s", m.Description)
		if m.Default != nil {
			description += fmt.Sprintf(" (default %q)", *m.Default)
		}
	}

	if description != "" {
		return header + description, nil
	}
	return "", nil
}

// Usage returns a configuration usage help.
// Other usage instructions can be wrapped in and executed before this usage function.
// The default output is STDERR.
func Usage(cfg interface{}, headerText *string, usageFuncs ...func()) func() {
	return FUsage(os.Stderr, cfg, headerText, usageFuncs...)
}

// FUsage prints configuration help into the custom output.
// Other usage instructions can be wrapped in and executed before this usage function
func FUsage(w io.Writer, cfg interface{}, headerText *string, usageFuncs ...func()) func() {
	return func() {
		for _, fn := range usageFuncs {
			fn()
		}

		text, err := GetDescription(cfg, headerText)
		if err != nil {
			return
		}
		if len(usageFuncs) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, text)
	}
}

// typeLabel marks optional fields with a pointer star
func typeLabel(d Descriptor) string {
	if d.Optional {
		return "*" + d.Type
	}
	return d.Type
}

func derefString(s *string) string {
	if s != nil {
		return *s
	}

	return ""
}

func formatBool(b bool) string {
	if b {
		return strconv.FormatBool(b)
	}
	return ""
}
