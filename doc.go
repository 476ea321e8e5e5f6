/*
Package fromenv constructs typed structures from environment variables.

Features

- every exported field is read from its own variable: the env tag or the upper-cased field name;

- default values via the env-default tag, parsed like the variable itself;

- optional fields: a pointer field stays nil when there is neither a variable nor a default;

- all-or-nothing construction with typed errors;

- code generation with fromenv-gen for structures you want to construct without reflection;

- output environment variable list with descriptions into help output or JSON, YAML, TOML and EDN.

Usage

	type Config struct {
		Name    string
		Age     int32
		Phone   string  `env:"MOBILE"`
		Address *string `env-default:"unknown"`
		Married *bool
	}

	cfg, err := fromenv.Load[Config]()
	if err != nil {
		...
	}

Supported field types are string, bool, signed and unsigned integers of every size,
float32 and float64, types based on them and pointers to any of those,
written as *T or through a named pointer type.
Integers are parsed in decimal notation, booleans are "true" or "false" in any case.
Variable values are never trimmed.

Generated constructors

Add a go:generate directive next to the structure:

	//go:generate go run github.com/ilyakaznacheev/fromenv/cmd/fromenv-gen -type Config

fromenv-gen writes config_fromenv.go with ConfigFromEnv, ConfigFromLookuper and MustConfigFromEnv.
Unsupported field types are reported when the code is generated. Named types, pointer
types included, are resolved only when they are declared in the same file.
Structures with validate tags are checked with Validate, as Read does.

Help output

	help, err := fromenv.GetDescription(&cfg, nil)
	if err != nil {
		...
	}

For more detailed information check examples and example tests.
*/
package fromenv
