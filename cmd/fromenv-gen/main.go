// Command fromenv-gen generates constructors that build structures from environment variables.
//
// Typical go:generate usage, next to the structure declaration:
//
//	//go:generate go run github.com/ilyakaznacheev/fromenv/cmd/fromenv-gen -type Config
//
// For every listed type it writes <T>FromEnv, <T>FromLookuper and Must<T>FromEnv into
// <file>_fromenv.go. Fields follow the fromenv rules: the env tag or the upper-cased
// field name is the variable, env-default is the default value and pointer fields are
// optional. A field of any other type fails the generation. If any field has a validate
// tag, the constructed value is checked with fromenv.Validate before it is returned.
//
// With -describe the variable list is written instead, as json, yaml, toml or edn.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ilyakaznacheev/fromenv"
	"github.com/ilyakaznacheev/fromenv/internal/derive"
	"github.com/ilyakaznacheev/fromenv/internal/logger"
)

// settings of the tool itself, GOFILE is set by go generate
type settings struct {
	LogLevel  string  `env:"FROMENV_LOG_LEVEL" env-default:"info" env-description:"log level: debug, info, warn or error" validate:"oneof=trace debug info warn error"`
	LogFormat string  `env:"FROMENV_LOG_FORMAT" env-default:"console" env-description:"log format: console or json" validate:"oneof=console json"`
	GoFile    *string `env:"GOFILE" env-description:"source file, set by go generate"`
}

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], fromenv.OSEnv{}, os.Stdout, os.Stderr))
}

func run(args []string, env fromenv.Lookuper, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fromenv-gen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	typeNames := fs.String("type", "", "comma-separated list of struct type names; required")
	file := fs.String("file", "", "Go source file with the types (default $GOFILE)")
	out := fs.String("out", "", "output file (default <file>_fromenv.go, stdout for -describe)")
	describe := fs.String("describe", "", "write the variable list in this format (json, yaml, toml, edn) instead of code")

	header := "Environment variables:"
	fs.Usage = fromenv.FUsage(stderr, &settings{}, &header, func() {
		fmt.Fprintln(stderr, "Usage: fromenv-gen -type T[,T...] [-file file.go] [-out file] [-describe format]")
		fs.PrintDefaults()
	})

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := fromenv.Load[settings](fromenv.WithLookuper(env))
	if err != nil {
		fmt.Fprintf(stderr, "fromenv-gen: %v\n", err)
		return exitUsage
	}
	log := logger.New(stderr, cfg.LogLevel, cfg.LogFormat)

	source := *file
	if source == "" && cfg.GoFile != nil {
		source = *cfg.GoFile
	}
	types := splitList(*typeNames)
	if source == "" || len(types) == 0 {
		fs.Usage()
		return exitUsage
	}

	log.Debug().Str("file", source).Strs("types", types).Msg("extracting fields")

	parsed, err := derive.ParseFile(source, nil, types)
	if err != nil {
		log.Error().Err(err).Msg("field extraction failed")
		return exitError
	}

	if *describe != "" {
		if err := writeDescription(parsed, *describe, *out, stdout); err != nil {
			log.Error().Err(err).Msg("description failed")
			return exitError
		}
		return exitOK
	}

	code, err := derive.Generate(parsed)
	if err != nil {
		log.Error().Err(err).Msg("generation failed")
		return exitError
	}

	target := *out
	if target == "" {
		target = derive.OutputPath(source)
	}
	if err := os.WriteFile(target, code, 0o644); err != nil {
		log.Error().Err(err).Str("out", target).Msg("writing output failed")
		return exitError
	}

	log.Info().Str("out", target).Strs("types", types).Msg("constructors generated")
	return exitOK
}

func writeDescription(parsed *derive.File, format, out string, stdout io.Writer) error {
	f, err := fromenv.ParseFormat(format)
	if err != nil {
		return err
	}

	if out == "" {
		return fromenv.WriteDescriptors(stdout, parsed.Descriptors(), f)
	}

	w, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := fromenv.WriteDescriptors(w, parsed.Descriptors(), f); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
