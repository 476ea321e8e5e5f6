package fromenv

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
)

// Lookuper is a source of environment variables.
//
// LookupEnv has the semantics of os.LookupEnv: the boolean reports
// whether the variable is set, even if its value is empty.
type Lookuper interface {
	LookupEnv(key string) (string, bool)
}

// OSEnv reads variables from the process environment.
type OSEnv struct{}

// LookupEnv implements Lookuper.
func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is an in-memory set of variables.
type MapEnv map[string]string

// LookupEnv implements Lookuper.
func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Chain looks a variable up in every source in order and returns the first hit.
//
// Example:
//
//	dot, err := fromenv.DotEnv(".env")
//	if err != nil {
//		...
//	}
//	// the process environment wins over the file
//	env := fromenv.Chain{fromenv.OSEnv{}, dot}
type Chain []Lookuper

// LookupEnv implements Lookuper.
func (c Chain) LookupEnv(key string) (string, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if v, ok := l.LookupEnv(key); ok {
			return v, true
		}
	}
	return "", false
}

// DotEnv reads ENV files into a MapEnv. If no path is given, ".env" is read.
// When several files define the same variable, the last one wins.
//
// Unlike loading an ENV file with godotenv.Load, the process environment is left untouched.
func DotEnv(paths ...string) (MapEnv, error) {
	vars, err := godotenv.Read(paths...)
	if err != nil {
		return nil, fmt.Errorf("env file reading error: %w", err)
	}
	return MapEnv(vars), nil
}

// ParseDotEnv parses ENV file content from the reader.
func ParseDotEnv(r io.Reader) (MapEnv, error) {
	vars, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("env file parsing error: %w", err)
	}
	return MapEnv(vars), nil
}
