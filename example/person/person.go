// Package person shows constructors generated by fromenv-gen.
package person

//go:generate go run ../../cmd/fromenv-gen -type Person

// Person is read from NAME, AGE, MOBILE, ADDRESS, MARRIED and GENDER.
type Person struct {
	Name    string
	Age     int32
	Phone   string  `env:"MOBILE"`
	Address *string `env-default:"unknown"`
	Married *bool
	Sex     string `env:"GENDER" env-default:"famale"`
}
