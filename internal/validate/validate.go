// Package validate contains the credential syntax rules. The predicates are
// pure: they touch no state and are safe for concurrent use.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SpecialCharacters is the set of symbols a password must draw from.
// One historical variant of the rules also listed '*', but it was never
// part of the enforced check.
const SpecialCharacters = "!@#$%^&"

const (
	UsernameMinLength = 5
	UsernameMaxLength = 10
	PasswordMinLength = 5
)

var v = newValidator()

var (
	usernameRules = fmt.Sprintf("required,alpha,min=%d,max=%d", UsernameMinLength, UsernameMaxLength)
	passwordRules = fmt.Sprintf("required,min=%d,passwordclasses", PasswordMinLength)
)

func newValidator() *validator.Validate {
	val := validator.New()
	// Character-class counting is not expressible with built-in tags.
	if err := val.RegisterValidation("passwordclasses", passwordClasses); err != nil {
		panic(err)
	}
	return val
}

// Username reports whether name is a valid username: 5–10 characters, all
// ASCII letters. Case is preserved and significant; no normalization happens
// here or anywhere else.
func Username(name string) bool {
	return v.Var(name, usernameRules) == nil
}

// Password reports whether pw satisfies the password policy: at least 5
// characters with at least one digit, one lowercase letter, one uppercase
// letter, and one character from SpecialCharacters.
func Password(pw string) bool {
	return v.Var(pw, passwordRules) == nil
}

func passwordClasses(fl validator.FieldLevel) bool {
	var hasDigit, hasLower, hasUpper, hasSpecial bool
	for _, c := range fl.Field().String() {
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case strings.ContainsRune(SpecialCharacters, c):
			hasSpecial = true
		}
	}
	return hasDigit && hasLower && hasUpper && hasSpecial
}
