// Package validator registers the password rules used by auth requests.
package validator

import (
	"unicode"

	"testimonials_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// PasswordPolicy describes the password requirements for API error messages
const PasswordPolicy = "Password must be at least 8 characters and include: uppercase letter, lowercase letter, number, and special character"

// Register adds the strongpassword tag to val.
func Register(val *validator.Validator) error {
	return val.RegisterValidation("strongpassword", validateStrongPassword)
}

func validateStrongPassword(fl playground.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword checks length and character classes.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
