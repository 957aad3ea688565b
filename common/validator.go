package common

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

const passwordSymbols = "@$!%*?&"

func newValidator() *validator.Validate {
	v := validator.New()
	// validator's regex engine has no lookahead, so the password policy
	// is a plain function instead of a pattern.
	v.RegisterValidation("password", validPassword)
	return v
}

// validPassword enforces the registration password policy: at least 8
// characters with one lowercase letter, one uppercase letter, one digit
// and one symbol from the allowed set.
func validPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			// Characters outside the allowed classes are rejected,
			// mirroring the strict policy of the registration form.
			return false
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

func ValidateAndDecode(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}

	if err := validate.Struct(payload); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		http.Error(w, validationErrors.Error(), http.StatusBadRequest)
		return false
	}

	return true
}
