package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

func decodeRegister(t *testing.T, body string) (bool, *httptest.ResponseRecorder) {
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	var payload registerPayload
	ok := ValidateAndDecode(rr, req, &payload)
	return ok, rr
}

func TestValidateAndDecode_PasswordPolicy(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		for _, password := range []string{"Abc12345!", "Str0ngPass?", "xY1@xY1@"} {
			ok, _ := decodeRegister(t, `{"email":"a@x.com","password":"`+password+`"}`)
			assert.True(t, ok, "password %q should pass", password)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		cases := map[string]string{
			"too short":         "Ab1!",
			"no uppercase":      "abc12345!",
			"no lowercase":      "ABC12345!",
			"no digit":          "Abcdefgh!",
			"no symbol":         "Abc123456",
			"forbidden symbol":  "Abc12345#",
			"space in password": "Abc 12345!",
		}
		for name, password := range cases {
			ok, rr := decodeRegister(t, `{"email":"a@x.com","password":"`+password+`"}`)
			assert.False(t, ok, "case %q: password %q should fail", name, password)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		ok, rr := decodeRegister(t, `{"email":"not-an-email","password":"Abc12345!"}`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		ok, rr := decodeRegister(t, `{"email":`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
