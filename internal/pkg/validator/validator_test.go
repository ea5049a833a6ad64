package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type contactForm struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Party int    `validate:"min=1"`
}

func TestValidateReportsEachFailingField(t *testing.T) {
	fields := Validate(contactForm{Email: "not-an-email"})

	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 1", fields["Party"])
}

func TestValidateReturnsNilWhenValid(t *testing.T) {
	fields := Validate(contactForm{Name: "Aisha", Email: "aisha@example.com", Party: 2})

	assert.Nil(t, fields)
}

func TestFieldsStringIsStable(t *testing.T) {
	f := Fields{"Email": "must be a valid email address", "Name": "is required"}

	assert.Equal(t, "Email must be a valid email address; Name is required", f.String())
}
