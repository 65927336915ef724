package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Username string `json:"username" validate:"required,min=3,max=150,username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,password_strength"`
}

func TestValidateStruct_ValidInput(t *testing.T) {
	details := ValidateStruct(registerInput{
		Username: "test.user",
		Email:    "test@example.com",
		Password: "Test123!@#",
	})
	assert.Empty(t, details)
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	details := ValidateStruct(registerInput{})

	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "username is required", fields["username"])
	assert.Equal(t, "password is required", fields["password"])
	assert.NotContains(t, fields, "email")
}

func TestValidateStruct_CustomTags(t *testing.T) {
	details := ValidateStruct(registerInput{
		Username: "bad name!",
		Email:    "not-an-email",
		Password: "weak",
	})

	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Contains(t, fields["username"], "may contain only")
	assert.Contains(t, fields["email"], "valid email")
	assert.Contains(t, fields["password"], "uppercase")
}
