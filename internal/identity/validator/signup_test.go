package validator

import (
	"strings"
	"testing"

	"barberbook/pkg/logger"
)

func validSignupInput() SignupInput {
	return SignupInput{
		Name:     "Dana Smith",
		Email:    "dana@example.com",
		Phone:    "+1 555 010 0000",
		Password: "correct-horse-battery",
	}
}

func TestValidateSignup(t *testing.T) {
	v := NewAccountValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(*SignupInput)
		wantField string
	}{
		{name: "valid", mutate: func(i *SignupInput) {}},
		{name: "valid parenthesized phone", mutate: func(i *SignupInput) { i.Phone = "(555) 123-4567" }},
		{
			name:      "single character name",
			mutate:    func(i *SignupInput) { i.Name = "D" },
			wantField: "Name",
		},
		{
			name:      "missing email",
			mutate:    func(i *SignupInput) { i.Email = "" },
			wantField: "Email",
		},
		{
			name:      "malformed email",
			mutate:    func(i *SignupInput) { i.Email = "dana@" },
			wantField: "Email",
		},
		{
			name:      "alphabetic phone",
			mutate:    func(i *SignupInput) { i.Phone = "call me" },
			wantField: "Phone",
		},
		{
			name:      "short phone",
			mutate:    func(i *SignupInput) { i.Phone = "12345" },
			wantField: "Phone",
		},
		{
			name:      "seven character password",
			mutate:    func(i *SignupInput) { i.Password = "1234567" },
			wantField: "Password",
		},
		{
			name:      "password over bcrypt limit",
			mutate:    func(i *SignupInput) { i.Password = strings.Repeat("x", 73) },
			wantField: "Password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validSignupInput()
			tt.mutate(&input)

			err := v.ValidateSignup(&input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q does not mention %s", err, tt.wantField)
			}
		})
	}
}

func TestValidateSignup_CollectsAllErrors(t *testing.T) {
	v := NewAccountValidator(logger.Discard())

	err := v.ValidateSignup(&SignupInput{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, field := range []string{"Name", "Email", "Phone", "Password"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error does not mention %s: %q", field, err)
		}
	}
}

func TestValidateSignin(t *testing.T) {
	v := NewAccountValidator(logger.Discard())

	if err := v.ValidateSignin(&SigninInput{Email: "dana@example.com", Password: "pw"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.ValidateSignin(&SigninInput{Email: "nope", Password: "pw"}); err == nil {
		t.Error("malformed email accepted")
	}
	if err := v.ValidateSignin(&SigninInput{Email: "dana@example.com"}); err == nil {
		t.Error("missing password accepted")
	}
}
