package utils_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/taskvault/taskvault-backend/internal/utils"
)

type registrationPayload struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"password123"}`))

	var payload registrationPayload
	if err := utils.DecodeJSON(r, &payload); err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}

	if payload.Username != "alice" {
		t.Errorf("Expected username 'alice', got %q", payload.Username)
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Empty body", ""},
		{"Malformed JSON", `{"username": "alice"`},
		{"Wrong type", `{"username": 42}`},
		{"Multiple objects", `{"username":"a"}{"username":"b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))

			var payload registrationPayload
			if err := utils.DecodeJSON(r, &payload); err == nil {
				t.Error("Expected decode error")
			}
		})
	}
}

func TestDecodeJSON_UnknownFieldsDropped(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"password123","role":"admin"}`))

	var payload registrationPayload
	if err := utils.DecodeJSON(r, &payload); err != nil {
		t.Fatalf("Expected unknown fields to be dropped, got: %v", err)
	}
}

func TestValidateStruct(t *testing.T) {
	valid := &registrationPayload{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	}
	if err := utils.ValidateStruct(valid); err != nil {
		t.Errorf("Expected valid struct to pass, got: %v", err)
	}
}

func TestValidateStruct_SingleFieldError(t *testing.T) {
	payload := &registrationPayload{
		Username: "alice",
		Email:    "not-an-email",
		Password: "password123",
	}

	err := utils.ValidateStruct(payload)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	appErr, ok := err.(*utils.AppError)
	if !ok {
		t.Fatalf("Expected *AppError, got %T", err)
	}
	// Field names come from json tags, not struct fields
	if appErr.Field != "email" {
		t.Errorf("Expected field 'email', got %q", appErr.Field)
	}
}

func TestValidateStruct_MultipleFieldErrors(t *testing.T) {
	payload := &registrationPayload{
		Username: "ab",
		Email:    "not-an-email",
		Password: "short",
	}

	err := utils.ValidateStruct(payload)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	appErr, ok := err.(*utils.AppError)
	if !ok {
		t.Fatalf("Expected *AppError, got %T", err)
	}
	if len(appErr.Details) != 3 {
		t.Errorf("Expected 3 field errors, got %d: %v", len(appErr.Details), appErr.Details)
	}
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"password123"}`))

	var payload registrationPayload
	if err := utils.DecodeAndValidate(r, &payload); err != nil {
		t.Fatalf("DecodeAndValidate failed: %v", err)
	}
}

func TestDecodeAndValidate_InvalidPayload(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"alice"}`))

	var payload registrationPayload
	if err := utils.DecodeAndValidate(r, &payload); err == nil {
		t.Error("Expected validation error for missing fields")
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"alice+tag@example.co.uk", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := utils.IsValidEmail(tt.email); got != tt.valid {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}
