package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskvault/taskvault-backend/internal/models"
	"github.com/taskvault/taskvault-backend/internal/utils"
)

// Mock AuthService that implements the interface methods required by the handlers
type MockAuthService struct {
	RegisterUserFunc         func(ctx context.Context, reg *models.UserRegistration) (*models.User, error)
	AuthenticateUserFunc     func(ctx context.Context, creds *models.UserCredentials) (*models.User, string, error)
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	VerifyResetTokenFunc     func(ctx context.Context, token string) error
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
}

func (m *MockAuthService) RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, error) {
	if m.RegisterUserFunc != nil {
		return m.RegisterUserFunc(ctx, reg)
	}
	return &models.User{ID: 1, Username: reg.Username, Email: reg.Email}, nil
}

func (m *MockAuthService) AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, error) {
	if m.AuthenticateUserFunc != nil {
		return m.AuthenticateUserFunc(ctx, creds)
	}
	return &models.User{ID: 1, Username: "testuser", Email: "test@example.com"}, "access_token", nil
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) VerifyResetToken(ctx context.Context, token string) error {
	if m.VerifyResetTokenFunc != nil {
		return m.VerifyResetTokenFunc(ctx, token)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	handler := NewAuthHandler(&MockAuthService{}, 900)

	body := `{"username":"testuser","email":"test@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool        `json:"success"`
		Data    models.User `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !resp.Success || resp.Data.Username != "testuser" {
		t.Errorf("Unexpected response: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	handler := NewAuthHandler(&MockAuthService{}, 900)

	tests := []struct {
		name string
		body string
	}{
		{"Missing username", `{"email":"test@example.com","password":"password123"}`},
		{"Bad email", `{"username":"testuser","email":"not-an-email","password":"password123"}`},
		{"Short password", `{"username":"testuser","email":"test@example.com","password":"short"}`},
		{"Empty body", ``},
		{"Malformed JSON", `{"username":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_Register_UnknownFieldsDropped(t *testing.T) {
	var captured *models.UserRegistration
	handler := NewAuthHandler(&MockAuthService{
		RegisterUserFunc: func(ctx context.Context, reg *models.UserRegistration) (*models.User, error) {
			captured = reg
			return &models.User{ID: 1, Username: reg.Username, Email: reg.Email}, nil
		},
	}, 900)

	// Unrecognized fields are ignored, not rejected
	body := `{"username":"testuser","email":"test@example.com","password":"password123","is_admin":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured == nil || captured.Username != "testuser" {
		t.Errorf("Expected registration to reach the service, got %+v", captured)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	handler := NewAuthHandler(&MockAuthService{
		RegisterUserFunc: func(ctx context.Context, reg *models.UserRegistration) (*models.User, error) {
			return nil, utils.NewDuplicateError("User", "username", reg.Username)
		},
	}, 900)

	body := `{"username":"taken","email":"test@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_Login(t *testing.T) {
	handler := NewAuthHandler(&MockAuthService{}, 900)

	body := `{"identifier":"testuser","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
			ExpiresIn   int    `json:"expires_in"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Data.AccessToken != "access_token" || resp.Data.TokenType != "Bearer" || resp.Data.ExpiresIn != 900 {
		t.Errorf("Unexpected response: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&MockAuthService{
		AuthenticateUserFunc: func(ctx context.Context, creds *models.UserCredentials) (*models.User, string, error) {
			return nil, "", utils.NewInvalidCredentialsError()
		},
	}, 900)

	body := `{"identifier":"testuser","password":"wrongpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d: %s", rec.Code, rec.Body.String())
	}
}
