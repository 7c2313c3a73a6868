package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackerpro/tracker-backend/app/dto"
	"github.com/trackerpro/tracker-backend/app/services"
	businessflow "github.com/trackerpro/tracker-backend/business_flow"
	"github.com/trackerpro/tracker-backend/models"
)

// stubAuthFlow returns a canned outcome and records the context each call
// received.
type stubAuthFlow struct {
	outcome *businessflow.AuthOutcome
	lastCtx context.Context
}

func (s *stubAuthFlow) Register(ctx context.Context, _ *dto.RegisterRequest, _ *businessflow.ClientMetadata) *businessflow.AuthOutcome {
	s.lastCtx = ctx
	return s.outcome
}

func (s *stubAuthFlow) Login(ctx context.Context, _ *dto.LoginRequest, _ *businessflow.ClientMetadata) *businessflow.AuthOutcome {
	s.lastCtx = ctx
	return s.outcome
}

func (s *stubAuthFlow) GetProfile(ctx context.Context, _ uint) (*models.Employee, error) {
	s.lastCtx = ctx
	return nil, nil
}

func (s *stubAuthFlow) EmailExists(ctx context.Context, _ string) (bool, error) {
	s.lastCtx = ctx
	return false, nil
}

func (s *stubAuthFlow) FindByMobile(ctx context.Context, _ string) (*models.Employee, error) {
	s.lastCtx = ctx
	return nil, nil
}

type authEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    dto.AuthResponse `json:"data"`
}

func newHandlerTestApp(t *testing.T, tokenTTL time.Duration, outcome *businessflow.AuthOutcome) (*fiber.App, *stubAuthFlow) {
	t.Helper()

	tokenService, err := services.NewTokenService(tokenTTL, "test-issuer", "test-audience", false, "", "", "test-secret-key-that-is-long-enough-123")
	require.NoError(t, err)

	flow := &stubAuthFlow{outcome: outcome}
	handler := NewAuthHandler(flow, tokenService)

	app := fiber.New()
	app.Post("/register", handler.Register)
	app.Post("/login", handler.Login)
	return app, flow
}

func successfulOutcome() *businessflow.AuthOutcome {
	return &businessflow.AuthOutcome{
		Success: true,
		Message: "Login successful",
		Token:   "stub-token",
		Employee: &dto.EmployeeDTO{
			ID:           7,
			FullName:     "Asha Rao",
			Department:   "Eng",
			EmpID:        "E100",
			MobileNo:     "9998887776",
			CompanyEmail: "asha@co.com",
		},
	}
}

func TestAuthResponseExpiresIn(t *testing.T) {
	loginBody := []byte(`{"identifier":"asha@co.com","password":"secret1"}`)
	registerBody := []byte(`{"full_name":"Asha Rao","department":"Eng","emp_id":"E100","password":"secret1","confirm_password":"secret1","mobile_no":"9998887776","company_email":"asha@co.com"}`)

	t.Run("LoginReflectsConfiguredTTL", func(t *testing.T) {
		app, _ := newHandlerTestApp(t, 2*time.Hour, successfulOutcome())

		req := httptest.NewRequest("POST", "/login", bytes.NewReader(loginBody))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var envelope authEnvelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, 7200, envelope.Data.ExpiresIn)
		assert.Equal(t, "Bearer", envelope.Data.TokenType)
	})

	t.Run("RegisterReflectsConfiguredTTL", func(t *testing.T) {
		outcome := successfulOutcome()
		outcome.Message = "Registration successful"
		app, _ := newHandlerTestApp(t, 15*time.Minute, outcome)

		req := httptest.NewRequest("POST", "/register", bytes.NewReader(registerBody))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var envelope authEnvelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		assert.Equal(t, 900, envelope.Data.ExpiresIn)
	})
}

func TestRequestContextLifetime(t *testing.T) {
	app, flow := newHandlerTestApp(t, time.Hour, successfulOutcome())

	body := []byte(`{"identifier":"asha@co.com","password":"secret1"}`)
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.NotNil(t, flow.lastCtx)
	_, hasDeadline := flow.lastCtx.Deadline()
	assert.True(t, hasDeadline)
	assert.ErrorIs(t, flow.lastCtx.Err(), context.Canceled)
}
