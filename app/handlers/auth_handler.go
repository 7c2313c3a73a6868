// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/trackerpro/tracker-backend/app/dto"
	"github.com/trackerpro/tracker-backend/app/middleware"
	"github.com/trackerpro/tracker-backend/app/services"
	businessflow "github.com/trackerpro/tracker-backend/business_flow"
	"github.com/trackerpro/tracker-backend/utils"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Health(c fiber.Ctx) error
	Register(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Profile(c fiber.Ctx) error
	CheckEmail(c fiber.Ctx) error
	ForgotPassword(c fiber.Ctx) error
	ValidateToken(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authFlow     businessflow.AuthFlow
	tokenService services.TokenService
	validator    *validator.Validate
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authFlow businessflow.AuthFlow, tokenService services.TokenService) *AuthHandler {
	return &AuthHandler{
		authFlow:     authFlow,
		tokenService: tokenService,
		validator:    validator.New(),
	}
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Health reports service liveness
func (h *AuthHandler) Health(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Auth service is running", fiber.Map{
		"status": "ok",
		"time":   utils.UTCNow(),
	})
}

// Register handles the employee registration process
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := h.clientMetadata(c)

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	outcome := h.authFlow.Register(ctx, &req, metadata)
	middleware.ObserveAuthOutcome("register", string(outcome.Kind))
	if !outcome.Success {
		switch outcome.Kind {
		case businessflow.FailurePasswordMismatch:
			return h.ErrorResponse(c, fiber.StatusBadRequest, outcome.Message, "PASSWORD_MISMATCH", nil)
		case businessflow.FailureEmailExists:
			return h.ErrorResponse(c, fiber.StatusConflict, outcome.Message, "EMAIL_EXISTS", nil)
		case businessflow.FailureEmpIDExists:
			return h.ErrorResponse(c, fiber.StatusConflict, outcome.Message, "EMP_ID_EXISTS", nil)
		default:
			log.Println("Registration failed", outcome.Err)
			return h.ErrorResponse(c, fiber.StatusInternalServerError, outcome.Message, "REGISTRATION_FAILED", nil)
		}
	}

	return h.SuccessResponse(c, fiber.StatusOK, outcome.Message, dto.AuthResponse{
		Token:     outcome.Token,
		TokenType: "Bearer",
		ExpiresIn: int(h.tokenService.TokenTTL().Seconds()),
		Employee:  *outcome.Employee,
	})
}

// Login handles employee authentication by company email or employee id
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := h.clientMetadata(c)

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	outcome := h.authFlow.Login(ctx, &req, metadata)
	middleware.ObserveAuthOutcome("login", string(outcome.Kind))
	if !outcome.Success {
		if outcome.Kind == businessflow.FailureInvalidCredentials {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, outcome.Message, "INVALID_CREDENTIALS", nil)
		}
		log.Println("Login failed", outcome.Err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, outcome.Message, "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, outcome.Message, dto.AuthResponse{
		Token:     outcome.Token,
		TokenType: "Bearer",
		ExpiresIn: int(h.tokenService.TokenTTL().Seconds()),
		Employee:  *outcome.Employee,
	})
}

// Profile returns the account of the authenticated employee. The account id
// comes from the validated token, never from the request.
func (h *AuthHandler) Profile(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok || accountID == 0 {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	employee, err := h.authFlow.GetProfile(ctx, accountID)
	if err != nil {
		log.Println("Profile lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load profile", "PROFILE_FAILED", nil)
	}
	if employee == nil {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Employee not found", "EMPLOYEE_NOT_FOUND", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Profile retrieved successfully", businessflow.ToEmployeeDTO(*employee))
}

// CheckEmail reports whether a company email is already registered
func (h *AuthHandler) CheckEmail(c fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "email query parameter is required", "INVALID_REQUEST", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	exists, err := h.authFlow.EmailExists(ctx, email)
	if err != nil {
		log.Println("Email check failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Email check failed", "EMAIL_CHECK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Email check completed", dto.CheckEmailResponse{
		Email:  email,
		Exists: exists,
	})
}

// ForgotPassword checks reset eligibility by mobile number or company email.
// The response is deliberately the same whether or not the identifier is
// registered.
func (h *AuthHandler) ForgotPassword(c fiber.Ctx) error {
	identifier := c.Query("identifier")
	if identifier == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "identifier query parameter is required", "INVALID_REQUEST", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	employee, err := h.authFlow.FindByMobile(ctx, identifier)
	if err != nil {
		log.Println("Forgot password lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lookup failed", "LOOKUP_FAILED", nil)
	}
	if employee == nil {
		if _, err := h.authFlow.EmailExists(ctx, identifier); err != nil {
			log.Println("Forgot password lookup failed", err)
			return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lookup failed", "LOOKUP_FAILED", nil)
		}
	}

	return h.SuccessResponse(c, fiber.StatusOK, "If the account is registered, reset instructions will be sent", nil)
}

// ValidateToken validates a bearer token and echoes its claims
func (h *AuthHandler) ValidateToken(c fiber.Ctx) error {
	token := extractBearerToken(c.Get("Authorization"))
	if token == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Missing bearer token", "MISSING_TOKEN", nil)
	}

	claims, err := h.tokenService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, services.ErrTokenExpired) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Token has expired", "TOKEN_EXPIRED", nil)
		}
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token", "TOKEN_INVALID", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Token is valid", dto.TokenInfoResponse{
		Valid:     true,
		Subject:   claims.Subject,
		AccountID: claims.AccountID,
		FullName:  claims.FullName,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	})
}

func (h *AuthHandler) clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if requestID := c.Get(businessflow.RequestIDKey); requestID != "" {
		metadata.SetRequestID(requestID)
	}
	return metadata
}

// createRequestContext creates a context with timeout and request-scoped
// values. Callers must invoke the returned cancel func when the request is
// done.
func (h *AuthHandler) createRequestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	if requestID := c.Get(businessflow.RequestIDKey); requestID != "" {
		ctx = context.WithValue(ctx, businessflow.RequestIDKey, requestID)
	}

	return ctx, cancel
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
