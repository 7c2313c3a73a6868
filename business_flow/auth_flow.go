// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/trackerpro/tracker-backend/app/dto"
	"github.com/trackerpro/tracker-backend/app/services"
	"github.com/trackerpro/tracker-backend/models"
	"github.com/trackerpro/tracker-backend/repository"
	"github.com/trackerpro/tracker-backend/utils"
	"gorm.io/gorm"
)

// Outcome messages. Unknown identifier and wrong password share one message
// so a caller cannot probe which part of the credentials was incorrect.
const (
	msgPasswordMismatch   = "Password and confirm password do not match"
	msgEmailExists        = "Email already exists"
	msgEmpIDExists        = "Employee ID already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgRegisterSuccessful = "Registration successful"
	msgRegisterFailed     = "Registration failed"
	msgLoginSuccessful    = "Login successful"
	msgLoginFailed        = "Login failed"
)

// AuthFlow handles employee registration, login, and registry lookups.
// Register and Login always return an outcome and never propagate a fault.
type AuthFlow interface {
	Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) *AuthOutcome
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) *AuthOutcome
	GetProfile(ctx context.Context, accountID uint) (*models.Employee, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	FindByMobile(ctx context.Context, mobile string) (*models.Employee, error)
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	employeeRepo   repository.EmployeeRepository
	auditRepo      repository.AuditLogRepository
	passwordHasher services.PasswordHasher
	tokenService   services.TokenService
	db             *gorm.DB
	cache          *redis.Client // optional, nil disables caching
}

// NewAuthFlow creates a new authentication flow instance
func NewAuthFlow(
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditLogRepository,
	passwordHasher services.PasswordHasher,
	tokenService services.TokenService,
	db *gorm.DB,
	cache *redis.Client,
) AuthFlow {
	return &AuthFlowImpl{
		employeeRepo:   employeeRepo,
		auditRepo:      auditRepo,
		passwordHasher: passwordHasher,
		tokenService:   tokenService,
		db:             db,
		cache:          cache,
	}
}

// Register creates a new employee account and issues a token for it
func (f *AuthFlowImpl) Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) *AuthOutcome {
	if req.Password != req.ConfirmPassword {
		return failureOutcome(FailurePasswordMismatch, msgPasswordMismatch, ErrPasswordMismatch)
	}

	// Advisory pre-checks so the common conflict case gets a precise message.
	// The database unique constraints remain the final authority (§Save).
	if exists, err := f.employeeRepo.ExistsByEmail(ctx, req.CompanyEmail); err != nil {
		return f.registerFault(ctx, nil, err, metadata)
	} else if exists {
		return failureOutcome(FailureEmailExists, msgEmailExists, ErrEmailAlreadyExists)
	}

	if exists, err := f.employeeRepo.ExistsByEmpID(ctx, req.EmpID); err != nil {
		return f.registerFault(ctx, nil, err, metadata)
	} else if exists {
		return failureOutcome(FailureEmpIDExists, msgEmpIDExists, ErrEmpIDAlreadyExists)
	}

	hashedPassword, err := f.passwordHasher.Hash(req.Password)
	if err != nil {
		return f.registerFault(ctx, nil, err, metadata)
	}

	employee := &models.Employee{
		UUID:         uuid.New(),
		FullName:     req.FullName,
		Department:   req.Department,
		EmpID:        req.EmpID,
		PasswordHash: hashedPassword,
		MobileNo:     req.MobileNo,
		CompanyEmail: strings.ToLower(strings.TrimSpace(req.CompanyEmail)),
	}

	if err := f.employeeRepo.Save(ctx, employee); err != nil {
		// Two registrations raced past the pre-checks; the constraint
		// decided, and the loser gets a conflict outcome, not a fault.
		if repository.IsDuplicateKey(err) {
			return f.registerConflict(ctx, employee, err, metadata)
		}
		return f.registerFault(ctx, employee, err, metadata)
	}

	token, err := f.tokenService.GenerateToken(employee.CompanyEmail, employee.ID, employee.FullName)
	if err != nil {
		return f.registerFault(ctx, employee, err, metadata)
	}

	f.invalidateEmailCache(ctx, employee.CompanyEmail)

	msg := fmt.Sprintf("Employee registered successfully: %d", employee.ID)
	_ = f.createAuditLog(ctx, employee, models.AuditActionRegisterCompleted, msg, true, nil, metadata)

	return successOutcome(msgRegisterSuccessful, token, utils.ToPtr(ToEmployeeDTO(*employee)))
}

// Login authenticates an employee by company email or employee id plus password
func (f *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) *AuthOutcome {
	employee, err := f.employeeRepo.ByIdentifier(ctx, req.Identifier)
	if err != nil {
		return f.loginFault(ctx, nil, err, metadata)
	}
	if employee == nil {
		return f.loginRejected(ctx, nil, ErrEmployeeNotFound, metadata)
	}

	if !f.passwordHasher.Verify(req.Password, employee.PasswordHash) {
		return f.loginRejected(ctx, employee, ErrIncorrectPassword, metadata)
	}

	token, err := f.tokenService.GenerateToken(employee.CompanyEmail, employee.ID, employee.FullName)
	if err != nil {
		return f.loginFault(ctx, employee, err, metadata)
	}

	// Best effort: a login is valid even if the timestamp refresh fails
	if err := f.employeeRepo.UpdateLastLogin(ctx, employee.ID); err == nil {
		employee.LastLoginAt = utils.UTCNowPtr()
	}

	msg := fmt.Sprintf("Employee logged in successfully: %d", employee.ID)
	_ = f.createAuditLog(ctx, employee, models.AuditActionLoginSuccess, msg, true, nil, metadata)

	return successOutcome(msgLoginSuccessful, token, utils.ToPtr(ToEmployeeDTO(*employee)))
}

// GetProfile retrieves an employee by account ID. Absence is nil, not an error.
func (f *AuthFlowImpl) GetProfile(ctx context.Context, accountID uint) (*models.Employee, error) {
	return f.employeeRepo.ByID(ctx, accountID)
}

// EmailExists checks whether a company email is registered, consulting the
// cache first when one is configured
func (f *AuthFlowImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	key := emailCacheKey(email)

	if f.cache != nil {
		if cached, err := f.cache.Get(ctx, key).Result(); err == nil {
			return cached == "1", nil
		}
	}

	exists, err := f.employeeRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}

	if f.cache != nil {
		value := "0"
		if exists {
			value = "1"
		}
		_ = f.cache.Set(ctx, key, value, utils.EmailExistsCacheTTL).Err()
	}

	return exists, nil
}

// FindByMobile retrieves an employee by mobile number (password-reset eligibility lookup)
func (f *AuthFlowImpl) FindByMobile(ctx context.Context, mobile string) (*models.Employee, error) {
	return f.employeeRepo.ByMobile(ctx, mobile)
}

// Private helper methods

func (f *AuthFlowImpl) registerConflict(ctx context.Context, employee *models.Employee, cause error, metadata *ClientMetadata) *AuthOutcome {
	errMsg := fmt.Sprintf("Registration conflict: %s", cause.Error())
	_ = f.createAuditLog(ctx, nil, models.AuditActionRegisterFailed, errMsg, false, &errMsg, metadata)

	// Decide which key lost the race so the message stays precise
	if exists, err := f.employeeRepo.ExistsByEmail(ctx, employee.CompanyEmail); err == nil && exists {
		return failureOutcome(FailureEmailExists, msgEmailExists, ErrEmailAlreadyExists)
	}

	return failureOutcome(FailureEmpIDExists, msgEmpIDExists, ErrEmpIDAlreadyExists)
}

func (f *AuthFlowImpl) registerFault(ctx context.Context, employee *models.Employee, cause error, metadata *ClientMetadata) *AuthOutcome {
	errMsg := fmt.Sprintf("Registration failed: %s", cause.Error())
	_ = f.createAuditLog(ctx, employee, models.AuditActionRegisterFailed, errMsg, false, &errMsg, metadata)

	return failureOutcome(FailureStorage, msgRegisterFailed, NewBusinessError("REGISTRATION_FAILED", msgRegisterFailed, cause))
}

func (f *AuthFlowImpl) loginRejected(ctx context.Context, employee *models.Employee, cause error, metadata *ClientMetadata) *AuthOutcome {
	errMsg := fmt.Sprintf("Login rejected: %s", cause.Error())
	_ = f.createAuditLog(ctx, employee, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

	return failureOutcome(FailureInvalidCredentials, msgInvalidCredentials, cause)
}

func (f *AuthFlowImpl) loginFault(ctx context.Context, employee *models.Employee, cause error, metadata *ClientMetadata) *AuthOutcome {
	errMsg := fmt.Sprintf("Login failed: %s", cause.Error())
	_ = f.createAuditLog(ctx, employee, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

	return failureOutcome(FailureStorage, msgLoginFailed, NewBusinessError("LOGIN_FAILED", msgLoginFailed, cause))
}

func (f *AuthFlowImpl) invalidateEmailCache(ctx context.Context, email string) {
	if f.cache == nil {
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = f.cache.Del(cacheCtx, emailCacheKey(email)).Err()
}

func emailCacheKey(email string) string {
	return "email_exists:" + strings.ToLower(strings.TrimSpace(email))
}

func (f *AuthFlowImpl) createAuditLog(ctx context.Context, employee *models.Employee, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	var employeeID *uint
	if employee != nil && employee.ID != 0 {
		employeeID = &employee.ID
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		EmployeeID:   employeeID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}

	// Extract request ID from context if available
	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return f.auditRepo.Save(ctx, audit)
}
