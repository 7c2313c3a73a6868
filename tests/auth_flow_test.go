// Package tests contains integration tests for the authentication flow
package tests

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackerpro/tracker-backend/app/dto"
	"github.com/trackerpro/tracker-backend/app/services"
	businessflow "github.com/trackerpro/tracker-backend/business_flow"
	"github.com/trackerpro/tracker-backend/models"
	"github.com/trackerpro/tracker-backend/repository"
	testingutil "github.com/trackerpro/tracker-backend/testing"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFlow(t *testing.T, testDB *testingutil.TestDB) (businessflow.AuthFlow, services.TokenService) {
	t.Helper()

	employeeRepo := repository.NewEmployeeRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	passwordHasher := services.NewPasswordHasher(bcrypt.MinCost)

	tokenService, err := services.NewTokenService(1*time.Hour, "test-issuer", "test-audience", false, "", "", "test-secret-key-that-is-long-enough-123")
	require.NoError(t, err)

	flow := businessflow.NewAuthFlow(employeeRepo, auditRepo, passwordHasher, tokenService, testDB.DB, nil)
	return flow, tokenService
}

func registerRequest(suffix string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FullName:        "Asha Rao",
		Department:      "Engineering",
		EmpID:           "E" + suffix,
		Password:        "secret1",
		ConfirmPassword: "secret1",
		MobileNo:        "99988877" + suffix,
		CompanyEmail:    fmt.Sprintf("asha.%s@example.com", suffix),
	}
}

func testMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
}

func TestRegisterFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow, tokenService := newAuthFlow(t, testDB)
		ctx := context.Background()

		t.Run("SuccessfulRegistration", func(t *testing.T) {
			outcome := flow.Register(ctx, registerRequest("100"), testMetadata())
			require.True(t, outcome.Success, "outcome: %+v", outcome)
			assert.NotEmpty(t, outcome.Token)
			require.NotNil(t, outcome.Employee)
			assert.Equal(t, "E100", outcome.Employee.EmpID)
			assert.Equal(t, "asha.100@example.com", outcome.Employee.CompanyEmail)
			assert.NotEmpty(t, outcome.Employee.UUID)

			// Token issued at registration is immediately usable
			claims, err := tokenService.ValidateToken(outcome.Token)
			require.NoError(t, err)
			assert.Equal(t, outcome.Employee.ID, claims.AccountID)
			assert.Equal(t, outcome.Employee.CompanyEmail, claims.Subject)
		})

		t.Run("PasswordMismatchCreatesNoAccount", func(t *testing.T) {
			req := registerRequest("101")
			req.ConfirmPassword = "different"

			outcome := flow.Register(ctx, req, testMetadata())
			require.False(t, outcome.Success)
			assert.Equal(t, businessflow.FailurePasswordMismatch, outcome.Kind)
			assert.True(t, businessflow.IsPasswordMismatch(outcome.Err))
			assert.Empty(t, outcome.Token)

			exists, err := flow.EmailExists(ctx, req.CompanyEmail)
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("DuplicateEmailIsRejected", func(t *testing.T) {
			first := registerRequest("102")
			outcome := flow.Register(ctx, first, testMetadata())
			require.True(t, outcome.Success)

			second := registerRequest("103")
			second.CompanyEmail = first.CompanyEmail
			outcome = flow.Register(ctx, second, testMetadata())
			require.False(t, outcome.Success)
			assert.Equal(t, businessflow.FailureEmailExists, outcome.Kind)
			assert.Equal(t, "Email already exists", outcome.Message)
			assert.True(t, businessflow.IsEmailAlreadyExists(outcome.Err))
		})

		t.Run("DuplicateEmailIsCaseInsensitive", func(t *testing.T) {
			first := registerRequest("104")
			outcome := flow.Register(ctx, first, testMetadata())
			require.True(t, outcome.Success)

			second := registerRequest("105")
			second.CompanyEmail = "ASHA.104@EXAMPLE.COM"
			outcome = flow.Register(ctx, second, testMetadata())
			require.False(t, outcome.Success)
			assert.Equal(t, businessflow.FailureEmailExists, outcome.Kind)
		})

		t.Run("DuplicateEmpIDIsRejected", func(t *testing.T) {
			first := registerRequest("106")
			outcome := flow.Register(ctx, first, testMetadata())
			require.True(t, outcome.Success)

			second := registerRequest("107")
			second.EmpID = first.EmpID
			outcome = flow.Register(ctx, second, testMetadata())
			require.False(t, outcome.Success)
			assert.Equal(t, businessflow.FailureEmpIDExists, outcome.Kind)
			assert.Equal(t, "Employee ID already exists", outcome.Message)
			assert.True(t, businessflow.IsEmpIDAlreadyExists(outcome.Err))
		})

		t.Run("StoredEmailIsLowercased", func(t *testing.T) {
			req := registerRequest("108")
			req.CompanyEmail = "MiXeD.108@Example.Com"
			outcome := flow.Register(ctx, req, testMetadata())
			require.True(t, outcome.Success)
			assert.Equal(t, "mixed.108@example.com", outcome.Employee.CompanyEmail)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestConcurrentRegistration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow, _ := newAuthFlow(t, testDB)

		// All goroutines race on the same employee id with distinct emails.
		// Exactly one must win; the rest get a conflict outcome.
		const workers = 8
		var wg sync.WaitGroup
		outcomes := make([]*businessflow.AuthOutcome, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				req := registerRequest(fmt.Sprintf("2%02d", i))
				req.EmpID = "E999"
				outcomes[i] = flow.Register(context.Background(), req, testMetadata())
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, outcome := range outcomes {
			require.NotNil(t, outcome)
			if outcome.Success {
				successes++
			} else {
				assert.Equal(t, businessflow.FailureEmpIDExists, outcome.Kind)
			}
		}
		assert.Equal(t, 1, successes)

		// The registry holds exactly one account for the contested id
		var count int64
		require.NoError(t, testDB.DB.Model(&models.Employee{}).Where("emp_id = ?", "E999").Count(&count).Error)
		assert.EqualValues(t, 1, count)

		return nil
	})
	require.NoError(t, err)
}

func TestLoginFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow, tokenService := newAuthFlow(t, testDB)
		ctx := context.Background()

		req := registerRequest("300")
		outcome := flow.Register(ctx, req, testMetadata())
		require.True(t, outcome.Success)

		t.Run("LoginWithEmail", func(t *testing.T) {
			result := flow.Login(ctx, &dto.LoginRequest{
				Identifier: req.CompanyEmail,
				Password:   req.Password,
			}, testMetadata())
			require.True(t, result.Success, "outcome: %+v", result)
			assert.NotEmpty(t, result.Token)

			claims, err := tokenService.ValidateToken(result.Token)
			require.NoError(t, err)
			assert.Equal(t, req.CompanyEmail, claims.Subject)

			// Last login timestamp is refreshed
			require.NotNil(t, result.Employee)
			assert.NotNil(t, result.Employee.LastLoginAt)
		})

		t.Run("LoginWithEmpID", func(t *testing.T) {
			result := flow.Login(ctx, &dto.LoginRequest{
				Identifier: req.EmpID,
				Password:   req.Password,
			}, testMetadata())
			require.True(t, result.Success)
			assert.Equal(t, req.EmpID, result.Employee.EmpID)
		})

		t.Run("LoginWithMixedCaseEmail", func(t *testing.T) {
			result := flow.Login(ctx, &dto.LoginRequest{
				Identifier: "ASHA.300@EXAMPLE.COM",
				Password:   req.Password,
			}, testMetadata())
			require.True(t, result.Success)
		})

		t.Run("WrongPasswordAndUnknownIdentifierLookTheSame", func(t *testing.T) {
			wrongPassword := flow.Login(ctx, &dto.LoginRequest{
				Identifier: req.CompanyEmail,
				Password:   "wrong-password",
			}, testMetadata())
			require.False(t, wrongPassword.Success)

			unknownIdentifier := flow.Login(ctx, &dto.LoginRequest{
				Identifier: "nobody@example.com",
				Password:   req.Password,
			}, testMetadata())
			require.False(t, unknownIdentifier.Success)

			// Enumeration resistance: identical kind and message
			assert.Equal(t, businessflow.FailureInvalidCredentials, wrongPassword.Kind)
			assert.Equal(t, businessflow.FailureInvalidCredentials, unknownIdentifier.Kind)
			assert.Equal(t, wrongPassword.Message, unknownIdentifier.Message)
			assert.Equal(t, "Invalid credentials", wrongPassword.Message)
			assert.True(t, businessflow.IsIncorrectPassword(wrongPassword.Err))
			assert.True(t, businessflow.IsEmployeeNotFound(unknownIdentifier.Err))
			assert.Empty(t, wrongPassword.Token)
			assert.Empty(t, unknownIdentifier.Token)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRegistryLookups(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow, _ := newAuthFlow(t, testDB)
		ctx := context.Background()

		req := registerRequest("400")
		outcome := flow.Register(ctx, req, testMetadata())
		require.True(t, outcome.Success)

		t.Run("GetProfile", func(t *testing.T) {
			employee, err := flow.GetProfile(ctx, outcome.Employee.ID)
			require.NoError(t, err)
			require.NotNil(t, employee)
			assert.Equal(t, req.EmpID, employee.EmpID)
		})

		t.Run("GetProfileUnknownIDIsNil", func(t *testing.T) {
			employee, err := flow.GetProfile(ctx, 999999)
			require.NoError(t, err)
			assert.Nil(t, employee)
		})

		t.Run("EmailExists", func(t *testing.T) {
			exists, err := flow.EmailExists(ctx, req.CompanyEmail)
			require.NoError(t, err)
			assert.True(t, exists)

			exists, err = flow.EmailExists(ctx, "nobody@example.com")
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("FindByMobile", func(t *testing.T) {
			employee, err := flow.FindByMobile(ctx, req.MobileNo)
			require.NoError(t, err)
			require.NotNil(t, employee)
			assert.Equal(t, req.EmpID, employee.EmpID)

			employee, err = flow.FindByMobile(ctx, "0000000000")
			require.NoError(t, err)
			assert.Nil(t, employee)
		})

		t.Run("AuditTrailRecordsOutcomes", func(t *testing.T) {
			auditRepo := repository.NewAuditLogRepository(testDB.DB)
			logs, err := auditRepo.ListByAction(ctx, models.AuditActionRegisterCompleted, 10, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, logs)
		})

		return nil
	})
	require.NoError(t, err)
}
