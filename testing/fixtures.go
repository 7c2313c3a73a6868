// Package testing provides test utilities and database setup for testing the authentication system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/trackerpro/tracker-backend/models"
	"github.com/trackerpro/tracker-backend/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// DefaultTestPassword is the plaintext password behind every fixture hash
const DefaultTestPassword = "TestPass123!"

// CreateTestEmployee creates an employee with unique emp id, email, and mobile
func (tf *TestFixtures) CreateTestEmployee() (*models.Employee, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(DefaultTestPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	employee := &models.Employee{
		UUID:         uuid.New(),
		FullName:     "John Doe",
		Department:   "Engineering",
		EmpID:        fmt.Sprintf("E%s", randomDigits[:6]),
		PasswordHash: string(hashedPassword),
		MobileNo:     fmt.Sprintf("9%s", randomDigits),
		CompanyEmail: fmt.Sprintf("john.doe.%s@example.com", randomDigits),
	}

	if err := tf.DB.DB.Create(employee).Error; err != nil {
		return nil, fmt.Errorf("failed to create test employee: %w", err)
	}

	return employee, nil
}

// CreateTestAuditLog creates an audit log entry for an employee
func (tf *TestFixtures) CreateTestAuditLog(employeeID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test audit log for action: %s", action)
	ipAddress := "127.0.0.1"
	userAgent := "test-agent"

	audit := &models.AuditLog{
		EmployeeID:  employeeID,
		Action:      action,
		Description: &description,
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
		Success:     utils.ToPtr(success),
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return audit, nil
}
