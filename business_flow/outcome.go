// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"github.com/trackerpro/tracker-backend/app/dto"
)

// FailureKind tags an AuthOutcome so the transport layer can pick the
// appropriate rejection behavior without parsing messages.
type FailureKind string

const (
	FailureNone               FailureKind = ""
	FailurePasswordMismatch   FailureKind = "password_mismatch"
	FailureEmailExists        FailureKind = "email_exists"
	FailureEmpIDExists        FailureKind = "emp_id_exists"
	FailureInvalidCredentials FailureKind = "invalid_credentials"
	FailureStorage            FailureKind = "storage_fault"
)

// AuthOutcome is the uniform result of a registration or login attempt.
// A successful outcome always carries a non-empty token; a failed outcome
// never does. Err preserves the underlying cause for logging and is not
// part of the wire response.
type AuthOutcome struct {
	Success  bool
	Kind     FailureKind
	Message  string
	Token    string
	Employee *dto.EmployeeDTO
	Err      error
}

func successOutcome(message, token string, employee *dto.EmployeeDTO) *AuthOutcome {
	return &AuthOutcome{
		Success:  true,
		Message:  message,
		Token:    token,
		Employee: employee,
	}
}

func failureOutcome(kind FailureKind, message string, err error) *AuthOutcome {
	return &AuthOutcome{
		Success: false,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}
