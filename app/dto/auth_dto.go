// Package dto contains Data Transfer Objects for API request and response structures
package dto

import (
	"time"
)

// RegisterRequest represents the request payload for employee registration
type RegisterRequest struct {
	FullName        string `json:"full_name" validate:"required,min=2,max=100" example:"Asha Rao"`
	Department      string `json:"department" validate:"required,min=2,max=50" example:"Eng"`
	EmpID           string `json:"emp_id" validate:"required,min=3,max=20" example:"E100"`
	Password        string `json:"password" validate:"required,min=6,max=100" example:"secret1"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" example:"secret1"`
	MobileNo        string `json:"mobile_no" validate:"required,min=10,max=15" example:"9998887776"`
	CompanyEmail    string `json:"company_email" validate:"required,email,max=255" example:"asha@co.com"`
}

// LoginRequest represents the request payload for employee login
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=3,max=255" example:"asha@co.com or E100"`
	Password   string `json:"password" validate:"required,min=6,max=100" example:"secret1"`
}

// EmployeeDTO represents employee identity fields echoed in auth responses
type EmployeeDTO struct {
	ID           uint       `json:"id" example:"123"`
	UUID         string     `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	FullName     string     `json:"full_name" example:"Asha Rao"`
	Department   string     `json:"department" example:"Eng"`
	EmpID        string     `json:"emp_id" example:"E100"`
	MobileNo     string     `json:"mobile_no" example:"9998887776"`
	CompanyEmail string     `json:"company_email" example:"asha@co.com"`
	CreatedAt    time.Time  `json:"created_at" example:"2024-01-15T10:30:00Z"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" example:"2024-01-15T16:30:00Z"`
}

// AuthResponse represents the data payload of a successful register or login
type AuthResponse struct {
	Token     string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string      `json:"token_type" example:"Bearer"`
	ExpiresIn int         `json:"expires_in" example:"86400"`
	Employee  EmployeeDTO `json:"employee"`
}

// CheckEmailResponse represents the data payload of an email existence check
type CheckEmailResponse struct {
	Email  string `json:"email" example:"asha@co.com"`
	Exists bool   `json:"exists" example:"true"`
}

// TokenInfoResponse represents the data payload of a token validation call
type TokenInfoResponse struct {
	Valid     bool      `json:"valid" example:"true"`
	Subject   string    `json:"subject" example:"asha@co.com"`
	AccountID uint      `json:"account_id" example:"123"`
	FullName  string    `json:"full_name" example:"Asha Rao"`
	IssuedAt  time.Time `json:"issued_at" example:"2024-01-15T10:30:00Z"`
	ExpiresAt time.Time `json:"expires_at" example:"2024-01-16T10:30:00Z"`
}
