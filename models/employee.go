// Package models contains domain entities and business models for the authentication system
package models

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_employees_uuid" json:"uuid"`

	FullName   string `gorm:"size:100;not null" json:"full_name"`
	Department string `gorm:"size:50;not null" json:"department"`

	// EmpID and CompanyEmail carry independent uniqueness constraints; the
	// database is the final authority on both (existence checks alone race).
	EmpID        string `gorm:"size:20;not null;uniqueIndex:uk_employees_emp_id" json:"emp_id"`
	CompanyEmail string `gorm:"size:255;not null;uniqueIndex:uk_employees_company_email" json:"company_email"`

	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never serialize password hash
	MobileNo     string `gorm:"size:15;not null;index:idx_employees_mobile_no" json:"mobile_no"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_employees_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_employees_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	AuditLogs []AuditLog `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (Employee) TableName() string {
	return "employees"
}

// EmployeeFilter represents filter criteria for employee queries
type EmployeeFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	EmpID         *string
	CompanyEmail  *string
	MobileNo      *string
	Department    *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
