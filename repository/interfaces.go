// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/trackerpro/tracker-backend/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// EmployeeRepository defines operations for employee accounts
type EmployeeRepository interface {
	Repository[models.Employee, models.EmployeeFilter]
	ByEmail(ctx context.Context, email string) (*models.Employee, error)
	ByEmpID(ctx context.Context, empID string) (*models.Employee, error)
	ByMobile(ctx context.Context, mobile string) (*models.Employee, error)
	ByUUID(ctx context.Context, uuid string) (*models.Employee, error)
	ByIdentifier(ctx context.Context, identifier string) (*models.Employee, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmpID(ctx context.Context, empID string) (bool, error)
	UpdateLastLogin(ctx context.Context, employeeID uint) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByEmployee(ctx context.Context, employeeID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
