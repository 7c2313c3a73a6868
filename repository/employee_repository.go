// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/trackerpro/tracker-backend/models"
	"github.com/trackerpro/tracker-backend/utils"
	"gorm.io/gorm"
)

// EmployeeRepositoryImpl implements EmployeeRepository interface
type EmployeeRepositoryImpl struct {
	*BaseRepository[models.Employee, models.EmployeeFilter]
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &EmployeeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Employee, models.EmployeeFilter](db),
	}
}

// ByEmail retrieves an employee by company email. Comparison is
// case-insensitive, matching the uniqueness policy enforced at creation.
func (r *EmployeeRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Employee, error) {
	db := r.getDB(ctx)

	var employee models.Employee
	err := db.Where("LOWER(company_email) = LOWER(?)", strings.TrimSpace(email)).
		Order("id DESC").
		First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee by email: %w", err)
	}

	return &employee, nil
}

// ByEmpID retrieves an employee by employee identifier
func (r *EmployeeRepositoryImpl) ByEmpID(ctx context.Context, empID string) (*models.Employee, error) {
	filter := models.EmployeeFilter{EmpID: &empID}
	employees, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee by emp ID: %w", err)
	}

	if len(employees) == 0 {
		return nil, nil
	}

	return employees[0], nil
}

// ByMobile retrieves an employee by mobile number (exact match)
func (r *EmployeeRepositoryImpl) ByMobile(ctx context.Context, mobile string) (*models.Employee, error) {
	filter := models.EmployeeFilter{MobileNo: &mobile}
	employees, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee by mobile: %w", err)
	}

	if len(employees) == 0 {
		return nil, nil
	}

	return employees[0], nil
}

// ByUUID retrieves an employee by its UUID handle
func (r *EmployeeRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Employee, error) {
	db := r.getDB(ctx)

	var employee models.Employee
	err := db.Where("uuid = ?", uuid).Order("id DESC").First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee by UUID: %w", err)
	}

	return &employee, nil
}

// ByIdentifier resolves a login identifier, matching company email first and
// employee identifier second. Absence is nil, not an error.
func (r *EmployeeRepositoryImpl) ByIdentifier(ctx context.Context, identifier string) (*models.Employee, error) {
	identifier = strings.TrimSpace(identifier)

	employee, err := r.ByEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if employee != nil {
		return employee, nil
	}

	return r.ByEmpID(ctx, identifier)
}

// ExistsByEmail checks whether a company email is already registered
func (r *EmployeeRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Employee{}).
		Where("LOWER(company_email) = LOWER(?)", strings.TrimSpace(email)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return count > 0, nil
}

// ExistsByEmpID checks whether an employee identifier is already registered
func (r *EmployeeRepositoryImpl) ExistsByEmpID(ctx context.Context, empID string) (bool, error) {
	count, err := r.Count(ctx, models.EmployeeFilter{EmpID: &empID})
	if err != nil {
		return false, fmt.Errorf("failed to check emp ID existence: %w", err)
	}

	return count > 0, nil
}

// UpdateLastLogin refreshes the last-login and update timestamps
func (r *EmployeeRepositoryImpl) UpdateLastLogin(ctx context.Context, employeeID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	err = db.Model(&models.Employee{}).
		Where("id = ?", employeeID).
		Updates(map[string]any{
			"last_login_at": now,
			"updated_at":    now,
		}).Error
	if err != nil {
		err = fmt.Errorf("failed to update last login: %w", err)
		return err
	}

	return nil
}

// applyFilter applies employee filter conditions to the query
func (r *EmployeeRepositoryImpl) applyFilter(query *gorm.DB, filter models.EmployeeFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.EmpID != nil {
		query = query.Where("emp_id = ?", *filter.EmpID)
	}
	if filter.CompanyEmail != nil {
		query = query.Where("LOWER(company_email) = LOWER(?)", *filter.CompanyEmail)
	}
	if filter.MobileNo != nil {
		query = query.Where("mobile_no = ?", *filter.MobileNo)
	}
	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	return query
}

// ByFilter retrieves employees based on filter criteria
func (r *EmployeeRepositoryImpl) ByFilter(ctx context.Context, filter models.EmployeeFilter, orderBy string, limit, offset int) ([]*models.Employee, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Employee{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var employees []*models.Employee
	err := query.Find(&employees).Error
	if err != nil {
		return nil, err
	}

	return employees, nil
}

// Count returns the number of employees matching the filter
func (r *EmployeeRepositoryImpl) Count(ctx context.Context, filter models.EmployeeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Employee{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any employee matching the filter exists
func (r *EmployeeRepositoryImpl) Exists(ctx context.Context, filter models.EmployeeFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
