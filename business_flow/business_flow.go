// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/trackerpro/tracker-backend/app/dto"
	"github.com/trackerpro/tracker-backend/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToEmployeeDTO converts an employee model to EmployeeDTO for auth responses
func ToEmployeeDTO(employee models.Employee) dto.EmployeeDTO {
	return dto.EmployeeDTO{
		ID:           employee.ID,
		UUID:         employee.UUID.String(),
		FullName:     employee.FullName,
		Department:   employee.Department,
		EmpID:        employee.EmpID,
		MobileNo:     employee.MobileNo,
		CompanyEmail: employee.CompanyEmail,
		CreatedAt:    employee.CreatedAt,
		LastLoginAt:  employee.LastLoginAt,
	}
}
