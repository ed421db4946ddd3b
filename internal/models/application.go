package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is a tenant's rental application against one property.
// One pending application per (property, tenant) pair.
type Application struct {
	ID         uuid.UUID         `json:"id" db:"id"`
	PropertyID uuid.UUID         `json:"propertyId" db:"property_id"`
	TenantID   uuid.UUID         `json:"tenantId" db:"tenant_id"`
	Message    string            `json:"message" db:"message"`
	Status     ApplicationStatus `json:"status" db:"status"`
	AppliedAt  time.Time         `json:"appliedDate" db:"applied_at"`
	DecidedAt  *time.Time        `json:"decidedDate,omitempty" db:"decided_at"`

	// Joined display fields, populated by list queries.
	PropertyTitle    string `json:"propertyTitle,omitempty" db:"-"`
	PropertyLocation string `json:"propertyLocation,omitempty" db:"-"`
	TenantName       string `json:"tenantName,omitempty" db:"-"`
	TenantEmail      string `json:"tenantEmail,omitempty" db:"-"`
}

type SavedProperty struct {
	TenantID   uuid.UUID `json:"tenantId" db:"tenant_id"`
	PropertyID uuid.UUID `json:"propertyId" db:"property_id"`
	SavedAt    time.Time `json:"savedDate" db:"saved_at"`
}
