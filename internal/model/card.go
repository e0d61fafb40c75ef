package model

import (
	"time"

	"github.com/google/uuid"
)

// Card status enum constants
const (
	CardStatusPending  = "PENDING"
	CardStatusApproved = "APPROVED"
	CardStatusRejected = "REJECTED"
)

// Card category constants. Category drives layout policy in the generation
// pipeline: the Employee template places the photo frame asymmetrically, so
// Employee portraits get padded before rendering.
const (
	CategoryEmployee = "Employee"
	CategoryIntern   = "Intern"
)

// DefaultClauses is the descriptive clause text stored when a submission
// does not supply its own.
const DefaultClauses = "This card remains the property of the issuing company and must be surrendered upon request or termination of engagement."

// Card represents a persisted ID-card record awaiting review. The record and
// its generated PDF artifact are produced by the same request and share one
// CorrelationID so either side can be reconciled if the other write fails.
type Card struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CorrelationID uuid.UUID `gorm:"type:uuid;not null;index" json:"correlation_id"`

	FirstName      string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string `gorm:"type:varchar(100);not null" json:"last_name"`
	EmployeeNumber string `gorm:"type:varchar(50);not null;index" json:"employee_number"`
	Position       string `gorm:"type:varchar(100);not null" json:"position"`
	Category       string `gorm:"type:varchar(20);not null" json:"category"` // Employee, Intern

	EmergencyContactName   string `gorm:"type:varchar(150)" json:"emergency_contact_name"`
	EmergencyContactNumber string `gorm:"type:varchar(30)" json:"emergency_contact_number"`
	SignatoryName          string `gorm:"type:varchar(150)" json:"signatory_name"`
	SignatoryPosition      string `gorm:"type:varchar(100)" json:"signatory_position"`
	CompanyAddress         string `gorm:"type:text" json:"company_address"`
	BarcodeValue           string `gorm:"type:varchar(100)" json:"barcode_value"`
	Clauses                string `gorm:"type:text" json:"clauses"`

	// Public asset paths under the /uploads prefix.
	PhotoPath     string `gorm:"type:text" json:"photo_path"`
	SignaturePath string `gorm:"type:text" json:"signature_path"`
	FilePath      string `gorm:"type:text" json:"file_path"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	Approver        *User      `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
