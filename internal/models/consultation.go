package models

import (
	"time"
)

// ConsultationType represents the kind of consultation being requested
type ConsultationType string

const (
	ConsultationChronicCare ConsultationType = "chronic-care"
	ConsultationUrgent      ConsultationType = "urgent"
	ConsultationFollowUp    ConsultationType = "follow-up"
)

// ConsultationStatus represents the status of a consultation booking
type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "pending"
	ConsultationConfirmed ConsultationStatus = "confirmed"
	ConsultationCompleted ConsultationStatus = "completed"
	ConsultationCancelled ConsultationStatus = "cancelled"
)

// Consultation represents a booking request. Bookings are always created
// as pending; status transitions happen through the care-team tooling, not
// through this API.
type Consultation struct {
	BaseModel
	UserID          string             `gorm:"size:36;index;not null" json:"userId"`
	TriageSessionID *string            `gorm:"size:36;index" json:"triageSessionId"`
	Type            ConsultationType   `gorm:"size:20;not null" json:"consultationType"`
	Status          ConsultationStatus `gorm:"size:20;default:'pending'" json:"status"`
	ScheduledAt     *time.Time         `json:"scheduledAt,omitempty"`
	Notes           string             `gorm:"type:text" json:"notes,omitempty"`

	User          User           `gorm:"foreignKey:UserID" json:"-"`
	TriageSession *TriageSession `gorm:"foreignKey:TriageSessionID" json:"-"`
}
