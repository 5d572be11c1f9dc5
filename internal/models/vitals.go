package models

import (
	"time"
)

// VitalSigns represents one recorded set of measurements. The log is
// append-only; there are no update or delete flows.
type VitalSigns struct {
	BaseModel
	UserID           string    `gorm:"size:36;index;not null" json:"userId"`
	HeartRate        int       `gorm:"not null" json:"heartRate"` // beats per minute
	TemperatureC     float64   `gorm:"not null" json:"temperatureC"`
	SystolicBP       int       `gorm:"not null" json:"systolicBP"` // mmHg
	DiastolicBP      int       `gorm:"not null" json:"diastolicBP"`
	OxygenSaturation int       `gorm:"not null" json:"oxygenSaturation"` // SpO2 percent
	RespiratoryRate  int       `gorm:"not null" json:"respiratoryRate"`  // breaths per minute
	Notes            string    `gorm:"type:text" json:"notes,omitempty"`
	RecordedAt       time.Time `gorm:"index" json:"recordedAt"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
