package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account in the system
type User struct {
	BaseModel
	Email             string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password          string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName         string     `gorm:"size:100" json:"firstName"`
	LastName          string     `gorm:"size:100" json:"lastName"`
	PhoneNumber       string     `gorm:"size:30" json:"phoneNumber,omitempty"`
	DateOfBirth       *time.Time `json:"dateOfBirth,omitempty"`
	Allergies         string     `gorm:"type:text" json:"allergies,omitempty"`
	ChronicConditions string     `gorm:"type:text" json:"chronicConditions,omitempty"`

	// Relations (not always preloaded)
	TriageSessions []TriageSession `gorm:"foreignKey:UserID" json:"-"`
	Vitals         []VitalSigns    `gorm:"foreignKey:UserID" json:"-"`
	Consultations  []Consultation  `gorm:"foreignKey:UserID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	PhoneNumber       string     `json:"phoneNumber,omitempty"`
	DateOfBirth       *time.Time `json:"dateOfBirth,omitempty"`
	Allergies         string     `json:"allergies,omitempty"`
	ChronicConditions string     `json:"chronicConditions,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		PhoneNumber:       u.PhoneNumber,
		DateOfBirth:       u.DateOfBirth,
		Allergies:         u.Allergies,
		ChronicConditions: u.ChronicConditions,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}
