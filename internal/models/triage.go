package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// RiskLevel is the coarse severity bucket assigned to a symptom submission
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether the value is part of the fixed risk taxonomy.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// TriagePriority is the four-tier urgency ranking, P1 most urgent
type TriagePriority string

const (
	PriorityP1 TriagePriority = "P1"
	PriorityP2 TriagePriority = "P2"
	PriorityP3 TriagePriority = "P3"
	PriorityP4 TriagePriority = "P4"
)

// Valid reports whether the value is part of the fixed priority taxonomy.
func (p TriagePriority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return true
	}
	return false
}

// TriageSession represents one analyzed symptom submission. Rows are
// immutable after creation; risk level and priority are always written
// together.
type TriageSession struct {
	BaseModel
	UserID             *string        `gorm:"size:36;index" json:"userId"` // nil for guest submissions
	IsGuest            bool           `gorm:"default:false" json:"isGuest"`
	Symptoms           string         `gorm:"type:text;not null" json:"symptoms"`
	QuickTags          string         `gorm:"size:512" json:"-"` // comma-delimited quick-select tags
	RiskLevel          RiskLevel      `gorm:"size:10;not null" json:"riskLevel"`
	Priority           TriagePriority `gorm:"size:4;not null" json:"priority"`
	Analysis           datatypes.JSON `json:"-"` // full classifier payload as returned upstream
	Recommendations    string         `gorm:"type:text" json:"recommendations"`
	PossibleCauses     string         `gorm:"type:text" json:"possibleCauses"`
	ExpectedConditions string         `gorm:"type:text" json:"expectedConditions"`
	ActionRequired     string         `gorm:"type:text" json:"actionRequired"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TagList splits the stored delimited tag string back into a list.
func (s *TriageSession) TagList() []string {
	if s.QuickTags == "" {
		return nil
	}
	return strings.Split(s.QuickTags, ",")
}

// TriageSessionView is the API representation of a triage session.
type TriageSessionView struct {
	ID                 string         `json:"id"`
	UserID             *string        `json:"userId"`
	IsGuest            bool           `json:"isGuest"`
	Symptoms           string         `json:"symptoms"`
	QuickTags          []string       `json:"quickTriageTypes,omitempty"`
	RiskLevel          RiskLevel      `json:"riskLevel"`
	Priority           TriagePriority `json:"priority"`
	Recommendations    string         `json:"recommendations"`
	PossibleCauses     string         `json:"possibleCauses"`
	ExpectedConditions string         `json:"expectedConditions"`
	ActionRequired     string         `json:"actionRequired"`
	CreatedAt          time.Time      `json:"createdAt"`
}

// View builds the API representation of the session.
func (s *TriageSession) View() TriageSessionView {
	return TriageSessionView{
		ID:                 s.ID,
		UserID:             s.UserID,
		IsGuest:            s.IsGuest,
		Symptoms:           s.Symptoms,
		QuickTags:          s.TagList(),
		RiskLevel:          s.RiskLevel,
		Priority:           s.Priority,
		Recommendations:    s.Recommendations,
		PossibleCauses:     s.PossibleCauses,
		ExpectedConditions: s.ExpectedConditions,
		ActionRequired:     s.ActionRequired,
		CreatedAt:          s.CreatedAt,
	}
}
